package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ExtractionError reports a PDF that could not be read.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from PDF: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error   { return e.Err }
func (e *ExtractionError) StatusCode() int { return http.StatusInternalServerError }

// ProviderError reports a failed call to the model provider. Status holds the
// provider's HTTP status when it returned one.
type ProviderError struct {
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) StatusCode() int {
	if e.Status >= 400 && e.Status <= 599 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// ParseError reports a model reply that is not valid JSON after cleanup.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not interpret the AI response as JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error   { return e.Err }
func (e *ParseError) StatusCode() int { return http.StatusInternalServerError }

// SchemaError reports well-formed JSON that does not match the analysis schema.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("AI response does not match the expected schema: %s %s", e.Field, e.Reason)
}

func (e *SchemaError) StatusCode() int { return http.StatusBadGateway }

type statusCoder interface {
	StatusCode() int
}

// StatusCode returns the most specific HTTP status carried by err, or 500.
func StatusCode(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// ErrorKindOf names the failure class of err for logging.
func ErrorKindOf(err error) string {
	var (
		extractionErr *ExtractionError
		providerErr   *ProviderError
		parseErr      *ParseError
		schemaErr     *SchemaError
	)

	switch {
	case errors.As(err, &extractionErr):
		return "extraction"
	case errors.As(err, &providerErr):
		return "provider"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &schemaErr):
		return "schema"
	default:
		return "internal"
	}
}
