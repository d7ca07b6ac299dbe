package services

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

type PDFParserService interface {
	ExtractText(data []byte) (string, error)
	ExtractFile(filePath string) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
	FilePath  string
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractText returns the text of every page, words separated by a single
// space and pages separated by a newline.
func (p *pdfParserService) ExtractText(data []byte) (string, error) {
	text, _, err := extractPages(data)
	return text, err
}

func (p *pdfParserService) ExtractFile(filePath string) (*PDFContent, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	text, pageCount, err := extractPages(data)
	if err != nil {
		return nil, err
	}

	return &PDFContent{
		Text:      text,
		PageCount: pageCount,
		FilePath:  filePath,
	}, nil
}

func extractPages(data []byte) (text string, pageCount int, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, pageCount = "", 0
			err = &ExtractionError{Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	if len(data) == 0 {
		return "", 0, &ExtractionError{Err: errors.New("empty file")}
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, &ExtractionError{Err: err}
	}

	totalPage := r.NumPage()
	pages := make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", 0, &ExtractionError{Err: fmt.Errorf("page %d: %w", pageIndex, err)}
		}

		pages = append(pages, strings.Join(strings.Fields(pageText), " "))
	}

	text = strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return "", 0, &ExtractionError{Err: errors.New("no text content found in PDF")}
	}

	return text, totalPage, nil
}

// CleanText trims every line and drops empty ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
