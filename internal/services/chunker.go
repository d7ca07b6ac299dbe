package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits guidance documents into embedding-sized pieces.
type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs paragraphs into chunks of at most maxChunkSize runes,
// falling back to sentences for oversized paragraphs. Each new chunk starts
// with the last overlap runes of the previous one.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	c := &chunkAccumulator{maxSize: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			c.add(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			c.add(sentence, " ")
		}
	}

	return c.finish()
}

type chunkAccumulator struct {
	maxSize int
	overlap int
	chunks  []string
	current strings.Builder
}

func (c *chunkAccumulator) add(piece, sep string) {
	size := utf8.RuneCountInString(c.current.String())
	if size > 0 && size+len(sep)+utf8.RuneCountInString(piece) > c.maxSize {
		c.flush()
	}

	if c.current.Len() > 0 {
		c.current.WriteString(sep)
	}
	c.current.WriteString(piece)
}

func (c *chunkAccumulator) flush() {
	prev := c.current.String()
	c.chunks = append(c.chunks, prev)
	c.current.Reset()

	if tail := getLastNChars(prev, c.overlap); tail != "" {
		c.current.WriteString(tail)
	}
}

func (c *chunkAccumulator) finish() []string {
	if c.current.Len() > 0 {
		c.chunks = append(c.chunks, c.current.String())
	}
	return c.chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func getLastNChars(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
