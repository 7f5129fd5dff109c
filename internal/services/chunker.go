package services

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 150
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs paragraphs into chunks of at most maxChunkSize runes, not
// counting the overlap carried over from the previous chunk. Paragraphs that
// are too long on their own are split at sentence boundaries.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
	)

	emit := func() {
		if size == 0 {
			return
		}
		prev := current.String()
		chunks = append(chunks, prev)

		current.Reset()
		size = 0
		current.WriteString(lastRunes(prev, overlap))
	}

	add := func(piece, sep string) {
		n := utf8.RuneCountInString(piece)
		if size > 0 && size+n+len(sep) > maxChunkSize {
			emit()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
		size += n + len(sep)
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			add(para, "\n\n")
			continue
		}
		for _, sentence := range splitIntoSentences(para) {
			add(sentence, " ")
		}
	}

	if size > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitIntoSentences keeps the terminating punctuation with each sentence.
func splitIntoSentences(text string) []string {
	var (
		result []string
		start  int
	)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				result = append(result, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		result = append(result, s)
	}
	return result
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
