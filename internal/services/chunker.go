package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits guide text into overlapping pieces small enough to embed.
type TextChunker interface {
	ChunkText(text string) []string
}

type textChunker struct {
	maxSize int
	overlap int
}

// NewTextChunker sizes are in runes. Non-positive maxSize falls back to 1000,
// and an overlap that would swallow a whole chunk is cut to a quarter.
func NewTextChunker(maxSize, overlap int) TextChunker {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize / 4
	}
	return &textChunker{maxSize: maxSize, overlap: overlap}
}

// ChunkText implements TextChunker. Paragraphs are packed together while
// they fit; oversized paragraphs are packed sentence by sentence.
func (tc *textChunker) ChunkText(text string) []string {
	var units []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(para) > tc.maxSize {
			units = append(units, splitIntoSentences(para)...)
			continue
		}
		units = append(units, para)
	}

	var chunks []string
	var current strings.Builder
	fresh := false // current holds new text, not only carried overlap

	for _, unit := range units {
		if fresh && utf8.RuneCountInString(current.String())+utf8.RuneCountInString(unit)+1 > tc.maxSize {
			chunk := current.String()
			chunks = append(chunks, chunk)
			current.Reset()
			current.WriteString(lastRunes(chunk, tc.overlap))
			fresh = false
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(unit)
		fresh = true
	}

	if fresh {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitIntoSentences keeps terminal punctuation with its sentence.
func splitIntoSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
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
