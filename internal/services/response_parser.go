package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ExtractionStrategy pulls a candidate structured payload out of free-form
// oracle text. ok is false when the strategy finds nothing to offer.
type ExtractionStrategy interface {
	Extract(text string) (candidate string, ok bool)
}

var fencedJSONPattern = regexp.MustCompile("(?s)```[ \\t]*(?i:json)[ \\t]*\\r?\\n(.*?)```")

// FencedJSONStrategy takes the first ```json fenced block.
type FencedJSONStrategy struct{}

func (FencedJSONStrategy) Extract(text string) (string, bool) {
	match := fencedJSONPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}

// WholeTextStrategy offers the entire response, minus surrounding whitespace
// and a bare ``` fence if the oracle used one.
type WholeTextStrategy struct{}

func (WholeTextStrategy) Extract(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") && len(text) >= 6 {
		text = strings.TrimSpace(text[3 : len(text)-3])
	}
	if text == "" {
		return "", false
	}
	return text, true
}

// ResponseParser tries its strategies in order and keeps the first
// candidate that decodes.
type ResponseParser struct {
	strategies []ExtractionStrategy
}

func NewResponseParser(strategies ...ExtractionStrategy) *ResponseParser {
	return &ResponseParser{strategies: strategies}
}

// DefaultResponseParser looks for a fenced JSON block first, then the whole text.
func DefaultResponseParser() *ResponseParser {
	return NewResponseParser(FencedJSONStrategy{}, WholeTextStrategy{})
}

func (p *ResponseParser) candidates(text string) []string {
	var out []string
	for _, strategy := range p.strategies {
		if candidate, ok := strategy.Extract(text); ok {
			out = append(out, candidate)
		}
	}
	return out
}

// Decode parses text into a fresh T, returning ErrMalformedResponse when no
// strategy yields valid JSON for T.
func Decode[T any](p *ResponseParser, text string) (T, error) {
	var lastErr error
	for _, candidate := range p.candidates(text) {
		var out T
		if err := json.Unmarshal([]byte(candidate), &out); err != nil {
			lastErr = err
			continue
		}
		return out, nil
	}

	var zero T
	if lastErr == nil {
		return zero, fmt.Errorf("%w: no structured payload found", ErrMalformedResponse)
	}
	return zero, fmt.Errorf("%w: %v", ErrMalformedResponse, lastErr)
}

// DecodeOr is Decode with a named fallback. ok reports whether the payload parsed.
func DecodeOr[T any](p *ResponseParser, text string, fallback T) (value T, ok bool) {
	out, err := Decode[T](p, text)
	if err != nil {
		return fallback, false
	}
	return out, true
}
