package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFencedJSONStrategy(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "labeled block", input: "intro\n```json\n{\"a\":1}\n```\noutro", want: `{"a":1}`, wantOK: true},
		{name: "uppercase label", input: "```JSON\n{\"a\":1}\n```", want: `{"a":1}`, wantOK: true},
		{name: "first of two blocks", input: "```json\n{\"a\":1}\n```\n```json\n{\"a\":2}\n```", want: `{"a":1}`, wantOK: true},
		{name: "unlabeled block ignored", input: "```\n{\"a\":1}\n```", wantOK: false},
		{name: "no block", input: `{"a":1}`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FencedJSONStrategy{}.Extract(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestWholeTextStrategy(t *testing.T) {
	got, ok := WholeTextStrategy{}.Extract("  ```\n{\"a\":1}\n```  ")
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, got)

	_, ok = WholeTextStrategy{}.Extract("   \n ")
	assert.False(t, ok)
}

func TestDecode_FencedThenWholeText(t *testing.T) {
	parser := DefaultResponseParser()

	out, err := Decode[sample](parser, "Sure!\n```json\n{\"name\":\"fenced\",\"count\":2}\n```")
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "fenced", Count: 2}, out)

	out, err = Decode[sample](parser, `  {"name":"bare","count":3}  `)
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "bare", Count: 3}, out)
}

func TestDecode_MalformedFenceFallsBackToWholeText(t *testing.T) {
	parser := DefaultResponseParser()

	_, err := Decode[sample](parser, "```json\n{not json}\n```")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestDecode_NoPayload(t *testing.T) {
	_, err := Decode[sample](DefaultResponseParser(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestDecodeOr(t *testing.T) {
	parser := DefaultResponseParser()
	fallback := sample{Name: "default"}

	got, ok := DecodeOr(parser, "I cannot produce JSON today.", fallback)
	assert.False(t, ok)
	assert.Equal(t, fallback, got)

	got, ok = DecodeOr(parser, `{"name":"real"}`, fallback)
	assert.True(t, ok)
	assert.Equal(t, "real", got.Name)
}
