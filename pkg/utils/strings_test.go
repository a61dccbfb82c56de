package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exactly limit", "hello", 5, "hello"},
		{"longer than limit", "hello world", 5, "hello"},
		{"empty", "", 5, ""},
		{"zero limit", "hello", 0, ""},
		{"multi-byte kept whole", "héllo wörld", 7, "héllo w"},
		{"cjk", "日本語のテキスト", 3, "日本語"},
		{"emoji", "ab😀cd", 3, "ab😀"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateRunes(tt.input, tt.maxLen)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncateRunes_LongInput(t *testing.T) {
	input := strings.Repeat("x", 450)
	assert.Len(t, TruncateRunes(input, 400), 400)
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"  leading and trailing  ", "leading and trailing"},
		{"line1\nline2\r\nline3", "line1 line2 line3"},
		{"tabs\t\tand   spaces", "tabs and spaces"},
		{"", ""},
		{" \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CollapseWhitespace(tt.input))
		})
	}
}

func TestRuneLen(t *testing.T) {
	assert.Equal(t, 0, RuneLen(""))
	assert.Equal(t, 5, RuneLen("hello"))
	assert.Equal(t, 5, RuneLen("héllo"))
	assert.Equal(t, 3, RuneLen("日本語"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "12345678", ShortID("12345678-1234-1234-1234-123456789abc", 8))
	assert.Equal(t, "abc", ShortID("abc", 8))
}
