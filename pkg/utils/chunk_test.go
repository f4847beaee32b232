package utils_test

import (
	"strings"
	"testing"

	"github.com/scidept/sentinel/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestSmartChunk(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{
			name: "short text stays whole",
			text: "hello world",
			size: 100,
			want: []string{"hello world"},
		},
		{
			name: "breaks at last newline before limit",
			text: "line one\nline two\nline three",
			size: 20,
			want: []string{"line one\nline two", "line three"},
		},
		{
			name: "falls back to space when no newline",
			text: "alpha beta gamma delta",
			size: 12,
			want: []string{"alpha beta", "gamma delta"},
		},
		{
			name: "hard cut when no break point exists",
			text: strings.Repeat("x", 25),
			size: 10,
			want: []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)},
		},
		{
			name: "empty input yields a single empty chunk",
			text: "",
			size: 10,
			want: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := utils.SmartChunk(tt.text, tt.size)
			assert.Equal(t, tt.want, got)

			for _, chunk := range got {
				assert.LessOrEqual(t, len(chunk), tt.size)
			}
		})
	}
}
