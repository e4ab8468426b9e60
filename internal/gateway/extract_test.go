package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "json_fence",
			in:   "Sure, here you go:\n```json\n{\"a\": 1}\n```\nAnything else?",
			want: `{"a": 1}`,
		},
		{
			name: "bare_fence",
			in:   "```\n[1, 2]\n```",
			want: "[1, 2]",
		},
		{
			name: "no_fence",
			in:   "  {\"a\": 1}  ",
			want: `{"a": 1}`,
		},
		{
			name: "unterminated_fence_returns_whole",
			in:   "```json\n{\"a\": 1}",
			want: "```json\n{\"a\": 1}",
		},
		{
			name: "fence_without_newline_returns_whole",
			in:   "```json",
			want: "```json",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}
