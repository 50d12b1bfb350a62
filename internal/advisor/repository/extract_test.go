package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"surrounding whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripMarkdownFences(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{
			name:     "plain object",
			input:    `{"recommendations": []}`,
			expected: `{"recommendations": []}`,
			found:    true,
		},
		{
			name:     "object wrapped in prose",
			input:    "Here is my analysis:\n{\"signal\": \"BUY\"}\nLet me know if you need more.",
			expected: `{"signal": "BUY"}`,
			found:    true,
		},
		{
			name:     "object inside markdown fence",
			input:    "```json\n{\"signal\": \"HOLD\"}\n```",
			expected: `{"signal": "HOLD"}`,
			found:    true,
		},
		{
			name:     "nested objects",
			input:    `noise {"outer": {"inner": {"deep": 1}}} trailing`,
			expected: `{"outer": {"inner": {"deep": 1}}}`,
			found:    true,
		},
		{
			name:     "braces inside strings are skipped",
			input:    `{"reasoning": ["beat estimates {by far}", "margin } expansion"]}`,
			expected: `{"reasoning": ["beat estimates {by far}", "margin } expansion"]}`,
			found:    true,
		},
		{
			name:     "escaped quotes inside strings",
			input:    `{"note": "the \"best\" pick {really}"}`,
			expected: `{"note": "the \"best\" pick {really}"}`,
			found:    true,
		},
		{
			name:  "no object",
			input: "the market looks bullish today",
			found: false,
		},
		{
			name:  "unbalanced braces",
			input: `{"recommendations": [`,
			found: false,
		},
		{
			name:  "empty input",
			input: "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.input)
			require.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, got)
				assert.True(t, json.Valid([]byte(got)))
			}
		})
	}
}
