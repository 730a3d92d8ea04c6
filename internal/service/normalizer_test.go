package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced with language tag", "```text\n8058664165889|4.00\n```", "8058664165889|4.00"},
		{"fenced without tag", "```\n8058664165889|4.00\n12345678|2.00\n```", "8058664165889|4.00\n12345678|2.00"},
		{"plain with trailing newline", "8058664165889|4.00\n12345678|2.00\n", "8058664165889|4.00\n12345678|2.00"},
		{"surrounding whitespace", "  \n 8058664165889|4.00 \n\n", "8058664165889|4.00"},
		{"only leading fence", "```text\n8058664165889|4.00", "8058664165889|4.00"},
		{"only trailing fence", "8058664165889|4.00\n```", "8058664165889|4.00"},
		{"nested fences", "```\n```text\n8058664165889|4.00\n```\n```", "8058664165889|4.00"},
		{"inline fence keeps digits", "```8058664165889|4.00```", "8058664165889|4.00"},
		{"windows line endings", "```text\r\n8058664165889|4.00\r\n```", "8058664165889|4.00"},
		{"empty", "", ""},
		{"fence only", "```", ""},
		{"middle text untouched", "a|1.00\n```\nb|2.00", "a|1.00\n```\nb|2.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"```text\n8058664165889|4.00\n```",
		"```\n```\nfoo\n```\n```",
		"````",
		"``` ```",
		"```json{\"a\":1}```",
		"\n\n```python\n\n```\n",
		"8058664165889|4.00\n12345678|2.00\n",
		"`",
		"  ```text  \nx|1.00```  ",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
