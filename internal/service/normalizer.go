package service

import (
	"regexp"
	"strings"
)

const fence = "```"

// openingFence matches a leading fence with an optional language tag that
// ends the line, e.g. "```text\n".
var openingFence = regexp.MustCompile("^```[A-Za-z][\\w+-]*[ \\t]*(\\r?\\n|$)")

// Normalize strips code-fence markers and whitespace around the model's
// output. Fences are removed until none remain at either end, so applying it
// twice gives the same result.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	for {
		before := text

		if loc := openingFence.FindStringIndex(text); loc != nil {
			text = text[loc[1]:]
		} else {
			text = strings.TrimPrefix(text, fence)
		}
		text = strings.TrimSuffix(text, fence)
		text = strings.TrimSpace(text)

		if text == before {
			return text
		}
	}
}
