package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

const maxMessageLength = 1000

// SanitizeMessage cleans a chat message before it is stored: strips HTML,
// null bytes and surrounding whitespace, and caps the length.
func SanitizeMessage(input string) string {
	input = htmlPolicy.Sanitize(input)
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)

	if len(input) > maxMessageLength {
		input = input[:maxMessageLength]
	}

	return input
}
