package imagespec

import (
	"strings"
	"unicode/utf16"
)

// MaxPromptLength bounds the user text forwarded to the provider, in UTF-16 code units.
const MaxPromptLength = 800

// SanitizePrompt trims v and caps it at MaxPromptLength. Anything that is not
// a string yields "".
func SanitizePrompt(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return truncateCodeUnits(strings.TrimSpace(s), MaxPromptLength)
}

// truncateCodeUnits cuts s so that its UTF-16 length is at most max.
// A surrogate pair straddling the limit is dropped whole.
func truncateCodeUnits(s string, max int) string {
	units := 0
	for i, r := range s {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > max {
			return s[:i]
		}
		units += n
	}
	return s
}
