package imagespec

import "strings"

// ExtractObject returns the first brace-balanced object in text, starting at
// the first '{'. Braces inside string literals are ignored. A quote directly
// preceded by a backslash does not toggle the string state; longer escape runs
// are not interpreted. Text after the object is discarded.
func ExtractObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNotFound
	}

	depth := 0
	inString := false
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '"':
			if text[i-1] != '\\' {
				inString = !inString
			}
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}
	return "", ErrNotFound
}
