package advisory

import "errors"

var (
	errNoObject   = errors.New("no JSON object in reply")
	errUnbalanced = errors.New("unterminated JSON object in reply")
)

// ExtractJSONObject returns the first balanced top-level JSON object in text.
// Braces inside string literals are ignored, and anything after the matching
// closing brace (trailing prose, a second object) is left out.
func ExtractJSONObject(text string) (string, error) {
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", errNoObject
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", errUnbalanced
}
