package repository

import (
	"strings"
)

// StripMarkdownFences removes a surrounding ```json (or bare ```) code block
// from a model reply, if present.
func StripMarkdownFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

// ExtractJSONObject finds the first balanced brace-delimited object anywhere
// in free text. Models often wrap their JSON in prose or markdown; this pulls
// out just the object. The boolean reports whether one was found, so callers
// can branch without inspecting errors. Braces inside JSON strings are
// skipped.
func ExtractJSONObject(text string) (string, bool) {
	text = StripMarkdownFences(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
