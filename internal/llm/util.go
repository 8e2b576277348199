package llm

import "strings"

// CleanJSONBlock returns the first JSON object or array in a model response,
// dropping markdown fences and any chatter before or after it. Text with no
// balanced JSON value is returned trimmed and otherwise untouched.
func CleanJSONBlock(text string) string {
	text = stripFence(strings.TrimSpace(text))

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	closing := byte('}')
	if text[start] == '[' {
		closing = ']'
	}
	if value := balancedPrefix(text[start:], text[start], closing); value != "" {
		return value
	}
	return text
}

// stripFence unwraps a ```lang ... ``` block. The info string is dropped only
// when it looks like a language tag.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		if tag := body[:nl]; len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
			body = body[nl+1:]
		}
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// balancedPrefix scans s, which starts with open, and returns it up to the
// matching closing byte. Brackets inside JSON strings are ignored.
func balancedPrefix(s string, open, closing byte) string {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
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
		case open:
			depth++
		case closing:
			if depth--; depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
