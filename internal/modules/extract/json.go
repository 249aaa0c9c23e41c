package extract

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoJSON = errors.New("no parseable JSON found")

// StripCodeFences removes a surrounding Markdown fence (```lang ... ```),
// if there is one.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	nl := strings.IndexByte(s, '\n')
	if nl == -1 {
		return strings.TrimSpace(strings.Trim(s, "`"))
	}
	s = s[nl+1:]
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// FirstBalanced returns the first substring that opens with open and closes
// at its matching close, skipping brackets inside JSON strings.
func FirstBalanced(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	for start != -1 {
		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(s); i++ {
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
			case close:
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
		next := strings.IndexByte(s[start+1:], open)
		if next == -1 {
			break
		}
		start += next + 1
	}
	return "", false
}

// Decode tries the fence-stripped text and then the first balanced
// open/close span.
func Decode(text string, open, close byte, v any) error {
	cleaned := StripCodeFences(text)
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}
	if span, ok := FirstBalanced(cleaned, open, close); ok {
		if err := json.Unmarshal([]byte(span), v); err == nil {
			return nil
		}
	}
	return ErrNoJSON
}

func DecodeArray(text string, v any) error  { return Decode(text, '[', ']', v) }
func DecodeObject(text string, v any) error { return Decode(text, '{', '}', v) }
