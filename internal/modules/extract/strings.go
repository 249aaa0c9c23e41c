package extract

import (
	"fmt"
	"regexp"
	"strings"
)

const MaxLineItems = 5

// StringArray pulls a list of strings out of model output. It tries a
// direct parse, then the first balanced [...] span, then falls back to one
// entry per line, capped at MaxLineItems.
func StringArray(text string) []string {
	var raw []any
	if err := DecodeArray(text, &raw); err == nil {
		return stringify(raw)
	}
	return Lines(text, MaxLineItems)
}

func stringify(items []any) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		var s string
		switch v := it.(type) {
		case nil:
			continue
		case string:
			s = v
		default:
			s = fmt.Sprint(v)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var (
	bulletPrefix = regexp.MustCompile(`^(?:[-*•·+]+|\d{1,2}[.)]|[a-zA-Z][.)])\s+`)
	fenceTokens  = map[string]bool{
		"json": true, "javascript": true, "js": true, "ts": true, "text": true,
		"plaintext": true, "markdown": true, "md": true, "[": true, "]": true,
	}
)

// Lines is the last-resort parser: each non-empty line becomes an entry once
// bullets, numbering and wrapping quotes are stripped. Fence markers and bare
// language tags are dropped.
func Lines(text string, max int) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		if fenceTokens[strings.ToLower(line)] {
			continue
		}
		line = bulletPrefix.ReplaceAllString(line, "")
		line = strings.TrimRight(line, ",")
		line = strings.Trim(strings.TrimSpace(line), "\"'`“”‘’")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}
