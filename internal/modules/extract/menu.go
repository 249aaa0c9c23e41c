package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

type MenuItem struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// MenuItems parses a model reply into menu items. When the reply is not a
// JSON array it falls back to splitting lines into name and price.
func MenuItems(text string) []MenuItem {
	var raw []map[string]any
	if err := DecodeArray(text, &raw); err == nil {
		out := make([]MenuItem, 0, len(raw))
		for _, m := range raw {
			if it, ok := menuItemFromMap(m); ok {
				out = append(out, it)
			}
		}
		return out
	}
	return MenuHeuristic(text)
}

func menuItemFromMap(m map[string]any) (MenuItem, bool) {
	name := strings.TrimSpace(stringField(m, "name"))
	if name == "" {
		return MenuItem{}, false
	}
	it := MenuItem{
		Name:        name,
		Description: strings.TrimSpace(stringField(m, "description")),
		Category:    strings.TrimSpace(stringField(m, "category")),
	}
	switch p := m["price"].(type) {
	case float64:
		it.Price = &p
	case string:
		if f, ok := parsePrice(p); ok {
			it.Price = &f
		}
	}
	return it, true
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

var priceLine = regexp.MustCompile(`^(.*?)[\s.\-–—:…]*\$?\s*(\d{1,4}(?:\.\d{1,2})?)\s*$`)

// MenuHeuristic reads "Name ..... $4.50" style lines. Lines without a
// trailing price are kept as names when they look like words.
func MenuHeuristic(text string) []MenuItem {
	out := []MenuItem{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") || fenceTokens[strings.ToLower(line)] {
			continue
		}
		line = bulletPrefix.ReplaceAllString(line, "")
		if m := priceLine.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(strings.Trim(m[1], "\"'"))
			if f, ok := parsePrice(m[2]); ok && hasLetter(name) {
				out = append(out, MenuItem{Name: name, Price: &f})
				continue
			}
		}
		if hasLetter(line) && len(line) <= 80 {
			out = append(out, MenuItem{Name: strings.Trim(line, "\"'[]{},")})
		}
	}
	return out
}

func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
