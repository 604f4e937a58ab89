package category

import (
	"strings"
	"unicode"
)

// ResolveDisplayName maps a possibly polluted category identifier to a
// human-readable label. It feeds charts and tables, so it never fails:
// when every heuristic misses it echoes the raw identifier back.
func ResolveDisplayName(raw string, categories []Category) string {
	if raw == "" {
		return raw
	}

	byID := make(map[string]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	if c, ok := byID[raw]; ok {
		return c.Name
	}

	if c, ok := byID[CleanID(raw)]; ok {
		return c.Name
	}

	if i := strings.Index(raw, ":"); i > 0 {
		if c, ok := byID[raw[:i]]; ok {
			return c.Name
		}
	}

	for _, c := range categories {
		if strings.HasPrefix(raw, c.ID+"-") || strings.HasPrefix(raw, c.ID+":") {
			return c.Name
		}
	}

	if name := trailingNonASCII(raw); name != "" {
		return name
	}

	return raw
}

// Resolve returns the full category for an identifier, repairing it first.
// The boolean reports whether a match was found.
func Resolve(raw string, categories []Category) (Category, bool) {
	cleaned := CleanID(raw)
	for _, c := range categories {
		if c.ID == raw || c.ID == cleaned {
			return c, true
		}
	}
	return Category{}, false
}

// trailingNonASCII extracts a trailing run of non-ASCII runes (typically an
// ideographic category name glued onto the id).
func trailingNonASCII(s string) string {
	runes := []rune(s)
	end := len(runes)
	start := end
	for start > 0 && runes[start-1] > unicode.MaxASCII {
		start--
	}
	if start == end {
		return ""
	}
	return string(runes[start:end])
}
