package stash

import (
	"fmt"
	"sort"
	"strings"
)

// Key builds a deterministic cache key from a category and query parameters:
//
//	Key("animals", map[string]any{"page": 2, "breed": "nelore"})
//	// "animals:breed=nelore&page=2"
//
// Parameters are sorted by name. With no parameters the key is the category
// itself, so Invalidate(category) drops the whole query family.
func Key(category string, params map[string]any) string {
	if len(params) == 0 {
		return category
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(category)
	b.WriteByte(':')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		fmt.Fprintf(&b, "%s=%v", name, params[name])
	}
	return b.String()
}
