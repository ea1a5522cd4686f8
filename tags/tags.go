// Package tags holds the tag mapping used to describe objects and search
// criteria, its text codec and the match predicate.
package tags

import (
	"sort"
	"strings"
)

// Map is a set of object tags keyed by tag key.
type Map map[string]string

// Parse reads a newline separated block of key=value lines.
//
// Blank lines and lines without "=" are dropped. Only the first two
// "="-separated segments of a line are kept, so "k=a=b" yields {k: "a"}.
// Parse never fails.
func Parse(raw string) Map {
	m := make(Map)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		parts := strings.Split(line, "=")
		if len(parts) < 2 {
			continue
		}
		m[parts[0]] = parts[1]
	}
	return m
}

// Matches reports whether objectTags carries every key of criteria with an
// identical value. Empty criteria match any object.
func Matches(objectTags, criteria Map) bool {
	for k, want := range criteria {
		got, ok := objectTags[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Keys returns the tag keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the map back into the key=value line format, sorted by key.
func (m Map) String() string {
	var b strings.Builder
	for i, k := range m.Keys() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m[k])
	}
	return b.String()
}
