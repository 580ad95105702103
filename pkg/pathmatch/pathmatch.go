// Package pathmatch matches slash-separated relative paths against glob patterns.
//
// Patterns follow doublestar syntax:
//   - * matches any run of characters within one path segment
//   - ** matches zero or more whole segments
//   - ? matches one character other than /
//   - [...] and {a,b} match a character class and alternatives
//
// A pattern without a / is matched against every segment of the path, so "*.log" matches
// "a/b/c.log" and "cache" matches "cache/x" and "a/cache/y". Patterns with a / are anchored
// at the start of the path.
package pathmatch

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match reports whether path matches the pattern.
func Match(pattern, path string) (bool, error) {
	matcher, err := NewMatcher([]string{pattern})
	if err != nil {
		return false, err
	}

	return matcher.MatchAny(path), nil
}

// Matcher holds validated patterns for reuse across many paths.
type Matcher struct {
	patterns []string
}

// NewMatcher validates the given patterns and expands unanchored ones.
func NewMatcher(patterns []string) (*Matcher, error) {
	matcher := &Matcher{patterns: make([]string, 0, len(patterns))}

	for _, p := range patterns {
		p = strings.TrimPrefix(p, "./")

		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("pattern %q: %w", p, doublestar.ErrBadPattern)
		}

		matcher.patterns = append(matcher.patterns, expand(p)...)
	}

	return matcher, nil
}

// MatchAny reports whether path matches any of the patterns.
func (m *Matcher) MatchAny(path string) bool {
	for _, p := range m.patterns {
		// Patterns are validated in NewMatcher, so the error is always nil.
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}

	return false
}

// expand turns an unanchored pattern into forms that match it as any segment.
func expand(pattern string) []string {
	if strings.Contains(pattern, "/") {
		return []string{pattern}
	}

	return []string{"**/" + pattern, "**/" + pattern + "/**"}
}
