// Package exclude compiles glob exclusion patterns into a matchable
// set. Patterns are compiled once, before traversal begins, so a
// malformed pattern fails the run fast instead of being silently
// skipped per file.
package exclude

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// ErrInvalidPattern is returned when an exclusion pattern does not
// compile as a glob.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// Set is a compiled set of exclusion globs. The zero value and the nil
// Set match nothing.
type Set struct {
	globs    []glob.Glob
	patterns []string
}

// Compile compiles the given patterns into a Set. Patterns use '/' as
// the path separator, so `*` never crosses directory boundaries while
// `**` does. Any pattern that fails to compile aborts with
// ErrInvalidPattern wrapped with the offending pattern.
func Compile(patterns []string) (*Set, error) {
	s := &Set{
		globs:    make([]glob.Glob, 0, len(patterns)),
		patterns: make([]string, 0, len(patterns)),
	}
	for _, pat := range patterns {
		if pat == "" {
			continue
		}
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pat, err)
		}
		s.globs = append(s.globs, g)
		s.patterns = append(s.patterns, pat)
	}
	return s, nil
}

// Match reports whether the path matches any pattern in the set.
// Patterns are tried against the full slash-normalized path and
// against the basename, so `*.tmp` excludes temp files anywhere.
func (s *Set) Match(path string) bool {
	if s == nil || len(s.globs) == 0 {
		return false
	}
	full := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, g := range s.globs {
		if g.Match(full) || g.Match(base) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns the set was compiled from.
func (s *Set) Patterns() []string {
	if s == nil {
		return nil
	}
	return s.patterns
}

// Len returns the number of compiled patterns.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.globs)
}
