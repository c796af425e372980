package planner

import (
	"path/filepath"
	"strings"
)

// ExcludeSet holds absolute paths omitted from planning. A path is excluded
// when it equals an entry or is nested anywhere under one.
type ExcludeSet struct {
	paths []string
}

// NewExcludeSet builds an ExcludeSet from the given paths, normalizing each
// to an absolute cleaned form.
func NewExcludeSet(paths []string) *ExcludeSet {
	set := &ExcludeSet{paths: make([]string, 0, len(paths))}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		set.paths = append(set.paths, abs)
	}
	return set
}

// Contains reports whether path equals or is nested under an excluded path.
func (s *ExcludeSet) Contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	for _, p := range s.paths {
		if abs == p || strings.HasPrefix(abs, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Paths returns the excluded paths.
func (s *ExcludeSet) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}
