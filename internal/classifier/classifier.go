// Package classifier maps files to destination folders based on their extension.
package classifier

import (
	"path/filepath"
)

// Rule associates a destination folder with the file extensions it collects.
// Extensions include the leading dot (".txt", ".jpg") and are compared
// case-sensitively against the file's suffix.
type Rule struct {
	Destination string   // Absolute path of the destination folder
	Extensions  []string // Extensions routed to the destination, leading dot included
}

// Matches reports whether the rule covers the given extension.
func (r Rule) Matches(ext string) bool {
	for _, e := range r.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Classify returns the destination folder for a file.
// Rules are evaluated in order and the first match wins. Files whose
// extension appears in no rule, including files with no extension at all,
// fall back to the unrecognized folder. The function is pure: it never
// touches the filesystem.
func Classify(file string, rules []Rule, unrecognized string) string {
	ext := filepath.Ext(file)
	// A dotfile's leading dot starts its name, not an extension:
	// ".gitignore" is extensionless and falls back.
	if ext == "" || ext == filepath.Base(file) {
		return unrecognized
	}
	for _, rule := range rules {
		if rule.Matches(ext) {
			return rule.Destination
		}
	}
	return unrecognized
}
