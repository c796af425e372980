// Package planner walks the source tree once and produces the transfer and
// deletion plans executed later by the organizer.
package planner

import (
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"tidyfiles/internal/classifier"
	"tidyfiles/internal/safety"
)

// TransferEntry is one planned file move. The destination is computed once
// at plan time; execution may derive a different effective destination to
// avoid collisions, but the entry itself is never mutated.
type TransferEntry struct {
	Source      string
	Destination string
}

// Plan is a precomputed, read-only batch of intended filesystem actions.
type Plan struct {
	Transfers []TransferEntry
	Deletions []string // Directories to remove after transfers, root excluded
}

// Build performs one recursive traversal of sourceDir. Every regular file is
// classified and planned for transfer; every directory below the root is
// planned for deletion. Excluded paths are skipped entirely, subtrees
// included. Entries that are neither regular files nor directories (broken
// symlinks, sockets, devices) are silently left out of both plans, as are
// directories the safety validator refuses. Traversal errors on individual
// entries are logged and skipped; Build only fails when the source root
// itself cannot be walked.
func Build(sourceDir string, rules []classifier.Rule, unrecognized string, excludes *ExcludeSet, log zerolog.Logger) (*Plan, error) {
	root, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, err
	}
	if excludes == nil {
		excludes = NewExcludeSet(nil)
	}

	plan := &Plan{}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		if excludes.Contains(path) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		switch {
		case d.IsDir():
			if safe, reason := safety.IsSafePath(path); !safe {
				log.Warn().Str("path", path).Str("reason", reason).
					Msg("refusing to plan unsafe directory")
				return fs.SkipDir
			}
			plan.Deletions = append(plan.Deletions, path)

		case d.Type().IsRegular():
			folder := classifier.Classify(path, rules, unrecognized)
			plan.Transfers = append(plan.Transfers, TransferEntry{
				Source:      path,
				Destination: filepath.Join(folder, d.Name()),
			})

		default:
			// Symlinks and special files are never planned: the planner only
			// commits to things it can confirm are plain files or directories.
			log.Debug().Str("path", path).Msg("skipping irregular entry")
		}

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return plan, nil
}
