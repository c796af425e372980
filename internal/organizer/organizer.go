// Package organizer executes the transfer and deletion plans produced by the
// planner. Both executors recover from per-item failures: one bad entry is
// logged and counted, never aborting the rest of the batch.
package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"tidyfiles/internal/history"
	"tidyfiles/internal/planner"
	"tidyfiles/internal/progress"
)

// Recorder receives one journal record per executed plan entry. A nil
// Recorder disables journaling.
type Recorder interface {
	RecordMove(source, destination string, status history.OperationStatus) error
	RecordDeleteDirectory(path string, status history.OperationStatus) error
}

// Executor runs plans against the filesystem.
type Executor struct {
	Log      zerolog.Logger
	Journal  Recorder          // nil disables journaling
	DryRun   bool              // simulate only, zero filesystem mutations
	Progress progress.Reporter // nil disables progress reporting
}

// TransferFiles moves every planned file to its collision-resolved effective
// destination and returns (succeeded, total). Dry runs report every entry
// but never touch the filesystem and never count toward succeeded.
func (ex *Executor) TransferFiles(entries []planner.TransferEntry) (int, int) {
	unit := ex.reporter().Begin("moving files", len(entries))

	succeeded := 0
	for _, entry := range entries {
		dest := effectiveDestination(entry.Destination)

		if ex.DryRun {
			ex.Log.Info().Str("source", entry.Source).Str("destination", dest).
				Msg("[dry-run] would move file")
			ex.recordMove(entry.Source, dest, history.StatusDryRun)
			unit.Advance(1)
			continue
		}

		if err := ex.moveFile(entry.Source, dest); err != nil {
			ex.Log.Error().Err(err).Str("source", entry.Source).Str("destination", dest).
				Msg("failed to move file")
			ex.recordMove(entry.Source, dest, history.StatusFailed)
			unit.Advance(1)
			continue
		}

		ex.Log.Info().Str("source", entry.Source).Str("destination", dest).Msg("moved file")
		ex.recordMove(entry.Source, dest, history.StatusSuccess)
		succeeded++
		unit.Advance(1)
	}

	return succeeded, len(entries)
}

// DeleteDirs removes every planned directory and returns (succeeded, total).
// A directory nested under one already removed in this call was deleted
// along with its ancestor; it counts as succeeded and is still journaled so
// the record stays 1:1 with the plan for undo accounting.
func (ex *Executor) DeleteDirs(dirs []string) (int, int) {
	unit := ex.reporter().Begin("removing empty directories", len(dirs))

	var removed []string
	succeeded := 0
	for _, dir := range dirs {
		if underAny(removed, dir) {
			ex.Log.Debug().Str("path", dir).Msg("directory already removed with ancestor")
			ex.recordDelete(dir, history.StatusSuccess)
			succeeded++
			unit.Advance(1)
			continue
		}

		if ex.DryRun {
			ex.Log.Info().Str("path", dir).Msg("[dry-run] would delete directory")
			ex.recordDelete(dir, history.StatusDryRun)
			unit.Advance(1)
			continue
		}

		if _, err := os.Stat(dir); err != nil {
			ex.Log.Error().Err(err).Str("path", dir).Msg("failed to delete directory")
			ex.recordDelete(dir, history.StatusFailed)
			unit.Advance(1)
			continue
		}

		if err := os.RemoveAll(dir); err != nil {
			ex.Log.Error().Err(err).Str("path", dir).Msg("failed to delete directory")
			ex.recordDelete(dir, history.StatusFailed)
			unit.Advance(1)
			continue
		}

		ex.Log.Info().Str("path", dir).Msg("deleted directory")
		removed = append(removed, dir)
		ex.recordDelete(dir, history.StatusSuccess)
		succeeded++
		unit.Advance(1)
	}

	return succeeded, len(dirs)
}

// effectiveDestination resolves the collision-free path actually used for a
// move. While something exists at the candidate, a _<n> suffix is inserted
// before the extension, counting up from 1: report.pdf, report_1.pdf,
// report_2.pdf. Every candidate derives from the original name, so the
// numbering never compounds.
func effectiveDestination(planned string) string {
	ext := filepath.Ext(planned)
	stem := strings.TrimSuffix(planned, ext)

	dest := planned
	for n := 1; pathExists(dest); n++ {
		dest = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
	return dest
}

// moveFile renames src to dst without ever replacing an existing dst. Where
// the filesystem supports hard links the link+unlink pair makes that
// guarantee atomic: a dst created concurrently by someone else fails the
// move instead of being overwritten. Filesystems without hard links fall
// back to a checked rename. The file is never copied, so a failed move
// leaves the source intact.
func (ex *Executor) moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	err := os.Link(src, dst)
	if err == nil {
		return os.Remove(src)
	}
	if os.IsExist(err) {
		return err
	}

	// Hard links unsupported here; re-check before renaming since rename
	// replaces silently.
	if pathExists(dst) {
		return fmt.Errorf("destination already exists: %s", dst)
	}
	return os.Rename(src, dst)
}

func (ex *Executor) recordMove(source, dest string, status history.OperationStatus) {
	if ex.Journal == nil {
		return
	}
	if err := ex.Journal.RecordMove(source, dest, status); err != nil {
		ex.Log.Error().Err(err).Str("source", source).Msg("failed to journal move")
	}
}

func (ex *Executor) recordDelete(path string, status history.OperationStatus) {
	if ex.Journal == nil {
		return
	}
	if err := ex.Journal.RecordDeleteDirectory(path, status); err != nil {
		ex.Log.Error().Err(err).Str("path", path).Msg("failed to journal deletion")
	}
}

func (ex *Executor) reporter() progress.Reporter {
	if ex.Progress == nil {
		return progress.Discard
	}
	return ex.Progress
}

// underAny reports whether path equals or is nested under any of roots.
func underAny(roots []string, path string) bool {
	for _, root := range roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
