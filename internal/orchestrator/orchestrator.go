// Package orchestrator coordinates one invocation of the organize pipeline:
// plan, transfer, cleanup, with the journal recording along the way.
package orchestrator

import (
	"fmt"

	"github.com/rs/zerolog"

	"tidyfiles/internal/config"
	"tidyfiles/internal/history"
	"tidyfiles/internal/organizer"
	"tidyfiles/internal/planner"
	"tidyfiles/internal/progress"
)

// RunOptions controls a single run.
type RunOptions struct {
	DryRun   bool
	Progress progress.Reporter
}

// Summary reports the outcome of a run. Failures stay visible in the
// moved/deleted counts without ever aborting the batch.
type Summary struct {
	MovedFiles  int
	TotalFiles  int
	DeletedDirs int
	TotalDirs   int
	SessionID   int // 0 when the run was not journaled
	DryRun      bool
}

func (s *Summary) String() string {
	if s.DryRun {
		return fmt.Sprintf("[dry-run] would move %d files and delete %d directories",
			s.TotalFiles, s.TotalDirs)
	}
	return fmt.Sprintf("moved %d/%d files, deleted %d/%d directories",
		s.MovedFiles, s.TotalFiles, s.DeletedDirs, s.TotalDirs)
}

// Run plans the source tree once and executes the plan. Non-dry runs open a
// journal session first and close it as Completed at normal end, so every
// destructive action in between is recorded and undoable. Dry runs touch
// neither the filesystem nor the journal.
func Run(settings *config.Settings, journal *history.Journal, log zerolog.Logger, opts RunOptions) (*Summary, error) {
	excludes := planner.NewExcludeSet(settings.Excludes)

	plan, err := planner.Build(settings.SourceDir, settings.Rules, settings.Unrecognized, excludes, log)
	if err != nil {
		return nil, fmt.Errorf("failed to plan source tree: %w", err)
	}

	log.Info().
		Int("files", len(plan.Transfers)).
		Int("directories", len(plan.Deletions)).
		Bool("dryRun", opts.DryRun).
		Msg("plan ready")

	summary := &Summary{DryRun: opts.DryRun}

	var recorder organizer.Recorder
	if !opts.DryRun && journal != nil {
		id, err := journal.StartSession(settings.SourceDir, settings.DestinationDir)
		if err != nil {
			return nil, fmt.Errorf("failed to start journal session: %w", err)
		}
		summary.SessionID = id
		recorder = journal
	}

	ex := &organizer.Executor{
		Log:      log,
		Journal:  recorder,
		DryRun:   opts.DryRun,
		Progress: opts.Progress,
	}

	summary.MovedFiles, summary.TotalFiles = ex.TransferFiles(plan.Transfers)
	summary.DeletedDirs, summary.TotalDirs = ex.DeleteDirs(plan.Deletions)

	if recorder != nil {
		if err := journal.EndSession(history.SessionCompleted); err != nil {
			return summary, fmt.Errorf("failed to close journal session: %w", err)
		}
	}

	return summary, nil
}
