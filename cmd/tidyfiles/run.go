package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tidyfiles/internal/config"
	"tidyfiles/internal/history"
	"tidyfiles/internal/logging"
	"tidyfiles/internal/orchestrator"
	"tidyfiles/internal/progress"
)

func runCmd() *cobra.Command {
	var flags configFlags
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <source-dir>",
		Short: "Organize the source directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(flags.options(args[0]))
			if err != nil {
				return err
			}

			log, err := logging.New(settings.LogLevel, settings.LogFile, os.Stderr)
			if err != nil {
				return fmt.Errorf("failed to set up logging: %w", err)
			}

			// Dry runs never open the journal: previewing must work even
			// when the journal file is unreadable.
			var journal *history.Journal
			if !dryRun {
				journal, err = history.Open(settings.HistoryFile)
				if err != nil {
					return err
				}
			}

			summary, err := orchestrator.Run(settings, journal, log, orchestrator.RunOptions{
				DryRun:   dryRun,
				Progress: progress.NewReporter(os.Stderr),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), summary.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview the run without modifying the filesystem")
	addConfigFlags(cmd, &flags)
	return cmd
}
