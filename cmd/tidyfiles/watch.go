package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tidyfiles/internal/config"
	"tidyfiles/internal/history"
	"tidyfiles/internal/logging"
	"tidyfiles/internal/orchestrator"
	"tidyfiles/internal/planner"
	"tidyfiles/internal/watcher"
)

func watchCmd() *cobra.Command {
	var flags configFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <source-dir>",
		Short: "Keep organizing the source directory as files arrive",
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

			journal, err := history.Open(settings.HistoryFile)
			if err != nil {
				return err
			}

			// Destination folders can live inside the source. Their events
			// must not re-trigger the run that produced them, and the runs
			// themselves must not re-plan or delete the folders a previous
			// run populated.
			runSettings := settings.ExcludingDestinations()
			excludes := planner.NewExcludeSet(runSettings.Excludes)

			w := watcher.New(settings.SourceDir, debounce, log, excludes.Contains, func() {
				summary, err := orchestrator.Run(runSettings, journal, log, orchestrator.RunOptions{})
				if err != nil {
					log.Error().Err(err).Msg("organize run failed")
					return
				}
				log.Info().Str("summary", summary.String()).Msg("organize run finished")
			})

			if err := w.Start(); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}

			log.Info().Str("source", settings.SourceDir).Msg("watching for changes, Ctrl-C to stop")

			sigc := make(chan os.Signal, 1)
			signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
			<-sigc

			w.Stop()
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "delay before organizing after the last change")
	addConfigFlags(cmd, &flags)
	return cmd
}
