package main

import (
	"github.com/spf13/cobra"

	"tidyfiles/internal/config"
)

// configFlags holds the command-line layer of the settings. Empty values
// fall through to the settings file and then to defaults.
type configFlags struct {
	destination string
	settings    string
	historyFile string
	logFile     string
	logLevel    string
	excludes    []string
}

func addConfigFlags(cmd *cobra.Command, f *configFlags) {
	cmd.Flags().StringVarP(&f.destination, "destination", "d", "", "destination directory (default: the source directory)")
	cmd.Flags().StringVar(&f.settings, "settings", "", "settings file (default: ~/.tidyfiles/settings.toml)")
	cmd.Flags().StringVar(&f.historyFile, "history-file", "", "journal file (default: ~/.tidyfiles/history.json)")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "log file (default: ~/.tidyfiles/tidyfiles.log)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().StringSliceVar(&f.excludes, "exclude", nil, "paths to leave untouched (repeatable)")
}

// addJournalFlags registers the subset of flags the history and undo
// commands need; they never touch a source directory.
func addJournalFlags(cmd *cobra.Command, f *configFlags) {
	cmd.Flags().StringVar(&f.settings, "settings", "", "settings file (default: ~/.tidyfiles/settings.toml)")
	cmd.Flags().StringVar(&f.historyFile, "history-file", "", "journal file (default: ~/.tidyfiles/history.json)")
}

func (f *configFlags) options(sourceDir string) config.Options {
	return config.Options{
		SourceDir:      sourceDir,
		DestinationDir: f.destination,
		SettingsFile:   f.settings,
		HistoryFile:    f.historyFile,
		LogFile:        f.logFile,
		LogLevel:       f.logLevel,
		Excludes:       f.excludes,
	}
}
