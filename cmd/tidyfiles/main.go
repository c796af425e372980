// Package main provides the tidyfiles CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "tidyfiles",
		Short: "Organize a directory tree into type-based folders, reversibly",
		Long: `tidyfiles moves files into destination folders chosen by extension and
removes directories left empty afterward. Every destructive action is
recorded in a journal so a run, or any single operation in it, can be
undone later.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(undoCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
