package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tidyfiles/internal/config"
	"tidyfiles/internal/history"
)

func undoCmd() *cobra.Command {
	var flags configFlags
	operation := -1

	cmd := &cobra.Command{
		Use:   "undo <session-id>",
		Short: "Revert a journaled session, or one operation of it",
		Long: `Without --operation, the whole session is reverted by replaying its
operations last to first; the undo stops at the first failure. Operation
indices refer to the journal as it stands now (see 'history <session-id>')
and shift down after each undone operation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}

			path, err := config.JournalPath(flags.options(""))
			if err != nil {
				return err
			}

			journal, err := history.Open(path)
			if err != nil {
				return err
			}

			if operation >= 0 {
				if err := journal.UndoOperation(id, operation); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "undid operation %d of session %d\n", operation, id)
				return nil
			}

			result, err := journal.UndoSession(id)
			if err != nil {
				return err
			}
			if !result.Complete() {
				return fmt.Errorf("undid %d of %d operations of session %d, then: %w",
					result.Undone, result.Total, id, result.Err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "undid all %d operations of session %d\n", result.Total, id)
			return nil
		},
	}

	cmd.Flags().IntVar(&operation, "operation", -1, "undo only the operation at this index")
	addJournalFlags(cmd, &flags)
	return cmd
}
