package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tidyfiles/internal/config"
	"tidyfiles/internal/history"
)

func historyCmd() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "List journaled sessions or inspect one session's operations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.JournalPath(flags.options(""))
			if err != nil {
				return err
			}

			journal, err := history.Open(path)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return listSessions(cmd, journal)
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			return showSession(cmd, journal, id)
		},
	}

	addJournalFlags(cmd, &flags)
	return cmd
}

func listSessions(cmd *cobra.Command, journal *history.Journal) error {
	sessions := journal.Sessions()
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no sessions recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tSOURCE\tDESTINATION\tOPS")
	for _, s := range sessions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
			s.ID, s.StartedAt.Format("2006-01-02 15:04:05"), s.Status,
			s.SourceDir, s.DestinationDir, len(s.Operations))
	}
	return w.Flush()
}

func showSession(cmd *cobra.Command, journal *history.Journal, id int) error {
	session, err := journal.Session(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "session %d  %s  %s -> %s  %s\n",
		session.ID, session.StartedAt.Format("2006-01-02 15:04:05"),
		session.SourceDir, session.DestinationDir, session.Status)

	if len(session.Operations) == 0 {
		fmt.Fprintln(out, "  no operations")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  IDX\tTYPE\tSTATUS\tSOURCE\tDESTINATION")
	for i, op := range session.Operations {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\n", i, op.Type, op.Status, op.Source, op.Destination)
	}
	return w.Flush()
}
