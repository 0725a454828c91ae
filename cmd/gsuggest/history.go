package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/atinylittleshell/gsuggest/internal/selections"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (c *cli) historyCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently selected suggestions",
		Args:  cobra.NoArgs,
		RunE:  c.historyHandler,
	}

	historyCmd.Flags().IntP("limit", "n", 20, "number of entries to show")
	historyCmd.Flags().Bool("top", false, "show the most selected values instead")
	historyCmd.Flags().Bool("clear", false, "delete all recorded selections")

	return historyCmd
}

func (c *cli) historyHandler(cmd *cobra.Command, args []string) error {
	manager, err := selections.NewManager(c.selectionsFile())
	if err != nil {
		return err
	}
	defer func() { _ = manager.Close() }()

	out := cmd.OutOrStdout()
	limit, _ := cmd.Flags().GetInt("limit")

	if reset, _ := cmd.Flags().GetBool("clear"); reset {
		count, err := manager.GetTotalCount()
		if err != nil {
			return err
		}
		if err := manager.Reset(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %s selections\n", humanize.Comma(count))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if top, _ := cmd.Flags().GetBool("top"); top {
		counts, err := manager.GetTopValues(limit)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "COUNT\tVALUE")
		for _, count := range counts {
			fmt.Fprintf(w, "%s\t%s\n", humanize.Comma(count.Count), count.Value)
		}
		return nil
	}

	entries, err := manager.GetRecentEntries(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No selections recorded yet")
		return nil
	}

	fmt.Fprintln(w, "WHEN\tQUERY\tVALUE")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", humanize.Time(entry.CreatedAt), entry.Query, entry.Value)
	}
	return nil
}
