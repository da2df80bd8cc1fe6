package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/zerodesign/internal/config"
	"github.com/rshade/zerodesign/internal/history"
	"github.com/rshade/zerodesign/internal/tui"
)

// NewHistoryListCmd lists recent calculations, newest first.
func NewHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent calculations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			repo, closeFn, err := newSession(ctx).history()
			if err != nil {
				return err
			}
			defer closeFn()

			entries, err := repo.Recent(ctx, limit)
			if err != nil {
				return err
			}

			switch format {
			case config.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), entries)
			case config.FormatNDJSON:
				return renderNDJSON(cmd.OutOrStdout(), entries)
			}

			if len(entries) == 0 {
				cmd.Println("No calculations recorded yet.")
				return nil
			}
			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tPRODUCT\tCATEGORY\tKG CO2E\tSCORE\tWHEN")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
					e.ID, e.ProductName, e.Category, num(e.TotalCO2), e.Score, e.CreatedAt.Local().Format(cardTimeLayout))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultRecentLimit, "maximum entries to show")
	return cmd
}

// NewHistoryShowCmd prints one calculation with its stored details.
func NewHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a recorded calculation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			repo, closeFn, err := newSession(ctx).history()
			if err != nil {
				return err
			}
			defer closeFn()

			entry, err := repo.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if format != config.FormatTable {
				return renderJSON(cmd.OutOrStdout(), entry)
			}

			w := cmd.OutOrStdout()
			tw := newTabWriter(w)
			fmt.Fprintf(tw, "ID:\t%s\n", entry.ID)
			fmt.Fprintf(tw, "Product:\t%s\n", entry.ProductName)
			if entry.Category != "" {
				fmt.Fprintf(tw, "Category:\t%s\n", entry.Category)
			}
			fmt.Fprintf(tw, "Fibers:\t%s\n", tui.FormatComposition(entry.Details.Fibers))
			fmt.Fprintf(tw, "CO₂e:\t%s\n", kg(entry.TotalCO2))
			fmt.Fprintf(tw, "Score:\t%s\n", scoreText(w, entry.Score))
			fmt.Fprintf(tw, "Recorded:\t%s\n", entry.CreatedAt.Local().Format(cardTimeLayout))
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(w)
			return renderBreakdownTable(w, entry.Details.Breakdown)
		},
	}
}
