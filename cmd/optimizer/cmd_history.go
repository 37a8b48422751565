package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"portfolioOptimizer/internal/config"
)

func newHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently recorded searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			recs, err := a.svc.Recent(limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tWINDOW\tSYMBOLS\tWEIGHTS\tSHARPE")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s..%s\t%s\t%v\t%.4f\n",
					r.CreatedAt.Format("2006-01-02 15:04"), r.StartDay, r.EndDay,
					strings.Join(r.Symbols, ","), r.Weights, r.Sharpe)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of searches to show")
	return cmd
}
