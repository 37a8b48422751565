package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"portfolioOptimizer/internal/config"
	"portfolioOptimizer/internal/finance"
	"portfolioOptimizer/internal/optimizer"
)

type searchFlags struct {
	start     string
	end       string
	symbols   []string
	benchmark string
	chart     string
	csv       string
	workers   int
	maxAssets int
	format    string
}

func newSearchCommand() *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find the maximum Sharpe ratio allocation for a basket",
		Long: `Fetch daily closes for the basket, evaluate every allocation on the 10% grid whose
weights sum to exactly 1.0 and print the best one. A comparison chart against the
benchmark is written to --chart (empty disables it).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.start, "start", "2010-01-01", "First day of the window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "2010-12-31", "Last day of the window (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&f.symbols, "symbols", []string{"C", "GS", "IBM", "HNZ"}, "Basket symbols, comma separated")
	cmd.Flags().StringVar(&f.benchmark, "benchmark", "", "Benchmark symbol (default from config)")
	cmd.Flags().StringVar(&f.chart, "chart", "", "Comparison chart output path (default from config)")
	cmd.Flags().StringVar(&f.csv, "csv", "", "Also export the comparison series as CSV")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Parallel evaluators (0 = config or number of CPUs)")
	cmd.Flags().IntVar(&f.maxAssets, "max-assets", 0, "Refuse baskets larger than this (0 = config)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runSearch(cmd *cobra.Command, f *searchFlags) error {
	if f.format != "text" && f.format != "json" {
		return fmt.Errorf("unsupported format %q: must be text or json", f.format)
	}
	start, err := finance.ParseDay(f.start)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := finance.ParseDay(f.end)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if f.workers > 0 {
		cfg.Search.Workers = f.workers
	}
	if f.maxAssets > 0 {
		cfg.Search.MaxAssets = f.maxAssets
	}
	chartPath := cfg.Search.ChartPath
	if cmd.Flags().Changed("chart") {
		chartPath = f.chart
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	var sinks finance.Sinks
	if chartPath != "" {
		sinks = append(sinks, finance.ComparisonChart{Path: chartPath})
	}
	if f.csv != "" {
		sinks = append(sinks, finance.CSVExport{Path: f.csv})
	}

	req := finance.SearchRequest{Start: start, End: end, Symbols: splitSymbols(f.symbols)}
	report, err := a.svc.Run(cmd.Context(), req, f.benchmark, sinks)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Fprint(out, optimizer.FormatReport(report))
	if chartPath != "" {
		fmt.Fprintf(out, "Chart: %s\n", chartPath)
	}
	return nil
}

// splitSymbols accepts both repeated flags and space separated values.
func splitSymbols(in []string) []string {
	var out []string
	for _, s := range in {
		out = append(out, strings.Fields(s)...)
	}
	return out
}
