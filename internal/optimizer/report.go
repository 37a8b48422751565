package optimizer

import (
	"fmt"
	"strings"
)

// FormatReport renders a report as the plain-text summary printed by the CLI and bot.
func FormatReport(r *Report) string {
	res := r.Result
	var b strings.Builder
	fmt.Fprintf(&b, "Start Date: %s\n", res.Request.Start.Format("January 02, 2006"))
	fmt.Fprintf(&b, "End Date: %s\n", res.Request.End.Format("January 02, 2006"))
	fmt.Fprintf(&b, "Symbols: %s\n", strings.Join(res.Symbols, ", "))
	fmt.Fprintf(&b, "Optimal Allocations: %s\n", formatWeights(res.Symbols, res.Allocation))
	fmt.Fprintf(&b, "Sharpe Ratio: %g\n", res.Performance.SharpeRatio)
	fmt.Fprintf(&b, "Volatility (stdev of daily returns): %g\n", res.Performance.Volatility)
	fmt.Fprintf(&b, "Average Daily Return: %g\n", res.Performance.MeanDailyReturn)
	fmt.Fprintf(&b, "Cumulative Return: %g\n", res.Performance.CumulativeReturn)
	if n := len(r.Comparison.Benchmark); n > 0 {
		fmt.Fprintf(&b, "Benchmark %s Cumulative Return: %g\n", r.Comparison.BenchmarkSymbol, r.Comparison.Benchmark[n-1])
	}
	fmt.Fprintf(&b, "Candidates Evaluated: %d (%d trading days)\n", res.Evaluated, len(res.Days))
	return b.String()
}

func formatWeights(symbols []string, weights []float64) string {
	parts := make([]string, len(weights))
	for i, w := range weights {
		sym := "?"
		if i < len(symbols) {
			sym = symbols[i]
		}
		parts[i] = fmt.Sprintf("%s=%.1f", sym, w)
	}
	return strings.Join(parts, " ")
}
