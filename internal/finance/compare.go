package finance

import (
	"context"
	"fmt"
	"time"
)

// ComparisonSeries is what the charting collaborator receives: two cumulative value
// series on one trading-day calendar.
type ComparisonSeries struct {
	Days            []time.Time `json:"days"`
	BenchmarkSymbol string      `json:"benchmark_symbol"`
	Benchmark       []float64   `json:"benchmark"`
	Portfolio       []float64   `json:"portfolio"`
	Symbols         []string    `json:"symbols"`
	Allocation      Allocation  `json:"allocation"`
	Performance     Performance `json:"performance"`
	MaxDrawdown     float64     `json:"max_drawdown"`
}

// Labels returns the legend names in series order (benchmark first).
func (c ComparisonSeries) Labels() []string {
	return []string{"Benchmark (" + c.BenchmarkSymbol + ")", "Portfolio"}
}

// ChartSink consumes a comparison, e.g. by rendering it to a file.
type ChartSink interface {
	Deliver(ctx context.Context, series ComparisonSeries) error
}

// Compare recomputes the winning portfolio's cumulative values and those of a
// single-asset benchmark over the same dates, then hands both to sink (if any).
func Compare(ctx context.Context, provider PriceProvider, result *SearchResult, benchmark string, sink ChartSink) (ComparisonSeries, error) {
	if result == nil {
		return ComparisonSeries{}, fmt.Errorf("search result is nil")
	}
	req := result.Request

	hist, err := provider.GetPrices(ctx, req.Start, req.End, result.Symbols)
	if err != nil {
		return ComparisonSeries{}, fmt.Errorf("portfolio prices: %w", err)
	}
	portfolio, err := CumulativeValues(hist.Prices, result.Allocation)
	if err != nil {
		return ComparisonSeries{}, fmt.Errorf("portfolio values: %w", err)
	}

	benchHist, err := provider.GetPrices(ctx, req.Start, req.End, []string{benchmark})
	if err != nil {
		return ComparisonSeries{}, fmt.Errorf("benchmark prices: %w", err)
	}
	benchValues, err := CumulativeValues(benchHist.Prices, Allocation{1.0})
	if err != nil {
		return ComparisonSeries{}, fmt.Errorf("benchmark values: %w", err)
	}
	// the benchmark may trade on a different calendar; carry it onto the portfolio's days
	bench := fillColumn(hist.Days, dailySeries{Symbol: benchHist.Symbols[0], Days: benchHist.Days, Closes: benchValues})

	series := ComparisonSeries{
		Days:            hist.Days,
		BenchmarkSymbol: benchHist.Symbols[0],
		Benchmark:       bench,
		Portfolio:       portfolio,
		Symbols:         result.Symbols,
		Allocation:      result.Allocation,
		Performance:     result.Performance,
		MaxDrawdown:     calculateMaxDrawdown(portfolio),
	}
	if sink != nil {
		if err := sink.Deliver(ctx, series); err != nil {
			return series, fmt.Errorf("deliver comparison: %w", err)
		}
	}
	return series, nil
}
