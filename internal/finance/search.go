package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// SearchOptions bundles the knobs of one grid search.
type SearchOptions struct {
	MaxAssets int
	Workers   int
}

// RunSearch fetches prices once, enumerates the allocation grid and returns the
// allocation with the highest Sharpe ratio.
func RunSearch(ctx context.Context, provider PriceProvider, req SearchRequest, opts SearchOptions) (*SearchResult, error) {
	started := time.Now()
	symbols, err := NormalizeSymbols(req.Symbols)
	if err != nil {
		return nil, err
	}
	allocations, err := GenerateAllocations(len(symbols), opts.MaxAssets)
	if err != nil {
		return nil, err
	}
	if len(allocations) == 0 {
		return nil, fmt.Errorf("%w: basket of %d symbols", ErrNoLegalAllocation, len(symbols))
	}

	hist, err := provider.GetPrices(ctx, req.Start, req.End, symbols)
	if err != nil {
		return nil, err
	}

	best, err := SelectBest(ctx, hist.Prices, allocations, SelectOptions{Workers: opts.Workers})
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(started)
	logger := log.With().Str("component", "search").Logger()
	logger.Info().
		Strs("symbols", symbols).
		Int("days", hist.Prices.Days()).
		Int("candidates", len(allocations)).
		Floats64("allocation", best.Allocation).
		Float64("sharpe", best.Performance.SharpeRatio).
		Dur("elapsed", elapsed).
		Msg("search finished")
	if best.Performance.SharpeRatio <= 0 {
		// still the argmax; callers decide whether a losing basket is acceptable
		logger.Warn().Float64("sharpe", best.Performance.SharpeRatio).Msg("best allocation has non-positive sharpe ratio")
	}

	return &SearchResult{
		Request:     SearchRequest{Start: req.Start, End: req.End, Symbols: symbols},
		Symbols:     symbols,
		Days:        hist.Days,
		Allocation:  best.Allocation,
		Performance: best.Performance,
		Evaluated:   len(allocations),
		Elapsed:     elapsed,
	}, nil
}
