package finance

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SelectOptions tunes the selector's worker pool.
type SelectOptions struct {
	Workers int // <= 0 means runtime.NumCPU()
}

// consider folds one candidate into the accumulator. Only a strictly greater Sharpe
// ratio replaces the current best, so ties keep the earlier candidate.
func (b Best) consider(idx int, alloc Allocation, perf Performance) Best {
	if b.Found && perf.SharpeRatio <= b.Performance.SharpeRatio {
		return b
	}
	return Best{Found: true, Index: idx, Allocation: alloc, Performance: perf}
}

// merge combines chunk results. Callers merge in chunk order, which keeps the
// parallel result identical to a sequential scan, tie-breaking included.
func (b Best) merge(other Best) Best {
	if !other.Found {
		return b
	}
	return b.consider(other.Index, other.Allocation, other.Performance)
}

// SelectBest evaluates every allocation and returns the one with the greatest Sharpe ratio.
// Any evaluation error aborts the search.
func SelectBest(ctx context.Context, prices PriceMatrix, allocations []Allocation, opts SelectOptions) (Best, error) {
	if len(allocations) == 0 {
		return Best{}, ErrNoLegalAllocation
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(allocations) {
		workers = len(allocations)
	}

	chunk := (len(allocations) + workers - 1) / workers
	partials := make([]Best, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(allocations))
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			var local Best
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				perf, err := Evaluate(prices, allocations[i])
				if err != nil {
					return err
				}
				local = local.consider(i, allocations[i], perf)
			}
			partials[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Best{}, err
	}

	var best Best
	for _, p := range partials {
		best = best.merge(p)
	}
	if !best.Found {
		return Best{}, ErrNoLegalAllocation
	}
	return best, nil
}
