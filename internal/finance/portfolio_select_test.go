package finance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mixedPrices = PriceMatrix{
	{100, 40, 10},
	{101, 41, 10.4},
	{99, 43, 10.1},
	{102, 42, 10.9},
	{104, 44, 10.6},
	{103, 46, 11.2},
}

func TestSelectBest_IsOptimal(t *testing.T) {
	allocs, err := GenerateAllocations(3, 0)
	require.NoError(t, err)

	best, err := SelectBest(context.Background(), mixedPrices, allocs, SelectOptions{Workers: 4})
	require.NoError(t, err)
	require.True(t, best.Found)

	for _, a := range allocs {
		perf, err := Evaluate(mixedPrices, a)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, best.Performance.SharpeRatio, perf.SharpeRatio, "allocation %v", a)
	}
	assert.Equal(t, allocs[best.Index], best.Allocation)
}

func TestSelectBest_ParallelMatchesSequential(t *testing.T) {
	allocs, err := GenerateAllocations(3, 0)
	require.NoError(t, err)

	seq, err := SelectBest(context.Background(), mixedPrices, allocs, SelectOptions{Workers: 1})
	require.NoError(t, err)
	for _, workers := range []int{2, 3, 7, 64, 1000} {
		par, err := SelectBest(context.Background(), mixedPrices, allocs, SelectOptions{Workers: workers})
		require.NoError(t, err)
		assert.Equal(t, seq, par, "workers=%d", workers)
	}
}

func TestSelectBest_TiesKeepFirst(t *testing.T) {
	allocs, err := GenerateAllocations(2, 0)
	require.NoError(t, err)

	for _, workers := range []int{1, 3, 11} {
		best, err := SelectBest(context.Background(), twinPrices, allocs, SelectOptions{Workers: workers})
		require.NoError(t, err)
		// every candidate scores sqrt(6) up to rounding; whichever wins, it is the
		// earliest among those sharing its exact score
		for i := 0; i < best.Index; i++ {
			perf, err := Evaluate(twinPrices, allocs[i])
			require.NoError(t, err)
			assert.Less(t, perf.SharpeRatio, best.Performance.SharpeRatio)
		}
		assert.InDelta(t, 2.449489742783178, best.Performance.SharpeRatio, 1e-9)
	}
}

func TestSelectBest_NegativeSharpeStillSelected(t *testing.T) {
	falling := PriceMatrix{{100, 50}, {95, 49}, {90, 47}, {91, 45}}
	allocs, err := GenerateAllocations(2, 0)
	require.NoError(t, err)

	best, err := SelectBest(context.Background(), falling, allocs, SelectOptions{})
	require.NoError(t, err)
	assert.True(t, best.Found)
	assert.Less(t, best.Performance.SharpeRatio, 0.0)
	assert.NotNil(t, best.Allocation)
}

func TestSelectBest_Empty(t *testing.T) {
	_, err := SelectBest(context.Background(), mixedPrices, nil, SelectOptions{})
	require.ErrorIs(t, err, ErrNoLegalAllocation)
}

func TestSelectBest_DegenerateIsFatal(t *testing.T) {
	// second asset never moves, so the all-in-B allocation has zero volatility
	prices := PriceMatrix{{100, 7}, {103, 7}, {101, 7}}
	allocs, err := GenerateAllocations(2, 0)
	require.NoError(t, err)

	_, err = SelectBest(context.Background(), prices, allocs, SelectOptions{Workers: 2})
	require.ErrorIs(t, err, ErrDegenerateSeries)
}

func TestSelectBest_Cancelled(t *testing.T) {
	allocs, err := GenerateAllocations(3, 0)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = SelectBest(ctx, mixedPrices, allocs, SelectOptions{Workers: 2})
	require.ErrorIs(t, err, context.Canceled)
}
