package finance

import "time"

// PriceMatrix holds closing prices as rows of trading days by columns of assets.
// Column order follows the basket the matrix was fetched for.
type PriceMatrix [][]float64

// Days returns the number of trading days (rows).
func (m PriceMatrix) Days() int { return len(m) }

// Assets returns the number of assets (columns of the first row).
func (m PriceMatrix) Assets() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Allocation is the fraction of portfolio value per asset, positionally matched to the basket.
type Allocation []float64

// Sum adds weights left to right. Legality checks depend on this exact order.
func (a Allocation) Sum() float64 {
	total := 0.0
	for _, w := range a {
		total += w
	}
	return total
}

// Performance is the outcome of evaluating one allocation against one price matrix.
type Performance struct {
	Volatility       float64 `json:"volatility"`
	MeanDailyReturn  float64 `json:"mean_daily_return"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	CumulativeReturn float64 `json:"cumulative_return"`
}

// Best is the running argmax of a search. Found is false until a candidate was evaluated.
type Best struct {
	Found       bool
	Index       int
	Allocation  Allocation
	Performance Performance
}

// PriceHistory is what a provider hands back: aligned, gap-filled closes.
type PriceHistory struct {
	Symbols []string
	Days    []time.Time
	Prices  PriceMatrix
}

// SearchRequest is the configuration fed into one search.
type SearchRequest struct {
	Start   time.Time
	End     time.Time
	Symbols []string
}

// SearchResult is the outcome of RunSearch.
type SearchResult struct {
	Request     SearchRequest `json:"-"`
	Symbols     []string      `json:"symbols"`
	Days        []time.Time   `json:"days"`
	Allocation  Allocation    `json:"allocation"`
	Performance Performance   `json:"performance"`
	Evaluated   int           `json:"evaluated"`
	Elapsed     time.Duration `json:"elapsed"`
}
