package finance

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrDegenerateSeries means the daily-return series has zero volatility.
	ErrDegenerateSeries = errors.New("degenerate return series")
	// ErrNoLegalAllocation means the allocation set was empty.
	ErrNoLegalAllocation = errors.New("no legal allocation")
	// ErrBasketTooLarge means the grid would exceed the configured asset limit.
	ErrBasketTooLarge = errors.New("basket too large for grid search")
	// ErrDataGap means the provider could not produce a complete aligned series.
	ErrDataGap = errors.New("price data gap")
)

// DegenerateSeriesError reports a zero-volatility evaluation.
type DegenerateSeriesError struct {
	Days       int
	Allocation Allocation
}

func (e *DegenerateSeriesError) Error() string {
	return fmt.Sprintf("zero volatility over %d days for allocation %v: sharpe ratio undefined", e.Days, []float64(e.Allocation))
}

func (e *DegenerateSeriesError) Unwrap() error { return ErrDegenerateSeries }

// DataGapError is surfaced by price providers.
type DataGapError struct {
	Symbols []string
	Start   time.Time
	End     time.Time
	Reason  string
}

func (e *DataGapError) Error() string {
	return fmt.Sprintf("no complete price series for %s between %s and %s: %s",
		strings.Join(e.Symbols, ","), e.Start.Format(dayLayout), e.End.Format(dayLayout), e.Reason)
}

func (e *DataGapError) Unwrap() error { return ErrDataGap }

// IsSearchFailure reports whether err is one of the domain outcomes of a search
// rather than an infrastructure failure.
func IsSearchFailure(err error) bool {
	return errors.Is(err, ErrDegenerateSeries) ||
		errors.Is(err, ErrNoLegalAllocation) ||
		errors.Is(err, ErrBasketTooLarge) ||
		errors.Is(err, ErrDataGap)
}
