package finance

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// missingPriceFallback fills a symbol that has no observation at all in the window.
const missingPriceFallback = 1.0

// NormalizeSymbols upper-cases and trims symbols, rejecting empties and duplicates.
func NormalizeSymbols(symbols []string) ([]string, error) {
	out := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for i, s := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" {
			return nil, fmt.Errorf("empty symbol at position %d", i+1)
		}
		if seen[sym] {
			return nil, fmt.Errorf("duplicate symbol: %s", sym)
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out, nil
}

// alignDaily builds a price matrix on the union of all symbols' trading days.
// Gaps are forward-filled, then backward-filled, then set to missingPriceFallback.
func alignDaily(series []dailySeries, start, end time.Time) (*PriceHistory, error) {
	symbols := make([]string, len(series))
	for i, s := range series {
		symbols[i] = s.Symbol
	}

	dayset := map[time.Time]struct{}{}
	for _, s := range series {
		for _, d := range s.Days {
			dayset[d] = struct{}{}
		}
	}
	if len(dayset) == 0 {
		return nil, &DataGapError{Symbols: symbols, Start: start, End: end, Reason: "no trading days in range"}
	}
	days := make([]time.Time, 0, len(dayset))
	for d := range dayset {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	prices := make(PriceMatrix, len(days))
	for i := range prices {
		prices[i] = make([]float64, len(series))
	}
	for col, s := range series {
		column := fillColumn(days, s)
		for row, v := range column {
			prices[row][col] = v
		}
	}

	return &PriceHistory{Symbols: symbols, Days: days, Prices: prices}, nil
}

// fillColumn places one symbol's closes on the calendar and repairs gaps.
func fillColumn(days []time.Time, s dailySeries) []float64 {
	priceMap := make(map[time.Time]float64, len(s.Days))
	for i, d := range s.Days {
		if i < len(s.Closes) && s.Closes[i] > 0 {
			priceMap[d] = s.Closes[i]
		}
	}

	column := make([]float64, len(days))
	known := make([]bool, len(days))
	for i, d := range days {
		column[i], known[i] = priceMap[d]
	}

	// forward fill
	last, have := 0.0, false
	for i := range column {
		if known[i] {
			last, have = column[i], true
		} else if have {
			column[i], known[i] = last, true
		}
	}
	// backward fill
	have = false
	for i := len(column) - 1; i >= 0; i-- {
		if known[i] {
			last, have = column[i], true
		} else if have {
			column[i], known[i] = last, true
		}
	}
	for i := range column {
		if !known[i] {
			column[i] = missingPriceFallback
		}
	}
	return column
}
