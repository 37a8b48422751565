package finance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// validateInputs checks the matrix is rectangular, positive and finite, and matches the weights.
func validateInputs(prices PriceMatrix, weights Allocation) error {
	numDays := prices.Days()
	if numDays == 0 {
		return fmt.Errorf("price matrix has no trading days")
	}
	numAssets := len(weights)
	if numAssets == 0 {
		return fmt.Errorf("allocation has no weights")
	}
	for day, row := range prices {
		if len(row) != numAssets {
			return fmt.Errorf("day %d has %d prices, allocation has %d weights", day, len(row), numAssets)
		}
		for asset, price := range row {
			if math.IsNaN(price) || math.IsInf(price, 0) {
				return fmt.Errorf("invalid price for asset %d on day %d: %f (NaN or Inf)", asset, day, price)
			}
			if price <= 0 {
				return fmt.Errorf("invalid price for asset %d on day %d: %f", asset, day, price)
			}
		}
	}
	return nil
}

// CumulativeValues normalizes each asset by its day-0 price, scales by weight and sums
// across assets per day. A fully invested allocation starts at 1.0.
func CumulativeValues(prices PriceMatrix, weights Allocation) ([]float64, error) {
	if err := validateInputs(prices, weights); err != nil {
		return nil, err
	}
	first := prices[0]
	values := make([]float64, prices.Days())
	for day, row := range prices {
		v := 0.0
		for asset, price := range row {
			v += (price / first[asset]) * weights[asset]
		}
		values[day] = v
	}
	return values, nil
}

// DailyReturns derives same-length returns from a value series; the first day is 0.
func DailyReturns(values []float64) []float64 {
	rets := make([]float64, len(values))
	for day := 1; day < len(values); day++ {
		rets[day] = values[day]/values[day-1] - 1
	}
	return rets
}

// Evaluate computes volatility, mean daily return, Sharpe ratio and cumulative return
// for one allocation. Volatility is the population standard deviation of the full
// return series including the leading zero, and Sharpe is scaled by sqrt(days).
func Evaluate(prices PriceMatrix, weights Allocation) (Performance, error) {
	values, err := CumulativeValues(prices, weights)
	if err != nil {
		return Performance{}, err
	}
	rets := DailyReturns(values)

	mean, vol := stat.PopMeanStdDev(rets, nil)
	if vol == 0 || math.IsNaN(vol) {
		return Performance{}, &DegenerateSeriesError{Days: len(values), Allocation: weights}
	}
	numDays := float64(prices.Days())
	sharpe := math.Sqrt(numDays) * mean / vol
	if math.IsNaN(sharpe) || math.IsInf(sharpe, 0) {
		return Performance{}, fmt.Errorf("invalid Sharpe ratio: %f", sharpe)
	}

	return Performance{
		Volatility:       vol,
		MeanDailyReturn:  mean,
		SharpeRatio:      sharpe,
		CumulativeReturn: values[len(values)-1],
	}, nil
}

// calculateMaxDrawdown returns the largest peak-to-trough decline as a fraction.
func calculateMaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}

	maxDrawdown := 0.0
	peak := values[0]
	for _, value := range values {
		if value > peak {
			peak = value
		}
		if peak > 0 {
			drawdown := (peak - value) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}
	return maxDrawdown
}
