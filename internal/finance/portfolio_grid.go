package finance

import (
	"fmt"
	"math"
)

// DefaultMaxAssets bounds the grid. 11^6 is about 1.8M raw combinations; each
// additional asset multiplies the work by 11.
const DefaultMaxAssets = 6

// weightLevels is the per-asset discretization.
var weightLevels = [...]float64{0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}

// GenerateAllocations enumerates the Cartesian product of weightLevels across n assets
// (first asset slowest, last fastest) and keeps the candidates whose float64 sum is
// exactly 1.0. No tolerance is applied.
func GenerateAllocations(n int, maxAssets int) ([]Allocation, error) {
	if maxAssets <= 0 {
		maxAssets = DefaultMaxAssets
	}
	if n < 0 {
		return nil, fmt.Errorf("negative basket size %d", n)
	}
	if n > maxAssets {
		return nil, fmt.Errorf("%w: %d assets means %.0f combinations, limit is %d assets",
			ErrBasketTooLarge, n, math.Pow(float64(len(weightLevels)), float64(n)), maxAssets)
	}
	if n == 0 {
		return []Allocation{}, nil
	}

	levels := len(weightLevels)
	idx := make([]int, n)
	var out []Allocation
	for {
		candidate := make(Allocation, n)
		for i, l := range idx {
			candidate[i] = weightLevels[l]
		}
		if candidate.Sum() == 1.0 {
			out = append(out, candidate)
		}

		// odometer increment, last position fastest
		pos := n - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < levels {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return out, nil
}
