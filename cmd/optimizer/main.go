package main

import (
	"fmt"
	"os"

	"portfolioOptimizer/internal/finance"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0 // Search finished
	ExitSearchFailed = 1 // No allocation could be selected (degenerate data, empty grid, data gap)
	ExitError        = 2 // Configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if finance.IsSearchFailure(err) {
			os.Exit(ExitSearchFailed)
		}
		os.Exit(ExitError)
	}
}
