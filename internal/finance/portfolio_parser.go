package finance

import (
	"fmt"
	"strings"
	"time"
)

// ParseOptimizeCommand parses an optimize command string.
// Formats:
//
//	/optimize C GS IBM HNZ 2010-01-01 2010-12-31
//	/optimize AAPL GLD 6m
//	/optimize AAPL GLD            (defaults to the last year)
//
// now anchors relative windows.
func ParseOptimizeCommand(input string, now time.Time) (SearchRequest, error) {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "/optimize") {
		input = strings.TrimSpace(input[len("/optimize"):])
		// strip @botname suffix
		if strings.HasPrefix(input, "@") {
			if i := strings.IndexByte(input, ' '); i >= 0 {
				input = strings.TrimSpace(input[i:])
			} else {
				input = ""
			}
		}
	}

	parts := strings.Fields(input)
	end := truncateDay(now)
	start := end.AddDate(-1, 0, 0)

	switch {
	case len(parts) >= 3 && isDay(parts[len(parts)-1]) && isDay(parts[len(parts)-2]):
		s, _ := ParseDay(parts[len(parts)-2])
		e, _ := ParseDay(parts[len(parts)-1])
		start, end = s, e
		parts = parts[:len(parts)-2]
	case len(parts) >= 2 && isWindow(parts[len(parts)-1]):
		days, err := parseWindowDays(parts[len(parts)-1])
		if err != nil {
			return SearchRequest{}, err
		}
		start = end.AddDate(0, 0, -days)
		parts = parts[:len(parts)-1]
	}

	if len(parts) == 0 {
		return SearchRequest{}, fmt.Errorf("insufficient arguments: need at least one symbol")
	}
	if end.Before(start) {
		return SearchRequest{}, fmt.Errorf("end date %s is before start date %s", FormatDay(end), FormatDay(start))
	}
	symbols, err := NormalizeSymbols(parts)
	if err != nil {
		return SearchRequest{}, err
	}
	return SearchRequest{Start: start, End: end, Symbols: symbols}, nil
}

func isDay(s string) bool {
	_, err := ParseDay(s)
	return err == nil
}

// isWindow matches 30d / 4w / 6m / 2y. The unit must be lower case so that tickers
// such as 3M are not read as a window.
func isWindow(s string) bool {
	if len(s) < 2 {
		return false
	}
	switch s[len(s)-1] {
	case 'd', 'w', 'm', 'y':
	default:
		return false
	}
	for _, r := range s[:len(s)-1] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseWindowDays converts 30d / 4w / 6m / 2y into calendar days.
func parseWindowDays(window string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(window[:len(window)-1], "%d", &n); err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid window format: %s (use format like 30d, 4w, 6m, 1y)", window)
	}
	switch window[len(window)-1] {
	case 'd':
		return n, nil
	case 'w':
		return n * 7, nil
	case 'm':
		return n * 30, nil
	case 'y':
		return n * 365, nil
	}
	return 0, fmt.Errorf("invalid window format: %s (use format like 30d, 4w, 6m, 1y)", window)
}
