package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptimizeCommand(t *testing.T) {
	now := day("2024-06-15").Add(15 * 3600e9)

	tests := []struct {
		name    string
		input   string
		symbols []string
		start   string
		end     string
	}{
		{"explicit dates", "/optimize C GS IBM HNZ 2010-01-01 2010-12-31", []string{"C", "GS", "IBM", "HNZ"}, "2010-01-01", "2010-12-31"},
		{"bot suffix", "/optimize@PortfolioBot aapl gld 2020-01-01 2020-06-30", []string{"AAPL", "GLD"}, "2020-01-01", "2020-06-30"},
		{"window days", "/optimize AAPL GLD 30d", []string{"AAPL", "GLD"}, "2024-05-16", "2024-06-15"},
		{"window weeks", "/optimize AAPL 2w", []string{"AAPL"}, "2024-06-01", "2024-06-15"},
		{"window months", "/optimize AAPL GLD 6m", []string{"AAPL", "GLD"}, "2023-12-18", "2024-06-15"},
		{"default year", "/optimize AAPL GLD", []string{"AAPL", "GLD"}, "2023-06-15", "2024-06-15"},
		{"no command prefix", "spy tlt 1y", []string{"SPY", "TLT"}, "2023-06-16", "2024-06-15"},
		{"upper case unit is a ticker", "/optimize AAPL 3M", []string{"AAPL", "3M"}, "2023-06-15", "2024-06-15"},
		{"ticker then window", "/optimize AAPL 3M 3m", []string{"AAPL", "3M"}, "2024-03-17", "2024-06-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseOptimizeCommand(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.symbols, req.Symbols)
			assert.Equal(t, tt.start, FormatDay(req.Start))
			assert.Equal(t, tt.end, FormatDay(req.End))
		})
	}
}

func TestParseOptimizeCommand_Errors(t *testing.T) {
	now := day("2024-06-15")

	tests := []struct {
		name  string
		input string
	}{
		{"no symbols", "/optimize"},
		{"bot suffix only", "/optimize@PortfolioBot"},
		{"reversed dates", "/optimize AAPL GLD 2020-06-30 2020-01-01"},
		{"zero window", "/optimize AAPL 0d"},
		{"duplicate symbols", "/optimize AAPL aapl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptimizeCommand(tt.input, now)
			assert.Error(t, err)
		})
	}
}

func TestParseWindowDays(t *testing.T) {
	cases := map[string]int{"30d": 30, "4w": 28, "6m": 180, "2y": 730}
	for in, want := range cases {
		got, err := parseWindowDays(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseWindowDays("xd")
	assert.Error(t, err)
}
