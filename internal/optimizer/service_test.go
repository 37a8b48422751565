package optimizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioOptimizer/internal/finance"
	"portfolioOptimizer/internal/storage"
)

type stubProvider struct {
	days    []time.Time
	columns map[string][]float64
}

func (p stubProvider) GetPrices(_ context.Context, _, _ time.Time, symbols []string) (*finance.PriceHistory, error) {
	prices := make(finance.PriceMatrix, len(p.days))
	for i := range prices {
		prices[i] = make([]float64, len(symbols))
		for j, sym := range symbols {
			col, ok := p.columns[sym]
			if !ok {
				return nil, &finance.DataGapError{Symbols: []string{sym}, Reason: "unknown symbol"}
			}
			prices[i][j] = col[i]
		}
	}
	return &finance.PriceHistory{Symbols: symbols, Days: p.days, Prices: prices}, nil
}

func newStubProvider() stubProvider {
	d := func(s string) time.Time { t, _ := finance.ParseDay(s); return t }
	return stubProvider{
		days: []time.Time{d("2010-01-04"), d("2010-01-05"), d("2010-01-06"), d("2010-01-07")},
		columns: map[string][]float64{
			"C":   {3.4, 3.6, 3.5, 3.7},
			"IBM": {130, 131, 133, 132},
			"SPY": {110, 111, 110.5, 112},
		},
	}
}

type memHistory struct {
	recs    []storage.SearchRecord
	saveErr error
}

func (m *memHistory) SaveSearch(rec storage.SearchRecord) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	rec.ID = "id-1"
	m.recs = append(m.recs, rec)
	return rec.ID, nil
}

func (m *memHistory) RecentSearches(limit int) ([]storage.SearchRecord, error) {
	return m.recs, nil
}

func TestService_RunRecordsSearch(t *testing.T) {
	hist := &memHistory{}
	svc := NewService(newStubProvider(), hist, Options{})
	start, _ := finance.ParseDay("2010-01-01")
	end, _ := finance.ParseDay("2010-12-31")

	report, err := svc.Run(context.Background(), finance.SearchRequest{Start: start, End: end, Symbols: []string{"c", "ibm"}}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "id-1", report.ID)
	assert.Equal(t, "SPY", report.Comparison.BenchmarkSymbol)
	assert.Len(t, report.Comparison.Portfolio, 4)

	require.Len(t, hist.recs, 1)
	rec := hist.recs[0]
	assert.Equal(t, []string{"C", "IBM"}, rec.Symbols)
	assert.Equal(t, "2010-01-01", rec.StartDay)
	assert.Equal(t, "2010-12-31", rec.EndDay)
	assert.Equal(t, report.Result.Performance.SharpeRatio, rec.Sharpe)
	assert.Equal(t, 11, rec.Evaluated)

	text := FormatReport(report)
	assert.Contains(t, text, "Start Date: January 01, 2010")
	assert.Contains(t, text, "Symbols: C, IBM")
	assert.Contains(t, text, "Optimal Allocations: C=")
	assert.Contains(t, text, "Benchmark SPY Cumulative Return:")
}

func TestService_HistoryFailureIsNotFatal(t *testing.T) {
	svc := NewService(newStubProvider(), &memHistory{saveErr: errors.New("disk full")}, Options{Benchmark: "SPY"})
	report, err := svc.Run(context.Background(), finance.SearchRequest{Symbols: []string{"C"}}, "", nil)
	require.NoError(t, err)
	assert.Empty(t, report.ID)
}

func TestService_UnknownBenchmark(t *testing.T) {
	svc := NewService(newStubProvider(), nil, Options{})
	_, err := svc.Run(context.Background(), finance.SearchRequest{Symbols: []string{"C"}}, "NOPE", nil)
	require.ErrorIs(t, err, finance.ErrDataGap)
}

func TestService_RecentWithoutHistory(t *testing.T) {
	svc := NewService(newStubProvider(), nil, Options{})
	_, err := svc.Recent(5)
	assert.Error(t, err)
}

func TestFormatWeights(t *testing.T) {
	assert.Equal(t, "C=0.3 GS=0.7", formatWeights([]string{"C", "GS"}, []float64{0.3, 0.7}))
	assert.Equal(t, "C=1.0 ?=0.0", formatWeights([]string{"C"}, []float64{1, 0}))
}
