package optimizer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"portfolioOptimizer/internal/finance"
	"portfolioOptimizer/internal/storage"
)

// History is the persistence the service needs; *storage.Store satisfies it.
type History interface {
	SaveSearch(rec storage.SearchRecord) (string, error)
	RecentSearches(limit int) ([]storage.SearchRecord, error)
}

// Options configures a Service.
type Options struct {
	Search    finance.SearchOptions
	Benchmark string
}

// Report is the full answer to one request: the winning allocation and the
// benchmark comparison.
type Report struct {
	ID         string                   `json:"id,omitempty"`
	Result     *finance.SearchResult    `json:"result"`
	Comparison finance.ComparisonSeries `json:"comparison"`
}

// Service runs searches for the CLI, the HTTP API and the bot.
type Service struct {
	provider finance.PriceProvider
	history  History
	opts     Options
	log      zerolog.Logger
}

func NewService(provider finance.PriceProvider, history History, opts Options) *Service {
	if opts.Benchmark == "" {
		opts.Benchmark = "SPY"
	}
	return &Service{
		provider: provider,
		history:  history,
		opts:     opts,
		log:      log.With().Str("component", "optimizer").Logger(),
	}
}

// Run searches, compares against the benchmark, hands the comparison to sink and records the run.
// benchmark overrides the configured benchmark when non-empty.
func (s *Service) Run(ctx context.Context, req finance.SearchRequest, benchmark string, sink finance.ChartSink) (*Report, error) {
	if benchmark == "" {
		benchmark = s.opts.Benchmark
	}
	result, err := finance.RunSearch(ctx, s.provider, req, s.opts.Search)
	if err != nil {
		return nil, err
	}
	cmp, err := finance.Compare(ctx, s.provider, result, benchmark, sink)
	if err != nil {
		return nil, err
	}

	report := &Report{Result: result, Comparison: cmp}
	if s.history != nil {
		id, err := s.history.SaveSearch(RecordFromResult(result))
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to record search")
		} else {
			report.ID = id
		}
	}
	return report, nil
}

// Recent lists stored searches, newest first.
func (s *Service) Recent(limit int) ([]storage.SearchRecord, error) {
	if s.history == nil {
		return nil, fmt.Errorf("search history is not configured")
	}
	return s.history.RecentSearches(limit)
}

// RecordFromResult flattens a search result for persistence.
func RecordFromResult(r *finance.SearchResult) storage.SearchRecord {
	return storage.SearchRecord{
		Symbols:          r.Symbols,
		StartDay:         finance.FormatDay(r.Request.Start),
		EndDay:           finance.FormatDay(r.Request.End),
		Weights:          r.Allocation,
		Sharpe:           r.Performance.SharpeRatio,
		Volatility:       r.Performance.Volatility,
		MeanReturn:       r.Performance.MeanDailyReturn,
		CumulativeReturn: r.Performance.CumulativeReturn,
		Evaluated:        r.Evaluated,
	}
}
