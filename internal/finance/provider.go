package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// PriceProvider supplies aligned, gap-free daily closes for a basket.
type PriceProvider interface {
	GetPrices(ctx context.Context, start, end time.Time, symbols []string) (*PriceHistory, error)
}

// SeriesCache persists raw per-symbol series between runs.
type SeriesCache interface {
	LoadPriceSeries(symbol, startDay, endDay string, maxAge time.Duration) ([]byte, bool, error)
	SavePriceSeries(symbol, startDay, endDay string, payload []byte) error
}

// YahooProvider implements PriceProvider on top of YahooClient.
type YahooProvider struct {
	client   *YahooClient
	cache    SeriesCache
	cacheTTL time.Duration
	group    singleflight.Group
	log      zerolog.Logger
}

// NewYahooProvider wires a client with an optional cache (nil disables caching).
func NewYahooProvider(client *YahooClient, cache SeriesCache, cacheTTL time.Duration) *YahooProvider {
	if client == nil {
		client = NewYahooClient()
	}
	return &YahooProvider{
		client:   client,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log.With().Str("component", "prices").Logger(),
	}
}

// GetPrices fetches each symbol and aligns them on a shared trading-day calendar.
func (p *YahooProvider) GetPrices(ctx context.Context, start, end time.Time, symbols []string) (*PriceHistory, error) {
	symbols, err := NormalizeSymbols(symbols)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &DataGapError{Symbols: symbols, Start: start, End: end, Reason: "end date before start date"}
	}

	series := make([]dailySeries, 0, len(symbols))
	for _, sym := range symbols {
		s, err := p.symbolSeries(ctx, sym, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", sym, err)
		}
		if len(s.Days) == 0 {
			p.log.Warn().Str("symbol", sym).Msg("no closes in range, filling with constant")
		}
		series = append(series, s)
	}

	hist, err := alignDaily(series, start, end)
	if err != nil {
		return nil, err
	}
	p.log.Debug().Strs("symbols", symbols).Int("days", len(hist.Days)).Msg("prices aligned")
	return hist, nil
}

// symbolSeries serves from cache, collapsing concurrent fetches of the same window.
// The shared fetch outlives any single caller; each caller only waits on its own ctx.
func (p *YahooProvider) symbolSeries(ctx context.Context, symbol string, start, end time.Time) (dailySeries, error) {
	startDay, endDay := FormatDay(start), FormatDay(end)
	key := symbol + "|" + startDay + "|" + endDay
	fetchCtx := context.WithoutCancel(ctx)

	ch := p.group.DoChan(key, func() (any, error) {
		if s, ok := p.loadCached(symbol, startDay, endDay); ok {
			return s, nil
		}
		s, err := p.client.FetchDaily(fetchCtx, symbol, start, end)
		if err != nil {
			return dailySeries{}, err
		}
		p.storeCached(s, startDay, endDay)
		return s, nil
	})

	select {
	case <-ctx.Done():
		return dailySeries{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return dailySeries{}, res.Err
		}
		if res.Shared {
			p.log.Debug().Str("symbol", symbol).Msg("shared in-flight fetch")
		}
		return res.Val.(dailySeries), nil
	}
}

func (p *YahooProvider) loadCached(symbol, startDay, endDay string) (dailySeries, bool) {
	if p.cache == nil {
		return dailySeries{}, false
	}
	payload, ok, err := p.cache.LoadPriceSeries(symbol, startDay, endDay, p.cacheTTL)
	if err != nil {
		p.log.Warn().Err(err).Str("symbol", symbol).Msg("cache read failed")
		return dailySeries{}, false
	}
	if !ok {
		return dailySeries{}, false
	}
	var s dailySeries
	if err := json.Unmarshal(payload, &s); err != nil {
		p.log.Warn().Err(err).Str("symbol", symbol).Msg("cache payload corrupt")
		return dailySeries{}, false
	}
	return s, true
}

func (p *YahooProvider) storeCached(s dailySeries, startDay, endDay string) {
	if p.cache == nil || len(s.Days) == 0 {
		return
	}
	payload, err := json.Marshal(s)
	if err != nil {
		p.log.Warn().Err(err).Str("symbol", s.Symbol).Msg("cache encode failed")
		return
	}
	if err := p.cache.SavePriceSeries(s.Symbol, startDay, endDay, payload); err != nil {
		p.log.Warn().Err(err).Str("symbol", s.Symbol).Msg("cache write failed")
	}
}
