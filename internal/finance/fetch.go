package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// YahooClient fetches daily closes from Yahoo Finance, rotating hosts with backoff and
// falling back to the spark endpoint when the chart endpoint keeps failing.
type YahooClient struct {
	HTTP     *http.Client
	BaseURLs []string
	Backoffs []time.Duration
	Now      func() time.Time

	log zerolog.Logger
}

// NewYahooClient returns a client against the public Yahoo hosts.
func NewYahooClient() *YahooClient {
	return &YahooClient{
		HTTP:     &http.Client{Timeout: 20 * time.Second},
		BaseURLs: []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"},
		Backoffs: []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second},
		Now:      time.Now,
		log:      log.With().Str("component", "yahoo").Logger(),
	}
}

func previewBody(body []byte) string {
	preview := string(body)
	if len(preview) > 120 {
		preview = preview[:120]
	}
	return preview
}

// get performs one GET and returns the body when it looks like usable JSON.
func (c *YahooClient) get(ctx context.Context, rawURL, symbol string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/chart", strings.ToUpper(symbol)))
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("failed to read yahoo response: %w", readErr)
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
		return nil, fmt.Errorf("yahoo %s returned 429: Edge: Too Many Requests", req.URL.Host)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s returned %d: %s", req.URL.Host, resp.StatusCode, previewBody(body))
	}
	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return nil, fmt.Errorf("yahoo returned non-json body: %s", previewBody(body))
	}
	return body, nil
}

// retry calls try against every host, sleeping between rounds, until one succeeds.
func (c *YahooClient) retry(ctx context.Context, try func(base string) error) error {
	var lastErr error
	for attempt := 0; attempt < len(c.Backoffs)+1; attempt++ {
		for _, base := range c.BaseURLs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if lastErr = try(base); lastErr == nil {
				return nil
			}
		}
		if attempt < len(c.Backoffs) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.Backoffs[attempt]):
			}
		}
	}
	return lastErr
}

// FetchDaily returns one symbol's daily closes within [start, end].
func (c *YahooClient) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (dailySeries, error) {
	var yc yahooChartResp
	err := c.retry(ctx, func(base string) error {
		q := url.Values{}
		q.Set("period1", fmt.Sprint(truncateDay(start).Unix()))
		q.Set("period2", fmt.Sprint(truncateDay(end).AddDate(0, 0, 1).Unix()))
		q.Set("interval", "1d")
		q.Set("events", "div,splits")
		body, err := c.get(ctx, fmt.Sprintf("%s/v8/finance/chart/%s?%s", base, url.PathEscape(symbol), q.Encode()), symbol)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &yc); err != nil {
			return fmt.Errorf("failed to parse yahoo json: %v; body: %s", err, previewBody(body))
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return dailySeries{}, ctx.Err()
		}
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("chart endpoint failed, trying spark")
		return c.fetchSpark(ctx, symbol, start, end)
	}
	if len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Indicators.Quote) == 0 {
		return dailySeries{Symbol: symbol}, nil
	}
	res := yc.Chart.Result[0]
	closes := derefCloses(res.Indicators.Quote[0].Close)
	if len(res.Indicators.AdjClose) > 0 && len(res.Indicators.AdjClose[0].AdjClose) == len(res.Timestamp) {
		closes = derefCloses(res.Indicators.AdjClose[0].AdjClose)
	}
	loc := time.FixedZone(res.Meta.Timezone, res.Meta.GmtOffset)
	return toDailySeries(symbol, res.Timestamp, closes, loc, start, end), nil
}

func (c *YahooClient) fetchSpark(ctx context.Context, symbol string, start, end time.Time) (dailySeries, error) {
	var sp yahooSparkResp
	rangeParam := sparkRange(c.Now(), start)
	err := c.retry(ctx, func(base string) error {
		body, err := c.get(ctx, fmt.Sprintf("%s/v7/finance/spark?symbols=%s&range=%s&interval=1d", base, url.QueryEscape(strings.ToUpper(symbol)), rangeParam), symbol)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &sp); err != nil {
			return fmt.Errorf("failed to parse yahoo spark json: %v", err)
		}
		if len(sp.Spark.Result) == 0 || len(sp.Spark.Result[0].Response) == 0 {
			return errors.New("yahoo spark returned no series")
		}
		return nil
	})
	if err != nil {
		return dailySeries{}, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	r := sp.Spark.Result[0].Response[0]
	return toDailySeries(symbol, r.Timestamp, derefCloses(r.Close), getEasternTime(), start, end), nil
}

// sparkRange picks the smallest spark range reaching back to start.
func sparkRange(now, start time.Time) string {
	days := int(now.Sub(start).Hours()/24) + 1
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 182:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 2*365:
		return "2y"
	case days <= 5*365:
		return "5y"
	case days <= 10*365:
		return "10y"
	default:
		return "max"
	}
}
