package finance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vicanso/go-charts/v2"
)

// ComparisonChart renders benchmark-vs-portfolio line charts as PNG.
type ComparisonChart struct {
	Path string // output file for Deliver
}

// Deliver renders the comparison and writes it to c.Path.
func (c ComparisonChart) Deliver(_ context.Context, series ComparisonSeries) error {
	if c.Path == "" {
		return fmt.Errorf("chart path is empty")
	}
	img, err := RenderComparison(series)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(c.Path, img, 0o644)
}

func comparisonCacheKey(series ComparisonSeries) string {
	weightStrs := make([]string, len(series.Allocation))
	for i, w := range series.Allocation {
		weightStrs[i] = fmt.Sprintf("%.1f", w)
	}
	var first, last string
	if n := len(series.Days); n > 0 {
		first, last = FormatDay(series.Days[0]), FormatDay(series.Days[n-1])
	}
	return fmt.Sprintf("cmp-%s-%s-%s-%s-%s", strings.Join(series.Symbols, ","), strings.Join(weightStrs, ","), series.BenchmarkSymbol, first, last)
}

// RenderComparison draws both cumulative value series with a legend and the
// winning allocation's statistics in the title.
func RenderComparison(series ComparisonSeries) ([]byte, error) {
	if len(series.Portfolio) == 0 {
		return nil, fmt.Errorf("no portfolio values to plot")
	}
	if len(series.Benchmark) != len(series.Portfolio) || len(series.Days) != len(series.Portfolio) {
		return nil, fmt.Errorf("series length mismatch: days=%d benchmark=%d portfolio=%d",
			len(series.Days), len(series.Benchmark), len(series.Portfolio))
	}

	cacheKey := comparisonCacheKey(series)
	if img, found := cacheGet(cacheKey); found {
		return img, nil
	}

	xLabels := dayLabels(series.Days)

	minVal, maxVal := series.Portfolio[0], series.Portfolio[0]
	for _, vals := range [][]float64{series.Benchmark, series.Portfolio} {
		for _, v := range vals {
			minVal = min(minVal, v)
			maxVal = max(maxVal, v)
		}
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = maxVal * 0.05
	}
	yMin := minVal - padding
	yMax := maxVal + padding

	var composition []string
	for i, sym := range series.Symbols {
		if i < len(series.Allocation) && series.Allocation[i] > 0 {
			composition = append(composition, fmt.Sprintf("%s %.0f%%", sym, series.Allocation[i]*100))
		}
	}
	title := fmt.Sprintf("Optimal Portfolio (%s)", strings.Join(composition, ", "))
	subtitle := fmt.Sprintf("Sharpe: %.2f | Vol: %.4f | Cum: %.3f | MaxDD: %.2f%%",
		series.Performance.SharpeRatio, series.Performance.Volatility,
		series.Performance.CumulativeReturn, series.MaxDrawdown*100)

	splitNum := 6
	if len(xLabels) <= 30 {
		splitNum = max(len(xLabels)/3, 3)
	}

	labels := series.Labels()
	seriesList := charts.NewSeriesListDataFromValues([][]float64{series.Benchmark, series.Portfolio}, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = labels[i]
	}

	p, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.LegendOptionFunc(charts.LegendOption{Data: labels}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	cacheSet(cacheKey, buf)
	return buf, nil
}

// dayLabels formats trading days for the x axis. Days are already exchange-local
// dates, so no zone conversion is applied.
func dayLabels(days []time.Time) []string {
	layout := "Jan 02"
	if len(days) > 60 {
		layout = "Jan '06"
	}
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Format(layout)
	}
	return labels
}
