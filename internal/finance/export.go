package finance

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
)

// CSVExport is a ChartSink that writes the comparison as rows instead of an image.
type CSVExport struct {
	Path string
}

func (e CSVExport) Deliver(_ context.Context, series ComparisonSeries) error {
	return WriteComparisonCSV(e.Path, series)
}

// WriteComparisonCSV writes one row per trading day: day, benchmark, portfolio.
func WriteComparisonCSV(path string, series ComparisonSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	labels := series.Labels()
	if err := w.Write([]string{"day", labels[0], labels[1]}); err != nil {
		return err
	}
	for i, d := range series.Days {
		row := []string{FormatDay(d), fmtFloat(valueAt(series.Benchmark, i)), fmtFloat(valueAt(series.Portfolio, i))}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func valueAt(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// Sinks fans one comparison out to several collaborators.
type Sinks []ChartSink

func (s Sinks) Deliver(ctx context.Context, series ComparisonSeries) error {
	for _, sink := range s {
		if err := sink.Deliver(ctx, series); err != nil {
			return err
		}
	}
	return nil
}
