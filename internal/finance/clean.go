package finance

import (
	"math"
	"time"
)

// derefCloses turns Yahoo's nullable closes into floats, with NaN marking a missing bar.
func derefCloses(raw []*float64) []float64 {
	out := make([]float64, len(raw))
	for i, p := range raw {
		if p == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *p
	}
	return out
}

// filterValidCloses removes points where close is missing or not strictly positive,
// keeping timestamp and value arrays aligned. Dropped points become gaps for the fill policy.
func filterValidCloses(ts []int64, cl []float64) ([]int64, []float64) {
	if len(ts) != len(cl) {
		n := min(len(ts), len(cl))
		ts = ts[:n]
		cl = cl[:n]
	}
	outTs := make([]int64, 0, len(ts))
	outCl := make([]float64, 0, len(cl))
	for i := 0; i < len(ts); i++ {
		if math.IsNaN(cl[i]) || math.IsInf(cl[i], 0) || cl[i] <= 0 {
			continue
		}
		outTs = append(outTs, ts[i])
		outCl = append(outCl, cl[i])
	}
	return outTs, outCl
}

// toDailySeries buckets bars by trading day in loc, keeping the last close of each day
// and only days inside [start, end].
func toDailySeries(symbol string, ts []int64, cl []float64, loc *time.Location, start, end time.Time) dailySeries {
	ts, cl = filterValidCloses(ts, cl)
	start, end = truncateDay(start), truncateDay(end)
	out := dailySeries{Symbol: symbol}
	for i, t := range ts {
		day := tradingDay(t, loc)
		if day.Before(start) || day.After(end) {
			continue
		}
		if n := len(out.Days); n > 0 && out.Days[n-1].Equal(day) {
			out.Closes[n-1] = cl[i]
			continue
		}
		out.Days = append(out.Days, day)
		out.Closes = append(out.Closes, cl[i])
	}
	return out
}
