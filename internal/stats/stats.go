// Package stats contains statistics calculations and reporting for local history.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/typelab/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates local typing history.
type Summary struct {
	Sessions    int
	AvgNetWPM   float64
	BestNetWPM  int
	AvgRawWPM   float64
	AvgAccuracy float64
}

// Summarize computes aggregate metrics over stored results.
func Summarize(results []model.HistoryResult) Summary {
	sum := Summary{Sessions: len(results)}
	if len(results) == 0 {
		return sum
	}
	var totalNet, totalRaw, totalAcc float64
	for _, res := range results {
		totalNet += float64(res.NetWPM)
		totalRaw += float64(res.RawWPM)
		totalAcc += float64(res.Accuracy)
		if res.NetWPM > sum.BestNetWPM {
			sum.BestNetWPM = res.NetWPM
		}
	}
	count := float64(len(results))
	sum.AvgNetWPM = totalNet / count
	sum.AvgRawWPM = totalRaw / count
	sum.AvgAccuracy = totalAcc / count
	return sum
}

// NetWPMSeries extracts the net WPM curve in chronological order.
func NetWPMSeries(results []model.HistoryResult) []float64 {
	out := make([]float64, len(results))
	for i, res := range results {
		out[i] = float64(res.NetWPM)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
