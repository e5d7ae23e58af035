package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/typelab/internal/model"
)

// RenderHistory prints a summary, a net WPM trend, and the most recent
// sessions. width bounds the sparkline; zero means unbounded.
func RenderHistory(w io.Writer, results []model.HistoryResult, window, width int) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded yet.")
		return err
	}
	sum := Summarize(results)
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", sum.Sessions); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Net WPM: %.1f\n", sum.AvgNetWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Net WPM: %d\n", sum.BestNetWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Raw WPM: %.1f\n", sum.AvgRawWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.1f%%\n", sum.AvgAccuracy); err != nil {
		return err
	}

	curve := MovingAverage(NetWPMSeries(results), window)
	if width > 0 && len(curve) > width {
		curve = curve[len(curve)-width:]
	}
	if _, err := fmt.Fprintf(w, "\nNet WPM trend\n%s\n\n", Sparkline(curve)); err != nil {
		return err
	}

	recent := results
	const recentLimit = 10
	if len(recent) > recentLimit {
		recent = recent[len(recent)-recentLimit:]
	}
	headers := []string{"Date", "Net WPM", "Raw WPM", "Accuracy", "Duration"}
	rows := make([][]string, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		res := recent[i]
		rows = append(rows, []string{
			res.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", res.NetWPM),
			fmt.Sprintf("%d", res.RawWPM),
			fmt.Sprintf("%d%%", res.Accuracy),
			fmt.Sprintf("%.1fs", float64(res.DurationMs)/1000),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range FormatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
