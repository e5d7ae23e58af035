package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typelab/internal/model"
)

func TestSummarize(t *testing.T) {
	results := []model.HistoryResult{
		{NetWPM: 40, RawWPM: 50, Accuracy: 90},
		{NetWPM: 60, RawWPM: 70, Accuracy: 100},
	}
	sum := Summarize(results)
	if sum.Sessions != 2 {
		t.Fatalf("expected 2 sessions, got %d", sum.Sessions)
	}
	if sum.AvgNetWPM != 50 {
		t.Fatalf("expected avg net 50, got %v", sum.AvgNetWPM)
	}
	if sum.BestNetWPM != 60 {
		t.Fatalf("expected best net 60, got %d", sum.BestNetWPM)
	}
	if sum.AvgAccuracy != 95 {
		t.Fatalf("expected avg accuracy 95, got %v", sum.AvgAccuracy)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)
	if sum.Sessions != 0 || sum.AvgNetWPM != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	out := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], out[i])
		}
	}
}

func TestSparklineFlat(t *testing.T) {
	line := Sparkline([]float64{5, 5, 5})
	if len(line) != 3 {
		t.Fatalf("expected 3 chars, got %q", line)
	}
	if line[0] != line[1] || line[1] != line[2] {
		t.Fatalf("flat series must render uniformly: %q", line)
	}
}

func TestRenderHistory(t *testing.T) {
	endedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	results := []model.HistoryResult{
		{NetWPM: 40, RawWPM: 48, Accuracy: 92, DurationMs: 30000, EndedAt: endedAt},
		{NetWPM: 55, RawWPM: 60, Accuracy: 97, DurationMs: 21500, EndedAt: endedAt.Add(time.Hour)},
	}
	var buf bytes.Buffer
	if err := RenderHistory(&buf, results, 5, 40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Best Net WPM: 55", "Net WPM trend"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, nil, 5, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions recorded yet.") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}
