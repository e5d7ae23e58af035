package score

import (
	"sort"
	"strings"

	"github.com/verte-zerg/typelab/internal/model"
)

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// sortScores orders records by wpm descending, ties by accuracy descending.
func sortScores(recs []model.ScoreRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].WPM == recs[j].WPM {
			return recs[i].Accuracy > recs[j].Accuracy
		}
		return recs[i].WPM > recs[j].WPM
	})
}

// dedupByPlayer keeps each player's single best record, comparing names
// case-insensitively after trimming. The result is ranked.
func dedupByPlayer(recs []model.ScoreRecord) []model.ScoreRecord {
	best := make(map[string]model.ScoreRecord, len(recs))
	for _, rec := range recs {
		key := normalizeName(rec.Name)
		cur, ok := best[key]
		if !ok || better(rec, cur) {
			best[key] = rec
		}
	}
	out := make([]model.ScoreRecord, 0, len(best))
	for _, rec := range best {
		out = append(out, rec)
	}
	sortScores(out)
	return out
}

func better(a, b model.ScoreRecord) bool {
	if a.WPM != b.WPM {
		return a.WPM > b.WPM
	}
	if a.Accuracy != b.Accuracy {
		return a.Accuracy > b.Accuracy
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
