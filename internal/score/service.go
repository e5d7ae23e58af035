// Package score implements leaderboard submission and ranking rules.
package score

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typelab/internal/model"
)

// Submission rejection kinds. Anything else returned by Submit is a transient
// storage fault and may be retried by the caller.
var (
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrDuplicate         = errors.New("duplicate submission")
)

const (
	maxNameRunes    = 50
	maxWPM          = 500.0
	duplicateWindow = 2 * time.Second

	// RawFeedLimit caps the raw ranked feed.
	RawFeedLimit = 100
	// LeaderboardLimit caps the per-player deduped view.
	LeaderboardLimit = 20
)

// Store persists score records.
type Store interface {
	Insert(ctx context.Context, rec model.ScoreRecord) (model.ScoreRecord, error)
	ListSince(ctx context.Context, since time.Time) ([]model.ScoreRecord, error)
	ListTop(ctx context.Context, limit int) ([]model.ScoreRecord, error)
}

// Service validates, deduplicates, and ranks score submissions.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService returns a Service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Submit validates and persists a candidate score. The stored record carries a
// server-assigned identifier and timestamp. A near-identical submission within
// the suppression window is rejected with ErrDuplicate.
func (s *Service) Submit(ctx context.Context, sub model.Submission) (model.ScoreRecord, error) {
	name := strings.TrimSpace(sub.Name)
	if name == "" {
		return model.ScoreRecord{}, fmt.Errorf("%w: name must not be empty", ErrInvalidSubmission)
	}
	if runes := []rune(name); len(runes) > maxNameRunes {
		name = string(runes[:maxNameRunes])
	}
	if !isFinite(sub.WPM) || sub.WPM < 0 || sub.WPM > maxWPM {
		return model.ScoreRecord{}, fmt.Errorf("%w: wpm out of range", ErrInvalidSubmission)
	}
	if !isFinite(sub.Accuracy) {
		return model.ScoreRecord{}, fmt.Errorf("%w: accuracy must be a finite number", ErrInvalidSubmission)
	}
	accuracy := clamp(sub.Accuracy, 0, 100)

	rawWPM := sub.WPM
	if sub.RawWPM != nil {
		if !isFinite(*sub.RawWPM) || *sub.RawWPM < 0 || *sub.RawWPM > maxWPM {
			return model.ScoreRecord{}, fmt.Errorf("%w: rawWpm out of range", ErrInvalidSubmission)
		}
		rawWPM = *sub.RawWPM
	}

	now := s.now()
	recent, err := s.store.ListSince(ctx, now.Add(-duplicateWindow))
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("failed to check for duplicates: %w", err)
	}
	for _, rec := range recent {
		if normalizeName(rec.Name) == normalizeName(name) && rec.WPM == sub.WPM && rec.Accuracy == accuracy {
			return model.ScoreRecord{}, ErrDuplicate
		}
	}

	rec, err := s.store.Insert(ctx, model.ScoreRecord{
		Name:      name,
		WPM:       sub.WPM,
		Accuracy:  accuracy,
		RawWPM:    rawWPM,
		CreatedAt: now,
	})
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("failed to store score: %w", err)
	}
	return rec, nil
}

// TopScores returns the raw ranked feed: wpm descending, accuracy breaking ties.
func (s *Service) TopScores(ctx context.Context, limit int) ([]model.ScoreRecord, error) {
	recs, err := s.store.ListTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	sortScores(recs)
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Leaderboard collapses the full history to one entry per player, keeping the
// highest score, then truncates to the display limit.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.ScoreRecord, error) {
	recs, err := s.store.ListTop(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	recs = dedupByPlayer(recs)
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
