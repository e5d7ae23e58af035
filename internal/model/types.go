// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Name            string
	DurationSeconds int
	ServerURL       string
	HistoryDBPath   string
}

// ServeConfig defines leaderboard server settings.
type ServeConfig struct {
	ListenAddr string
	MongoURI   string
}

// SessionState tracks the lifecycle of one typing session.
type SessionState int

// Session lifecycle states.
const (
	AwaitingStart SessionState = iota
	Active
	Finished
)

// SessionResult is the immutable snapshot produced when a session finishes.
type SessionResult struct {
	PlayerName  string
	NetWPM      int
	Accuracy    int
	RawWPM      int
	TotalChars  int
	CorrectCh   int
	DurationMs  int64
	Passage     string
	StartedAt   time.Time
	CompletedAt time.Time
}

// Snapshot is the read-only view handed to the host UI after each event.
type Snapshot struct {
	Typed            string
	NetWPM           int
	Accuracy         int
	RemainingSeconds int
	State            SessionState
}

// Submission is a candidate score as received by the leaderboard service.
type Submission struct {
	Name     string
	WPM      float64
	Accuracy float64
	RawWPM   *float64
}

// ScoreRecord is the persisted leaderboard entry.
type ScoreRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	WPM       float64   `json:"wpm"`
	Accuracy  float64   `json:"accuracy"`
	RawWPM    float64   `json:"rawWpm"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryResult is one locally stored session result.
type HistoryResult struct {
	ResultID     int64
	StartedAt    time.Time
	EndedAt      time.Time
	NetWPM       int
	RawWPM       int
	Accuracy     int
	TotalChars   int
	CorrectChars int
	DurationMs   int64
	Passage      string
}
