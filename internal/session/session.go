package session

import (
	"math"
	"time"

	"github.com/verte-zerg/typelab/internal/model"
)

// Session owns the state of one timed typing attempt. The host feeds it the
// full input buffer after every edit plus a once-per-second tick; the session
// decides when the attempt is over and produces exactly one result.
type Session struct {
	passage    []rune
	passageStr string
	duration   time.Duration
	now        func() time.Time

	state     model.SessionState
	typed     []rune
	total     int
	correct   int
	startedAt time.Time
	remaining int
	elapsed   time.Duration
	ended     bool
}

// New creates a session over the given passage. The countdown does not run
// until the first accepted keystroke.
func New(passage string, duration time.Duration) *Session {
	return &Session{
		passage:    []rune(passage),
		passageStr: passage,
		duration:   duration,
		now:        time.Now,
		state:      model.AwaitingStart,
		remaining:  int(duration / time.Second),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() model.SessionState {
	return s.state
}

// Passage returns the target passage.
func (s *Session) Passage() string {
	return s.passageStr
}

// ApplyEdit consumes the full current input buffer and updates the counters
// from the diff against the previous buffer. It returns a non-nil result only
// when this edit finished the session, either by completing the passage or by
// arriving after the configured duration elapsed.
func (s *Session) ApplyEdit(next string) *model.SessionResult {
	if s.state == model.Finished {
		return nil
	}
	nextRunes := []rune(next)
	if s.state == model.AwaitingStart {
		if len(nextRunes) == 0 {
			return nil
		}
		s.state = model.Active
		s.startedAt = s.now()
	}
	d := countDeltas(s.typed, nextRunes, s.passage)
	s.total += d.total
	s.correct += d.correct
	s.typed = nextRunes

	if runesEqual(nextRunes, s.passage) {
		return s.end(s.now().Sub(s.startedAt))
	}
	if elapsed := s.now().Sub(s.startedAt); elapsed >= s.duration {
		return s.end(s.duration)
	}
	return nil
}

// Tick advances the countdown by one second of wall-clock time. It returns a
// non-nil result only when this tick expired the session.
func (s *Session) Tick() *model.SessionResult {
	if s.state != model.Active {
		return nil
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		return s.end(s.duration)
	}
	return nil
}

// Snapshot returns the read-only view for rendering.
func (s *Session) Snapshot() model.Snapshot {
	return model.Snapshot{
		Typed:            string(s.typed),
		NetWPM:           wordsPerMinute(s.correct, s.liveElapsed()),
		Accuracy:         accuracyPct(s.correct, s.total),
		RemainingSeconds: s.remaining,
		State:            s.state,
	}
}

// end freezes the session exactly once; later calls are no-ops. Both the
// completion path and the timer path route through here.
func (s *Session) end(elapsed time.Duration) *model.SessionResult {
	if s.ended {
		return nil
	}
	s.ended = true
	s.state = model.Finished
	s.elapsed = elapsed
	return &model.SessionResult{
		NetWPM:      wordsPerMinute(s.correct, elapsed),
		Accuracy:    accuracyPct(s.correct, s.total),
		RawWPM:      wordsPerMinute(s.total, elapsed),
		TotalChars:  s.total,
		CorrectCh:   s.correct,
		DurationMs:  elapsed.Milliseconds(),
		Passage:     s.passageStr,
		StartedAt:   s.startedAt,
		CompletedAt: s.now(),
	}
}

func (s *Session) liveElapsed() time.Duration {
	switch s.state {
	case model.Active:
		return s.now().Sub(s.startedAt)
	case model.Finished:
		return s.elapsed
	default:
		return 0
	}
}

// accuracyPct gives full credit when nothing has been typed yet.
func accuracyPct(correct, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// wordsPerMinute uses the standard five characters per word convention.
func wordsPerMinute(chars int, elapsed time.Duration) int {
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0
	}
	return int(math.Round(float64(chars) / 5.0 / minutes))
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
