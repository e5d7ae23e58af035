// Package session implements the typing session engine.
package session

// editDeltas describes how one full-buffer edit moved the counters.
type editDeltas struct {
	total   int
	correct int
}

// countDeltas compares the previous and next buffers against the passage and
// returns the counter deltas for the edit. Appends count toward total and,
// when the new character matches the passage at its index, toward correct.
// Tail deletions give back correct credit for removed characters that had
// matched; total is never decremented.
func countDeltas(prev, next, passage []rune) editDeltas {
	var d editDeltas
	switch {
	case len(next) > len(prev):
		d.total = len(next) - len(prev)
		for i := len(prev); i < len(next); i++ {
			if i < len(passage) && next[i] == passage[i] {
				d.correct++
			}
		}
	case len(next) < len(prev):
		for i := len(next); i < len(prev); i++ {
			if i < len(passage) && prev[i] == passage[i] {
				d.correct--
			}
		}
	}
	return d
}
