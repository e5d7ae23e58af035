package tui

import (
	"math/rand"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typelab/internal/model"
	"github.com/verte-zerg/typelab/internal/passage"
)

func newTestModel(t *testing.T, name string) *Model {
	t.Helper()
	picker := passage.NewPickerFrom([]string{"cat"}, rand.New(rand.NewSource(1)))
	cfg := model.Config{Name: name, DurationSeconds: 30}
	return NewModel(cfg, nil, nil, picker)
}

func typeKeys(m *Model, text string) {
	for _, r := range text {
		var msg tea.KeyMsg
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		}
		m.Update(msg)
	}
}

func TestNamePromptWhenUnnamed(t *testing.T) {
	m := newTestModel(t, "")
	if m.phase != phaseName {
		t.Fatalf("expected name prompt, got phase %d", m.phase)
	}

	typeKeys(m, "amy")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phaseTyping {
		t.Fatalf("expected typing phase after name entry, got %d", m.phase)
	}
	if m.cfg.Name != "amy" {
		t.Fatalf("expected name amy, got %q", m.cfg.Name)
	}
}

func TestEmptyNameRejected(t *testing.T) {
	m := newTestModel(t, "")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phaseName {
		t.Fatalf("expected to stay on name prompt, got phase %d", m.phase)
	}
}

func TestNamedPlayerSkipsPrompt(t *testing.T) {
	m := newTestModel(t, "amy")
	if m.phase != phaseTyping {
		t.Fatalf("expected typing phase, got %d", m.phase)
	}
}

func TestFirstKeystrokeStartsTicker(t *testing.T) {
	m := newTestModel(t, "amy")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if cmd == nil {
		t.Fatalf("expected tick command on first keystroke")
	}
	if m.sess.State() != model.Active {
		t.Fatalf("expected active session")
	}
}

func TestCompletionMovesToResults(t *testing.T) {
	m := newTestModel(t, "amy")
	typeKeys(m, "cat")
	if m.phase != phaseResults {
		t.Fatalf("expected results phase, got %d", m.phase)
	}
	if m.result == nil {
		t.Fatalf("expected a session result")
	}
	if m.result.PlayerName != "amy" {
		t.Fatalf("expected player name on result, got %q", m.result.PlayerName)
	}
	if m.result.Accuracy != 100 {
		t.Fatalf("expected 100 accuracy, got %d", m.result.Accuracy)
	}
}

func TestStaleTickIgnored(t *testing.T) {
	m := newTestModel(t, "amy")
	typeKeys(m, "c")
	staleGen := m.gen

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.phase != phaseTyping {
		t.Fatalf("expected typing phase after restart, got %d", m.phase)
	}
	before := m.sess.Snapshot()

	m.Update(tickMsg{gen: staleGen})
	after := m.sess.Snapshot()
	if after.RemainingSeconds != before.RemainingSeconds {
		t.Fatalf("stale tick must not touch the new session: %d -> %d",
			before.RemainingSeconds, after.RemainingSeconds)
	}
}

func TestTabRestartsSession(t *testing.T) {
	m := newTestModel(t, "amy")
	typeKeys(m, "ca")
	gen := m.gen
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.gen != gen+1 {
		t.Fatalf("expected generation bump on restart")
	}
	if len(m.input) != 0 {
		t.Fatalf("expected cleared input, got %q", string(m.input))
	}
}

func TestStaleSubmitResultIgnored(t *testing.T) {
	m := newTestModel(t, "amy")
	typeKeys(m, "cat")
	staleGen := m.gen

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(submitDoneMsg{gen: staleGen, err: nil})
	if m.submitStatus != "" {
		t.Fatalf("stale submit result must not set status, got %q", m.submitStatus)
	}
}
