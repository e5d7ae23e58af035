// Package tui provides the Bubble Tea typing test interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typelab/internal/apiclient"
	"github.com/verte-zerg/typelab/internal/model"
	"github.com/verte-zerg/typelab/internal/passage"
	"github.com/verte-zerg/typelab/internal/session"
	"github.com/verte-zerg/typelab/internal/store"
)

type phase int

const (
	phaseName phase = iota
	phaseTyping
	phaseResults
)

// tickMsg carries the session generation so a timer from an abandoned session
// can never reach the current one.
type tickMsg struct {
	gen int
}

type submitDoneMsg struct {
	gen int
	err error
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FB7185")).Underline(true)
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = pendingStyle.Copy().Underline(true)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24"))
)

// Model implements the Bubble Tea typing test UI.
type Model struct {
	cfg    model.Config
	store  *store.Store
	client *apiclient.Client
	picker *passage.Picker

	width  int
	height int

	phase     phase
	nameInput textinput.Model

	sess    *session.Session
	gen     int
	ticking bool
	input   []rune

	result       *model.SessionResult
	submitStatus string

	lastNet int
	bestNet int
	hasLast bool
}

// NewModel constructs a typing test model. client may be nil when no
// leaderboard server is configured; results then stay local.
func NewModel(cfg model.Config, st *store.Store, client *apiclient.Client, picker *passage.Picker) *Model {
	m := &Model{
		cfg:    cfg,
		store:  st,
		client: client,
		picker: picker,
	}
	m.loadFooterStats()
	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = 50
	ti.Width = 30
	ti.Focus()
	m.nameInput = ti
	if strings.TrimSpace(cfg.Name) != "" {
		m.startSession()
	} else {
		m.phase = phaseName
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.phase == phaseName {
		return textinput.Blink
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m.handleTick(msg)
	case submitDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.submitStatus = warnStyle.Render(fmt.Sprintf("Could not submit score: %v", msg.err))
		} else {
			m.submitStatus = "Score submitted."
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.phase {
	case phaseName:
		if msg.Type == tea.KeyEnter {
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				return m, nil
			}
			m.cfg.Name = name
			m.startSession()
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	case phaseTyping:
		switch msg.Type {
		case tea.KeyTab:
			m.startSession()
			return m, nil
		case tea.KeyBackspace, tea.KeyDelete:
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
			return m.applyEdit()
		case tea.KeySpace:
			m.input = append(m.input, ' ')
			return m.applyEdit()
		case tea.KeyRunes:
			m.input = append(m.input, msg.Runes...)
			return m.applyEdit()
		default:
			return m, nil
		}
	case phaseResults:
		switch {
		case msg.Type == tea.KeyEnter || msg.Type == tea.KeyTab:
			m.startSession()
			return m, nil
		case msg.String() == "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || m.phase != phaseTyping {
		return m, nil
	}
	if res := m.sess.Tick(); res != nil {
		return m, m.finishSession(res)
	}
	if m.sess.State() == model.Active {
		return m, tickCmd(m.gen)
	}
	return m, nil
}

func (m *Model) applyEdit() (tea.Model, tea.Cmd) {
	wasWaiting := m.sess.State() == model.AwaitingStart
	res := m.sess.ApplyEdit(string(m.input))
	if res != nil {
		return m, m.finishSession(res)
	}
	if wasWaiting && m.sess.State() == model.Active && !m.ticking {
		m.ticking = true
		return m, tickCmd(m.gen)
	}
	return m, nil
}

// startSession abandons any previous session; bumping the generation cancels
// its timer.
func (m *Model) startSession() {
	m.gen++
	m.ticking = false
	m.input = nil
	m.result = nil
	m.submitStatus = ""
	m.sess = session.New(m.picker.Pick(), time.Duration(m.cfg.DurationSeconds)*time.Second)
	m.phase = phaseTyping
}

// finishSession records the result locally and fires the one submission.
func (m *Model) finishSession(res *model.SessionResult) tea.Cmd {
	res.PlayerName = m.cfg.Name
	m.result = res
	m.phase = phaseResults
	m.lastNet = res.NetWPM
	m.hasLast = true
	if res.NetWPM > m.bestNet {
		m.bestNet = res.NetWPM
	}

	if m.store != nil {
		if _, err := m.store.InsertResult(context.Background(), *res); err != nil {
			logErrf("failed to save result: %v\n", err)
		}
	}
	if m.client == nil {
		m.submitStatus = "No leaderboard server configured; result saved locally."
		return nil
	}
	m.submitStatus = "Submitting score..."
	return submitCmd(m.client, *res, m.gen)
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func submitCmd(client *apiclient.Client, res model.SessionResult, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		raw := float64(res.RawWPM)
		_, err := client.SubmitScore(ctx, model.Submission{
			Name:     res.PlayerName,
			WPM:      float64(res.NetWPM),
			Accuracy: float64(res.Accuracy),
			RawWPM:   &raw,
		})
		return submitDoneMsg{gen: gen, err: err}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.phase {
	case phaseName:
		return m.viewName()
	case phaseResults:
		return m.viewResults()
	default:
		return m.viewTyping()
	}
}

func (m *Model) viewName() string {
	content := titleStyle.Render("typelab") + "\n\n" +
		"Enter a name for the leaderboard:\n\n" +
		m.nameInput.View() + "\n\n" +
		footerStyle.Render("enter: start · ctrl+c: quit")
	return m.center(content)
}

func (m *Model) viewTyping() string {
	snap := m.sess.Snapshot()
	header := headerStyle.Render(fmt.Sprintf("%ds · %d WPM · %d%%",
		snap.RemainingSeconds, snap.NetWPM, snap.Accuracy))

	targetRunes := []rune(m.sess.Passage())
	cursorIndex := -1
	if len(m.input) < len(targetRunes) {
		cursorIndex = len(m.input)
	}
	styledRunes := buildStyledRunes(targetRunes, m.input, cursorIndex)
	body := renderStyledRunes(styledRunes)
	if m.width > 0 {
		contentWidth := int(float64(m.width) * 0.70)
		if contentWidth < 1 {
			contentWidth = 1
		}
		body = lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styledRunes, contentWidth))
	}
	content := header + "\n\n" + body
	footer := m.renderFooter(len(targetRunes))
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	bodyHeight := m.height - 1
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) viewResults() string {
	res := m.result
	lines := []string{
		titleStyle.Render("Session results"),
		"",
		fmt.Sprintf("Net WPM   %d", res.NetWPM),
		fmt.Sprintf("Raw WPM   %d", res.RawWPM),
		fmt.Sprintf("Accuracy  %d%%", res.Accuracy),
		fmt.Sprintf("Time      %.1fs", float64(res.DurationMs)/1000),
		"",
		m.submitStatus,
		"",
		footerStyle.Render("enter: next · q: quit"),
	}
	return m.center(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter(targetLen int) string {
	progress := 0
	if targetLen > 0 {
		progress = len(m.input) * 100 / targetLen
	}
	segments := []string{fmt.Sprintf("Progress %d%%", progress)}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d WPM", m.lastNet))
	}
	if m.bestNet > 0 {
		segments = append(segments, fmt.Sprintf("Best %d WPM", m.bestNet))
	}
	segments = append(segments, "tab: restart")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) center(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	results, err := m.store.ListResults(context.Background(), 0)
	if err != nil {
		logErrf("failed to load history: %v\n", err)
		return
	}
	if len(results) == 0 {
		return
	}
	m.lastNet = results[len(results)-1].NetWPM
	m.hasLast = true
	for _, res := range results {
		if res.NetWPM > m.bestNet {
			m.bestNet = res.NetWPM
		}
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
