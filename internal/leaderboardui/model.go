// Package leaderboardui provides the Bubble Tea leaderboard interface.
package leaderboardui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typelab/internal/apiclient"
	"github.com/verte-zerg/typelab/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type scoresMsg struct {
	scores []model.ScoreRecord
	err    error
}

// Model implements the Bubble Tea leaderboard UI.
type Model struct {
	client *apiclient.Client

	scores  []model.ScoreRecord
	table   table.Model
	errMsg  string
	loading bool

	width  int
	height int
}

// NewModel constructs a leaderboard UI model.
func NewModel(client *apiclient.Client) *Model {
	m := &Model{
		client:  client,
		loading: true,
	}
	m.table = buildTable(nil, 0, 10)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return fetchCmd(m.client)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		return m, nil
	case scoresMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.scores = msg.scores
		m.applyLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, fetchCmd(m.client)
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	title := titleStyle.Render("typelab leaderboard")
	status := headerStyle.Render("r: refresh · q: quit")
	if m.loading {
		status = headerStyle.Render("Loading...")
	}
	if m.errMsg != "" {
		status = errorStyle.Render(fmt.Sprintf("Failed to fetch leaderboard: %s", m.errMsg))
	}
	body := m.table.View()
	if !m.loading && m.errMsg == "" && len(m.scores) == 0 {
		body = headerStyle.Render("No scores submitted yet.")
	}
	return title + "\n" + body + "\n" + status
}

func (m *Model) applyLayout() {
	height := m.height - 3
	if height < 3 {
		height = 3
	}
	m.table = buildTable(m.scores, m.width, height)
	m.table.Focus()
}

func fetchCmd(client *apiclient.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		scores, err := client.FetchLeaderboard(ctx)
		return scoresMsg{scores: scores, err: err}
	}
}

func buildTable(scores []model.ScoreRecord, width, height int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Name", Width: 20},
		{Title: "WPM", Width: 5},
		{Title: "Accuracy", Width: 9},
		{Title: "Raw WPM", Width: 8},
		{Title: "Date", Width: 16},
	}
	rows := make([]table.Row, 0, len(scores))
	for i, score := range scores {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			score.Name,
			fmt.Sprintf("%.0f", score.WPM),
			fmt.Sprintf("%.0f%%", score.Accuracy),
			fmt.Sprintf("%.0f", score.RawWPM),
			score.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#3A3A3A")).
		Bold(false)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
