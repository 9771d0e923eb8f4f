package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/beatrunner/internal/storage"
)

// Scoreboard layout constants
const (
	tableMinHeight = 3
	maxRuns        = 100 // Max runs to load
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "m"),
			key.WithHelp("esc/m", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel lists the runs of the current session, best first.
// It is embedded in App, which owns quitting and navigation.
type ScoreboardModel struct {
	store     *storage.Store
	sessionID string
	runs      []storage.Run
	stats     *storage.Stats
	err       error
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
}

// NewScoreboardModel loads the session's runs from the store.
func NewScoreboardModel(store *storage.Store, sessionID string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:     store,
		sessionID: sessionID,
		keys:      DefaultScoreboardKeyMap(),
		help:      help.New(),
		width:     width,
		height:    height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Notes", Width: 7},
		{Title: "Time", Width: 8},
		{Title: "Top speed", Width: 10},
		{Title: "Played", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(tableMinHeight, m.height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("54")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *ScoreboardModel) load() {
	m.runs, m.stats, m.err = nil, nil, nil
	if m.store == nil {
		m.updateTableRows()
		return
	}

	runs, err := m.store.TopRuns(m.sessionID, maxRuns)
	if err != nil {
		m.err = err
	} else {
		m.runs = runs
	}
	if stats, err := m.store.SessionStats(m.sessionID); err == nil {
		m.stats = stats
	}
	m.updateTableRows()
}

func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Collected),
			fmt.Sprintf("%.1fs", r.Duration.Seconds()),
			fmt.Sprintf("%.2f", r.MaxSpeed),
			r.CreatedAt.Format("15:04:05"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Resize adapts the table to a new window size.
func (m ScoreboardModel) Resize(width, height int) ScoreboardModel {
	m.width = width
	m.height = height
	m.table.SetHeight(max(tableMinHeight, height-10))
	m.help.Width = width
	return m
}

// Update scrolls the table.
func (m ScoreboardModel) Update(msg tea.Msg) (ScoreboardModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("SESSION RUNS"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(alertStyle.Render("Could not load runs: " + m.err.Error()))
	case len(m.runs) == 0:
		b.WriteString(dimStyle.Render("No runs yet. Play one from the main menu."))
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n\n")

	if m.stats != nil && m.stats.Runs > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(
			"%d runs  best %d  avg %.0f  notes %d",
			m.stats.Runs, m.stats.Best, m.stats.AvgScore, m.stats.Collected,
		)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	content := b.String()
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
