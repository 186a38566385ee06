package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/progress"
	"github.com/vovakirdan/fragments/internal/registry"
	"github.com/vovakirdan/fragments/internal/storage"
)

const (
	minWidthForSidebar = 80
	sidebarWidth       = 24
	maxSessions        = 100
)

var (
	boardTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MarginBottom(1)
	boardDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardTabStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	boardPanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	boardEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4)
)

// ScoreboardKeyMap defines the key bindings for the progress screen.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Filter   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Filter, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Filter, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		NextGame: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next game")),
		PrevGame: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("←", "prev game")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "tier filter")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel is the progress screen: lifetime fragment totals, a per-game
// summary and the best sessions of the selected game.
type ScoreboardModel struct {
	games    []registry.GameInfo
	cursor   int
	history  *storage.Store // nil when the backend keeps no history
	progress progress.Progress
	stats    map[string]*storage.GameStats

	sessions []storage.SessionRecord // best sessions of the selected game, all tiers
	tier     config.Tier             // "" shows every tier

	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates the progress screen, starting on the first game.
func NewScoreboardModel(env *Env, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		games:   registry.List(),
		history: env.History,
		keys:    DefaultScoreboardKeyMap(),
		help:    help.New(),
		width:   width,
		height:  height,
	}

	if env.Store != nil {
		if p, err := env.Store.Load(); err == nil {
			m.progress = p
		}
	}
	if m.history != nil {
		if all, err := m.history.AllGamesStats(); err == nil {
			m.stats = all
		} else {
			env.logger().Warn("could not load game stats", "error", err)
		}
	}

	m.table = m.newTable()
	m.selectGame(0)
	return m
}

func (m ScoreboardModel) wide() bool {
	return m.width >= minWidthForSidebar
}

func (m *ScoreboardModel) newTable() table.Model {
	dateWidth := 14
	avail := m.width - 4
	if m.wide() {
		avail -= sidebarWidth + 4
	}
	if avail > 50 {
		dateWidth = min(avail-36, 20)
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 7},
			{Title: "Tier", Width: 8},
			{Title: "Frag", Width: 5},
			{Title: "Date", Width: dateWidth},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// selectGame moves the cursor to game i and loads its best sessions.
func (m *ScoreboardModel) selectGame(i int) {
	m.sessions = nil
	if len(m.games) == 0 {
		m.fillTable()
		return
	}
	m.cursor = (i%len(m.games) + len(m.games)) % len(m.games)

	if m.history != nil {
		if sessions, err := m.history.TopScores(m.games[m.cursor].ID, maxSessions); err == nil {
			m.sessions = sessions
		}
	}
	m.fillTable()
}

// visible returns the loaded sessions that pass the tier filter.
func (m ScoreboardModel) visible() []storage.SessionRecord {
	if m.tier == "" {
		return m.sessions
	}
	var out []storage.SessionRecord
	for _, s := range m.sessions {
		if s.Difficulty == m.tier {
			out = append(out, s)
		}
	}
	return out
}

// nextFilter cycles all → easy → medium → hard → all.
func (m *ScoreboardModel) nextFilter() {
	tiers := config.Tiers()
	switch m.tier {
	case "":
		m.tier = tiers[0]
	case tiers[len(tiers)-1]:
		m.tier = ""
	default:
		for i, t := range tiers {
			if t == m.tier {
				m.tier = tiers[i+1]
				break
			}
		}
	}
	m.fillTable()
}

func (m *ScoreboardModel) fillTable() {
	sessions := m.visible()
	rows := make([]table.Row, len(sessions))
	for i, s := range sessions {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			s.Difficulty.Title(),
			fmt.Sprintf("+%d", s.Fragments),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the progress screen.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the progress screen.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextGame):
			m.selectGame(m.cursor + 1)
			return m, nil
		case key.Matches(msg, m.keys.PrevGame):
			m.selectGame(m.cursor - 1)
			return m, nil
		case key.Matches(msg, m.keys.Filter):
			m.nextFilter()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.fillTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the progress screen.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "PROGRESS"
	if len(m.games) > 0 {
		title = "PROGRESS - " + m.games[m.cursor].Title
	}
	b.WriteString(boardTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(boardDimStyle.Render(m.summary()), m.width))
	b.WriteString("\n\n")

	panel := boardPanelStyle.Render(m.tableView())
	if m.wide() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), "  ", panel))
	} else {
		b.WriteString(centerText(m.tabsView(), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(panel, m.width))
	}

	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// summary is the totals line, extended with the selected game's stats.
func (m ScoreboardModel) summary() string {
	s := fmt.Sprintf("%d fragments · %d games played", m.progress.TotalFragments, m.progress.TotalGamesPlayed)
	if len(m.games) == 0 {
		return s
	}
	if st := m.stats[m.games[m.cursor].ID]; st != nil && st.GamesCount > 0 {
		s += fmt.Sprintf("  |  best %d · avg %.1f · %d sessions", st.HighScore, st.AvgScore, st.GamesCount)
	}
	return s
}

// sidebarView lists the games with their best score.
func (m ScoreboardModel) sidebarView() string {
	var b strings.Builder
	b.WriteString("Games")
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", sidebarWidth-4))

	for i, g := range m.games {
		best := "-"
		if st := m.stats[g.ID]; st != nil && st.GamesCount > 0 {
			best = fmt.Sprintf("%d", st.HighScore)
		}
		line := fmt.Sprintf("%-*s%5s", sidebarWidth-9, g.Title, best)
		b.WriteString("\n")
		if i == m.cursor {
			b.WriteString(boardActiveStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
	}

	return boardPanelStyle.Width(sidebarWidth).Render(b.String())
}

// tabsView shows the games as tabs, or just the selected one when they do
// not fit.
func (m ScoreboardModel) tabsView() string {
	if len(m.games) == 0 {
		return ""
	}
	tabs := make([]string, len(m.games))
	for i, g := range m.games {
		if i == m.cursor {
			tabs[i] = boardTabStyle.Render(g.Title)
		} else {
			tabs[i] = boardDimStyle.Render(" " + g.Title + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 {
		line = fmt.Sprintf("< %s >", m.games[m.cursor].Title)
	}
	return line
}

func (m ScoreboardModel) tableView() string {
	filter := "All tiers"
	if m.tier != "" {
		filter = m.tier.Title() + " only"
	}
	header := boardDimStyle.Render(filter)

	switch {
	case m.history == nil:
		return header + "\n" + boardEmptyStyle.Render("Session history is unavailable\nwith this progress backend.")
	case len(m.visible()) == 0:
		return header + "\n" + boardEmptyStyle.Render("No sessions recorded yet.\nPlay a game to earn fragments!")
	}
	return header + "\n" + m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the progress screen in its own program. It reports
// whether the user left with Back rather than Quit.
func RunScoreboard(env *Env, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(env, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(ScoreboardModel); ok {
		return m.IsGoingBack(), nil
	}
	return false, nil
}
