package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fragments/internal/config"
)

type screen int

const (
	screenWelcome screen = iota
	screenMenu
	screenGame
	screenProgress
)

var welcomeLines = []string{
	"Welcome to Fragments",
	"",
	"Play short sessions of three small games.",
	"Every finished session earns 1 to 3 fragments.",
	"",
	"Echo Catch    tap the spheres before they fade",
	"Path Align    tap the points in order",
	"Shadow Shift  step aside from the falling shadows",
	"",
	"Press Enter to begin",
}

// SessionModel manages the full UI flow: welcome -> menu -> game -> menu.
// It is the top-level model for both local and SSH sessions.
type SessionModel struct {
	env      *Env
	screen   screen
	width    int
	height   int
	menu     MenuModel
	game     *GameModel
	board    ScoreboardModel
	quitting bool
}

// NewSessionModel creates a new session model. The welcome screen is shown
// until onboarding has been completed once.
func NewSessionModel(env *Env, tier config.Tier, width, height int) SessionModel {
	m := SessionModel{
		env:    env,
		screen: screenMenu,
		width:  width,
		height: height,
		menu:   NewMenuModel(env, tier, width, height),
	}
	if env.Store != nil {
		if p, err := env.Store.Load(); err == nil && !p.OnboardingDone {
			m.screen = screenWelcome
		}
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenWelcome:
		return m.updateWelcome(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenProgress:
		return m.updateProgress(msg)
	}
	return m.updateMenu(msg)
}

// updateWelcome completes onboarding on Enter.
func (m SessionModel) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch MapKeyToMenuAction(km) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionSelect:
		if err := m.env.Store.CompleteOnboarding(); err != nil {
			m.env.logger().Warn("could not save onboarding state", "error", err)
		}
		m.screen = screenMenu
		m.menu = NewMenuModel(m.env, m.menu.Tier(), m.width, m.height)
	}
	return m, nil
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsProgress() {
		m.board = NewScoreboardModel(m.env, m.width, m.height)
		m.screen = screenProgress
		return m, m.board.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		gameModel, err := NewGameModel(m.env, selected.ID, m.menu.Tier(), m.width, m.height)
		if err != nil {
			m.env.logger().Error("could not start game", "game", selected.ID, "error", err)
			m.menu = NewMenuModel(m.env, m.menu.Tier(), m.width, m.height)
			return m, nil
		}
		m.game = &gameModel
		m.screen = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		tier := m.game.tier
		m.game = nil
		m.screen = screenMenu
		m.menu = NewMenuModel(m.env, tier, m.width, m.height)
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateProgress handles updates when on the progress screen.
func (m SessionModel) updateProgress(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.board.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.board = board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.board.IsGoingBack() {
		m.screen = screenMenu
		m.menu = NewMenuModel(m.env, m.menu.Tier(), m.width, m.height)
		return m, m.menu.Init()
	}

	return m, cmd
}

// Close ends any running game session.
func (m SessionModel) Close() {
	if m.game != nil {
		m.game.runner.Close()
	}
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenWelcome:
		return m.viewWelcome()
	case screenGame:
		return m.game.View()
	case screenProgress:
		return m.board.View()
	}
	return m.menu.View()
}

func (m SessionModel) viewWelcome() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 3)
	box := style.Render(strings.Join(welcomeLines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// RunMenu runs the interactive session flow on the local terminal.
func RunMenu(env *Env, tier config.Tier, width, height int) error {
	p := tea.NewProgram(
		NewSessionModel(env, tier, width, height),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if m, ok := finalModel.(SessionModel); ok {
		m.Close()
	}
	return err
}
