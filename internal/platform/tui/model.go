package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/core"
	"github.com/vovakirdan/fragments/internal/registry"
	"github.com/vovakirdan/fragments/internal/session"
)

// GameModel is the play screen. It steps one session per tick with the
// inputs collected since the previous tick and renders the snapshot.
type GameModel struct {
	env      *Env
	gameID   string
	title    string
	tier     config.Tier
	runner   *session.Runner
	renderer *Renderer
	keys     GameKeyMap
	help     help.Model
	queue    *core.InputQueue
	reward   *core.RewardEvent

	standalone bool // Back quits instead of returning to a menu
	quitting   bool
	backToMenu bool
}

// NewGameModel starts a session of gameID at tier and returns its play screen.
func NewGameModel(env *Env, gameID string, tier config.Tier, width, height int) (GameModel, error) {
	runner, err := env.NewSession(gameID, tier)
	if err != nil {
		return GameModel{}, err
	}

	title := gameID
	if info, ok := registry.Info(gameID); ok {
		title = info.Title
	}

	h := help.New()
	h.Width = width

	return GameModel{
		env:      env,
		gameID:   gameID,
		title:    title,
		tier:     tier,
		runner:   runner,
		renderer: NewRenderer(width, height),
		keys:     DefaultGameKeyMap().ForGame(gameID),
		help:     h,
		queue:    &core.InputQueue{},
	}, nil
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.env.FPS, m.runner)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.renderer.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.runner.Close()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.runner.Close()
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		return m.restart()
	}

	if m.runner.Ended() {
		return m, nil
	}
	if in, ok := InputForKey(msg, m.keys, m.runner.Snapshot()); ok {
		m.queue.Push(in)
	}
	return m, nil
}

// handleMouse maps left clicks inside the playfield to engine inputs.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || m.runner.Ended() {
		return m, nil
	}
	p, ok := m.renderer.FieldAt(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	if in, ok := InputForClick(p, m.runner.Snapshot()); ok {
		m.queue.Push(in)
	}
	return m, nil
}

// handleTick steps the session once. The loop stops when the session ends.
func (m GameModel) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.session != m.runner || m.runner.Closed() || m.runner.Ended() {
		return m, nil
	}

	res := m.runner.Step(frameDuration(m.env.FPS), m.queue.Drain())
	if res.Reward != nil {
		m.reward = res.Reward
		m.keys = m.keys.Ended(true)
		return m, nil
	}
	return m, tickCmd(m.env.FPS, m.runner)
}

// restart starts a fresh session of the same game and tier.
func (m GameModel) restart() (tea.Model, tea.Cmd) {
	runner, err := m.env.NewSession(m.gameID, m.tier)
	if err != nil {
		m.env.logger().Error("could not restart session", "error", err)
		return m, nil
	}
	m.runner.Close()
	m.runner = runner
	m.reward = nil
	m.queue.Drain()
	m.keys = m.keys.Ended(false)
	return m, tickCmd(m.env.FPS, m.runner)
}

// View renders the current snapshot.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	status := m.help.View(m.keys)
	if err := m.runner.Err(); err != nil {
		status = fmt.Sprintf("fragments not saved: %v", err)
	}
	return m.renderer.Draw(m.runner.Snapshot(), m.title, m.reward, status)
}

// Reward returns the reward of the last finished session, if any.
func (m GameModel) Reward() *core.RewardEvent {
	return m.reward
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Play runs a single game in its own Bubble Tea program and returns the
// reward of the last session that ended.
func Play(env *Env, gameID string, tier config.Tier, width, height int) (*core.RewardEvent, error) {
	model, err := NewGameModel(env, gameID, tier, width, height)
	if err != nil {
		return nil, err
	}
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	model.runner.Close()
	if err != nil {
		return nil, err
	}
	if m, ok := finalModel.(GameModel); ok {
		m.runner.Close()
		return m.Reward(), nil
	}
	return nil, nil
}
