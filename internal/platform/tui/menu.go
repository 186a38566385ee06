package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/progress"
	"github.com/vovakirdan/fragments/internal/registry"
)

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuTierStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
)

// MenuModel is the Bubble Tea model for the game and difficulty picker.
type MenuModel struct {
	env          *Env
	items        []registry.GameInfo
	cursor       int
	tier         int
	progress     progress.Progress
	width        int
	height       int
	quitting     bool
	selected     *registry.GameInfo
	openProgress bool
}

// NewMenuModel creates a new menu model. The tier cursor starts at tier.
func NewMenuModel(env *Env, tier config.Tier, width, height int) MenuModel {
	m := MenuModel{
		env:    env,
		items:  registry.List(),
		width:  width,
		height: height,
	}
	for i, t := range config.Tiers() {
		if t == tier {
			m.tier = i
		}
	}
	if env.Store != nil {
		if p, err := env.Store.Load(); err == nil {
			m.progress = p
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tiers := config.Tiers()

	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.tier = (m.tier + len(tiers) - 1) % len(tiers)

	case MenuActionRight:
		m.tier = (m.tier + 1) % len(tiers)

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionProgress:
		m.openProgress = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("F R A G M E N T S"), m.width))
	b.WriteString("\n\n")
	summary := fmt.Sprintf("%d fragments collected over %d games", m.progress.TotalFragments, m.progress.TotalGamesPlayed)
	b.WriteString(centerText(menuDimStyle.Render(summary), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = menuSelectedStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
		if i == m.cursor && item.Description != "" {
			b.WriteString(centerText(menuDimStyle.Render(item.Description), m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	tiers := config.Tiers()
	parts := make([]string, len(tiers))
	for i, t := range tiers {
		if i == m.tier {
			parts[i] = menuTierStyle.Render(t.Title())
		} else {
			parts[i] = menuDimStyle.Render(" " + t.Title() + " ")
		}
	}
	b.WriteString(centerText(strings.Join(parts, " "), m.width))
	b.WriteString("\n\n")

	controls := "Up/Down: Game  |  Left/Right: Difficulty  |  Enter: Play  |  Tab: Progress  |  Q: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected game, or nil if none selected.
func (m MenuModel) Selected() *registry.GameInfo {
	return m.selected
}

// Tier returns the difficulty under the tier cursor.
func (m MenuModel) Tier() config.Tier {
	return config.Tiers()[m.tier]
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsProgress returns true if user requested the progress screen.
func (m MenuModel) WantsProgress() bool {
	return m.openProgress
}

// centerText centers text within given width, measuring printable cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
