package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fragments/internal/core"
	"github.com/vovakirdan/fragments/internal/games/catch"
	"github.com/vovakirdan/fragments/internal/games/dodge"
	"github.com/vovakirdan/fragments/internal/games/sequence"
)

// GameKeyMap defines the key bindings for the play screen.
type GameKeyMap struct {
	Pick    key.Binding // digits: Nth sphere or grid point
	Capture key.Binding
	Left    key.Binding
	Right   key.Binding
	Reset   key.Binding
	Restart key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Capture, k.Left, k.Right, k.Reset, k.Restart, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pick, k.Capture, k.Left, k.Right, k.Reset},
		{k.Restart, k.Back, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings with every game's keys enabled.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Pick: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "tap"),
		),
		Capture: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "tap oldest"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset path"),
		),
		Restart: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play again"),
			key.WithDisabled(),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ForGame returns a copy of k with only the bindings the game uses enabled.
func (k GameKeyMap) ForGame(gameID string) GameKeyMap {
	k.Pick.SetEnabled(gameID == catch.ID || gameID == sequence.ID)
	k.Capture.SetEnabled(gameID == catch.ID)
	k.Left.SetEnabled(gameID == dodge.ID)
	k.Right.SetEnabled(gameID == dodge.ID)
	k.Reset.SetEnabled(gameID == sequence.ID)
	return k
}

// Ended switches the bindings to the result screen.
func (k GameKeyMap) Ended(ended bool) GameKeyMap {
	k.Restart.SetEnabled(ended)
	return k
}

// digit returns 1-9 for a digit key.
func digit(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '0'), true
}

// InputForKey translates a key press into an engine input for the game in
// snap. Keys the game does not use yield false.
func InputForKey(msg tea.KeyMsg, k GameKeyMap, snap core.Snapshot) (core.Input, bool) {
	switch snap.GameID {
	case catch.ID:
		if n, ok := digit(msg); ok && key.Matches(msg, k.Pick) {
			if n <= len(snap.Entities) {
				return core.Capture(snap.Entities[n-1].ID), true
			}
			return core.Input{}, false
		}
		if key.Matches(msg, k.Capture) && len(snap.Entities) > 0 {
			return core.Capture(snap.Entities[0].ID), true
		}

	case sequence.ID:
		if n, ok := digit(msg); ok && key.Matches(msg, k.Pick) {
			return core.Tap(n - 1), true
		}
		if key.Matches(msg, k.Reset) {
			return core.ResetProgress(), true
		}

	case dodge.ID:
		switch {
		case key.Matches(msg, k.Left):
			return core.Move(core.SideLeft), true
		case key.Matches(msg, k.Right):
			return core.Move(core.SideRight), true
		}
	}
	return core.Input{}, false
}

// InputForClick translates a left click at playfield point p into an engine
// input for the game in snap.
func InputForClick(p core.Vec, snap core.Snapshot) (core.Input, bool) {
	field := snap.Playfield
	if field.X <= 0 || field.Y <= 0 {
		field = core.DefaultPlayfield
	}

	switch snap.GameID {
	case catch.ID:
		if i, ok := catchHit(p, snap.Entities); ok {
			return core.Capture(snap.Entities[i].ID), true
		}
	case sequence.ID:
		if i, ok := sequenceHit(p, snap.Target, field); ok {
			return core.Tap(i), true
		}
	case dodge.ID:
		if p.X < field.X/2 {
			return core.Move(core.SideLeft), true
		}
		return core.Move(core.SideRight), true
	}
	return core.Input{}, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionProgress
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "tab", "p":
		return MenuActionProgress
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
