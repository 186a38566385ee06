// Package tui provides the Bubble Tea front end for fragments: the game picker,
// the play screen, the progress screen and the SSH server. It renders engine
// snapshots and forwards input events; it never touches engine state directly.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fragments/internal/session"
)

// TickMsg is sent to trigger a session step. Ticks are addressed to the
// session that scheduled them, so a stale tick loop dies with its session.
type TickMsg struct {
	At      time.Time
	session *session.Runner
}

// tickCmd returns a Bubble Tea command that sends one tick for r after a frame.
func tickCmd(fps int, r *session.Runner) tea.Cmd {
	return tea.Tick(frameDuration(fps), func(t time.Time) tea.Msg {
		return TickMsg{At: t, session: r}
	})
}

// frameDuration is the fixed simulated step per frame.
func frameDuration(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}
