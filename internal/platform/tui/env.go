package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/progress"
	"github.com/vovakirdan/fragments/internal/registry"
	"github.com/vovakirdan/fragments/internal/session"
	"github.com/vovakirdan/fragments/internal/storage"
)

// Env carries the services shared by every screen of a UI session.
type Env struct {
	Store   progress.Store
	History *storage.Store // nil when no history backend is open
	Tuning  *config.Tuning // nil uses the built-in table
	Logger  *log.Logger
	FPS     int
	Seed    int64 // 0 draws a fresh seed per session
}

// WithLogger returns a copy of e that logs through l.
func (e Env) WithLogger(l *log.Logger) *Env {
	e.Logger = l
	return &e
}

func (e *Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

func (e *Env) seed() int64 {
	if e.Seed != 0 {
		return e.Seed
	}
	return time.Now().UnixNano()
}

// NewSession creates the game and its runner for one play session.
func (e *Env) NewSession(gameID string, tier config.Tier) (*session.Runner, error) {
	game, err := registry.Create(gameID)
	if err != nil {
		return nil, err
	}

	opts := session.Options{
		Tier:   tier,
		Seed:   e.seed(),
		Tuning: e.Tuning,
		Store:  e.Store,
		Logger: e.logger(),
	}
	if e.History != nil {
		opts.History = e.History
	}
	return session.New(game, opts), nil
}
