package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/platform/tui"
	"github.com/vovakirdan/fragments/internal/progress"
	"github.com/vovakirdan/fragments/internal/registry"
	"github.com/vovakirdan/fragments/internal/savedata"
	"github.com/vovakirdan/fragments/internal/storage"
)

const (
	backendSQLite = "sqlite"
	backendGdata  = "gdata"
	backendMemory = "memory"
)

// backend is the opened progress store plus the session history, when the
// backend keeps one.
type backend struct {
	store   progress.Store
	history *storage.Store
}

func (b *backend) Close() {
	if b.history != nil {
		b.history.Close()
	}
}

// newLogger creates the CLI logger. Interactive screens own the terminal, so
// they log to a file in verbose mode and nowhere otherwise.
func newLogger(interactive bool) *log.Logger {
	var w io.Writer = os.Stderr
	if interactive {
		w = io.Discard
		if flagVerbose {
			if f, err := openLogFile(); err == nil {
				w = f
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "fragments",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".fragments")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "fragments.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// openStore opens the backend named by --backend. Failures are returned.
func openStore() (*backend, error) {
	name := strings.ToLower(flagBackend)
	switch name {
	case backendSQLite:
		st, err := storage.Open(flagDBPath)
		if err != nil {
			return nil, fmt.Errorf("cannot open %s backend: %w", name, err)
		}
		return &backend{store: st, history: st}, nil
	case backendGdata:
		sd, err := savedata.Open(savedata.DefaultAppName)
		if err != nil {
			return nil, fmt.Errorf("cannot open %s backend: %w", name, err)
		}
		return &backend{store: sd}, nil
	case backendMemory:
		return &backend{store: progress.NewMemory(progress.Progress{})}, nil
	}
	return nil, fmt.Errorf("unknown backend %q (want sqlite, gdata or memory)", flagBackend)
}

// openBackend opens the configured backend for playing. A backend that
// cannot be opened degrades to an in-memory store so the games still run.
func openBackend(logger *log.Logger) (*backend, error) {
	name := strings.ToLower(flagBackend)
	b, err := openStore()
	if err != nil {
		if !slices.Contains([]string{backendSQLite, backendGdata, backendMemory}, name) {
			return nil, err
		}
		logger.Warn("could not open progress store, progress will not be saved", "backend", name, "error", err)
		b = &backend{store: progress.NewMemory(progress.Progress{})}
	}
	logger.Debug("progress backend ready", "backend", name, "history", b.history != nil)
	return b, nil
}

// loadTuning loads the difficulty table from --tuning or the default search path.
func loadTuning() (*config.Tuning, error) {
	t, err := config.Load(flagTuning)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// newEnv builds the shared UI environment from the global flags.
func newEnv(logger *log.Logger) (*tui.Env, *backend, error) {
	tuning, err := loadTuning()
	if err != nil {
		return nil, nil, err
	}
	b, err := openBackend(logger)
	if err != nil {
		return nil, nil, err
	}
	return &tui.Env{
		Store:   b.store,
		History: b.history,
		Tuning:  tuning,
		Logger:  logger,
		FPS:     flagFPS,
		Seed:    flagSeed,
	}, b, nil
}

// parseDifficulty validates a --difficulty value.
func parseDifficulty(s string) (config.Tier, error) {
	if s == "" {
		return config.TierEasy, nil
	}
	return config.ParseTier(s)
}

// checkGame validates a game id argument.
func checkGame(id string) error {
	if !registry.Exists(id) {
		return fmt.Errorf("unknown game %q, run 'fragments list' to see available games", id)
	}
	return nil
}

// terminalSize returns the terminal size, or 80x24 when stdout is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}
