// Package session runs one game engine for one play session: it feeds the
// engine ticks and inputs, publishes snapshots, and commits the reward to the
// progression store exactly once.
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/core"
	"github.com/vovakirdan/fragments/internal/progress"
	"github.com/vovakirdan/fragments/internal/registry"
	"github.com/vovakirdan/fragments/internal/storage"
)

// ErrClosed is returned by Run when the session was closed before it ended.
var ErrClosed = errors.New("session: closed before the game ended")

// Observer receives what a session publishes. Calls happen on the goroutine
// that steps the runner.
type Observer interface {
	OnSnapshot(core.Snapshot)
	OnReward(core.RewardEvent)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Snapshot func(core.Snapshot)
	Reward   func(core.RewardEvent)
}

// OnSnapshot calls f.Snapshot.
func (f ObserverFuncs) OnSnapshot(s core.Snapshot) {
	if f.Snapshot != nil {
		f.Snapshot(s)
	}
}

// OnReward calls f.Reward.
func (f ObserverFuncs) OnReward(ev core.RewardEvent) {
	if f.Reward != nil {
		f.Reward(ev)
	}
}

// History records finished sessions. storage.Store implements it.
type History interface {
	RecordSession(rec storage.SessionRecord) (int64, error)
}

// Options configures a session.
type Options struct {
	Tier      config.Tier
	Seed      int64
	Tuning    *config.Tuning // nil uses config.Default()
	Playfield core.Vec       // zero uses core.DefaultPlayfield

	Store    progress.Store // nil skips the progress commit
	History  History        // nil skips the history record
	Observer Observer
	Logger   *log.Logger
}

// Runner owns a single game session. Its methods are safe for concurrent
// use; engine calls are serialized so Close never interleaves with a step.
type Runner struct {
	game   registry.Game
	opts   Options
	logger *log.Logger
	done   chan struct{}

	mu     sync.Mutex
	reward *core.RewardEvent
	closed bool
	err    error
}

// New resets game for a new session and returns its runner.
func New(game registry.Game, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := &Runner{
		game:   game,
		opts:   opts,
		logger: logger.With("game", game.ID(), "difficulty", string(opts.Tier)),
		done:   make(chan struct{}),
	}

	game.Reset(core.RuntimeConfig{
		Playfield:  opts.Playfield,
		Difficulty: opts.Tier,
		Tuning:     opts.Tuning,
		Seed:       opts.Seed,
	})
	r.logger.Debug("session started", "seed", opts.Seed)
	return r
}

// Step advances the session by dt with the given inputs and publishes the
// resulting snapshot. On the terminating step the reward is published and
// committed. Steps after Close or after the end are no-ops.
func (r *Runner) Step(dt time.Duration, inputs []core.Input) core.StepResult {
	r.mu.Lock()
	if r.closed || r.reward != nil {
		st := r.game.State()
		r.mu.Unlock()
		return core.StepResult{State: st}
	}

	res := r.game.Step(dt, inputs)
	snap := r.game.Snapshot()
	var ev *core.RewardEvent
	if res.Reward != nil {
		e := *res.Reward
		ev = &e
		r.reward = ev
	}
	r.mu.Unlock()

	// Observers run unlocked so they may call back into the runner.
	if r.opts.Observer != nil {
		r.opts.Observer.OnSnapshot(snap)
	}

	if ev != nil {
		r.logger.Info("session ended", "score", ev.Score, "fragments", ev.Fragments, "elapsed", ev.Elapsed)

		if err := r.commit(*ev); err != nil {
			r.mu.Lock()
			r.err = err
			r.mu.Unlock()
		}
		if r.opts.Observer != nil {
			r.opts.Observer.OnReward(*ev)
		}
		res.Reward = ev
	}

	return res
}

// commit persists the reward. The progress write is required; the history
// record is best-effort.
func (r *Runner) commit(ev core.RewardEvent) error {
	var err error
	if r.opts.Store != nil {
		if err = r.opts.Store.AddFragments(ev.Fragments); err != nil {
			r.logger.Error("could not save fragments", "error", err)
		}
	}

	if r.opts.History != nil {
		rec := storage.SessionRecord{
			GameID:     ev.GameID,
			Difficulty: ev.Difficulty,
			Score:      ev.Score,
			Fragments:  ev.Fragments,
			Duration:   ev.Elapsed,
		}
		if _, herr := r.opts.History.RecordSession(rec); herr != nil {
			r.logger.Warn("could not record session", "error", herr)
		}
	}
	return err
}

// Run drives the session in real time at tickRate steps per second until the
// game ends, ctx is cancelled, or the runner is closed from another
// goroutine. Inputs received between ticks are applied on the next tick in
// arrival order.
func (r *Runner) Run(ctx context.Context, tickRate int, inputs <-chan core.Input) (*core.RewardEvent, error) {
	defer r.Close()

	if tickRate <= 0 {
		tickRate = 60
	}
	dt := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	var queue core.InputQueue
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("session cancelled", "error", ctx.Err())
			return nil, ctx.Err()

		case <-r.done:
			return nil, ErrClosed

		case in, ok := <-inputs:
			if !ok {
				inputs = nil
				continue
			}
			queue.Push(in)

		case <-ticker.C:
			res := r.Step(dt, queue.Drain())
			if res.Reward != nil {
				return res.Reward, r.Err()
			}
			if r.Closed() {
				return nil, ErrClosed
			}
		}
	}
}

// Close tears the session down. The engine discards pending timers and
// entities; no reward is emitted afterwards. Close is idempotent.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.game.Stop()
	close(r.done)
	if r.reward == nil {
		r.logger.Debug("session closed before the end")
	}
}

// Snapshot returns the engine's current snapshot.
func (r *Runner) Snapshot() core.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}

// Reward returns the session reward, or nil until the session has ended.
func (r *Runner) Reward() *core.RewardEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reward
}

// Ended reports whether the session reached its terminal phase.
func (r *Runner) Ended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reward != nil
}

// Closed reports whether Close has been called.
func (r *Runner) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Err returns the error from committing the reward, if any.
func (r *Runner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
