// Package sequence implements Path Align, an ordered-tap memory game: each
// round shows a grid of numbered points that must be tapped in order.
package sequence

import (
	"time"

	"github.com/vovakirdan/fragments/internal/clock"
	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/core"
	"github.com/vovakirdan/fragments/internal/registry"
	"github.com/vovakirdan/fragments/internal/reward"
)

// ID is the registry identifier of the game.
const ID = "sequence"

const (
	timerMismatch clock.Kind = iota
	timerNextRound
)

// Feedback is the transient sub-state shown between taps.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackMismatch
	FeedbackRoundComplete
)

// String returns the message shown for the feedback state.
func (f Feedback) String() string {
	switch f {
	case FeedbackMismatch:
		return "Wrong order! Try again"
	case FeedbackRoundComplete:
		return "Perfect!"
	default:
		return ""
	}
}

// Game implements the Path Align engine.
type Game struct {
	tier    config.Tier
	profile config.SequenceProfile
	field   core.Vec
	clock   *clock.Scheduler

	round    int // 1-based
	target   int
	progress []int
	feedback Feedback
	score    int
	phase    core.Phase
	live     bool

	once    reward.Once
	pending *core.RewardEvent
}

// New creates a new Path Align game. Call Reset before stepping it.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Path Align"
}

// Description returns a one-line summary of the rules.
func (g *Game) Description() string {
	return "Tap the points in order. Longer paths every few rounds."
}

// Reset initializes/restarts the game. The layout is fixed, so the seed is unused.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	profile := cfg.Profile()
	g.tier = profile.Tier
	g.profile = profile.Sequence
	g.field = cfg.Field()
	g.clock = clock.New()

	g.score = 0
	g.phase = core.PhaseActive
	g.live = true
	g.once = reward.Once{}
	g.pending = nil
	g.startRound(1)
}

func (g *Game) startRound(round int) {
	g.round = round
	g.target = g.profile.TargetFor(round)
	g.progress = g.progress[:0]
	g.feedback = FeedbackNone
}

// Step advances the clock by dt, then applies taps in arrival order.
func (g *Game) Step(dt time.Duration, inputs []core.Input) core.StepResult {
	if !g.live || g.phase == core.PhaseEnded {
		return core.StepResult{State: g.State()}
	}

	g.clock.Advance(dt, g.handle)

	for _, in := range inputs {
		if g.phase != core.PhaseActive {
			break
		}
		switch in.Kind {
		case core.InputTap:
			g.tap(in.Index)
		case core.InputResetProgress:
			g.resetProgress()
		}
	}

	res := core.StepResult{State: g.State(), Reward: g.pending}
	g.pending = nil
	return res
}

func (g *Game) handle(ev clock.Event) {
	if !g.live || g.phase != core.PhaseActive {
		return
	}

	switch ev.Kind {
	case timerMismatch:
		g.progress = g.progress[:0]
		g.feedback = FeedbackNone
	case timerNextRound:
		if g.round >= g.profile.RoundCount {
			g.end()
			return
		}
		g.startRound(g.round + 1)
	}
}

// tap records a tap on the grid point at index. Taps during a feedback window
// and taps outside the grid are ignored.
func (g *Game) tap(index int) {
	if g.feedback != FeedbackNone || index < 0 || index >= g.target {
		return
	}

	if index != len(g.progress) {
		g.feedback = FeedbackMismatch
		g.clock.After(timerMismatch, g.profile.MismatchDelay, nil)
		return
	}

	g.progress = append(g.progress, index)
	g.score += g.profile.PointsPerTap

	if len(g.progress) == g.target {
		g.feedback = FeedbackRoundComplete
		g.clock.After(timerNextRound, g.profile.RoundDelay, nil)
	}
}

// resetProgress discards a partial answer.
func (g *Game) resetProgress() {
	if g.feedback != FeedbackNone || len(g.progress) == 0 {
		return
	}
	g.progress = g.progress[:0]
}

func (g *Game) end() {
	g.phase = core.PhaseEnded
	g.feedback = FeedbackNone
	g.clock.Stop()

	fragments := g.once.Compute(g.score, reward.SequenceDivisor)
	g.pending = &core.RewardEvent{
		GameID:     ID,
		Difficulty: g.tier,
		Score:      g.score,
		Fragments:  fragments,
		Elapsed:    g.clock.Now(),
	}
}

// Stop tears the session down. Pending feedback timers are discarded and
// later Step calls are no-ops.
func (g *Game) Stop() {
	g.live = false
	if g.clock != nil {
		g.clock.Stop()
	}
}

// State returns the current session state.
func (g *Game) State() core.SessionState {
	var elapsed time.Duration
	if g.clock != nil {
		elapsed = g.clock.Now()
	}
	return core.SessionState{
		Score:      g.score,
		Elapsed:    elapsed,
		Phase:      g.phase,
		Difficulty: g.tier,
	}
}

// Snapshot returns the rendering view of the game.
func (g *Game) Snapshot() core.Snapshot {
	return core.Snapshot{
		GameID:    ID,
		Playfield: g.field,
		State:     g.State(),
		Round:     g.round,
		Rounds:    g.profile.RoundCount,
		Target:    g.target,
		Progress:  append([]int(nil), g.progress...),
		Feedback:  g.feedback.String(),
	}
}

// Feedback returns the current feedback sub-state.
func (g *Game) Feedback() Feedback {
	return g.feedback
}
