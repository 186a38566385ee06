package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/fragments/internal/config"
)

// DefaultPlayfield is the logical playfield every engine simulates in.
// Presentation layers scale it to their own surface.
var DefaultPlayfield = Vec{X: 390, Y: 844}

// RuntimeConfig contains configuration passed to games at session start.
type RuntimeConfig struct {
	Playfield  Vec            // Playfield size in logical units
	Difficulty config.Tier    // Chosen once per session
	Tuning     *config.Tuning // nil means config.Default()
	Seed       int64          // RNG seed for deterministic gameplay
}

// Profile resolves the difficulty profile for this runtime configuration.
func (c RuntimeConfig) Profile() config.Profile {
	if c.Tuning == nil {
		return config.Default().For(c.Difficulty)
	}
	return c.Tuning.For(c.Difficulty)
}

// Field returns the playfield size, falling back to DefaultPlayfield.
func (c RuntimeConfig) Field() Vec {
	if c.Playfield.X <= 0 || c.Playfield.Y <= 0 {
		return DefaultPlayfield
	}
	return c.Playfield
}

// Phase is the lifecycle phase of a session.
type Phase int

const (
	PhaseActive Phase = iota
	PhaseEnded
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// SessionState represents the current state of a game session.
type SessionState struct {
	Score      int
	Elapsed    time.Duration // Simulated time since start
	Remaining  int           // Seconds left on a countdown; 0 for untimed games
	Phase      Phase
	Difficulty config.Tier
}

// Ended reports whether the session reached its terminal phase.
func (s SessionState) Ended() bool {
	return s.Phase == PhaseEnded
}

// RewardEvent is emitted exactly once, on the step a session ends.
type RewardEvent struct {
	GameID     string
	Difficulty config.Tier
	Score      int
	Fragments  int
	Elapsed    time.Duration
}

// StepResult is returned by Game.Step() after each simulation step.
type StepResult struct {
	State  SessionState
	Reward *RewardEvent // non-nil only on the terminating step
}

// EntityView is the read-only rendering view of a spawned entity.
type EntityView struct {
	ID     uuid.UUID
	Bounds Rect
	TTL    time.Duration // Time left before expiry; 0 when the entity never expires
}

// Snapshot is the per-step view handed to the presentation layer.
type Snapshot struct {
	GameID    string
	Playfield Vec
	State     SessionState
	Entities  []EntityView

	// Dodge
	Player *Rect
	Speed  float64

	// Sequence
	Round    int
	Rounds   int
	Target   int
	Progress []int
	Feedback string
}
