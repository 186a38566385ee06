// Package autoplay provides scripted players for headless simulation.
// A Policy looks at the latest snapshot and returns the inputs to send on the
// next step; skill in [0, 1] trades reaction and accuracy.
package autoplay

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/fragments/internal/core"
	"github.com/vovakirdan/fragments/internal/games/catch"
	"github.com/vovakirdan/fragments/internal/games/dodge"
	"github.com/vovakirdan/fragments/internal/games/sequence"
	"github.com/vovakirdan/fragments/internal/session"
)

// Policy decides the inputs for the next step from the current snapshot.
type Policy interface {
	Next(snap core.Snapshot) []core.Input
}

// ForGame returns the policy for the given game id.
func ForGame(id string, rng *rand.Rand, skill float64) (Policy, error) {
	skill = core.ClampF(skill, 0, 1)
	switch id {
	case catch.ID:
		return &CatchPolicy{rng: rng, skill: skill}, nil
	case sequence.ID:
		return &SequencePolicy{rng: rng, skill: skill}, nil
	case dodge.ID:
		return &DodgePolicy{rng: rng, skill: skill}, nil
	}
	return nil, fmt.Errorf("autoplay: no policy for game %q", id)
}

// CatchPolicy taps the oldest visible sphere, reacting on a share of steps
// proportional to skill.
type CatchPolicy struct {
	rng   *rand.Rand
	skill float64
}

// Next implements Policy.
func (p *CatchPolicy) Next(snap core.Snapshot) []core.Input {
	if snap.State.Ended() || len(snap.Entities) == 0 {
		return nil
	}
	// Reaction rate: 2% of steps at skill 0, 20% at skill 1.
	if p.rng.Float64() >= 0.02+0.18*p.skill {
		return nil
	}
	return []core.Input{core.Capture(snap.Entities[0].ID)}
}

// SequencePolicy taps the next point in order and occasionally slips.
type SequencePolicy struct {
	rng   *rand.Rand
	skill float64
}

// Next implements Policy.
func (p *SequencePolicy) Next(snap core.Snapshot) []core.Input {
	if snap.State.Ended() || snap.Feedback != "" || len(snap.Progress) >= snap.Target {
		return nil
	}
	next := len(snap.Progress)
	if snap.Target > 1 && p.rng.Float64() < 0.25*(1-p.skill) {
		return []core.Input{core.Tap((next + 1) % snap.Target)}
	}
	return []core.Input{core.Tap(next)}
}

// DodgePolicy steps away from the nearest obstacle falling toward the player.
type DodgePolicy struct {
	rng   *rand.Rand
	skill float64
}

// Next implements Policy.
func (p *DodgePolicy) Next(snap core.Snapshot) []core.Input {
	if snap.State.Ended() || snap.Player == nil {
		return nil
	}
	player := *snap.Player
	pc := player.Center()

	// Look further ahead with more skill.
	lookahead := player.H * (2 + 4*p.skill)

	var threat *core.Rect
	for i := range snap.Entities {
		b := snap.Entities[i].Bounds
		if b.Bottom() < player.Y-lookahead || b.Y > player.Bottom() {
			continue
		}
		if b.Right() <= player.X || b.X >= player.Right() {
			continue
		}
		if threat == nil || b.Bottom() > threat.Bottom() {
			threat = &b
		}
	}
	if threat == nil {
		return nil
	}
	if p.rng.Float64() >= 0.3+0.7*p.skill {
		return nil
	}

	side := core.SideRight
	if threat.Center().X > pc.X {
		side = core.SideLeft
	}
	// Turn around when pinned against an edge.
	margin := player.W
	if side == core.SideLeft && pc.X-margin <= 0 || side == core.SideRight && pc.X+margin >= snap.Playfield.X {
		side = -side
	}
	return []core.Input{core.Move(side)}
}

// Drive steps r with inputs from p until the session ends or maxSteps is
// reached, and returns the reward if the session ended.
func Drive(r *session.Runner, p Policy, dt time.Duration, maxSteps int) *core.RewardEvent {
	if maxSteps <= 0 {
		maxSteps = math.MaxInt
	}
	for i := 0; i < maxSteps; i++ {
		res := r.Step(dt, p.Next(r.Snapshot()))
		if res.Reward != nil {
			return res.Reward
		}
		if r.Closed() || r.Ended() {
			break
		}
	}
	return nil
}
