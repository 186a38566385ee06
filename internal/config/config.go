// Package config provides the difficulty tiers and the per-game tuning tables
// for the three mini-games, plus YAML loading of tuning overrides.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Tier is the difficulty chosen once per game session.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Tiers returns all tiers from easiest to hardest.
func Tiers() []Tier {
	return []Tier{TierEasy, TierMedium, TierHard}
}

// ParseTier converts a user-supplied name into a Tier.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierEasy:
		return TierEasy, nil
	case TierMedium:
		return TierMedium, nil
	case TierHard:
		return TierHard, nil
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, medium or hard)", s)
}

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool {
	return t == TierEasy || t == TierMedium || t == TierHard
}

// Title returns the display name of the tier.
func (t Tier) Title() string {
	switch t {
	case TierEasy:
		return "Easy"
	case TierMedium:
		return "Medium"
	case TierHard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// Profile bundles the tuning of every game for one tier.
type Profile struct {
	Tier     Tier
	Catch    CatchProfile
	Sequence SequenceProfile
	Dodge    DodgeProfile
}

// Margins keeps spawned entities away from the playfield edges.
type Margins struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// CatchProfile tunes the reaction-timing game.
type CatchProfile struct {
	Duration       int           `yaml:"duration"` // Countdown length in seconds
	SpawnInterval  time.Duration `yaml:"spawn_interval"`
	EntityLifetime time.Duration `yaml:"entity_lifetime"`
	InitialSpawns  int           `yaml:"initial_spawns"`

	Escalate      bool          `yaml:"escalate"`
	EscalateAt    []int         `yaml:"escalate_at"` // Remaining seconds that trigger escalation
	SpawnStep     time.Duration `yaml:"spawn_step"`
	SpawnFloor    time.Duration `yaml:"spawn_floor"`
	LifetimeStep  time.Duration `yaml:"lifetime_step"`
	LifetimeFloor time.Duration `yaml:"lifetime_floor"`

	SphereSize float64 `yaml:"sphere_size"`
	Margins    Margins `yaml:"margins"`
}

// RoundTarget sets the number of points for every round up to Through.
// Through == 0 matches any round.
type RoundTarget struct {
	Through int `yaml:"through"`
	Points  int `yaml:"points"`
}

// SequenceProfile tunes the ordered-tap memory game.
type SequenceProfile struct {
	RoundCount    int           `yaml:"round_count"`
	Targets       []RoundTarget `yaml:"targets"`
	PointsPerTap  int           `yaml:"points_per_tap"`
	RoundDelay    time.Duration `yaml:"round_delay"`
	MismatchDelay time.Duration `yaml:"mismatch_delay"`
}

// TargetFor returns the number of points to tap in the given 1-based round.
// Rounds past the last schedule entry reuse its size.
func (p SequenceProfile) TargetFor(round int) int {
	if len(p.Targets) == 0 {
		return 0
	}
	for _, t := range p.Targets {
		if t.Through == 0 || round <= t.Through {
			return t.Points
		}
	}
	return p.Targets[len(p.Targets)-1].Points
}

// DodgeProfile tunes the obstacle-avoidance game.
type DodgeProfile struct {
	SpeedMin   float64 `yaml:"speed_min"` // Starting obstacle speed (units per move tick)
	SpeedMax   float64 `yaml:"speed_max"`
	SpeedStep  float64 `yaml:"speed_step"`
	SpeedEvery int     `yaml:"speed_every"` // Score units between speed-ups

	SpawnInterval time.Duration `yaml:"spawn_interval"`
	MoveInterval  time.Duration `yaml:"move_interval"`
	ScoreInterval time.Duration `yaml:"score_interval"`

	PlayerStep   float64 `yaml:"player_step"`
	PlayerSize   float64 `yaml:"player_size"`
	PlayerOffset float64 `yaml:"player_offset"` // Distance of the player center from the bottom
	ObstacleSize float64 `yaml:"obstacle_size"`
	EdgeMargin   float64 `yaml:"edge_margin"`
	SpawnY       float64 `yaml:"spawn_y"`
}

// Tuning holds the full tier → profile tables for every game.
type Tuning struct {
	Catch    map[Tier]CatchProfile    `yaml:"catch"`
	Sequence map[Tier]SequenceProfile `yaml:"sequence"`
	Dodge    map[Tier]DodgeProfile    `yaml:"dodge"`
}

// For returns the profile of every game for the given tier.
// Unknown tiers resolve to TierEasy. The result shares no memory with t.
func (t Tuning) For(tier Tier) Profile {
	if !tier.Valid() {
		tier = TierEasy
	}

	catch := t.Catch[tier]
	catch.EscalateAt = append([]int(nil), catch.EscalateAt...)

	seq := t.Sequence[tier]
	seq.Targets = append([]RoundTarget(nil), seq.Targets...)

	return Profile{
		Tier:     tier,
		Catch:    catch,
		Sequence: seq,
		Dodge:    t.Dodge[tier],
	}
}

// Validate checks that every tier of every game has a playable profile.
func (t Tuning) Validate() error {
	for _, tier := range Tiers() {
		c, ok := t.Catch[tier]
		if !ok {
			return fmt.Errorf("config: catch: missing tier %s", tier)
		}
		if c.Duration <= 0 || c.SpawnInterval <= 0 || c.EntityLifetime <= 0 {
			return fmt.Errorf("config: catch/%s: duration, spawn_interval and entity_lifetime must be positive", tier)
		}
		if c.SpawnFloor <= 0 || c.LifetimeFloor <= 0 {
			return fmt.Errorf("config: catch/%s: floors must be positive", tier)
		}

		s, ok := t.Sequence[tier]
		if !ok {
			return fmt.Errorf("config: sequence: missing tier %s", tier)
		}
		if s.RoundCount <= 0 || len(s.Targets) == 0 {
			return fmt.Errorf("config: sequence/%s: round_count and targets are required", tier)
		}
		for _, rt := range s.Targets {
			if rt.Points <= 0 {
				return fmt.Errorf("config: sequence/%s: target points must be positive", tier)
			}
		}

		d, ok := t.Dodge[tier]
		if !ok {
			return fmt.Errorf("config: dodge: missing tier %s", tier)
		}
		if d.SpawnInterval <= 0 || d.MoveInterval <= 0 || d.ScoreInterval <= 0 {
			return fmt.Errorf("config: dodge/%s: intervals must be positive", tier)
		}
		if d.SpeedMax < d.SpeedMin {
			return fmt.Errorf("config: dodge/%s: speed_max below speed_min", tier)
		}
	}
	return nil
}
