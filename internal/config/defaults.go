package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tuning.yaml
var defaultTuningYAML []byte

// catchBase holds the values every Catch tier shares.
var catchBase = CatchProfile{
	Duration:      30,
	InitialSpawns: 2,
	EscalateAt:    []int{20, 10},
	SpawnStep:     300 * time.Millisecond,
	SpawnFloor:    800 * time.Millisecond,
	LifetimeStep:  time.Second,
	LifetimeFloor: 3 * time.Second,
	SphereSize:    80,
	Margins:       Margins{Left: 80, Right: 80, Top: 250, Bottom: 200},
}

// dodgeBase holds the values every Dodge tier shares.
var dodgeBase = DodgeProfile{
	SpeedStep:     1,
	SpeedEvery:    10,
	SpawnInterval: 1500 * time.Millisecond,
	MoveInterval:  30 * time.Millisecond,
	ScoreInterval: time.Second,
	PlayerStep:    100,
	PlayerSize:    50,
	PlayerOffset:  250,
	ObstacleSize:  60,
	EdgeMargin:    50,
	SpawnY:        100,
}

// sequenceBase holds the values every Sequence tier shares.
var sequenceBase = SequenceProfile{
	PointsPerTap:  2,
	RoundDelay:    time.Second,
	MismatchDelay: 1500 * time.Millisecond,
}

// Default returns the built-in tuning table.
func Default() Tuning {
	catch := func(spawn, lifetime time.Duration, escalate bool) CatchProfile {
		p := catchBase
		p.SpawnInterval = spawn
		p.EntityLifetime = lifetime
		p.Escalate = escalate
		p.EscalateAt = append([]int(nil), catchBase.EscalateAt...)
		return p
	}
	sequence := func(rounds int, targets ...RoundTarget) SequenceProfile {
		p := sequenceBase
		p.RoundCount = rounds
		p.Targets = targets
		return p
	}
	dodge := func(lo, hi float64) DodgeProfile {
		p := dodgeBase
		p.SpeedMin = lo
		p.SpeedMax = hi
		return p
	}

	return Tuning{
		Catch: map[Tier]CatchProfile{
			TierEasy:   catch(2*time.Second, 6*time.Second, false),
			TierMedium: catch(1500*time.Millisecond, 5*time.Second, true),
			TierHard:   catch(time.Second, 4*time.Second, true),
		},
		Sequence: map[Tier]SequenceProfile{
			TierEasy: sequence(3,
				RoundTarget{Points: 4}),
			TierMedium: sequence(5,
				RoundTarget{Through: 2, Points: 4},
				RoundTarget{Through: 4, Points: 6},
				RoundTarget{Points: 9}),
			TierHard: sequence(7,
				RoundTarget{Through: 2, Points: 6},
				RoundTarget{Points: 9}),
		},
		Dodge: map[Tier]DodgeProfile{
			TierEasy:   dodge(2.5, 5.0),
			TierMedium: dodge(3.5, 7.0),
			TierHard:   dodge(5.0, 10.0),
		},
	}
}

// DefaultYAML returns the embedded default tuning file.
func DefaultYAML() []byte {
	return defaultTuningYAML
}
