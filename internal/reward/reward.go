// Package reward converts final game scores into fragments.
package reward

const (
	Min = 1 // Fragments awarded for any finished session
	Max = 3

	CatchDivisor    = 5
	SequenceDivisor = 15
	DodgeDivisor    = 10
)

// ClampedReward returns score/divisor (floor) clamped to [Min, Max].
// A non-positive divisor yields Min.
func ClampedReward(score, divisor int) int {
	if divisor <= 0 || score <= 0 {
		return Min
	}
	return min(max(score/divisor, Min), Max)
}

// Once guards the single reward computation of a session.
type Once struct {
	done bool
}

// Compute returns ClampedReward(score, divisor). It panics when called twice,
// since a session awards fragments exactly once.
func (o *Once) Compute(score, divisor int) int {
	if o.done {
		panic("reward: computed twice for one session")
	}
	o.done = true
	return ClampedReward(score, divisor)
}

// Done reports whether the reward has been computed.
func (o *Once) Done() bool {
	return o.done
}
