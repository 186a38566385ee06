// Package progress defines the fragment progression contract shared by every
// persistence backend, plus an in-memory backend.
package progress

import (
	"errors"
	"sync"
)

// ErrNegativeFragments is returned when a caller tries to subtract fragments.
var ErrNegativeFragments = errors.New("progress: fragment count must not be negative")

// Progress is the player's persistent progression.
type Progress struct {
	TotalFragments   int  `yaml:"total_fragments"`
	TotalGamesPlayed int  `yaml:"total_games_played"`
	OnboardingDone   bool `yaml:"onboarding_done"`
}

// Store persists Progress. Every mutation is durable when it returns.
type Store interface {
	// Load returns the current progression.
	Load() (Progress, error)

	// AddFragments adds n fragments and counts one finished game.
	AddFragments(n int) error

	// Reset zeroes the fragment and game counters. Onboarding stays completed.
	Reset() error

	// CompleteOnboarding marks the onboarding as seen.
	CompleteOnboarding() error
}

// Apply returns p after adding n fragments from one finished game.
func (p Progress) Apply(n int) (Progress, error) {
	if n < 0 {
		return p, ErrNegativeFragments
	}
	p.TotalFragments += n
	p.TotalGamesPlayed++
	return p, nil
}

// Cleared returns p with both counters zeroed.
func (p Progress) Cleared() Progress {
	p.TotalFragments = 0
	p.TotalGamesPlayed = 0
	return p
}

// Memory is a Store that keeps progression in memory only.
// It is safe for concurrent use.
type Memory struct {
	mu sync.Mutex
	p  Progress
}

// NewMemory creates an in-memory store starting from p.
func NewMemory(p Progress) *Memory {
	return &Memory{p: p}
}

// Load returns the current progression.
func (m *Memory) Load() (Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.p, nil
}

// AddFragments adds n fragments and counts one finished game.
func (m *Memory) AddFragments(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := m.p.Apply(n)
	if err != nil {
		return err
	}
	m.p = next
	return nil
}

// Reset zeroes the counters.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p = m.p.Cleared()
	return nil
}

// CompleteOnboarding marks the onboarding as seen.
func (m *Memory) CompleteOnboarding() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p.OnboardingDone = true
	return nil
}

var _ Store = (*Memory)(nil)
