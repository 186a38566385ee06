// Package savedata stores fragment progress in the platform's application
// data directory through gdata, as a YAML-encoded object.
package savedata

import (
	"fmt"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/fragments/internal/progress"
)

// DefaultAppName names the application data directory.
const DefaultAppName = "fragments"

const (
	progressObject   = "progress"
	progressProperty = "player"
)

// Store is a progress.Store backed by gdata.
// A nil manager runs in degraded mode: progress lives in memory only.
type Store struct {
	mu      sync.Mutex
	manager *gdata.Manager
	current progress.Progress
}

// Open opens the application data directory for appName and loads the saved progress.
func Open(appName string) (*Store, error) {
	if appName == "" {
		appName = DefaultAppName
	}
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("savedata: cannot open app data for %s: %w", appName, err)
	}
	return New(m)
}

// New wraps an existing gdata manager and loads the saved progress.
func New(m *gdata.Manager) (*Store, error) {
	s := &Store{manager: m}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload reads the saved object, or leaves zero progress when there is none.
func (s *Store) reload() error {
	s.current = progress.Progress{}
	if s.manager == nil {
		return nil
	}
	if !s.manager.ObjectPropExists(progressObject, progressProperty) {
		return nil
	}

	data, err := s.manager.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		return fmt.Errorf("savedata: cannot load progress: %w", err)
	}
	var p progress.Progress
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("savedata: cannot decode progress: %w", err)
	}
	s.current = p
	return nil
}

// save persists p and makes it current. On failure the current value is kept.
func (s *Store) save(p progress.Progress) error {
	if s.manager != nil {
		data, err := yaml.Marshal(p)
		if err != nil {
			return fmt.Errorf("savedata: cannot encode progress: %w", err)
		}
		if err := s.manager.SaveObjectProp(progressObject, progressProperty, data); err != nil {
			return fmt.Errorf("savedata: cannot save progress: %w", err)
		}
	}
	s.current = p
	return nil
}

// Load returns the current progression.
func (s *Store) Load() (progress.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, nil
}

// AddFragments adds n fragments and counts one finished game.
func (s *Store) AddFragments(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.current.Apply(n)
	if err != nil {
		return err
	}
	return s.save(next)
}

// Reset zeroes the counters. Onboarding stays completed.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(s.current.Cleared())
}

// CompleteOnboarding marks the onboarding as seen.
func (s *Store) CompleteOnboarding() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	next.OnboardingDone = true
	return s.save(next)
}

// Persistent reports whether the store writes to disk.
func (s *Store) Persistent() bool {
	return s.manager != nil
}

var _ progress.Store = (*Store)(nil)
