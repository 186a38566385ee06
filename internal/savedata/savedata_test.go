package savedata

import (
	"fmt"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"

	"github.com/vovakirdan/fragments/internal/progress"
)

// openTestManager points HOME at a temp dir and opens a fresh gdata manager.
// It returns nil when the platform storage is unavailable.
func openTestManager(t *testing.T) *gdata.Manager {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", home)

	m, err := gdata.Open(gdata.Config{
		AppName: fmt.Sprintf("fragments_test_%d", time.Now().UnixNano()),
	})
	if err != nil {
		return nil
	}
	return m
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	m := openTestManager(t)
	if m == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	s, err := New(m)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if !s.Persistent() {
		t.Fatal("store with a manager should be persistent")
	}
	if err := s.AddFragments(2); err != nil {
		t.Fatalf("AddFragments() failed: %v", err)
	}
	if err := s.AddFragments(3); err != nil {
		t.Fatalf("AddFragments() failed: %v", err)
	}
	if err := s.CompleteOnboarding(); err != nil {
		t.Fatalf("CompleteOnboarding() failed: %v", err)
	}

	reopened, err := New(m)
	if err != nil {
		t.Fatalf("New() on saved data failed: %v", err)
	}
	p, _ := reopened.Load()
	want := progress.Progress{TotalFragments: 5, TotalGamesPlayed: 2, OnboardingDone: true}
	if p != want {
		t.Errorf("reloaded progress = %+v, expected %+v", p, want)
	}
}

func TestStoreReset(t *testing.T) {
	m := openTestManager(t)
	if m == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	s, err := New(m)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	s.AddFragments(3)
	s.CompleteOnboarding()
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	reopened, _ := New(m)
	p, _ := reopened.Load()
	if p != (progress.Progress{OnboardingDone: true}) {
		t.Errorf("progress after reset = %+v", p)
	}
}

func TestStoreNilManagerDegrades(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}
	if s.Persistent() {
		t.Error("store without a manager should not be persistent")
	}

	if err := s.AddFragments(1); err != nil {
		t.Fatalf("AddFragments() failed: %v", err)
	}
	if err := s.AddFragments(-1); err == nil {
		t.Error("AddFragments(-1) should fail")
	}

	p, _ := s.Load()
	if p.TotalFragments != 1 || p.TotalGamesPlayed != 1 {
		t.Errorf("progress = %+v", p)
	}
}
