package progress

import (
	"errors"
	"sync"
	"testing"
)

func TestMemoryAddFragments(t *testing.T) {
	m := NewMemory(Progress{})

	for _, n := range []int{2, 3, 1} {
		if err := m.AddFragments(n); err != nil {
			t.Fatalf("AddFragments(%d) failed: %v", n, err)
		}
	}

	p, err := m.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if p.TotalFragments != 6 || p.TotalGamesPlayed != 3 {
		t.Errorf("progress = %+v, expected 6 fragments over 3 games", p)
	}

	if err := m.AddFragments(-1); !errors.Is(err, ErrNegativeFragments) {
		t.Errorf("AddFragments(-1) error = %v, expected ErrNegativeFragments", err)
	}
	if p2, _ := m.Load(); p2 != p {
		t.Error("rejected mutation changed the progress")
	}
}

func TestMemoryResetKeepsOnboarding(t *testing.T) {
	m := NewMemory(Progress{TotalFragments: 40, TotalGamesPlayed: 17})
	if err := m.CompleteOnboarding(); err != nil {
		t.Fatal(err)
	}
	if err := m.Reset(); err != nil {
		t.Fatal(err)
	}

	p, _ := m.Load()
	want := Progress{OnboardingDone: true}
	if p != want {
		t.Errorf("progress after reset = %+v, expected %+v", p, want)
	}
}

func TestMemoryConcurrentAdds(t *testing.T) {
	m := NewMemory(Progress{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.AddFragments(1)
		}()
	}
	wg.Wait()

	p, _ := m.Load()
	if p.TotalFragments != 50 || p.TotalGamesPlayed != 50 {
		t.Errorf("progress = %+v after 50 concurrent adds", p)
	}
}
