package autoplay

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/core"
	"github.com/vovakirdan/fragments/internal/progress"
	"github.com/vovakirdan/fragments/internal/registry"
	"github.com/vovakirdan/fragments/internal/session"
)

func newRunner(t *testing.T, id string, tier config.Tier, store progress.Store) *session.Runner {
	t.Helper()
	game, err := registry.Create(id)
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", id, err)
	}
	return session.New(game, session.Options{Tier: tier, Seed: 2024, Store: store})
}

func TestForGame(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, id := range []string{"catch", "sequence", "dodge"} {
		if _, err := ForGame(id, rng, 0.5); err != nil {
			t.Errorf("ForGame(%q) failed: %v", id, err)
		}
	}
	if _, err := ForGame("snake", rng, 0.5); err == nil {
		t.Error("ForGame() with an unknown game should fail")
	}
}

func TestCatchPolicyTapsOldest(t *testing.T) {
	p, _ := ForGame("catch", rand.New(rand.NewSource(2)), 1)
	oldest := uuid.New()
	snap := core.Snapshot{Entities: []core.EntityView{{ID: oldest}, {ID: uuid.New()}}}

	taps := 0
	for i := 0; i < 200; i++ {
		for _, in := range p.Next(snap) {
			taps++
			if in.Kind != core.InputCapture || in.EntityID != oldest {
				t.Fatalf("unexpected input %+v", in)
			}
		}
	}
	if taps == 0 {
		t.Error("policy never reacted")
	}

	if in := p.Next(core.Snapshot{}); in != nil {
		t.Errorf("policy tapped with no spheres: %+v", in)
	}
}

func TestSequencePolicy(t *testing.T) {
	p, _ := ForGame("sequence", rand.New(rand.NewSource(3)), 1)

	in := p.Next(core.Snapshot{Target: 4, Progress: []int{0, 1}})
	if len(in) != 1 || in[0].Kind != core.InputTap || in[0].Index != 2 {
		t.Errorf("inputs = %+v, expected tap 2", in)
	}

	if in := p.Next(core.Snapshot{Target: 4, Progress: []int{0}, Feedback: "Wrong order! Try again"}); in != nil {
		t.Errorf("policy tapped during feedback: %+v", in)
	}
}

func TestDodgePolicySteersAway(t *testing.T) {
	field := core.DefaultPlayfield
	player := func(x float64) *core.Rect {
		r := core.RectAround(core.Vec{X: x, Y: field.Y - 250}, 50, 50)
		return &r
	}
	obstacle := func(x, y float64) core.EntityView {
		return core.EntityView{ID: uuid.New(), Bounds: core.RectAround(core.Vec{X: x, Y: y}, 60, 60)}
	}

	tests := []struct {
		name     string
		playerX  float64
		obstacle core.EntityView
		want     []core.Input
	}{
		{"threat on the left", 195, obstacle(180, 500), []core.Input{core.Move(core.SideRight)}},
		{"threat on the right", 195, obstacle(210, 500), []core.Input{core.Move(core.SideLeft)}},
		{"pinned at the right edge", 340, obstacle(330, 500), []core.Input{core.Move(core.SideLeft)}},
		{"far away", 195, obstacle(195, 100), nil},
		{"other column", 195, obstacle(320, 500), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := ForGame("dodge", rand.New(rand.NewSource(4)), 1)
			snap := core.Snapshot{
				Playfield: field,
				Player:    player(tc.playerX),
				Entities:  []core.EntityView{tc.obstacle},
			}
			got := p.Next(snap)
			if len(got) != len(tc.want) || (len(got) == 1 && got[0] != tc.want[0]) {
				t.Errorf("inputs = %+v, expected %+v", got, tc.want)
			}
		})
	}
}

func TestDriveCatch(t *testing.T) {
	store := progress.NewMemory(progress.Progress{})
	r := newRunner(t, "catch", config.TierEasy, store)
	p, _ := ForGame("catch", rand.New(rand.NewSource(5)), 1)

	ev := Drive(r, p, time.Second/30, 10000)
	if ev == nil {
		t.Fatal("catch session did not end")
	}
	if ev.Score < 12 || ev.Fragments < 2 {
		t.Errorf("skilled catch run scored %d (%d fragments)", ev.Score, ev.Fragments)
	}
	if got, _ := store.Load(); got.TotalFragments != ev.Fragments || got.TotalGamesPlayed != 1 {
		t.Errorf("progress = %+v, expected %d fragments committed once", got, ev.Fragments)
	}
}

func TestDriveSequenceWithSlips(t *testing.T) {
	for _, skill := range []float64{0, 1} {
		r := newRunner(t, "sequence", config.TierMedium, nil)
		p, _ := ForGame("sequence", rand.New(rand.NewSource(6)), skill)

		ev := Drive(r, p, 100*time.Millisecond, 10000)
		if ev == nil {
			t.Fatalf("sequence session with skill %v did not end", skill)
		}
		// Mismatches cost time, never points.
		if ev.Score != 58 || ev.Fragments != 3 {
			t.Errorf("skill %v: reward %d for %d, expected 3 for 58", skill, ev.Fragments, ev.Score)
		}
	}
}

func TestDriveDodge(t *testing.T) {
	store := progress.NewMemory(progress.Progress{})
	r := newRunner(t, "dodge", config.TierHard, store)
	p, _ := ForGame("dodge", rand.New(rand.NewSource(7)), 0)

	ev := Drive(r, p, 30*time.Millisecond, 100000)
	if ev == nil {
		t.Skip("unskilled dodge run survived the step budget")
	}
	if ev.Fragments < 1 || ev.Fragments > 3 {
		t.Errorf("fragments = %d outside [1, 3]", ev.Fragments)
	}
	if got, _ := store.Load(); got.TotalGamesPlayed != 1 {
		t.Errorf("games played = %d, expected 1", got.TotalGamesPlayed)
	}
}
