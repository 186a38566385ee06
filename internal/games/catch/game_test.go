package catch

import (
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/core"
)

const frame = 10 * time.Millisecond

func newGame(tier config.Tier, seed int64) *Game {
	g := New()
	g.Reset(core.RuntimeConfig{
		Playfield:  core.DefaultPlayfield,
		Difficulty: tier,
		Seed:       seed,
	})
	return g
}

// runToEnd steps the game frame by frame and returns every reward emitted.
func runToEnd(t *testing.T, g *Game, perFrame func() []core.Input) []*core.RewardEvent {
	t.Helper()
	var rewards []*core.RewardEvent
	for i := 0; i < 5000 && !g.State().Ended(); i++ {
		var inputs []core.Input
		if perFrame != nil {
			inputs = perFrame()
		}
		if res := g.Step(frame, inputs); res.Reward != nil {
			rewards = append(rewards, res.Reward)
		}
	}
	if !g.State().Ended() {
		t.Fatal("session did not end")
	}
	return rewards
}

func TestDeterminism(t *testing.T) {
	g1 := newGame(config.TierMedium, 12345)
	g2 := newGame(config.TierMedium, 12345)

	for i := 0; i < 1200; i++ {
		var in1, in2 []core.Input
		// Capture the oldest sphere every half second.
		if i%50 == 0 {
			if ents := g1.Snapshot().Entities; len(ents) > 0 {
				in1 = []core.Input{core.Capture(ents[0].ID)}
			}
			if ents := g2.Snapshot().Entities; len(ents) > 0 {
				in2 = []core.Input{core.Capture(ents[0].ID)}
			}
		}
		g1.Step(frame, in1)
		g2.Step(frame, in2)
	}

	if !reflect.DeepEqual(g1.Snapshot(), g2.Snapshot()) {
		t.Error("same seed and inputs produced different snapshots")
	}
	if g1.State().Score == 0 {
		t.Error("expected captures to score")
	}
}

func TestInitialSpawnsInsideMargins(t *testing.T) {
	g := newGame(config.TierEasy, 7)
	snap := g.Snapshot()
	if len(snap.Entities) != 2 {
		t.Fatalf("initial spheres = %d, expected 2", len(snap.Entities))
	}

	// Sample many spawns and check every center stays inside the margins.
	for i := 0; i < 200; i++ {
		g.spawn()
	}
	m := g.profile.Margins
	for _, e := range g.spheres.All() {
		if e.Pos.X < m.Left || e.Pos.X > g.field.X-m.Right {
			t.Errorf("sphere x = %v outside [%v, %v]", e.Pos.X, m.Left, g.field.X-m.Right)
		}
		if e.Pos.Y < m.Top || e.Pos.Y > g.field.Y-m.Bottom {
			t.Errorf("sphere y = %v outside [%v, %v]", e.Pos.Y, m.Top, g.field.Y-m.Bottom)
		}
	}
}

func TestCaptureScoresOnce(t *testing.T) {
	g := newGame(config.TierEasy, 1)
	id := g.Snapshot().Entities[0].ID

	res := g.Step(frame, []core.Input{core.Capture(id), core.Capture(id)})
	if res.State.Score != 1 {
		t.Errorf("score = %d after double capture, expected 1", res.State.Score)
	}
	if _, ok := g.spheres.Get(id); ok {
		t.Error("captured sphere still in the pool")
	}
	if len(g.Snapshot().Entities) != 1 {
		t.Errorf("spheres = %d, expected 1", len(g.Snapshot().Entities))
	}
}

func TestExpiryBeatsCapture(t *testing.T) {
	g := newGame(config.TierEasy, 3)
	id := g.Snapshot().Entities[0].ID

	// Easy spheres live 6s. A capture delivered on the step that crosses the
	// deadline loses to the expiry.
	g.Step(5990*time.Millisecond, nil)
	if _, ok := g.spheres.Get(id); !ok {
		t.Fatal("sphere expired early")
	}
	res := g.Step(frame, []core.Input{core.Capture(id)})
	if res.State.Score != 0 {
		t.Errorf("score = %d, capture of an expired sphere should be ignored", res.State.Score)
	}
}

func TestEscalation(t *testing.T) {
	tests := []struct {
		tier  config.Tier
		at10s [2]time.Duration // spawn interval, lifetime after 10s
		at20s [2]time.Duration
	}{
		{config.TierEasy, [2]time.Duration{2 * time.Second, 6 * time.Second}, [2]time.Duration{2 * time.Second, 6 * time.Second}},
		{config.TierMedium, [2]time.Duration{1200 * time.Millisecond, 4 * time.Second}, [2]time.Duration{900 * time.Millisecond, 3 * time.Second}},
		{config.TierHard, [2]time.Duration{800 * time.Millisecond, 3 * time.Second}, [2]time.Duration{800 * time.Millisecond, 3 * time.Second}},
	}

	for _, tc := range tests {
		t.Run(string(tc.tier), func(t *testing.T) {
			g := newGame(tc.tier, 99)

			g.Step(10*time.Second, nil)
			if g.SpawnInterval() != tc.at10s[0] || g.Lifetime() != tc.at10s[1] {
				t.Errorf("after 10s: (%v, %v), expected (%v, %v)",
					g.SpawnInterval(), g.Lifetime(), tc.at10s[0], tc.at10s[1])
			}

			g.Step(10*time.Second, nil)
			if g.SpawnInterval() != tc.at20s[0] || g.Lifetime() != tc.at20s[1] {
				t.Errorf("after 20s: (%v, %v), expected (%v, %v)",
					g.SpawnInterval(), g.Lifetime(), tc.at20s[0], tc.at20s[1])
			}

			if g.SpawnInterval() < g.profile.SpawnFloor || g.Lifetime() < g.profile.LifetimeFloor {
				t.Error("escalation went below the floors")
			}
		})
	}
}

func TestEndsAfterCountdownWithSingleReward(t *testing.T) {
	g := newGame(config.TierHard, 5)

	rewards := runToEnd(t, g, nil)
	if len(rewards) != 1 {
		t.Fatalf("rewards emitted = %d, expected 1", len(rewards))
	}

	r := rewards[0]
	if r.GameID != ID || r.Difficulty != config.TierHard {
		t.Errorf("reward = %+v", r)
	}
	if r.Score != 0 || r.Fragments != 1 {
		t.Errorf("reward score/fragments = %d/%d, expected 0/1", r.Score, r.Fragments)
	}
	if r.Elapsed != 30*time.Second {
		t.Errorf("elapsed = %v, expected 30s", r.Elapsed)
	}

	st := g.State()
	if st.Remaining != 0 || st.Phase != core.PhaseEnded {
		t.Errorf("final state = %+v", st)
	}
	if len(g.Snapshot().Entities) != 0 {
		t.Error("spheres should be cleared at the end")
	}
}

func TestNoMutationAfterEnd(t *testing.T) {
	g := newGame(config.TierEasy, 8)
	runToEnd(t, g, nil)
	before := g.Snapshot()

	for i := 0; i < 10; i++ {
		res := g.Step(time.Second, []core.Input{core.Capture(uuid.New())})
		if res.Reward != nil {
			t.Fatal("reward emitted after the session ended")
		}
	}
	if !reflect.DeepEqual(before, g.Snapshot()) {
		t.Error("state changed after the session ended")
	}
}

func TestRewardFromFinalScore(t *testing.T) {
	g := newGame(config.TierEasy, 11)

	// Capture every visible sphere each frame until 12 are caught.
	rewards := runToEnd(t, g, func() []core.Input {
		if g.score >= 12 {
			return nil
		}
		ents := g.Snapshot().Entities
		if len(ents) == 0 {
			return nil
		}
		return []core.Input{core.Capture(ents[0].ID)}
	})

	if len(rewards) != 1 {
		t.Fatalf("rewards emitted = %d, expected 1", len(rewards))
	}
	if rewards[0].Score != 12 || rewards[0].Fragments != 2 {
		t.Errorf("reward = %d fragments for score %d, expected 2 for 12", rewards[0].Fragments, rewards[0].Score)
	}
}

func TestStopHaltsSession(t *testing.T) {
	g := newGame(config.TierMedium, 21)
	g.Step(2*time.Second, nil)
	g.Stop()

	res := g.Step(time.Minute, nil)
	if res.Reward != nil {
		t.Error("stopped session emitted a reward")
	}
	if res.State.Elapsed != 2*time.Second || res.State.Remaining != 28 {
		t.Errorf("stopped session advanced: %+v", res.State)
	}
	if len(g.Snapshot().Entities) != 0 {
		t.Error("Stop should clear the spheres")
	}
}

func TestEscalationRearmsSpawnCadence(t *testing.T) {
	g := newGame(config.TierMedium, 5)

	seen := make(map[uuid.UUID]time.Duration)
	for !g.State().Ended() {
		g.Step(frame, nil)
		for _, e := range g.spheres.All() {
			seen[e.ID] = e.SpawnedAt
		}
	}

	var spawns []time.Duration
	for _, at := range seen {
		if at > 0 {
			spawns = append(spawns, at)
		}
	}
	slices.Sort(spawns)

	windows := []struct {
		from, to time.Duration
		gap      time.Duration
	}{
		{0, 10 * time.Second, 1500 * time.Millisecond},
		{10 * time.Second, 20 * time.Second, 1200 * time.Millisecond},
		{20 * time.Second, 30 * time.Second, 900 * time.Millisecond},
	}
	for _, w := range windows {
		var gaps int
		for i := 1; i < len(spawns); i++ {
			prev, cur := spawns[i-1], spawns[i]
			if prev <= w.from || cur > w.to {
				continue
			}
			gaps++
			if cur-prev != w.gap {
				t.Errorf("spawns at %v and %v are %v apart, expected %v", prev, cur, cur-prev, w.gap)
			}
		}
		if gaps < 5 {
			t.Errorf("only %d spawn gaps between %v and %v", gaps, w.from, w.to)
		}
	}

	// First spawn after each escalation is one new interval past the threshold.
	for _, want := range []time.Duration{11200 * time.Millisecond, 20900 * time.Millisecond} {
		if !slices.Contains(spawns, want) {
			t.Errorf("no spawn at %v; spawns: %v", want, spawns)
		}
	}
}
