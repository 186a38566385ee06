package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/core"
	"github.com/vovakirdan/fragments/internal/games/catch"
	"github.com/vovakirdan/fragments/internal/games/sequence"
	"github.com/vovakirdan/fragments/internal/progress"
	"github.com/vovakirdan/fragments/internal/storage"
)

// fakeGame ends after endAt steps, or once it has seen endAfterInputs inputs.
type fakeGame struct {
	endAt          int
	endAfterInputs int
	fragments      int

	cfg     core.RuntimeConfig
	steps   int
	inputs  []core.Input
	ended   bool
	stopped bool
}

func (g *fakeGame) ID() string          { return "fake" }
func (g *fakeGame) Title() string       { return "Fake" }
func (g *fakeGame) Description() string { return "" }

func (g *fakeGame) Reset(cfg core.RuntimeConfig) {
	g.cfg = cfg
}

func (g *fakeGame) Step(dt time.Duration, inputs []core.Input) core.StepResult {
	if g.ended || g.stopped {
		return core.StepResult{State: g.State()}
	}
	g.steps++
	g.inputs = append(g.inputs, inputs...)

	done := (g.endAt > 0 && g.steps >= g.endAt) ||
		(g.endAfterInputs > 0 && len(g.inputs) >= g.endAfterInputs)
	if !done {
		return core.StepResult{State: g.State()}
	}
	g.ended = true
	return core.StepResult{
		State: g.State(),
		Reward: &core.RewardEvent{
			GameID:     "fake",
			Difficulty: g.cfg.Difficulty,
			Score:      g.steps,
			Fragments:  g.fragments,
			Elapsed:    time.Duration(g.steps) * dt,
		},
	}
}

func (g *fakeGame) Snapshot() core.Snapshot {
	return core.Snapshot{GameID: "fake", State: g.State()}
}

func (g *fakeGame) State() core.SessionState {
	phase := core.PhaseActive
	if g.ended {
		phase = core.PhaseEnded
	}
	return core.SessionState{Score: g.steps, Phase: phase, Difficulty: g.cfg.Difficulty}
}

func (g *fakeGame) Stop() {
	g.stopped = true
}

type recordingHistory struct {
	records []storage.SessionRecord
}

func (h *recordingHistory) RecordSession(rec storage.SessionRecord) (int64, error) {
	h.records = append(h.records, rec)
	return int64(len(h.records)), nil
}

type failingStore struct {
	progress.Memory
}

func (s *failingStore) AddFragments(int) error {
	return errors.New("disk full")
}

func TestRewardCommittedOnce(t *testing.T) {
	game := &fakeGame{endAt: 3, fragments: 2}
	store := progress.NewMemory(progress.Progress{})
	history := &recordingHistory{}

	var snapshots, rewards int
	r := New(game, Options{
		Tier:    config.TierMedium,
		Seed:    42,
		Store:   store,
		History: history,
		Observer: ObserverFuncs{
			Snapshot: func(core.Snapshot) { snapshots++ },
			Reward:   func(core.RewardEvent) { rewards++ },
		},
	})

	if game.cfg.Seed != 42 || game.cfg.Difficulty != config.TierMedium {
		t.Errorf("game reset with %+v", game.cfg)
	}

	var emitted int
	for i := 0; i < 10; i++ {
		if res := r.Step(time.Second/60, nil); res.Reward != nil {
			emitted++
		}
	}

	if emitted != 1 || rewards != 1 {
		t.Errorf("reward emitted %d times, observed %d times, expected 1", emitted, rewards)
	}
	if snapshots != 3 {
		t.Errorf("snapshots published = %d, expected 3", snapshots)
	}
	if game.steps != 3 {
		t.Errorf("engine stepped %d times after the end", game.steps-3)
	}

	p, _ := store.Load()
	if p.TotalFragments != 2 || p.TotalGamesPlayed != 1 {
		t.Errorf("progress = %+v, expected 2 fragments over 1 game", p)
	}

	if len(history.records) != 1 {
		t.Fatalf("history records = %d, expected 1", len(history.records))
	}
	rec := history.records[0]
	if rec.GameID != "fake" || rec.Difficulty != config.TierMedium || rec.Fragments != 2 || rec.Score != 3 {
		t.Errorf("history record = %+v", rec)
	}

	if !r.Ended() || r.Reward() == nil || r.Reward().Fragments != 2 {
		t.Errorf("runner reward = %+v", r.Reward())
	}
}

func TestStoreErrorSurfaced(t *testing.T) {
	var observed bool
	r := New(&fakeGame{endAt: 1, fragments: 1}, Options{
		Store:    &failingStore{},
		Observer: ObserverFuncs{Reward: func(core.RewardEvent) { observed = true }},
	})

	res := r.Step(time.Millisecond, nil)
	if res.Reward == nil || !observed {
		t.Error("reward should still be published when the store fails")
	}
	if r.Err() == nil {
		t.Error("Err() should report the store failure")
	}
}

func TestCloseStopsGame(t *testing.T) {
	game := &fakeGame{endAt: 100}
	r := New(game, Options{})

	r.Step(time.Millisecond, nil)
	r.Close()
	r.Close()

	if !game.stopped || !r.Closed() {
		t.Fatal("Close did not stop the engine")
	}
	if res := r.Step(time.Millisecond, nil); res.Reward != nil || game.steps != 1 {
		t.Error("Step after Close reached the engine")
	}
}

func TestRunEndsWithReward(t *testing.T) {
	game := &fakeGame{endAt: 5, fragments: 3}
	store := progress.NewMemory(progress.Progress{})
	r := New(game, Options{Store: store})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev, err := r.Run(ctx, 1000, nil)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if ev == nil || ev.Fragments != 3 {
		t.Fatalf("Run() reward = %+v", ev)
	}
	if !game.stopped {
		t.Error("Run should close the session on return")
	}
	if p, _ := store.Load(); p.TotalFragments != 3 {
		t.Errorf("fragments = %d, expected 3", p.TotalFragments)
	}
}

func TestRunAppliesInputsInOrder(t *testing.T) {
	game := &fakeGame{endAfterInputs: 3, fragments: 1}
	r := New(game, Options{})

	inputs := make(chan core.Input, 3)
	inputs <- core.Tap(0)
	inputs <- core.Tap(1)
	inputs <- core.Tap(2)
	close(inputs)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.Run(ctx, 1000, inputs); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	for i, in := range game.inputs {
		if in.Index != i {
			t.Errorf("input %d has index %d", i, in.Index)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	game := &fakeGame{endAt: 1 << 30}
	store := progress.NewMemory(progress.Progress{})
	r := New(game, Options{Store: store})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ev, err := r.Run(ctx, 1000, nil)
	if !errors.Is(err, context.DeadlineExceeded) || ev != nil {
		t.Errorf("Run() = (%v, %v), expected deadline exceeded", ev, err)
	}
	if !game.stopped {
		t.Error("cancelled session was not stopped")
	}
	if p, _ := store.Load(); p.TotalGamesPlayed != 0 {
		t.Error("cancelled session committed progress")
	}
}

func TestSequenceSessionEndToEnd(t *testing.T) {
	store := progress.NewMemory(progress.Progress{})
	r := New(sequence.New(), Options{Tier: config.TierMedium, Store: store})

	var ev *core.RewardEvent
	for i := 0; i < 100 && ev == nil; i++ {
		snap := r.Snapshot()
		var inputs []core.Input
		if snap.Feedback == "" && len(snap.Progress) < snap.Target {
			inputs = []core.Input{core.Tap(len(snap.Progress))}
		}
		ev = r.Step(500*time.Millisecond, inputs).Reward
	}

	if ev == nil {
		t.Fatal("sequence session did not end")
	}
	if ev.Score != 58 || ev.Fragments != 3 {
		t.Errorf("reward = %d fragments for %d, expected 3 for 58", ev.Fragments, ev.Score)
	}
	if p, _ := store.Load(); p.TotalFragments != 3 || p.TotalGamesPlayed != 1 {
		t.Errorf("progress = %+v", p)
	}
}

func TestCloseWhileRunning(t *testing.T) {
	store := progress.NewMemory(progress.Progress{})
	r := New(catch.New(), Options{Tier: config.TierHard, Seed: 9, Store: store})

	type result struct {
		ev  *core.RewardEvent
		err error
	}
	done := make(chan result, 1)
	go func() {
		ev, err := r.Run(context.Background(), 500, nil)
		done <- result{ev, err}
	}()

	time.Sleep(30 * time.Millisecond)
	r.Close()

	select {
	case res := <-done:
		if !errors.Is(res.err, ErrClosed) || res.ev != nil {
			t.Errorf("Run() = (%v, %v), expected ErrClosed", res.ev, res.err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}

	before := r.Snapshot()
	r.Step(time.Minute, nil)
	after := r.Snapshot()
	if after.State.Elapsed != before.State.Elapsed || len(after.Entities) != 0 {
		t.Errorf("closed session still advancing: %+v -> %+v", before.State, after.State)
	}
	if p, _ := store.Load(); p.TotalGamesPlayed != 0 {
		t.Error("closed session committed progress")
	}
}
