package dodge

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/fragments/internal/clock"
	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/core"
)

const frame = 30 * time.Millisecond

func newGame(tier config.Tier, seed int64) *Game {
	g := New()
	g.Reset(core.RuntimeConfig{
		Playfield:  core.DefaultPlayfield,
		Difficulty: tier,
		Seed:       seed,
	})
	return g
}

// dropOnPlayer places an obstacle just above the player so the next move tick collides.
func dropOnPlayer(g *Game) {
	p := g.PlayerRect().Center()
	g.obstacles.pool.Spawn(core.Vec{X: p.X, Y: p.Y - 10}, g.clock.Now(), 0)
}

func TestDeterminism(t *testing.T) {
	g1 := newGame(config.TierHard, 12345)
	g2 := newGame(config.TierHard, 12345)

	for i := 0; i < 300; i++ {
		var inputs []core.Input
		if i%40 == 0 {
			inputs = []core.Input{core.Move(core.SideLeft)}
		}
		if i%70 == 0 {
			inputs = append(inputs, core.Move(core.SideRight))
		}
		g1.Step(frame, inputs)
		g2.Step(frame, inputs)
	}

	if !reflect.DeepEqual(g1.Snapshot(), g2.Snapshot()) {
		t.Error("same seed and inputs produced different snapshots")
	}
}

func TestMoveClampedToMargins(t *testing.T) {
	g := newGame(config.TierEasy, 1)
	start := g.playerX

	tests := []struct {
		side core.Side
		want float64
	}{
		{core.SideLeft, start - 100},
		{core.SideLeft, 50},
		{core.SideLeft, 50},
		{core.SideRight, 150},
		{core.SideRight, 250},
		{core.SideRight, 340},
		{core.SideRight, 340},
	}

	for i, tc := range tests {
		g.move(tc.side)
		if g.playerX != tc.want {
			t.Errorf("move %d: playerX = %v, expected %v", i, g.playerX, tc.want)
		}
	}
}

func TestMoveNeverTouchesScoreOrSpeed(t *testing.T) {
	g := newGame(config.TierMedium, 2)
	g.Step(frame, nil)
	score, speed, count := g.score, g.speed, len(g.obstacles.Obstacles())

	g.Step(0, []core.Input{
		core.Move(core.SideLeft),
		core.Move(core.SideRight),
		core.Move(core.SideRight),
	})
	if g.score != score || g.speed != speed || len(g.obstacles.Obstacles()) != count {
		t.Error("move input changed score, speed or obstacles")
	}
}

func TestSpeedRamp(t *testing.T) {
	tests := []struct {
		tier config.Tier
		want []float64 // speed after 10, 20, 30, 40 points
	}{
		{config.TierEasy, []float64{3.5, 4.5, 5, 5}},
		{config.TierMedium, []float64{4.5, 5.5, 6.5, 7}},
		{config.TierHard, []float64{6, 7, 8, 9}},
	}

	for _, tc := range tests {
		t.Run(string(tc.tier), func(t *testing.T) {
			g := newGame(tc.tier, 3)
			for i, want := range tc.want {
				for j := 0; j < 10; j++ {
					g.handle(clock.Event{Kind: timerScore})
				}
				if g.Speed() != want {
					t.Errorf("speed after %d points = %v, expected %v", (i+1)*10, g.Speed(), want)
				}
				if g.Speed() > g.profile.SpeedMax {
					t.Errorf("speed %v above max %v", g.Speed(), g.profile.SpeedMax)
				}
			}
		})
	}
}

func TestObstaclesCulledPastBottom(t *testing.T) {
	field := core.DefaultPlayfield
	om := NewObstacleManager(rand.New(rand.NewSource(4)), field, config.Default().For(config.TierEasy).Dodge)

	om.pool.Spawn(core.Vec{X: 60, Y: 800}, 0, 0)
	om.pool.Spawn(core.Vec{X: 60, Y: 100}, 0, 0)

	if n := om.Update(44); n != 0 {
		t.Errorf("removed %d obstacles exactly at the bottom bound, expected 0", n)
	}
	if n := om.Update(1); n != 1 {
		t.Errorf("removed %d obstacles past the bottom, expected 1", n)
	}
	if len(om.Obstacles()) != 1 || om.Obstacles()[0].Pos.Y != 145 {
		t.Errorf("unexpected survivors: %+v", om.Obstacles())
	}
}

func TestSpawnInsideMargins(t *testing.T) {
	g := newGame(config.TierEasy, 5)
	for i := 0; i < 200; i++ {
		o := g.obstacles.Spawn(0)
		if o.Pos.X < 50 || o.Pos.X > g.field.X-50 || o.Pos.Y != 100 {
			t.Fatalf("obstacle spawned at %+v", o.Pos)
		}
	}
}

func TestCollisionEndsSessionOnce(t *testing.T) {
	g := newGame(config.TierEasy, 6)
	g.score = 7
	dropOnPlayer(g)

	res := g.Step(frame, nil)
	if res.Reward == nil {
		t.Fatal("collision did not end the session")
	}
	if res.Reward.Score != 7 || res.Reward.Fragments != 1 {
		t.Errorf("reward = %d fragments for %d, expected 1 for 7", res.Reward.Fragments, res.Reward.Score)
	}
	if !res.State.Ended() {
		t.Error("state not ended after collision")
	}

	// Further overlaps and steps never fire a second transition.
	dropOnPlayer(g)
	before := g.Snapshot()
	for i := 0; i < 10; i++ {
		if res := g.Step(frame, []core.Input{core.Move(core.SideLeft)}); res.Reward != nil {
			t.Fatal("second reward emitted")
		}
	}
	after := g.Snapshot()
	if after.State != before.State || g.playerX != before.Player.Center().X {
		t.Error("state changed after the session ended")
	}
}

func TestNearMissDoesNotCollide(t *testing.T) {
	g := newGame(config.TierEasy, 8)
	p := g.PlayerRect().Center()

	// Boxes are 50 and 60 wide: centers 55 apart only touch.
	g.obstacles.pool.Spawn(core.Vec{X: p.X + 55, Y: p.Y - 2.5}, 0, 0)
	g.handle(clock.Event{Kind: timerMove})
	if g.State().Ended() {
		t.Error("touching edges should not count as a collision")
	}
}

func TestSurvivalWithoutInputEventuallyEnds(t *testing.T) {
	g := newGame(config.TierHard, 9)

	var rewards int
	for i := 0; i < 20000 && !g.State().Ended(); i++ {
		if res := g.Step(frame, nil); res.Reward != nil {
			rewards++
		}
	}
	if !g.State().Ended() {
		t.Skip("no obstacle reached the player for this seed")
	}
	if rewards != 1 {
		t.Errorf("rewards emitted = %d, expected 1", rewards)
	}
}

func TestStopHaltsSession(t *testing.T) {
	g := newGame(config.TierMedium, 10)
	g.Step(2*time.Second, nil)
	score := g.score
	g.Stop()

	dropOnPlayer(g)
	res := g.Step(time.Minute, nil)
	if res.Reward != nil || res.State.Ended() {
		t.Error("stopped session ended or emitted a reward")
	}
	if res.State.Score != score || res.State.Elapsed != 2*time.Second {
		t.Errorf("stopped session advanced: %+v", res.State)
	}
}
