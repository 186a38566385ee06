// Package catch implements Echo Catch, a reaction-timing game: spheres appear
// at random positions and fade after a short lifetime; every sphere tapped
// before it fades scores a point until the countdown runs out.
package catch

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/fragments/internal/clock"
	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/core"
	"github.com/vovakirdan/fragments/internal/entity"
	"github.com/vovakirdan/fragments/internal/registry"
	"github.com/vovakirdan/fragments/internal/reward"
)

// ID is the registry identifier of the game.
const ID = "catch"

const (
	timerCountdown clock.Kind = iota
	timerSpawn
	timerExpire
)

// Game implements the Echo Catch engine.
type Game struct {
	tier    config.Tier
	profile config.CatchProfile
	field   core.Vec
	rng     *rand.Rand
	clock   *clock.Scheduler
	spheres *entity.Pool

	score         int
	remaining     int // Seconds left on the countdown
	spawnInterval time.Duration
	lifetime      time.Duration
	phase         core.Phase
	live          bool

	once    reward.Once
	pending *core.RewardEvent
}

// New creates a new Echo Catch game. Call Reset before stepping it.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Echo Catch"
}

// Description returns a one-line summary of the rules.
func (g *Game) Description() string {
	return "Tap the spheres before they fade. 30 seconds on the clock."
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	profile := cfg.Profile()
	g.tier = profile.Tier
	g.profile = profile.Catch
	g.field = cfg.Field()
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.clock = clock.New()
	g.spheres = entity.NewPool(g.rng)

	g.score = 0
	g.remaining = g.profile.Duration
	g.spawnInterval = g.profile.SpawnInterval
	g.lifetime = g.profile.EntityLifetime
	g.phase = core.PhaseActive
	g.live = true
	g.once = reward.Once{}
	g.pending = nil

	for i := 0; i < g.profile.InitialSpawns; i++ {
		g.spawn()
	}

	// Countdown is registered first so it wins ties with the spawn cadence.
	g.clock.Every(timerCountdown, time.Second)
	g.clock.Every(timerSpawn, g.spawnInterval)
}

// Step advances the clock by dt, then applies captures in arrival order.
// Spheres due to expire within dt are gone before any capture is considered.
func (g *Game) Step(dt time.Duration, inputs []core.Input) core.StepResult {
	if !g.live || g.phase == core.PhaseEnded {
		return core.StepResult{State: g.State()}
	}

	g.clock.Advance(dt, g.handle)

	for _, in := range inputs {
		if g.phase != core.PhaseActive {
			break
		}
		if in.Kind == core.InputCapture {
			g.capture(in.EntityID)
		}
	}

	res := core.StepResult{State: g.State(), Reward: g.pending}
	g.pending = nil
	return res
}

func (g *Game) handle(ev clock.Event) {
	if !g.live || g.phase != core.PhaseActive {
		return
	}

	switch ev.Kind {
	case timerCountdown:
		g.tickCountdown()
	case timerSpawn:
		g.spawn()
	case timerExpire:
		if id, ok := ev.Payload.(uuid.UUID); ok {
			g.spheres.Remove(id)
		}
	}
}

func (g *Game) tickCountdown() {
	if g.remaining > 0 {
		g.remaining--
	}

	if g.profile.Escalate {
		for _, at := range g.profile.EscalateAt {
			if g.remaining == at {
				g.escalate()
				break
			}
		}
	}

	if g.remaining <= 0 {
		g.end()
	}
}

// escalate shortens the spawn interval and sphere lifetime down to their
// floors, then re-arms the spawn cadence with the new interval.
func (g *Game) escalate() {
	g.spawnInterval = max(g.profile.SpawnFloor, g.spawnInterval-g.profile.SpawnStep)
	g.lifetime = max(g.profile.LifetimeFloor, g.lifetime-g.profile.LifetimeStep)
	g.clock.Every(timerSpawn, g.spawnInterval)
}

// spawn places a sphere uniformly inside the spawn margins and schedules its expiry.
func (g *Game) spawn() {
	m := g.profile.Margins
	pos := core.Vec{
		X: randRange(g.rng, m.Left, g.field.X-m.Right),
		Y: randRange(g.rng, m.Top, g.field.Y-m.Bottom),
	}

	now := g.clock.Now()
	e := g.spheres.Spawn(pos, now, g.lifetime)
	g.clock.After(timerExpire, g.lifetime, e.ID)
}

// capture scores a live sphere. Unknown or expired ids are ignored.
func (g *Game) capture(id uuid.UUID) {
	e, ok := g.spheres.Get(id)
	if !ok || e.Expired(g.clock.Now()) {
		return
	}
	g.spheres.Remove(id)
	g.score++
}

func (g *Game) end() {
	g.phase = core.PhaseEnded
	g.clock.Stop()
	g.spheres.Clear()

	fragments := g.once.Compute(g.score, reward.CatchDivisor)
	g.pending = &core.RewardEvent{
		GameID:     ID,
		Difficulty: g.tier,
		Score:      g.score,
		Fragments:  fragments,
		Elapsed:    g.clock.Now(),
	}
}

// Stop tears the session down. Pending timers are discarded, spheres are
// cleared and later Step calls are no-ops.
func (g *Game) Stop() {
	g.live = false
	if g.clock != nil {
		g.clock.Stop()
	}
	if g.spheres != nil {
		g.spheres.Clear()
	}
}

// State returns the current session state.
func (g *Game) State() core.SessionState {
	var elapsed time.Duration
	if g.clock != nil {
		elapsed = g.clock.Now()
	}
	return core.SessionState{
		Score:      g.score,
		Elapsed:    elapsed,
		Remaining:  g.remaining,
		Phase:      g.phase,
		Difficulty: g.tier,
	}
}

// Snapshot returns the rendering view of the game.
func (g *Game) Snapshot() core.Snapshot {
	snap := core.Snapshot{
		GameID:    ID,
		Playfield: g.field,
		State:     g.State(),
		Feedback:  g.stageText(),
	}
	if g.spheres == nil {
		return snap
	}

	now := g.clock.Now()
	size := g.profile.SphereSize
	for _, e := range g.spheres.All() {
		snap.Entities = append(snap.Entities, core.EntityView{
			ID:     e.ID,
			Bounds: core.RectAround(e.Pos, size, size),
			TTL:    e.TTL(now),
		})
	}
	return snap
}

// SpawnInterval returns the current spawn cadence.
func (g *Game) SpawnInterval() time.Duration {
	return g.spawnInterval
}

// Lifetime returns the lifetime given to newly spawned spheres.
func (g *Game) Lifetime() time.Duration {
	return g.lifetime
}

func (g *Game) stageText() string {
	switch {
	case g.phase == core.PhaseEnded:
		return "Time's up!"
	case g.remaining > 20:
		return "Tap the spheres!"
	case g.remaining > 10:
		return "Getting faster!"
	default:
		return "Quick reflexes!"
	}
}

// randRange returns a uniform value in [lo, hi], or the midpoint when the
// range is empty.
func randRange(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return (lo + hi) / 2
	}
	return lo + rng.Float64()*(hi-lo)
}
