// Package dodge implements Shadow Shift, an obstacle-avoidance game: shadows
// fall from the top of the screen and the player steps left or right to stay
// clear of them. Survival time is the score and the fall speed grows with it.
package dodge

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/fragments/internal/clock"
	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/core"
	"github.com/vovakirdan/fragments/internal/registry"
	"github.com/vovakirdan/fragments/internal/reward"
)

// ID is the registry identifier of the game.
const ID = "dodge"

const (
	timerSpawn clock.Kind = iota
	timerMove
	timerScore
)

// Game implements the Shadow Shift engine.
type Game struct {
	tier      config.Tier
	profile   config.DodgeProfile
	field     core.Vec
	clock     *clock.Scheduler
	obstacles *ObstacleManager

	playerX  float64
	speed    float64
	score    int
	phase    core.Phase
	live     bool
	gameOver bool // Set by the first collision; later overlaps are ignored

	once    reward.Once
	pending *core.RewardEvent
}

// New creates a new Shadow Shift game. Call Reset before stepping it.
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
	return "Shadow Shift"
}

// Description returns a one-line summary of the rules.
func (g *Game) Description() string {
	return "Step left or right to dodge the falling shadows. Survive as long as you can."
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	profile := cfg.Profile()
	g.tier = profile.Tier
	g.profile = profile.Dodge
	g.field = cfg.Field()
	g.clock = clock.New()
	g.obstacles = NewObstacleManager(rand.New(rand.NewSource(cfg.Seed)), g.field, g.profile)

	g.playerX = g.field.X / 2
	g.speed = g.profile.SpeedMin
	g.score = 0
	g.phase = core.PhaseActive
	g.live = true
	g.gameOver = false
	g.once = reward.Once{}
	g.pending = nil

	g.clock.Every(timerSpawn, g.profile.SpawnInterval)
	g.clock.Every(timerMove, g.profile.MoveInterval)
	g.clock.Every(timerScore, g.profile.ScoreInterval)
}

// Step advances the clock by dt, then applies moves in arrival order.
func (g *Game) Step(dt time.Duration, inputs []core.Input) core.StepResult {
	if !g.live || g.phase == core.PhaseEnded {
		return core.StepResult{State: g.State()}
	}

	g.clock.Advance(dt, g.handle)

	for _, in := range inputs {
		if g.phase != core.PhaseActive {
			break
		}
		if in.Kind == core.InputMove {
			g.move(in.Side)
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
	case timerSpawn:
		g.obstacles.Spawn(ev.At)
	case timerMove:
		g.obstacles.Update(g.speed)
		if !g.gameOver && g.obstacles.CheckCollision(g.PlayerRect()) {
			g.end()
		}
	case timerScore:
		g.score++
		if g.profile.SpeedEvery > 0 && g.score%g.profile.SpeedEvery == 0 {
			g.speed = min(g.profile.SpeedMax, g.speed+g.profile.SpeedStep)
		}
	}
}

// move steps the player toward side, clamped to the edge margins.
// It never touches score, speed or obstacles.
func (g *Game) move(side core.Side) {
	var dx float64
	switch side {
	case core.SideLeft:
		dx = -g.profile.PlayerStep
	case core.SideRight:
		dx = g.profile.PlayerStep
	default:
		return
	}
	g.playerX = core.ClampF(g.playerX+dx, g.profile.EdgeMargin, g.field.X-g.profile.EdgeMargin)
}

func (g *Game) end() {
	g.gameOver = true
	g.phase = core.PhaseEnded
	g.clock.Stop()
	g.obstacles.Clear()

	fragments := g.once.Compute(g.score, reward.DodgeDivisor)
	g.pending = &core.RewardEvent{
		GameID:     ID,
		Difficulty: g.tier,
		Score:      g.score,
		Fragments:  fragments,
		Elapsed:    g.clock.Now(),
	}
}

// Stop tears the session down. Pending timers are discarded, obstacles are
// cleared and later Step calls are no-ops.
func (g *Game) Stop() {
	g.live = false
	if g.clock != nil {
		g.clock.Stop()
	}
	if g.obstacles != nil {
		g.obstacles.Clear()
	}
}

// PlayerRect returns the player's collision box.
func (g *Game) PlayerRect() core.Rect {
	center := core.Vec{X: g.playerX, Y: g.field.Y - g.profile.PlayerOffset}
	return core.RectAround(center, g.profile.PlayerSize, g.profile.PlayerSize)
}

// Speed returns the current obstacle fall speed.
func (g *Game) Speed() float64 {
	return g.speed
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
		Speed:     g.speed,
		Feedback:  g.levelText(),
	}
	if g.obstacles == nil {
		return snap
	}

	player := g.PlayerRect()
	snap.Player = &player
	for _, o := range g.obstacles.Obstacles() {
		snap.Entities = append(snap.Entities, core.EntityView{
			ID:     o.ID,
			Bounds: g.obstacles.Rect(o),
		})
	}
	return snap
}

func (g *Game) levelText() string {
	switch {
	case g.phase == core.PhaseEnded:
		return "Caught by a shadow!"
	case g.score < 10:
		return "Level 1"
	case g.score < 20:
		return "Level 2 - Faster!"
	case g.score < 30:
		return "Level 3 - Even faster!"
	default:
		return "Level 4 - Maximum!"
	}
}
