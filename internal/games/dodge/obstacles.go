package dodge

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/fragments/internal/config"
	"github.com/vovakirdan/fragments/internal/core"
	"github.com/vovakirdan/fragments/internal/entity"
)

// ObstacleManager handles spawning, movement, and removal of falling obstacles.
type ObstacleManager struct {
	pool  *entity.Pool
	rng   *rand.Rand
	field core.Vec
	cfg   config.DodgeProfile
}

// NewObstacleManager creates an obstacle manager drawing positions and ids from rng.
func NewObstacleManager(rng *rand.Rand, field core.Vec, cfg config.DodgeProfile) *ObstacleManager {
	return &ObstacleManager{
		pool:  entity.NewPool(rng),
		rng:   rng,
		field: field,
		cfg:   cfg,
	}
}

// Spawn drops a new obstacle at a random x inside the edge margins.
func (om *ObstacleManager) Spawn(now time.Duration) *entity.Entity {
	lo := om.cfg.EdgeMargin
	hi := om.field.X - om.cfg.EdgeMargin
	x := (lo + hi) / 2
	if hi > lo {
		x = lo + om.rng.Float64()*(hi-lo)
	}
	return om.pool.Spawn(core.Vec{X: x, Y: om.cfg.SpawnY}, now, 0)
}

// Update moves every obstacle down by speed and removes the ones that have
// passed the bottom of the playfield. It returns how many were removed.
func (om *ObstacleManager) Update(speed float64) int {
	for _, o := range om.pool.All() {
		o.Pos.Y += speed
	}
	return om.pool.RemoveIf(func(o *entity.Entity) bool {
		return o.Pos.Y > om.field.Y
	})
}

// Rect returns the collision box of an obstacle.
func (om *ObstacleManager) Rect(o *entity.Entity) core.Rect {
	return core.RectAround(o.Pos, om.cfg.ObstacleSize, om.cfg.ObstacleSize)
}

// CheckCollision tests if the given rectangle overlaps any obstacle.
func (om *ObstacleManager) CheckCollision(player core.Rect) bool {
	for _, o := range om.pool.All() {
		if player.Intersects(om.Rect(o)) {
			return true
		}
	}
	return false
}

// Obstacles returns the live obstacles in spawn order.
func (om *ObstacleManager) Obstacles() []*entity.Entity {
	return om.pool.All()
}

// Clear removes every obstacle.
func (om *ObstacleManager) Clear() {
	om.pool.Clear()
}
