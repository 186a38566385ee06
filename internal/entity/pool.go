// Package entity manages the transient objects a game spawns: catch spheres
// and dodge obstacles. A Pool owns its entities; they leave it when captured,
// when they expire, or when the engine culls them.
package entity

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/fragments/internal/core"
)

// Entity is a spawned object with a center position and an optional deadline.
type Entity struct {
	ID        uuid.UUID
	Pos       core.Vec
	SpawnedAt time.Duration
	ExpiresAt time.Duration // 0 means the entity never expires
}

// Expired reports whether the entity's deadline has been reached at now.
func (e *Entity) Expired(now time.Duration) bool {
	return e.ExpiresAt > 0 && now >= e.ExpiresAt
}

// TTL returns the time left before expiry at now, or 0 for entities without a deadline.
func (e *Entity) TTL(now time.Duration) time.Duration {
	if e.ExpiresAt == 0 || now >= e.ExpiresAt {
		return 0
	}
	return e.ExpiresAt - now
}

// Pool holds live entities in spawn order.
type Pool struct {
	ids   io.Reader
	items []*Entity
	byID  map[uuid.UUID]*Entity
}

// NewPool creates an empty pool. IDs are read from ids so a seeded source
// yields the same ids on every replay; nil uses crypto randomness.
func NewPool(ids io.Reader) *Pool {
	return &Pool{
		ids:   ids,
		items: make([]*Entity, 0, 16),
		byID:  make(map[uuid.UUID]*Entity),
	}
}

// Spawn adds an entity at pos. A positive ttl sets ExpiresAt = now + ttl.
func (p *Pool) Spawn(pos core.Vec, now, ttl time.Duration) *Entity {
	e := &Entity{
		ID:        p.newID(),
		Pos:       pos,
		SpawnedAt: now,
	}
	if ttl > 0 {
		e.ExpiresAt = now + ttl
	}
	p.items = append(p.items, e)
	p.byID[e.ID] = e
	return e
}

// Get returns the live entity with the given id.
func (p *Pool) Get(id uuid.UUID) (*Entity, bool) {
	e, ok := p.byID[id]
	return e, ok
}

// Remove deletes the entity with the given id.
// It returns false when the entity is not in the pool.
func (p *Pool) Remove(id uuid.UUID) bool {
	if _, ok := p.byID[id]; !ok {
		return false
	}
	delete(p.byID, id)
	for i, e := range p.items {
		if e.ID == id {
			p.items = append(p.items[:i], p.items[i+1:]...)
			break
		}
	}
	return true
}

// RemoveIf deletes every entity matching pred and returns how many were removed.
func (p *Pool) RemoveIf(pred func(*Entity) bool) int {
	kept := p.items[:0]
	removed := 0
	for _, e := range p.items {
		if pred(e) {
			delete(p.byID, e.ID)
			removed++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(p.items); i++ {
		p.items[i] = nil
	}
	p.items = kept
	return removed
}

// Expire removes every entity whose deadline has passed at now.
func (p *Pool) Expire(now time.Duration) int {
	return p.RemoveIf(func(e *Entity) bool {
		return e.Expired(now)
	})
}

// All returns the live entities in spawn order. The slice must not be retained
// across mutations of the pool.
func (p *Pool) All() []*Entity {
	return p.items
}

// Len returns the number of live entities.
func (p *Pool) Len() int {
	return len(p.items)
}

// Clear removes every entity.
func (p *Pool) Clear() {
	for i := range p.items {
		p.items[i] = nil
	}
	p.items = p.items[:0]
	p.byID = make(map[uuid.UUID]*Entity)
}

func (p *Pool) newID() uuid.UUID {
	if p.ids == nil {
		return uuid.New()
	}
	id, err := uuid.NewRandomFromReader(p.ids)
	if err != nil {
		return uuid.New()
	}
	return id
}
