// Package cache is the optimistic local cache in front of the graph store.
//
// The cache is a presentation-tier accelerator, not a system of record: reads
// are O(1) and return whatever was most recently written or fetched, entries
// are never proactively expired, and a put always fully replaces the cached
// value so stale optimistic partials cannot mask newer server state. Every
// mutator and every subscription callback writes through here before
// notifying its caller, which is what gives callers read-your-writes
// behavior ahead of store convergence.
package cache

import (
	"sync"

	"github.com/forgeboard/gamegraph/internal/model"
)

// Cache holds one key/value store per entity kind plus a role lookup table.
// Construct one per process with New; tests construct their own isolated
// instances. Concurrent access is safe; racing writers resolve last-in-wins,
// which is acceptable for an advisory cache.
type Cache struct {
	mu      sync.RWMutex
	byKind  map[model.Kind]map[string]any
	roles   map[string]model.Role
}

// New returns an empty cache.
func New() *Cache {
	c := &Cache{}
	c.init()
	return c
}

func (c *Cache) init() {
	c.byKind = make(map[model.Kind]map[string]any)
	for _, k := range model.Kinds() {
		c.byKind[k] = make(map[string]any)
	}
	c.roles = make(map[string]model.Role)
}

// Get returns the cached entity of the given kind, untyped.
func (c *Cache) Get(kind model.Kind, id string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byKind[kind]
	if !ok {
		return nil, false
	}
	v, ok := m[id]
	return v, ok
}

// Put fully replaces the cached value for (kind, id).
func (c *Cache) Put(kind model.Kind, id string, entity any) {
	if id == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.byKind[kind]
	if !ok {
		m = make(map[string]any)
		c.byKind[kind] = m
	}
	m[id] = entity
	if u, ok := entity.(*model.User); ok {
		c.roles[id] = u.Role
	}
}

// Delete drops the cached entry, used when a node is tombstoned.
func (c *Cache) Delete(kind model.Kind, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.byKind[kind]; ok {
		delete(m, id)
	}
	if kind == model.KindUser {
		delete(c.roles, id)
	}
}

// Reset clears everything. Only for explicit lifecycle resets and tests.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.init()
}

// Role returns the cached role of a user, defaulting to Guest when unknown.
func (c *Cache) Role(userID string) model.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if r, ok := c.roles[userID]; ok {
		return r
	}
	return model.RoleGuest
}

// SetRole records a role in the lookup table without requiring the full user
// node to be cached.
func (c *Cache) SetRole(userID string, role model.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles[userID] = role
}

// Typed accessors. Each returns (nil, false) when the entry is absent or of
// an unexpected type, so a poisoned entry degrades to a cache miss.

func (c *Cache) User(id string) (*model.User, bool) {
	v, ok := c.Get(model.KindUser, id)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.User)
	return u, ok
}

func (c *Cache) Game(id string) (*model.Game, bool) {
	v, ok := c.Get(model.KindGame, id)
	if !ok {
		return nil, false
	}
	g, ok := v.(*model.Game)
	return g, ok
}

func (c *Cache) Actor(id string) (*model.Actor, bool) {
	v, ok := c.Get(model.KindActor, id)
	if !ok {
		return nil, false
	}
	a, ok := v.(*model.Actor)
	return a, ok
}

func (c *Cache) Card(id string) (*model.Card, bool) {
	v, ok := c.Get(model.KindCard, id)
	if !ok {
		return nil, false
	}
	cd, ok := v.(*model.Card)
	return cd, ok
}

func (c *Cache) Deck(id string) (*model.Deck, bool) {
	v, ok := c.Get(model.KindDeck, id)
	if !ok {
		return nil, false
	}
	d, ok := v.(*model.Deck)
	return d, ok
}

func (c *Cache) Agreement(id string) (*model.Agreement, bool) {
	v, ok := c.Get(model.KindAgreement, id)
	if !ok {
		return nil, false
	}
	a, ok := v.(*model.Agreement)
	return a, ok
}

func (c *Cache) Value(id string) (*model.Value, bool) {
	v, ok := c.Get(model.KindValue, id)
	if !ok {
		return nil, false
	}
	val, ok := v.(*model.Value)
	return val, ok
}

func (c *Cache) Capability(id string) (*model.Capability, bool) {
	v, ok := c.Get(model.KindCapability, id)
	if !ok {
		return nil, false
	}
	cp, ok := v.(*model.Capability)
	return cp, ok
}

func (c *Cache) Position(id string) (*model.NodePosition, bool) {
	v, ok := c.Get(model.KindPosition, id)
	if !ok {
		return nil, false
	}
	p, ok := v.(*model.NodePosition)
	return p, ok
}
