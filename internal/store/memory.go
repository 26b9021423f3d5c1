package store

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store. It keeps the graph as a nested tree of
// maps keyed by path segment and delivers live notifications synchronously
// after each applied write.
//
// MemoryStore doubles as the fault-injection fixture for the test suites:
// DropWrites silently loses the next n writes (acked as OK but never
// applied), mimicking the replication failures the write reconciler exists
// to repair, and FailWrites makes every write ack with an error.
type MemoryStore struct {
	mu      sync.Mutex
	root    map[string]any
	subs    map[int]*memSub
	nextSub int

	dropRemaining int
	failErr       error
	writes        int
	applied       int
}

type memSub struct {
	store *MemoryStore
	id    int
	segs  []string
	fn    func(any)
	once  sync.Once
}

func (s *memSub) Close() {
	s.once.Do(func() {
		s.store.mu.Lock()
		delete(s.store.subs, s.id)
		s.store.mu.Unlock()
	})
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		root: make(map[string]any),
		subs: make(map[int]*memSub),
	}
}

// DropWrites makes the next n writes ack OK without being applied.
func (m *MemoryStore) DropWrites(n int) {
	m.mu.Lock()
	m.dropRemaining = n
	m.mu.Unlock()
}

// FailWrites makes every subsequent write ack with err. Pass nil to restore
// normal behavior.
func (m *MemoryStore) FailWrites(err error) {
	m.mu.Lock()
	m.failErr = err
	m.mu.Unlock()
}

// Writes returns how many writes were submitted, including dropped ones.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Applied returns how many writes actually reached the tree.
func (m *MemoryStore) Applied() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied
}

// Read implements Store.
func (m *MemoryStore) Read(ctx context.Context, path string) (any, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	v, ok := m.valueAt(segs)
	m.mu.Unlock()
	if !ok || v == nil {
		return nil, ErrNotFound
	}
	// Copy out so callers cannot mutate the tree.
	return Encode(v)
}

// Write implements Store.
func (m *MemoryStore) Write(ctx context.Context, path string, value any, ack AckFunc) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	norm, err := Encode(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.writes++
	if m.failErr != nil {
		err := m.failErr
		m.mu.Unlock()
		if ack != nil {
			ack(Ack{Err: err.Error()})
		}
		return nil
	}
	if m.dropRemaining > 0 {
		m.dropRemaining--
		m.mu.Unlock()
		if ack != nil {
			ack(Ack{OK: true})
		}
		return nil
	}
	m.apply(segs, norm)
	m.applied++
	notify := m.pendingNotifications(segs)
	m.mu.Unlock()

	for _, n := range notify {
		n.fn(n.value)
	}
	if ack != nil {
		ack(Ack{OK: true})
	}
	return nil
}

// SubscribeLive implements Store.
func (m *MemoryStore) SubscribeLive(path string, fn func(any)) (Subscription, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.nextSub++
	sub := &memSub{store: m, id: m.nextSub, segs: segs, fn: fn}
	m.subs[sub.id] = sub
	m.mu.Unlock()
	return sub, nil
}

// SubscribeSet implements Store.
func (m *MemoryStore) SubscribeSet(ctx context.Context, path string, fn func(childID string, value any)) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	v, ok := m.valueAt(segs)
	var members map[string]any
	if ok {
		if mm, isMap := v.(map[string]any); isMap {
			copied, err := Encode(mm)
			if err == nil {
				members, _ = copied.(map[string]any)
			}
		}
	}
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	for childID, cv := range members {
		if cv == nil || cv == false {
			continue
		}
		fn(childID, cv)
	}
	return nil
}

type memNotify struct {
	fn    func(any)
	value any
}

// pendingNotifications collects callbacks for every subscriber whose path
// overlaps the written path. Called with the lock held; callbacks run after
// release.
func (m *MemoryStore) pendingNotifications(written []string) []memNotify {
	var out []memNotify
	for _, sub := range m.subs {
		if !segsOverlap(sub.segs, written) {
			continue
		}
		v, ok := m.valueAt(sub.segs)
		if !ok {
			v = nil
		}
		copied, err := Encode(v)
		if err != nil {
			continue
		}
		out = append(out, memNotify{fn: sub.fn, value: copied})
	}
	return out
}

// apply writes norm at the tree position segs, creating intermediate maps.
func (m *MemoryStore) apply(segs []string, norm any) {
	node := m.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	node[segs[len(segs)-1]] = norm
}

func (m *MemoryStore) valueAt(segs []string) (any, bool) {
	var cur any = m.root
	for _, seg := range segs {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = mm[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func splitPath(path string) ([]string, error) {
	segs := strings.Split(path, "/")
	if len(segs) < 2 {
		return nil, ErrBadPath
	}
	for _, s := range segs {
		if s == "" {
			return nil, ErrBadPath
		}
	}
	return segs, nil
}

// segsOverlap reports whether one segment list is a prefix of the other. A
// write under a subscribed path changes the subscribed value, and a write
// above it replaces the subtree the subscription watches.
func segsOverlap(a, b []string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
