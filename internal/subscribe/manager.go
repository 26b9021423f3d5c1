// Package subscribe manages live store subscriptions, including the nested
// watches the UI layers lean on: watching a game's actor roster transitively
// watches each actor node and the card that actor currently holds in the
// game. One cancel tears down the whole tree.
//
// Callback values are eventually-consistent notifications: they may be stale
// echoes of this client's own writes and may arrive out of order. Every
// delivered entity is written through the local cache before the caller's
// callback runs, so cache readers converge even when nobody looks at the
// callback payload.
package subscribe

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/forgeboard/gamegraph/internal/cache"
	"github.com/forgeboard/gamegraph/internal/metrics"
	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/internal/store"
)

// Manager opens and tracks live subscriptions over one store.
type Manager struct {
	store store.Store
	cache *cache.Cache
	log   *slog.Logger

	mu   sync.Mutex
	open int
}

// NewManager creates a subscription manager. cache may be nil to skip
// write-through; logger may be nil for slog.Default.
func NewManager(s store.Store, c *cache.Cache, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: s, cache: c, log: logger}
}

// OpenCount returns the number of currently open subscriptions, nested
// children included.
func (m *Manager) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *Manager) track(delta int) {
	m.mu.Lock()
	m.open += delta
	m.mu.Unlock()
	metrics.OpenSubscriptions.Add(float64(delta))
}

// Subscribe watches a single path. The returned cancel is idempotent. For
// node paths of known kinds, delivered values are written through the cache
// (nil tombstones evict) before fn runs.
func (m *Manager) Subscribe(path string, fn func(value any)) (func(), error) {
	parsed, err := store.ParsePath(path)
	if err != nil {
		return nil, err
	}
	sub, err := m.store.SubscribeLive(path, func(v any) {
		if parsed.Field == "" {
			m.writeThrough(parsed, v)
		}
		fn(v)
	})
	if err != nil {
		return nil, err
	}
	m.track(1)
	var once sync.Once
	return func() {
		once.Do(func() {
			sub.Close()
			m.track(-1)
		})
	}, nil
}

// writeThrough keeps the cache in step with node-level notifications.
func (m *Manager) writeThrough(p store.Path, v any) {
	if m.cache == nil {
		return
	}
	kind, ok := model.KindFromCollection(p.Collection)
	if !ok {
		return
	}
	if v == nil {
		m.cache.Delete(kind, p.ID)
		return
	}
	entity, err := decodeEntity(kind, v)
	if err != nil {
		m.log.Warn("live value did not decode",
			slog.String("path", p.String()),
			slog.String("error", err.Error()))
		return
	}
	m.cache.Put(kind, p.ID, entity)
}

func decodeEntity(kind model.Kind, v any) (any, error) {
	switch kind {
	case model.KindUser:
		out := &model.User{}
		return out, store.Decode(v, out)
	case model.KindGame:
		out := &model.Game{}
		return out, store.Decode(v, out)
	case model.KindActor:
		out := &model.Actor{}
		return out, store.Decode(v, out)
	case model.KindCard:
		out := &model.Card{}
		return out, store.Decode(v, out)
	case model.KindDeck:
		out := &model.Deck{}
		return out, store.Decode(v, out)
	case model.KindAgreement:
		out := &model.Agreement{}
		return out, store.Decode(v, out)
	case model.KindValue:
		out := &model.Value{}
		return out, store.Decode(v, out)
	case model.KindCapability:
		out := &model.Capability{}
		return out, store.Decode(v, out)
	case model.KindPosition:
		out := &model.NodePosition{}
		return out, store.Decode(v, out)
	default:
		return nil, errors.New("unknown entity kind")
	}
}

// GameActorEvent is one notification from a nested game-actors watch.
// Actor is nil when the actor node is tombstoned or not yet readable. Card
// is the card the actor holds in the watched game, nil when none.
type GameActorEvent struct {
	ActorID string
	Actor   *model.Actor
	Card    *model.Card
}

// gameWatch is the state of one WatchGameActors tree.
type gameWatch struct {
	mgr    *Manager
	gameID string
	fn     func(GameActorEvent)

	mu     sync.Mutex
	closed bool
	actors map[string]*actorWatch
}

// actorWatch follows one actor node plus the card it holds in the game.
type actorWatch struct {
	cancel     func()
	cardID     string
	cardCancel func()
}

// WatchGameActors watches the game's actor roster: the actors_ref set, each
// member actor's node, and each actor's currently held card for this game.
// Roster changes open and close the per-actor watches; a card reassignment
// closes the old card watch before opening the new one. The returned cancel
// tears down every descendant subscription and is idempotent.
//
// ctx bounds only the initial enumeration reads, not the life of the watch.
func (m *Manager) WatchGameActors(ctx context.Context, gameID string, fn func(GameActorEvent)) (func(), error) {
	w := &gameWatch{
		mgr:    m,
		gameID: gameID,
		fn:     fn,
		actors: make(map[string]*actorWatch),
	}

	rosterPath := store.FieldPath(model.KindGame, gameID, "actors_ref")
	rosterCancel, err := m.Subscribe(rosterPath, func(v any) {
		w.syncRoster(v)
	})
	if err != nil {
		return nil, err
	}

	// Seed from the current membership; a game with no roster yet is fine.
	err = m.store.SubscribeSet(ctx, rosterPath, func(childID string, value any) {
		if value == false || value == nil {
			return
		}
		w.addActor(ctx, childID)
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		rosterCancel()
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			rosterCancel()
			w.close()
		})
	}, nil
}

// syncRoster reconciles the per-actor watches against a fresh actors_ref
// value.
func (w *gameWatch) syncRoster(v any) {
	members, _ := v.(map[string]any)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	var gone []*actorWatch
	var added []string
	for id := range members {
		mv := members[id]
		if mv == false || mv == nil {
			continue
		}
		if _, ok := w.actors[id]; !ok {
			added = append(added, id)
		}
	}
	for id, aw := range w.actors {
		mv, ok := members[id]
		if !ok || mv == false || mv == nil {
			gone = append(gone, aw)
			delete(w.actors, id)
		}
	}
	w.mu.Unlock()

	for _, aw := range gone {
		aw.cancel()
		if aw.cardCancel != nil {
			aw.cardCancel()
		}
	}
	for _, id := range added {
		w.addActor(context.Background(), id)
	}
}

// addActor opens the watch for one roster member and delivers its current
// state when readable.
func (w *gameWatch) addActor(ctx context.Context, actorID string) {
	cancel, err := w.mgr.Subscribe(store.NodePath(model.KindActor, actorID), func(v any) {
		w.actorChanged(actorID, v)
	})
	if err != nil {
		w.mgr.log.Warn("actor watch failed",
			slog.String("game_id", w.gameID),
			slog.String("actor_id", actorID),
			slog.String("error", err.Error()))
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		cancel()
		return
	}
	if _, dup := w.actors[actorID]; dup {
		w.mu.Unlock()
		cancel()
		return
	}
	w.actors[actorID] = &actorWatch{cancel: cancel}
	w.mu.Unlock()

	if v, err := w.mgr.store.Read(ctx, store.NodePath(model.KindActor, actorID)); err == nil {
		w.actorChanged(actorID, v)
	} else {
		w.fn(GameActorEvent{ActorID: actorID})
	}
}

// actorChanged handles a fresh actor value: re-point the card watch when the
// held card changed, then notify.
func (w *gameWatch) actorChanged(actorID string, v any) {
	var actor *model.Actor
	if v != nil {
		decoded := &model.Actor{}
		if err := store.Decode(v, decoded); err == nil {
			actor = decoded
			if w.mgr.cache != nil {
				w.mgr.cache.Put(model.KindActor, actorID, decoded)
			}
		}
	}

	cardID := ""
	if actor != nil {
		cardID = actor.CardIn(w.gameID)
	}
	w.setCard(actorID, cardID)

	var card *model.Card
	if cardID != "" && w.mgr.cache != nil {
		card, _ = w.mgr.cache.Card(cardID)
	}
	w.fn(GameActorEvent{ActorID: actorID, Actor: actor, Card: card})
}

// setCard re-points one actor's card subscription. The old subscription is
// closed before the new one opens so two card watches never overlap.
func (w *gameWatch) setCard(actorID, cardID string) {
	w.mu.Lock()
	aw, ok := w.actors[actorID]
	if !ok || w.closed || aw.cardID == cardID {
		w.mu.Unlock()
		return
	}
	oldCancel := aw.cardCancel
	aw.cardID = cardID
	aw.cardCancel = nil
	w.mu.Unlock()

	if oldCancel != nil {
		oldCancel()
	}
	if cardID == "" {
		return
	}

	cancel, err := w.mgr.Subscribe(store.NodePath(model.KindCard, cardID), func(v any) {
		w.cardChanged(actorID, cardID, v)
	})
	if err != nil {
		w.mgr.log.Warn("card watch failed",
			slog.String("card_id", cardID),
			slog.String("error", err.Error()))
		return
	}

	w.mu.Lock()
	aw, ok = w.actors[actorID]
	if !ok || w.closed || aw.cardID != cardID {
		w.mu.Unlock()
		cancel()
		return
	}
	aw.cardCancel = cancel
	w.mu.Unlock()

	// Deliver the card's current state so the caller need not wait for its
	// next change.
	if v, err := w.mgr.store.Read(context.Background(), store.NodePath(model.KindCard, cardID)); err == nil {
		w.cardChanged(actorID, cardID, v)
	}
}

func (w *gameWatch) cardChanged(actorID, cardID string, v any) {
	w.mu.Lock()
	aw, ok := w.actors[actorID]
	stale := !ok || aw.cardID != cardID
	w.mu.Unlock()
	if stale {
		return
	}

	var card *model.Card
	if v != nil {
		decoded := &model.Card{}
		if err := store.Decode(v, decoded); err == nil {
			card = decoded
			if w.mgr.cache != nil {
				w.mgr.cache.Put(model.KindCard, cardID, decoded)
			}
		}
	}

	var actor *model.Actor
	if w.mgr.cache != nil {
		actor, _ = w.mgr.cache.Actor(actorID)
	}
	w.fn(GameActorEvent{ActorID: actorID, Actor: actor, Card: card})
}

// close tears down every per-actor watch.
func (w *gameWatch) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	actors := w.actors
	w.actors = nil
	w.mu.Unlock()

	for _, aw := range actors {
		aw.cancel()
		if aw.cardCancel != nil {
			aw.cardCancel()
		}
	}
}
