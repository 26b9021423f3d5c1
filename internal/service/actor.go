package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/pkg/ids"
)

// ActorService owns actor lifecycle and per-game card assignments.
type ActorService struct {
	deps Deps
}

// NewActorService creates an actor service.
func NewActorService(deps Deps) *ActorService {
	return &ActorService{deps: deps}
}

// Get resolves an actor, cache-first.
func (s *ActorService) Get(ctx context.Context, id string) (*model.Actor, bool) {
	return fetch[model.Actor](ctx, s.deps, model.KindActor, id)
}

// Create builds a new actor owned by userID.
func (s *ActorService) Create(ctx context.Context, userID, name string) *model.Actor {
	if _, ok := fetch[model.User](ctx, s.deps, model.KindUser, userID); !ok {
		return nil
	}
	now := time.Now().UTC()
	a := &model.Actor{
		ID:        ids.New("actor"),
		Name:      name,
		UserRef:   userID,
		Status:    model.ActorStatusActive,
		CreatedOn: now,
		UpdatedOn: now,
	}
	s.deps.putNode(ctx, model.KindActor, a.ID, a)
	s.deps.logger().Info("actor created",
		slog.String("actor_id", a.ID),
		slog.String("user_id", userID))
	return a
}

// AssignCard records the card an actor holds within a game. The actor must
// already be part of the game (actors_ref) per the assignment invariant; the
// card must resolve.
func (s *ActorService) AssignCard(ctx context.Context, actorID, gameID, cardID string) bool {
	a, ok := s.Get(ctx, actorID)
	if !ok {
		return false
	}
	g, ok := fetch[model.Game](ctx, s.deps, model.KindGame, gameID)
	if !ok || !g.ActorsRef.Has(actorID) {
		return false
	}
	if _, ok := fetch[model.Card](ctx, s.deps, model.KindCard, cardID); !ok {
		return false
	}

	updated := *a
	updated.CardsByGame = make(map[string]string, len(a.CardsByGame)+1)
	for k, v := range a.CardsByGame {
		updated.CardsByGame[k] = v
	}
	updated.CardsByGame[gameID] = cardID
	updated.UpdatedOn = time.Now().UTC()
	s.deps.Cache.Put(model.KindActor, actorID, &updated)

	s.deps.putChild(ctx, model.KindActor, actorID, "cards_by_game", gameID, cardID)
	return true
}

// ReleaseCard clears the actor's card for a game, returning the card to the
// game's available pool.
func (s *ActorService) ReleaseCard(ctx context.Context, actorID, gameID string) bool {
	a, ok := s.Get(ctx, actorID)
	if !ok {
		return false
	}
	if a.CardIn(gameID) == "" {
		return false
	}

	updated := *a
	updated.CardsByGame = make(map[string]string, len(a.CardsByGame))
	for k, v := range a.CardsByGame {
		if k != gameID {
			updated.CardsByGame[k] = v
		}
	}
	updated.UpdatedOn = time.Now().UTC()
	s.deps.Cache.Put(model.KindActor, actorID, &updated)

	s.deps.putChild(ctx, model.KindActor, actorID, "cards_by_game", gameID, nil)
	return true
}

// SetStatus flips an actor between active and inactive.
func (s *ActorService) SetStatus(ctx context.Context, actorID string, status model.ActorStatus) bool {
	if status != model.ActorStatusActive && status != model.ActorStatusInactive {
		return false
	}
	a, ok := s.Get(ctx, actorID)
	if !ok {
		return false
	}
	updated := *a
	updated.Status = status
	updated.UpdatedOn = time.Now().UTC()
	s.deps.Cache.Put(model.KindActor, actorID, &updated)
	s.deps.putField(ctx, model.KindActor, actorID, "status", string(status))
	return true
}
