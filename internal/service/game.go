package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/internal/relation"
	"github.com/forgeboard/gamegraph/internal/store"
	"github.com/forgeboard/gamegraph/pkg/ids"
)

// GameService owns the Game lifecycle: creation, membership, actor
// assignment and layout positions.
type GameService struct {
	deps Deps
}

// NewGameService creates a game service.
func NewGameService(deps Deps) *GameService {
	return &GameService{deps: deps}
}

// Get resolves a game, cache-first.
func (s *GameService) Get(ctx context.Context, id string) (*model.Game, bool) {
	return fetch[model.Game](ctx, s.deps, model.KindGame, id)
}

// Create builds a new game owned by creatorID, who joins it immediately.
// deckID may be empty; when given, the deck must resolve. Returns nil when a
// referenced entity is missing.
func (s *GameService) Create(ctx context.Context, creatorID, name, deckID string, maxPlayers int) *model.Game {
	creator, ok := fetch[model.User](ctx, s.deps, model.KindUser, creatorID)
	if !ok {
		return nil
	}
	if deckID != "" {
		if _, ok := fetch[model.Deck](ctx, s.deps, model.KindDeck, deckID); !ok {
			return nil
		}
	}

	now := time.Now().UTC()
	g := &model.Game{
		ID:         ids.New("game"),
		Name:       name,
		Status:     model.GameStatusPending,
		CreatorRef: creatorID,
		DeckRef:    deckID,
		MaxPlayers: maxPlayers,
		Players:    model.NewRefSet(creatorID),
		CreatedOn:  now,
		UpdatedOn:  now,
	}
	s.deps.putNode(ctx, model.KindGame, g.ID, g)

	// The creator's membership edge: game.players <-> user.games_ref. The
	// forward side is already part of the node write; writing it again as an
	// edge is idempotent and keeps both sides on one code path.
	s.deps.Rel.Link(ctx, playerEdge(g.ID, creatorID))
	s.cacheUserGame(creator, g.ID, true)

	s.deps.logger().Info("game created",
		slog.String("game_id", g.ID),
		slog.String("creator", creatorID))
	return g
}

// Join adds a user to the game. Returns false when either side is missing or
// the game is full; joining a game twice is a no-op reported as success.
func (s *GameService) Join(ctx context.Context, gameID, userID string) bool {
	g, ok := s.Get(ctx, gameID)
	if !ok {
		return false
	}
	u, ok := fetch[model.User](ctx, s.deps, model.KindUser, userID)
	if !ok {
		return false
	}
	if g.Players.Has(userID) {
		return true
	}
	if g.IsFull() {
		return false
	}

	updated := *g
	updated.Players = g.Players.Clone()
	updated.Players.Add(userID)
	updated.UpdatedOn = time.Now().UTC()
	s.deps.Cache.Put(model.KindGame, gameID, &updated)

	s.deps.Rel.Link(ctx, playerEdge(gameID, userID))
	s.cacheUserGame(u, gameID, true)
	return true
}

// Leave removes a user from the game, clearing their actor assignment and
// releasing that actor's card for this game so it becomes available again.
func (s *GameService) Leave(ctx context.Context, gameID, userID string) bool {
	g, ok := s.Get(ctx, gameID)
	if !ok {
		return false
	}
	if !g.Players.Has(userID) {
		return false
	}

	actorID := g.ActorFor(userID)

	updated := *g
	updated.Players = g.Players.Clone()
	updated.Players.Remove(userID)
	if g.PlayerActorMap != nil {
		updated.PlayerActorMap = make(map[string]string, len(g.PlayerActorMap))
		for k, v := range g.PlayerActorMap {
			if k != userID {
				updated.PlayerActorMap[k] = v
			}
		}
	}
	if actorID != "" {
		updated.ActorsRef = g.ActorsRef.Clone()
		updated.ActorsRef.Remove(actorID)
	}
	updated.UpdatedOn = time.Now().UTC()
	s.deps.Cache.Put(model.KindGame, gameID, &updated)

	s.deps.Rel.Unlink(ctx, playerEdge(gameID, userID))
	s.deps.putChild(ctx, model.KindGame, gameID, "player_actor_map", userID, nil)

	if u, ok := fetch[model.User](ctx, s.deps, model.KindUser, userID); ok {
		s.cacheUserGame(u, gameID, false)
	}

	if actorID != "" {
		s.deps.Rel.Unlink(ctx, actorEdge(gameID, actorID))
		if a, ok := fetch[model.Actor](ctx, s.deps, model.KindActor, actorID); ok {
			ua := *a
			ua.GamesRef = a.GamesRef.Clone()
			ua.GamesRef.Remove(gameID)
			if a.CardsByGame != nil {
				ua.CardsByGame = make(map[string]string, len(a.CardsByGame))
				for k, v := range a.CardsByGame {
					if k != gameID {
						ua.CardsByGame[k] = v
					}
				}
			}
			ua.UpdatedOn = time.Now().UTC()
			s.deps.Cache.Put(model.KindActor, actorID, &ua)
		}
		s.deps.putChild(ctx, model.KindActor, actorID, "cards_by_game", gameID, nil)
	}
	return true
}

// AssignActor binds a player's actor within the game: player_actor_map plus
// the game <-> actor edges, keeping the three facts of the assignment
// invariant in agreement.
func (s *GameService) AssignActor(ctx context.Context, gameID, userID, actorID string) bool {
	g, ok := s.Get(ctx, gameID)
	if !ok || !g.Players.Has(userID) {
		return false
	}
	a, ok := fetch[model.Actor](ctx, s.deps, model.KindActor, actorID)
	if !ok || a.UserRef != userID {
		return false
	}

	updated := *g
	updated.PlayerActorMap = make(map[string]string, len(g.PlayerActorMap)+1)
	for k, v := range g.PlayerActorMap {
		updated.PlayerActorMap[k] = v
	}
	updated.PlayerActorMap[userID] = actorID
	updated.ActorsRef = g.ActorsRef.Clone()
	updated.ActorsRef.Add(actorID)
	updated.UpdatedOn = time.Now().UTC()
	s.deps.Cache.Put(model.KindGame, gameID, &updated)

	ua := *a
	ua.GamesRef = a.GamesRef.Clone()
	ua.GamesRef.Add(gameID)
	ua.UpdatedOn = updated.UpdatedOn
	s.deps.Cache.Put(model.KindActor, actorID, &ua)

	s.deps.putChild(ctx, model.KindGame, gameID, "player_actor_map", userID, actorID)
	s.deps.Rel.Link(ctx, actorEdge(gameID, actorID))
	return true
}

// SetStatus updates the game status. No transition rules apply to games;
// any valid status may follow any other.
func (s *GameService) SetStatus(ctx context.Context, gameID string, status model.GameStatus) bool {
	if !status.IsValid() {
		return false
	}
	g, ok := s.Get(ctx, gameID)
	if !ok {
		return false
	}
	updated := *g
	updated.Status = status
	updated.UpdatedOn = time.Now().UTC()
	s.deps.Cache.Put(model.KindGame, gameID, &updated)
	s.deps.putField(ctx, model.KindGame, gameID, "status", string(status))
	return true
}

// Delete tombstones the game node. The id is never reused.
func (s *GameService) Delete(ctx context.Context, gameID string) bool {
	if _, ok := s.Get(ctx, gameID); !ok {
		return false
	}
	s.deps.Cache.Delete(model.KindGame, gameID)
	s.deps.Rec.Put(ctx, store.NodePath(model.KindGame, gameID), nil)
	return true
}

// SetNodePosition stores the layout coordinate of a node within a game.
func (s *GameService) SetNodePosition(ctx context.Context, gameID, nodeID string, x, y float64) *model.NodePosition {
	if !ids.Valid(gameID) || !ids.Valid(nodeID) {
		return nil
	}
	p := &model.NodePosition{
		ID:     model.PositionID(gameID, nodeID),
		GameID: gameID,
		NodeID: nodeID,
		X:      x,
		Y:      y,
	}
	s.deps.putNode(ctx, model.KindPosition, p.ID, p)
	return p
}

// NodePosition reads back a stored layout coordinate.
func (s *GameService) NodePosition(ctx context.Context, gameID, nodeID string) (*model.NodePosition, bool) {
	return fetch[model.NodePosition](ctx, s.deps, model.KindPosition, model.PositionID(gameID, nodeID))
}

// cacheUserGame refreshes the cached user's games_ref optimistically.
func (s *GameService) cacheUserGame(u *model.User, gameID string, member bool) {
	updated := *u
	updated.GamesRef = u.GamesRef.Clone()
	if member {
		updated.GamesRef.Add(gameID)
	} else {
		updated.GamesRef.Remove(gameID)
	}
	s.deps.Cache.Put(model.KindUser, u.ID, &updated)
}

// playerEdge is the game.players <-> user.games_ref membership edge.
func playerEdge(gameID, userID string) relation.Relationship {
	return relation.Between(
		relation.Ref{Kind: model.KindGame, ID: gameID}, "players",
		relation.Ref{Kind: model.KindUser, ID: userID}, "games_ref",
	)
}

// actorEdge is the game.actors_ref <-> actor.games_ref edge.
func actorEdge(gameID, actorID string) relation.Relationship {
	return relation.Between(
		relation.Ref{Kind: model.KindGame, ID: gameID}, "actors_ref",
		relation.Ref{Kind: model.KindActor, ID: actorID}, "games_ref",
	)
}
