package model

import "time"

// GameStatus represents the lifecycle stage of a game.
type GameStatus string

const (
	GameStatusPending   GameStatus = "pending"   // Created, waiting for players
	GameStatusActive    GameStatus = "active"    // In play
	GameStatusCompleted GameStatus = "completed" // Finished normally
	GameStatusAbandoned GameStatus = "abandoned" // Torn down before completion
)

// IsValid reports whether the status is a known game status.
func (s GameStatus) IsValid() bool {
	switch s {
	case GameStatusPending, GameStatusActive, GameStatusCompleted, GameStatusAbandoned:
		return true
	default:
		return false
	}
}

// Game represents one running session of play.
//
// Players is the set of participating user ids. PlayerActorMap tracks which
// actor each player controls; a player present in Players but absent from the
// map has not picked an actor yet. The three facts "game.actors_ref has A",
// "game.player_actor_map[u] == A", and "A.cards_by_game[g] set" must agree
// once the store converges, though replication can leave them transiently
// inconsistent.
type Game struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Status         GameStatus        `json:"status"`
	CreatorRef     string            `json:"creator_ref"`
	DeckRef        string            `json:"deck_ref,omitempty"`
	MaxPlayers     int               `json:"max_players,omitempty"`
	Players        RefSet            `json:"players,omitempty"`
	PlayerActorMap map[string]string `json:"player_actor_map,omitempty"` // user id -> actor id
	ActorsRef      RefSet            `json:"actors_ref,omitempty"`
	AgreementsRef  RefSet            `json:"agreements_ref,omitempty"`
	ChatRoomsRef   RefSet            `json:"chat_rooms_ref,omitempty"`
	CreatedOn      time.Time         `json:"created_on"`
	UpdatedOn      time.Time         `json:"updated_on"`
}

// IsFull reports whether the game has reached its player capacity.
// MaxPlayers <= 0 means unlimited.
func (g *Game) IsFull() bool {
	return g.MaxPlayers > 0 && g.Players.Len() >= g.MaxPlayers
}

// ActorFor returns the actor id assigned to a player, or "" when the player
// has no actor yet.
func (g *Game) ActorFor(userID string) string {
	return g.PlayerActorMap[userID]
}

// NodePosition is a per-(game, node) 2D coordinate used only for layout.
// It is addressed by a composite id so positions replicate independently
// of the nodes they describe.
type NodePosition struct {
	ID     string  `json:"id"`
	GameID string  `json:"game_id"`
	NodeID string  `json:"node_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// PositionID builds the composite id for a node's position within a game.
func PositionID(gameID, nodeID string) string {
	return gameID + ":" + nodeID
}
