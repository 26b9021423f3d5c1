package model

import "time"

// ActorStatus represents an actor's lifecycle state.
type ActorStatus string

const (
	ActorStatusActive   ActorStatus = "active"
	ActorStatusInactive ActorStatus = "inactive"
)

// Actor is a player's in-game persona. One actor may take part in several
// games; CardsByGame records the card it holds in each.
type Actor struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	UserRef       string            `json:"user_ref"`
	Status        ActorStatus       `json:"status"`
	CardsByGame   map[string]string `json:"cards_by_game,omitempty"` // game id -> card id
	GamesRef      RefSet            `json:"games_ref,omitempty"`
	AgreementsRef RefSet            `json:"agreements_ref,omitempty"`
	CreatedOn     time.Time         `json:"created_on"`
	UpdatedOn     time.Time         `json:"updated_on"`
}

// CardIn returns the card this actor holds in the given game, or "" when no
// card is assigned there.
func (a *Actor) CardIn(gameID string) string {
	return a.CardsByGame[gameID]
}
