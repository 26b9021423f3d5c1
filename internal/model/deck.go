package model

import "time"

// DeckVisibility constants
const (
	DeckVisibilityPrivate = "private"
	DeckVisibilityPublic  = "public"
)

// Deck is a named collection of cards a game draws from.
type Deck struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatorRef string    `json:"creator_ref"`
	Visibility string    `json:"visibility"`
	CardsRef   RefSet    `json:"cards_ref,omitempty"`
	CreatedOn  time.Time `json:"created_on"`
	UpdatedOn  time.Time `json:"updated_on"`
}
