package model

import "time"

// Value is a descriptive tag in a many-to-many relationship with Card.
type Value struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatorRef string    `json:"creator_ref"`
	CardsRef   RefSet    `json:"cards_ref,omitempty"`
	CreatedOn  time.Time `json:"created_on"`
	UpdatedOn  time.Time `json:"updated_on"`
}

// Capability mirrors Value for what a card can do rather than what it stands
// for. Kept as a distinct kind so the two vocabularies replicate separately.
type Capability struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatorRef string    `json:"creator_ref"`
	CardsRef   RefSet    `json:"cards_ref,omitempty"`
	CreatedOn  time.Time `json:"created_on"`
	UpdatedOn  time.Time `json:"updated_on"`
}
