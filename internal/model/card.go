package model

import "time"

// Card is a playable card. Its ref sets are all bidirectional: a card listed
// in a deck's cards_ref lists that deck in its own decks_ref, and so on.
type Card struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Image           string    `json:"image,omitempty"`
	CreatorRef      string    `json:"creator_ref"`
	ValuesRef       RefSet    `json:"values_ref,omitempty"`
	CapabilitiesRef RefSet    `json:"capabilities_ref,omitempty"`
	DecksRef        RefSet    `json:"decks_ref,omitempty"`
	AgreementsRef   RefSet    `json:"agreements_ref,omitempty"`
	CreatedOn       time.Time `json:"created_on"`
	UpdatedOn       time.Time `json:"updated_on"`
}
