package model

// GameContext is the denormalized view of a single game assembled by the
// aggregation service. It is a point-in-time composition, not a live object:
// callers refresh it through re-aggregation or live subscriptions.
type GameContext struct {
	Game           *Game            `json:"game"`
	Deck           *Deck            `json:"deck,omitempty"`
	TotalCards     int              `json:"total_cards"`
	UsedCards      int              `json:"used_cards"`
	AvailableCards []string         `json:"available_cards"` // card ids, sorted
	Actors         []ActorContext   `json:"actors,omitempty"`
	Agreements     []AgreementView  `json:"agreements,omitempty"`
}

// ActorContext pairs an actor with the card it holds in the aggregated game.
// Card is nil when the actor has no assignment there or the card node could
// not be resolved.
type ActorContext struct {
	Actor *Actor `json:"actor"`
	Card  *Card  `json:"card,omitempty"`
}

// AgreementView is an agreement with each party resolved to display names.
type AgreementView struct {
	Agreement *Agreement  `json:"agreement"`
	Parties   []PartyView `json:"parties,omitempty"`
}

// PartyView resolves one agreement party down to its actor and card names.
// Parties whose card cannot be resolved are dropped from the view rather
// than rendered half-empty.
type PartyView struct {
	ActorID    string    `json:"actor_id"`
	ActorName  string    `json:"actor_name"`
	CardID     string    `json:"card_id"`
	CardName   string    `json:"card_name"`
	Obligation string    `json:"obligation,omitempty"`
	Benefit    string    `json:"benefit,omitempty"`
	Vote       PartyVote `json:"vote,omitempty"`
}
