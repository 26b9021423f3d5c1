package service

import (
	"context"
	"time"

	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/internal/relation"
	"github.com/forgeboard/gamegraph/pkg/ids"
)

// DeckService owns deck lifecycle and deck <-> card membership.
type DeckService struct {
	deps Deps
}

// NewDeckService creates a deck service.
func NewDeckService(deps Deps) *DeckService {
	return &DeckService{deps: deps}
}

// Get resolves a deck, cache-first.
func (s *DeckService) Get(ctx context.Context, id string) (*model.Deck, bool) {
	return fetch[model.Deck](ctx, s.deps, model.KindDeck, id)
}

// Create builds a new deck.
func (s *DeckService) Create(ctx context.Context, creatorID, name, visibility string) *model.Deck {
	if _, ok := fetch[model.User](ctx, s.deps, model.KindUser, creatorID); !ok {
		return nil
	}
	if visibility != model.DeckVisibilityPublic {
		visibility = model.DeckVisibilityPrivate
	}
	now := time.Now().UTC()
	d := &model.Deck{
		ID:         ids.New("deck"),
		Name:       name,
		CreatorRef: creatorID,
		Visibility: visibility,
		CreatedOn:  now,
		UpdatedOn:  now,
	}
	s.deps.putNode(ctx, model.KindDeck, d.ID, d)
	return d
}

// AddCard links a card into the deck, both directions.
func (s *DeckService) AddCard(ctx context.Context, deckID, cardID string) bool {
	d, ok := s.Get(ctx, deckID)
	if !ok {
		return false
	}
	c, ok := fetch[model.Card](ctx, s.deps, model.KindCard, cardID)
	if !ok {
		return false
	}

	ud := *d
	ud.CardsRef = d.CardsRef.Clone()
	ud.CardsRef.Add(cardID)
	s.deps.Cache.Put(model.KindDeck, deckID, &ud)
	uc := *c
	uc.DecksRef = c.DecksRef.Clone()
	uc.DecksRef.Add(deckID)
	s.deps.Cache.Put(model.KindCard, cardID, &uc)

	s.deps.Rel.Link(ctx, deckCardEdge(deckID, cardID))
	return true
}

// RemoveCard breaks the deck <-> card edge. Sibling cards are untouched.
func (s *DeckService) RemoveCard(ctx context.Context, deckID, cardID string) bool {
	d, ok := s.Get(ctx, deckID)
	if !ok || !d.CardsRef.Has(cardID) {
		return false
	}

	ud := *d
	ud.CardsRef = d.CardsRef.Clone()
	ud.CardsRef.Remove(cardID)
	s.deps.Cache.Put(model.KindDeck, deckID, &ud)
	if c, ok := fetch[model.Card](ctx, s.deps, model.KindCard, cardID); ok {
		uc := *c
		uc.DecksRef = c.DecksRef.Clone()
		uc.DecksRef.Remove(deckID)
		s.deps.Cache.Put(model.KindCard, cardID, &uc)
	}

	s.deps.Rel.Unlink(ctx, deckCardEdge(deckID, cardID))
	return true
}

// SetVisibility flips a deck between public and private.
func (s *DeckService) SetVisibility(ctx context.Context, deckID, visibility string) bool {
	if visibility != model.DeckVisibilityPublic && visibility != model.DeckVisibilityPrivate {
		return false
	}
	d, ok := s.Get(ctx, deckID)
	if !ok {
		return false
	}
	updated := *d
	updated.Visibility = visibility
	updated.UpdatedOn = time.Now().UTC()
	s.deps.Cache.Put(model.KindDeck, deckID, &updated)
	s.deps.putField(ctx, model.KindDeck, deckID, "visibility", visibility)
	return true
}

// deckCardEdge is the deck.cards_ref <-> card.decks_ref edge.
func deckCardEdge(deckID, cardID string) relation.Relationship {
	return relation.Between(
		relation.Ref{Kind: model.KindDeck, ID: deckID}, "cards_ref",
		relation.Ref{Kind: model.KindCard, ID: cardID}, "decks_ref",
	)
}
