package service

import (
	"context"
	"time"

	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/internal/relation"
	"github.com/forgeboard/gamegraph/pkg/ids"
)

// CardService owns cards and their value/capability vocabularies.
type CardService struct {
	deps Deps
}

// NewCardService creates a card service.
func NewCardService(deps Deps) *CardService {
	return &CardService{deps: deps}
}

// Get resolves a card, cache-first.
func (s *CardService) Get(ctx context.Context, id string) (*model.Card, bool) {
	return fetch[model.Card](ctx, s.deps, model.KindCard, id)
}

// Create builds a new card.
func (s *CardService) Create(ctx context.Context, creatorID, name, description string) *model.Card {
	if _, ok := fetch[model.User](ctx, s.deps, model.KindUser, creatorID); !ok {
		return nil
	}
	now := time.Now().UTC()
	c := &model.Card{
		ID:          ids.New("card"),
		Name:        name,
		Description: description,
		CreatorRef:  creatorID,
		CreatedOn:   now,
		UpdatedOn:   now,
	}
	s.deps.putNode(ctx, model.KindCard, c.ID, c)
	return c
}

// CreateValue builds a new value tag.
func (s *CardService) CreateValue(ctx context.Context, creatorID, name string) *model.Value {
	if _, ok := fetch[model.User](ctx, s.deps, model.KindUser, creatorID); !ok {
		return nil
	}
	now := time.Now().UTC()
	v := &model.Value{
		ID:         ids.New("value"),
		Name:       name,
		CreatorRef: creatorID,
		CreatedOn:  now,
		UpdatedOn:  now,
	}
	s.deps.putNode(ctx, model.KindValue, v.ID, v)
	return v
}

// CreateCapability builds a new capability tag.
func (s *CardService) CreateCapability(ctx context.Context, creatorID, name string) *model.Capability {
	if _, ok := fetch[model.User](ctx, s.deps, model.KindUser, creatorID); !ok {
		return nil
	}
	now := time.Now().UTC()
	c := &model.Capability{
		ID:         ids.New("capability"),
		Name:       name,
		CreatorRef: creatorID,
		CreatedOn:  now,
		UpdatedOn:  now,
	}
	s.deps.putNode(ctx, model.KindCapability, c.ID, c)
	return c
}

// AttachValue links a value tag to a card, both directions.
func (s *CardService) AttachValue(ctx context.Context, cardID, valueID string) bool {
	c, ok := s.Get(ctx, cardID)
	if !ok {
		return false
	}
	v, ok := fetch[model.Value](ctx, s.deps, model.KindValue, valueID)
	if !ok {
		return false
	}

	uc := *c
	uc.ValuesRef = c.ValuesRef.Clone()
	uc.ValuesRef.Add(valueID)
	s.deps.Cache.Put(model.KindCard, cardID, &uc)
	uv := *v
	uv.CardsRef = v.CardsRef.Clone()
	uv.CardsRef.Add(cardID)
	s.deps.Cache.Put(model.KindValue, valueID, &uv)

	s.deps.Rel.Link(ctx, relation.Between(
		relation.Ref{Kind: model.KindCard, ID: cardID}, "values_ref",
		relation.Ref{Kind: model.KindValue, ID: valueID}, "cards_ref",
	))
	return true
}

// AttachCapability links a capability tag to a card, both directions.
func (s *CardService) AttachCapability(ctx context.Context, cardID, capabilityID string) bool {
	c, ok := s.Get(ctx, cardID)
	if !ok {
		return false
	}
	cp, ok := fetch[model.Capability](ctx, s.deps, model.KindCapability, capabilityID)
	if !ok {
		return false
	}

	uc := *c
	uc.CapabilitiesRef = c.CapabilitiesRef.Clone()
	uc.CapabilitiesRef.Add(capabilityID)
	s.deps.Cache.Put(model.KindCard, cardID, &uc)
	ucp := *cp
	ucp.CardsRef = cp.CardsRef.Clone()
	ucp.CardsRef.Add(cardID)
	s.deps.Cache.Put(model.KindCapability, capabilityID, &ucp)

	s.deps.Rel.Link(ctx, relation.Between(
		relation.Ref{Kind: model.KindCard, ID: cardID}, "capabilities_ref",
		relation.Ref{Kind: model.KindCapability, ID: capabilityID}, "cards_ref",
	))
	return true
}
