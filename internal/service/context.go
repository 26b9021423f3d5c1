package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/forgeboard/gamegraph/internal/model"
)

// ContextService is the read-only composer that assembles the denormalized
// view of one game: deck and card pool, actors with their assigned cards,
// and agreements with resolved parties.
//
// All independent fetches within a level run concurrently, so the overall
// latency is bounded by the slowest hop rather than the sum of all hops.
// The aggregation degrades instead of failing: only a missing root game
// aborts it.
type ContextService struct {
	deps Deps
}

// NewContextService creates an aggregation service.
func NewContextService(deps Deps) *ContextService {
	return &ContextService{deps: deps}
}

// GetGameContext assembles the full view of a game. Returns (nil, false)
// only when the game itself cannot be found.
func (s *ContextService) GetGameContext(ctx context.Context, gameID string) (*model.GameContext, bool) {
	g, ok := fetch[model.Game](ctx, s.deps, model.KindGame, gameID)
	if !ok {
		return nil, false
	}

	out := &model.GameContext{Game: g}
	actorIDs := g.ActorsRef.IDs()
	agreementIDs := g.AgreementsRef.IDs()
	actors := make([]*model.Actor, len(actorIDs))
	agreements := make([]*model.Agreement, len(agreementIDs))

	var grp errgroup.Group
	grp.Go(func() error {
		if g.DeckRef == "" {
			return nil
		}
		// A missing deck degrades to an empty card pool.
		if d, ok := fetch[model.Deck](ctx, s.deps, model.KindDeck, g.DeckRef); ok {
			out.Deck = d
		}
		return nil
	})
	for i, id := range actorIDs {
		grp.Go(func() error {
			if a, ok := fetch[model.Actor](ctx, s.deps, model.KindActor, id); ok {
				actors[i] = a
			}
			return nil
		})
	}
	for i, id := range agreementIDs {
		grp.Go(func() error {
			if ag, ok := fetch[model.Agreement](ctx, s.deps, model.KindAgreement, id); ok && ag.GameRef == gameID {
				agreements[i] = ag
			}
			return nil
		})
	}
	_ = grp.Wait()

	// Second hop: each actor's assigned card for this game, in parallel.
	cards := make([]*model.Card, len(actors))
	var cardGrp errgroup.Group
	for i, a := range actors {
		if a == nil {
			continue
		}
		cardID := a.CardIn(gameID)
		if cardID == "" {
			continue
		}
		cardGrp.Go(func() error {
			if c, ok := fetch[model.Card](ctx, s.deps, model.KindCard, cardID); ok {
				cards[i] = c
			}
			return nil
		})
	}
	_ = cardGrp.Wait()

	used := model.RefSet{}
	for i, a := range actors {
		if a == nil {
			continue
		}
		ac := model.ActorContext{Actor: a, Card: cards[i]}
		if cardID := a.CardIn(gameID); cardID != "" {
			used.Add(cardID)
		}
		out.Actors = append(out.Actors, ac)
	}

	deckCards := model.RefSet{}
	if out.Deck != nil {
		deckCards = out.Deck.CardsRef
	}
	out.TotalCards = deckCards.Len()
	out.UsedCards = used.Len()
	out.AvailableCards = deckCards.Diff(used).IDs()

	for _, ag := range agreements {
		if ag == nil {
			continue
		}
		out.Agreements = append(out.Agreements, s.resolveAgreement(ctx, ag))
	}
	return out, true
}

// AvailableCards returns the deck cards not currently assigned to any actor
// in the game. Nil when the game cannot be found.
func (s *ContextService) AvailableCards(ctx context.Context, gameID string) []string {
	gc, ok := s.GetGameContext(ctx, gameID)
	if !ok {
		return nil
	}
	return gc.AvailableCards
}

// resolveAgreement expands an agreement's parties to actor/card name pairs.
// Parties whose actor or card cannot be resolved are dropped from the view.
func (s *ContextService) resolveAgreement(ctx context.Context, ag *model.Agreement) model.AgreementView {
	view := model.AgreementView{Agreement: ag}
	actorIDs := ag.PartyActorIDs()
	parties := make([]*model.PartyView, len(actorIDs))

	var grp errgroup.Group
	for i, actorID := range actorIDs {
		party := ag.Parties[actorID]
		grp.Go(func() error {
			a, ok := fetch[model.Actor](ctx, s.deps, model.KindActor, actorID)
			if !ok {
				return nil
			}
			if party.CardRef == "" {
				return nil
			}
			c, ok := fetch[model.Card](ctx, s.deps, model.KindCard, party.CardRef)
			if !ok {
				return nil
			}
			parties[i] = &model.PartyView{
				ActorID:    actorID,
				ActorName:  a.Name,
				CardID:     c.ID,
				CardName:   c.Name,
				Obligation: party.Obligation,
				Benefit:    party.Benefit,
				Vote:       party.Vote,
			}
			return nil
		})
	}
	_ = grp.Wait()

	for _, p := range parties {
		if p != nil {
			view.Parties = append(view.Parties, *p)
		}
	}
	return view
}
