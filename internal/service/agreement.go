package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/internal/relation"
	"github.com/forgeboard/gamegraph/pkg/ids"
)

// AgreementService owns agreements: multi-party pacts between actors within
// a game. Status moves Proposed -> Accepted|Rejected -> Completed and only
// through UpdateStatus; per-party votes move independently of status.
type AgreementService struct {
	deps Deps
}

// NewAgreementService creates an agreement service.
func NewAgreementService(deps Deps) *AgreementService {
	return &AgreementService{deps: deps}
}

// Get resolves an agreement, cache-first.
func (s *AgreementService) Get(ctx context.Context, id string) (*model.Agreement, bool) {
	return fetch[model.Agreement](ctx, s.deps, model.KindAgreement, id)
}

// Create proposes an agreement between the given parties. Every party actor
// must resolve and be part of the game; party cards, when given, must
// resolve. Returns nil when any referenced entity is missing.
//
// Creation is a sequence of independent writes, not a transaction: a crash
// mid-way can leave a partially linked agreement, which readers tolerate.
func (s *AgreementService) Create(ctx context.Context, gameID, creatorID, title string, parties map[string]model.Party) *model.Agreement {
	g, ok := fetch[model.Game](ctx, s.deps, model.KindGame, gameID)
	if !ok {
		return nil
	}
	if _, ok := fetch[model.User](ctx, s.deps, model.KindUser, creatorID); !ok {
		return nil
	}
	if len(parties) == 0 {
		return nil
	}
	for actorID, p := range parties {
		a, ok := fetch[model.Actor](ctx, s.deps, model.KindActor, actorID)
		if !ok || !g.ActorsRef.Has(a.ID) {
			s.deps.logger().Debug("agreement party not in game",
				slog.String("game_id", gameID),
				slog.String("actor_id", actorID))
			return nil
		}
		if p.CardRef != "" {
			if _, ok := fetch[model.Card](ctx, s.deps, model.KindCard, p.CardRef); !ok {
				return nil
			}
		}
	}

	now := time.Now().UTC()
	ag := &model.Agreement{
		ID:         ids.New("agreement"),
		GameRef:    gameID,
		CreatorRef: creatorID,
		Title:      title,
		Status:     model.AgreementStatusProposed,
		Parties:    make(map[string]model.Party, len(parties)),
		CreatedOn:  now,
		UpdatedOn:  now,
	}
	for actorID, p := range parties {
		if p.Vote == "" {
			p.Vote = model.PartyVotePending
		}
		ag.Parties[actorID] = p
		if p.CardRef != "" {
			ag.CardsRef.Add(p.CardRef)
		}
	}

	s.deps.putNode(ctx, model.KindAgreement, ag.ID, ag)

	// game.agreements_ref is one-way: the agreement's game pointer is the
	// scalar game_ref already in the node.
	s.deps.Rel.Link(ctx, relation.OneWay(
		relation.Ref{Kind: model.KindGame, ID: gameID}, "agreements_ref",
		relation.Ref{Kind: model.KindAgreement, ID: ag.ID},
	))
	for actorID, p := range ag.Parties {
		s.deps.Rel.Link(ctx, relation.OneWay(
			relation.Ref{Kind: model.KindActor, ID: actorID}, "agreements_ref",
			relation.Ref{Kind: model.KindAgreement, ID: ag.ID},
		))
		if p.CardRef != "" {
			s.deps.Rel.Link(ctx, relation.Between(
				relation.Ref{Kind: model.KindAgreement, ID: ag.ID}, "cards_ref",
				relation.Ref{Kind: model.KindCard, ID: p.CardRef}, "agreements_ref",
			))
		}
	}

	ug := *g
	ug.AgreementsRef = g.AgreementsRef.Clone()
	ug.AgreementsRef.Add(ag.ID)
	s.deps.Cache.Put(model.KindGame, gameID, &ug)

	s.deps.logger().Info("agreement proposed",
		slog.String("agreement_id", ag.ID),
		slog.String("game_id", gameID),
		slog.Int("parties", len(ag.Parties)))
	return ag
}

// UpdateStatus advances the agreement status. Illegal transitions return
// false and write nothing.
func (s *AgreementService) UpdateStatus(ctx context.Context, agreementID string, status model.AgreementStatus) bool {
	if !status.IsValid() {
		return false
	}
	ag, ok := s.Get(ctx, agreementID)
	if !ok {
		return false
	}
	if !ag.Status.CanTransitionTo(status) {
		return false
	}

	updated := *ag
	updated.Status = status
	updated.UpdatedOn = time.Now().UTC()
	s.deps.Cache.Put(model.KindAgreement, agreementID, &updated)
	s.deps.putField(ctx, model.KindAgreement, agreementID, "status", string(status))
	return true
}

// SetVote records one party's vote. The vote never changes status here; the
// policy that flips status from votes belongs to the caller.
func (s *AgreementService) SetVote(ctx context.Context, agreementID, actorID string, vote model.PartyVote) bool {
	switch vote {
	case model.PartyVotePending, model.PartyVoteAccept, model.PartyVoteReject:
	default:
		return false
	}
	ag, ok := s.Get(ctx, agreementID)
	if !ok {
		return false
	}
	party, isParty := ag.Parties[actorID]
	if !isParty {
		return false
	}

	party.Vote = vote
	updated := *ag
	updated.Parties = make(map[string]model.Party, len(ag.Parties))
	for k, v := range ag.Parties {
		updated.Parties[k] = v
	}
	updated.Parties[actorID] = party
	updated.UpdatedOn = time.Now().UTC()
	s.deps.Cache.Put(model.KindAgreement, agreementID, &updated)

	s.deps.putChild(ctx, model.KindAgreement, agreementID, "parties", actorID, party)
	return true
}

// ForGame lists the game's agreements through its agreements_ref set.
func (s *AgreementService) ForGame(ctx context.Context, gameID string) []*model.Agreement {
	g, ok := fetch[model.Game](ctx, s.deps, model.KindGame, gameID)
	if !ok {
		return nil
	}
	var out []*model.Agreement
	for _, id := range g.AgreementsRef.IDs() {
		if ag, ok := s.Get(ctx, id); ok && ag.GameRef == gameID {
			out = append(out, ag)
		}
	}
	return out
}
