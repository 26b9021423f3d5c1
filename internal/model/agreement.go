package model

import "time"

// AgreementStatus represents the lifecycle stage of an agreement. Transitions
// are unidirectional: Proposed -> Accepted or Rejected -> Completed. There
// are no back-transitions.
type AgreementStatus string

const (
	AgreementStatusProposed  AgreementStatus = "proposed"
	AgreementStatusAccepted  AgreementStatus = "accepted"
	AgreementStatusRejected  AgreementStatus = "rejected"
	AgreementStatusCompleted AgreementStatus = "completed"
)

// IsValid reports whether the status is a known agreement status.
func (s AgreementStatus) IsValid() bool {
	switch s {
	case AgreementStatusProposed, AgreementStatusAccepted,
		AgreementStatusRejected, AgreementStatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether next is a legal transition from s.
func (s AgreementStatus) CanTransitionTo(next AgreementStatus) bool {
	switch s {
	case AgreementStatusProposed:
		return next == AgreementStatusAccepted || next == AgreementStatusRejected
	case AgreementStatusAccepted, AgreementStatusRejected:
		return next == AgreementStatusCompleted
	default:
		return false
	}
}

// PartyVote is one party's stance on an agreement. Votes are tracked per
// party independently of status; the policy that flips status from votes
// belongs to a calling collaborator, not this layer.
type PartyVote string

const (
	PartyVotePending PartyVote = "pending"
	PartyVoteAccept  PartyVote = "accept"
	PartyVoteReject  PartyVote = "reject"
)

// Party is one actor's terms within an agreement.
type Party struct {
	CardRef    string    `json:"card_ref,omitempty"`
	Obligation string    `json:"obligation,omitempty"`
	Benefit    string    `json:"benefit,omitempty"`
	Vote       PartyVote `json:"vote,omitempty"`
}

// Agreement is a multi-party pact between actors within a single game.
type Agreement struct {
	ID         string           `json:"id"`
	GameRef    string           `json:"game_ref"`
	CreatorRef string           `json:"creator_ref"`
	Title      string           `json:"title,omitempty"`
	Status     AgreementStatus  `json:"status"`
	Parties    map[string]Party `json:"parties,omitempty"` // actor id -> terms
	CardsRef   RefSet           `json:"cards_ref,omitempty"`
	CreatedOn  time.Time        `json:"created_on"`
	UpdatedOn  time.Time        `json:"updated_on"`
}

// PartyActorIDs returns the actor ids party to the agreement, unordered.
func (a *Agreement) PartyActorIDs() []string {
	out := make([]string, 0, len(a.Parties))
	for actorID := range a.Parties {
		out = append(out, actorID)
	}
	return out
}
