package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgreementStatus_ForwardTransitions(t *testing.T) {
	t.Parallel()

	assert.True(t, AgreementStatusProposed.CanTransitionTo(AgreementStatusAccepted))
	assert.True(t, AgreementStatusProposed.CanTransitionTo(AgreementStatusRejected))
	assert.True(t, AgreementStatusAccepted.CanTransitionTo(AgreementStatusCompleted))
	assert.True(t, AgreementStatusRejected.CanTransitionTo(AgreementStatusCompleted))
}

func TestAgreementStatus_NoBackTransitions(t *testing.T) {
	t.Parallel()

	assert.False(t, AgreementStatusAccepted.CanTransitionTo(AgreementStatusProposed))
	assert.False(t, AgreementStatusRejected.CanTransitionTo(AgreementStatusAccepted))
	assert.False(t, AgreementStatusCompleted.CanTransitionTo(AgreementStatusProposed))
	assert.False(t, AgreementStatusCompleted.CanTransitionTo(AgreementStatusAccepted))
	assert.False(t, AgreementStatusProposed.CanTransitionTo(AgreementStatusCompleted))
	assert.False(t, AgreementStatusProposed.CanTransitionTo(AgreementStatusProposed))
}

func TestGame_IsFull(t *testing.T) {
	t.Parallel()

	g := &Game{MaxPlayers: 2, Players: NewRefSet("u1")}
	assert.False(t, g.IsFull())

	g.Players.Add("u2")
	assert.True(t, g.IsFull())

	unlimited := &Game{Players: NewRefSet("u1", "u2", "u3")}
	assert.False(t, unlimited.IsFull())
}

func TestKind_Collection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "games", KindGame.Collection())
	assert.Equal(t, "capabilities", KindCapability.Collection())
	for _, k := range Kinds() {
		assert.True(t, k.IsValid())
		assert.NotEmpty(t, k.Collection())
	}
	assert.False(t, Kind("nope").IsValid())
}
