package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/internal/store"
)

func TestDeckCreate_VisibilityDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	deps, m := newTestEnv(t)
	seedUser(t, m, "u1")
	svc := NewDeckService(deps)

	d := svc.Create(ctx, "u1", "mine", "")
	require.NotNil(t, d)
	assert.Equal(t, model.DeckVisibilityPrivate, d.Visibility,
		"anything but public defaults to private")

	pub := svc.Create(ctx, "u1", "shared", model.DeckVisibilityPublic)
	require.NotNil(t, pub)
	assert.Equal(t, model.DeckVisibilityPublic, pub.Visibility)

	assert.Nil(t, svc.Create(ctx, "nobody", "x", ""))
}

func TestDeckAddRemoveCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	deps, m := newTestEnv(t)
	seedUser(t, m, "u1")
	decks := NewDeckService(deps)
	cards := NewCardService(deps)

	d := decks.Create(ctx, "u1", "d", "")
	c1 := cards.Create(ctx, "u1", "one", "")
	c2 := cards.Create(ctx, "u1", "two", "")
	require.NotNil(t, d)
	require.NotNil(t, c1)
	require.NotNil(t, c2)

	require.True(t, decks.AddCard(ctx, d.ID, c1.ID))
	require.True(t, decks.AddCard(ctx, d.ID, c2.ID))
	assert.False(t, decks.AddCard(ctx, d.ID, "card_missing"))

	// Both sides of the edge land in the store.
	v, err := m.Read(ctx, store.ChildPath(model.KindDeck, d.ID, "cards_ref", c1.ID))
	require.NoError(t, err)
	assert.Equal(t, true, v)
	v, err = m.Read(ctx, store.ChildPath(model.KindCard, c1.ID, "decks_ref", d.ID))
	require.NoError(t, err)
	assert.Equal(t, true, v)

	require.True(t, decks.RemoveCard(ctx, d.ID, c1.ID))
	notInStore(t, m, store.ChildPath(model.KindDeck, d.ID, "cards_ref", c1.ID))
	notInStore(t, m, store.ChildPath(model.KindCard, c1.ID, "decks_ref", d.ID))

	// Removal is surgical: the sibling card is untouched.
	v, err = m.Read(ctx, store.ChildPath(model.KindDeck, d.ID, "cards_ref", c2.ID))
	require.NoError(t, err)
	assert.Equal(t, true, v)

	cached, ok := deps.Cache.Deck(d.ID)
	require.True(t, ok)
	assert.False(t, cached.CardsRef.Has(c1.ID))
	assert.True(t, cached.CardsRef.Has(c2.ID))

	assert.False(t, decks.RemoveCard(ctx, d.ID, c1.ID), "already removed")
}

func TestDeckSetVisibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	deps, m := newTestEnv(t)
	seedUser(t, m, "u1")
	svc := NewDeckService(deps)

	d := svc.Create(ctx, "u1", "d", "")
	require.NotNil(t, d)
	assert.True(t, svc.SetVisibility(ctx, d.ID, model.DeckVisibilityPublic))
	assert.False(t, svc.SetVisibility(ctx, d.ID, "friends-only"))

	cached, ok := deps.Cache.Deck(d.ID)
	require.True(t, ok)
	assert.Equal(t, model.DeckVisibilityPublic, cached.Visibility)
}
