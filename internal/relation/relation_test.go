package relation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/internal/reconcile"
	"github.com/forgeboard/gamegraph/internal/store"
)

func newTestManager(t *testing.T, m *store.MemoryStore) *Manager {
	t.Helper()
	rec := reconcile.New(m, reconcile.Options{
		AckTimeout:  10 * time.Millisecond,
		VerifyDelay: 10 * time.Millisecond,
	}, nil)
	t.Cleanup(rec.Close)
	return NewManager(rec, nil)
}

func settle(t *testing.T, tasks []*reconcile.Task) {
	t.Helper()
	for _, task := range tasks {
		select {
		case <-task.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("edge write did not settle")
		}
	}
}

func cardDeck(cardID, deckID string) Relationship {
	return Between(
		Ref{Kind: model.KindCard, ID: cardID}, "decks_ref",
		Ref{Kind: model.KindDeck, ID: deckID}, "cards_ref",
	)
}

func TestLink_WritesBothDirections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := store.NewMemoryStore()
	mgr := newTestManager(t, m)

	settle(t, mgr.Link(ctx, cardDeck("c1", "d1")))

	v, err := m.Read(ctx, "cards/c1/decks_ref/d1")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = m.Read(ctx, "decks/d1/cards_ref/c1")
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestLink_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := store.NewMemoryStore()
	mgr := newTestManager(t, m)

	settle(t, mgr.Link(ctx, cardDeck("c1", "d1")))
	once, err := m.Read(ctx, "decks/d1/cards_ref")
	require.NoError(t, err)

	settle(t, mgr.Link(ctx, cardDeck("c1", "d1")))
	twice, err := m.Read(ctx, "decks/d1/cards_ref")
	require.NoError(t, err)

	assert.Equal(t, once, twice, "linking twice must equal linking once")
}

func TestUnlink_RemovesOnlyTheEdge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := store.NewMemoryStore()
	mgr := newTestManager(t, m)

	settle(t, mgr.Link(ctx, cardDeck("c1", "d1")))
	settle(t, mgr.Link(ctx, cardDeck("c2", "d1")))
	settle(t, mgr.Unlink(ctx, cardDeck("c1", "d1")))

	_, err := m.Read(ctx, "decks/d1/cards_ref/c1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = m.Read(ctx, "cards/c1/decks_ref/d1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The sibling card survives.
	v, err := m.Read(ctx, "decks/d1/cards_ref/c2")
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestLink_OneWayWritesForwardOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := store.NewMemoryStore()
	mgr := newTestManager(t, m)

	rel := OneWay(
		Ref{Kind: model.KindAgreement, ID: "ag1"}, "cards_ref",
		Ref{Kind: model.KindCard, ID: "c1"},
	)
	settle(t, mgr.Link(ctx, rel))

	v, err := m.Read(ctx, "agreements/ag1/cards_ref/c1")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = m.Read(ctx, "cards/c1")
	assert.ErrorIs(t, err, store.ErrNotFound, "no reverse write for one-way edges")
}

func TestLink_MalformedRelationshipIsSkipped(t *testing.T) {
	t.Parallel()
	m := store.NewMemoryStore()
	mgr := newTestManager(t, m)

	tasks := mgr.Link(context.Background(), Relationship{
		From: Ref{Kind: model.KindCard}, FromField: "decks_ref",
		To: Ref{Kind: model.KindDeck, ID: "d1"},
	})
	assert.Nil(t, tasks)
	assert.Equal(t, 0, m.Writes())
}

func TestLink_SurvivesDroppedWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := store.NewMemoryStore()
	mgr := newTestManager(t, m)

	m.DropWrites(1)
	settle(t, mgr.Link(ctx, cardDeck("c1", "d1")))

	// Eventual symmetry holds even though the first forward write was lost.
	v, err := m.Read(ctx, "cards/c1/decks_ref/d1")
	require.NoError(t, err)
	assert.Equal(t, true, v)
	v, err = m.Read(ctx, "decks/d1/cards_ref/c1")
	require.NoError(t, err)
	assert.Equal(t, true, v)
}
