package gamegraph

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeboard/gamegraph/internal/config"
	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/internal/store"
	"github.com/forgeboard/gamegraph/internal/subscribe"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:   "test",
		Store: config.StoreConfig{Backend: config.BackendMemory},
		Reconcile: config.ReconcileConfig{
			AckTimeout:  10 * time.Millisecond,
			VerifyDelay: 10 * time.Millisecond,
		},
	}
}

func TestClient_EndToEnd(t *testing.T) {
	ctx := context.Background()
	client, err := Open(ctx, testConfig(), nil)
	require.NoError(t, err)
	defer client.Close()

	u := client.Users.Ensure(ctx, "u1", "Avery")
	require.NotNil(t, u)

	c1 := client.Cards.Create(ctx, "u1", "strike", "")
	require.NotNil(t, c1)
	d := client.Decks.Create(ctx, "u1", "base", model.DeckVisibilityPublic)
	require.NotNil(t, d)
	require.True(t, client.Decks.AddCard(ctx, d.ID, c1.ID))

	g := client.Games.Create(ctx, "u1", "table", d.ID, 2)
	require.NotNil(t, g)
	a := client.Actors.Create(ctx, "u1", "protagonist")
	require.NotNil(t, a)
	require.True(t, client.Games.AssignActor(ctx, g.ID, "u1", a.ID))
	require.True(t, client.Actors.AssignCard(ctx, a.ID, g.ID, c1.ID))

	gc, ok := client.Context.GetGameContext(ctx, g.ID)
	require.True(t, ok)
	assert.Equal(t, 1, gc.TotalCards)
	assert.Equal(t, 1, gc.UsedCards)
	assert.Empty(t, gc.AvailableCards)
	require.Len(t, gc.Actors, 1)
	require.NotNil(t, gc.Actors[0].Card)
	assert.Equal(t, "strike", gc.Actors[0].Card.Name)
}

func TestClient_WatchThroughFacade(t *testing.T) {
	ctx := context.Background()
	client, err := Open(ctx, testConfig(), nil)
	require.NoError(t, err)
	defer client.Close()

	require.NotNil(t, client.Users.Ensure(ctx, "u1", "Avery"))
	g := client.Games.Create(ctx, "u1", "table", "", 0)
	require.NotNil(t, g)

	cancel, err := client.Subscribe.WatchGameActors(ctx, g.ID, func(subscribe.GameActorEvent) {})
	require.NoError(t, err)
	defer cancel()
	assert.GreaterOrEqual(t, client.Subscribe.OpenCount(), 1)
}

func TestClient_CloseStopsOwnedStore(t *testing.T) {
	client, err := Open(context.Background(), testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, client.Close())
}

func TestClient_NewLeavesStoreToCaller(t *testing.T) {
	m := store.NewMemoryStore()
	client := New(testConfig(), m, nil)
	require.NoError(t, client.Close())

	// The caller-owned store keeps working after the client closes.
	require.NoError(t, m.Write(context.Background(), "games/g1", map[string]any{"id": "g1"}, nil))
}

func TestOpen_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = "etcd"
	_, err := Open(context.Background(), cfg, nil)
	require.Error(t, err)
}
