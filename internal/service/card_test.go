package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/internal/store"
)

func TestCardCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	deps, m := newTestEnv(t)
	seedUser(t, m, "u1")
	svc := NewCardService(deps)

	c := svc.Create(ctx, "u1", "strike", "a basic attack")
	require.NotNil(t, c)
	assert.Equal(t, "u1", c.CreatorRef)

	cached, ok := deps.Cache.Card(c.ID)
	require.True(t, ok)
	assert.Equal(t, "strike", cached.Name)

	assert.Nil(t, svc.Create(ctx, "nobody", "x", ""))
}

func TestAttachValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	deps, m := newTestEnv(t)
	seedUser(t, m, "u1")
	svc := NewCardService(deps)

	c := svc.Create(ctx, "u1", "strike", "")
	v := svc.CreateValue(ctx, "u1", "honor")
	require.NotNil(t, c)
	require.NotNil(t, v)

	require.True(t, svc.AttachValue(ctx, c.ID, v.ID))
	assert.False(t, svc.AttachValue(ctx, c.ID, "value_missing"))

	got, err := m.Read(ctx, store.ChildPath(model.KindCard, c.ID, "values_ref", v.ID))
	require.NoError(t, err)
	assert.Equal(t, true, got)
	got, err = m.Read(ctx, store.ChildPath(model.KindValue, v.ID, "cards_ref", c.ID))
	require.NoError(t, err)
	assert.Equal(t, true, got)

	cached, ok := deps.Cache.Card(c.ID)
	require.True(t, ok)
	assert.True(t, cached.ValuesRef.Has(v.ID))
}

func TestAttachCapability(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	deps, m := newTestEnv(t)
	seedUser(t, m, "u1")
	svc := NewCardService(deps)

	c := svc.Create(ctx, "u1", "strike", "")
	cp := svc.CreateCapability(ctx, "u1", "piercing")
	require.NotNil(t, c)
	require.NotNil(t, cp)

	require.True(t, svc.AttachCapability(ctx, c.ID, cp.ID))

	got, err := m.Read(ctx, store.ChildPath(model.KindCard, c.ID, "capabilities_ref", cp.ID))
	require.NoError(t, err)
	assert.Equal(t, true, got)
	got, err = m.Read(ctx, store.ChildPath(model.KindCapability, cp.ID, "cards_ref", c.ID))
	require.NoError(t, err)
	assert.Equal(t, true, got)

	cachedCap, ok := deps.Cache.Capability(cp.ID)
	require.True(t, ok)
	assert.True(t, cachedCap.CardsRef.Has(c.ID))
}
