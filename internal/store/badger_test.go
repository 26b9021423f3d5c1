package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openInMemoryBadger opens a disk-less store with a directory still set in
// the config, the combination the config defaults produce: InMemory must
// win, since badger rejects disk-less mode with a directory.
func openInMemoryBadger(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadgerStore(BadgerConfig{Path: "./data/graph", InMemory: true}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// badgerWrite issues a write and waits for its ack; badger writes apply on a
// background goroutine.
func badgerWrite(t *testing.T, s *BadgerStore, path string, v any) {
	t.Helper()
	acked := make(chan Ack, 1)
	require.NoError(t, s.Write(context.Background(), path, v, func(a Ack) {
		acked <- a
	}))
	select {
	case a := <-acked:
		require.True(t, a.OK, "write ack: %s", a.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("write never acked")
	}
}

func TestBadgerInMemory_OpensWithPathConfigured(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openInMemoryBadger(t)

	badgerWrite(t, s, "games/g1", map[string]any{"id": "g1", "name": "table"})

	v, err := s.Read(ctx, "games/g1")
	require.NoError(t, err)
	node, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "table", node["name"])
}

func TestBadger_ChildWritePreservesSiblings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openInMemoryBadger(t)

	badgerWrite(t, s, "games/g1", map[string]any{
		"id":      "g1",
		"players": map[string]any{"u1": true},
	})
	badgerWrite(t, s, "games/g1/players/u2", true)

	v, err := s.Read(ctx, "games/g1/players/u1")
	require.NoError(t, err)
	assert.Equal(t, true, v)
	v, err = s.Read(ctx, "games/g1/players/u2")
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestBadger_TombstoneReadsAsAbsent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openInMemoryBadger(t)

	badgerWrite(t, s, "games/g1", map[string]any{"id": "g1"})
	badgerWrite(t, s, "games/g1", nil)

	_, err := s.Read(ctx, "games/g1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadger_ClosedStoreIsUnavailable(t *testing.T) {
	t.Parallel()
	s := openInMemoryBadger(t)
	require.NoError(t, s.Close())

	_, err := s.Read(context.Background(), "games/g1")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, s.Write(context.Background(), "games/g1", nil, nil), ErrUnavailable)
}
