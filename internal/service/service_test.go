package service

import (
	"context"
	"testing"
	"time"

	"github.com/forgeboard/gamegraph/internal/cache"
	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/internal/reconcile"
	"github.com/forgeboard/gamegraph/internal/relation"
	"github.com/forgeboard/gamegraph/internal/store"
)

// newTestEnv wires a full service stack over an isolated in-memory store
// with fast reconciler timers.
func newTestEnv(t *testing.T) (Deps, *store.MemoryStore) {
	t.Helper()
	m := store.NewMemoryStore()
	rec := reconcile.New(m, reconcile.Options{
		AckTimeout:  10 * time.Millisecond,
		VerifyDelay: 10 * time.Millisecond,
	}, nil)
	t.Cleanup(rec.Close)
	deps := Deps{
		Cache: cache.New(),
		Store: m,
		Rec:   rec,
		Rel:   relation.NewManager(rec, nil),
	}
	return deps, m
}

// seedNode writes an entity node straight into the store, bypassing the
// mutators, the way another peer's writes would arrive.
func seedNode(t *testing.T, m *store.MemoryStore, kind model.Kind, id string, entity any) {
	t.Helper()
	if err := m.Write(context.Background(), store.NodePath(kind, id), entity, nil); err != nil {
		t.Fatalf("seed %s/%s: %v", kind, id, err)
	}
}

func seedUser(t *testing.T, m *store.MemoryStore, id string) {
	t.Helper()
	seedNode(t, m, model.KindUser, id, &model.User{ID: id, Name: "user " + id, Role: model.RoleMember})
}

// notInStore asserts the path reads back as absent.
func notInStore(t *testing.T, m *store.MemoryStore, path string) {
	t.Helper()
	if _, err := m.Read(context.Background(), path); err == nil {
		t.Fatalf("expected %s to be absent", path)
	}
}
