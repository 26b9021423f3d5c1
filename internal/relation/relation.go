// Package relation maintains the bidirectional edges between entities.
//
// A relationship always carries both of its directions in one value and is
// applied by one code path, so no call site can write half an edge and leave
// the graph drifting. Edge writes are child-level set writes: linking writes
// true under each side's set field, unlinking tombstones the two specific
// member keys and never touches siblings.
package relation

import (
	"context"
	"log/slog"

	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/internal/reconcile"
	"github.com/forgeboard/gamegraph/internal/store"
)

// Ref identifies one entity endpoint of a relationship.
type Ref struct {
	Kind model.Kind
	ID   string
}

// Relationship is a bidirectional pointer pair between two entities'
// set-valued fields. A one-way relationship has an empty ToField and only
// writes the forward edge (creator_ref style pointers, which the data model
// deliberately does not mirror).
type Relationship struct {
	From      Ref
	FromField string
	To        Ref
	ToField   string
}

// Between builds a bidirectional relationship.
func Between(from Ref, fromField string, to Ref, toField string) Relationship {
	return Relationship{From: from, FromField: fromField, To: to, ToField: toField}
}

// OneWay builds a relationship that only writes the forward edge.
func OneWay(from Ref, field string, to Ref) Relationship {
	return Relationship{From: from, FromField: field, To: to}
}

// forwardPath is the child key holding membership of To in From's set.
func (r Relationship) forwardPath() string {
	return store.ChildPath(r.From.Kind, r.From.ID, r.FromField, r.To.ID)
}

// reversePath is the child key holding membership of From in To's set.
func (r Relationship) reversePath() string {
	return store.ChildPath(r.To.Kind, r.To.ID, r.ToField, r.From.ID)
}

// Manager applies relationships through the write reconciler. Callers treat
// Link and Unlink as fire-and-forget; the returned tasks exist so tests and
// diagnostics can observe settlement.
type Manager struct {
	rec *reconcile.Reconciler
	log *slog.Logger
}

// NewManager creates a relationship manager. A nil logger falls back to
// slog.Default().
func NewManager(rec *reconcile.Reconciler, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{rec: rec, log: log}
}

// Link writes both directions of the relationship. Linking an already-linked
// pair is a no-op at the store level: membership is a key set to true.
func (m *Manager) Link(ctx context.Context, rel Relationship) []*reconcile.Task {
	return m.apply(ctx, rel, true)
}

// Unlink tombstones both member keys of the relationship. Unrelated siblings
// in the same sets are unaffected.
func (m *Manager) Unlink(ctx context.Context, rel Relationship) []*reconcile.Task {
	return m.apply(ctx, rel, nil)
}

func (m *Manager) apply(ctx context.Context, rel Relationship, value any) []*reconcile.Task {
	if rel.From.ID == "" || rel.To.ID == "" || rel.FromField == "" {
		m.log.Warn("skipping malformed relationship",
			slog.String("from", string(rel.From.Kind)+"/"+rel.From.ID),
			slog.String("to", string(rel.To.Kind)+"/"+rel.To.ID),
			slog.String("field", rel.FromField))
		return nil
	}
	tasks := []*reconcile.Task{m.rec.Put(ctx, rel.forwardPath(), value)}
	if rel.ToField != "" {
		tasks = append(tasks, m.rec.Put(ctx, rel.reversePath(), value))
	}
	return tasks
}
