package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/forgeboard/gamegraph/internal/cache"
	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/internal/reconcile"
	"github.com/forgeboard/gamegraph/internal/relation"
	"github.com/forgeboard/gamegraph/internal/store"
)

// Deps bundles what every service needs. One Deps value is shared across all
// services of a client.
type Deps struct {
	Cache *cache.Cache
	Store store.Store
	Rec   *reconcile.Reconciler
	Rel   *relation.Manager
	Log   *slog.Logger

	// ReadRetryDelay is the bounded retry applied when a referenced entity
	// is absent on first read: one more read after this delay, then give up.
	// Zero disables the retry.
	ReadRetryDelay time.Duration
}

func (d Deps) logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

// readNode reads a node from the store with the bounded not-found retry.
func (d Deps) readNode(ctx context.Context, kind model.Kind, id string) (any, error) {
	v, err := d.Store.Read(ctx, store.NodePath(kind, id))
	if err == nil || !errors.Is(err, store.ErrNotFound) || d.ReadRetryDelay <= 0 {
		return v, err
	}
	timer := time.NewTimer(d.ReadRetryDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return d.Store.Read(ctx, store.NodePath(kind, id))
}

// fetch resolves an entity cache-first, falling back to a store read that
// writes through the cache. The bool result is false when the entity is
// absent or undecodable.
func fetch[T any](ctx context.Context, d Deps, kind model.Kind, id string) (*T, bool) {
	if id == "" {
		return nil, false
	}
	if v, ok := d.Cache.Get(kind, id); ok {
		if e, ok := v.(*T); ok {
			return e, true
		}
	}
	if d.Store == nil {
		return nil, false
	}
	raw, err := d.readNode(ctx, kind, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			d.logger().Debug("store read failed",
				slog.String("kind", string(kind)),
				slog.String("id", id),
				slog.String("error", err.Error()))
		}
		return nil, false
	}
	e := new(T)
	if err := store.Decode(raw, e); err != nil {
		d.logger().Warn("malformed node in store",
			slog.String("kind", string(kind)),
			slog.String("id", id),
			slog.String("error", err.Error()))
		return nil, false
	}
	d.Cache.Put(kind, id, e)
	return e, true
}

// putNode caches the entity and hands the node write to the reconciler. The
// cache write always precedes the store write so the caller's next read sees
// the mutation.
func (d Deps) putNode(ctx context.Context, kind model.Kind, id string, entity any) *reconcile.Task {
	d.Cache.Put(kind, id, entity)
	return d.Rec.Put(ctx, store.NodePath(kind, id), entity)
}

// putField writes one field of a node. The caller has already refreshed the
// cached entity.
func (d Deps) putField(ctx context.Context, kind model.Kind, id, field string, value any) *reconcile.Task {
	return d.Rec.Put(ctx, store.FieldPath(kind, id, field), value)
}

// putChild writes one member key of a set-valued or map-valued field.
func (d Deps) putChild(ctx context.Context, kind model.Kind, id, field, childID string, value any) *reconcile.Task {
	return d.Rec.Put(ctx, store.ChildPath(kind, id, field, childID), value)
}
