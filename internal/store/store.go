package store

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
)

// Standard errors for store operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates no value exists at the requested path.
	ErrNotFound = errors.New("node not found")

	// ErrUnavailable indicates the store handle could not be obtained, the
	// connection is down, or the store has been closed.
	ErrUnavailable = errors.New("store unavailable")

	// ErrBadPath indicates a path that does not parse under the path scheme.
	ErrBadPath = errors.New("bad node path")
)

// Ack is the best-effort acknowledgment a write may receive. The store makes
// no promise that an ack ever arrives; callers bound their wait themselves.
type Ack struct {
	Err string
	OK  bool
}

// AckFunc receives a write acknowledgment. May be invoked from a store
// goroutine; implementations must not block.
type AckFunc func(Ack)

// Subscription is a handle on a live subscription. Close is idempotent and
// stops further callback delivery.
type Subscription interface {
	Close()
}

// Store is the contract every graph store backend satisfies. All operations
// are non-blocking apart from Read, which is a single round trip bounded by
// its context.
type Store interface {
	// Read fetches the value at path. Returns ErrNotFound when the path holds
	// no value or a tombstone.
	Read(ctx context.Context, path string) (any, error)

	// Write stores value at path, replacing whatever was there. A nil value
	// tombstones the path. The write is fire-and-forget: the returned error
	// only covers local submission; delivery is reported, best effort, via
	// ack (which may be nil).
	Write(ctx context.Context, path string, value any, ack AckFunc) error

	// SubscribeLive delivers the value at path whenever it changes. The
	// initial value is not replayed. Callbacks are eventually-consistent
	// notifications and may arrive out of order relative to this client's
	// own writes.
	SubscribeLive(path string, fn func(value any)) (Subscription, error)

	// SubscribeSet enumerates the current members of the set-valued field at
	// path, invoking fn once per member. Tombstoned members are skipped.
	SubscribeSet(ctx context.Context, path string, fn func(childID string, value any)) error
}

// Encode normalizes v into the store's wire shape: maps, slices, strings,
// float64 and bool, the same shape a JSON round trip yields. Entities are
// encoded before writing so every backend stores the identical form.
func Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode unmarshals a stored value into dst (a pointer to an entity struct).
func Decode(value any, dst any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// DeepEqual compares two values in their normalized wire shape. Used by the
// write reconciler to decide whether a write persisted intact.
func DeepEqual(a, b any) bool {
	na, err := Encode(a)
	if err != nil {
		return false
	}
	nb, err := Encode(b)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(na, nb)
}
