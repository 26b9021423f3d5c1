// Package store defines the graph store abstraction the sync layer is built
// on, plus the backends that implement it.
//
// The underlying store is an eventually-consistent, peer-replicated key/value
// graph: it offers no transactions, no server-side joins, no guaranteed write
// durability on first attempt, and no guaranteed relationship symmetry. This
// package only pins down the primitives the layers above consume:
//
//   - Read: single-shot fetch of the value at a path
//   - Write: fire-and-forget write with an optional best-effort ack callback
//   - SubscribeLive: change notifications for the value at a path
//   - SubscribeSet: one-shot enumeration of a set-valued field's members
//
// # Path Scheme
//
// Every node and field is addressed by a path of the form
//
//	<collection>/<entityId>[/<fieldName>[/<childId>]]
//
// e.g. "games/g_42/actors_ref/actor_7". Writes target the most specific path
// possible so sibling keys in the same set are never clobbered. Path
// construction lives in paths.go and is pure.
//
// # Tombstones
//
// Deletion writes nil at a path. Ids are never reused; a tombstoned node
// stays tombstoned.
//
// # Backends
//
//   - SurrealStore: production backend over SurrealDB, live subscriptions via
//     LIVE queries (one per collection, demultiplexed per path).
//   - BadgerStore: embedded local backend over BadgerDB, live subscriptions
//     via DB.Subscribe prefix watches.
//   - MemoryStore: in-process backend with write fault injection; used by the
//     test suites and as a throwaway backend for tooling.
//
// # Error Handling
//
// Sentinel errors cover the expected failure cases:
//
//   - ErrNotFound: no value at the path
//   - ErrUnavailable: the store handle could not be obtained or is closed
//   - ErrBadPath: the path does not parse under the scheme
//
// Use errors.Is() to check them. Layers above convert expected errors into
// sentinel return values rather than propagating them.
package store
