// Package ids generates unique string identifiers for graph entities.
//
// Ids are ULIDs with a short kind prefix (for example "game_01J9ZK...").
// ULIDs are monotonic-ish within a process but callers must treat them as
// opaque strings: nothing in the graph layer relies on their ordering.
package ids

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh id with the given kind prefix.
func New(prefix string) string {
	if prefix == "" {
		return ulid.Make().String()
	}
	return prefix + "_" + ulid.Make().String()
}

// Valid reports whether id is non-empty and contains no path separators.
// Path separators would let a crafted id escape its node when spliced into
// a store path.
func Valid(id string) bool {
	return id != "" && !strings.ContainsRune(id, '/')
}
