package store

import (
	"strings"

	"github.com/forgeboard/gamegraph/internal/model"
)

// NodePath returns the path of an entity node: "<collection>/<id>".
func NodePath(kind model.Kind, id string) string {
	return kind.Collection() + "/" + id
}

// FieldPath returns the path of a single field on an entity node.
func FieldPath(kind model.Kind, id, field string) string {
	return kind.Collection() + "/" + id + "/" + field
}

// ChildPath returns the path of one member key inside a set-valued field.
// Writes at this depth never clobber sibling members.
func ChildPath(kind model.Kind, id, field, childID string) string {
	return kind.Collection() + "/" + id + "/" + field + "/" + childID
}

// Path is a parsed node path. Field and Child are empty at shallower depths.
type Path struct {
	Collection string
	ID         string
	Field      string
	Child      string
}

// ParsePath splits a path into its segments. Returns ErrBadPath for empty
// segments or depths outside 2..4.
func ParsePath(p string) (Path, error) {
	segs := strings.Split(p, "/")
	if len(segs) < 2 || len(segs) > 4 {
		return Path{}, ErrBadPath
	}
	for _, s := range segs {
		if s == "" {
			return Path{}, ErrBadPath
		}
	}
	out := Path{Collection: segs[0], ID: segs[1]}
	if len(segs) > 2 {
		out.Field = segs[2]
	}
	if len(segs) > 3 {
		out.Child = segs[3]
	}
	return out, nil
}

// NodePrefix returns the node path this path belongs to.
func (p Path) NodePrefix() string {
	return p.Collection + "/" + p.ID
}

// String reassembles the path.
func (p Path) String() string {
	out := p.Collection + "/" + p.ID
	if p.Field != "" {
		out += "/" + p.Field
		if p.Child != "" {
			out += "/" + p.Child
		}
	}
	return out
}
