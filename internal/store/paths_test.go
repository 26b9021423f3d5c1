package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeboard/gamegraph/internal/model"
)

func TestPathBuilders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "games/g1", NodePath(model.KindGame, "g1"))
	assert.Equal(t, "games/g1/status", FieldPath(model.KindGame, "g1", "status"))
	assert.Equal(t, "games/g1/actors_ref/a7", ChildPath(model.KindGame, "g1", "actors_ref", "a7"))
}

func TestParsePath_Depths(t *testing.T) {
	t.Parallel()

	p, err := ParsePath("games/g1")
	require.NoError(t, err)
	assert.Equal(t, Path{Collection: "games", ID: "g1"}, p)

	p, err = ParsePath("games/g1/actors_ref/a7")
	require.NoError(t, err)
	assert.Equal(t, "actors_ref", p.Field)
	assert.Equal(t, "a7", p.Child)
	assert.Equal(t, "games/g1", p.NodePrefix())
	assert.Equal(t, "games/g1/actors_ref/a7", p.String())
}

func TestParsePath_Invalid(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"", "games", "games//x", "a/b/c/d/e", "/games/g1"} {
		_, err := ParsePath(bad)
		assert.ErrorIs(t, err, ErrBadPath, "path %q", bad)
	}
}

func TestDeepEqual_NormalizesShapes(t *testing.T) {
	t.Parallel()

	assert.True(t, DeepEqual(map[string]any{"n": 1}, map[string]any{"n": float64(1)}))
	assert.True(t, DeepEqual(model.NewRefSet("a"), map[string]any{"a": true}))
	assert.False(t, DeepEqual(map[string]any{"n": 1}, map[string]any{"n": 2}))
}
