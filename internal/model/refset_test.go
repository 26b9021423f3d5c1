package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefSet_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	var s RefSet
	s.Add("a")
	s.Add("a")

	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Has("a"))
}

func TestRefSet_TombstonedKeyIsNotAMember(t *testing.T) {
	t.Parallel()

	s := RefSet{"a": true, "b": false}

	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("b"))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []string{"a"}, s.IDs())
}

func TestRefSet_Remove(t *testing.T) {
	t.Parallel()

	s := NewRefSet("a", "b")
	s.Remove("a")
	s.Remove("missing")

	assert.Equal(t, []string{"b"}, s.IDs())
}

func TestRefSet_Diff(t *testing.T) {
	t.Parallel()

	deck := NewRefSet("c1", "c2", "c3")
	used := NewRefSet("c1")

	assert.Equal(t, []string{"c2", "c3"}, deck.Diff(used).IDs())
}

func TestRefSet_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	s := NewRefSet("a")
	c := s.Clone()
	c.Add("b")

	assert.False(t, s.Has("b"))
	assert.Nil(t, RefSet(nil).Clone())
}

func TestRefSet_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(NewRefSet("x", "y"))
	require.NoError(t, err)

	var back RefSet
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, []string{"x", "y"}, back.IDs())
}
