package ids

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_CarriesPrefix(t *testing.T) {
	t.Parallel()

	id := New("game")
	assert.True(t, strings.HasPrefix(id, "game_"))
}

func TestNew_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New("card")
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestNew_EmptyPrefix(t *testing.T) {
	t.Parallel()

	id := New("")
	assert.NotEmpty(t, id)
	assert.False(t, strings.Contains(id, "_"))
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Valid("game_01"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("games/other"))
}
