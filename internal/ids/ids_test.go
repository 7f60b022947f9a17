package ids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator(t *testing.T) {
	g := NewUUIDGenerator()
	seen := make(map[string]bool)

	for i := 0; i < 500; i++ {
		id := g.NewID()
		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSequenceGenerator(t *testing.T) {
	g := NewSequenceGenerator("id")
	assert.Equal(t, "id-1", g.NewID())
	assert.Equal(t, "id-2", g.NewID())
	assert.Equal(t, "id-3", g.NewID())
}
