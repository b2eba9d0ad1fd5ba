package confirmkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	key, err := Generate("user@example.com")
	require.NoError(t, err)
	assert.Len(t, key, Length)
	assert.Regexp(t, "^[0-9a-f]{40}$", key)
}

func TestGenerate_UniquePerCall(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 100 {
		key, err := Generate("user@example.com")
		require.NoError(t, err)

		_, dup := seen[key]
		require.False(t, dup, "duplicate key generated: %s", key)
		seen[key] = struct{}{}
	}
}
