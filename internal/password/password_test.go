package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(4) // min cost keeps the test fast

	hash, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)

	assert.True(t, h.Verify("Secret123", hash))
	assert.False(t, h.Verify("Secret124", hash))
	assert.False(t, h.Verify("", hash))
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(4)

	first, err := h.Hash("Secret123")
	require.NoError(t, err)
	second, err := h.Hash("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("Secret123", first))
	assert.True(t, h.Verify("Secret123", second))
}

func TestVerifyMalformedHashFailsClosed(t *testing.T) {
	h := NewHasher(4)

	assert.False(t, h.Verify("Secret123", ""))
	assert.False(t, h.Verify("Secret123", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("Secret123", "$2a$garbage"))
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	h := NewHasher(99)

	hash, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.True(t, h.Verify("Secret123", hash))
}
