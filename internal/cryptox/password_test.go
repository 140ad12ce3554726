package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSalt(t *testing.T) {
	s1, err := NewSalt()
	require.NoError(t, err)
	s2, err := NewSalt()
	require.NoError(t, err)

	// hex encoding doubles the byte length
	assert.Len(t, s1, 2*saltSize)
	assert.Len(t, s2, 2*saltSize)
	assert.NotEqual(t, s1, s2)
}

func TestHashPassword_Deterministic(t *testing.T) {
	h1 := HashPassword("secret-password", "fixed-salt", 1000)
	h2 := HashPassword("secret-password", "fixed-salt", 1000)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 2*keySize)
	assert.NotEqual(t, "secret-password", h1)
}

func TestHashPassword_DifferentSalts(t *testing.T) {
	h1 := HashPassword("secret-password", "salt-1", 1000)
	h2 := HashPassword("secret-password", "salt-2", 1000)

	assert.NotEqual(t, h1, h2)
}

func TestHashPassword_DifferentIterations(t *testing.T) {
	h1 := HashPassword("secret-password", "fixed-salt", 1000)
	h2 := HashPassword("secret-password", "fixed-salt", 2000)

	assert.NotEqual(t, h1, h2)
}

func TestHashPassword_ZeroIterationsFallsBackToDefault(t *testing.T) {
	h1 := HashPassword("secret-password", "fixed-salt", 0)
	h2 := HashPassword("secret-password", "fixed-salt", DefaultIterations)

	assert.Equal(t, h1, h2)
}

func TestVerifyPassword(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	hash := HashPassword("Abcdef12", salt, 1000)

	assert.True(t, VerifyPassword("Abcdef12", hash, salt, 1000))
	assert.False(t, VerifyPassword("abcdef12", hash, salt, 1000))
	assert.False(t, VerifyPassword("Abcdef12", hash, "other-salt", 1000))
	assert.False(t, VerifyPassword("", hash, salt, 1000))
}
