package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCompare(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash, got %q", hash)

	assert.True(t, CompareHashAndPassword(hash, "correct horse battery staple"))
	assert.False(t, CompareHashAndPassword(hash, "wrong password"))
	assert.False(t, CompareHashAndPassword("", "anything"))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("samepassword")
	require.NoError(t, err)
	h2, err := HashPassword("samepassword")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
