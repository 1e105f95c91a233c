package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, exp, err := m.Generate("9f2c7e1a-0b4d-4c3a-8e5f-6a7b8c9d0e1f")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	uid, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "9f2c7e1a-0b4d-4c3a-8e5f-6a7b8c9d0e1f", uid)
}

func TestJWTExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, _, err := m.Generate("some-user")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTWrongSecretRejected(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, _, err := issuer.Generate("some-user")
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTGarbageRejected(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	for _, tok := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		_, err := m.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}
