package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind   Kind
		status int
	}{
		{Validation, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{Unauthenticated, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{Conflict, http.StatusConflict},
		{Internal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, c.kind.HTTPStatus(), c.kind.String())
	}
}

func TestKindOfWalksWrapChain(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(NotFound, "post not found", cause)
	wrapped := fmt.Errorf("fetching post: %w", err)

	assert.Equal(t, NotFound, KindOf(wrapped))
	assert.Equal(t, "post not found", MessageOf(wrapped))
	require.ErrorIs(t, wrapped, err)
	assert.ErrorIs(t, wrapped, cause)
}

func TestUnclassifiedErrorsAreInternal(t *testing.T) {
	err := errors.New("pq: deadlock detected")
	assert.Equal(t, Internal, KindOf(err))
	assert.Equal(t, "internal error", MessageOf(err))
	assert.Equal(t, Internal, KindOf(nil))
}

func TestErrorString(t *testing.T) {
	plain := New(Forbidden, "only the author can edit this post")
	assert.Equal(t, "forbidden: only the author can edit this post", plain.Error())

	withCause := Wrap(Conflict, "email already in use", errors.New("23505"))
	assert.Contains(t, withCause.Error(), "conflict: email already in use")
	assert.Contains(t, withCause.Error(), "23505")
}
