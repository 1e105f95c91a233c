package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/pkg/apperr"
	"inkwell/pkg/helpers"
)

func newAccountService(repo *memAccountRepo) *AccountService {
	return &AccountService{
		Repo: repo,
		JWT:  helpers.NewJWTManager("test-secret", time.Hour),
	}
}

func TestRegisterHashesPasswordAndNormalizesEmail(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newAccountService(repo)
	ctx := context.Background()

	a, err := svc.Register(ctx, "ada", "  Ada@Example.COM ", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)

	assert.Equal(t, "ada@example.com", a.Email)
	assert.NotEqual(t, "hunter2hunter2", a.Password)
	assert.True(t, helpers.CompareHashAndPassword(a.Password, "hunter2hunter2"))
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newAccountService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "imposter", "ada@example.com", "differentpass")
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newAccountService(repo)
	ctx := context.Background()

	created, err := svc.Register(ctx, "ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	token, exp, a, err := svc.Login(ctx, "ADA@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, a.ID)
	assert.True(t, exp.After(time.Now()))

	uid, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, uid)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newAccountService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, _, errUnknown := svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	_, _, _, errWrongPass := svc.Login(ctx, "ada@example.com", "wrongpassword")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(errUnknown))
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(errWrongPass))
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestUpdateProfileIsPartial(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newAccountService(repo)
	ctx := context.Background()

	a, err := svc.Register(ctx, "ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, a.ID, UpdateProfileInput{Username: "countess"})
	require.NoError(t, err)
	assert.Equal(t, "countess", updated.Username)
	assert.Equal(t, "ada@example.com", updated.Email)

	// Empty input changes nothing.
	same, err := svc.UpdateProfile(ctx, a.ID, UpdateProfileInput{})
	require.NoError(t, err)
	assert.Equal(t, "countess", same.Username)
}

func TestGetProfileUnknownAccount(t *testing.T) {
	svc := newAccountService(newMemAccountRepo())

	_, err := svc.GetProfile(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
