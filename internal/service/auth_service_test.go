package service

import (
	"context"
	"testing"
	"time"

	"github.com/Crapteep/automation-hub/internal/auth"
	dom "github.com/Crapteep/automation-hub/internal/domain"
	"github.com/Crapteep/automation-hub/internal/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(r *fakeUserRepo) *AuthService {
	tokens := auth.NewTokenService([]byte("test-secret"), 30*time.Minute)
	return NewAuthService(r, password.NewHasher(4), tokens, testLogger())
}

func TestAuthenticate(t *testing.T) {
	r := newFakeUserRepo()
	users := newTestUserService(r)
	s := newTestAuthService(r)

	created := mustCreate(t, users, "alice01", "alice@example.com", "Secret123")

	got, err := s.Authenticate(context.Background(), "alice@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestAuthenticateMasksFailures(t *testing.T) {
	r := newFakeUserRepo()
	users := newTestUserService(r)
	s := newTestAuthService(r)

	mustCreate(t, users, "alice01", "alice@example.com", "Secret123")

	// wrong password and unknown email are indistinguishable to the caller
	_, err := s.Authenticate(context.Background(), "alice@example.com", "WrongPass1")
	assert.ErrorIs(t, err, dom.ErrInvalidCredentials)

	_, err = s.Authenticate(context.Background(), "nobody@example.com", "Secret123")
	assert.ErrorIs(t, err, dom.ErrInvalidCredentials)
}

func TestAuthenticateInactive(t *testing.T) {
	r := newFakeUserRepo()
	users := newTestUserService(r)
	s := newTestAuthService(r)

	u := mustCreate(t, users, "alice01", "alice@example.com", "Secret123")
	require.NoError(t, users.Deactivate(context.Background(), u.ID))

	_, err := s.Authenticate(context.Background(), "alice@example.com", "Secret123")
	assert.ErrorIs(t, err, dom.ErrInactiveUser)

	// and a wrong password on an inactive account still reads as bad creds
	_, err = s.Authenticate(context.Background(), "alice@example.com", "WrongPass1")
	assert.ErrorIs(t, err, dom.ErrInvalidCredentials)
}

func TestLoginRoundTrip(t *testing.T) {
	r := newFakeUserRepo()
	users := newTestUserService(r)
	s := newTestAuthService(r)

	created := mustCreate(t, users, "alice01", "alice@example.com", "Secret123")

	authed, err := s.Authenticate(context.Background(), "alice@example.com", "Secret123")
	require.NoError(t, err)

	raw, err := s.IssueAccessToken(authed.ID)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	subject, err := s.ResolveToken(raw)
	require.NoError(t, err)
	assert.Equal(t, created.ID, subject)
}

func TestResolveTokenRejectsGarbage(t *testing.T) {
	s := newTestAuthService(newFakeUserRepo())

	_, err := s.ResolveToken("garbage")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}
