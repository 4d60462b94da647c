package service

import (
	"context"
	"errors"

	"github.com/Crapteep/automation-hub/internal/auth"
	dom "github.com/Crapteep/automation-hub/internal/domain"
	"github.com/Crapteep/automation-hub/internal/password"
	"github.com/Crapteep/automation-hub/internal/repo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Burned through one bcrypt compare when the email is unknown, so a login
// probe cannot tell "no such user" from "wrong password" by timing.
// Hash of an unguessable random string.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AuthService verifies credentials and issues access tokens.
type AuthService struct {
	repo   repo.UserRepo
	hasher *password.Hasher
	tokens *auth.TokenService
	log    *logrus.Logger
}

// NewAuthService returns a new AuthService.
func NewAuthService(r repo.UserRepo, h *password.Hasher, t *auth.TokenService, log *logrus.Logger) *AuthService {
	return &AuthService{repo: r, hasher: h, tokens: t, log: log}
}

// Authenticate looks the user up by email and verifies the password.
// Unknown email and wrong password both come back as
// dom.ErrInvalidCredentials; inactive accounts fail with dom.ErrInactiveUser
// only after the credentials checked out.
func (s *AuthService) Authenticate(ctx context.Context, email, plainPassword string) (dom.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, dom.ErrUserNotFound) {
			s.hasher.Verify(plainPassword, dummyHash)
			return dom.User{}, dom.ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if !s.hasher.Verify(plainPassword, u.HashedPassword) {
		return dom.User{}, dom.ErrInvalidCredentials
	}
	if !u.IsActive {
		return dom.User{}, dom.ErrInactiveUser
	}
	return u, nil
}

// IssueAccessToken mints a bearer token for the user with the configured TTL.
func (s *AuthService) IssueAccessToken(userID uuid.UUID) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", err
	}
	s.log.WithField("user_id", userID).Debug("access token issued")
	return token, nil
}

// ResolveToken validates a raw token and returns its subject user ID.
func (s *AuthService) ResolveToken(raw string) (uuid.UUID, error) {
	return s.tokens.Validate(raw)
}
