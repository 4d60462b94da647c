package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Crapteep/automation-hub/internal/cache"
	dom "github.com/Crapteep/automation-hub/internal/domain"
	"github.com/Crapteep/automation-hub/internal/password"
	"github.com/Crapteep/automation-hub/internal/repo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// UserPatch carries the fields an update may change. Nil means "leave as is".
type UserPatch struct {
	Username    *string
	Email       *string
	IsActive    *bool
	IsSuperuser *bool
}

// UserService enforces the account lifecycle rules: create, read, update,
// deactivate, change password, delete.
type UserService struct {
	repo     repo.UserRepo
	cache    *cache.UserCache
	hasher   *password.Hasher
	reserved map[string]struct{}
	log      *logrus.Logger
	sf       singleflight.Group
}

// NewUserService creates a UserService. If c is nil, caching is disabled.
func NewUserService(r repo.UserRepo, c *cache.UserCache, h *password.Hasher, reserved map[string]struct{}, log *logrus.Logger) *UserService {
	return &UserService{repo: r, cache: c, hasher: h, reserved: reserved, log: log}
}

// Create registers a new account. The username/email existence checks below
// race with concurrent creates; the unique constraints in Postgres are what
// actually guarantee uniqueness, and the repo maps their violation back to
// the same conflict error after the fact.
func (s *UserService) Create(ctx context.Context, username, email, plainPassword string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return dom.User{}, fmt.Errorf("%w: username cannot be empty", dom.ErrInvalidUserData)
	}
	if _, ok := s.reserved[strings.ToLower(username)]; ok {
		return dom.User{}, fmt.Errorf("%w: username is reserved and cannot be used", dom.ErrInvalidUserData)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return dom.User{}, fmt.Errorf("%w: username %s is taken", dom.ErrUserAlreadyExists, username)
	} else if !errors.Is(err, dom.ErrUserNotFound) {
		return dom.User{}, err
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return dom.User{}, fmt.Errorf("%w: email %s is taken", dom.ErrUserAlreadyExists, email)
	} else if !errors.Is(err, dom.ErrUserNotFound) {
		return dom.User{}, err
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return dom.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repo.Create(ctx, dom.User{
		Username:       username,
		Email:          email,
		HashedPassword: hash,
		IsActive:       true,
		IsSuperuser:    false,
	})
	if err != nil {
		if errors.Is(err, dom.ErrUsernameTaken) || errors.Is(err, dom.ErrEmailTaken) {
			return dom.User{}, dom.ErrUserAlreadyExists
		}
		return dom.User{}, err
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user created")
	return u, nil
}

// GetByID returns the user with the given ID, reading through the cache.
// Concurrent misses for the same ID collapse into one Postgres query.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (dom.User, error) {
	if s.cache == nil {
		return s.repo.GetByID(ctx, id)
	}
	v, err, _ := s.sf.Do("user:"+id.String(), func() (interface{}, error) {
		if u, err := s.cache.Get(ctx, id); err == nil && u != nil {
			return *u, nil
		}
		u, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return dom.User{}, err
		}
		_ = s.cache.Set(ctx, u)
		return u, nil
	})
	if err != nil {
		return dom.User{}, err
	}
	return v.(dom.User), nil
}

// List returns a page of users matching f. An empty page is reported as
// dom.ErrNoUsersFound, keeping the upstream API contract.
func (s *UserService) List(ctx context.Context, f repo.Filter) ([]dom.User, error) {
	users, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, dom.ErrNoUsersFound
	}
	return users, nil
}

// Deactivate soft-disables an account. Deactivating twice fails with
// dom.ErrUserInactive.
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsActive {
		return dom.ErrUserInactive
	}
	u.IsActive = false
	if _, err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.WithField("user_id", id).Info("user deactivated")
	return nil
}

// Update applies a patch to the account. Self-service updates are blocked on
// inactive accounts and may not touch is_active or is_superuser; the admin
// path may, which is also the only way back from inactive to active.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch UserPatch, selfService bool) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.User{}, err
	}
	if selfService && !u.IsActive {
		return dom.User{}, dom.ErrUserInactive
	}
	if selfService {
		patch.IsActive = nil
		patch.IsSuperuser = nil
	}

	if patch.Email != nil && *patch.Email != u.Email {
		existing, err := s.repo.GetByEmail(ctx, *patch.Email)
		if err == nil && existing.ID != u.ID {
			return dom.User{}, dom.ErrEmailTaken
		} else if err != nil && !errors.Is(err, dom.ErrUserNotFound) {
			return dom.User{}, err
		}
		u.Email = *patch.Email
	}
	if patch.Username != nil && *patch.Username != u.Username {
		existing, err := s.repo.GetByUsername(ctx, *patch.Username)
		if err == nil && existing.ID != u.ID {
			return dom.User{}, dom.ErrUsernameTaken
		} else if err != nil && !errors.Is(err, dom.ErrUserNotFound) {
			return dom.User{}, err
		}
		u.Username = *patch.Username
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	if patch.IsSuperuser != nil {
		u.IsSuperuser = *patch.IsSuperuser
	}

	out, err := s.repo.Update(ctx, u)
	if err != nil {
		return dom.User{}, err
	}
	s.invalidate(ctx, id)
	return out, nil
}

// ChangePassword rotates the account password. The old password must verify
// against the stored hash and the new one must actually differ from it.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(oldPassword, u.HashedPassword) {
		return dom.ErrInvalidPassword
	}
	if s.hasher.Verify(newPassword, u.HashedPassword) {
		return dom.ErrPasswordReuse
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.HashedPassword = hash
	if _, err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.WithField("user_id", id).Info("password changed")
	return nil
}

// Delete physically removes an account. Only active, non-superuser accounts
// can be deleted; an admin can reactivate one first via Update if needed.
// The reason is logged for the audit trail but not persisted.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID, reason string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsActive {
		return fmt.Errorf("%w: inactive users cannot be deleted", dom.ErrUserInactive)
	}
	if u.IsSuperuser {
		return fmt.Errorf("%w to delete a user", dom.ErrNoPermission)
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return dom.ErrUserNotFound
	}
	s.invalidate(ctx, id)
	s.log.WithFields(logrus.Fields{"user_id": id, "reason": reason}).Info("user deleted")
	return nil
}

func (s *UserService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, id)
	}
}
