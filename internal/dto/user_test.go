package dto

import (
	"testing"

	dom "github.com/Crapteep/automation-hub/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateUserRequestValidate(t *testing.T) {
	valid := CreateUserRequest{Username: "alice01", Email: "alice@example.com", Password: "Secret123"}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name string
		req  CreateUserRequest
	}{
		{"missing username", CreateUserRequest{Email: "a@example.com", Password: "Secret123"}},
		{"username too short", CreateUserRequest{Username: "ab", Email: "a@example.com", Password: "Secret123"}},
		{"username not alphanumeric", CreateUserRequest{Username: "alice_01", Email: "a@example.com", Password: "Secret123"}},
		{"bad email", CreateUserRequest{Username: "alice01", Email: "not-an-email", Password: "Secret123"}},
		{"password too short", CreateUserRequest{Username: "alice01", Email: "a@example.com", Password: "Sec1"}},
		{"password without digit", CreateUserRequest{Username: "alice01", Email: "a@example.com", Password: "Secretpass"}},
		{"password without uppercase", CreateUserRequest{Username: "alice01", Email: "a@example.com", Password: "secret123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.req.Validate())
		})
	}
}

func TestUpdateCurrentUserRequestValidate(t *testing.T) {
	assert.NoError(t, UpdateCurrentUserRequest{}.Validate())

	username := "alice02"
	email := "alice2@example.com"
	assert.NoError(t, UpdateCurrentUserRequest{Username: &username, Email: &email}.Validate())

	short := "ab"
	assert.Error(t, UpdateCurrentUserRequest{Username: &short}.Validate())

	bad := "nope"
	assert.Error(t, UpdateCurrentUserRequest{Email: &bad}.Validate())
}

func TestChangePasswordRequestValidate(t *testing.T) {
	assert.NoError(t, ChangePasswordRequest{OldPassword: "Secret123", NewPassword: "Fresh1234"}.Validate())

	// old password only has to be present, the policy applies to the new one
	assert.Error(t, ChangePasswordRequest{OldPassword: "", NewPassword: "Fresh1234"}.Validate())
	assert.Error(t, ChangePasswordRequest{OldPassword: "Secret123", NewPassword: "weak"}.Validate())
	assert.Error(t, ChangePasswordRequest{OldPassword: "Secret123", NewPassword: "nodigitshere"}.Validate())
}

func TestListUsersQueryValidate(t *testing.T) {
	assert.NoError(t, ListUsersQuery{SortBy: "username", SortOrder: "desc", Limit: 100}.Validate())

	assert.Error(t, ListUsersQuery{SortBy: "hashed_password", Limit: 100}.Validate())
	assert.Error(t, ListUsersQuery{SortOrder: "sideways", Limit: 100}.Validate())
	assert.Error(t, ListUsersQuery{Skip: -1, Limit: 100}.Validate())
	// zero limit is empty to the threshold rules; binding and the repo both
	// fall back to the default page size
	assert.NoError(t, ListUsersQuery{Limit: 0}.Validate())
	assert.Error(t, ListUsersQuery{Limit: 1000}.Validate())
}

func TestLoginRequestValidate(t *testing.T) {
	assert.NoError(t, LoginRequest{Email: "alice@example.com", Password: "Secret123"}.Validate())
	assert.Error(t, LoginRequest{Email: "not-an-email", Password: "Secret123"}.Validate())
	assert.Error(t, LoginRequest{Email: "alice@example.com"}.Validate())
}

func TestUserResponseOmitsHash(t *testing.T) {
	u := dom.User{
		ID:             uuid.New(),
		Username:       "alice01",
		Email:          "alice@example.com",
		HashedPassword: "$2a$12$something",
		IsActive:       true,
	}
	resp := NewUserResponse(u)
	assert.Equal(t, u.ID, resp.ID)
	assert.Equal(t, u.Username, resp.Username)
	assert.Equal(t, u.Email, resp.Email)
	assert.True(t, resp.IsActive)
}

func TestNewTokenResponse(t *testing.T) {
	resp := NewTokenResponse("abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}
