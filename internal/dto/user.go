package dto

import (
	"regexp"
	"time"

	dom "github.com/Crapteep/automation-hub/internal/domain"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

var (
	reDigit = regexp.MustCompile(`[0-9]`)
	reUpper = regexp.MustCompile(`[A-Z]`)
)

// Field rules shared by create and update: username is 3-50 alphanumeric
// characters, passwords are at least 8 characters with one digit and one
// uppercase letter. Enforced here, before anything reaches the services.
var (
	usernameRules = []validation.Rule{validation.Length(3, 50), is.Alphanumeric}
	passwordRules = []validation.Rule{
		validation.Length(8, 0),
		validation.Match(reDigit).Error("must contain at least one digit"),
		validation.Match(reUpper).Error("must contain at least one uppercase letter"),
	}
)

// CreateUserRequest is the JSON body for POST /users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, append([]validation.Rule{validation.Required}, usernameRules...)...),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, append([]validation.Rule{validation.Required}, passwordRules...)...),
	)
}

// UpdateCurrentUserRequest is the JSON body for PATCH /users/me.
// Absent fields are left untouched.
type UpdateCurrentUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

func (r UpdateCurrentUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, usernameRules...),
		validation.Field(&r.Email, is.Email),
	)
}

// UpdateUserByAdminRequest is the JSON body for PATCH /users/:id.
// Unlike the self-service patch it may flip is_active and is_superuser.
type UpdateUserByAdminRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

func (r UpdateUserByAdminRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, usernameRules...),
		validation.Field(&r.Email, is.Email),
	)
}

// ChangePasswordRequest is the JSON body for POST /users/me/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required, validation.Length(8, 0)),
		validation.Field(&r.NewPassword, append([]validation.Rule{validation.Required}, passwordRules...)...),
	)
}

// ListUsersQuery is bound from GET /users query parameters.
type ListUsersQuery struct {
	Search      string `form:"search"`
	IsActive    *bool  `form:"is_active"`
	IsSuperuser *bool  `form:"is_superuser"`
	SortBy      string `form:"sort_by"`
	SortOrder   string `form:"sort_order,default=asc"`
	Skip        int    `form:"skip,default=0"`
	Limit       int    `form:"limit,default=100"`
}

func (q ListUsersQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.SortBy, validation.In("", "username", "email", "created_at", "updated_at")),
		validation.Field(&q.SortOrder, validation.In("", "asc", "desc")),
		validation.Field(&q.Skip, validation.Min(0)),
		validation.Field(&q.Limit, validation.Min(1), validation.Max(500)),
	)
}

// UserResponse is the public view of a user. The hashed password never
// appears here.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewUserResponse maps the domain entity onto the public view.
func NewUserResponse(u dom.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// NewUserResponses maps a page of users.
func NewUserResponses(users []dom.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
