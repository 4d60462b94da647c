package domain

import "errors"

// Every service operation fails with exactly one of these kinds. Handlers map
// them to HTTP statuses in one place; repo errors never cross this boundary raw.
var (
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoUsersFound       = errors.New("no users found")
	ErrUserInactive       = errors.New("user is already inactive")
	ErrInactiveUser       = errors.New("inactive user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("old password is incorrect")
	ErrPasswordReuse      = errors.New("new password must be different from the old password")
	ErrEmailTaken         = errors.New("this email is already in use")
	ErrUsernameTaken      = errors.New("this username is already in use")
	ErrNoPermission       = errors.New("no sufficient permissions")
)
