package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain entity for an account.
// It does not depend on Gin, Postgres or Redis.
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
