package core

import (
	"context"
	"time"
)

// User is an authenticated reporting user scoped to one company.
// PasswordHash is a hex-encoded SHA-256 digest set by the admin tooling.
type User struct {
	ID           int
	CompanyID    int
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

// UserService provides user lookup operations for authentication.
type UserService interface {
	// GetByUsername finds an active user by username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID returns a user by primary key, active or not.
	GetByID(ctx context.Context, userID int) (*User, error)
}
