package authgate

import (
	"context"
	"time"
)

// User is the identity record held by the credential store. The Engine never
// mutates it after creation.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUserInput carries the fields persisted at registration.
type CreateUserInput struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

// UserStore is the credential store contract consumed by the Engine. It is
// passed explicitly at construction; implementations own their connection
// lifetime.
//
// FindByUsername and FindByID return [ErrUserNotFound] for absent records.
// Create returns [ErrUserExists] when the username or email is already taken.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, input CreateUserInput) (*User, error)
}

// TokenPair is the credential pair issued by Login and Refresh. Subject is the
// user identifier both tokens are bound to.
type TokenPair struct {
	Subject      string `json:"-"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterRequest carries the fields accepted at registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
