package authgate

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/avykov/authgate/internal/metrics"
)

// Register creates a new identity record: the password is hashed, the record
// is persisted, and uniqueness conflicts surface as [ErrUserExists]. No
// session is created; the caller logs in separately.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, errors.New("username, email, and password are required")
	}

	hash, err := e.passwordHash.Hash(req.Password)
	if err != nil {
		e.metrics.IncRegistration(metrics.OutcomeDenied)
		return nil, err
	}

	user, err := e.users.Create(ctx, CreateUserInput{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			e.metrics.IncRegistration(metrics.OutcomeDenied)
			e.log.Warn().Str("username", username).Msg("registration rejected: identity taken")
			return nil, ErrUserExists
		}
		e.metrics.IncRegistration(metrics.OutcomeError)
		return nil, err
	}

	e.metrics.IncRegistration(metrics.OutcomeSuccess)
	e.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	return user, nil
}
