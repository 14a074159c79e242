package authgate

import (
	"context"
	"errors"
	"fmt"

	"github.com/avykov/authgate/internal/metrics"
	"github.com/avykov/authgate/jwt"
	"github.com/avykov/authgate/session"
)

// Validate checks an access token and returns the subject identifier. A token
// is valid only when the signature verifies, the expiry has not passed, AND a
// live session record exists for the subject; token validity alone is never
// sufficient. Expiry surfaces as [ErrTokenExpired] so the caller can attempt
// Refresh; tampered or malformed tokens fail permanently with
// [ErrTokenInvalid].
func (e *Engine) Validate(ctx context.Context, accessToken string) (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}

	claims, err := e.tokens.ParseAccess(accessToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			e.metrics.IncValidation(metrics.OutcomeExpired)
			return "", ErrTokenExpired
		}
		e.metrics.IncValidation(metrics.OutcomeDenied)
		return "", ErrTokenInvalid
	}

	if _, err := e.sessions.Get(ctx, claims.Subject); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			e.metrics.IncValidation(metrics.OutcomeRevoked)
			e.log.Warn().Str("user_id", claims.Subject).Msg("valid token for revoked session")
			return "", ErrSessionRevoked
		}
		e.metrics.IncValidation(metrics.OutcomeError)
		return "", fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}

	e.metrics.IncValidation(metrics.OutcomeSuccess)

	return claims.Subject, nil
}
