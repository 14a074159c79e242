package authgate

import (
	"context"
	"errors"
	"fmt"

	"github.com/avykov/authgate/internal/metrics"
	"github.com/avykov/authgate/jwt"
	"github.com/avykov/authgate/session"
)

// Refresh rotates a refresh token: the presented token's id is atomically
// swapped for a new one in the session record (extending its TTL), then a new
// access/refresh pair is issued. Each refresh token is single-use: presenting
// an already-rotated token revokes the session and returns [ErrRefreshReuse].
// An expired refresh token is terminal ([ErrRefreshExpired]); it never creates
// or extends a session record.
//
// Refresh is at-least-once: if the caller aborts after rotation, the rotated
// record stands and the client must log in again.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.ParseRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			e.metrics.IncRefresh(metrics.OutcomeExpired)
			return nil, ErrRefreshExpired
		}
		e.metrics.IncRefresh(metrics.OutcomeDenied)
		return nil, ErrRefreshInvalid
	}

	nextToken, nextID, err := e.tokens.CreateRefresh(claims.Subject)
	if err != nil {
		e.metrics.IncRefresh(metrics.OutcomeError)
		return nil, err
	}

	err = e.sessions.Rotate(ctx, claims.Subject, claims.ID, nextID, e.config.JWT.RefreshTTL)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrSessionNotFound):
		e.metrics.IncRefresh(metrics.OutcomeRevoked)
		return nil, ErrSessionRevoked
	case errors.Is(err, session.ErrRotateMismatch):
		e.metrics.IncRefresh(metrics.OutcomeReuse)
		e.log.Warn().Str("user_id", claims.Subject).Msg("refresh reuse detected, session revoked")
		return nil, ErrRefreshReuse
	default:
		e.metrics.IncRefresh(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}

	accessToken, err := e.tokens.CreateAccess(claims.Subject)
	if err != nil {
		e.metrics.IncRefresh(metrics.OutcomeError)
		return nil, err
	}

	e.metrics.IncRefresh(metrics.OutcomeSuccess)
	e.log.Debug().Str("user_id", claims.Subject).Msg("refresh rotated")

	return &TokenPair{
		Subject:      claims.Subject,
		AccessToken:  accessToken,
		RefreshToken: nextToken,
	}, nil
}
