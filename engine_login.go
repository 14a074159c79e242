package authgate

import (
	"context"
	"errors"
	"fmt"

	"github.com/avykov/authgate/internal/metrics"
	"github.com/avykov/authgate/session"
)

// Login authenticates username/password and opens a session: an access token
// and a refresh token are issued, and a session record with the refresh-token
// lifetime is written. Unknown user and wrong password collapse to
// [ErrInvalidCredentials]; a decoy hash verification keeps the two cases
// indistinguishable by timing.
func (e *Engine) Login(ctx context.Context, username, pass string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if username == "" || pass == "" {
		e.metrics.IncLogin(metrics.OutcomeDenied)
		return nil, ErrInvalidCredentials
	}

	user, err := e.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.passwordHash.DummyVerify(pass)
			e.metrics.IncLogin(metrics.OutcomeDenied)
			e.log.Warn().Str("username", username).Msg("login rejected")
			return nil, ErrInvalidCredentials
		}
		e.metrics.IncLogin(metrics.OutcomeError)
		return nil, err
	}

	ok, err := e.passwordHash.Verify(pass, user.PasswordHash)
	if err != nil || !ok {
		e.metrics.IncLogin(metrics.OutcomeDenied)
		e.log.Warn().Str("username", username).Msg("login rejected")
		return nil, ErrInvalidCredentials
	}

	pair, err := e.openSession(ctx, user.ID)
	if err != nil {
		e.metrics.IncLogin(metrics.OutcomeError)
		return nil, err
	}

	e.metrics.IncLogin(metrics.OutcomeSuccess)
	e.log.Info().Str("user_id", user.ID).Msg("login succeeded")

	return pair, nil
}

// openSession issues a fresh token pair and writes the session record. The
// record write is last-writer-wins: a second login from another client simply
// replaces the tracked refresh id.
func (e *Engine) openSession(ctx context.Context, userID string) (*TokenPair, error) {
	refreshToken, jti, err := e.tokens.CreateRefresh(userID)
	if err != nil {
		return nil, err
	}
	accessToken, err := e.tokens.CreateAccess(userID)
	if err != nil {
		return nil, err
	}

	rec := session.Record{
		UserID:    userID,
		RefreshID: jti,
		CreatedAt: e.now().Unix(),
	}
	if err := e.sessions.Save(ctx, rec, e.config.JWT.RefreshTTL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}

	return &TokenPair{
		Subject:      userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
