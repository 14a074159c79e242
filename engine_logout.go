package authgate

import (
	"context"
	"fmt"
)

// Logout revokes the subject's session record. Every outstanding access token
// for the subject dies with the record, regardless of remaining token lifetime.
// Logout is idempotent: revoking an absent session is a success.
func (e *Engine) Logout(ctx context.Context, subject string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	if err := e.sessions.Delete(ctx, subject); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}

	e.metrics.IncLogout()
	e.log.Info().Str("user_id", subject).Msg("session revoked")

	return nil
}
