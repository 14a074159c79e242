package authgate

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/avykov/authgate/internal/metrics"
	"github.com/avykov/authgate/jwt"
	"github.com/avykov/authgate/password"
	"github.com/avykov/authgate/session"
)

// Engine is the session lifecycle manager. It owns every state transition of a
// user session: issuance at login, rotation at refresh, revocation at logout.
// All shared mutable state lives in the external stores, so Engine methods are
// safe for concurrent use after [Builder.Build].
type Engine struct {
	config       Config
	users        UserStore
	sessions     *session.Store
	tokens       *jwt.Manager
	passwordHash *password.Argon2
	metrics      *metrics.Metrics
	log          zerolog.Logger
	now          func() time.Time
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return cloneConfig(e.config)
}

// Users returns the credential store the engine was built with.
func (e *Engine) Users() UserStore {
	if e == nil {
		return nil
	}
	return e.users
}

func (e *Engine) ready() bool {
	return e != nil &&
		e.users != nil &&
		e.sessions != nil &&
		e.tokens != nil &&
		e.passwordHash != nil
}
