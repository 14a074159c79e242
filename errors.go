package authgate

import "errors"

var (
	// ErrInvalidCredentials is returned by Login when the user is unknown or the
	// password does not match. The two cases are indistinguishable on purpose.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned by Register when the username or email is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned by user store lookups for absent records.
	ErrUserNotFound = errors.New("user not found")
	// ErrTokenExpired is returned by Validate for an access token past its expiry.
	// Recoverable: the caller should attempt Refresh.
	ErrTokenExpired = errors.New("access token expired")
	// ErrTokenInvalid is returned by Validate for a tampered or malformed access
	// token. Terminal: no retry, the client must log in again.
	ErrTokenInvalid = errors.New("invalid access token")
	// ErrRefreshExpired is returned by Refresh for a refresh token past its expiry.
	// Terminal: forces re-login.
	ErrRefreshExpired = errors.New("refresh token expired")
	// ErrRefreshInvalid is returned by Refresh for a tampered, malformed, or
	// wrong-kind refresh token.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrRefreshReuse is returned by Refresh when the presented token was already
	// rotated out. The session is revoked as a replay defense.
	ErrRefreshReuse = errors.New("refresh token reuse detected")
	// ErrSessionRevoked is returned when a cryptographically valid token points at
	// a session record that no longer exists.
	ErrSessionRevoked = errors.New("session revoked")
	// ErrSessionUnavailable wraps session store infrastructure failures. It is an
	// infrastructure error, never an authentication verdict.
	ErrSessionUnavailable = errors.New("session backend unavailable")
	// ErrEngineNotReady is returned when an Engine method is called on a nil or
	// partially constructed engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
