// Package authgate provides the authentication core for a cookie-based web API:
// JWT access tokens, rotating refresh tokens, and Redis-backed session records
// that act as the server-side revocation authority.
//
// The package is designed for concurrent server workloads: Engine methods are safe
// to call from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Engine], [Builder], [Config], and the
// [UserStore] contract. Token encoding lives in jwt/, session persistence in
// session/, password hashing in password/, and request interception in middleware/.
// The Engine owns every state transition of a session (issue, rotate, revoke);
// the middleware only reads token and session state and triggers the refresh path.
//
// # What this package must NOT do
//
//   - Expose the Redis client or session encoding in its public API.
//   - Read configuration from ambient globals; everything arrives through [Config].
//   - Perform I/O outside of Engine methods.
package authgate
