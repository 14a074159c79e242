package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/avykov/authgate"
)

// Authenticator is the slice of the engine the guard needs. Validate returns
// the subject for a live access token; Refresh rotates a refresh token into a
// fresh pair.
type Authenticator interface {
	Validate(ctx context.Context, accessToken string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (*authgate.TokenPair, error)
}

var errNoCredentials = errors.New("no credentials presented")

// Guard enforces route access. Construct with [New]; zero value is not usable.
type Guard struct {
	auth Authenticator
	cfg  authgate.Config
	log  zerolog.Logger
}

// New builds a Guard over the given authenticator and configuration. The
// configuration is cloned through the engine already; the guard only reads it.
func New(auth Authenticator, cfg authgate.Config) *Guard {
	return &Guard{
		auth: auth,
		cfg:  cfg,
		log:  zerolog.Nop(),
	}
}

// WithLogger sets the structured logger and returns the guard for chaining.
func (g *Guard) WithLogger(log zerolog.Logger) *Guard {
	g.log = log
	return g
}

// Wrap returns next behind the access guard.
//
// Decision order per request:
//
//  1. Public path: pass through untouched, no authentication attempted.
//  2. Valid access token: entry pages redirect to home, everything else runs
//     with the subject attached to the request context.
//  3. Expired or missing access token with a refresh cookie: silent refresh.
//     On success the rotated cookies are written before next runs.
//  4. Otherwise: entry pages are served anonymously; API paths get 401 with a
//     uniform body; page paths redirect to the login page. Token cookies are
//     cleared on every denial.
//
// Session store outages are answered with 503, never with a denial: an
// infrastructure failure must not log anyone out.
func (g *Guard) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if g.isPublic(path) {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := g.authenticate(w, r)
		entry := g.isEntryPage(path)

		if err == nil {
			if entry {
				http.Redirect(w, r, g.cfg.Routes.HomePath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(authgate.WithSubject(r.Context(), subject)))
			return
		}

		if errors.Is(err, authgate.ErrSessionUnavailable) {
			g.log.Error().Str("path", path).Err(err).Msg("session backend unavailable")
			g.unavailable(w, path)
			return
		}

		if entry {
			next.ServeHTTP(w, r)
			return
		}

		if !errors.Is(err, errNoCredentials) {
			g.log.Debug().Str("path", path).Err(err).Msg("request denied")
		}
		g.deny(w, r)
	})
}

// authenticate resolves the caller's subject. An expired (or absent) access
// token falls back to the refresh cookie; a successful silent refresh writes
// the rotated cookies to w before returning.
func (g *Guard) authenticate(w http.ResponseWriter, r *http.Request) (string, error) {
	access := g.accessToken(r)
	if access != "" {
		subject, err := g.auth.Validate(r.Context(), access)
		if err == nil {
			return subject, nil
		}
		if !errors.Is(err, authgate.ErrTokenExpired) {
			return "", err
		}
	}

	refresh := g.refreshToken(r)
	if refresh == "" {
		if access == "" {
			return "", errNoCredentials
		}
		return "", authgate.ErrTokenExpired
	}

	pair, err := g.auth.Refresh(r.Context(), refresh)
	if err != nil {
		return "", err
	}

	g.cfg.Cookies.SetPair(w, pair, g.cfg.JWT.AccessTTL, g.cfg.JWT.RefreshTTL)
	g.log.Debug().Str("user_id", pair.Subject).Msg("silent refresh")

	return pair.Subject, nil
}

// accessToken prefers the Authorization header over the cookie so API clients
// can override a stale browser cookie.
func (g *Guard) accessToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(g.cfg.Cookies.AccessName); err == nil {
		return c.Value
	}
	return ""
}

func (g *Guard) refreshToken(r *http.Request) string {
	if c, err := r.Cookie(g.cfg.Cookies.RefreshName); err == nil {
		return c.Value
	}
	return ""
}

func (g *Guard) isPublic(path string) bool {
	for _, p := range g.cfg.Routes.PublicPaths {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

// isEntryPage reports whether path is a page an authenticated user should be
// bounced away from.
func (g *Guard) isEntryPage(path string) bool {
	if path == g.cfg.Routes.LoginPath {
		return true
	}
	return g.cfg.Routes.RegisterPath != "" && path == g.cfg.Routes.RegisterPath
}

func (g *Guard) isAPI(path string) bool {
	for _, p := range g.cfg.Routes.APIPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// deny clears the token cookies so the client stops replaying dead
// credentials, then answers per route class.
func (g *Guard) deny(w http.ResponseWriter, r *http.Request) {
	g.cfg.Cookies.Clear(w)
	if g.isAPI(r.URL.Path) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("WWW-Authenticate", "Bearer")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Not authenticated"}`))
		return
	}
	http.Redirect(w, r, g.cfg.Routes.LoginPath, http.StatusFound)
}

func (g *Guard) unavailable(w http.ResponseWriter, path string) {
	if g.isAPI(path) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"Service unavailable"}`))
		return
	}
	http.Error(w, "service unavailable", http.StatusServiceUnavailable)
}
