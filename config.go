package authgate

import (
	"errors"
	"net/http"
	"time"
)

// Config is the immutable engine configuration. It is passed to [Builder.WithConfig]
// once and cloned at build time; the Engine never reads ambient globals.
type Config struct {
	JWT      JWTConfig
	Session  SessionConfig
	Password PasswordConfig
	Routes   RouteConfig
	Cookies  CookieConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig controls token issuance. For hs256 PrivateKey is the shared secret;
// for ed25519 both PrivateKey and PublicKey must be set.
type JWTConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the Redis session namespace. Session keys are shaped
// as <RedisPrefix>:<user_id>.
type SessionConfig struct {
	RedisPrefix string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig carries argon2id cost parameters.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
ROUTE CONFIG
====================================
*/

// RouteConfig is the route sensitivity map consumed by the access middleware.
//
// LoginPath and RegisterPath are entry pages: requests carrying a valid access
// token are redirected to HomePath instead of reaching them. PublicPaths are
// exempt from enforcement entirely; an entry ending in "/" matches by prefix.
// Requests under an APIPrefixes entry receive 401 responses instead of
// redirects on authentication failure.
type RouteConfig struct {
	LoginPath    string
	RegisterPath string
	HomePath     string
	PublicPaths  []string
	APIPrefixes  []string
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig controls how the token pair is transported to browsers.
type CookieConfig struct {
	AccessName  string
	RefreshName string
	Path        string
	Domain      string
	Secure      bool
	SameSite    http.SameSite
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the baseline configuration. Key material must still be
// supplied by the caller.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
			SigningMethod: "hs256",
			Issuer:        "authgate",
			Leeway:        30 * time.Second,
		},
		Session: SessionConfig{
			RedisPrefix: "session",
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Routes: RouteConfig{
			LoginPath:    "/login",
			RegisterPath: "/register",
			HomePath:     "/",
			PublicPaths: []string{
				"/auth/login",
				"/auth/register",
				"/auth/refresh",
				"/healthz",
				"/metrics",
				"/static/",
			},
			APIPrefixes: []string{"/auth/", "/users/", "/api/"},
		},
		Cookies: CookieConfig{
			AccessName:  "access_token",
			RefreshName: "refresh_token",
			Path:        "/",
			Secure:      true,
			SameSite:    http.SameSiteStrictMode,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	out.Routes.PublicPaths = cloneStrings(cfg.Routes.PublicPaths)
	out.Routes.APIPrefixes = cloneStrings(cfg.Routes.APIPrefixes)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for internal consistency. It is called by
// [Builder.Build]; callers constructing a Config by hand can use it directly.
func (c *Config) Validate() error {
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT AccessTTL must be > 0")
	}
	if c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT RefreshTTL must be > 0")
	}
	if c.JWT.RefreshTTL < c.JWT.AccessTTL {
		return errors.New("JWT RefreshTTL must be >= AccessTTL")
	}
	if c.JWT.SigningMethod != "hs256" && c.JWT.SigningMethod != "ed25519" {
		return errors.New("unsupported JWT signing method")
	}
	if len(c.JWT.PrivateKey) == 0 {
		return errors.New(c.JWT.SigningMethod + " requires PrivateKey")
	}
	if c.JWT.SigningMethod == "ed25519" && len(c.JWT.PublicKey) == 0 {
		return errors.New("ed25519 requires PublicKey")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be within [0, 2m]")
	}

	if c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}

	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KB")
	}
	if c.Password.Time < 1 {
		return errors.New("Password Time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("Password Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("Password KeyLength must be >= 16")
	}

	if c.Routes.LoginPath == "" {
		return errors.New("Routes LoginPath must not be empty")
	}
	if c.Routes.HomePath == "" {
		return errors.New("Routes HomePath must not be empty")
	}

	if c.Cookies.AccessName == "" || c.Cookies.RefreshName == "" {
		return errors.New("Cookies AccessName and RefreshName must not be empty")
	}
	if c.Cookies.AccessName == c.Cookies.RefreshName {
		return errors.New("Cookies AccessName and RefreshName must differ")
	}

	return nil
}
