package jwt

import (
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod selects the token signature algorithm.
type SigningMethod string

const (
	// MethodHS256 signs with an HMAC-SHA256 shared secret.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 key pair.
	MethodEd25519 SigningMethod = "ed25519"
)

// Kind discriminates access from refresh tokens via the "tkn" claim.
type Kind string

const (
	// KindAccess marks a short-lived access token.
	KindAccess Kind = "access"
	// KindRefresh marks a longer-lived rotating refresh token.
	KindRefresh Kind = "refresh"
)

var (
	// ErrTokenMalformed is returned for inputs that are not structurally a JWT
	// or carry an unusable claim set.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrSignatureInvalid is returned when the signature does not verify.
	ErrSignatureInvalid = errors.New("token signature invalid")
	// ErrTokenExpired is returned for structurally valid, correctly signed
	// tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrWrongTokenKind is returned when an access token is presented where a
	// refresh token is expected, or vice versa.
	ErrWrongTokenKind = errors.New("wrong token kind")
)

// Config carries codec settings. Clock is overridable for tests and defaults
// to time.Now.
type Config struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
	Clock         func() time.Time
}

// Claims is the minimal claim set carried by both token kinds: subject,
// issued-at, expiry, plus the kind discriminator. Refresh tokens additionally
// carry a jti used for rotation tracking.
type Claims struct {
	Kind string `json:"tkn"`
	jwt.RegisteredClaims
}

// Manager encodes and decodes the token pair. Immutable after construction.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a ready codec.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) != ed25519.PrivateKeySize {
			return nil, errors.New("ed25519 private key must be 64 bytes")
		}
		if len(cfg.PublicKey) != ed25519.PublicKeySize {
			return nil, errors.New("ed25519 public key must be 32 bytes")
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Manager{config: cfg}, nil
}

// CreateAccess issues a short-lived access token bound to subject.
func (m *Manager) CreateAccess(subject string) (string, error) {
	return m.create(subject, KindAccess, "", m.config.AccessTTL)
}

// CreateRefresh issues a refresh token bound to subject. The returned jti is
// what the session store tracks for single-use rotation.
func (m *Manager) CreateRefresh(subject string) (string, string, error) {
	jti := uuid.NewString()
	token, err := m.create(subject, KindRefresh, jti, m.config.RefreshTTL)
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

func (m *Manager) create(subject string, kind Kind, jti string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("empty subject")
	}
	now := m.config.Clock()
	claims := Claims{
		Kind: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        jti,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(m.signingMethod(), claims)
	return token.SignedString(m.signKey())
}

// ParseAccess decodes and verifies an access token, returning its claims.
// Expiry is enforced here: a nil error implies the token is currently valid.
func (m *Manager) ParseAccess(tokenString string) (*Claims, error) {
	return m.parse(tokenString, KindAccess)
}

// ParseRefresh decodes and verifies a refresh token, returning its claims.
func (m *Manager) ParseRefresh(tokenString string) (*Claims, error) {
	return m.parse(tokenString, KindRefresh)
}

func (m *Manager) parse(tokenString string, kind Kind) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.signingMethod().Alg()}),
		jwt.WithTimeFunc(m.config.Clock),
		jwt.WithLeeway(m.config.Leeway),
		jwt.WithExpirationRequired(),
	}
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}

	claims := &Claims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.verifyKey(), nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}

	if claims.Kind != string(kind) {
		return nil, ErrWrongTokenKind
	}
	if claims.Subject == "" {
		return nil, ErrTokenMalformed
	}
	if kind == KindRefresh && claims.ID == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrSignatureInvalid
	default:
		return ErrTokenMalformed
	}
}

func (m *Manager) signingMethod() jwt.SigningMethod {
	if m.config.SigningMethod == MethodEd25519 {
		return jwt.SigningMethodEdDSA
	}
	return jwt.SigningMethodHS256
}

func (m *Manager) signKey() any {
	if m.config.SigningMethod == MethodEd25519 {
		return ed25519.PrivateKey(m.config.PrivateKey)
	}
	return m.config.PrivateKey
}

func (m *Manager) verifyKey() any {
	if m.config.SigningMethod == MethodEd25519 {
		return ed25519.PublicKey(m.config.PublicKey)
	}
	return m.config.PrivateKey
}
