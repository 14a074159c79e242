package authgate

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/avykov/authgate/internal/metrics"
	"github.com/avykov/authgate/jwt"
	"github.com/avykov/authgate/password"
	"github.com/avykov/authgate/session"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the first Engine method call.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	users  UserStore
	logger *zerolog.Logger
	prom   prometheus.Registerer

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the configuration. The value is cloned; later mutation
// of cfg by the caller has no effect on the built engine.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the session store. The client is
// owned by the caller; the engine never closes it.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserStore sets the credential store.
func (b *Builder) WithUserStore(users UserStore) *Builder {
	b.users = users
	return b
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithMetrics registers engine counters on reg.
func (b *Builder) WithMetrics(reg prometheus.Registerer) *Builder {
	b.prom = reg
	return b
}

// Build validates the configuration, wires the stores, and returns the engine.
// A Builder can be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.users == nil {
		return nil, errors.New("user store required")
	}

	tokens, err := jwt.NewManager(jwt.Config{
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		SigningMethod: jwt.SigningMethod(cfg.JWT.SigningMethod),
		PrivateKey:    cloneBytes(cfg.JWT.PrivateKey),
		PublicKey:     cloneBytes(cfg.JWT.PublicKey),
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:       cfg,
		users:        b.users,
		sessions:     session.NewStore(b.redis, cfg.Session.RedisPrefix),
		tokens:       tokens,
		passwordHash: hasher,
		log:          zerolog.Nop(),
		now:          time.Now,
	}
	if b.logger != nil {
		engine.log = *b.logger
	}
	if b.prom != nil {
		engine.metrics = metrics.New(b.prom)
	}

	b.built = true

	return engine, nil
}
