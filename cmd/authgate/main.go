// Command authgate runs the authentication service: PostgreSQL for
// credentials, Redis for session records, the token lifecycle engine and its
// HTTP surface on top.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/avykov/authgate"
	"github.com/avykov/authgate/httpapi"
	"github.com/avykov/authgate/internal/config"
	"github.com/avykov/authgate/internal/db"
	"github.com/avykov/authgate/pgstore"
)

func main() {
	envFile := flag.String("env", ".env", "path to the .env file")
	flag.Parse()

	if err := run(*envFile); err != nil {
		log := zerolog.New(os.Stderr).With().Timestamp().Logger()
		log.Fatal().Err(err).Msg("authgate exited")
	}
}

func run(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("applying migrations")
	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engineCfg := authgate.DefaultConfig()
	engineCfg.JWT.PrivateKey = []byte(cfg.JWTSecret)
	engineCfg.JWT.Issuer = cfg.JWTIssuer
	engineCfg.JWT.AccessTTL = cfg.AccessTTL
	engineCfg.JWT.RefreshTTL = cfg.RefreshTTL
	engineCfg.Cookies.Secure = cfg.CookieSecure

	engine, err := authgate.New().
		WithConfig(engineCfg).
		WithRedis(redisClient).
		WithUserStore(pgstore.New(pool)).
		WithLogger(log).
		WithMetrics(reg).
		Build()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewServer(engine, log, reg).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}

	var out = os.Stderr
	log := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if cfg.LogPretty {
		log = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
	}
	return log, nil
}
