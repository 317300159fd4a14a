// Package server initializes and runs the authentication server. It wires
// the storage backends selected by configuration, runs database migrations,
// and starts the HTTP endpoint with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mkalvans/authcore/internal/domain"
	"github.com/mkalvans/authcore/internal/logging"
	"github.com/mkalvans/authcore/internal/server/attempts"
	"github.com/mkalvans/authcore/internal/server/authflow"
	"github.com/mkalvans/authcore/internal/server/captcha"
	"github.com/mkalvans/authcore/internal/server/config"
	"github.com/mkalvans/authcore/internal/server/credentials"
	"github.com/mkalvans/authcore/internal/server/hashing"
	"github.com/mkalvans/authcore/internal/server/httpapi"
	"github.com/mkalvans/authcore/internal/server/migrations"
	"github.com/mkalvans/authcore/internal/server/notify"
	"github.com/mkalvans/authcore/internal/server/revocation"
	"github.com/mkalvans/authcore/internal/server/sessions"
	"github.com/mkalvans/authcore/internal/server/twofa"
)

type App struct {
	config *config.Config
	logger logging.Logger
	flows  *authflow.Orchestrator
	db     *sql.DB
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	hasher := hashing.NewPool(hashing.NewArgon2Hasher(hashing.DefaultParams()), c.HashWorkers)

	var db *sql.DB
	var credRepo credentials.Repository
	if c.DatabaseDSN != "" {
		var err error
		db, err = sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := runMigrations(db); err != nil {
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		credRepo = credentials.NewPostgresRepository(db)
	} else {
		credRepo = credentials.NewMemoryRepository()
	}

	var revoked revocation.Store
	var challenges twofa.Store
	if c.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword})
		revoked = revocation.NewRedisStore(client, c.RevokedTokenTTL)
		challenges = twofa.NewRedisStore(client, c.TwoFACodeTTL)
	} else {
		revoked = revocation.NewMemoryStore(c.RevokedTokenTTL)
		challenges = twofa.NewMemoryStore(c.TwoFACodeTTL)
	}

	var verifier captcha.Verifier
	if c.CaptchaSecret != "" {
		verifier = captcha.NewGoogleVerifier(domain.NewSecret(c.CaptchaSecret))
	} else {
		// No provider configured: any non-empty token passes the gate.
		verifier = captcha.StaticVerifier{Allow: true}
	}

	flows := authflow.New(authflow.Deps{
		Credentials: credentials.NewService(credRepo, hasher),
		Tokens:      sessions.NewService(c.SecretKey),
		Revoked:     revoked,
		Attempts:    attempts.NewMemoryTracker(c.ChallengeThreshold, c.AttemptWindow),
		Challenges:  challenges,
		Captcha:     verifier,
		Notifier:    notify.NewLogSender(logger),
		Logger:      logger,
		TokenTTL:    c.TokenTTL,
	})

	return &App{config: c, logger: logger, flows: flows, db: db}, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	api := httpapi.NewServer(app.flows, app.logger, app.config.CookieName, app.config.TokenTTL)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: api.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}
}
