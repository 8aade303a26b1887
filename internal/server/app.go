// Package server wires the application together: configuration, database
// access, the session store and its cleanup scheduler, the password-reset
// manager, and the operational HTTP endpoints. It also handles graceful
// shutdown on OS signals.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aquavo/authcore/internal/logging"
	"github.com/aquavo/authcore/internal/server/config"
	"github.com/aquavo/authcore/internal/server/mail"
	"github.com/aquavo/authcore/internal/server/resettokens"
	"github.com/aquavo/authcore/internal/server/sessions"
	"github.com/aquavo/authcore/internal/server/shared/db"
	"github.com/aquavo/authcore/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager db.RepositoryManager

	sessionStore *sessions.Store
	scheduler    *sessions.Scheduler
	tokens       *resettokens.Manager
	userService  *users.Service
}

// sweeper removes expired sessions and expired reset tokens in one pass so
// a single scheduler drives both.
type sweeper struct {
	store  *sessions.Store
	tokens *resettokens.Manager
}

func (s *sweeper) Cleanup(ctx context.Context) (int64, error) {
	deleted, err := s.store.Cleanup(ctx)
	if err != nil {
		return deleted, err
	}
	purged, err := s.tokens.PurgeExpired(ctx)
	return deleted + purged, err
}

func NewApp(ctx context.Context) (*App, error) {

	logger := logging.NewJSON()

	cfg := config.LoadConfig()

	rm, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store := sessions.NewStore(rm.Sessions(rm.Conn()), logger, cfg)
	tokens := resettokens.NewManager(rm.Conn(), rm, logger, cfg)
	mailer := mail.NewSMTPMailer(cfg)
	us := users.NewService(rm.Conn(), rm, tokens, mailer, logger)

	scheduler := sessions.NewScheduler(&sweeper{store: store, tokens: tokens}, logger)

	return &App{
		config:       cfg,
		logger:       logger,
		repomanager:  rm,
		sessionStore: store,
		scheduler:    scheduler,
		tokens:       tokens,
		userService:  us,
	}, nil
}

// SessionStore exposes the store for transport layers embedding the app.
func (app *App) SessionStore() *sessions.Store { return app.sessionStore }

// Users exposes the user service for transport layers embedding the app.
func (app *App) Users() *users.Service { return app.userService }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) newHTTPServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := app.repomanager.Conn().PingContext(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return &http.Server{Addr: app.config.EndpointAddr, Handler: mux}
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	app.scheduler.Start(app.config.SessionCleanupInterval)

	srv := app.newHTTPServer()
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		app.logger.Error(ctx, "http server failed", "error", runErr)
	}

	app.logger.Info(ctx, "Shutting down...")

	app.scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "http shutdown error", "error", err)
	}

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	return runErr
}
