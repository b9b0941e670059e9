package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ward/cmd/identity"
	"ward/cmd/internal/auth/api"
	"ward/cmd/internal/auth/session"
	"ward/cmd/security/password"
)

// App owns the wired service: stores, auth handler and HTTP server.
type App struct {
	cfg Config
	log *slog.Logger

	pool     *pgxpool.Pool
	auth     *api.Handler
	bindings session.BindingStore
}

// New wires the application from config. It validates the security
// policy, loads the per-package configs and selects Postgres or
// in-memory stores depending on WARD_DATABASE_URL.
func New(ctx context.Context, cfg Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	if err := ValidateSecurityConfig(cfg, log); err != nil {
		return nil, err
	}

	pwCfg, err := password.FromEnv()
	if err != nil {
		return nil, err
	}
	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	authCfg := api.LoadConfigFromEnv()

	a := &App{cfg: cfg, log: log}

	identities, bindings, err := a.newStores(ctx)
	if err != nil {
		return nil, err
	}
	a.bindings = bindings

	handler, err := api.NewHandler(log, authCfg, pwCfg, sessCfg, identities, bindings)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.auth = handler
	return a, nil
}

func (a *App) newStores(ctx context.Context) (identity.Store, session.BindingStore, error) {
	if a.cfg.DatabaseURL == "" {
		a.log.Warn("store.memory",
			slog.String("detail", "no WARD_DATABASE_URL; state is lost on restart"))
		return identity.NewMemoryStore(), session.NewMemoryStore(), nil
	}

	pool, err := NewDBPool(ctx, a.cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := PingDB(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	a.pool = pool

	identities, err := identity.NewPostgresStore(pool, identity.WithSchema(a.cfg.DBSchema))
	if err != nil {
		return nil, nil, err
	}
	bindings, err := session.NewPostgresStore(pool, session.WithSchema(a.cfg.DBSchema))
	if err != nil {
		return nil, nil, err
	}
	a.log.Info("store.postgres", slog.String("schema", a.cfg.DBSchema))
	return identities, bindings, nil
}

// Close releases resources owned by the App.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}

// Serve runs the HTTP server until ctx is canceled, then shuts it
// down gracefully within ShutdownTimeout.
func (a *App) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	a.registerHTTP(mux)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestMetrics(WithRequestLogging(a.log, mux)),
		ReadTimeout:       a.cfg.ReadTimeout,
		ReadHeaderTimeout: a.cfg.ReadHeaderTimeout,
		WriteTimeout:      a.cfg.WriteTimeout,
		IdleTimeout:       a.cfg.IdleTimeout,
		MaxHeaderBytes:    a.cfg.MaxHeaderBytes,
	}

	go a.pruneLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http.listen", slog.String("addr", a.cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	a.log.Info("http.stopped")
	return nil
}

// pruneLoop removes expired session bindings on a fixed interval so
// the binding table does not grow without bound.
func (a *App) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.PruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruneCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			n, err := a.bindings.PruneExpired(pruneCtx, time.Now().UTC())
			cancel()
			if err != nil {
				a.log.Warn("session.prune.fail", "error", err)
				continue
			}
			if n > 0 {
				a.log.Info("session.prune", slog.Int64("removed", n))
			}
		}
	}
}
