package entrypoint

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/bookshelf/internal/app"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/crypto"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/logging"
	"github.com/mrlokans/bookshelf/internal/notify"
	"github.com/mrlokans/bookshelf/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the server until ctx is done, then shuts it down within the
// configured timeout.
func Serve(ctx context.Context, router http.Handler, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", zap.Duration("timeout", timeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// Call shutdown callback first (e.g., to stop the scheduler)
		if onShutdown != nil {
			onShutdown(shutdownCtx)
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logger.Info("server exiting")
		return nil
	})

	return g.Wait()
}

// Run starts the web front end and the library refresh scheduler. It
// returns after SIGINT or SIGTERM once state has been persisted.
func Run(cfg *config.Config, version string) error {
	logger, flush, err := logging.New(cfg.Logging, version)
	if err != nil {
		return err
	}
	defer flush()

	logger.Info("starting bookshelf", zap.String("api", cfg.API.BaseURL))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("error closing state backend", zap.Error(err))
		}
	}()

	if err := a.Restore(ctx); err != nil {
		logger.Warn("failed to restore state, starting empty", zap.Error(err))
	}

	sqlDB, _ := a.SQLDB()
	sessions, err := http_controllers.NewSessionManager(sqlDB, cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to initialize session manager: %w", err)
	}
	flash := notify.NewFlashNotifier(sessions.SessionManager)
	a.Notifier.Add(flash)

	csrfSecret, generated, err := resolveCSRFSecret(cfg.Session.CSRFSecret)
	if err != nil {
		return fmt.Errorf("failed to generate CSRF secret: %w", err)
	}
	if generated {
		logger.Info("generated CSRF secret (set CSRF_SECRET to persist)")
	}

	refresh := scheduler.NewLibraryRefreshScheduler(cfg.LibraryRefresh, a.Library, a.Auth, a, logger.Named("scheduler"))
	if err := refresh.Start(ctx); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		App:           a,
		Sessions:      sessions,
		Flash:         flash,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.Session.SecureCookies,
		Refresh:       refresh,
		Version:       version,
		Logger:        logger.Named("http"),
	})

	onShutdown := func(ctx context.Context) {
		refresh.Stop()
		if err := a.Persist(ctx); err != nil {
			logger.Warn("failed to persist state", zap.Error(err))
		}
	}

	return Serve(ctx, router, cfg, logger, onShutdown)
}

// resolveCSRFSecret accepts a hex secret or raw bytes and generates one when
// none is configured.
func resolveCSRFSecret(configured string) ([]byte, bool, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, false, nil
		}
		return []byte(configured), false, nil
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, false, err
	}
	secret, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, false, err
	}
	return secret, true, nil
}

// Exit prints err the way every command does and exits 1.
func Exit(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
