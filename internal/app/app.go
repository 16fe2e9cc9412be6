// Package app builds the application context: one API client, the four
// stores, the services over them and the persistence boundary.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/api"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/notify"
	"github.com/mrlokans/bookshelf/internal/persistence"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/stores"
)

// App holds the API client, the stores and services built on it, and the
// persisted state.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Client *api.Client

	Auth       *stores.AuthStore
	Books      *stores.BooksStore
	Detail     *stores.BookDetailStore
	Selections *stores.SelectionStore

	Search     *services.SearchService
	BookDetail *services.BookDetailService
	Library    *services.LibraryService

	// Notifier receives every toast; the web server attaches its flash
	// notifier here.
	Notifier *notify.Fanout

	kv    persistence.KV
	state *persistence.Store
}

// New wires the application for cfg. The returned App must be closed.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	kv, err := persistence.OpenKV(ctx, cfg.State)
	if err != nil {
		return nil, err
	}

	encryptor, err := persistence.ResolveEncryptor(ctx, kv, cfg.State)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("failed to resolve state encryption key: %w", err)
	}

	return newApp(cfg, logger, kv, persistence.NewStore(kv, encryptor, logger.Named("state"))), nil
}

// NewWithKV is New with an already opened backend.
func NewWithKV(ctx context.Context, cfg *config.Config, logger *zap.Logger, kv persistence.KV) (*App, error) {
	encryptor, err := persistence.ResolveEncryptor(ctx, kv, cfg.State)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve state encryption key: %w", err)
	}
	return newApp(cfg, logger, kv, persistence.NewStore(kv, encryptor, logger.Named("state"))), nil
}

func newApp(cfg *config.Config, logger *zap.Logger, kv persistence.KV, state *persistence.Store) *App {
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, api.WithLogger(logger.Named("api")))
	notifier := notify.NewFanout(notify.NewLogNotifier(logger.Named("notify")))

	auth := stores.NewAuthStore(client, logger.Named("auth"))
	books := stores.NewBooksStore()
	detail := stores.NewBookDetailStore()
	selections := stores.NewSelectionStore()

	return &App{
		Config: cfg,
		Logger: logger,
		Client: client,

		Auth:       auth,
		Books:      books,
		Detail:     detail,
		Selections: selections,

		Search:     services.NewSearchService(client, books, logger.Named("search")),
		BookDetail: services.NewBookDetailService(client, detail, books, logger.Named("detail")),
		Library:    services.NewLibraryService(client, auth, selections, notifier, logger.Named("library")),

		Notifier: notifier,
		kv:       kv,
		state:    state,
	}
}

// Restore loads the persisted slices into the stores.
func (a *App) Restore(ctx context.Context) error {
	authState, found, err := a.state.LoadAuth(ctx)
	if err != nil {
		return err
	}
	if found {
		a.Auth.Restore(authState)
	}

	selections, found, err := a.state.LoadSelections(ctx)
	if err != nil {
		return err
	}
	if found {
		a.Selections.Restore(selections)
	}

	a.Logger.Debug("state restored",
		zap.Bool("authenticated", a.Auth.IsAuthenticated()),
		zap.Int("selections", a.Selections.TotalBooks()),
	)
	return nil
}

// Persist writes the auth slice and the selections.
func (a *App) Persist(ctx context.Context) error {
	return errors.Join(
		a.state.SaveAuth(ctx, a.Auth.Snapshot()),
		a.state.SaveSelections(ctx, a.Selections.Selections()),
	)
}

// Logout ends the session and forgets the library of the signed-out user.
func (a *App) Logout() {
	a.Auth.Logout()
	a.Library.ClearSelections()
}

// SQLDB returns the SQLite pool when the state backend is SQLite.
func (a *App) SQLDB() (*sql.DB, bool) {
	sqliteKV, ok := a.kv.(*persistence.SQLiteKV)
	if !ok {
		return nil, false
	}
	db, err := sqliteKV.SQLDB()
	if err != nil {
		return nil, false
	}
	return db, true
}

// Close releases the state backend.
func (a *App) Close() error {
	return a.kv.Close()
}
