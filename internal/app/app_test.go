package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/crypto"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/persistence"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/user/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(entities.AuthResponse{
			User:  &entities.User{ID: "u1", Email: "ana@example.com"},
			Token: "tok",
		})
	})
	mux.HandleFunc("/books/my-library", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"_id":"s1","book_id":{"_id":"OL1W","title":"Dune","author":"Herbert"}}]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &config.Config{
		API:   config.API{BaseURL: baseURL + "/"},
		State: config.State{Backend: config.StateBackendNone, EncryptionKey: key},
	}
}

func TestApp_PersistRestore(t *testing.T) {
	ctx := context.Background()
	server := newTestAPI(t)
	cfg := newTestConfig(t, server.URL)
	kv := persistence.NewMemoryKV()

	first, err := NewWithKV(ctx, cfg, zap.NewNop(), kv)
	require.NoError(t, err)
	require.True(t, first.Auth.Login(ctx, entities.UserCredentials{Email: "ana@example.com", Password: "pw"}))
	_, err = first.Library.FetchUserLibrary(ctx)
	require.NoError(t, err)
	require.NoError(t, first.Persist(ctx))

	second, err := NewWithKV(ctx, cfg, zap.NewNop(), kv)
	require.NoError(t, err)
	require.NoError(t, second.Restore(ctx))

	assert.True(t, second.Auth.IsAuthenticated())
	assert.Equal(t, "u1", second.Auth.User().ID)
	assert.NotNil(t, second.Selections.FindSelectionByBookID("OL1W"))
	assert.Empty(t, second.Books.SearchResults(), "search results are not persisted")
}

func TestApp_RestoreEmpty(t *testing.T) {
	ctx := context.Background()
	app, err := NewWithKV(ctx, newTestConfig(t, "http://127.0.0.1:1"), zap.NewNop(), persistence.NewMemoryKV())
	require.NoError(t, err)

	require.NoError(t, app.Restore(ctx))

	assert.False(t, app.Auth.IsAuthenticated())
	assert.False(t, app.Selections.HasSelections())
	_, ok := app.SQLDB()
	assert.False(t, ok)
}

func TestApp_Logout(t *testing.T) {
	ctx := context.Background()
	server := newTestAPI(t)
	app, err := NewWithKV(ctx, newTestConfig(t, server.URL), zap.NewNop(), persistence.NewMemoryKV())
	require.NoError(t, err)
	require.True(t, app.Auth.Login(ctx, entities.UserCredentials{Email: "ana@example.com"}))
	_, err = app.Library.FetchUserLibrary(ctx)
	require.NoError(t, err)

	app.Logout()

	assert.False(t, app.Auth.IsAuthenticated())
	assert.False(t, app.Selections.HasSelections())
}

func TestNew_SQLiteBackend(t *testing.T) {
	cfg := newTestConfig(t, "http://127.0.0.1:1")
	cfg.State.Backend = config.StateBackendSQLite
	cfg.State.DatabasePath = t.TempDir() + "/state.db"

	app, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	db, ok := app.SQLDB()
	require.True(t, ok)
	assert.NoError(t, db.Ping())
}
