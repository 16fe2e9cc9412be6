package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/app"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/crypto"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/notify"
	"github.com/mrlokans/bookshelf/internal/persistence"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const libraryBody = `[
	{"_id":"s1","book_id":{"_id":"OL1W","title":"Dune","author":"Herbert","publication_date":1965},"userReview":{"_id":"r1","rating":4,"private":false,"description":"good","createdAt":"2024-01-01"}},
	{"_id":"s2","book_id":{"_id":"OL2W","title":"Emma","author":"Austen"}}
]`

func newMockAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/user/login", func(w http.ResponseWriter, r *http.Request) {
		var creds entities.UserCredentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(entities.AuthResponse{
			User:  &entities.User{ID: "u1", Email: creds.Email},
			Token: "tok",
		})
	})
	mux.HandleFunc("/books/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "boom" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"search is down"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"OL1W","title":"Dune","author":"Herbert"}]`))
	})
	mux.HandleFunc("/books/OL1W", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"OL1W","title":"Dune","author":"Herbert"}`))
	})
	mux.HandleFunc("/books/review/OL1W", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"_id":"r1","rating":3,"private":false,"description":"ok","createdAt":"2024-01-01"},{"_id":"r2","rating":5,"private":false,"description":"great","createdAt":"2024-01-02"}]`))
	})
	mux.HandleFunc("/books/OL1W/reviews", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"r3","rating":4,"private":false,"description":"nice","createdAt":"2024-02-01"}`))
	})
	mux.HandleFunc("/books/my-library", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(libraryBody))
	})
	mux.HandleFunc("/books/my-library/OL2W", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			_, _ = w.Write([]byte(`{"_id":"r9","rating":5,"private":false,"description":"loved it","createdAt":"2024-03-01"}`))
		case http.MethodDelete:
			_, _ = w.Write([]byte(`{"message":"deleted"}`))
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	server := newMockAPI(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	cfg := &config.Config{
		API:   config.API{BaseURL: server.URL + "/"},
		State: config.State{Backend: config.StateBackendNone, EncryptionKey: key},
	}
	a, err := app.NewWithKV(context.Background(), cfg, zap.NewNop(), persistence.NewMemoryKV())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func newTestRouter(t *testing.T) (*gin.Engine, *app.App) {
	t.Helper()
	a := newTestApp(t)
	return NewRouter(RouterConfig{App: a, Version: "test"}), a
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var payload *strings.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		payload = strings.NewReader(string(raw))
	} else {
		payload = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine) {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/login", CredentialsRequest{Email: "ana@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "test", response.Version)
	assert.Equal(t, "not configured", response.Checks["state"])
	assert.NotContains(t, response.Checks, "library_refresh")
	assert.NotEmpty(t, response.Time)
}

type fakeRefresh struct {
	running bool
	syncing bool
	next    time.Time
	runs    atomic.Int32
}

func (f *fakeRefresh) IsRunning() bool { return f.running }
func (f *fakeRefresh) IsSyncing() bool { return f.syncing }
func (f *fakeRefresh) RunNow()         { f.runs.Add(1) }

func (f *fakeRefresh) NextRunTime() *time.Time {
	if !f.running {
		return nil
	}
	return &f.next
}

func TestHealth_LibraryRefresh(t *testing.T) {
	next := time.Date(2026, 1, 2, 3, 30, 0, 0, time.UTC)
	tests := []struct {
		name    string
		refresh *fakeRefresh
		want    string
	}{
		{"disabled", &fakeRefresh{}, "disabled"},
		{"idle", &fakeRefresh{running: true, next: next}, "idle, next run 2026-01-02T03:30:00Z"},
		{"syncing", &fakeRefresh{running: true, syncing: true, next: next}, "syncing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(RouterConfig{App: newTestApp(t), Refresh: tt.refresh})

			w := doJSON(router, http.MethodGet, "/health", nil)

			assert.Equal(t, http.StatusOK, w.Code)
			var response HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.want, response.Checks["library_refresh"])
		})
	}
}

func TestLibraryRoutes_BackgroundRefresh(t *testing.T) {
	t.Run("starts the scheduler refresh", func(t *testing.T) {
		refresh := &fakeRefresh{running: true}
		router := NewRouter(RouterConfig{App: newTestApp(t), Refresh: refresh})
		login(t, router)

		w := doJSON(router, http.MethodPost, "/myLibrery/refresh?background=true", nil)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, int32(1), refresh.runs.Load())
	})

	t.Run("does not start a second refresh", func(t *testing.T) {
		refresh := &fakeRefresh{running: true, syncing: true}
		router := NewRouter(RouterConfig{App: newTestApp(t), Refresh: refresh})
		login(t, router)

		w := doJSON(router, http.MethodPost, "/myLibrery/refresh?background=true", nil)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Zero(t, refresh.runs.Load())
	})

	t.Run("refreshes inline without a scheduler", func(t *testing.T) {
		router, _ := newTestRouter(t)
		login(t, router)

		w := doJSON(router, http.MethodPost, "/myLibrery/refresh?background=true", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var view LibraryView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Len(t, view.Selections, 2)
	})
}

func TestHome_Search(t *testing.T) {
	t.Run("renders results for q", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(router, http.MethodGet, "/?q=dune", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var view SearchView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "dune", view.Query)
		assert.True(t, view.HasResults)
		assert.True(t, view.HasSearched)
		assert.False(t, view.Loading)
		require.Len(t, view.Results, 1)
		assert.Equal(t, "Dune", view.Results[0].Title)
	})

	t.Run("initial page has not searched", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(router, http.MethodGet, "/", nil)

		var view SearchView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.False(t, view.HasSearched)
		assert.False(t, view.IsEmpty)
		assert.Empty(t, view.Results)
	})

	t.Run("failed search keeps the page and shows the error", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(router, http.MethodGet, "/?q=boom", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var view SearchView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "search is down", view.Error)
		assert.False(t, view.Loading)
	})

	t.Run("clear search", func(t *testing.T) {
		router, _ := newTestRouter(t)
		doJSON(router, http.MethodGet, "/?q=dune", nil)

		w := doJSON(router, http.MethodDelete, "/search", nil)

		var view SearchView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Empty(t, view.Query)
		assert.False(t, view.HasSearched)
	})
}

func TestBookRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("book detail", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/books/OL1W", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var view BookView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		require.NotNil(t, view.Book)
		assert.Equal(t, "Dune", view.Book.Title)
	})

	t.Run("missing book passes the API status through", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/books/nope", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not found", response.Error)
		assert.Equal(t, "status", response.Code)
	})

	t.Run("reviews with average", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/books/OL1W/reviews", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var view ReviewsView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Len(t, view.Reviews, 2)
		assert.True(t, view.HasReviews)
		assert.Equal(t, 4.0, view.AverageRating)
	})

	t.Run("create review", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/books/OL1W/reviews", ReviewRequest{Rating: 4, Comment: "nice"})

		require.Equal(t, http.StatusCreated, w.Code)
		var review entities.Review
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
		assert.Equal(t, "r3", review.ID)
	})

	t.Run("create review without comment", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/books/OL1W/reviews", ReviewRequest{Rating: 4})

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("create review rejects out of range rating", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/books/OL1W/reviews", ReviewRequest{Rating: 7, Comment: "nice"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouteGuard(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/myLibrery", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = doJSON(router, http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	login(t, router)

	w = doJSON(router, http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = doJSON(router, http.MethodGet, "/register", nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestLogin(t *testing.T) {
	t.Run("bad credentials", func(t *testing.T) {
		router, a := newTestRouter(t)

		w := doJSON(router, http.MethodPost, "/login", CredentialsRequest{Email: "ana@example.com", Password: "wrong"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var view SessionView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.False(t, view.Authenticated)
		assert.Equal(t, entities.SessionError, view.Status)
		assert.Equal(t, "invalid credentials", view.Error)
		assert.False(t, a.Auth.IsAuthenticated())
	})

	t.Run("missing fields", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(router, http.MethodPost, "/login", CredentialsRequest{Email: "ana@example.com"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success then logout", func(t *testing.T) {
		router, a := newTestRouter(t)

		w := doJSON(router, http.MethodPost, "/login", CredentialsRequest{Email: "ana@example.com", Password: "secret"})

		require.Equal(t, http.StatusOK, w.Code)
		var view SessionView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.True(t, view.Authenticated)
		require.NotNil(t, view.User)
		assert.Equal(t, "u1", view.User.ID)

		w = doJSON(router, http.MethodPost, "/logout", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, a.Auth.IsAuthenticated())
	})
}

func TestLibraryRoutes(t *testing.T) {
	router, a := newTestRouter(t)
	login(t, router)

	w := doJSON(router, http.MethodGet, "/myLibrery", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view LibraryView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Selections, 2)
	assert.Equal(t, entities.SessionSuccess, view.Status)
	assert.Equal(t, 2, view.Stats.Total)
	assert.Equal(t, 1, view.Stats.Read)
	assert.Equal(t, 1, view.Stats.ToRead)

	w = doJSON(router, http.MethodPut, "/myLibrery/OL2W", UpdateReviewRequest{Description: "  loved it  ", Rating: 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	selection := a.Selections.FindSelectionByBookID("OL2W")
	require.NotNil(t, selection)
	require.NotNil(t, selection.UserReview)
	assert.Equal(t, 5.0, selection.UserReview.Rating)
	assert.Equal(t, entities.StatusToRead, selection.Status, "explicit status is kept")

	w = doJSON(router, http.MethodPut, "/myLibrery/OL2W", UpdateReviewRequest{Rating: 3, Status: "finished"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodDelete, "/myLibrery/OL2W", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Selections, 1)
	assert.Nil(t, a.Selections.FindSelectionByBookID("OL2W"))

	w = doJSON(router, http.MethodPost, "/myLibrery/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Selections, 2)
}

func TestLibraryRoutes_RatingMarksUnstatusedAsRead(t *testing.T) {
	router, a := newTestRouter(t)
	login(t, router)
	a.Selections.SetSelections([]entities.Selection{
		{ID: "s2", Book: entities.Book{ID: "OL2W", Title: "Emma"}},
	})

	w := doJSON(router, http.MethodPut, "/myLibrery/OL2W", UpdateReviewRequest{Rating: 5})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	selection := a.Selections.FindSelectionByBookID("OL2W")
	require.NotNil(t, selection)
	assert.Equal(t, entities.StatusRead, selection.Status)
}

func TestLibraryRoutes_Unauthenticated(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/myLibrery/refresh", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "user not authenticated", response.Error)
}

func TestMetrics(t *testing.T) {
	router, _ := newTestRouter(t)
	doJSON(router, http.MethodGet, "/?q=dune", nil)

	w := doJSON(router, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookshelf_api_requests_total")
}

func TestToasts_FlashThroughSession(t *testing.T) {
	a := newTestApp(t)
	sessions, err := NewSessionManager(nil, config.Session{})
	require.NoError(t, err)
	flash := notify.NewFlashNotifier(sessions.SessionManager)
	a.Notifier.Add(flash)
	router := NewRouter(RouterConfig{App: a, Sessions: sessions, Flash: flash})

	w := doJSON(router, http.MethodPost, "/login", CredentialsRequest{Email: "ana@example.com", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	popToasts := func() []notify.Toast {
		req := httptest.NewRequest(http.MethodGet, "/toasts", nil)
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Toasts []notify.Toast `json:"toasts"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body.Toasts
	}

	toasts := popToasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.LevelError, toasts[0].Level)
	assert.Equal(t, "invalid credentials", toasts[0].Description)

	assert.Empty(t, popToasts())
}

func TestToasts_WithoutSessions(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/toasts", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"toasts":[]}`, w.Body.String())
}

func TestCSRF(t *testing.T) {
	a := newTestApp(t)
	router := NewRouter(RouterConfig{App: a, CSRFSecret: []byte(strings.Repeat("k", 32))})

	t.Run("issues a token on GET", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/login", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(CSRFTokenHeader))
	})

	t.Run("rejects form posts without a token", func(t *testing.T) {
		form := url.Values{"email": {"ana@example.com"}, "password": {"secret"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, a.Auth.IsAuthenticated())
	})

	t.Run("JSON posts are exempt", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/login", CredentialsRequest{Email: "ana@example.com", Password: "secret"})

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestStatusForError(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	_, err := a.Client.GetBook(ctx, "nope")
	assert.Equal(t, http.StatusNotFound, statusForError(err))

	_, err = a.Client.ListLibrary(ctx, "")
	assert.Equal(t, http.StatusUnauthorized, statusForError(err))

	_, err = a.Client.SearchBooks(ctx, "boom")
	assert.Equal(t, http.StatusBadGateway, statusForError(err))

	assert.Equal(t, http.StatusInternalServerError, statusForError(assert.AnError))
}
