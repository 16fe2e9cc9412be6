package http

import (
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/app"
	"github.com/mrlokans/bookshelf/internal/notify"
)

// RouterConfig contains the dependencies of the web front end.
type RouterConfig struct {
	App *app.App

	// Sessions carry flash toasts. Nil disables sessions and /toasts
	// returns nothing.
	Sessions *SessionManager
	Flash    *notify.FlashNotifier

	// CSRF protection is enabled when CSRFSecret is set. serve always sets it.
	CSRFSecret    []byte
	SecureCookies bool

	// Refresh is the background library refresh. Nil leaves it out of
	// /health and makes ?background=true refresh inline.
	Refresh LibraryRefresh

	Version string
	Logger  *zap.Logger
}

// LibraryRefresh is the background refresh the web front end can report on
// and trigger.
type LibraryRefresh interface {
	IsRunning() bool
	IsSyncing() bool
	NextRunTime() *time.Time
	RunNow()
}
