package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/api"
	"github.com/mrlokans/bookshelf/internal/app"
	"github.com/mrlokans/bookshelf/internal/cli"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/notify"
	"github.com/mrlokans/bookshelf/internal/persistence"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/stores"
)

// =============================================================================
// Remote API
// =============================================================================

var _ stores.Authenticator = (*api.Client)(nil)
var _ services.CatalogClient = (*api.Client)(nil)
var _ services.LibraryClient = (*api.Client)(nil)

// =============================================================================
// Session
// =============================================================================

var _ services.TokenSource = (*stores.AuthStore)(nil)
var _ http.AuthChecker = (*stores.AuthStore)(nil)
var _ scheduler.SessionChecker = (*stores.AuthStore)(nil)

// =============================================================================
// State Backends
// =============================================================================

var _ persistence.KV = (*persistence.MemoryKV)(nil)
var _ persistence.KV = (*persistence.SQLiteKV)(nil)
var _ persistence.KV = (*persistence.RedisKV)(nil)

// =============================================================================
// Notifications
// =============================================================================

var _ notify.Notifier = (*notify.Fanout)(nil)
var _ notify.Notifier = (*notify.LogNotifier)(nil)
var _ notify.Notifier = (*notify.FlashNotifier)(nil)

// =============================================================================
// Background Refresh
// =============================================================================

var _ scheduler.LibraryRefresher = (*services.LibraryService)(nil)
var _ scheduler.Persister = (*app.App)(nil)
var _ http.LibraryRefresh = (*scheduler.LibraryRefreshScheduler)(nil)

// =============================================================================
// Commands
// =============================================================================

var _ cli.Command = (*cli.LoginCommand)(nil)
var _ cli.Command = (*cli.LogoutCommand)(nil)
var _ cli.Command = (*cli.WhoamiCommand)(nil)
var _ cli.Command = (*cli.SearchCommand)(nil)
var _ cli.Command = (*cli.BookCommand)(nil)
var _ cli.Command = (*cli.ReviewsCommand)(nil)
var _ cli.Command = (*cli.ReviewCommand)(nil)
var _ cli.Command = (*cli.LibraryCommand)(nil)
var _ cli.Command = (*cli.LibraryUpdateCommand)(nil)
var _ cli.Command = (*cli.LibraryRemoveCommand)(nil)
