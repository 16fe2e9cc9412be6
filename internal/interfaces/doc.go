// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Remote API
//
//   - Authenticator: login and register (internal/stores/auth.go)
//   - CatalogClient: search, detail and reviews (internal/services/interfaces.go)
//   - LibraryClient: the signed-in user's library (internal/services/interfaces.go)
//
// All three are implemented by api.Client. Services and stores depend on the
// interfaces so tests can substitute fakes.
//
// ## Session
//
//   - TokenSource: bearer token for library calls (internal/services/interfaces.go)
//   - AuthChecker: route guard input (internal/http/guard.go)
//   - SessionChecker: skips scheduled refreshes when signed out (internal/scheduler)
//
// ## State Backends
//
//   - KV: byte storage for the persisted slices (internal/persistence/kv.go)
//
// Implemented by MemoryKV, SQLiteKV (gorm) and RedisKV (go-redis).
//
// ## Notifications
//
//   - Notifier: transient toasts (internal/notify/notify.go)
//
// # Adding a New State Backend
//
//  1. Implement KV in internal/persistence/
//
//     type BoltKV struct { db *bolt.DB }
//
//     func (b *BoltKV) Get(ctx context.Context, key string) ([]byte, bool, error)
//     func (b *BoltKV) Set(ctx context.Context, key string, value []byte) error
//     func (b *BoltKV) Delete(ctx context.Context, key string) error
//     func (b *BoltKV) Close() error
//
//  2. Add a STATE_BACKEND value in internal/config/constants.go and a case
//     in persistence.OpenKV
//
//  3. Add a compile-time check to checks.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
