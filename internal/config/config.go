package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// StateBackend selects where session state is persisted.
type StateBackend string

const (
	StateBackendSQLite StateBackend = "sqlite" // Local SQLite file (default)
	StateBackendRedis  StateBackend = "redis"  // Shared Redis instance
	StateBackendNone   StateBackend = "none"   // Memory only, nothing survives a restart
)

type (
	Config struct {
		API
		HTTP
		Global
		State
		Session
		LibraryRefresh
		Logging
	}

	API struct {
		BaseURL string        // Prefix prepended verbatim to every endpoint path
		Timeout time.Duration // Zero disables the client timeout
	}
	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	State struct {
		Backend       StateBackend
		DatabasePath  string
		RedisAddr     string
		RedisPassword string
		RedisDB       int
		EncryptionKey string // base64-encoded 32-byte key
		Passphrase    string // Used with argon2id when EncryptionKey is empty
		KeyFilePath   string
	}
	Session struct {
		Lifetime      time.Duration
		SecureCookies bool   // Set to false for local dev without HTTPS
		CSRFSecret    string // Hex or raw bytes; serve generates one per process when empty
	}
	LibraryRefresh struct {
		Enabled  bool
		Schedule string // Cron format: "*/30 * * * *" = every 30 minutes
	}
	Logging struct {
		Level  string
		Format string // "console" or "json"
	}
)

// NewConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence over it.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("api_timeout", "0s")
	v.SetDefault("port", 3000)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	// State persistence defaults
	v.SetDefault("state_backend", string(StateBackendSQLite))
	v.SetDefault("state_database_path", DefaultStateDatabasePath)
	v.SetDefault("redis_addr", "127.0.0.1:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("state_encryption_key", "")
	v.SetDefault("state_passphrase", "")
	v.SetDefault("state_key_file", "")

	// Web session defaults
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("secure_cookies", false)
	v.SetDefault("csrf_secret", "")

	v.SetDefault("library_refresh_enabled", false)
	v.SetDefault("library_refresh_schedule", "*/30 * * * *")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	return &Config{
		API: API{
			BaseURL: v.GetString("API_BASE_URL"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		State: State{
			Backend:       StateBackend(v.GetString("STATE_BACKEND")),
			DatabasePath:  v.GetString("STATE_DATABASE_PATH"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			EncryptionKey: v.GetString("STATE_ENCRYPTION_KEY"),
			Passphrase:    v.GetString("STATE_PASSPHRASE"),
			KeyFilePath:   v.GetString("STATE_KEY_FILE"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
			CSRFSecret:    v.GetString("CSRF_SECRET"),
		},
		LibraryRefresh: LibraryRefresh{
			Enabled:  v.GetBool("LIBRARY_REFRESH_ENABLED"),
			Schedule: v.GetString("LIBRARY_REFRESH_SCHEDULE"),
		},
		Logging: Logging{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}
