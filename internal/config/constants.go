package config

const (
	// DefaultAPIBaseURL is the remote book API. Endpoint paths are appended
	// to it without a separator, so it must end with a slash.
	DefaultAPIBaseURL = "http://localhost:4000/api/"

	// DefaultStateDatabasePath holds the persisted session and library slices.
	DefaultStateDatabasePath = "./bookshelf-state.db"

	// DefaultKeyFileName is created in the home directory when no key is configured.
	DefaultKeyFileName = ".bookshelf-state-key"
)
