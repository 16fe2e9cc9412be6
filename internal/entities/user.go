package entities

// SessionStatus tracks a request lifecycle for a store.
type SessionStatus string

const (
	SessionIdle    SessionStatus = "idle"
	SessionLoading SessionStatus = "loading"
	SessionSuccess SessionStatus = "success"
	SessionError   SessionStatus = "error"
)

// User is the account returned by login and register.
type User struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// UserCredentials is posted to the login and register endpoints.
type UserCredentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by the login and register endpoints.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
