package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the /health body.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports the state backend, the API and the library
// refresh scheduler.
type HealthController struct {
	db         *sql.DB
	apiBaseURL string
	refresh    LibraryRefresh
	version    string
}

// NewHealthController checks db and refresh when they are non-nil.
func NewHealthController(db *sql.DB, apiBaseURL string, refresh LibraryRefresh, version string) *HealthController {
	return &HealthController{
		db:         db,
		apiBaseURL: apiBaseURL,
		refresh:    refresh,
		version:    version,
	}
}

// refreshCheck never marks the service unhealthy.
func refreshCheck(refresh LibraryRefresh) string {
	switch {
	case refresh.IsSyncing():
		return "syncing"
	case refresh.IsRunning():
		if next := refresh.NextRunTime(); next != nil {
			return "idle, next run " + next.Format(time.RFC3339)
		}
		return "idle"
	default:
		return "disabled"
	}
}

// Status answers 503 when any dependency is unhealthy.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			checks["state"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["state"] = "ok"
		}
	} else {
		checks["state"] = "not configured"
	}

	if h.apiBaseURL == "" {
		checks["api"] = "not configured"
		status = "unhealthy"
	} else {
		checks["api"] = h.apiBaseURL
	}

	if h.refresh != nil {
		checks["library_refresh"] = refreshCheck(h.refresh)
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
