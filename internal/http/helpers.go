package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/api"
	"github.com/mrlokans/bookshelf/internal/app"
)

// ErrorResponse is the error body of every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"` // machine-readable error code
	Details any    `json:"details,omitempty"`
}

// SuccessResponse is the body of actions that return no resource.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAPIError maps an API client failure to a status and an error body
// carrying the API's message.
func respondAPIError(c *gin.Context, err error) {
	c.JSON(statusForError(err), ErrorResponse{Error: err.Error(), Code: string(api.KindOf(err))})
}

// statusForError passes client errors of the remote API through and maps
// everything else to 502 or 401.
func statusForError(err error) int {
	switch api.KindOf(err) {
	case api.KindUnauthenticated:
		return http.StatusUnauthorized
	case api.KindStatus:
		if status := api.StatusCode(err); status >= 400 && status < 500 {
			return status
		}
		return http.StatusBadGateway
	case api.KindNetwork, api.KindMalformed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// persistState saves the persisted slices after a mutation. A failure is
// logged and does not fail the request.
func persistState(c *gin.Context, a *app.App, logger *zap.Logger) {
	if err := a.Persist(c.Request.Context()); err != nil {
		logger.Warn("failed to persist state", zap.String("path", c.FullPath()), zap.Error(err))
	}
}
