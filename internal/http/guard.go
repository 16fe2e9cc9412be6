package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/guard"
)

// AuthChecker reports whether a session exists.
type AuthChecker interface {
	IsAuthenticated() bool
}

// RouteGuardMiddleware evaluates the route guard on every request.
func RouteGuardMiddleware(auth AuthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if target, ok := guard.Redirect(auth.IsAuthenticated(), c.Request.URL.Path); ok {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
