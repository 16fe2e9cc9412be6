package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/api"
	"github.com/mrlokans/bookshelf/internal/guard"
)

// NewRouter builds the gin engine with sessions, CSRF and the route guard
// enabled as cfg allows.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.SessionLoadSave())
	}

	router.Use(RouteGuardMiddleware(cfg.App.Auth))

	sqlDB, _ := cfg.App.SQLDB()
	health := NewHealthController(sqlDB, cfg.App.Config.API.BaseURL, cfg.Refresh, cfg.Version)
	books := NewBooksController(cfg.App.Search, cfg.App.BookDetail, cfg.App.Books, cfg.App.Detail, logger)
	authController := NewAuthController(cfg.App, logger)
	library := NewLibraryController(cfg.App, cfg.Refresh, logger)
	toasts := NewToastsController(cfg.Flash)

	router.GET("/health", health.Status)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(api.Registry, promhttp.HandlerOpts{})))
	router.GET("/toasts", toasts.Pop)

	router.GET(guard.RouteHome, books.Home)
	router.DELETE("/search", books.ClearSearch)
	router.GET("/books/:id", books.GetBook)
	router.GET("/books/:id/reviews", books.GetReviews)
	router.POST("/books/:id/reviews", books.CreateReview)

	router.GET(guard.RouteLogin, authController.Page)
	router.POST(guard.RouteLogin, authController.Login)
	router.GET(guard.RouteRegister, authController.Page)
	router.POST(guard.RouteRegister, authController.Register)
	router.POST("/logout", authController.Logout)

	router.GET(guard.RouteLibrary, library.List)
	router.POST(guard.RouteLibrary+"/refresh", library.Refresh)
	router.PUT(guard.RouteLibrary+"/:bookId", library.UpdateReview)
	router.DELETE(guard.RouteLibrary+"/:bookId", library.Remove)

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
