package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/app"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/notify"
)

// SessionView describes the current session on the auth pages.
type SessionView struct {
	Authenticated bool                   `json:"authenticated"`
	Status        entities.SessionStatus `json:"status"`
	User          *entities.User         `json:"user,omitempty"`
	Error         string                 `json:"error,omitempty"`
	CSRFToken     string                 `json:"csrfToken,omitempty"`
}

// CredentialsRequest is the login and register body.
type CredentialsRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// AuthController signs users in and out.
type AuthController struct {
	app    *app.App
	logger *zap.Logger
}

func NewAuthController(a *app.App, logger *zap.Logger) *AuthController {
	return &AuthController{app: a, logger: logger}
}

func (ac *AuthController) sessionView(c *gin.Context) SessionView {
	return SessionView{
		Authenticated: ac.app.Auth.IsAuthenticated(),
		Status:        ac.app.Auth.Status(),
		User:          ac.app.Auth.User(),
		Error:         ac.app.Auth.Error(),
		CSRFToken:     GetCSRFToken(c),
	}
}

// Page renders the login or register page state.
func (ac *AuthController) Page(c *gin.Context) {
	c.JSON(http.StatusOK, ac.sessionView(c))
}

// Login answers 401 with an error toast when the API rejects the credentials.
func (ac *AuthController) Login(c *gin.Context) {
	ac.authenticate(c, false)
}

// Register creates the account and signs in.
func (ac *AuthController) Register(c *gin.Context) {
	ac.authenticate(c, true)
}

func (ac *AuthController) authenticate(c *gin.Context, register bool) {
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	creds := entities.UserCredentials{Username: req.Username, Email: req.Email, Password: req.Password}
	ctx := c.Request.Context()

	var ok bool
	if register {
		ok = ac.app.Auth.Register(ctx, creds)
	} else {
		ok = ac.app.Auth.Login(ctx, creds)
	}
	if !ok {
		ac.app.Notifier.Notify(ctx, notify.Error("Error", ac.app.Auth.Error()))
		c.JSON(http.StatusUnauthorized, ac.sessionView(c))
		return
	}

	persistState(c, ac.app, ac.logger)
	c.JSON(http.StatusOK, ac.sessionView(c))
}

// Logout clears the session and the library.
func (ac *AuthController) Logout(c *gin.Context) {
	ac.app.Logout()
	persistState(c, ac.app, ac.logger)
	respondSuccess(c, "Signed out")
}
