package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/notify"
)

// ToastsController hands out pending flash toasts.
type ToastsController struct {
	flash *notify.FlashNotifier
}

func NewToastsController(flash *notify.FlashNotifier) *ToastsController {
	return &ToastsController{flash: flash}
}

// Pop returns and clears the toasts queued in the session.
func (tc *ToastsController) Pop(c *gin.Context) {
	toasts := []notify.Toast{}
	if tc.flash != nil {
		if pending := tc.flash.Pop(c.Request.Context()); pending != nil {
			toasts = pending
		}
	}
	c.JSON(http.StatusOK, gin.H{"toasts": toasts})
}
