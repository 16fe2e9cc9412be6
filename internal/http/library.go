package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/app"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// LibraryView is the library listing with its stats and load state.
type LibraryView struct {
	Selections []entities.Selection   `json:"selections"`
	Stats      entities.LibraryStats  `json:"stats"`
	Status     entities.SessionStatus `json:"status"`
	Error      string                 `json:"error,omitempty"`
}

// UpdateReviewRequest is the PUT /myLibrery/:bookId body.
type UpdateReviewRequest struct {
	Private     *bool                  `json:"private"`
	Description string                 `json:"description"`
	Rating      float64                `json:"rating" binding:"min=0,max=5"`
	Status      entities.ReadingStatus `json:"status"`
}

// LibraryController serves the signed-in user's library.
type LibraryController struct {
	app     *app.App
	refresh LibraryRefresh
	logger  *zap.Logger
}

// NewLibraryController builds the controller. refresh may be nil.
func NewLibraryController(a *app.App, refresh LibraryRefresh, logger *zap.Logger) *LibraryController {
	return &LibraryController{app: a, refresh: refresh, logger: logger}
}

func (lc *LibraryController) view() LibraryView {
	selections := lc.app.Selections.Selections()
	if selections == nil {
		selections = []entities.Selection{}
	}
	return LibraryView{
		Selections: selections,
		Stats:      lc.app.Selections.Stats(),
		Status:     lc.app.Selections.Status(),
		Error:      lc.app.Selections.Error(),
	}
}

// requireSession answers 401 when no session exists. The route guard
// normally redirects first.
func (lc *LibraryController) requireSession(c *gin.Context) bool {
	if lc.app.Library.CheckAuthentication(c.Request.Context()) {
		return true
	}
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated", Code: "unauthenticated"})
	return false
}

// List fetches the library from the API.
func (lc *LibraryController) List(c *gin.Context) {
	if !lc.requireSession(c) {
		return
	}
	if _, err := lc.app.Library.FetchUserLibrary(c.Request.Context()); err != nil {
		respondAPIError(c, err)
		return
	}
	persistState(c, lc.app, lc.logger)
	c.JSON(http.StatusOK, lc.view())
}

// Refresh reloads the library. With ?background=true and a scheduler
// configured it starts the refresh and answers 202 at once.
func (lc *LibraryController) Refresh(c *gin.Context) {
	if !lc.requireSession(c) {
		return
	}
	if lc.refresh != nil && c.Query("background") == "true" {
		if !lc.refresh.IsSyncing() {
			lc.refresh.RunNow()
		}
		c.JSON(http.StatusAccepted, SuccessResponse{Message: "library refresh started"})
		return
	}
	if _, err := lc.app.Library.RefreshLibrary(c.Request.Context()); err != nil {
		respondAPIError(c, err)
		return
	}
	persistState(c, lc.app, lc.logger)
	c.JSON(http.StatusOK, lc.view())
}

// UpdateReview saves the user's review and returns it with the selection.
func (lc *LibraryController) UpdateReview(c *gin.Context) {
	if !lc.requireSession(c) {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "rating must be between 0 and 5")
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		respondBadRequest(c, "status must be one of read, reading, to-read")
		return
	}

	bookID := c.Param("bookId")
	review, err := lc.app.Library.UpdateBookReview(c.Request.Context(), bookID, entities.ReviewUpdatePayload{
		Private:     req.Private,
		Description: req.Description,
		Rating:      req.Rating,
		Status:      req.Status,
	})
	if err != nil {
		respondAPIError(c, err)
		return
	}
	persistState(c, lc.app, lc.logger)
	c.JSON(http.StatusOK, gin.H{
		"review":    review,
		"selection": lc.app.Library.FindSelectionByBookID(bookID),
	})
}

// Remove deletes the book from the library.
func (lc *LibraryController) Remove(c *gin.Context) {
	if !lc.requireSession(c) {
		return
	}
	if err := lc.app.Library.RemoveBookFromLibrary(c.Request.Context(), c.Param("bookId")); err != nil {
		respondAPIError(c, err)
		return
	}
	persistState(c, lc.app, lc.logger)
	c.JSON(http.StatusOK, lc.view())
}
