package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/stores"
)

// SearchView is the home page: the last search and its state.
type SearchView struct {
	Query       string          `json:"query"`
	Results     []entities.Book `json:"results"`
	HasResults  bool            `json:"hasResults"`
	IsEmpty     bool            `json:"isEmpty"`
	HasSearched bool            `json:"hasSearched"`
	Loading     bool            `json:"loading"`
	Error       string          `json:"error,omitempty"`
}

// BookView is the detail page state of one book.
type BookView struct {
	Book    *entities.Book `json:"book"`
	Loading bool           `json:"loading"`
	Error   string         `json:"error,omitempty"`
}

// ReviewsView is the public review list of a book.
type ReviewsView struct {
	Reviews       []entities.Review `json:"reviews"`
	HasReviews    bool              `json:"hasReviews"`
	AverageRating float64           `json:"averageRating"`
	Loading       bool              `json:"loading"`
	Error         string            `json:"error,omitempty"`
}

// ReviewRequest is the body of POST /books/:id/reviews.
type ReviewRequest struct {
	Rating  float64 `json:"rating" form:"rating" binding:"min=0,max=5"`
	Comment string  `json:"comment" form:"comment"`
}

// BooksController serves search, book detail and reviews.
type BooksController struct {
	search *services.SearchService
	detail *services.BookDetailService
	books  *stores.BooksStore
	store  *stores.BookDetailStore
	logger *zap.Logger
}

func NewBooksController(search *services.SearchService, detail *services.BookDetailService, books *stores.BooksStore, store *stores.BookDetailStore, logger *zap.Logger) *BooksController {
	return &BooksController{
		search: search,
		detail: detail,
		books:  books,
		store:  store,
		logger: logger,
	}
}

// Home runs the search in ?q= when present and renders the search state.
// A failed search still renders with 200 and the error in the view.
func (controller *BooksController) Home(c *gin.Context) {
	if query, ok := c.GetQuery("q"); ok {
		controller.search.SearchBooks(c.Request.Context(), query)
	}
	c.JSON(http.StatusOK, controller.searchView())
}

func (controller *BooksController) searchView() SearchView {
	results := controller.books.SearchResults()
	if results == nil {
		results = []entities.Book{}
	}
	return SearchView{
		Query:       controller.books.CurrentQuery(),
		Results:     results,
		HasResults:  controller.books.HasResults(),
		IsEmpty:     controller.books.IsEmpty(),
		HasSearched: controller.books.HasSearched(),
		Loading:     controller.books.Loading(),
		Error:       controller.books.Error(),
	}
}

// ClearSearch empties the search state.
func (controller *BooksController) ClearSearch(c *gin.Context) {
	controller.search.ClearSearch()
	c.JSON(http.StatusOK, controller.searchView())
}

// GetBook answers with the catalog book, reusing search results when present.
func (controller *BooksController) GetBook(c *gin.Context) {
	book, err := controller.detail.GetBookByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, BookView{Book: book, Loading: controller.store.LoadingBook(), Error: controller.store.ErrorBook()})
}

// GetReviews answers with the reviews and their average rating.
func (controller *BooksController) GetReviews(c *gin.Context) {
	if _, err := controller.detail.GetBookReviews(c.Request.Context(), c.Param("id")); err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, controller.reviewsView())
}

func (controller *BooksController) reviewsView() ReviewsView {
	reviews := controller.store.Reviews()
	if reviews == nil {
		reviews = []entities.Review{}
	}
	return ReviewsView{
		Reviews:       reviews,
		HasReviews:    controller.store.HasReviews(),
		AverageRating: controller.store.AverageRating(),
		Loading:       controller.store.LoadingReviews(),
		Error:         controller.store.ErrorReviews(),
	}
}

// CreateReview posts the review as given. An empty comment is allowed.
func (controller *BooksController) CreateReview(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "rating must be between 0 and 5")
		return
	}

	review, err := controller.detail.SaveReview(c.Request.Context(), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	respondCreated(c, review)
}
