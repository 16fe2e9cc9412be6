package stores

import (
	"math"
	"slices"
	"sync"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// BookDetailStore holds the book being viewed and its reviews. The book and
// the reviews load and fail independently.
type BookDetailStore struct {
	mu             sync.RWMutex
	currentBook    *entities.Book
	reviews        []entities.Review
	loadingBook    bool
	loadingReviews bool
	errBook        string
	errReviews     string
}

func NewBookDetailStore() *BookDetailStore {
	return &BookDetailStore{}
}

// SetCurrentBook replaces the book and clears its error.
func (s *BookDetailStore) SetCurrentBook(book entities.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentBook = &book
	s.errBook = ""
}

// SetReviews replaces the reviews and clears their error.
func (s *BookDetailStore) SetReviews(reviews []entities.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = slices.Clone(reviews)
	s.errReviews = ""
}

// AppendReview adds review after the existing ones. Reviews are not
// de-duplicated.
func (s *BookDetailStore) AppendReview(review entities.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(slices.Clone(s.reviews), review)
	s.errReviews = ""
}

func (s *BookDetailStore) SetLoadingBook(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingBook = loading
}

func (s *BookDetailStore) SetLoadingReviews(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingReviews = loading
}

func (s *BookDetailStore) SetErrorBook(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errBook = msg
}

func (s *BookDetailStore) SetErrorReviews(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errReviews = msg
}

// ClearBookDetail resets every field.
func (s *BookDetailStore) ClearBookDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentBook = nil
	s.reviews = nil
	s.errBook = ""
	s.errReviews = ""
	s.loadingBook = false
	s.loadingReviews = false
}

// CurrentBook returns a copy, or nil when none is loaded.
func (s *BookDetailStore) CurrentBook() *entities.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentBook == nil {
		return nil
	}
	book := *s.currentBook
	return &book
}

func (s *BookDetailStore) Reviews() []entities.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reviews)
}

func (s *BookDetailStore) LoadingBook() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingBook
}

func (s *BookDetailStore) LoadingReviews() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingReviews
}

func (s *BookDetailStore) ErrorBook() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errBook
}

func (s *BookDetailStore) ErrorReviews() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errReviews
}

func (s *BookDetailStore) HasReviews() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews) > 0
}

// AverageRating is the mean rating rounded to one decimal, 0 with no reviews.
func (s *BookDetailStore) AverageRating() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range s.reviews {
		sum += r.Rating
	}
	return roundTenth(sum / float64(len(s.reviews)))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
