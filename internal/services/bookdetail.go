package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/stores"
)

// BookDetailService loads a single book and its reviews.
type BookDetailService struct {
	api     CatalogClient
	store   *stores.BookDetailStore
	results *stores.BooksStore
	logger  *zap.Logger
}

// NewBookDetailService builds the service. results are consulted before the API.
func NewBookDetailService(api CatalogClient, store *stores.BookDetailStore, results *stores.BooksStore, logger *zap.Logger) *BookDetailService {
	return &BookDetailService{api: api, store: store, results: results, logger: orNop(logger)}
}

// GetBookByID makes id the current book. A book present in the search
// results is used as is.
func (s *BookDetailService) GetBookByID(ctx context.Context, id string) (*entities.Book, error) {
	if book, ok := s.results.FindByID(id); ok {
		s.store.SetCurrentBook(*book)
		return book, nil
	}

	s.store.SetLoadingBook(true)
	s.store.SetErrorBook("")
	defer s.store.SetLoadingBook(false)

	book, err := s.api.GetBook(ctx, id)
	if err != nil {
		s.store.SetErrorBook(err.Error())
		s.logger.Error("failed to load book", zap.String("book_id", id), zap.Error(err))
		return nil, err
	}
	s.store.SetCurrentBook(*book)
	return book, nil
}

// GetBookReviews replaces the stored reviews with the book's reviews.
func (s *BookDetailService) GetBookReviews(ctx context.Context, id string) ([]entities.Review, error) {
	s.store.SetLoadingReviews(true)
	s.store.SetErrorReviews("")
	defer s.store.SetLoadingReviews(false)

	reviews, err := s.api.GetBookReviews(ctx, id)
	if err != nil {
		s.store.SetErrorReviews(err.Error())
		s.logger.Error("failed to load reviews", zap.String("book_id", id), zap.Error(err))
		return nil, err
	}
	s.store.SetReviews(reviews)
	return reviews, nil
}

// SaveReview posts a review and appends the stored copy to the review list.
func (s *BookDetailService) SaveReview(ctx context.Context, id string, rating float64, comment string) (*entities.Review, error) {
	review, err := s.api.CreateReview(ctx, id, rating, comment)
	if err != nil {
		s.logger.Error("failed to save review", zap.String("book_id", id), zap.Error(err))
		return nil, err
	}
	s.store.AppendReview(*review)
	s.logger.Info("review saved", zap.String("book_id", id), zap.String("review_id", review.ID))
	return review, nil
}

// ClearBookDetail forgets the current book and its reviews.
func (s *BookDetailService) ClearBookDetail() {
	s.store.ClearBookDetail()
}
