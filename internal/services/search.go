package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/stores"
)

// SearchService runs catalog searches through the books store.
type SearchService struct {
	api    CatalogClient
	store  *stores.BooksStore
	logger *zap.Logger
}

func NewSearchService(api CatalogClient, store *stores.BooksStore, logger *zap.Logger) *SearchService {
	return &SearchService{api: api, store: store, logger: orNop(logger)}
}

// SearchBooks returns the results for query. Repeating the last query with
// results already in the store makes no network call. A failed search is
// logged and recorded in the store, and the previous results are returned.
func (s *SearchService) SearchBooks(ctx context.Context, query string) []entities.Book {
	if cached, ok := s.store.Cached(query); ok {
		s.logger.Debug("search served from store", zap.String("query", query))
		return cached
	}

	s.store.SetLoading(true)
	s.store.SetError("")
	defer s.store.SetLoading(false)

	books, err := s.api.SearchBooks(ctx, query)
	if err != nil {
		s.store.SetError(err.Error())
		s.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		return s.store.SearchResults()
	}

	s.store.SetSearchResults(books, query)
	s.logger.Info("search results", zap.String("query", query), zap.Int("count", len(books)))
	return books
}

// ClearSearch drops the results and the last query.
func (s *SearchService) ClearSearch() {
	s.store.ClearSearch()
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
