package stores

import (
	"slices"
	"sync"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// BooksStore holds the results of the last catalog search.
type BooksStore struct {
	mu          sync.RWMutex
	results     []entities.Book
	query       string
	loading     bool
	err         string
	hasSearched bool
}

func NewBooksStore() *BooksStore {
	return &BooksStore{}
}

// SetSearchResults replaces the results and the query they belong to.
func (s *BooksStore) SetSearchResults(books []entities.Book, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = slices.Clone(books)
	s.query = query
	s.hasSearched = true
	s.err = ""
}

// SetLoading flags a search in flight.
func (s *BooksStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// SetError records msg; an empty msg clears the error.
func (s *BooksStore) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}

// ClearSearch resets the store to its state before any search.
func (s *BooksStore) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
	s.query = ""
	s.hasSearched = false
	s.err = ""
	s.loading = false
}

// Cached returns the stored results when query matches the last query
// exactly and there is at least one result.
func (s *BooksStore) Cached(query string) ([]entities.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.query != query || len(s.results) == 0 {
		return nil, false
	}
	return slices.Clone(s.results), true
}

// FindByID looks a book up in the current results.
func (s *BooksStore) FindByID(id string) (*entities.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.results {
		if s.results[i].ID == id {
			book := s.results[i]
			return &book, true
		}
	}
	return nil, false
}

// SearchResults returns a copy of the last results.
func (s *BooksStore) SearchResults() []entities.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.results)
}

func (s *BooksStore) CurrentQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *BooksStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *BooksStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// HasSearched reports whether any search has completed.
func (s *BooksStore) HasSearched() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasSearched
}

func (s *BooksStore) HasResults() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results) > 0
}

// IsEmpty reports a finished search that found nothing.
func (s *BooksStore) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasSearched && len(s.results) == 0 && !s.loading && s.err == ""
}
