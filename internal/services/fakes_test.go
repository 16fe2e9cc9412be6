package services

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type fakeCatalog struct {
	books      []entities.Book
	book       *entities.Book
	reviews    []entities.Review
	created    *entities.Review
	err        error
	searches   []string
	bookCalls  int
	reviewCall int
}

func (f *fakeCatalog) SearchBooks(_ context.Context, query string) ([]entities.Book, error) {
	f.searches = append(f.searches, query)
	return f.books, f.err
}

func (f *fakeCatalog) GetBook(_ context.Context, _ string) (*entities.Book, error) {
	f.bookCalls++
	return f.book, f.err
}

func (f *fakeCatalog) GetBookReviews(_ context.Context, _ string) ([]entities.Review, error) {
	f.reviewCall++
	return f.reviews, f.err
}

func (f *fakeCatalog) CreateReview(_ context.Context, _ string, _ float64, _ string) (*entities.Review, error) {
	return f.created, f.err
}

type fakeLibrary struct {
	records  []entities.APISelection
	review   *entities.APIReview
	err      error
	tokens   []string
	payloads []entities.ReviewUpdatePayload
	deleted  []string
}

func (f *fakeLibrary) ListLibrary(_ context.Context, token string) ([]entities.APISelection, error) {
	f.tokens = append(f.tokens, token)
	return f.records, f.err
}

func (f *fakeLibrary) UpdateLibraryEntry(_ context.Context, token, _ string, payload entities.ReviewUpdatePayload) (*entities.APIReview, error) {
	f.tokens = append(f.tokens, token)
	f.payloads = append(f.payloads, payload)
	return f.review, f.err
}

func (f *fakeLibrary) DeleteLibraryEntry(_ context.Context, token, bookID string) error {
	f.tokens = append(f.tokens, token)
	f.deleted = append(f.deleted, bookID)
	return f.err
}

type staticToken string

func (t staticToken) Token() string         { return string(t) }
func (t staticToken) IsAuthenticated() bool { return t != "" }
