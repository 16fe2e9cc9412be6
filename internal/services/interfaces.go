package services

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// CatalogClient provides the public catalog endpoints.
type CatalogClient interface {
	SearchBooks(ctx context.Context, query string) ([]entities.Book, error)
	GetBook(ctx context.Context, id string) (*entities.Book, error)
	GetBookReviews(ctx context.Context, id string) ([]entities.Review, error)
	CreateReview(ctx context.Context, id string, rating float64, comment string) (*entities.Review, error)
}

// LibraryClient provides the authenticated library endpoints.
type LibraryClient interface {
	ListLibrary(ctx context.Context, token string) ([]entities.APISelection, error)
	UpdateLibraryEntry(ctx context.Context, token, bookID string, payload entities.ReviewUpdatePayload) (*entities.APIReview, error)
	DeleteLibraryEntry(ctx context.Context, token, bookID string) error
}

// TokenSource yields the current session token. It is consulted on every
// library call.
type TokenSource interface {
	Token() string
	IsAuthenticated() bool
}
