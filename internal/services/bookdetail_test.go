package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/stores"
)

func newDetailService(catalog *fakeCatalog) (*BookDetailService, *stores.BookDetailStore, *stores.BooksStore) {
	detail := stores.NewBookDetailStore()
	results := stores.NewBooksStore()
	return NewBookDetailService(catalog, detail, results, nil), detail, results
}

func TestBookDetailService_GetBookByID(t *testing.T) {
	ctx := context.Background()

	t.Run("uses search results without a network call", func(t *testing.T) {
		catalog := &fakeCatalog{}
		svc, detail, results := newDetailService(catalog)
		results.SetSearchResults([]entities.Book{{ID: "1", Title: "Dune"}}, "dune")

		book, err := svc.GetBookByID(ctx, "1")

		require.NoError(t, err)
		assert.Equal(t, "Dune", book.Title)
		assert.Equal(t, "Dune", detail.CurrentBook().Title)
		assert.Zero(t, catalog.bookCalls)
	})

	t.Run("fetches when not in results", func(t *testing.T) {
		catalog := &fakeCatalog{book: &entities.Book{ID: "2", Title: "Emma"}}
		svc, detail, _ := newDetailService(catalog)

		book, err := svc.GetBookByID(ctx, "2")

		require.NoError(t, err)
		assert.Equal(t, "Emma", book.Title)
		assert.Equal(t, 1, catalog.bookCalls)
		assert.False(t, detail.LoadingBook())
	})

	t.Run("records and returns the error", func(t *testing.T) {
		catalog := &fakeCatalog{err: errors.New("not found")}
		svc, detail, _ := newDetailService(catalog)

		_, err := svc.GetBookByID(ctx, "3")

		assert.EqualError(t, err, "not found")
		assert.Equal(t, "not found", detail.ErrorBook())
		assert.False(t, detail.LoadingBook())
		assert.Nil(t, detail.CurrentBook())
	})
}

func TestBookDetailService_GetBookReviews(t *testing.T) {
	ctx := context.Background()

	catalog := &fakeCatalog{reviews: []entities.Review{{ID: "r1", Rating: 3}, {ID: "r2", Rating: 5}}}
	svc, detail, _ := newDetailService(catalog)

	reviews, err := svc.GetBookReviews(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, 4.0, detail.AverageRating())

	catalog.err = errors.New("request failed")
	_, err = svc.GetBookReviews(ctx, "1")
	assert.Error(t, err)
	assert.Equal(t, "request failed", detail.ErrorReviews())
	assert.Empty(t, detail.ErrorBook(), "book error is independent")
	assert.False(t, detail.LoadingReviews())
}

func TestBookDetailService_SaveReview(t *testing.T) {
	ctx := context.Background()

	t.Run("appends the created review last", func(t *testing.T) {
		catalog := &fakeCatalog{created: &entities.Review{ID: "new", Rating: 5, Description: "great"}}
		svc, detail, _ := newDetailService(catalog)
		detail.SetReviews([]entities.Review{{ID: "r1"}, {ID: "r2"}})

		review, err := svc.SaveReview(ctx, "1", 5, "great")

		require.NoError(t, err)
		assert.Equal(t, "new", review.ID)
		reviews := detail.Reviews()
		require.Len(t, reviews, 3)
		assert.Equal(t, "new", reviews[2].ID)
	})

	t.Run("failure leaves reviews untouched", func(t *testing.T) {
		catalog := &fakeCatalog{err: errors.New("request failed")}
		svc, detail, _ := newDetailService(catalog)
		detail.SetReviews([]entities.Review{{ID: "r1"}})

		_, err := svc.SaveReview(ctx, "1", 4, "ok")

		assert.EqualError(t, err, "request failed")
		assert.Len(t, detail.Reviews(), 1)
	})
}
