package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// SearchBooks queries the catalog. An empty query lists the default results.
func (c *Client) SearchBooks(ctx context.Context, query string) ([]entities.Book, error) {
	endpoint := "books/search"
	if query != "" {
		endpoint += "?q=" + encodeQueryComponent(query)
	}

	var books []entities.Book
	if err := c.callInto(ctx, endpoint, RequestOptions{}, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook fetches a single book by catalog id.
func (c *Client) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	if err := c.callInto(ctx, "books/"+url.PathEscape(id), RequestOptions{}, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBookReviews lists the public reviews of a book.
func (c *Client) GetBookReviews(ctx context.Context, id string) ([]entities.Review, error) {
	var reviews []entities.Review
	if err := c.callInto(ctx, "books/review/"+url.PathEscape(id), RequestOptions{}, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview posts a review and returns it as stored by the API.
func (c *Client) CreateReview(ctx context.Context, id string, rating float64, comment string) (*entities.Review, error) {
	var review entities.Review
	opts := RequestOptions{
		Method: http.MethodPost,
		Body:   entities.NewReview{Rating: rating, Comment: comment},
	}
	if err := c.callInto(ctx, "books/"+url.PathEscape(id)+"/reviews", opts, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// encodeQueryComponent escapes like encodeURIComponent: spaces become %20,
// not "+".
func encodeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
