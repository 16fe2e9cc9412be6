package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const endpointLibrary = "books/my-library"

// ListLibrary returns the raw library records of the token's owner. The
// response must be a JSON array.
func (c *Client) ListLibrary(ctx context.Context, token string) ([]entities.APISelection, error) {
	if token == "" {
		return nil, NotAuthenticated()
	}

	raw, err := c.Call(ctx, endpointLibrary, RequestOptions{Method: http.MethodGet, Headers: bearer(token)})
	if err != nil {
		return nil, err
	}
	if !gjson.ParseBytes(raw).IsArray() {
		return nil, &Error{Kind: KindMalformed, Message: msgInvalidResponse, Err: ErrInvalidResponse}
	}

	var records []entities.APISelection
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &Error{Kind: KindMalformed, Message: msgInvalidResponse, Err: err}
	}
	return records, nil
}

// UpdateLibraryEntry creates or replaces the review and status of a book in
// the library.
func (c *Client) UpdateLibraryEntry(ctx context.Context, token, bookID string, payload entities.ReviewUpdatePayload) (*entities.APIReview, error) {
	if token == "" {
		return nil, NotAuthenticated()
	}

	var review entities.APIReview
	opts := RequestOptions{Method: http.MethodPut, Headers: bearer(token), Body: payload}
	if err := c.callInto(ctx, libraryEntry(bookID), opts, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteLibraryEntry removes a book from the library. The response body is ignored.
func (c *Client) DeleteLibraryEntry(ctx context.Context, token, bookID string) error {
	if token == "" {
		return NotAuthenticated()
	}

	_, err := c.Call(ctx, libraryEntry(bookID), RequestOptions{Method: http.MethodDelete, Headers: bearer(token)})
	return err
}

func libraryEntry(bookID string) string {
	return endpointLibrary + "/" + url.PathEscape(bookID)
}
