package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/api"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/notify"
	"github.com/mrlokans/bookshelf/internal/stores"
)

// LibraryService manages the signed-in user's library. Every call needs a
// session token; failures are recorded in the store, announced with a toast
// and returned.
type LibraryService struct {
	api      LibraryClient
	auth     TokenSource
	store    *stores.SelectionStore
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewLibraryService builds the service. The token is read from auth on every call.
func NewLibraryService(client LibraryClient, auth TokenSource, store *stores.SelectionStore, notifier notify.Notifier, logger *zap.Logger) *LibraryService {
	return &LibraryService{
		api:      client,
		auth:     auth,
		store:    store,
		notifier: notifier,
		logger:   orNop(logger),
	}
}

func (s *LibraryService) token() (string, error) {
	token := s.auth.Token()
	if token == "" {
		return "", api.NotAuthenticated()
	}
	return token, nil
}

// FetchUserLibrary replaces the stored library with the remote one.
func (s *LibraryService) FetchUserLibrary(ctx context.Context) ([]entities.Selection, error) {
	s.store.SetLoading(true)
	s.store.ClearError()
	defer s.store.SetLoading(false)

	records, err := s.listLibrary(ctx)
	if err != nil {
		s.fail(ctx, "failed to fetch library", err, "Could not load your library")
		return nil, err
	}

	selections := make([]entities.Selection, 0, len(records))
	for _, record := range records {
		selections = append(selections, TransformAPISelection(record))
	}
	s.store.SetSelections(selections)
	s.logger.Info("library loaded", zap.Int("books", len(selections)))
	return selections, nil
}

func (s *LibraryService) listLibrary(ctx context.Context) ([]entities.APISelection, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.api.ListLibrary(ctx, token)
}

// UpdateBookReview creates or replaces the user's review of bookID.
func (s *LibraryService) UpdateBookReview(ctx context.Context, bookID string, payload entities.ReviewUpdatePayload) (*entities.Review, error) {
	payload.Description = strings.TrimSpace(payload.Description)

	resp, err := s.updateEntry(ctx, bookID, payload)
	if err != nil {
		s.fail(ctx, "failed to update review", err, "Could not update the review", zap.String("book_id", bookID))
		return nil, err
	}

	review := resp.ToReview()
	s.store.UpdateBookReview(bookID, review)
	s.notifier.Notify(ctx, notify.Success("Success", "Review updated"))
	s.logger.Info("review updated", zap.String("book_id", bookID))
	return &review, nil
}

func (s *LibraryService) updateEntry(ctx context.Context, bookID string, payload entities.ReviewUpdatePayload) (*entities.APIReview, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.api.UpdateLibraryEntry(ctx, token, bookID, payload)
}

// RemoveBookFromLibrary deletes bookID from the library.
func (s *LibraryService) RemoveBookFromLibrary(ctx context.Context, bookID string) error {
	err := s.deleteEntry(ctx, bookID)
	if err != nil {
		s.fail(ctx, "failed to remove book", err, "Could not remove the book", zap.String("book_id", bookID))
		return err
	}

	s.store.RemoveSelection(bookID)
	s.notifier.Notify(ctx, notify.Success("Success", "Book removed from your library"))
	s.logger.Info("book removed", zap.String("book_id", bookID))
	return nil
}

func (s *LibraryService) deleteEntry(ctx context.Context, bookID string) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	return s.api.DeleteLibraryEntry(ctx, token, bookID)
}

// RefreshLibrary re-runs a full fetch.
func (s *LibraryService) RefreshLibrary(ctx context.Context) ([]entities.Selection, error) {
	s.logger.Info("refreshing library")
	return s.FetchUserLibrary(ctx)
}

// CheckAuthentication reports whether a session exists and tells the user
// to sign in when it does not.
func (s *LibraryService) CheckAuthentication(ctx context.Context) bool {
	if s.auth.IsAuthenticated() {
		return true
	}
	s.logger.Warn("library access without a session")
	s.notifier.Notify(ctx, notify.Error("Authentication error", "You must sign in to access your library"))
	return false
}

// FindSelectionByBookID returns nil when the book is not in the library.
func (s *LibraryService) FindSelectionByBookID(bookID string) *entities.Selection {
	return s.store.FindSelectionByBookID(bookID)
}

// ClearSelections empties the library without calling the API.
func (s *LibraryService) ClearSelections() {
	s.store.ClearSelections()
}

func (s *LibraryService) fail(ctx context.Context, logMsg string, err error, description string, fields ...zap.Field) {
	s.store.SetError(err.Error())
	s.logger.Error(logMsg, append(fields, zap.Error(err))...)
	s.notifier.Notify(ctx, notify.Error("Error", description))
}

// TransformAPISelection maps a library record to a Selection. A record with
// a review is read and dated by the review; one without is still to read.
func TransformAPISelection(record entities.APISelection) entities.Selection {
	sel := entities.Selection{
		ID: record.ID,
		Book: entities.Book{
			ID:              record.Book.ID,
			Title:           record.Book.Title,
			Author:          record.Book.Author,
			PublicationDate: record.Book.PublicationDate,
			CoverURL:        record.Book.CoverURL,
		},
		Status: entities.StatusToRead,
	}
	if year := record.Book.PublicationDate; year != nil && *year != 0 {
		sel.Book.Year = year
	}
	if record.UserReview != nil {
		review := record.UserReview.ToReview()
		sel.UserReview = &review
		sel.Status = entities.StatusRead
		sel.DateAdded = review.CreatedAt
	}
	return sel
}
