package stores

import (
	"sync"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// SelectionStore holds the user's library. Only the selections survive a
// restart; status and error are session-only.
type SelectionStore struct {
	mu         sync.RWMutex
	selections []entities.Selection
	status     entities.SessionStatus
	err        string
}

// NewSelectionStore starts empty and idle.
func NewSelectionStore() *SelectionStore {
	return &SelectionStore{status: entities.SessionIdle}
}

// SetSelections replaces the whole library.
func (s *SelectionStore) SetSelections(selections []entities.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections = cloneSelections(selections)
	s.status = entities.SessionSuccess
	s.err = ""
}

// AddSelection inserts sel, replacing an existing selection with the same id.
func (s *SelectionStore) AddSelection(sel entities.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel = cloneSelection(sel)
	for i := range s.selections {
		if s.selections[i].ID == sel.ID {
			s.selections[i] = sel
			return
		}
	}
	s.selections = append(s.selections, sel)
}

// SetLoading(false) returns a loading store to idle and leaves a settled
// success or error status alone.
func (s *SelectionStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case loading:
		s.status = entities.SessionLoading
	case s.status == entities.SessionLoading:
		s.status = entities.SessionIdle
	}
}

// SetError records msg and moves the status to error.
func (s *SelectionStore) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
	s.status = entities.SessionError
}

func (s *SelectionStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// FindSelectionByBookID returns the selection whose book has the given
// catalog id, or nil.
func (s *SelectionStore) FindSelectionByBookID(bookID string) *entities.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(bookID); i >= 0 {
		sel := cloneSelection(s.selections[i])
		return &sel
	}
	return nil
}

// UpdateSelection overwrites the non-nil fields of patch. It reports whether
// the book was found.
func (s *SelectionStore) UpdateSelection(bookID string, patch entities.SelectionPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(bookID)
	if i < 0 {
		return false
	}
	sel := &s.selections[i]
	if patch.UserReview != nil {
		review := *patch.UserReview
		sel.UserReview = &review
	}
	if patch.DateAdded != nil {
		sel.DateAdded = *patch.DateAdded
	}
	if patch.Status != nil {
		sel.Status = *patch.Status
	}
	if patch.PersonalNotes != nil {
		sel.PersonalNotes = *patch.PersonalNotes
	}
	if patch.IsFavorite != nil {
		sel.IsFavorite = *patch.IsFavorite
	}
	return true
}

// UpdateBookReview attaches review to the book's selection. A positive
// rating marks a selection without status as read.
func (s *SelectionStore) UpdateBookReview(bookID string, review entities.Review) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(bookID)
	if i < 0 {
		return false
	}
	sel := &s.selections[i]
	sel.UserReview = &review
	if review.Rating > 0 && sel.Status == "" {
		sel.Status = entities.StatusRead
	}
	return true
}

// RemoveSelection drops the book's selection and reports whether it existed.
func (s *SelectionStore) RemoveSelection(bookID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(bookID)
	if i < 0 {
		return false
	}
	s.selections = append(s.selections[:i:i], s.selections[i+1:]...)
	return true
}

// ClearSelections empties the library and resets the status.
func (s *SelectionStore) ClearSelections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections = nil
	s.status = entities.SessionIdle
	s.err = ""
}

// Reset is ClearSelections.
func (s *SelectionStore) Reset() {
	s.ClearSelections()
}

// Selections returns a copy of the library.
func (s *SelectionStore) Selections() []entities.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSelections(s.selections)
}

// Restore loads persisted selections without touching status or error.
func (s *SelectionStore) Restore(selections []entities.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections = cloneSelections(selections)
}

func (s *SelectionStore) Status() entities.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *SelectionStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *SelectionStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status == entities.SessionLoading
}

func (s *SelectionStore) HasSelections() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selections) > 0
}

func (s *SelectionStore) TotalBooks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selections)
}

// ReadBooks also counts selections carrying a positive rating.
func (s *SelectionStore) ReadBooks() []entities.Selection {
	return s.filter(isRead)
}

func (s *SelectionStore) ReadingBooks() []entities.Selection {
	return s.filter(isReading)
}

// ToReadBooks also counts selections with neither status nor review.
func (s *SelectionStore) ToReadBooks() []entities.Selection {
	return s.filter(isToRead)
}

// Stats counts books per status. AverageRating covers non-zero ratings only,
// rounded to one decimal.
func (s *SelectionStore) Stats() entities.LibraryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := entities.LibraryStats{Total: len(s.selections)}
	var ratingSum float64
	var rated int
	for _, sel := range s.selections {
		if isRead(sel) {
			stats.Read++
		}
		if isReading(sel) {
			stats.Reading++
		}
		if isToRead(sel) {
			stats.ToRead++
		}
		if sel.UserReview != nil && sel.UserReview.Description != "" {
			stats.WithReviews++
		}
		if rating := ratingOf(sel); rating != 0 {
			ratingSum += rating
			rated++
		}
	}
	if rated > 0 {
		stats.AverageRating = roundTenth(ratingSum / float64(rated))
	}
	return stats
}

func (s *SelectionStore) filter(keep func(entities.Selection) bool) []entities.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.Selection
	for _, sel := range s.selections {
		if keep(sel) {
			out = append(out, cloneSelection(sel))
		}
	}
	return out
}

// indexOf must be called with the lock held.
func (s *SelectionStore) indexOf(bookID string) int {
	for i := range s.selections {
		if s.selections[i].Book.ID == bookID {
			return i
		}
	}
	return -1
}

func ratingOf(sel entities.Selection) float64 {
	if sel.UserReview == nil {
		return 0
	}
	return sel.UserReview.Rating
}

func isRead(sel entities.Selection) bool {
	return sel.Status == entities.StatusRead || ratingOf(sel) != 0
}

func isReading(sel entities.Selection) bool {
	return sel.Status == entities.StatusReading
}

func isToRead(sel entities.Selection) bool {
	return sel.Status == entities.StatusToRead || (sel.Status == "" && sel.UserReview == nil)
}

func cloneSelection(sel entities.Selection) entities.Selection {
	if sel.UserReview != nil {
		review := *sel.UserReview
		sel.UserReview = &review
	}
	return sel
}

func cloneSelections(in []entities.Selection) []entities.Selection {
	if in == nil {
		return nil
	}
	out := make([]entities.Selection, len(in))
	for i, sel := range in {
		out[i] = cloneSelection(sel)
	}
	return out
}
