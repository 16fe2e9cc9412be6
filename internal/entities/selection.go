package entities

// Selection is a book in the user's personal library, optionally carrying
// the user's own review.
type Selection struct {
	ID         string  `json:"_id"`
	Book       Book    `json:"book_id"`
	UserReview *Review `json:"userReview,omitempty"`

	DateAdded     string        `json:"dateAdded,omitempty"`
	Status        ReadingStatus `json:"status,omitempty"`
	PersonalNotes string        `json:"personalNotes,omitempty"`
	IsFavorite    bool          `json:"isFavorite,omitempty"`
}

// SelectionPatch holds the fields UpdateSelection may overwrite. Nil fields
// are left alone.
type SelectionPatch struct {
	UserReview    *Review
	DateAdded     *string
	Status        *ReadingStatus
	PersonalNotes *string
	IsFavorite    *bool
}

// LibraryStats summarises the library by reading status.
type LibraryStats struct {
	Total         int     `json:"total"`
	Read          int     `json:"read"`
	Reading       int     `json:"reading"`
	ToRead        int     `json:"toRead"`
	WithReviews   int     `json:"withReviews"`
	AverageRating float64 `json:"averageRating"`
}

// ReviewUpdatePayload is sent when creating or updating the review attached
// to a library entry.
type ReviewUpdatePayload struct {
	Private     *bool         `json:"private,omitempty"`
	Description string        `json:"description"`
	Rating      float64       `json:"rating"`
	Status      ReadingStatus `json:"status,omitempty"`
}

// --- Wire format of the library endpoints ---

// APISelection is one record of GET books/my-library.
type APISelection struct {
	ID         string     `json:"_id"`
	Book       APIBook    `json:"book_id"`
	UserReview *APIReview `json:"userReview,omitempty"`
}

// APIBook is the book as embedded in a library entry.
type APIBook struct {
	ID              string `json:"_id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationDate *int   `json:"publication_date"`
	CoverURL        string `json:"coverUrl"`
}

// APIReview is the review shape the library endpoints return.
type APIReview struct {
	ID          string  `json:"_id"`
	CreatedAt   string  `json:"createdAt"`
	Description string  `json:"description"`
	Private     bool    `json:"private"`
	Rating      float64 `json:"rating"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// ToReview converts the wire review into the view model.
func (r APIReview) ToReview() Review {
	return Review{
		ID:          r.ID,
		Rating:      r.Rating,
		Private:     r.Private,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
