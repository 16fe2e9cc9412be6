package entities

// ReadingStatus is the user's progress with a library book.
type ReadingStatus string

const (
	StatusRead    ReadingStatus = "read"
	StatusReading ReadingStatus = "reading"
	StatusToRead  ReadingStatus = "to-read"
)

// Valid reports whether s is one of the known statuses. The empty status is
// not valid; it means "not set".
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusRead, StatusReading, StatusToRead:
		return true
	}
	return false
}

// Book is a catalog entry. ID is always the external catalog identifier.
type Book struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	CoverID         *int   `json:"cover_id,omitempty"`
	PublicationDate *int   `json:"publication_date,omitempty"`
	CoverURL        string `json:"coverUrl,omitempty"`

	// Optional fields used by library views
	Year      *int          `json:"year,omitempty"`
	Genre     string        `json:"genre,omitempty"`
	Pages     *int          `json:"pages,omitempty"`
	ISBN      string        `json:"isbn,omitempty"`
	Language  string        `json:"language,omitempty"`
	Publisher string        `json:"publisher,omitempty"`
	DateAdded string        `json:"dateAdded,omitempty"`
	Status    ReadingStatus `json:"status,omitempty"`
}

// Review is a user's rating and comment on a book.
type Review struct {
	ID          string  `json:"_id"`
	BookID      string  `json:"bookId,omitempty"`
	UserID      string  `json:"userId,omitempty"`
	Rating      float64 `json:"rating"`
	Private     bool    `json:"private"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// NewReview is the body posted to create a review on the catalog.
type NewReview struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}
