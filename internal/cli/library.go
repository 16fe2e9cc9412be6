package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/mrlokans/bookshelf/internal/app"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// LibraryCommand fetches and prints the signed-in user's library.
type LibraryCommand struct {
	Status string
	Format string
}

// LibraryView is the library listing with its stats.
type LibraryView struct {
	Selections []entities.Selection  `json:"selections"`
	Stats      entities.LibraryStats `json:"stats"`
}

func NewLibraryCommand() *LibraryCommand {
	return &LibraryCommand{}
}

// ParseFlags accepts -status read, reading or to-read.
func (cmd *LibraryCommand) ParseFlags(args []string) error {
	fs := newFlagSet("library", "library [-status read|reading|to-read] [-format text|json|yaml]")
	fs.StringVar(&cmd.Status, "status", "", "Only list books with this reading status")
	addFormatFlag(fs, &cmd.Format)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Status != "" && !entities.ReadingStatus(cmd.Status).Valid() {
		return fmt.Errorf("unknown status %q", cmd.Status)
	}
	return validateFormat(cmd.Format)
}

func (cmd *LibraryCommand) Run() error {
	return withApp(cmd.run)
}

func (cmd *LibraryCommand) run(ctx context.Context, a *app.App, out io.Writer) error {
	if !a.Library.CheckAuthentication(ctx) {
		return errNotSignedIn
	}
	if _, err := a.Library.FetchUserLibrary(ctx); err != nil {
		return err
	}

	var selections []entities.Selection
	switch entities.ReadingStatus(cmd.Status) {
	case entities.StatusRead:
		selections = a.Selections.ReadBooks()
	case entities.StatusReading:
		selections = a.Selections.ReadingBooks()
	case entities.StatusToRead:
		selections = a.Selections.ToReadBooks()
	default:
		selections = a.Selections.Selections()
	}
	if selections == nil {
		selections = []entities.Selection{}
	}
	view := LibraryView{Selections: selections, Stats: a.Selections.Stats()}

	return render(out, cmd.Format, view, func(w io.Writer) {
		stats := view.Stats
		fmt.Fprintf(w, "%d books: %d read, %d reading, %d to read\n", stats.Total, stats.Read, stats.Reading, stats.ToRead)
		if stats.AverageRating > 0 {
			fmt.Fprintf(w, "Average rating: %.1f\n", stats.AverageRating)
		}
		for _, sel := range selections {
			rating := "-"
			if sel.UserReview != nil {
				rating = fmt.Sprintf("%.1f", sel.UserReview.Rating)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s by %s\n", sel.Book.ID, sel.Status, rating, sel.Book.Title, sel.Book.Author)
		}
	})
}

// LibraryUpdateCommand creates or replaces the review of a library book.
type LibraryUpdateCommand struct {
	BookID      string
	Rating      float64
	Description string
	Status      string
	Private     *bool
	Format      string
}

func NewLibraryUpdateCommand() *LibraryUpdateCommand {
	return &LibraryUpdateCommand{}
}

// ParseFlags leaves Private nil unless -private is given.
func (cmd *LibraryUpdateCommand) ParseFlags(args []string) error {
	fs := newFlagSet("library-update", "library-update -rating 5 [-description ...] [-status read] [-private] <book-id>")
	fs.Float64Var(&cmd.Rating, "rating", 0, "Rating from 0 to 5")
	fs.StringVar(&cmd.Description, "description", "", "Review text")
	fs.StringVar(&cmd.Status, "status", "", "Reading status: read, reading or to-read")
	private := fs.Bool("private", false, "Hide the review from other users")
	addFormatFlag(fs, &cmd.Format)

	if err := fs.Parse(args); err != nil {
		return err
	}
	// -private is only sent when given
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "private" {
			cmd.Private = private
		}
	})

	id, err := requireArg(fs, "book-id")
	if err != nil {
		return err
	}
	cmd.BookID = id
	if err := validateRating(cmd.Rating); err != nil {
		return err
	}
	if cmd.Status != "" && !entities.ReadingStatus(cmd.Status).Valid() {
		return fmt.Errorf("unknown status %q", cmd.Status)
	}
	return validateFormat(cmd.Format)
}

func (cmd *LibraryUpdateCommand) Run() error {
	return withApp(cmd.run)
}

func (cmd *LibraryUpdateCommand) run(ctx context.Context, a *app.App, out io.Writer) error {
	if !a.Library.CheckAuthentication(ctx) {
		return errNotSignedIn
	}
	review, err := a.Library.UpdateBookReview(ctx, cmd.BookID, entities.ReviewUpdatePayload{
		Private:     cmd.Private,
		Description: cmd.Description,
		Rating:      cmd.Rating,
		Status:      entities.ReadingStatus(cmd.Status),
	})
	if err != nil {
		return err
	}
	return render(out, cmd.Format, review, func(w io.Writer) {
		fmt.Fprintf(w, "Review updated: %.1f\n", review.Rating)
	})
}

// LibraryRemoveCommand removes a book from the library.
type LibraryRemoveCommand struct {
	BookID string
}

func NewLibraryRemoveCommand() *LibraryRemoveCommand {
	return &LibraryRemoveCommand{}
}

// ParseFlags takes exactly one book id.
func (cmd *LibraryRemoveCommand) ParseFlags(args []string) error {
	fs := newFlagSet("library-remove", "library-remove <book-id>")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireArg(fs, "book-id")
	if err != nil {
		return err
	}
	cmd.BookID = id
	return nil
}

func (cmd *LibraryRemoveCommand) Run() error {
	return withApp(cmd.run)
}

func (cmd *LibraryRemoveCommand) run(ctx context.Context, a *app.App, out io.Writer) error {
	if !a.Library.CheckAuthentication(ctx) {
		return errNotSignedIn
	}
	if err := a.Library.RemoveBookFromLibrary(ctx, cmd.BookID); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %s from your library\n", cmd.BookID)
	return nil
}

var errNotSignedIn = errors.New("you must sign in to access your library (run login first)")
