package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/bookshelf/internal/app"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// SearchCommand queries the catalog.
type SearchCommand struct {
	Query  string
	Format string
}

func NewSearchCommand() *SearchCommand {
	return &SearchCommand{}
}

// ParseFlags joins the positional arguments into the query.
func (cmd *SearchCommand) ParseFlags(args []string) error {
	fs := newFlagSet("search", "search [options] <query>")
	addFormatFlag(fs, &cmd.Format)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd.Query = strings.Join(fs.Args(), " ")
	return validateFormat(cmd.Format)
}

func (cmd *SearchCommand) Run() error {
	return withApp(cmd.run)
}

func (cmd *SearchCommand) run(ctx context.Context, a *app.App, out io.Writer) error {
	books := a.Search.SearchBooks(ctx, cmd.Query)
	if msg := a.Books.Error(); msg != "" {
		return errors.New(msg)
	}
	if books == nil {
		books = []entities.Book{}
	}

	return render(out, cmd.Format, books, func(w io.Writer) {
		if len(books) == 0 {
			fmt.Fprintln(w, "No books found")
			return
		}
		for _, book := range books {
			fmt.Fprintf(w, "%s\t%s by %s\n", book.ID, book.Title, book.Author)
		}
	})
}

// BookCommand shows one catalog entry.
type BookCommand struct {
	ID     string
	Format string
}

func NewBookCommand() *BookCommand {
	return &BookCommand{}
}

func (cmd *BookCommand) ParseFlags(args []string) error {
	fs := newFlagSet("book", "book [options] <book-id>")
	addFormatFlag(fs, &cmd.Format)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireArg(fs, "book-id")
	if err != nil {
		return err
	}
	cmd.ID = id
	return validateFormat(cmd.Format)
}

func (cmd *BookCommand) Run() error {
	return withApp(cmd.run)
}

func (cmd *BookCommand) run(ctx context.Context, a *app.App, out io.Writer) error {
	book, err := a.BookDetail.GetBookByID(ctx, cmd.ID)
	if err != nil {
		return err
	}

	return render(out, cmd.Format, book, func(w io.Writer) {
		fmt.Fprintf(w, "%s\n", book.Title)
		fmt.Fprintf(w, "Author: %s\n", book.Author)
		if book.PublicationDate != nil {
			fmt.Fprintf(w, "Published: %d\n", *book.PublicationDate)
		}
		if book.CoverURL != "" {
			fmt.Fprintf(w, "Cover: %s\n", book.CoverURL)
		}
	})
}

// ReviewsCommand lists the public reviews of a book with their average.
type ReviewsCommand struct {
	ID     string
	Format string
}

// ReviewsView is the review list with its rounded average.
type ReviewsView struct {
	Reviews       []entities.Review `json:"reviews"`
	AverageRating float64           `json:"averageRating"`
}

func NewReviewsCommand() *ReviewsCommand {
	return &ReviewsCommand{}
}

func (cmd *ReviewsCommand) ParseFlags(args []string) error {
	fs := newFlagSet("reviews", "reviews [options] <book-id>")
	addFormatFlag(fs, &cmd.Format)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireArg(fs, "book-id")
	if err != nil {
		return err
	}
	cmd.ID = id
	return validateFormat(cmd.Format)
}

func (cmd *ReviewsCommand) Run() error {
	return withApp(cmd.run)
}

func (cmd *ReviewsCommand) run(ctx context.Context, a *app.App, out io.Writer) error {
	reviews, err := a.BookDetail.GetBookReviews(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if reviews == nil {
		reviews = []entities.Review{}
	}
	view := ReviewsView{Reviews: reviews, AverageRating: a.Detail.AverageRating()}

	return render(out, cmd.Format, view, func(w io.Writer) {
		if len(reviews) == 0 {
			fmt.Fprintln(w, "No reviews yet")
			return
		}
		fmt.Fprintf(w, "Average rating: %.1f (%d reviews)\n", view.AverageRating, len(reviews))
		for _, review := range reviews {
			fmt.Fprintf(w, "%.1f\t%s\t%s\n", review.Rating, review.CreatedAt, review.Description)
		}
	})
}

// ReviewCommand posts a public review.
type ReviewCommand struct {
	ID      string
	Rating  float64
	Comment string
	Format  string
}

func NewReviewCommand() *ReviewCommand {
	return &ReviewCommand{}
}

// ParseFlags rejects ratings outside 0..5. The comment may be empty.
func (cmd *ReviewCommand) ParseFlags(args []string) error {
	fs := newFlagSet("review", "review -rating 4 -comment \"...\" <book-id>")
	fs.Float64Var(&cmd.Rating, "rating", 0, "Rating from 0 to 5")
	fs.StringVar(&cmd.Comment, "comment", "", "Review text")
	addFormatFlag(fs, &cmd.Format)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireArg(fs, "book-id")
	if err != nil {
		return err
	}
	cmd.ID = id
	if err := validateRating(cmd.Rating); err != nil {
		return err
	}
	return validateFormat(cmd.Format)
}

func (cmd *ReviewCommand) Run() error {
	return withApp(cmd.run)
}

func (cmd *ReviewCommand) run(ctx context.Context, a *app.App, out io.Writer) error {
	review, err := a.BookDetail.SaveReview(ctx, cmd.ID, cmd.Rating, cmd.Comment)
	if err != nil {
		return err
	}
	return render(out, cmd.Format, review, func(w io.Writer) {
		fmt.Fprintf(w, "Review %s saved\n", review.ID)
	})
}

func validateRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5, got %g", rating)
	}
	return nil
}
