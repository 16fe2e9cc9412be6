package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/cli"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cli.Version = Version

	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		if err := entrypoint.Run(config.NewConfig(), Version); err != nil {
			entrypoint.Exit(err)
		}
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	var cmd cli.Command
	switch command {
	case "login":
		cmd = cli.NewLoginCommand()
	case "register":
		cmd = cli.NewRegisterCommand()
	case "logout":
		cmd = cli.NewLogoutCommand()
	case "whoami":
		cmd = cli.NewWhoamiCommand()
	case "search":
		cmd = cli.NewSearchCommand()
	case "book":
		cmd = cli.NewBookCommand()
	case "reviews":
		cmd = cli.NewReviewsCommand()
	case "review":
		cmd = cli.NewReviewCommand()
	case "library":
		cmd = cli.NewLibraryCommand()
	case "library-update":
		cmd = cli.NewLibraryUpdateCommand()
	case "library-remove":
		cmd = cli.NewLibraryRemoveCommand()
	case "version":
		fmt.Printf("bookshelf %s (%s)\n", Version, Commit)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		entrypoint.Exit(err)
	}
	if err := cmd.Run(); err != nil {
		entrypoint.Exit(err)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve            Start the web front end (default)\n")
	fmt.Fprintf(os.Stderr, "  login            Sign in and keep the session\n")
	fmt.Fprintf(os.Stderr, "  register         Create an account and sign in\n")
	fmt.Fprintf(os.Stderr, "  logout           Forget the session and the cached library\n")
	fmt.Fprintf(os.Stderr, "  whoami           Show the current session\n")
	fmt.Fprintf(os.Stderr, "  search           Search the catalog\n")
	fmt.Fprintf(os.Stderr, "  book             Show a book\n")
	fmt.Fprintf(os.Stderr, "  reviews          List the reviews of a book\n")
	fmt.Fprintf(os.Stderr, "  review           Post a review\n")
	fmt.Fprintf(os.Stderr, "  library          List your library\n")
	fmt.Fprintf(os.Stderr, "  library-update   Rate or review a book in your library\n")
	fmt.Fprintf(os.Stderr, "  library-remove   Remove a book from your library\n")
	fmt.Fprintf(os.Stderr, "  version          Print the version\n")
	fmt.Fprintf(os.Stderr, "\nRun '%s <command> -h' for command options.\n", os.Args[0])
}
