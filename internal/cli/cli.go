// Package cli implements the bookshelf subcommands. Every command restores
// the persisted session before it runs and persists it afterwards.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/bookshelf/internal/app"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/logging"
)

// Version is reported in log lines; main sets it from ldflags.
var Version = "dev"

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Command is one subcommand.
type Command interface {
	ParseFlags(args []string) error
	Run() error
}

// action is the body of a command, run against a restored application.
type action func(ctx context.Context, a *app.App, out io.Writer) error

// withApp builds the application from the environment, restores state,
// runs fn and persists state even when fn fails.
func withApp(fn action) error {
	cfg := config.NewConfig()
	logger, flush, err := logging.New(cfg.Logging, Version)
	if err != nil {
		return err
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("error closing state backend", zap.Error(err))
		}
	}()

	return runWithApp(ctx, a, os.Stdout, fn)
}

func runWithApp(ctx context.Context, a *app.App, out io.Writer, fn action) error {
	if err := a.Restore(ctx); err != nil {
		a.Logger.Warn("failed to restore state, starting empty", zap.Error(err))
	}

	runErr := fn(ctx, a, out)

	// ctx may already be cancelled by an interrupt
	if err := a.Persist(context.WithoutCancel(ctx)); err != nil {
		a.Logger.Warn("failed to persist state", zap.Error(err))
	}
	return runErr
}

func newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s\n\n", os.Args[0], usage)
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	return fs
}

func addFormatFlag(fs *flag.FlagSet, format *string) {
	fs.StringVar(format, "format", FormatText, "Output format: text, json or yaml")
}

func validateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// render writes v as JSON or YAML, or calls text for the text format.
func render(out io.Writer, format string, v any, text func(w io.Writer)) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		// Round-trip through JSON so YAML keys match the JSON field names.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(out)
		return nil
	}
}

// requireArg returns the single positional argument of fs.
func requireArg(fs *flag.FlagSet, name string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one %s argument", name)
	}
	return fs.Arg(0), nil
}
