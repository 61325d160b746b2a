package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/groupdata/internal/config"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

// errUsage marks failures that already printed usage information.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Output is written to stdout, logs and
// usage to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:     "groupdata",
		Short:   "Generate GroupData catalogs from WebIDL",
		Long:    "Utility to generate and validate GroupData.json format data.",
		Version: version,
		// Running without a command is a usage error.
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetOut(stderr)
			_ = cmd.Help()
			return errUsage
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")

	root.AddCommand(newGenerateCmd(&cfg, stdout, stderr))
	root.AddCommand(newServeCmd(&cfg, stderr))

	// Flag errors print usage to stderr.
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(stderr, "error: %v\n\n", err)
		cmd.SetOut(stderr)
		_ = cmd.Usage()
		return errUsage
	})
	return root
}

func newLogger(w io.Writer, verbose bool, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
