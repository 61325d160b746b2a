package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dgallion1/groupdata/internal/api"
	"github.com/dgallion1/groupdata/internal/config"
	"github.com/dgallion1/groupdata/internal/pipeline"
	"github.com/dgallion1/groupdata/internal/source"
	"github.com/spf13/cobra"
)

func newServeCmd(cfg *config.Config, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve catalog generation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), *cfg, stderr)
		},
	}
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "listen port")
	cmd.Flags().StringVarP(&cfg.APIName, "api-name", "a", cfg.APIName, "default name of the API")
	cmd.Flags().StringVarP(&cfg.CallbackMode, "callback-mode", "c", cfg.CallbackMode, "default callback mode: ignore, type, or callback")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, stderr io.Writer) error {
	log := newLogger(stderr, cfg.Verbose, true)

	// URLs come from callers, so only public hosts are fetched.
	fetcher := source.NewFetcher(cfg.FetchTimeout, cfg.MaxBodyBytes, cfg.MaxConcurrentFetch, log).
		WithURLValidator(source.ValidatePublicURL)
	defer fetcher.Close()

	srv := api.NewServer(pipeline.NewGenerator(fetcher, log), log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting groupdata", "port", cfg.Port, "auth", cfg.APIKey != "")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
