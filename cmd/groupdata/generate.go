package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/groupdata/internal/config"
	"github.com/dgallion1/groupdata/internal/pipeline"
	"github.com/dgallion1/groupdata/internal/source"
	"github.com/spf13/cobra"
)

func newGenerateCmd(cfg *config.Config, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate <specOrIDL...>",
		Aliases: []string{"gen"},
		Short:   "Generate GroupData from WebIDL files and specifications",
		Long: `Scan the specified WebIDL file(s) and/or specification(s) to generate
GroupData.json output. Sources starting with http:// or https:// are fetched
and the IDL embedded in the page is used; anything else is read as a local file.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.SetOut(stderr)
				_ = cmd.Help()
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(stderr, "error: %v\n\n", err)
				cmd.SetOut(stderr)
				_ = cmd.Usage()
				return errUsage
			}
			log := newLogger(stderr, cfg.Verbose, false)
			return runGenerate(cmd.Context(), *cfg, args, stdout, log)
		},
	}

	cmd.Flags().StringVarP(&cfg.APIName, "api-name", "a", cfg.APIName, "name of the API")
	cmd.Flags().StringVarP(&cfg.CallbackMode, "callback-mode", "c", cfg.CallbackMode, "callback mode: ignore, type, or callback")
	cmd.Flags().StringVarP(&cfg.OutputFile, "output-file", "o", cfg.OutputFile, "direct output to the specified file")
	return cmd
}

// runGenerate builds the catalog for sources and writes it out. It fails only
// when no source could be used at all.
func runGenerate(ctx context.Context, cfg config.Config, sources []string, stdout io.Writer, log *slog.Logger) error {
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	fetcher := source.NewFetcher(cfg.FetchTimeout, cfg.MaxBodyBytes, cfg.MaxConcurrentFetch, log)
	defer fetcher.Close()

	gen := pipeline.NewGenerator(fetcher, log)
	res := gen.Generate(ctx, pipeline.Request{
		APIName: cfg.APIName,
		Policy:  policy,
		Sources: sources,
	})

	writeOutput(cfg.OutputFile, res.Output, stdout, log)

	if len(sources) > 0 && res.Contributed == 0 {
		return fmt.Errorf("no usable WebIDL in %d source(s)", len(sources))
	}
	return nil
}

// writeOutput sends the catalog to path, or to stdout when path is empty.
// Write failures are logged, not retried.
func writeOutput(path, output string, stdout io.Writer, log *slog.Logger) {
	if path == "" {
		if _, err := fmt.Fprintln(stdout, output); err != nil {
			log.Error("write output failed", "error", err)
		}
		return
	}
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		log.Error("write output failed", "path", path, "error", err)
		return
	}
	log.Info("wrote catalog", "path", path, "bytes", len(output))
}
