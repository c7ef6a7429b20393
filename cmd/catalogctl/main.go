// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command catalogctl inspects and edits the ethics catalog of a running
// ethicsadmin server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ethicsadmin/internal/catalogapi"
	"ethicsadmin/internal/editor"
)

type rootOptions struct {
	apiURL  string
	token   string
	timeout time.Duration
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Inspect and edit the ethics catalog",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", envOrDefault("CATALOG_API_URL", "http://localhost:8080"), "Base URL of the ethicsadmin server")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("CATALOG_API_TOKEN"), "Admin bearer token")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Timeout for each command")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(newShowCmd(&opts), newValidateCmd(&opts), newApplyCmd(&opts))
	return cmd
}

// loadEditor connects to the server and returns an editor holding the
// current catalog.
func loadEditor(ctx context.Context, opts *rootOptions) (*editor.Editor, error) {
	ed := editor.New(catalogapi.New(opts.apiURL, opts.token), nil)
	if err := ed.Load(ctx); err != nil {
		return nil, err
	}
	return ed, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
