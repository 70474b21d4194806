package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guestlens/guestlens/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve the review validation API over HTTP for the dashboard frontend.
The server exposes review listing, single-review fetch, validation, and
metrics endpoints under /api/v1.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8000", "listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = ":8000"
	}

	ctx := cmd.Context()
	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	srv := server.New(store)
	slog.Info("starting API server", "addr", addr)
	return srv.ListenAndServe(ctx, addr)
}
