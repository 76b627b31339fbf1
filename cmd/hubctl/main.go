package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/pkg/config"
	"github.com/goliatone/go-admin-hub/pkg/telemetry"
)

type cli struct {
	Serve  serveCmd  `cmd:"" help:"Serve the admin dashboard over HTTP."`
	Theme  themeCmd  `cmd:"" help:"List, read or switch the theme preset."`
	Deals  dealsCmd  `cmd:"" help:"Sort, filter and paginate the deals table."`
	Nav    navCmd    `cmd:"" help:"Print the sidebar navigation."`
	Layout layoutCmd `cmd:"" help:"Inspect and validate layout manifests."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Name("hubctl"),
		kong.Description("Scholar Admin Hub: dashboard server and preference tooling. Configuration comes from HUB_* variables."),
		kong.UsageOnError(),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

// runtime is the hub plus the config and logger it was built from.
type runtime struct {
	cfg    *config.Config
	logger zerolog.Logger
	hub    *dashboard.Hub
	close  func() error
}

func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := telemetry.NewLogger(telemetry.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return nil, fmt.Errorf("hubctl: logger: %w", err)
	}
	storage, closeStorage, err := cfg.OpenStorage(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.BootstrapOptions(storage, telemetry.NewRecorder(logger))
	if err != nil {
		_ = closeStorage()
		return nil, err
	}
	hub, err := dashboard.Bootstrap(ctx, opts)
	if err != nil {
		_ = closeStorage()
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger, hub: hub, close: closeStorage}, nil
}
