package dashboard

import (
	"context"

	core "github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/theme"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Hub is the fully wired set of collaborators returned by Bootstrap.
type Hub = core.Hub

// BootstrapOptions re-export for convenience.
type BootstrapOptions = core.BootstrapOptions

// Preset is a theme preset identifier.
type Preset = theme.Preset

// NewService proxies to the internal constructor.
func NewService(opts Options) (*Service, error) {
	return core.NewService(opts)
}

// Bootstrap proxies to the internal wiring helper.
func Bootstrap(ctx context.Context, opts BootstrapOptions) (*Hub, error) {
	return core.Bootstrap(ctx, opts)
}
