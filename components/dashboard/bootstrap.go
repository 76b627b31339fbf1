package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-admin-hub/components/navigation"
	"github.com/goliatone/go-admin-hub/components/theme"
)

// RegisterDefaults registers the built-in widget definitions and their
// providers against reg, reading deals from repo.
func RegisterDefaults(reg ProviderRegistry, repo DealsRepository, chartOpts ...PipelineChartOption) error {
	if reg == nil {
		return fmt.Errorf("dashboard: registry is required")
	}
	if repo == nil {
		repo = NewStaticDealsRepository(SampleDeals())
	}
	providers := map[string]Provider{
		WidgetRecentDeals:   NewRecentDealsProvider(repo),
		WidgetPipelineChart: NewPipelineChartProvider(repo, chartOpts...),
	}
	for _, def := range DefaultWidgetDefinitions() {
		if err := reg.RegisterDefinition(def); err != nil {
			return fmt.Errorf("register definition %s: %w", def.Code, err)
		}
		if err := reg.RegisterProvider(def.Code, providers[def.Code]); err != nil {
			return fmt.Errorf("register provider %s: %w", def.Code, err)
		}
	}
	return nil
}

// BootstrapOptions configures Bootstrap. Zero values select in-memory
// storage, the built-in sidebar and layout, and sample deals.
type BootstrapOptions struct {
	Storage         theme.Storage
	Telemetry       Telemetry
	Deals           DealsRepository
	Sidebar         *navigation.Sidebar
	Manifest        *LayoutManifest
	ChartCacheTTL   time.Duration
	ChartAssetsHost string
	Renderer        Renderer
	ThemeEndpoint   string
	ThemeSocket     string
}

// Hub bundles the wired dashboard collaborators.
type Hub struct {
	Root       *theme.RootElement
	Presets    *theme.Store
	Registry   *Registry
	Service    *Service
	Controller *Controller
	Broadcast  *BroadcastHook
	ChartCache *ChartCache
}

// Bootstrap wires the preference store, widget registry, service,
// controller and broadcast hook.
func Bootstrap(ctx context.Context, opts BootstrapOptions) (*Hub, error) {
	telemetry := normalizeTelemetry(opts.Telemetry)
	root := theme.NewRootElement()
	broadcast := NewBroadcastHook(theme.AttributeName)
	store := theme.NewStore(ctx, theme.Options{
		Storage:   opts.Storage,
		Document:  root,
		Telemetry: telemetry,
		Hooks:     []theme.ChangeHook{broadcast},
	})

	ttl := opts.ChartCacheTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	cache := NewChartCache(ttl)
	chartOpts := []PipelineChartOption{WithChartCache(cache)}
	if opts.ChartAssetsHost != "" {
		chartOpts = append(chartOpts, WithChartAssetsHost(opts.ChartAssetsHost))
	}
	reg := NewEmptyRegistry()
	if err := RegisterDefaults(reg, opts.Deals, chartOpts...); err != nil {
		return nil, err
	}
	if err := reg.ApplyHooks(); err != nil {
		return nil, fmt.Errorf("dashboard: apply widget hooks: %w", err)
	}

	serviceOpts := Options{
		Providers: reg,
		Telemetry: telemetry,
		Presets:   store,
		Deals:     opts.Deals,
		Sidebar:   opts.Sidebar,
	}
	var (
		svc *Service
		err error
	)
	if opts.Manifest != nil {
		svc, err = NewServiceFromManifest(opts.Manifest, serviceOpts)
	} else {
		svc, err = NewService(serviceOpts)
	}
	if err != nil {
		return nil, err
	}

	renderer := opts.Renderer
	if renderer == nil {
		if renderer, err = NewTemplateRenderer(); err != nil {
			return nil, fmt.Errorf("dashboard: template renderer: %w", err)
		}
	}
	controller := NewController(ControllerOptions{
		Service:       svc,
		Renderer:      renderer,
		ThemeEndpoint: opts.ThemeEndpoint,
		ThemeSocket:   opts.ThemeSocket,
	})

	return &Hub{
		Root:       root,
		Presets:    store,
		Registry:   reg,
		Service:    svc,
		Controller: controller,
		Broadcast:  broadcast,
		ChartCache: cache,
	}, nil
}
