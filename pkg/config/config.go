package config

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/navigation"
	"github.com/goliatone/go-admin-hub/components/theme"
	"github.com/goliatone/go-admin-hub/pkg/crm"
)

// Prefix is prepended to every environment variable, e.g. HUB_ADDR.
const Prefix = "HUB"

// Storage backends for the theme preference.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

// Config holds runtime configuration for the hub.
type Config struct {
	Env       string `envconfig:"ENV" default:"development" validate:"oneof=development production test"`
	Addr      string `envconfig:"ADDR" default:":8080" validate:"required"`
	Transport string `envconfig:"TRANSPORT" default:"chi" validate:"oneof=chi fiber"`
	BasePath  string `envconfig:"BASE_PATH" default:"/admin"`

	Storage     string        `envconfig:"STORAGE" default:"memory" validate:"oneof=memory file redis"`
	StoragePath string        `envconfig:"STORAGE_PATH" default:"hub-preferences.json" validate:"required_if=Storage file"`
	RedisAddr   string        `envconfig:"REDIS_ADDR" default:"localhost:6379" validate:"required_if=Storage redis"`
	RedisPrefix string        `envconfig:"REDIS_PREFIX" default:"hub:"`
	RedisTTL    time.Duration `envconfig:"REDIS_TTL" default:"0s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json console"`

	DealsPageSize   int           `envconfig:"DEALS_PAGE_SIZE" default:"5" validate:"min=1,max=100"`
	ChartTheme      string        `envconfig:"CHART_THEME"`
	ChartCacheTTL   time.Duration `envconfig:"CHART_CACHE_TTL" default:"5m"`
	ChartAssetsHost string        `envconfig:"CHART_ASSETS_HOST"`

	DealsURL     string        `envconfig:"DEALS_URL" validate:"omitempty,url"`
	DealsAPIKey  string        `envconfig:"DEALS_API_KEY"`
	DealsTimeout time.Duration `envconfig:"DEALS_TIMEOUT" default:"10s"`

	NavManifest    string `envconfig:"NAV_MANIFEST"`
	LayoutManifest string `envconfig:"LAYOUT_MANIFEST"`

	MutationLimit  int           `envconfig:"MUTATION_LIMIT" default:"60" validate:"min=0"`
	MutationWindow time.Duration `envconfig:"MUTATION_WINDOW" default:"1m"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from HUB_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// IsProduction returns true when the hub runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}

// OpenStorage builds the preference storage backend. The returned close
// function releases network resources and is never nil.
func (c *Config) OpenStorage(ctx context.Context) (theme.Storage, func() error, error) {
	noop := func() error { return nil }
	switch c.Storage {
	case StorageFile:
		return theme.NewFileStorage(c.StoragePath), noop, nil
	case StorageRedis:
		client, err := theme.DialRedis(ctx, c.RedisAddr)
		if err != nil {
			return nil, noop, err
		}
		storage := theme.NewRedisStorage(client,
			theme.WithRedisPrefix(c.RedisPrefix),
			theme.WithRedisTTL(c.RedisTTL),
		)
		return storage, client.Close, nil
	default:
		return theme.NewMemoryStorage(), noop, nil
	}
}

// Sidebar loads the navigation manifest, falling back to the built-in one.
func (c *Config) Sidebar() (*navigation.Sidebar, error) {
	var sidebar navigation.Sidebar
	if c.NavManifest == "" {
		sidebar = navigation.DefaultSidebar()
		return &sidebar, nil
	}
	sidebar, err := navigation.LoadSidebar(c.NavManifest)
	if err != nil {
		return nil, err
	}
	return &sidebar, nil
}

// Layout loads the layout manifest. Without one, the default layout is
// used with DealsPageSize and ChartTheme applied.
func (c *Config) Layout() (*dashboard.LayoutManifest, error) {
	if c.LayoutManifest != "" {
		return dashboard.ReadManifest(c.LayoutManifest)
	}
	doc := &dashboard.LayoutManifest{
		Version: dashboard.ManifestVersion,
		Areas:   dashboard.DefaultAreaDefinitions(),
		Widgets: dashboard.DefaultLayout(),
	}
	for i, widget := range doc.Widgets {
		switch widget.DefinitionID {
		case dashboard.WidgetRecentDeals:
			doc.Widgets[i].Configuration["page_size"] = c.DealsPageSize
		case dashboard.WidgetPipelineChart:
			if c.ChartTheme != "" {
				doc.Widgets[i].Configuration["theme"] = c.ChartTheme
			}
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Deals returns the CRM-backed repository when DealsURL is set, or nil so
// the sample deals are used.
func (c *Config) Deals() (dashboard.DealsRepository, error) {
	if c.DealsURL == "" {
		return nil, nil
	}
	client, err := crm.NewHTTPClient(crm.HTTPConfig{
		BaseURL:    c.DealsURL,
		APIKey:     c.DealsAPIKey,
		HTTPClient: &http.Client{Timeout: c.DealsTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return crm.NewDealsRepository(client, crm.DealsQuery{}), nil
}

// BootstrapOptions assembles dashboard.BootstrapOptions from the config.
func (c *Config) BootstrapOptions(storage theme.Storage, telemetry dashboard.Telemetry) (dashboard.BootstrapOptions, error) {
	sidebar, err := c.Sidebar()
	if err != nil {
		return dashboard.BootstrapOptions{}, err
	}
	layout, err := c.Layout()
	if err != nil {
		return dashboard.BootstrapOptions{}, err
	}
	deals, err := c.Deals()
	if err != nil {
		return dashboard.BootstrapOptions{}, err
	}
	base := c.BasePath
	if base == "/" {
		base = ""
	}
	return dashboard.BootstrapOptions{
		Storage:         storage,
		Telemetry:       telemetry,
		Deals:           deals,
		Sidebar:         sidebar,
		Manifest:        layout,
		ChartCacheTTL:   c.ChartCacheTTL,
		ChartAssetsHost: c.ChartAssetsHost,
		ThemeEndpoint:   base + "/dashboard/theme",
		ThemeSocket:     base + "/dashboard/theme/ws",
	}, nil
}
