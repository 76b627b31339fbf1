package dashboard

import (
	"context"
	"net/url"

	"github.com/goliatone/go-admin-hub/components/theme"
)

// PresetStore is the preference store contract consumed by the dashboard.
// *theme.Store satisfies it.
type PresetStore interface {
	Get() theme.Preset
	Set(ctx context.Context, preset theme.Preset) error
	Presets() []theme.PresetOption
	Attribute() string
}

// ProviderRegistry stores widget definitions/providers discoverable via hooks or manifests.
type ProviderRegistry interface {
	RegisterDefinition(def WidgetDefinition) error
	RegisterProvider(code string, provider Provider) error
	Definition(code string) (WidgetDefinition, bool)
	Provider(code string) (Provider, bool)
	Definitions() []WidgetDefinition
}

// WidgetAreaDefinition models a dashboard widget area (main/sidebar).
type WidgetAreaDefinition struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// WidgetDefinition describes a widget and its configuration schema.
type WidgetDefinition struct {
	Code        string         `json:"code" yaml:"code"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty"`
}

// WidgetInstance is a configured widget placed in an area.
type WidgetInstance struct {
	ID            string         `json:"id" yaml:"id"`
	DefinitionID  string         `json:"definition" yaml:"definition"`
	AreaCode      string         `json:"area" yaml:"area"`
	Configuration map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty" yaml:"-"`
}

// ViewerContext captures the active user/locale information needed to render dashboards.
type ViewerContext struct {
	UserID string   `json:"user_id,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	Locale string   `json:"locale,omitempty"`
}

// PageRequest carries everything a page render depends on: the viewer, the
// current path (for the active sidebar item) and the query string holding
// per-table view state.
type PageRequest struct {
	Viewer ViewerContext
	Path   string
	Query  url.Values
}

// Layout describes the resolved widget instances per dashboard area.
type Layout struct {
	Areas map[string][]WidgetInstance `json:"areas"`
}
