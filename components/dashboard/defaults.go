package dashboard

import (
	"maps"

	"github.com/go-echarts/go-echarts/v2/types"
)

// Widget and area codes shipped with the hub.
const (
	AreaMain    = "admin.dashboard.main"
	AreaSidebar = "admin.dashboard.sidebar"

	WidgetRecentDeals   = "admin.widget.recent_deals"
	WidgetPipelineChart = "admin.widget.pipeline_chart"
)

var defaultAreaDefinitions = []WidgetAreaDefinition{
	{Code: AreaMain, Name: "Admin Dashboard (Main)", Description: "Primary dashboard canvas"},
	{Code: AreaSidebar, Name: "Admin Dashboard (Sidebar)", Description: "Secondary widgets"},
}

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		Code:        WidgetRecentDeals,
		Name:        "Recent Deals Analytics",
		Description: "Overview of recent deal pipeline activity",
		Category:    "analytics",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"page_size": map[string]any{"type": "integer", "minimum": 1, "maximum": 100, "default": 5},
				"sort": map[string]any{
					"type":    "string",
					"pattern": `^[A-Za-z]+(:(asc|desc))?(,[A-Za-z]+(:(asc|desc))?)*$`,
				},
				"statuses": map[string]any{
					"type":        "array",
					"uniqueItems": true,
					"items": map[string]any{
						"type": "string",
						"enum": []string{string(DealWon), string(DealLost), string(DealInProgress), string(DealPending)},
					},
				},
				"hidden_columns": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        WidgetPipelineChart,
		Name:        "Pipeline by Status",
		Description: "Deal value grouped by pipeline status",
		Category:    "charts",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"metric": map[string]any{
					"type":    "string",
					"enum":    []string{"value", "weighted", "count"},
					"default": "value",
				},
				"theme": map[string]any{
					"type": "string",
					"enum": []string{
						types.ThemeWesteros,
						types.ThemeEssos,
						types.ThemeInfographic,
						types.ThemeWonderland,
						types.ThemeChalk,
						types.ThemeMacarons,
					},
				},
				"show_chart_title": map[string]any{"type": "boolean", "default": false},
			},
			"additionalProperties": false,
		},
	},
}

var defaultLayout = []WidgetInstance{
	{
		ID:            "recent-deals",
		DefinitionID:  WidgetRecentDeals,
		AreaCode:      AreaMain,
		Configuration: map[string]any{"page_size": 5},
	},
	{
		ID:            "pipeline-chart",
		DefinitionID:  WidgetPipelineChart,
		AreaCode:      AreaSidebar,
		Configuration: map[string]any{"metric": "value"},
	},
}

// DefaultAreaDefinitions returns copies of built-in area definitions.
func DefaultAreaDefinitions() []WidgetAreaDefinition {
	out := make([]WidgetAreaDefinition, len(defaultAreaDefinitions))
	copy(out, defaultAreaDefinitions)
	return out
}

// DefaultWidgetDefinitions returns copies of built-in widget definitions.
func DefaultWidgetDefinitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(defaultWidgetDefinitions))
	copy(out, defaultWidgetDefinitions)
	return out
}

// DefaultLayout returns the starter widget placements.
func DefaultLayout() []WidgetInstance {
	out := make([]WidgetInstance, len(defaultLayout))
	for i, inst := range defaultLayout {
		inst.Configuration = maps.Clone(inst.Configuration)
		out[i] = inst
	}
	return out
}

func defaultProviders() map[string]Provider {
	repo := NewStaticDealsRepository(SampleDeals())
	return map[string]Provider{
		WidgetRecentDeals:   NewRecentDealsProvider(repo),
		WidgetPipelineChart: NewPipelineChartProvider(repo),
	}
}
