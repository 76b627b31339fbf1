package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-admin-hub/components/theme"
)

const defaultChartHeight = "320px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// Pipeline chart metrics.
const (
	MetricValue    = "value"
	MetricWeighted = "weighted"
	MetricCount    = "count"
)

var presetChartThemes = map[theme.Preset]string{
	theme.Default:   types.ThemeWesteros,
	theme.Tangerine: types.ThemeEssos,
	theme.Brutalist: types.ThemeInfographic,
	theme.SoftPop:   types.ThemeWonderland,
}

// ChartThemeFor maps a theme preset to the ECharts theme used for charts.
func ChartThemeFor(preset theme.Preset) string {
	if name, ok := presetChartThemes[preset]; ok {
		return name
	}
	return types.ThemeWesteros
}

// PipelineChartProvider renders deals grouped by status as a bar chart.
type PipelineChartProvider struct {
	repo       DealsRepository
	cache      RenderCache
	assetsHost string
}

// PipelineChartOption customizes the provider.
type PipelineChartOption func(*PipelineChartProvider)

// WithChartCache injects a render cache; nil disables caching.
func WithChartCache(cache RenderCache) PipelineChartOption {
	return func(p *PipelineChartProvider) {
		p.cache = cache
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) PipelineChartOption {
	return func(p *PipelineChartProvider) {
		p.assetsHost = host
	}
}

// NewPipelineChartProvider builds the provider over repo.
func NewPipelineChartProvider(repo DealsRepository, opts ...PipelineChartOption) *PipelineChartProvider {
	p := &PipelineChartProvider{
		repo:  repo,
		cache: sharedChartCache,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PipelinePoint is the aggregate for one status.
type PipelinePoint struct {
	Status DealStatus `json:"status"`
	Label  string     `json:"label"`
	Value  float64    `json:"value"`
}

// PipelineByStatus aggregates deals per status in DealStatuses order.
func PipelineByStatus(deals []Deal, metric string) []PipelinePoint {
	totals := make(map[DealStatus]float64, len(deals))
	for _, deal := range deals {
		switch metric {
		case MetricCount:
			totals[deal.Status]++
		case MetricWeighted:
			totals[deal.Status] += deal.Value * float64(deal.Probability) / 100
		default:
			totals[deal.Status] += deal.Value
		}
	}
	points := make([]PipelinePoint, 0, len(totals))
	for _, status := range DealStatuses() {
		points = append(points, PipelinePoint{
			Status: status,
			Label:  StatusBadge(status).Label,
			Value:  totals[status],
		})
	}
	return points
}

// Fetch aggregates deals and renders the chart for the active preset.
func (p *PipelineChartProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	if p.repo == nil {
		return nil, fmt.Errorf("dashboard: deals repository not configured")
	}
	cfg := meta.Instance.Configuration
	metric := stringValue(cfg["metric"], MetricValue)
	switch metric {
	case MetricValue, MetricWeighted, MetricCount:
	default:
		return nil, fmt.Errorf("dashboard: unsupported pipeline metric %q", metric)
	}

	deals, err := p.repo.ListDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list deals: %w", err)
	}
	points := PipelineByStatus(deals, metric)

	chartTheme := ChartThemeFor(meta.Theme)
	if override := strings.TrimSpace(stringValue(cfg["theme"], "")); override != "" {
		chartTheme = override
	}
	title := "Pipeline by Status"
	showTitle := boolValue(cfg["show_chart_title"])

	render := func() (string, error) {
		return p.render(title, showTitle, metric, chartTheme, points)
	}
	var html string
	if p.cache != nil {
		key := strings.Join([]string{
			meta.Instance.DefinitionID,
			meta.Instance.ID,
			chartTheme,
			configHash(cfg),
			pointsHash(points),
		}, ":")
		html, err = p.cache.GetOrRender(key, render)
	} else {
		html, err = render()
	}
	if err != nil {
		return nil, err
	}

	return WidgetData{
		"title":       title,
		"description": "Deal " + metricLabel(metric) + " grouped by status",
		"chart_html":  html,
		"chart_theme": chartTheme,
		"metric":      metric,
		"points":      points,
	}, nil
}

func (p *PipelineChartProvider) render(title string, showTitle bool, metric, chartTheme string, points []PipelinePoint) (string, error) {
	initOpts := opts.Initialization{
		Theme:  chartTheme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if p.assetsHost != "" {
		initOpts.AssetsHost = p.assetsHost
	}
	titleOpts := opts.Title{}
	if showTitle {
		titleOpts.Title = title
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(titleOpts),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	labels := make([]string, len(points))
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		labels[i] = point.Label
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	bar.SetXAxis(labels).AddSeries(metricLabel(metric), data)

	var buf bytes.Buffer
	if err := renderChart(bar, &buf); err != nil {
		return "", fmt.Errorf("dashboard: render pipeline chart: %w", err)
	}
	return buf.String(), nil
}

func renderChart(renderable interface{ Render(io.Writer) error }, w io.Writer) error {
	return renderable.Render(w)
}

func metricLabel(metric string) string {
	switch metric {
	case MetricCount:
		return "count"
	case MetricWeighted:
		return "weighted value"
	default:
		return "value"
	}
}

func pointsHash(points []PipelinePoint) string {
	parts := make([]string, len(points))
	for i, point := range points {
		parts[i] = fmt.Sprintf("%s=%g", point.Status, point.Value)
	}
	return configHash(map[string]any{"points": parts})
}
