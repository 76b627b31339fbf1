package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-admin-hub/components/datatable"
	"github.com/goliatone/go-admin-hub/components/theme"
)

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingTelemetry) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

type failingDeals struct{}

func (failingDeals) ListDeals(context.Context) ([]Deal, error) {
	return nil, errors.New("deals offline")
}

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	if opts.Presets == nil {
		opts.Presets = theme.NewStore(context.Background(), theme.Options{})
	}
	svc, err := NewService(opts)
	require.NoError(t, err)
	return svc
}

func TestConfigureLayoutAttachesProviderData(t *testing.T) {
	svc := newTestService(t, Options{})

	layout, err := svc.ConfigureLayout(context.Background(), PageRequest{Path: "/"})
	require.NoError(t, err)

	main := layout.Areas[AreaMain]
	require.Len(t, main, 1)
	assert.Equal(t, "recent-deals", main[0].ID)
	data, ok := main[0].Metadata["data"].(WidgetData)
	require.True(t, ok)
	assert.Equal(t, "Recent Deals Analytics", data["title"])
	page := data["page"].(datatable.Page[Deal])
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Rows, 5)

	sidebar := layout.Areas[AreaSidebar]
	require.Len(t, sidebar, 1)
	chart := sidebar[0].Metadata["data"].(WidgetData)
	assert.Contains(t, chart["chart_html"], "echarts")
}

func TestConfigureLayoutAppliesQueryState(t *testing.T) {
	svc := newTestService(t, Options{})
	query := url.Values{
		"recent-deals.sort":          {"value:desc"},
		"recent-deals.filter.status": {"won"},
	}

	layout, err := svc.ConfigureLayout(context.Background(), PageRequest{Query: query})
	require.NoError(t, err)

	page := layout.Areas[AreaMain][0].Metadata["data"].(WidgetData)["page"].(datatable.Page[Deal])
	require.Len(t, page.Rows, 2)
	assert.Equal(t, 125000.0, page.Rows[0].Record.Value)
	assert.Equal(t, 32000.0, page.Rows[1].Record.Value)
}

func TestConfigureLayoutOutOfRangePageIsEmpty(t *testing.T) {
	svc := newTestService(t, Options{})
	query := url.Values{
		"recent-deals.page": {"4611686018427387905"},
		"recent-deals.size": {"2"},
	}

	payload, err := svc.Page(context.Background(), PageRequest{Query: query})
	require.NoError(t, err)

	data := payload.Layout.Areas[AreaMain][0].Metadata["data"].(WidgetData)
	page := data["page"].(datatable.Page[Deal])
	assert.Empty(t, page.Rows)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.PageCount)
	assert.False(t, page.CanNext)
	assert.Equal(t, "No deals past page 3", data["summary"])
}

func TestConfigureLayoutReportsProviderErrors(t *testing.T) {
	telemetry := &recordingTelemetry{}
	reg := NewEmptyRegistry()
	for _, def := range DefaultWidgetDefinitions() {
		require.NoError(t, reg.RegisterDefinition(def))
	}
	require.NoError(t, reg.RegisterProvider(WidgetRecentDeals, NewRecentDealsProvider(failingDeals{})))

	svc := newTestService(t, Options{Providers: reg, Telemetry: telemetry})
	layout, err := svc.ConfigureLayout(context.Background(), PageRequest{})
	require.NoError(t, err)

	inst := layout.Areas[AreaMain][0]
	assert.Contains(t, inst.Metadata["error"], "deals offline")
	assert.Nil(t, layout.Areas[AreaSidebar][0].Metadata["data"])
	assert.True(t, telemetry.has("dashboard.widget.provider_error"))
	assert.True(t, telemetry.has("dashboard.layout.resolve"))
}

func TestConfigureLayoutKeepsAreaOrderWithConcurrentProviders(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterDefinition(WidgetDefinition{Code: "test.delayed", Name: "Delayed"}))
	require.NoError(t, reg.RegisterProvider("test.delayed", ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		delay := time.Duration(intValue(meta.Instance.Configuration["delay_ms"], 0)) * time.Millisecond
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return WidgetData{"id": meta.Instance.ID}, nil
	})))
	svc := newTestService(t, Options{Providers: reg})
	ctx := context.Background()
	for _, delay := range []int{30, 0, 15} {
		_, err := svc.AddWidget(ctx, AddWidgetRequest{
			ID:            fmt.Sprintf("delayed-%d", delay),
			DefinitionID:  "test.delayed",
			AreaCode:      AreaMain,
			Configuration: map[string]any{"delay_ms": delay},
		})
		require.NoError(t, err)
	}

	layout, err := svc.ConfigureLayout(ctx, PageRequest{Path: "/"})
	require.NoError(t, err)
	var ids []string
	for _, inst := range layout.Areas[AreaMain] {
		ids = append(ids, inst.ID)
	}
	assert.Equal(t, []string{"recent-deals", "delayed-30", "delayed-0", "delayed-15"}, ids)
	assert.Equal(t, WidgetData{"id": "delayed-0"}, layout.Areas[AreaMain][2].Metadata["data"])

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.ConfigureLayout(canceled, PageRequest{Path: "/"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewServiceRejectsInvalidInstances(t *testing.T) {
	_, err := NewService(Options{Instances: []WidgetInstance{{ID: "x", DefinitionID: WidgetRecentDeals}}})
	assert.ErrorIs(t, err, errInvalidArea)

	_, err = NewService(Options{Instances: []WidgetInstance{{ID: "x", DefinitionID: WidgetRecentDeals, AreaCode: "admin.dashboard.footer"}}})
	assert.ErrorIs(t, err, ErrUnknownArea)

	_, err = NewService(Options{Instances: []WidgetInstance{{
		ID:            "x",
		DefinitionID:  WidgetRecentDeals,
		AreaCode:      AreaMain,
		Configuration: map[string]any{"page_size": -1},
	}}})
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestAddRemoveReorderWidgets(t *testing.T) {
	telemetry := &recordingTelemetry{}
	svc := newTestService(t, Options{Telemetry: telemetry})
	ctx := context.Background()

	first := 0
	added, err := svc.AddWidget(ctx, AddWidgetRequest{
		DefinitionID:  WidgetRecentDeals,
		AreaCode:      AreaMain,
		Configuration: map[string]any{"statuses": []string{"won"}},
		Position:      &first,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, []string{added.ID, "recent-deals"}, areaIDs(svc, AreaMain))

	_, err = svc.AddWidget(ctx, AddWidgetRequest{ID: added.ID, DefinitionID: WidgetRecentDeals, AreaCode: AreaMain})
	require.Error(t, err)

	require.NoError(t, svc.ReorderWidgets(ctx, AreaMain, []string{"recent-deals"}))
	assert.Equal(t, []string{"recent-deals", added.ID}, areaIDs(svc, AreaMain))

	require.ErrorIs(t, svc.ReorderWidgets(ctx, AreaMain, []string{"pipeline-chart"}), ErrWidgetNotFound)
	require.ErrorIs(t, svc.ReorderWidgets(ctx, "nowhere", nil), ErrUnknownArea)

	require.NoError(t, svc.RemoveWidget(ctx, added.ID))
	assert.Equal(t, []string{"recent-deals"}, areaIDs(svc, AreaMain))
	require.ErrorIs(t, svc.RemoveWidget(ctx, added.ID), ErrWidgetNotFound)

	for _, event := range []string{"dashboard.widget.add", "dashboard.widget.reorder", "dashboard.widget.remove"} {
		assert.True(t, telemetry.has(event), event)
	}
}

func TestUpdateWidgetValidatesConfiguration(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	updated, err := svc.UpdateWidget(ctx, "recent-deals", map[string]any{"page_size": 2, "sort": "value:desc"})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Configuration["page_size"])

	_, err = svc.UpdateWidget(ctx, "recent-deals", map[string]any{"page_size": "many"})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)

	layout, err := svc.ConfigureLayout(ctx, PageRequest{})
	require.NoError(t, err)
	page := layout.Areas[AreaMain][0].Metadata["data"].(WidgetData)["page"].(datatable.Page[Deal])
	assert.Len(t, page.Rows, 2)
	assert.Equal(t, 125000.0, page.Rows[0].Record.Value)

	_, err = svc.UpdateWidget(ctx, "missing", nil)
	require.ErrorIs(t, err, ErrWidgetNotFound)
}

func TestServicePageComposesThemeAndNavigation(t *testing.T) {
	doc := theme.NewRootElement()
	store := theme.NewStore(context.Background(), theme.Options{Document: doc})
	svc := newTestService(t, Options{Presets: store})

	selection, err := svc.SetThemePreset(context.Background(), theme.Brutalist)
	require.NoError(t, err)
	assert.Equal(t, theme.Brutalist, selection.Preset)

	page, err := svc.Page(context.Background(), PageRequest{Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, "Dashboard", page.Title)
	assert.Equal(t, theme.Brutalist, page.Theme.Preset)
	assert.Equal(t, ChartThemeFor(theme.Brutalist), page.Theme.ChartTheme)
	value, _ := doc.Attribute(theme.AttributeName)
	assert.Equal(t, "brutalist", value)

	dashboard, ok := page.Navigation.Find("/")
	require.True(t, ok)
	assert.True(t, dashboard.Active)

	chart := page.Layout.Areas[AreaSidebar][0].Metadata["data"].(WidgetData)
	assert.Equal(t, ChartThemeFor(theme.Brutalist), chart["chart_theme"])
}

func TestSetThemePresetRejectsUnknownPreset(t *testing.T) {
	telemetry := &recordingTelemetry{}
	svc := newTestService(t, Options{Telemetry: telemetry})

	selection, err := svc.SetThemePreset(context.Background(), theme.Preset("neon"))
	require.ErrorIs(t, err, theme.ErrUnknownPreset)
	assert.Equal(t, theme.Default, selection.Preset)
	assert.True(t, telemetry.has("dashboard.theme.set_failed"))
}

func TestDealsPage(t *testing.T) {
	svc := newTestService(t, Options{})
	page, err := svc.DealsPage(context.Background(), datatable.ViewState{
		Sorting: []datatable.SortSpec{{Key: ColumnValue, Direction: datatable.Desc}},
		Filters: map[string][]string{ColumnStatus: {"won"}},
	})
	require.NoError(t, err)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "Enterprise License Q1", page.Rows[0].Record.Name)
	assert.Equal(t, defaultDealsPageSize, page.PageSize)

	failing := newTestService(t, Options{Deals: failingDeals{}})
	_, err = failing.DealsPage(context.Background(), datatable.ViewState{})
	require.Error(t, err)
}

func TestNewServiceFromManifest(t *testing.T) {
	doc, err := ReadManifest("../../docs/manifests/sales-review.yaml")
	require.NoError(t, err)

	svc, err := NewServiceFromManifest(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"open-deals"}, areaIDs(svc, AreaMain))

	layout, err := svc.ConfigureLayout(context.Background(), PageRequest{})
	require.NoError(t, err)
	data := layout.Areas[AreaMain][0].Metadata["data"].(WidgetData)
	page := data["page"].(datatable.Page[Deal])
	assert.Equal(t, 2, page.Total)
	for _, header := range page.Headers {
		assert.NotEqual(t, ColumnProbability, header.Key)
	}
	assert.Equal(t, "Annual Subscription", page.Rows[0].Record.Name)
}

func areaIDs(svc *Service, area string) []string {
	var ids []string
	for _, inst := range svc.Widgets() {
		if inst.AreaCode == area {
			ids = append(ids, inst.ID)
		}
	}
	return ids
}
