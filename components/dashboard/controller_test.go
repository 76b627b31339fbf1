package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-admin-hub/components/theme"
)

type stubPageResolver struct {
	page PagePayload
	err  error
}

func (s *stubPageResolver) Page(context.Context, PageRequest) (PagePayload, error) {
	return s.page, s.err
}

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", r.err
}

func TestControllerRenderTemplate(t *testing.T) {
	resolver := &stubPageResolver{page: PagePayload{
		Title: "Dashboard",
		Areas: DefaultAreaDefinitions(),
		Layout: Layout{Areas: map[string][]WidgetInstance{
			AreaMain: {{ID: "w1", DefinitionID: WidgetRecentDeals, Metadata: map[string]any{"data": WidgetData{"title": "Deals"}}}},
		}},
		Theme: NewThemeSelection(theme.Tangerine, ""),
	}}
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{Service: resolver, Renderer: renderer})

	var buf bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), PageRequest{Path: "/"}, &buf))
	assert.Equal(t, "dashboard", renderer.lastTemplate)
	assert.NotZero(t, buf.Len())

	payload := renderer.lastPayload
	require.NotNil(t, payload)
	assert.Equal(t, "/dashboard/theme", payload["theme_endpoint"])
	assert.Contains(t, payload["stylesheet"], `:root[data-theme-preset="tangerine"]`)

	areas := payload["areas"].([]map[string]any)
	require.Len(t, areas, 2)
	assert.Equal(t, "main", areas[0]["slug"])
	widgets := areas[0]["widgets"].([]map[string]any)
	require.Len(t, widgets, 1)
	assert.Equal(t, "recent_deals", widgets[0]["template"])
	assert.Empty(t, areas[1]["widgets"])

	themeData := payload["theme"].(map[string]any)
	assert.Equal(t, "tangerine", themeData["preset"])
}

func TestControllerPropagatesErrors(t *testing.T) {
	controller := NewController(ControllerOptions{
		Service:  &stubPageResolver{err: errors.New("boom")},
		Renderer: &stubRenderer{},
	})
	err := controller.RenderTemplate(context.Background(), PageRequest{}, io.Discard)
	require.Error(t, err)

	controller = NewController(ControllerOptions{Service: &stubPageResolver{}, Renderer: &stubRenderer{err: errors.New("bad template")}})
	err = controller.RenderTemplate(context.Background(), PageRequest{}, io.Discard)
	require.ErrorContains(t, err, "bad template")

	_, err = NewController(ControllerOptions{}).Render(context.Background(), PageRequest{})
	require.Error(t, err)
}

func TestEmbeddedTemplatesRenderDashboard(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)
	svc, err := NewService(Options{Presets: theme.NewStore(context.Background(), theme.Options{})})
	require.NoError(t, err)
	controller := NewController(ControllerOptions{Service: svc, Renderer: renderer, ThemeSocket: "/dashboard/theme/ws"})

	var buf bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), PageRequest{Path: "/"}, &buf))
	html := buf.String()
	assert.Contains(t, html, `data-theme-preset="default"`)
	assert.Contains(t, html, "Recent Deals Analytics")
	assert.Contains(t, html, "Enterprise License Q1")
	assert.Contains(t, html, "$125,000")
	assert.Contains(t, html, "Scholar Admin Hub")
	assert.Contains(t, html, "Soft Pop")
}
