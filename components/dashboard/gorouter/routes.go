package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/dashboard/commands"
	"github.com/goliatone/go-admin-hub/components/dashboard/httpapi"
	"github.com/goliatone/go-admin-hub/components/dashboard/queries"
)

// Config wires go-router with the hub controller, API and theme broadcast.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *dashboard.Controller
	API        httpapi.Executor
	Broadcast  *dashboard.BroadcastHook
	// InstanceIDs lists placed widgets so their prefixed table parameters
	// can be read from the query string.
	InstanceIDs func() []string
	BasePath    string
	Routes      RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML        string
	Layout      string
	Stylesheet  string
	Deals       string
	Navigation  string
	Theme       string
	Widgets     string
	WidgetID    string
	Reorder     string
	PurgeCharts string
	WebSocket   string
}

var tableParams = []string{"sort", "page", "size", "hide"}

var filterColumns = []string{
	dashboard.ColumnDealName,
	dashboard.ColumnCompany,
	dashboard.ColumnValue,
	dashboard.ColumnStatus,
	dashboard.ColumnProbability,
	dashboard.ColumnCloseDate,
}

// Register mounts dashboard routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	group := cfg.Router.Group(base)
	reader := queryReader{instanceIDs: cfg.InstanceIDs}

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), reader.pageRequest(ctx), &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Layout, router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.LayoutPayload(ctx.Context(), reader.pageRequest(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	group.Get(routes.Stylesheet, router.WrapHandler(func(ctx router.Context) error {
		attribute := ""
		if cfg.API != nil {
			selection, err := cfg.API.Theme(ctx.Context())
			if err != nil {
				return respondError(ctx, err)
			}
			attribute = selection.Attribute
		}
		ctx.SetHeader("Content-Type", "text/css; charset=utf-8")
		ctx.SetHeader("Cache-Control", "public, max-age=300")
		return ctx.Send([]byte(dashboard.ThemeStylesheet(attribute)))
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, reader, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, reader queryReader, routes RouteConfig) {
	r.Get(routes.Deals, router.WrapHandler(func(ctx router.Context) error {
		page, err := api.Deals(ctx.Context(), queries.DealsInput{Query: reader.values(ctx, "")})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, page)
	}))

	r.Get(routes.Navigation, router.WrapHandler(func(ctx router.Context) error {
		sidebar, err := api.Navigation(ctx.Context(), ctx.Query("path"))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, sidebar)
	}))

	r.Get(routes.Theme, router.WrapHandler(func(ctx router.Context) error {
		selection, err := api.Theme(ctx.Context())
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, selection)
	}))

	r.Post(routes.Theme, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetThemePresetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return ctx.JSON(http.StatusBadRequest, httpapi.ErrorBody{Error: err.Error()})
		}
		selection, err := api.SetTheme(ctx.Context(), payload)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, selection)
	}))

	r.Post(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.AssignWidgetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return ctx.JSON(http.StatusBadRequest, httpapi.ErrorBody{Error: err.Error()})
		}
		inst, err := api.Assign(ctx.Context(), payload)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, inst)
	}))

	// Reorder must precede the :id routes so fiber does not bind it as an id.
	r.Post(routes.Reorder, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ReorderWidgetsInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return ctx.JSON(http.StatusBadRequest, httpapi.ErrorBody{Error: err.Error()})
		}
		order, err := api.Reorder(ctx.Context(), payload)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, httpapi.ReorderBody{Status: "reordered", Order: order})
	}))

	r.Post(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.UpdateWidgetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return ctx.JSON(http.StatusBadRequest, httpapi.ErrorBody{Error: err.Error()})
		}
		payload.WidgetID = ctx.Param("id")
		inst, err := api.Update(ctx.Context(), payload)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, inst)
	}))

	r.Delete(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if err := api.Remove(ctx.Context(), commands.RemoveWidgetInput{WidgetID: id}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))

	r.Post(routes.PurgeCharts, router.WrapHandler(func(ctx router.Context) error {
		purged, err := api.PurgeCharts(ctx.Context(), commands.PurgeChartsInput{Prefix: ctx.Query("prefix")})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]int{"purged": purged})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		ctx, stop := context.WithCancel(ws.Context())
		defer stop()
		go func() {
			defer stop()
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()

		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ctx.Done():
				return ws.Close()
			}
		}
	})
}

// queryReader rebuilds url.Values from a router.Context. Only the
// parameters the dashboard understands are read.
type queryReader struct {
	instanceIDs func() []string
}

func (q queryReader) pageRequest(ctx router.Context) dashboard.PageRequest {
	path := ctx.Query("path")
	if path == "" {
		path = "/"
	}
	values := q.values(ctx, "")
	if q.instanceIDs != nil {
		for _, id := range q.instanceIDs() {
			for key, v := range q.values(ctx, dashboard.QueryPrefix(id)) {
				values[key] = v
			}
		}
	}
	return dashboard.PageRequest{Path: path, Query: values}
}

// values reads the first value of each parameter. Multi-value filters use
// the comma-separated form (filter.status=won,lost).
func (queryReader) values(ctx router.Context, prefix string) url.Values {
	values := url.Values{}
	for _, name := range tableParams {
		if v := ctx.Query(prefix + name); v != "" {
			values.Set(prefix+name, v)
		}
	}
	for _, column := range filterColumns {
		key := prefix + "filter." + column
		if v := ctx.Query(key); v != "" {
			values.Set(key, v)
		}
	}
	return values
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), httpapi.NewErrorBody(err))
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Layout == "" {
		routes.Layout = "/dashboard/_layout"
	}
	if routes.Stylesheet == "" {
		routes.Stylesheet = "/dashboard/theme.css"
	}
	if routes.Deals == "" {
		routes.Deals = "/dashboard/deals"
	}
	if routes.Navigation == "" {
		routes.Navigation = "/dashboard/navigation"
	}
	if routes.Theme == "" {
		routes.Theme = "/dashboard/theme"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/dashboard/widgets"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/dashboard/widgets/:id"
	}
	if routes.Reorder == "" {
		routes.Reorder = "/dashboard/widgets/reorder"
	}
	if routes.PurgeCharts == "" {
		routes.PurgeCharts = "/dashboard/charts/purge"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/theme/ws"
	}
	return routes
}
