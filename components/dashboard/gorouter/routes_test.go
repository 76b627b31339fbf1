package gorouter

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/dashboard/httpapi"
	"github.com/goliatone/go-admin-hub/components/theme"
)

func TestRegisterValidatesConfig(t *testing.T) {
	err := Register(Config[struct{}]{})
	if err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestRegisterHTMLRoute(t *testing.T) {
	mock := newMockRouter()
	renderer := &stubRenderer{}
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Service:  &stubPageResolver{},
		Renderer: renderer,
	})

	cfg := Config[struct{}]{
		Router:     mock,
		Controller: controller,
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	h, ok := mock.routes["GET:/admin/dashboard"]
	if !ok {
		t.Fatalf("expected dashboard route to be registered")
	}

	ctx := newMockContext()
	ctx.query["path"] = "/deals"
	ctx.query["recent-deals.sort"] = "value:desc"
	if err := h(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(ctx.body) == 0 {
		t.Fatalf("expected response body")
	}
	if renderer.calls == 0 {
		t.Fatalf("renderer not invoked")
	}
	if ctx.headers["Content-Type"] != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ctx.headers["Content-Type"])
	}
	if _, ok := mock.routes["POST:/admin/dashboard/theme"]; ok {
		t.Fatalf("API routes must not mount without an executor")
	}
}

func TestRegisterMountsAPIAndWebSocket(t *testing.T) {
	hub := newHub(t)
	mock := newMockRouter()
	err := Register(Config[struct{}]{
		Router:      mock,
		Controller:  hub.Controller,
		API:         httpapi.NewCommandExecutor(hub.Service, hub.ChartCache, nil),
		Broadcast:   hub.Broadcast,
		InstanceIDs: instanceIDs(hub.Service),
		BasePath:    "/hub",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	for _, key := range []string{
		"GET:/hub/dashboard",
		"GET:/hub/dashboard/_layout",
		"GET:/hub/dashboard/theme.css",
		"GET:/hub/dashboard/deals",
		"GET:/hub/dashboard/navigation",
		"GET:/hub/dashboard/theme",
		"POST:/hub/dashboard/theme",
		"POST:/hub/dashboard/widgets",
		"POST:/hub/dashboard/widgets/reorder",
		"POST:/hub/dashboard/widgets/:id",
		"DELETE:/hub/dashboard/widgets/:id",
		"POST:/hub/dashboard/charts/purge",
	} {
		if _, ok := mock.routes[key]; !ok {
			t.Fatalf("expected route %s", key)
		}
	}
	if _, ok := mock.ws["/hub/dashboard/theme/ws"]; !ok {
		t.Fatalf("expected theme websocket route")
	}
}

func TestThemeRoutesSwitchPreset(t *testing.T) {
	hub := newHub(t)
	mock := newMockRouter()
	if err := Register(Config[struct{}]{
		Router:     mock,
		Controller: hub.Controller,
		API:        httpapi.NewCommandExecutor(hub.Service, hub.ChartCache, nil),
	}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	ctx := newMockContext()
	ctx.body = []byte(`{"preset":"soft-pop"}`)
	if err := mock.routes["POST:/admin/dashboard/theme"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != 200 {
		t.Fatalf("expected 200, got %d", ctx.status)
	}
	if hub.Presets.Get() != theme.SoftPop {
		t.Fatalf("expected soft-pop, got %s", hub.Presets.Get())
	}

	ctx = newMockContext()
	ctx.body = []byte(`{"preset":"sepia"}`)
	if err := mock.routes["POST:/admin/dashboard/theme"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != 400 {
		t.Fatalf("expected 400 for unknown preset, got %d", ctx.status)
	}
}

func TestDealsRouteReadsTableParams(t *testing.T) {
	hub := newHub(t)
	mock := newMockRouter()
	if err := Register(Config[struct{}]{
		Router:     mock,
		Controller: hub.Controller,
		API:        httpapi.NewCommandExecutor(hub.Service, hub.ChartCache, nil),
	}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	ctx := newMockContext()
	ctx.query["sort"] = "value:asc"
	ctx.query["filter.status"] = "won"
	if err := mock.routes["GET:/admin/dashboard/deals"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var page struct {
		Total int `json:"total"`
		Rows  []struct {
			Record dashboard.Deal `json:"record"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(ctx.body, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 2 || len(page.Rows) != 2 {
		t.Fatalf("expected 2 won deals, got %+v", page)
	}
	if page.Rows[0].Record.Value > page.Rows[1].Record.Value {
		t.Fatalf("expected ascending values")
	}
}

func TestStylesheetRouteUsesStoreAttribute(t *testing.T) {
	hub := newHub(t)
	svc, err := dashboard.NewService(dashboard.Options{
		Presets: theme.NewStore(context.Background(), theme.Options{Attribute: "data-brand"}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	mock := newMockRouter()
	if err := Register(Config[struct{}]{
		Router:     mock,
		Controller: hub.Controller,
		API:        httpapi.NewCommandExecutor(svc, nil, nil),
	}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	ctx := newMockContext()
	if err := mock.routes["GET:/admin/dashboard/theme.css"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	css := string(ctx.body)
	if !strings.Contains(css, `:root[data-brand="tangerine"]`) {
		t.Fatalf("expected selectors keyed on the store attribute, got:\n%s", css)
	}
	if strings.Contains(css, theme.AttributeName) {
		t.Fatalf("stylesheet must not use the default attribute")
	}
}

func TestDealsRouteAcceptsCommaSeparatedFilters(t *testing.T) {
	hub := newHub(t)
	mock := newMockRouter()
	if err := Register(Config[struct{}]{
		Router:     mock,
		Controller: hub.Controller,
		API:        httpapi.NewCommandExecutor(hub.Service, hub.ChartCache, nil),
	}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	ctx := newMockContext()
	ctx.query["filter.status"] = "won,lost"
	if err := mock.routes["GET:/admin/dashboard/deals"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var page struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(ctx.body, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("expected won and lost deals, got %d", page.Total)
	}
}

func TestQueryReaderCollectsPrefixedParams(t *testing.T) {
	ctx := newMockContext()
	ctx.query["recent-deals.page"] = "1"
	ctx.query["recent-deals.filter.status"] = "won"
	ctx.query["other.sort"] = "value"
	reader := queryReader{instanceIDs: func() []string { return []string{"recent-deals"} }}
	req := reader.pageRequest(ctx)
	if req.Path != "/" {
		t.Fatalf("expected default path, got %s", req.Path)
	}
	if req.Query.Get("recent-deals.page") != "1" || req.Query.Get("recent-deals.filter.status") != "won" {
		t.Fatalf("expected prefixed params, got %v", req.Query)
	}
	if req.Query.Has("other.sort") {
		t.Fatalf("unknown instance params must be ignored")
	}
}

func TestDefaultRouteConfig(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{Theme: "/prefs/theme"})
	if routes.Theme != "/prefs/theme" {
		t.Fatalf("override lost")
	}
	if routes.WebSocket != "/dashboard/theme/ws" || routes.WidgetID != "/dashboard/widgets/:id" {
		t.Fatalf("unexpected defaults %+v", routes)
	}
}

// --- Test helpers ---

func newHub(t *testing.T) *dashboard.Hub {
	t.Helper()
	hub, err := dashboard.Bootstrap(context.Background(), dashboard.BootstrapOptions{})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return hub
}

func instanceIDs(svc *dashboard.Service) func() []string {
	return func() []string {
		var ids []string
		for _, inst := range svc.Widgets() {
			ids = append(ids, inst.ID)
		}
		return ids
	}
}

// mockRouter records handlers. Methods the routes do not call are left to
// the embedded interface and panic if reached.
type mockRouter struct {
	router.Router[struct{}]
	prefix string
	routes map[string]router.HandlerFunc
	ws     map[string]func(router.WebSocketContext) error
}

func newMockRouter() *mockRouter {
	return &mockRouter{
		routes: map[string]router.HandlerFunc{},
		ws:     map[string]func(router.WebSocketContext) error{},
	}
}

func (m *mockRouter) Group(prefix string) router.Router[struct{}] {
	return &mockRouter{
		prefix: m.prefix + prefix,
		routes: m.routes,
		ws:     m.ws,
	}
}

func (m *mockRouter) record(method, path string, handler router.HandlerFunc) {
	full := m.prefix + path
	m.routes[method+":"+full] = handler
}

func (m *mockRouter) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.GET), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.POST), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.DELETE), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	full := m.prefix + path
	m.ws[full] = handler
	return mockRouteInfo{}
}

type mockRouteInfo struct {
	router.RouteInfo
}

func (mockRouteInfo) SetName(string) router.RouteInfo { return mockRouteInfo{} }

// routerContext aliases router.Context so the embedded field name does not
// collide with the Context() method.
type routerContext = router.Context

type mockContext struct {
	routerContext
	ctx     context.Context
	headers map[string]string
	query   map[string]string
	body    []byte
	params  map[string]string
	status  int
}

func newMockContext() *mockContext {
	return &mockContext{
		ctx:     context.Background(),
		headers: map[string]string{},
		query:   map[string]string{},
		params:  map[string]string{},
	}
}

func (m *mockContext) Context() context.Context {
	return m.ctx
}

func (m *mockContext) SetHeader(k, v string) router.Context {
	m.headers[k] = v
	return m
}

func (m *mockContext) Send(b []byte) error {
	m.body = append([]byte{}, b...)
	return nil
}

func (m *mockContext) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.body = data
	return nil
}

func (m *mockContext) Body() []byte { return m.body }

func (m *mockContext) Param(name string, defaultValue ...string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Query(name string, defaultValue ...string) string {
	if v, ok := m.query[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

type stubPageResolver struct{}

func (stubPageResolver) Page(_ context.Context, req dashboard.PageRequest) (dashboard.PagePayload, error) {
	return dashboard.PagePayload{Title: "Dashboard", Path: req.Path}, nil
}

type stubRenderer struct {
	calls int
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	if len(out) > 0 && out[0] != nil {
		_, _ = io.Copy(out[0], strings.NewReader("ok"))
	}
	return "ok", nil
}
