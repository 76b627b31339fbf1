package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-admin-hub/components/datatable"
	"github.com/goliatone/go-admin-hub/components/navigation"
	"github.com/goliatone/go-admin-hub/components/theme"
)

// maxProviderFetches bounds concurrent provider calls per layout.
const maxProviderFetches = 8

var (
	errInvalidArea       = errors.New("dashboard: area code is required")
	errInvalidDefinition = errors.New("dashboard: definition id is required")

	// ErrWidgetNotFound reports an unknown widget instance ID.
	ErrWidgetNotFound = errors.New("dashboard: widget not found")
	// ErrUnknownArea reports an area code that is not configured.
	ErrUnknownArea = errors.New("dashboard: unknown area")
)

// Options configures the dashboard Service. Every collaborator is provided
// via interface so applications can swap implementations.
type Options struct {
	Providers       ProviderRegistry
	ConfigValidator ConfigValidator
	Telemetry       Telemetry
	Presets         PresetStore
	Deals           DealsRepository
	Sidebar         *navigation.Sidebar
	Areas           []WidgetAreaDefinition
	Instances       []WidgetInstance
	Title           string
}

// Service composes the dashboard page: widget layout and provider data,
// the navigation shell and the active theme preset.
type Service struct {
	opts Options

	mu        sync.RWMutex
	instances []WidgetInstance
}

// NewService builds a Service with safe defaults. Instances default to
// DefaultLayout and are validated against the registry.
func NewService(opts Options) (*Service, error) {
	if opts.Providers == nil {
		opts.Providers = NewRegistry()
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Presets == nil {
		opts.Presets = theme.NewStore(context.Background(), theme.Options{})
	}
	if opts.Deals == nil {
		opts.Deals = NewStaticDealsRepository(SampleDeals())
	}
	if opts.Sidebar == nil {
		sidebar := navigation.DefaultSidebar()
		opts.Sidebar = &sidebar
	}
	if len(opts.Areas) == 0 {
		opts.Areas = DefaultAreaDefinitions()
	}
	if opts.Instances == nil {
		opts.Instances = DefaultLayout()
	}
	if opts.Title == "" {
		opts.Title = "Dashboard"
	}
	s := &Service{opts: opts}
	for _, inst := range opts.Instances {
		if err := s.checkInstance(inst); err != nil {
			return nil, err
		}
		s.instances = append(s.instances, cloneInstance(inst))
	}
	return s, nil
}

// NewServiceFromManifest builds a Service whose areas and widgets come from doc.
func NewServiceFromManifest(doc *LayoutManifest, opts Options) (*Service, error) {
	if doc == nil {
		return nil, fmt.Errorf("dashboard: manifest document is nil")
	}
	opts.Areas = doc.Areas
	opts.Instances = doc.Widgets
	if opts.Instances == nil {
		opts.Instances = []WidgetInstance{}
	}
	return NewService(opts)
}

// AddWidgetRequest captures the data required to place a widget.
type AddWidgetRequest struct {
	ID            string
	DefinitionID  string
	AreaCode      string
	Configuration map[string]any
	Position      *int
}

// AddWidget validates and places a widget instance. A missing ID is generated.
func (s *Service) AddWidget(ctx context.Context, req AddWidgetRequest) (WidgetInstance, error) {
	inst := WidgetInstance{
		ID:            req.ID,
		DefinitionID:  req.DefinitionID,
		AreaCode:      req.AreaCode,
		Configuration: req.Configuration,
	}
	if inst.ID == "" {
		inst.ID = uuid.NewString()
	}
	if err := s.checkInstance(inst); err != nil {
		return WidgetInstance{}, err
	}

	s.mu.Lock()
	if slices.ContainsFunc(s.instances, func(w WidgetInstance) bool { return w.ID == inst.ID }) {
		s.mu.Unlock()
		return WidgetInstance{}, fmt.Errorf("dashboard: widget %s already exists", inst.ID)
	}
	s.instances = insertInArea(s.instances, cloneInstance(inst), req.Position)
	s.mu.Unlock()

	s.recordTelemetry(ctx, "dashboard.widget.add", map[string]any{
		"widget_id":     inst.ID,
		"area_code":     inst.AreaCode,
		"definition_id": inst.DefinitionID,
	})
	return inst, nil
}

// UpdateWidget replaces the configuration of a placed widget after
// validating it against the widget schema.
func (s *Service) UpdateWidget(ctx context.Context, widgetID string, configuration map[string]any) (WidgetInstance, error) {
	if widgetID == "" {
		return WidgetInstance{}, errors.New("dashboard: widget id is required")
	}
	s.mu.Lock()
	idx := slices.IndexFunc(s.instances, func(w WidgetInstance) bool { return w.ID == widgetID })
	if idx < 0 {
		s.mu.Unlock()
		return WidgetInstance{}, fmt.Errorf("%w: %s", ErrWidgetNotFound, widgetID)
	}
	next := cloneInstance(s.instances[idx])
	next.Configuration = configuration
	if err := s.checkInstance(next); err != nil {
		s.mu.Unlock()
		return WidgetInstance{}, err
	}
	s.instances[idx] = cloneInstance(next)
	s.mu.Unlock()

	s.recordTelemetry(ctx, "dashboard.widget.update", map[string]any{"widget_id": widgetID})
	return next, nil
}

// RemoveWidget deletes the widget instance.
func (s *Service) RemoveWidget(ctx context.Context, widgetID string) error {
	if widgetID == "" {
		return errors.New("dashboard: widget id is required")
	}
	s.mu.Lock()
	idx := slices.IndexFunc(s.instances, func(w WidgetInstance) bool { return w.ID == widgetID })
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, widgetID)
	}
	s.instances = slices.Delete(s.instances, idx, idx+1)
	s.mu.Unlock()

	s.recordTelemetry(ctx, "dashboard.widget.remove", map[string]any{"widget_id": widgetID})
	return nil
}

// ReorderWidgets changes widget ordering within an area. IDs not listed keep
// their relative order after the listed ones.
func (s *Service) ReorderWidgets(ctx context.Context, areaCode string, widgetIDs []string) error {
	if areaCode == "" {
		return errInvalidArea
	}
	if !s.hasArea(areaCode) {
		return fmt.Errorf("%w: %s", ErrUnknownArea, areaCode)
	}
	s.mu.Lock()
	var inArea, rest []WidgetInstance
	for _, inst := range s.instances {
		if inst.AreaCode == areaCode {
			inArea = append(inArea, inst)
		} else {
			rest = append(rest, inst)
		}
	}
	for _, id := range widgetIDs {
		if !slices.ContainsFunc(inArea, func(w WidgetInstance) bool { return w.ID == id }) {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s in %s", ErrWidgetNotFound, id, areaCode)
		}
	}
	s.instances = append(rest, applyOrderOverride(inArea, widgetIDs)...)
	s.mu.Unlock()

	s.recordTelemetry(ctx, "dashboard.widget.reorder", map[string]any{
		"area_code": areaCode,
		"count":     len(widgetIDs),
	})
	return nil
}

// Widgets returns the placed widget instances in area order.
func (s *Service) Widgets() []WidgetInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]WidgetInstance, 0, len(s.instances))
	for _, area := range s.opts.Areas {
		for _, inst := range s.instances {
			if inst.AreaCode == area.Code {
				out = append(out, cloneInstance(inst))
			}
		}
	}
	return out
}

// Areas returns the configured area definitions.
func (s *Service) Areas() []WidgetAreaDefinition {
	return slices.Clone(s.opts.Areas)
}

// ConfigureLayout resolves widgets for each dashboard area and attaches
// provider data. Providers run concurrently; area order is preserved.
// Provider failures are reported on the instance metadata under "error"
// rather than failing the page.
func (s *Service) ConfigureLayout(ctx context.Context, req PageRequest) (Layout, error) {
	preset := s.opts.Presets.Get()
	widgets := s.Widgets()
	resolved := make([]WidgetInstance, len(widgets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxProviderFetches)
	for i, inst := range widgets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resolved[i] = s.attachProviderData(gctx, req, preset, inst)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Layout{}, err
	}
	layout := Layout{Areas: make(map[string][]WidgetInstance, len(s.opts.Areas))}
	for _, inst := range resolved {
		layout.Areas[inst.AreaCode] = append(layout.Areas[inst.AreaCode], inst)
	}
	for _, area := range s.opts.Areas {
		if _, ok := layout.Areas[area.Code]; !ok {
			layout.Areas[area.Code] = []WidgetInstance{}
		}
	}
	s.recordTelemetry(ctx, "dashboard.layout.resolve", map[string]any{
		"viewer": req.Viewer.UserID,
		"path":   req.Path,
		"preset": preset.String(),
	})
	return layout, nil
}

// PagePayload is everything the dashboard page renders.
type PagePayload struct {
	Title      string                 `json:"title"`
	Path       string                 `json:"path"`
	Areas      []WidgetAreaDefinition `json:"areas"`
	Layout     Layout                 `json:"layout"`
	Theme      ThemeSelection         `json:"theme"`
	Navigation navigation.Sidebar     `json:"navigation"`
}

// Page resolves the full page payload for req.
func (s *Service) Page(ctx context.Context, req PageRequest) (PagePayload, error) {
	layout, err := s.ConfigureLayout(ctx, req)
	if err != nil {
		return PagePayload{}, err
	}
	return PagePayload{
		Title:      s.opts.Title,
		Path:       req.Path,
		Areas:      s.Areas(),
		Layout:     layout,
		Theme:      s.ThemePreset(),
		Navigation: s.Navigation(req.Path),
	}, nil
}

// DealsPage applies state to the deals table.
func (s *Service) DealsPage(ctx context.Context, state datatable.ViewState) (datatable.Page[Deal], error) {
	deals, err := s.opts.Deals.ListDeals(ctx)
	if err != nil {
		return datatable.Page[Deal]{}, fmt.Errorf("dashboard: list deals: %w", err)
	}
	if state.PageSize <= 0 {
		state.PageSize = defaultDealsPageSize
	}
	page := NewDealsTable(deals).PageFor(state)
	s.recordTelemetry(ctx, "dashboard.deals.page", map[string]any{
		"page_index": page.PageIndex,
		"page_size":  page.PageSize,
		"total":      page.Total,
	})
	return page, nil
}

// ThemePreset describes the active preset.
func (s *Service) ThemePreset() ThemeSelection {
	return NewThemeSelection(s.opts.Presets.Get(), s.opts.Presets.Attribute())
}

// SetThemePreset changes the active preset and returns the new selection.
func (s *Service) SetThemePreset(ctx context.Context, preset theme.Preset) (ThemeSelection, error) {
	previous := s.opts.Presets.Get()
	if err := s.opts.Presets.Set(ctx, preset); err != nil {
		s.recordTelemetry(ctx, "dashboard.theme.set_failed", map[string]any{
			"preset": preset.String(),
			"error":  err.Error(),
		})
		return s.ThemePreset(), err
	}
	s.recordTelemetry(ctx, "dashboard.theme.set", map[string]any{
		"previous": previous.String(),
		"preset":   preset.String(),
	})
	return s.ThemePreset(), nil
}

// Navigation returns the sidebar with the item for path marked active.
func (s *Service) Navigation(path string) navigation.Sidebar {
	return s.opts.Sidebar.Resolve(path)
}

func (s *Service) attachProviderData(ctx context.Context, req PageRequest, preset theme.Preset, inst WidgetInstance) WidgetInstance {
	provider, ok := s.opts.Providers.Provider(inst.DefinitionID)
	if !ok || provider == nil {
		return inst
	}
	if inst.Metadata == nil {
		inst.Metadata = map[string]any{}
	}
	if def, ok := s.opts.Providers.Definition(inst.DefinitionID); ok {
		inst.Metadata["name"] = def.Name
	}
	data, err := provider.Fetch(ctx, WidgetContext{
		Instance: inst,
		Viewer:   req.Viewer,
		Query:    req.Query,
		Theme:    preset,
	})
	if err != nil {
		s.recordTelemetry(ctx, "dashboard.widget.provider_error", map[string]any{
			"widget_id":     inst.ID,
			"definition_id": inst.DefinitionID,
			"error":         err.Error(),
		})
		inst.Metadata["error"] = err.Error()
		return inst
	}
	inst.Metadata["data"] = data
	return inst
}

func (s *Service) checkInstance(inst WidgetInstance) error {
	if inst.AreaCode == "" {
		return errInvalidArea
	}
	if inst.DefinitionID == "" {
		return errInvalidDefinition
	}
	if !s.hasArea(inst.AreaCode) {
		return fmt.Errorf("%w: %s", ErrUnknownArea, inst.AreaCode)
	}
	def, ok := s.opts.Providers.Definition(inst.DefinitionID)
	if !ok {
		return fmt.Errorf("dashboard: widget definition %s not found", inst.DefinitionID)
	}
	return s.opts.ConfigValidator.Validate(def, inst.Configuration)
}

func (s *Service) hasArea(code string) bool {
	return slices.ContainsFunc(s.opts.Areas, func(a WidgetAreaDefinition) bool { return a.Code == code })
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}
