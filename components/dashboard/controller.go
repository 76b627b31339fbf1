package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const defaultTemplate = "dashboard"

// PageResolver produces the page payload rendered by the controller.
// *Service satisfies it.
type PageResolver interface {
	Page(ctx context.Context, req PageRequest) (PagePayload, error)
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service  PageResolver
	Renderer Renderer
	Template string
	// ThemeEndpoint receives preset changes from the switcher.
	ThemeEndpoint string
	// ThemeSocket streams preset changes to open pages.
	ThemeSocket string
}

// Controller turns page payloads into HTML or JSON.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultTemplate
	}
	if opts.ThemeEndpoint == "" {
		opts.ThemeEndpoint = "/dashboard/theme"
	}
	return &Controller{opts: opts}
}

// Render resolves the page payload for a request.
func (c *Controller) Render(ctx context.Context, req PageRequest) (PagePayload, error) {
	if c.opts.Service == nil {
		return PagePayload{}, fmt.Errorf("dashboard: controller service not configured")
	}
	return c.opts.Service.Page(ctx, req)
}

// RenderTemplate renders the dashboard HTML into out.
func (c *Controller) RenderTemplate(ctx context.Context, req PageRequest, out io.Writer) error {
	if c.opts.Renderer == nil {
		return fmt.Errorf("dashboard: controller renderer not configured")
	}
	data, err := c.LayoutPayload(ctx, req)
	if err != nil {
		return err
	}
	if _, err := c.opts.Renderer.Render(c.opts.Template, data, out); err != nil {
		return fmt.Errorf("dashboard: render %s: %w", c.opts.Template, err)
	}
	return nil
}

// LayoutPayload builds the template context: the page payload in its JSON
// shape plus the preset stylesheet and widget template names.
func (c *Controller) LayoutPayload(ctx context.Context, req PageRequest) (map[string]any, error) {
	page, err := c.Render(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := toTemplateData(page)
	if err != nil {
		return nil, err
	}

	areas := make([]map[string]any, 0, len(page.Areas))
	for _, area := range page.Areas {
		widgets := make([]map[string]any, 0, len(page.Layout.Areas[area.Code]))
		for _, inst := range page.Layout.Areas[area.Code] {
			widget, err := toTemplateData(inst)
			if err != nil {
				return nil, err
			}
			widget["template"] = widgetTemplate(inst.DefinitionID)
			widgets = append(widgets, widget)
		}
		areas = append(areas, map[string]any{
			"code":    area.Code,
			"name":    area.Name,
			"slug":    areaSlug(area.Code),
			"widgets": widgets,
		})
	}
	data["areas"] = areas
	data["stylesheet"] = ThemeStylesheet(page.Theme.Attribute)
	data["theme_endpoint"] = c.opts.ThemeEndpoint
	data["theme_socket"] = c.opts.ThemeSocket
	return data, nil
}

func widgetTemplate(definitionID string) string {
	name := definitionID
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

func areaSlug(code string) string {
	return strings.ReplaceAll(strings.TrimPrefix(code, "admin.dashboard."), ".", "-")
}

func toTemplateData(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("dashboard: encode template data: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("dashboard: decode template data: %w", err)
	}
	return out, nil
}
