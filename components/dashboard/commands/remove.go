package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-admin-hub/components/dashboard"
)

// RemoveWidgetInput names the placed widget to take off the dashboard.
// Removed, when set, receives the instance as it was before removal.
type RemoveWidgetInput struct {
	WidgetID string `json:"widget_id" validate:"required"`

	Removed *dashboard.WidgetInstance `json:"-" validate:"-"`
}

type removeService interface {
	Widgets() []dashboard.WidgetInstance
	RemoveWidget(ctx context.Context, widgetID string) error
}

// RemoveWidgetCommand drops a widget from the layout along with any chart
// renders cached for it.
type RemoveWidgetCommand struct {
	service   removeService
	charts    chartPurger
	telemetry Telemetry
}

// NewRemoveWidgetCommand builds the command without chart purging.
func NewRemoveWidgetCommand(service removeService, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

// WithCharts purges cached renders of removed widgets from cache.
func (c *RemoveWidgetCommand) WithCharts(cache chartPurger) *RemoveWidgetCommand {
	c.charts = cache
	return c
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	if c.service == nil {
		return errors.New("remove command requires service")
	}
	if err := validateInput(msg); err != nil {
		return err
	}
	inst, ok := findWidget(c.service.Widgets(), msg.WidgetID)
	if !ok {
		return fmt.Errorf("%w: %s", dashboard.ErrWidgetNotFound, msg.WidgetID)
	}
	if err := c.service.RemoveWidget(ctx, inst.ID); err != nil {
		return err
	}
	purged := 0
	if c.charts != nil {
		// Chart cache keys start with "<definition>:<instance>:".
		purged = c.charts.Purge(inst.DefinitionID + ":" + inst.ID + ":")
	}
	if msg.Removed != nil {
		*msg.Removed = inst
	}
	c.telemetry.Record(ctx, "dashboard.widget.remove", map[string]any{
		"widget_id":     inst.ID,
		"definition_id": inst.DefinitionID,
		"area_code":     inst.AreaCode,
		"charts_purged": purged,
	})
	return nil
}

func findWidget(widgets []dashboard.WidgetInstance, id string) (dashboard.WidgetInstance, bool) {
	for _, inst := range widgets {
		if inst.ID == id {
			return inst, true
		}
	}
	return dashboard.WidgetInstance{}, false
}
