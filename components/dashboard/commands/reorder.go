package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-admin-hub/components/dashboard"
)

// ReorderWidgetsInput moves the listed widgets to the front of an area in
// the given order; the rest keep their relative order behind them. Order,
// when set, receives the resulting area order.
type ReorderWidgetsInput struct {
	AreaCode  string   `json:"area" validate:"required"`
	WidgetIDs []string `json:"widget_ids" validate:"required,min=1,unique,dive,required"`

	Order *[]string `json:"-" validate:"-"`
}

type reorderService interface {
	Widgets() []dashboard.WidgetInstance
	ReorderWidgets(ctx context.Context, areaCode string, widgetIDs []string) error
}

type ReorderWidgetsCommand struct {
	service   reorderService
	telemetry Telemetry
}

func NewReorderWidgetsCommand(service reorderService, telemetry Telemetry) *ReorderWidgetsCommand {
	return &ReorderWidgetsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReorderWidgetsInput] = (*ReorderWidgetsCommand)(nil)

func (c *ReorderWidgetsCommand) Execute(ctx context.Context, msg ReorderWidgetsInput) error {
	if c.service == nil {
		return errors.New("reorder command requires service")
	}
	if err := validateInput(msg); err != nil {
		return err
	}
	if err := c.service.ReorderWidgets(ctx, msg.AreaCode, msg.WidgetIDs); err != nil {
		return err
	}
	var order []string
	for _, inst := range c.service.Widgets() {
		if inst.AreaCode == msg.AreaCode {
			order = append(order, inst.ID)
		}
	}
	if msg.Order != nil {
		*msg.Order = order
	}
	c.telemetry.Record(ctx, "dashboard.widget.reorder", map[string]any{
		"area_code": msg.AreaCode,
		"moved":     len(msg.WidgetIDs),
		"size":      len(order),
	})
	return nil
}
