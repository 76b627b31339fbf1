package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-admin-hub/components/dashboard"
)

// UpdateWidgetInput replaces the configuration of a placed widget.
type UpdateWidgetInput struct {
	WidgetID      string         `json:"widget_id" validate:"required"`
	Configuration map[string]any `json:"config"`

	Result *dashboard.WidgetInstance `json:"-" validate:"-"`
}

type updateService interface {
	UpdateWidget(ctx context.Context, widgetID string, configuration map[string]any) (dashboard.WidgetInstance, error)
}

// UpdateWidgetCommand wraps Service.UpdateWidget.
type UpdateWidgetCommand struct {
	service   updateService
	telemetry Telemetry
}

// NewUpdateWidgetCommand creates the command.
func NewUpdateWidgetCommand(service updateService, telemetry Telemetry) *UpdateWidgetCommand {
	return &UpdateWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateWidgetInput] = (*UpdateWidgetCommand)(nil)

// Execute swaps the widget configuration. Schema validation happens in the
// service so a rejected config leaves the stored instance untouched.
func (c *UpdateWidgetCommand) Execute(ctx context.Context, msg UpdateWidgetInput) error {
	if c.service == nil {
		return errors.New("update command requires service")
	}
	if err := validateInput(msg); err != nil {
		return err
	}
	inst, err := c.service.UpdateWidget(ctx, msg.WidgetID, msg.Configuration)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = inst
	}
	c.telemetry.Record(ctx, "dashboard.widget.update", map[string]any{
		"widget_id": msg.WidgetID,
	})
	return nil
}
