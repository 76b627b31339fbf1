package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-admin-hub/components/dashboard"
)

// AssignWidgetInput places a widget definition into an area.
type AssignWidgetInput struct {
	ID            string         `json:"id"`
	DefinitionID  string         `json:"definition" validate:"required"`
	AreaCode      string         `json:"area" validate:"required"`
	Configuration map[string]any `json:"config"`
	Position      *int           `json:"position" validate:"omitempty,min=0"`

	// Result receives the stored instance when set.
	Result *dashboard.WidgetInstance `json:"-" validate:"-"`
}

type assignService interface {
	AddWidget(ctx context.Context, req dashboard.AddWidgetRequest) (dashboard.WidgetInstance, error)
}

// AssignWidgetCommand wraps Service.AddWidget so transports can invoke widget
// assignments without linking directly against the service.
type AssignWidgetCommand struct {
	service   assignService
	telemetry Telemetry
}

// NewAssignWidgetCommand creates a command instance.
func NewAssignWidgetCommand(service assignService, telemetry Telemetry) *AssignWidgetCommand {
	return &AssignWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AssignWidgetInput] = (*AssignWidgetCommand)(nil)

// Execute delegates to the dashboard service.
func (c *AssignWidgetCommand) Execute(ctx context.Context, msg AssignWidgetInput) error {
	if c.service == nil {
		return errors.New("assign command requires service")
	}
	if err := validateInput(msg); err != nil {
		return err
	}
	inst, err := c.service.AddWidget(ctx, dashboard.AddWidgetRequest{
		ID:            msg.ID,
		DefinitionID:  msg.DefinitionID,
		AreaCode:      msg.AreaCode,
		Configuration: msg.Configuration,
		Position:      msg.Position,
	})
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = inst
	}
	c.telemetry.Record(ctx, "dashboard.widget.assign", map[string]any{
		"widget_id":     inst.ID,
		"definition_id": msg.DefinitionID,
		"area_code":     msg.AreaCode,
	})
	return nil
}
