package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-admin-hub/components/dashboard"
)

// SeedLayoutInput applies a layout manifest to the running service.
type SeedLayoutInput struct {
	Manifest *dashboard.LayoutManifest `validate:"required"`
	// Prune removes placed widgets the manifest does not mention.
	Prune bool
}

type seedService interface {
	Widgets() []dashboard.WidgetInstance
	AddWidget(ctx context.Context, req dashboard.AddWidgetRequest) (dashboard.WidgetInstance, error)
	UpdateWidget(ctx context.Context, widgetID string, configuration map[string]any) (dashboard.WidgetInstance, error)
	RemoveWidget(ctx context.Context, widgetID string) error
}

// SeedLayoutCommand upserts manifest widgets by ID. Existing instances get
// the manifest configuration; new ones are appended to their area.
type SeedLayoutCommand struct {
	service   seedService
	telemetry Telemetry
}

// NewSeedLayoutCommand wires dependencies.
func NewSeedLayoutCommand(service seedService, telemetry Telemetry) *SeedLayoutCommand {
	return &SeedLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SeedLayoutInput] = (*SeedLayoutCommand)(nil)

// Execute runs the seed pipeline.
func (c *SeedLayoutCommand) Execute(ctx context.Context, msg SeedLayoutInput) error {
	if c.service == nil {
		return errors.New("seed command requires service")
	}
	if err := validateInput(msg); err != nil {
		return err
	}
	if err := msg.Manifest.Validate(); err != nil {
		return err
	}

	existing := make(map[string]bool)
	for _, inst := range c.service.Widgets() {
		existing[inst.ID] = true
	}
	wanted := make(map[string]bool, len(msg.Manifest.Widgets))
	added, updated, removed := 0, 0, 0
	for _, widget := range msg.Manifest.Widgets {
		wanted[widget.ID] = true
		if existing[widget.ID] {
			if _, err := c.service.UpdateWidget(ctx, widget.ID, widget.Configuration); err != nil {
				return fmt.Errorf("seed widget %s: %w", widget.ID, err)
			}
			updated++
			continue
		}
		if _, err := c.service.AddWidget(ctx, dashboard.AddWidgetRequest{
			ID:            widget.ID,
			DefinitionID:  widget.DefinitionID,
			AreaCode:      widget.AreaCode,
			Configuration: widget.Configuration,
		}); err != nil {
			return fmt.Errorf("seed widget %s: %w", widget.ID, err)
		}
		added++
	}
	if msg.Prune {
		for id := range existing {
			if wanted[id] {
				continue
			}
			if err := c.service.RemoveWidget(ctx, id); err != nil {
				return fmt.Errorf("prune widget %s: %w", id, err)
			}
			removed++
		}
	}

	c.telemetry.Record(ctx, "dashboard.seed", map[string]any{
		"source":  msg.Manifest.Source,
		"added":   added,
		"updated": updated,
		"removed": removed,
	})
	return nil
}
