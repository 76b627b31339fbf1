package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/theme"
)

// SetThemePresetInput selects the active theme preset.
type SetThemePresetInput struct {
	Preset string `json:"preset" validate:"required,oneof=default tangerine brutalist soft-pop"`

	Result *dashboard.ThemeSelection `json:"-" validate:"-"`
}

type themeService interface {
	SetThemePreset(ctx context.Context, preset theme.Preset) (dashboard.ThemeSelection, error)
}

// SetThemePresetCommand persists the preset and applies it to the document.
type SetThemePresetCommand struct {
	service   themeService
	telemetry Telemetry
}

// NewSetThemePresetCommand creates the command.
func NewSetThemePresetCommand(service themeService, telemetry Telemetry) *SetThemePresetCommand {
	return &SetThemePresetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetThemePresetInput] = (*SetThemePresetCommand)(nil)

// Execute switches the preset.
func (c *SetThemePresetCommand) Execute(ctx context.Context, msg SetThemePresetInput) error {
	if c.service == nil {
		return errors.New("theme command requires service")
	}
	if err := validateInput(msg); err != nil {
		return err
	}
	selection, err := c.service.SetThemePreset(ctx, theme.Preset(msg.Preset))
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = selection
	}
	c.telemetry.Record(ctx, "dashboard.theme.command", map[string]any{"preset": msg.Preset})
	return nil
}
