package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// PurgeChartsInput drops cached chart markup. An empty prefix purges all
// entries; a definition code such as admin.widget.pipeline_chart purges
// only that widget's renders.
type PurgeChartsInput struct {
	Prefix string `json:"prefix"`

	Purged *int `json:"-" validate:"-"`
}

type chartPurger interface {
	Purge(prefix string) int
}

// PurgeChartsCommand forces charts to re-render on the next page request.
type PurgeChartsCommand struct {
	cache     chartPurger
	telemetry Telemetry
}

// NewPurgeChartsCommand creates the command.
func NewPurgeChartsCommand(cache chartPurger, telemetry Telemetry) *PurgeChartsCommand {
	return &PurgeChartsCommand{cache: cache, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PurgeChartsInput] = (*PurgeChartsCommand)(nil)

// Execute purges matching cache entries.
func (c *PurgeChartsCommand) Execute(ctx context.Context, msg PurgeChartsInput) error {
	if c.cache == nil {
		return errors.New("purge command requires chart cache")
	}
	n := c.cache.Purge(msg.Prefix)
	if msg.Purged != nil {
		*msg.Purged = n
	}
	c.telemetry.Record(ctx, "dashboard.charts.purge", map[string]any{
		"prefix": msg.Prefix,
		"purged": n,
	})
	return nil
}
