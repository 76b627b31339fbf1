package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/dashboard/commands"
	"github.com/goliatone/go-admin-hub/components/dashboard/queries"
	"github.com/goliatone/go-admin-hub/components/datatable"
	"github.com/goliatone/go-admin-hub/components/navigation"
)

// Executor is the transport-neutral surface shared by the net/http handlers
// and the go-router adapter.
type Executor interface {
	Assign(ctx context.Context, input commands.AssignWidgetInput) (dashboard.WidgetInstance, error)
	Update(ctx context.Context, input commands.UpdateWidgetInput) (dashboard.WidgetInstance, error)
	Remove(ctx context.Context, input commands.RemoveWidgetInput) error
	Reorder(ctx context.Context, input commands.ReorderWidgetsInput) ([]string, error)
	SetTheme(ctx context.Context, input commands.SetThemePresetInput) (dashboard.ThemeSelection, error)
	PurgeCharts(ctx context.Context, input commands.PurgeChartsInput) (int, error)

	Layout(ctx context.Context, req dashboard.PageRequest) (dashboard.Layout, error)
	Deals(ctx context.Context, input queries.DealsInput) (datatable.Page[dashboard.Deal], error)
	Theme(ctx context.Context) (dashboard.ThemeSelection, error)
	Navigation(ctx context.Context, path string) (navigation.Sidebar, error)
}

var errNotConfigured = errors.New("httpapi: operation not configured")

// CommandExecutor dispatches to go-command commanders and queriers. Nil
// fields report errNotConfigured.
type CommandExecutor struct {
	AssignCommander  gocommand.Commander[commands.AssignWidgetInput]
	UpdateCommander  gocommand.Commander[commands.UpdateWidgetInput]
	RemoveCommander  gocommand.Commander[commands.RemoveWidgetInput]
	ReorderCommander gocommand.Commander[commands.ReorderWidgetsInput]
	ThemeCommander   gocommand.Commander[commands.SetThemePresetInput]
	PurgeCommander   gocommand.Commander[commands.PurgeChartsInput]

	LayoutQuerier     gocommand.Querier[dashboard.PageRequest, dashboard.Layout]
	DealsQuerier      gocommand.Querier[queries.DealsInput, datatable.Page[dashboard.Deal]]
	ThemeQuerier      gocommand.Querier[queries.ThemeInput, dashboard.ThemeSelection]
	NavigationQuerier gocommand.Querier[queries.NavigationInput, navigation.Sidebar]
}

var _ Executor = (*CommandExecutor)(nil)

// NewCommandExecutor wires every command and query against service. A nil
// cache leaves chart purging unavailable.
func NewCommandExecutor(service *dashboard.Service, cache *dashboard.ChartCache, telemetry commands.Telemetry) *CommandExecutor {
	exec := &CommandExecutor{
		AssignCommander:   commands.NewAssignWidgetCommand(service, telemetry),
		UpdateCommander:   commands.NewUpdateWidgetCommand(service, telemetry),
		ReorderCommander:  commands.NewReorderWidgetsCommand(service, telemetry),
		ThemeCommander:    commands.NewSetThemePresetCommand(service, telemetry),
		LayoutQuerier:     queries.NewLayoutQuery(service),
		DealsQuerier:      queries.NewDealsQuery(service),
		ThemeQuerier:      queries.NewThemeQuery(service),
		NavigationQuerier: queries.NewNavigationQuery(service),
	}
	remove := commands.NewRemoveWidgetCommand(service, telemetry)
	if cache != nil {
		remove.WithCharts(cache)
		exec.PurgeCommander = commands.NewPurgeChartsCommand(cache, telemetry)
	}
	exec.RemoveCommander = remove
	return exec
}

func (e *CommandExecutor) Assign(ctx context.Context, input commands.AssignWidgetInput) (dashboard.WidgetInstance, error) {
	if e.AssignCommander == nil {
		return dashboard.WidgetInstance{}, errNotConfigured
	}
	var inst dashboard.WidgetInstance
	input.Result = &inst
	if err := e.AssignCommander.Execute(ctx, input); err != nil {
		return dashboard.WidgetInstance{}, err
	}
	return inst, nil
}

func (e *CommandExecutor) Update(ctx context.Context, input commands.UpdateWidgetInput) (dashboard.WidgetInstance, error) {
	if e.UpdateCommander == nil {
		return dashboard.WidgetInstance{}, errNotConfigured
	}
	var inst dashboard.WidgetInstance
	input.Result = &inst
	if err := e.UpdateCommander.Execute(ctx, input); err != nil {
		return dashboard.WidgetInstance{}, err
	}
	return inst, nil
}

func (e *CommandExecutor) Remove(ctx context.Context, input commands.RemoveWidgetInput) error {
	if e.RemoveCommander == nil {
		return errNotConfigured
	}
	return e.RemoveCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Reorder(ctx context.Context, input commands.ReorderWidgetsInput) ([]string, error) {
	if e.ReorderCommander == nil {
		return nil, errNotConfigured
	}
	var order []string
	input.Order = &order
	if err := e.ReorderCommander.Execute(ctx, input); err != nil {
		return nil, err
	}
	return order, nil
}

func (e *CommandExecutor) SetTheme(ctx context.Context, input commands.SetThemePresetInput) (dashboard.ThemeSelection, error) {
	if e.ThemeCommander == nil {
		return dashboard.ThemeSelection{}, errNotConfigured
	}
	var selection dashboard.ThemeSelection
	input.Result = &selection
	if err := e.ThemeCommander.Execute(ctx, input); err != nil {
		return dashboard.ThemeSelection{}, err
	}
	return selection, nil
}

func (e *CommandExecutor) PurgeCharts(ctx context.Context, input commands.PurgeChartsInput) (int, error) {
	if e.PurgeCommander == nil {
		return 0, errNotConfigured
	}
	var purged int
	input.Purged = &purged
	if err := e.PurgeCommander.Execute(ctx, input); err != nil {
		return 0, err
	}
	return purged, nil
}

func (e *CommandExecutor) Layout(ctx context.Context, req dashboard.PageRequest) (dashboard.Layout, error) {
	if e.LayoutQuerier == nil {
		return dashboard.Layout{}, errNotConfigured
	}
	return e.LayoutQuerier.Query(ctx, req)
}

func (e *CommandExecutor) Deals(ctx context.Context, input queries.DealsInput) (datatable.Page[dashboard.Deal], error) {
	if e.DealsQuerier == nil {
		return datatable.Page[dashboard.Deal]{}, errNotConfigured
	}
	return e.DealsQuerier.Query(ctx, input)
}

func (e *CommandExecutor) Theme(ctx context.Context) (dashboard.ThemeSelection, error) {
	if e.ThemeQuerier == nil {
		return dashboard.ThemeSelection{}, errNotConfigured
	}
	return e.ThemeQuerier.Query(ctx, queries.ThemeInput{})
}

func (e *CommandExecutor) Navigation(ctx context.Context, path string) (navigation.Sidebar, error) {
	if e.NavigationQuerier == nil {
		return navigation.Sidebar{}, errNotConfigured
	}
	return e.NavigationQuerier.Query(ctx, queries.NavigationInput{Path: path})
}
