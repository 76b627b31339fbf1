package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/navigation"
)

// ThemeInput is empty; the active preset is global to the hub.
type ThemeInput struct{}

type themeService interface {
	ThemePreset() dashboard.ThemeSelection
}

// ThemeQuery reports the active preset and the available options.
type ThemeQuery struct {
	service themeService
}

// NewThemeQuery builds the query.
func NewThemeQuery(service themeService) *ThemeQuery {
	return &ThemeQuery{service: service}
}

var _ gocommand.Querier[ThemeInput, dashboard.ThemeSelection] = (*ThemeQuery)(nil)

// Query returns the current selection.
func (q *ThemeQuery) Query(context.Context, ThemeInput) (dashboard.ThemeSelection, error) {
	return q.service.ThemePreset(), nil
}

// NavigationInput names the current request path.
type NavigationInput struct {
	Path string `json:"path"`
}

type navigationService interface {
	Navigation(path string) navigation.Sidebar
}

// NavigationQuery resolves the sidebar with the active item marked.
type NavigationQuery struct {
	service navigationService
}

// NewNavigationQuery builds the query.
func NewNavigationQuery(service navigationService) *NavigationQuery {
	return &NavigationQuery{service: service}
}

var _ gocommand.Querier[NavigationInput, navigation.Sidebar] = (*NavigationQuery)(nil)

// Query resolves the sidebar for input.Path.
func (q *NavigationQuery) Query(_ context.Context, input NavigationInput) (navigation.Sidebar, error) {
	return q.service.Navigation(input.Path), nil
}
