package goadmin

import (
	"context"
	"errors"
	"fmt"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-admin-hub/components/navigation"
	dashboardpkg "github.com/goliatone/go-admin-hub/pkg/dashboard"
)

// MenuBuilder ensures dashboard entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures dashboard link metadata.
type MenuItem struct {
	Label    string
	Route    string
	URL      string
	Icon     string
	Parent   string
	Position int
}

// Config wires the hub service and its sidebar into an admin shell.
type Config struct {
	EnableDashboard bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Service         *dashboardpkg.Service
	// IncludeComingSoon also seeds placeholder items.
	IncludeComingSoon bool
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed dashboard menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableDashboard && cfg.Service == nil {
		return nil, errors.New("goadmin: dashboard service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	return &Admin{cfg: cfg}, nil
}

// Dashboard exposes the configured dashboard service when enabled.
func (a *Admin) Dashboard() *dashboardpkg.Service {
	if !a.cfg.EnableDashboard {
		return nil
	}
	return a.cfg.Service
}

// MenuItems converts the hub sidebar into admin menu entries. Routes are
// derived from titles, e.g. "Deals" under "Reports" becomes
// admin.reports.deals.
func (a *Admin) MenuItems() []MenuItem {
	if !a.cfg.EnableDashboard {
		return nil
	}
	sidebar := a.cfg.Service.Navigation("/")
	var out []MenuItem
	var walk func(items []navigation.Item, parent string)
	walk = func(items []navigation.Item, parent string) {
		for _, item := range items {
			if item.ComingSoon && !a.cfg.IncludeComingSoon {
				continue
			}
			route := "admin." + strcase.ToSnake(item.Title)
			if parent != "" {
				route = parent + "." + strcase.ToSnake(item.Title)
			}
			out = append(out, MenuItem{
				Label:    item.Title,
				Route:    route,
				URL:      item.URL,
				Icon:     string(item.Icon),
				Parent:   parent,
				Position: len(out),
			})
			walk(item.Items, route)
		}
	}
	for _, group := range sidebar.Groups {
		walk(group.Items, "")
	}
	return out
}

// Bootstrap seeds menu entries when dashboard support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDashboard || a.cfg.MenuBuilder == nil {
		return nil
	}
	for _, item := range a.MenuItems() {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("goadmin: ensure menu item %s: %w", item.Route, err)
		}
	}
	return nil
}
