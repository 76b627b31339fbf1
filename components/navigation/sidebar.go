package navigation

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"
)

// Item is one sidebar entry. Nested items render as a collapsible group.
type Item struct {
	Title      string `json:"title" yaml:"title"`
	URL        string `json:"url" yaml:"url"`
	Icon       Icon   `json:"icon,omitempty" yaml:"icon,omitempty"`
	ComingSoon bool   `json:"coming_soon,omitempty" yaml:"coming_soon,omitempty"`
	NewTab     bool   `json:"new_tab,omitempty" yaml:"new_tab,omitempty"`
	Items      []Item `json:"items,omitempty" yaml:"items,omitempty"`
	Active     bool   `json:"active,omitempty" yaml:"-"`
	Expanded   bool   `json:"expanded,omitempty" yaml:"-"`
}

// Group is a labeled section of items.
type Group struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Items []Item `json:"items" yaml:"items"`
}

// Brand is the sidebar header link.
type Brand struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
	Icon  Icon   `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// User is the signed-in account shown in the sidebar footer.
type User struct {
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// Sidebar is the navigation shell: header, groups and footer.
type Sidebar struct {
	Brand  Brand   `json:"brand" yaml:"brand"`
	Groups []Group `json:"groups" yaml:"groups"`
	User   User    `json:"user" yaml:"user"`
}

// DefaultSidebar returns the built-in admin navigation.
func DefaultSidebar() Sidebar {
	return Sidebar{
		Brand: Brand{Title: "Scholar Admin Hub", URL: "/", Icon: IconCommand},
		Groups: []Group{
			{
				ID:    "main",
				Label: "Main",
				Items: []Item{
					{Title: "Dashboard", URL: "/", Icon: IconHome},
					{Title: "Contacts", URL: "/contacts", Icon: IconUsers},
					{Title: "Companies", URL: "/companies", Icon: IconBuilding},
					{Title: "Deals", URL: "/deals", Icon: IconBriefcase},
				},
			},
			{
				ID:    "analytics",
				Label: "Analytics",
				Items: []Item{
					{
						Title: "Reports",
						URL:   "/reports",
						Icon:  IconBarChart,
						Items: []Item{
							{Title: "Revenue", URL: "/reports/revenue", Icon: IconFileText, ComingSoon: true},
							{Title: "Pipeline", URL: "/reports/pipeline", Icon: IconFileText, ComingSoon: true},
						},
					},
				},
			},
			{
				ID: "settings",
				Items: []Item{
					{Title: "Settings", URL: "/settings", Icon: IconSettings},
				},
			},
		},
		User: User{Name: "Admin User", Email: "admin@example.com"},
	}
}

// Resolve returns a copy of the sidebar with the item matching path (and
// its ancestors) marked active. Items under a prefix URL stay active for
// nested paths, e.g. "/deals/42" activates "/deals".
func (s Sidebar) Resolve(path string) Sidebar {
	out := s.clone()
	path = normalizePath(path)
	for gi := range out.Groups {
		for ii := range out.Groups[gi].Items {
			markActive(&out.Groups[gi].Items[ii], path)
		}
	}
	return out
}

func markActive(item *Item, path string) bool {
	childActive := false
	for i := range item.Items {
		if markActive(&item.Items[i], path) {
			childActive = true
		}
	}
	item.Expanded = childActive
	item.Active = childActive || matches(item.URL, path)
	return item.Active
}

func matches(url, path string) bool {
	url = normalizePath(url)
	if url == "/" {
		return path == "/"
	}
	return path == url || strings.HasPrefix(path, url+"/")
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// Flatten returns every item depth-first.
func (s Sidebar) Flatten() []Item {
	var out []Item
	var walk func(items []Item)
	walk = func(items []Item) {
		for _, item := range items {
			out = append(out, item)
			walk(item.Items)
		}
	}
	for _, group := range s.Groups {
		walk(group.Items)
	}
	return out
}

// Find returns the item whose URL equals url.
func (s Sidebar) Find(url string) (Item, bool) {
	url = normalizePath(url)
	for _, item := range s.Flatten() {
		if normalizePath(item.URL) == url {
			return item, true
		}
	}
	return Item{}, false
}

func (s Sidebar) clone() Sidebar {
	out := s
	out.Groups = make([]Group, len(s.Groups))
	for i, group := range s.Groups {
		group.Items = cloneItems(group.Items)
		out.Groups[i] = group
	}
	return out
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, item := range items {
		item.Items = cloneItems(item.Items)
		out[i] = item
	}
	return out
}

// Validate checks required fields and unique group ids.
func (s Sidebar) Validate() error {
	seen := make(map[string]struct{}, len(s.Groups))
	for idx, group := range s.Groups {
		if group.ID == "" {
			return fmt.Errorf("navigation: group at index %d is missing id", idx)
		}
		if _, dup := seen[group.ID]; dup {
			return fmt.Errorf("navigation: duplicate group id %s", group.ID)
		}
		seen[group.ID] = struct{}{}
		if err := validateItems(group.ID, group.Items); err != nil {
			return err
		}
	}
	return nil
}

func validateItems(groupID string, items []Item) error {
	for idx, item := range items {
		if item.Title == "" {
			return fmt.Errorf("navigation: group %s item %d is missing title", groupID, idx)
		}
		if item.URL == "" {
			return fmt.Errorf("navigation: item %q is missing url", item.Title)
		}
		if !item.Icon.Valid() {
			return fmt.Errorf("navigation: item %q has unknown icon %q", item.Title, item.Icon)
		}
		if err := validateItems(groupID, item.Items); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSidebar reads a YAML sidebar manifest. Group ids missing from the
// manifest derive from their label in kebab case.
func DecodeSidebar(r io.Reader) (Sidebar, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var sidebar Sidebar
	if err := decoder.Decode(&sidebar); err != nil {
		if errors.Is(err, io.EOF) {
			return Sidebar{}, errors.New("navigation: manifest is empty")
		}
		return Sidebar{}, fmt.Errorf("navigation: parse manifest: %w", err)
	}
	for i := range sidebar.Groups {
		if sidebar.Groups[i].ID == "" && sidebar.Groups[i].Label != "" {
			sidebar.Groups[i].ID = strcase.ToKebab(sidebar.Groups[i].Label)
		}
	}
	if sidebar.Brand.Title == "" {
		sidebar.Brand = DefaultSidebar().Brand
	}
	if err := sidebar.Validate(); err != nil {
		return Sidebar{}, err
	}
	return sidebar, nil
}

// LoadSidebar reads a manifest from disk.
func LoadSidebar(path string) (Sidebar, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return Sidebar{}, fmt.Errorf("navigation: open manifest %s: %w", path, err)
	}
	defer f.Close()
	sidebar, err := DecodeSidebar(f)
	if err != nil {
		return Sidebar{}, fmt.Errorf("navigation: load %s: %w", path, err)
	}
	return sidebar, nil
}
