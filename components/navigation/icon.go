package navigation

import (
	"fmt"
	"strings"
)

// Icon is a closed set of icon identifiers resolved by the presentation
// layer (templates map each one to an SVG sprite id).
type Icon string

const (
	IconNone      Icon = ""
	IconHome      Icon = "home"
	IconUsers     Icon = "users"
	IconBuilding  Icon = "building"
	IconBriefcase Icon = "briefcase"
	IconBarChart  Icon = "bar-chart"
	IconSettings  Icon = "settings"
	IconFileText  Icon = "file-text"
	IconCommand   Icon = "command"
	IconPalette   Icon = "palette"
)

var knownIcons = []Icon{
	IconHome,
	IconUsers,
	IconBuilding,
	IconBriefcase,
	IconBarChart,
	IconSettings,
	IconFileText,
	IconCommand,
	IconPalette,
}

// Icons lists every known icon.
func Icons() []Icon {
	return append([]Icon(nil), knownIcons...)
}

// Valid reports whether the icon is known. IconNone is valid.
func (i Icon) Valid() bool {
	if i == IconNone {
		return true
	}
	for _, known := range knownIcons {
		if known == i {
			return true
		}
	}
	return false
}

// ParseIcon matches value case-insensitively.
func ParseIcon(value string) (Icon, error) {
	icon := Icon(strings.ToLower(strings.TrimSpace(value)))
	if !icon.Valid() {
		return IconNone, fmt.Errorf("navigation: unknown icon %q", value)
	}
	return icon, nil
}

// UnmarshalText rejects unknown icons in YAML/JSON manifests.
func (i *Icon) UnmarshalText(text []byte) error {
	icon, err := ParseIcon(string(text))
	if err != nil {
		return err
	}
	*i = icon
	return nil
}

// SpriteID returns the id used by the icon sprite sheet.
func (i Icon) SpriteID() string {
	if i == IconNone {
		return ""
	}
	return "icon-" + string(i)
}
