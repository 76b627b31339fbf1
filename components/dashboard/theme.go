package dashboard

import (
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-admin-hub/components/theme"
)

// presetTokens holds the design tokens each preset overrides. Keys are CSS
// custom property names with or without the leading dashes.
var presetTokens = map[theme.Preset]map[string]string{
	theme.Default: {
		"background":         "#ffffff",
		"foreground":         "#0a0a0a",
		"primary":            "#171717",
		"primary-foreground": "#fafafa",
		"muted":              "#f5f5f5",
		"muted-foreground":   "#737373",
		"border":             "#e5e5e5",
		"destructive":        "#dc2626",
		"radius":             "0.625rem",
		"font-sans":          "Inter, system-ui, sans-serif",
	},
	theme.Tangerine: {
		"background":         "#fdf8f3",
		"foreground":         "#2b1d12",
		"primary":            "#e8772e",
		"primary-foreground": "#ffffff",
		"muted":              "#f6ebe0",
		"muted-foreground":   "#8a6a50",
		"border":             "#ecd9c6",
		"destructive":        "#c2410c",
		"radius":             "0.75rem",
		"font-sans":          "Amiri, Georgia, serif",
	},
	theme.Brutalist: {
		"background":         "#ffffff",
		"foreground":         "#000000",
		"primary":            "#ffe600",
		"primary-foreground": "#000000",
		"muted":              "#f0f0f0",
		"muted-foreground":   "#333333",
		"border":             "#000000",
		"destructive":        "#ff2e2e",
		"radius":             "0",
		"font-sans":          "\"Space Grotesk\", monospace",
	},
	theme.SoftPop: {
		"background":         "#fbf7ff",
		"foreground":         "#2d2640",
		"primary":            "#a78bfa",
		"primary-foreground": "#ffffff",
		"muted":              "#f3edff",
		"muted-foreground":   "#7c6f99",
		"border":             "#e4dafa",
		"destructive":        "#f472b6",
		"radius":             "1rem",
		"font-sans":          "Nunito, system-ui, sans-serif",
	},
}

// ThemeSelection is the view of the active preset handed to templates.
type ThemeSelection struct {
	Preset     theme.Preset         `json:"preset"`
	Label      string               `json:"label"`
	Attribute  string               `json:"attribute"`
	ChartTheme string               `json:"chart_theme"`
	Options    []theme.PresetOption `json:"options"`
	Tokens     map[string]string    `json:"tokens,omitempty"`
}

// NewThemeSelection describes preset for rendering.
func NewThemeSelection(preset theme.Preset, attribute string) ThemeSelection {
	if attribute == "" {
		attribute = theme.AttributeName
	}
	return ThemeSelection{
		Preset:     preset,
		Label:      preset.Label(),
		Attribute:  attribute,
		ChartTheme: ChartThemeFor(preset),
		Options:    theme.Presets(),
		Tokens:     PresetTokens(preset),
	}
}

// PresetTokens returns a copy of the tokens for preset.
func PresetTokens(preset theme.Preset) map[string]string {
	return maps.Clone(presetTokens[preset])
}

// CSSVariables normalizes token keys into CSS variable names.
func (s ThemeSelection) CSSVariables() map[string]string {
	return cssVariables(s.Tokens)
}

// ThemeStylesheet renders one rule per preset keyed on the document root
// attribute, e.g. :root[data-theme-preset="brutalist"] { --primary: ... }.
// The default preset also applies to a root without the attribute.
func ThemeStylesheet(attribute string) string {
	if attribute == "" {
		attribute = theme.AttributeName
	}
	var b strings.Builder
	for _, option := range theme.Presets() {
		selector := `:root[` + attribute + `="` + option.Value.String() + `"]`
		if option.Value == theme.Default {
			selector = ":root, " + selector
		}
		b.WriteString(selector)
		b.WriteString(" {\n")
		vars := cssVariables(presetTokens[option.Value])
		for _, name := range slices.Sorted(maps.Keys(vars)) {
			b.WriteString("  ")
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(vars[name])
			b.WriteString(";\n")
		}
		b.WriteString("}\n")
	}
	return b.String()
}

func cssVariables(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := normalizeCSSVariable(key)
		if name == "" || value == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}
