package theme

import (
	"fmt"
	"strings"
)

// Preset identifies one visual style applied through the document root.
type Preset string

const (
	Default   Preset = "default"
	Tangerine Preset = "tangerine"
	Brutalist Preset = "brutalist"
	SoftPop   Preset = "soft-pop"
)

// PresetOption is the switcher metadata for a preset.
type PresetOption struct {
	Value       Preset `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var presetOptions = []PresetOption{
	{Value: Default, Label: "Neutral", Description: "Clean & professional"},
	{Value: Tangerine, Label: "Tangerine", Description: "Warm Islamic aesthetic"},
	{Value: Brutalist, Label: "Brutalist", Description: "Bold & high-contrast"},
	{Value: SoftPop, Label: "Soft Pop", Description: "Gentle & friendly"},
}

// Presets returns the switcher options in display order.
func Presets() []PresetOption {
	out := make([]PresetOption, len(presetOptions))
	copy(out, presetOptions)
	return out
}

// Valid reports whether p belongs to the preset enumeration.
func (p Preset) Valid() bool {
	for _, opt := range presetOptions {
		if opt.Value == p {
			return true
		}
	}
	return false
}

func (p Preset) String() string { return string(p) }

// Label returns the display label, or the raw value for unknown presets.
func (p Preset) Label() string {
	for _, opt := range presetOptions {
		if opt.Value == p {
			return opt.Label
		}
	}
	return string(p)
}

// ParsePreset trims and lower-cases value before matching it.
func ParsePreset(value string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(value)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, value)
	}
	return p, nil
}

// UnmarshalText rejects values outside the enumeration.
func (p *Preset) UnmarshalText(text []byte) error {
	parsed, err := ParsePreset(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
