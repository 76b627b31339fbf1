package dashboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// LayoutManifest models a YAML document placing widget instances in areas.
//
//	version: 1
//	widgets:
//	  - id: recent-deals
//	    definition: admin.widget.recent_deals
//	    area: admin.dashboard.main
//	    config:
//	      page_size: 5
type LayoutManifest struct {
	Version string                 `json:"version" yaml:"version"`
	Areas   []WidgetAreaDefinition `json:"areas,omitempty" yaml:"areas,omitempty"`
	Widgets []WidgetInstance       `json:"widgets" yaml:"widgets"`
	Source  string                 `json:"-" yaml:"-"`
}

// ReadManifest loads a layout manifest from disk.
func ReadManifest(path string) (*LayoutManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a layout manifest from any reader.
func DecodeManifest(r io.Reader) (*LayoutManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc LayoutManifest
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *LayoutManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	areas := make(map[string]struct{}, len(doc.Areas))
	for _, area := range doc.Areas {
		areas[area.Code] = struct{}{}
	}
	seen := make(map[string]struct{}, len(doc.Widgets))
	for idx, widget := range doc.Widgets {
		if widget.ID == "" {
			return fmt.Errorf("dashboard: manifest widget at index %d is missing id", idx)
		}
		if widget.DefinitionID == "" {
			return fmt.Errorf("dashboard: manifest widget %s missing definition", widget.ID)
		}
		if _, ok := areas[widget.AreaCode]; !ok {
			return fmt.Errorf("dashboard: manifest widget %s uses unknown area %q", widget.ID, widget.AreaCode)
		}
		if _, exists := seen[widget.ID]; exists {
			return fmt.Errorf("dashboard: manifest duplicates widget id %s", widget.ID)
		}
		seen[widget.ID] = struct{}{}
	}
	return nil
}

// Check verifies every widget references a registered definition and that
// its configuration passes the definition schema.
func (doc *LayoutManifest) Check(reg ProviderRegistry, validator ConfigValidator) error {
	if validator == nil {
		validator = noopConfigValidator{}
	}
	for _, widget := range doc.Widgets {
		def, ok := reg.Definition(widget.DefinitionID)
		if !ok {
			return fmt.Errorf("dashboard: manifest widget %s references unknown definition %s", widget.ID, widget.DefinitionID)
		}
		if err := validator.Validate(def, widget.Configuration); err != nil {
			return err
		}
	}
	return nil
}

func (doc *LayoutManifest) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if len(doc.Areas) == 0 {
		doc.Areas = DefaultAreaDefinitions()
	}
}
