package main

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-admin-hub/components/dashboard"
)

type layoutCmd struct {
	Show     layoutShowCmd     `cmd:"" help:"Print the active layout as a manifest."`
	Validate layoutValidateCmd `cmd:"" help:"Check manifests against the widget schemas."`
}

type layoutShowCmd struct{}

func (cmd *layoutShowCmd) Run(ctx context.Context, out io.Writer) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	doc := dashboard.LayoutManifest{
		Version: dashboard.ManifestVersion,
		Areas:   rt.hub.Service.Areas(),
		Widgets: rt.hub.Service.Widgets(),
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}

type layoutValidateCmd struct {
	Paths []string `arg:"" type:"existingfile" help:"Manifest files to validate."`
}

func (cmd *layoutValidateCmd) Run(out io.Writer) error {
	reg := dashboard.NewRegistry()
	validator := dashboard.NewJSONSchemaValidator()
	failed := 0
	for _, path := range cmd.Paths {
		doc, err := dashboard.ReadManifest(path)
		if err == nil {
			err = doc.Check(reg, validator)
		}
		if err != nil {
			failed++
			fmt.Fprintf(out, "✗ %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "✓ %s (%d widgets)\n", path, len(doc.Widgets))
	}
	if failed > 0 {
		return fmt.Errorf("hubctl: %d of %d manifests invalid", failed, len(cmd.Paths))
	}
	return nil
}
