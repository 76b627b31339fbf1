package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/dashboard/commands"
	"github.com/goliatone/go-admin-hub/components/dashboard/queries"
	"github.com/goliatone/go-admin-hub/pkg/telemetry"
)

type themeCmd struct {
	List themeListCmd `cmd:"" help:"List available presets."`
	Get  themeGetCmd  `cmd:"" help:"Print the stored preset."`
	Set  themeSetCmd  `cmd:"" help:"Store a new preset."`
	CSS  themeCSSCmd  `cmd:"" name:"css" help:"Print the preset stylesheet."`
}

type themeListCmd struct{}

func (cmd *themeListCmd) Run(ctx context.Context, out io.Writer) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	selection, err := queries.NewThemeQuery(rt.hub.Service).Query(ctx, queries.ThemeInput{})
	if err != nil {
		return err
	}
	for _, option := range selection.Options {
		marker := " "
		if option.Value == selection.Preset {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-10s %-10s %s\n", marker, option.Value, option.Label, dashboard.ChartThemeFor(option.Value))
	}
	return nil
}

type themeGetCmd struct{}

func (cmd *themeGetCmd) Run(ctx context.Context, out io.Writer) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	fmt.Fprintln(out, rt.hub.Presets.Get())
	return nil
}

type themeSetCmd struct {
	Preset string `arg:"" help:"Preset: default, tangerine, brutalist or soft-pop."`
}

func (cmd *themeSetCmd) Run(ctx context.Context, out io.Writer) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	var selection dashboard.ThemeSelection
	set := commands.NewSetThemePresetCommand(rt.hub.Service, telemetry.NewRecorder(rt.logger))
	if err := set.Execute(ctx, commands.SetThemePresetInput{Preset: cmd.Preset, Result: &selection}); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ %s=%s (%s)\n", selection.Attribute, selection.Preset, selection.Label)
	return nil
}

type themeCSSCmd struct{}

func (cmd *themeCSSCmd) Run(out io.Writer) error {
	_, err := io.WriteString(out, dashboard.ThemeStylesheet(""))
	return err
}
