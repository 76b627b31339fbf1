package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-admin-hub/components/dashboard/queries"
	"github.com/goliatone/go-admin-hub/components/navigation"
)

type navCmd struct {
	Path   string `default:"/" help:"Current path; its item is marked active."`
	Format string `enum:"tree,json" default:"tree" help:"Output format."`
}

func (cmd *navCmd) Run(ctx context.Context, out io.Writer) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	sidebar, err := queries.NewNavigationQuery(rt.hub.Service).Query(ctx, queries.NavigationInput{Path: cmd.Path})
	if err != nil {
		return err
	}
	if cmd.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sidebar)
	}
	fmt.Fprintf(out, "%s (%s)\n", sidebar.Brand.Title, sidebar.Brand.URL)
	for _, group := range sidebar.Groups {
		if group.Label != "" {
			fmt.Fprintf(out, "[%s]\n", group.Label)
		}
		writeItems(out, group.Items, 1)
	}
	fmt.Fprintf(out, "-- %s <%s>\n", sidebar.User.Name, sidebar.User.Email)
	return nil
}

func writeItems(out io.Writer, items []navigation.Item, depth int) {
	for _, item := range items {
		marker := " "
		if item.Active {
			marker = ">"
		}
		suffix := ""
		if item.ComingSoon {
			suffix = " (coming soon)"
		}
		fmt.Fprintf(out, "%s%s %s %s%s\n", strings.Repeat("  ", depth), marker, item.Title, item.URL, suffix)
		writeItems(out, item.Items, depth+1)
	}
}
