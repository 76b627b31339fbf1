package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/dashboard/queries"
	"github.com/goliatone/go-admin-hub/components/datatable"
)

type dealsCmd struct {
	Sort   []string `help:"Sort keys in priority order, e.g. value:desc (repeatable)."`
	Status []string `help:"Keep deals with these statuses (repeatable)."`
	Hide   []string `help:"Hide columns by key (repeatable)."`
	Page   int      `default:"0" help:"Zero-based page index."`
	Size   int      `default:"5" help:"Rows per page."`
	Format string   `enum:"table,json" default:"table" help:"Output format."`
}

func (cmd *dealsCmd) state() datatable.ViewState {
	state := datatable.ViewState{PageIndex: cmd.Page, PageSize: cmd.Size}
	for _, raw := range cmd.Sort {
		key, dir, _ := strings.Cut(raw, ":")
		state.Sorting = append(state.Sorting, datatable.SortSpec{Key: key, Direction: datatable.ParseDirection(dir)})
	}
	if len(cmd.Status) > 0 {
		state.Filters = map[string][]string{dashboard.ColumnStatus: cmd.Status}
	}
	for _, key := range cmd.Hide {
		if state.Hidden == nil {
			state.Hidden = map[string]bool{}
		}
		state.Hidden[key] = true
	}
	return state
}

func (cmd *dealsCmd) Run(ctx context.Context, out io.Writer) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	page, err := queries.NewDealsQuery(rt.hub.Service).Query(ctx, queries.DealsInput{State: cmd.state()})
	if err != nil {
		return err
	}
	if cmd.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	return writeDealsTable(out, page)
}

func writeDealsTable(out io.Writer, page datatable.Page[dashboard.Deal]) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	labels := make([]string, len(page.Headers))
	for i, header := range page.Headers {
		label := strcase.ToSNAKE(header.Key)
		if dir := page.State.SortDirection(header.Key); dir != "" {
			label += " (" + string(dir) + ")"
		}
		labels[i] = label
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))
	for _, row := range page.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.Text
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if page.Total == 0 {
		_, err := fmt.Fprintln(out, "No deals match the current filters.")
		return err
	}
	_, err := fmt.Fprintf(out, "page %d of %d, %d deals\n", page.PageIndex+1, page.PageCount, page.Total)
	return err
}
