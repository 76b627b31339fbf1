package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-admin-hub/components/datatable"
)

const defaultDealsPageSize = 5

// RecentDealsProvider renders the recent deals table. Its view state comes
// from the instance configuration, overlaid with query parameters prefixed
// by the instance ID so several tables can share one page.
type RecentDealsProvider struct {
	repo DealsRepository
}

// NewRecentDealsProvider builds the provider over repo.
func NewRecentDealsProvider(repo DealsRepository) *RecentDealsProvider {
	return &RecentDealsProvider{repo: repo}
}

// DealsHeader pairs a table header with the link that toggles its sorting.
type DealsHeader struct {
	datatable.Header
	SortURL string `json:"sort_url,omitempty"`
}

// Fetch lists deals and applies the resolved view state.
func (p *RecentDealsProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	if p.repo == nil {
		return nil, fmt.Errorf("dashboard: deals repository not configured")
	}
	deals, err := p.repo.ListDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list deals: %w", err)
	}

	prefix := QueryPrefix(meta.Instance.ID)
	state := DealsStateFromConfig(meta.Instance.Configuration).
		Overlay(datatable.StateFromQuery(meta.Query, prefix))

	table := NewDealsTable(deals, datatable.WithInitialState(state))
	page := table.Page()

	headers := make([]DealsHeader, 0, len(page.Headers))
	for _, header := range page.Headers {
		h := DealsHeader{Header: header}
		if header.CanSort {
			toggled := NewDealsTable(nil, datatable.WithInitialState(page.State))
			toggled.ToggleSort(header.Key)
			h.SortURL = "?" + mergeQuery(meta.Query, prefix, toggled.State())
		}
		headers = append(headers, h)
	}

	data := WidgetData{
		"title":       "Recent Deals Analytics",
		"description": "Overview of recent deal pipeline activity",
		"page":        page,
		"headers":     headers,
		"prefix":      prefix,
		"statuses":    DealStatuses(),
		"summary":     pageSummary(page),
	}
	if page.CanPrevious {
		prev := page.State.Clone()
		prev.PageIndex--
		data["previous_url"] = "?" + mergeQuery(meta.Query, prefix, prev)
	}
	if page.CanNext {
		next := page.State.Clone()
		next.PageIndex++
		data["next_url"] = "?" + mergeQuery(meta.Query, prefix, next)
	}
	return data, nil
}

// QueryPrefix namespaces table query parameters for a widget instance.
func QueryPrefix(instanceID string) string {
	if instanceID == "" {
		return ""
	}
	return instanceID + "."
}

// DealsStateFromConfig reads the base view state stored in widget
// configuration (page_size, sort, statuses, hidden_columns).
func DealsStateFromConfig(cfg map[string]any) datatable.ViewState {
	state := datatable.ViewState{
		PageSize: intValue(cfg["page_size"], defaultDealsPageSize),
	}
	if state.PageSize <= 0 {
		state.PageSize = defaultDealsPageSize
	}
	if raw := stringValue(cfg["sort"], ""); raw != "" {
		state.Sorting = datatable.StateFromQuery(url.Values{"sort": {raw}}, "").Sorting
	}
	if statuses := trimmed(stringSliceValue(cfg["statuses"])); len(statuses) > 0 {
		state.Filters = map[string][]string{ColumnStatus: statuses}
	}
	for _, key := range trimmed(stringSliceValue(cfg["hidden_columns"])) {
		if state.Hidden == nil {
			state.Hidden = map[string]bool{}
		}
		state.Hidden[key] = true
	}
	return state
}

func mergeQuery(base url.Values, prefix string, state datatable.ViewState) string {
	out := url.Values{}
	for key, values := range base {
		if prefix != "" && strings.HasPrefix(key, prefix) {
			continue
		}
		out[key] = append([]string(nil), values...)
	}
	for key, values := range state.Query(prefix) {
		out[key] = values
	}
	return out.Encode()
}

func pageSummary(page datatable.Page[Deal]) string {
	if page.Total == 0 {
		return "No deals match the current filters."
	}
	if len(page.Rows) == 0 {
		return fmt.Sprintf("No deals past page %d", page.PageCount)
	}
	first := page.PageIndex*page.PageSize + 1
	last := first + len(page.Rows) - 1
	return fmt.Sprintf("Showing %d-%d of %d deals", first, last, page.Total)
}

func trimmed(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
