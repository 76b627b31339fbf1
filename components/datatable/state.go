package datatable

import (
	"maps"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// SortSpec is one sort entry; entries earlier in a slice take priority.
type SortSpec struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// ViewState is the sort/filter/pagination state layered over the records.
// It never affects the underlying record set.
type ViewState struct {
	Sorting   []SortSpec          `json:"sorting,omitempty"`
	Filters   map[string][]string `json:"filters,omitempty"`
	PageIndex int                 `json:"page_index"`
	PageSize  int                 `json:"page_size"`
	Hidden    map[string]bool     `json:"hidden,omitempty"`
}

// Clone returns a deep copy of the state.
func (s ViewState) Clone() ViewState {
	out := ViewState{
		Sorting:   slices.Clone(s.Sorting),
		PageIndex: s.PageIndex,
		PageSize:  s.PageSize,
	}
	if len(s.Filters) > 0 {
		out.Filters = make(map[string][]string, len(s.Filters))
		for key, values := range s.Filters {
			out.Filters[key] = slices.Clone(values)
		}
	}
	if len(s.Hidden) > 0 {
		out.Hidden = maps.Clone(s.Hidden)
	}
	return out
}

// SortDirection returns the direction applied to key, or "" when unsorted.
func (s ViewState) SortDirection(key string) Direction {
	for _, spec := range s.Sorting {
		if spec.Key == key {
			return spec.Direction
		}
	}
	return ""
}

const (
	paramSort   = "sort"
	paramPage   = "page"
	paramSize   = "size"
	paramHide   = "hide"
	paramFilter = "filter."
)

// StateFromQuery reads a view state from query parameters. The prefix
// namespaces parameters when several tables share one request, e.g.
// "deals." reads "deals.sort". Malformed values are skipped.
//
//	sort=value:desc,company:asc  filter.status=won,lost  page=0  size=5  hide=company
func StateFromQuery(values url.Values, prefix string) ViewState {
	var state ViewState
	for _, raw := range splitList(values.Get(prefix + paramSort)) {
		key, dir, _ := strings.Cut(raw, ":")
		direction := Asc
		if dir != "" {
			direction = ParseDirection(dir)
		}
		if key == "" || direction == "" {
			continue
		}
		state.Sorting = append(state.Sorting, SortSpec{Key: key, Direction: direction})
	}
	for name := range values {
		if !strings.HasPrefix(name, prefix+paramFilter) {
			continue
		}
		key := strings.TrimPrefix(name, prefix+paramFilter)
		list := splitList(strings.Join(values[name], ","))
		if key == "" || len(list) == 0 {
			continue
		}
		if state.Filters == nil {
			state.Filters = map[string][]string{}
		}
		state.Filters[key] = list
	}
	if page, err := strconv.Atoi(values.Get(prefix + paramPage)); err == nil && page >= 0 {
		state.PageIndex = page
	}
	if size, err := strconv.Atoi(values.Get(prefix + paramSize)); err == nil && size > 0 {
		state.PageSize = size
	}
	for _, key := range splitList(values.Get(prefix + paramHide)) {
		if state.Hidden == nil {
			state.Hidden = map[string]bool{}
		}
		state.Hidden[key] = true
	}
	return state
}

// Query encodes the state using the parameter names read by StateFromQuery.
func (s ViewState) Query(prefix string) url.Values {
	values := url.Values{}
	if len(s.Sorting) > 0 {
		parts := make([]string, 0, len(s.Sorting))
		for _, spec := range s.Sorting {
			parts = append(parts, spec.Key+":"+string(spec.Direction))
		}
		values.Set(prefix+paramSort, strings.Join(parts, ","))
	}
	for key, list := range s.Filters {
		if len(list) > 0 {
			values.Set(prefix+paramFilter+key, strings.Join(list, ","))
		}
	}
	values.Set(prefix+paramPage, strconv.Itoa(s.PageIndex))
	if s.PageSize > 0 {
		values.Set(prefix+paramSize, strconv.Itoa(s.PageSize))
	}
	if len(s.Hidden) > 0 {
		hidden := make([]string, 0, len(s.Hidden))
		for key, ok := range s.Hidden {
			if ok {
				hidden = append(hidden, key)
			}
		}
		sort.Strings(hidden)
		if len(hidden) > 0 {
			values.Set(prefix+paramHide, strings.Join(hidden, ","))
		}
	}
	return values
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Overlay returns s with every field set in o taking precedence. Page index
// is taken from o whenever o carries sorting, filters or a page size, so a
// request that changes the view starts from its own page.
func (s ViewState) Overlay(o ViewState) ViewState {
	out := s.Clone()
	if len(o.Sorting) > 0 {
		out.Sorting = slices.Clone(o.Sorting)
	}
	for key, values := range o.Filters {
		if out.Filters == nil {
			out.Filters = map[string][]string{}
		}
		out.Filters[key] = slices.Clone(values)
	}
	if o.PageSize > 0 {
		out.PageSize = o.PageSize
	}
	if o.PageIndex > 0 || len(o.Sorting) > 0 || len(o.Filters) > 0 || o.PageSize > 0 {
		out.PageIndex = o.PageIndex
	}
	for key, hidden := range o.Hidden {
		if out.Hidden == nil {
			out.Hidden = map[string]bool{}
		}
		out.Hidden[key] = hidden
	}
	return out
}
