package datatable

import (
	"slices"
	"sync"
)

// DefaultPageSize is used when neither options nor state carry a page size.
const DefaultPageSize = 10

// Option customizes a Table at construction time.
type Option func(*options)

type options struct {
	pageSize int
	initial  *ViewState
}

// WithPageSize sets the page size used when the state does not request one.
func WithPageSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

// WithInitialState seeds the view state.
func WithInitialState(state ViewState) Option {
	return func(o *options) {
		cloned := state.Clone()
		o.initial = &cloned
	}
}

// Row is one presented record with its rendered cells, ordered like the
// visible headers. Index is the record position in the source sequence.
type Row[R any] struct {
	Index  int    `json:"index"`
	Record R      `json:"record"`
	Cells  []Cell `json:"cells"`
}

// Header describes a visible column and its current sort/filter state.
type Header struct {
	Key          string    `json:"key"`
	Title        string    `json:"title"`
	Sort         Direction `json:"sort,omitempty"`
	SortPriority int       `json:"sort_priority,omitempty"`
	CanSort      bool      `json:"can_sort"`
	CanHide      bool      `json:"can_hide"`
	CanFilter    bool      `json:"can_filter"`
	Filter       []string  `json:"filter,omitempty"`
}

// Page is the renderable view model for one page of the derived sequence.
type Page[R any] struct {
	Headers     []Header  `json:"headers"`
	Rows        []Row[R]  `json:"rows"`
	State       ViewState `json:"state"`
	PageIndex   int       `json:"page_index"`
	PageSize    int       `json:"page_size"`
	PageCount   int       `json:"page_count"`
	Total       int       `json:"total"`
	CanPrevious bool      `json:"can_previous"`
	CanNext     bool      `json:"can_next"`
}

// Table layers a ViewState over a fixed record sequence. Sorting, filtering
// and pagination are recomputed from the source on every read, so the same
// state always yields the same output and the source is never reordered.
type Table[R any] struct {
	mu       sync.RWMutex
	source   []R
	columns  []Column[R]
	index    map[string]int
	pageSize int
	state    ViewState
}

// New builds a table over a copy of rows.
func New[R any](rows []R, columns []Column[R], opts ...Option) *Table[R] {
	cfg := options{pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	t := &Table[R]{
		source:   slices.Clone(rows),
		columns:  slices.Clone(columns),
		index:    make(map[string]int, len(columns)),
		pageSize: cfg.pageSize,
	}
	for i, col := range t.columns {
		t.index[col.Key] = i
	}
	if cfg.initial != nil {
		t.state = t.normalize(*cfg.initial)
	} else {
		t.state = t.normalize(ViewState{})
	}
	return t
}

// Columns returns the column definitions.
func (t *Table[R]) Columns() []Column[R] {
	return slices.Clone(t.columns)
}

// Len returns the size of the source sequence.
func (t *Table[R]) Len() int {
	return len(t.source)
}

// State returns a copy of the current view state.
func (t *Table[R]) State() ViewState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Clone()
}

// Apply replaces the view state. Unknown columns are dropped.
func (t *Table[R]) Apply(state ViewState) {
	next := t.normalize(state)
	t.mu.Lock()
	t.state = next
	t.mu.Unlock()
}

// SortBy sorts by a single column, replacing any previous sorting.
func (t *Table[R]) SortBy(key string, dir Direction) {
	t.update(func(s *ViewState) {
		s.Sorting = []SortSpec{{Key: key, Direction: dir}}
	})
}

// ThenBy adds a lower-priority sort key. A column that already sorts keeps
// its priority and takes the new direction.
func (t *Table[R]) ThenBy(key string, dir Direction) {
	t.update(func(s *ViewState) {
		for i := range s.Sorting {
			if s.Sorting[i].Key == key {
				s.Sorting[i].Direction = dir
				return
			}
		}
		s.Sorting = append(s.Sorting, SortSpec{Key: key, Direction: dir})
	})
}

// SetSorting replaces the sorting. Duplicate columns keep their first entry.
func (t *Table[R]) SetSorting(specs []SortSpec) {
	t.update(func(s *ViewState) {
		s.Sorting = slices.Clone(specs)
	})
}

// ToggleSort cycles a column through ascending, descending and unsorted.
func (t *Table[R]) ToggleSort(key string) {
	t.update(func(s *ViewState) {
		switch s.SortDirection(key) {
		case "":
			s.Sorting = []SortSpec{{Key: key, Direction: Asc}}
		case Asc:
			s.Sorting = []SortSpec{{Key: key, Direction: Desc}}
		default:
			s.Sorting = slices.DeleteFunc(s.Sorting, func(spec SortSpec) bool { return spec.Key == key })
		}
	})
}

// ClearSorting restores source order.
func (t *Table[R]) ClearSorting() {
	t.update(func(s *ViewState) { s.Sorting = nil })
}

// SetFilter sets the accepted values for a column. An empty set removes the
// filter. Filters on distinct columns combine with AND.
func (t *Table[R]) SetFilter(key string, values []string) {
	t.update(func(s *ViewState) {
		if len(values) == 0 {
			delete(s.Filters, key)
			return
		}
		if s.Filters == nil {
			s.Filters = map[string][]string{}
		}
		s.Filters[key] = slices.Clone(values)
		s.PageIndex = 0
	})
}

// ClearFilters removes every column filter.
func (t *Table[R]) ClearFilters() {
	t.update(func(s *ViewState) { s.Filters = nil })
}

// SetPagination selects the current page.
func (t *Table[R]) SetPagination(pageIndex, pageSize int) {
	t.update(func(s *ViewState) {
		s.PageIndex = pageIndex
		s.PageSize = pageSize
	})
}

// NextPage advances when a next page exists.
func (t *Table[R]) NextPage() {
	page := t.Page()
	if page.CanNext {
		t.SetPagination(page.PageIndex+1, page.PageSize)
	}
}

// PreviousPage steps back when a previous page exists.
func (t *Table[R]) PreviousPage() {
	page := t.Page()
	if page.CanPrevious {
		t.SetPagination(page.PageIndex-1, page.PageSize)
	}
}

// SetColumnVisibility shows or hides a column in rendered pages.
func (t *Table[R]) SetColumnVisibility(key string, visible bool) {
	t.update(func(s *ViewState) {
		if visible {
			delete(s.Hidden, key)
			return
		}
		if s.Hidden == nil {
			s.Hidden = map[string]bool{}
		}
		s.Hidden[key] = true
	})
}

// Rows returns the filtered and sorted sequence for the current state.
func (t *Table[R]) Rows() []R {
	return t.records(t.derive(t.State()))
}

// Paginate returns one page of Rows. Pages beyond the available range and
// non-positive sizes yield an empty sequence.
func (t *Table[R]) Paginate(pageIndex, pageSize int) []R {
	return t.records(window(t.derive(t.State()), pageIndex, pageSize))
}

// Page renders the current page.
func (t *Table[R]) Page() Page[R] {
	return t.PageFor(t.State())
}

// PageFor renders a page for state without touching the table's own state,
// letting concurrent requests share one table.
func (t *Table[R]) PageFor(state ViewState) Page[R] {
	state = t.normalize(state)
	ordered := t.derive(state)
	visible := t.visibleColumns(state)

	page := Page[R]{
		Headers:   t.headers(state, visible),
		State:     state,
		PageIndex: state.PageIndex,
		PageSize:  state.PageSize,
		Total:     len(ordered),
	}
	page.PageCount = pageCount(page.Total, page.PageSize)
	page.CanPrevious = page.PageIndex > 0
	page.CanNext = page.PageIndex < page.PageCount-1

	slice := window(ordered, state.PageIndex, state.PageSize)
	page.Rows = make([]Row[R], 0, len(slice))
	for _, idx := range slice {
		record := t.source[idx]
		cells := make([]Cell, 0, len(visible))
		for _, col := range visible {
			cells = append(cells, col.render(record))
		}
		page.Rows = append(page.Rows, Row[R]{Index: idx, Record: record, Cells: cells})
	}
	return page
}

func (t *Table[R]) update(fn func(*ViewState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.state.Clone()
	fn(&next)
	t.state = t.normalize(next)
}

func (t *Table[R]) normalize(state ViewState) ViewState {
	out := ViewState{
		PageIndex: max(state.PageIndex, 0),
		PageSize:  state.PageSize,
	}
	if out.PageSize <= 0 {
		out.PageSize = t.pageSize
	}
	seen := make(map[string]bool, len(state.Sorting))
	for _, spec := range state.Sorting {
		col, ok := t.column(spec.Key)
		if !ok || col.DisableSorting || seen[spec.Key] {
			continue
		}
		dir := ParseDirection(string(spec.Direction))
		if dir == "" {
			continue
		}
		seen[spec.Key] = true
		out.Sorting = append(out.Sorting, SortSpec{Key: spec.Key, Direction: dir})
	}
	for key, values := range state.Filters {
		if _, ok := t.column(key); !ok || len(values) == 0 {
			continue
		}
		if out.Filters == nil {
			out.Filters = map[string][]string{}
		}
		out.Filters[key] = slices.Clone(values)
	}
	for key, hidden := range state.Hidden {
		col, ok := t.column(key)
		if !ok || !hidden || col.DisableHiding {
			continue
		}
		if out.Hidden == nil {
			out.Hidden = map[string]bool{}
		}
		out.Hidden[key] = true
	}
	return out
}

func (t *Table[R]) column(key string) (Column[R], bool) {
	idx, ok := t.index[key]
	if !ok {
		return Column[R]{}, false
	}
	return t.columns[idx], true
}

// derive returns source indexes that pass every filter, in sorted order.
func (t *Table[R]) derive(state ViewState) []int {
	ordered := make([]int, 0, len(t.source))
	for i, record := range t.source {
		if t.passes(record, state.Filters) {
			ordered = append(ordered, i)
		}
	}
	if len(state.Sorting) == 0 {
		return ordered
	}
	slices.SortStableFunc(ordered, func(a, b int) int {
		for _, spec := range state.Sorting {
			col, _ := t.column(spec.Key)
			c := col.compare(t.source[a], t.source[b])
			if spec.Direction == Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return ordered
}

func (t *Table[R]) passes(record R, filters map[string][]string) bool {
	for key, values := range filters {
		col, ok := t.column(key)
		if !ok {
			continue
		}
		if !col.matches(record, values) {
			return false
		}
	}
	return true
}

func (t *Table[R]) visibleColumns(state ViewState) []Column[R] {
	visible := make([]Column[R], 0, len(t.columns))
	for _, col := range t.columns {
		if !state.Hidden[col.Key] {
			visible = append(visible, col)
		}
	}
	return visible
}

func (t *Table[R]) headers(state ViewState, visible []Column[R]) []Header {
	headers := make([]Header, 0, len(visible))
	for _, col := range visible {
		header := Header{
			Key:       col.Key,
			Title:     col.Header,
			CanSort:   !col.DisableSorting,
			CanHide:   !col.DisableHiding,
			CanFilter: col.Filter != nil,
			Filter:    slices.Clone(state.Filters[col.Key]),
		}
		if header.Title == "" {
			header.Title = col.Key
		}
		for i, spec := range state.Sorting {
			if spec.Key == col.Key {
				header.Sort = spec.Direction
				header.SortPriority = i + 1
				break
			}
		}
		headers = append(headers, header)
	}
	return headers
}

func (t *Table[R]) records(indexes []int) []R {
	out := make([]R, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, t.source[idx])
	}
	return out
}

func window(ordered []int, pageIndex, pageSize int) []int {
	if pageIndex < 0 || pageSize <= 0 {
		return nil
	}
	// Compare before multiplying; pageIndex*pageSize may overflow.
	if len(ordered) == 0 || pageIndex > (len(ordered)-1)/pageSize {
		return nil
	}
	start := pageIndex * pageSize
	end := start + min(pageSize, len(ordered)-start)
	return ordered[start:end]
}

func pageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	count := total / pageSize
	if total%pageSize != 0 {
		count++
	}
	return count
}
