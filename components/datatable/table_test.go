package datatable

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ID     string
	Name   string
	Value  int
	Status string
	Region string
}

func fixtureColumns() []Column[fixture] {
	return []Column[fixture]{
		{Key: "name", Header: "Name", Accessor: func(f fixture) any { return f.Name }},
		{
			Key:      "value",
			Header:   "Value",
			Accessor: func(f fixture) any { return f.Value },
			Render:   func(f fixture) Cell { return Cell{Text: fmt.Sprintf("$%d", f.Value)} },
		},
		{
			Key:      "status",
			Header:   "Status",
			Accessor: func(f fixture) any { return f.Status },
			Filter:   func(f fixture, values []string) bool { return InSet(f.Status, values) },
		},
		{Key: "region", Header: "Region", Accessor: func(f fixture) any { return f.Region }, DisableHiding: true},
	}
}

func fixtures() []fixture {
	return []fixture{
		{ID: "1", Name: "Enterprise", Value: 125000, Status: "won", Region: "eu"},
		{ID: "2", Name: "Subscription", Value: 45000, Status: "in-progress", Region: "us"},
		{ID: "3", Name: "Migration", Value: 89000, Status: "pending", Region: "eu"},
		{ID: "4", Name: "Support", Value: 32000, Status: "won", Region: "us"},
		{ID: "5", Name: "Consulting", Value: 67000, Status: "lost", Region: "eu"},
	}
}

func ids(rows []fixture) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.ID
	}
	return out
}

func TestFilterSortPaginateScenario(t *testing.T) {
	table := New(fixtures(), fixtureColumns())
	table.SetFilter("status", []string{"won"})
	table.SortBy("value", Desc)

	page := table.Paginate(0, 5)
	require.Len(t, page, 2)
	assert.Equal(t, 125000, page[0].Value)
	assert.Equal(t, 32000, page[1].Value)
}

func TestSortReverseAndIdempotent(t *testing.T) {
	source := fixtures()
	perms := [][]int{{0, 1, 2, 3, 4}, {4, 3, 2, 1, 0}, {2, 0, 4, 1, 3}}
	for _, perm := range perms {
		rows := make([]fixture, len(perm))
		for i, idx := range perm {
			rows[i] = source[idx]
		}
		table := New(rows, fixtureColumns())

		table.SortBy("value", Asc)
		asc := table.Rows()
		assert.Equal(t, asc, table.Rows(), "sorting must be idempotent")

		table.SortBy("value", Desc)
		desc := table.Rows()
		reversed := slices.Clone(desc)
		slices.Reverse(reversed)
		assert.Equal(t, ids(asc), ids(reversed))
	}
}

func TestSortIsStableForTies(t *testing.T) {
	table := New(fixtures(), fixtureColumns())
	table.SortBy("region", Asc)
	assert.Equal(t, []string{"1", "3", "5", "2", "4"}, ids(table.Rows()))

	table.SortBy("region", Desc)
	assert.Equal(t, []string{"2", "4", "1", "3", "5"}, ids(table.Rows()))
}

func TestMultiColumnSortPriority(t *testing.T) {
	table := New(fixtures(), fixtureColumns())
	table.SortBy("region", Asc)
	table.ThenBy("value", Desc)
	assert.Equal(t, []string{"1", "3", "5", "2", "4"}, ids(table.Rows()))

	table.ThenBy("region", Desc)
	state := table.State()
	require.Len(t, state.Sorting, 2)
	assert.Equal(t, SortSpec{Key: "region", Direction: Desc}, state.Sorting[0])
	assert.Equal(t, []string{"2", "4", "1", "3", "5"}, ids(table.Rows()))
}

func TestSetSortingKeepsOneEntryPerColumn(t *testing.T) {
	table := New(fixtures(), fixtureColumns())
	table.SetSorting([]SortSpec{
		{Key: "value", Direction: Asc},
		{Key: "value", Direction: Desc},
		{Key: "missing", Direction: Asc},
		{Key: "name", Direction: "sideways"},
	})
	assert.Equal(t, []SortSpec{{Key: "value", Direction: Asc}}, table.State().Sorting)
}

func TestToggleSortCycles(t *testing.T) {
	table := New(fixtures(), fixtureColumns())
	table.ToggleSort("value")
	assert.Equal(t, Asc, table.State().SortDirection("value"))
	table.ToggleSort("value")
	assert.Equal(t, Desc, table.State().SortDirection("value"))
	table.ToggleSort("value")
	assert.Empty(t, table.State().Sorting)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(table.Rows()))
}

func TestFiltersCommuteAcrossColumns(t *testing.T) {
	a := New(fixtures(), fixtureColumns())
	a.SetFilter("status", []string{"won", "lost"})
	a.SetFilter("region", []string{"eu"})

	b := New(fixtures(), fixtureColumns())
	b.SetFilter("region", []string{"eu"})
	b.SetFilter("status", []string{"won", "lost"})

	assert.Equal(t, a.Rows(), b.Rows())
	assert.Equal(t, []string{"1", "5"}, ids(a.Rows()))
}

func TestEmptyFilterIsPassThrough(t *testing.T) {
	table := New(fixtures(), fixtureColumns())
	table.SetFilter("status", []string{"won"})
	table.SetFilter("status", nil)
	assert.Len(t, table.Rows(), 5)
	assert.Empty(t, table.State().Filters)
}

func TestFilterMatchingNothingYieldsEmpty(t *testing.T) {
	table := New(fixtures(), fixtureColumns())
	table.SetFilter("status", []string{"archived"})
	assert.Empty(t, table.Rows())
	page := table.Page()
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.PageCount)
	assert.False(t, page.CanNext)
	assert.Empty(t, page.Rows)
}

func TestPaginateBounds(t *testing.T) {
	table := New(fixtures(), fixtureColumns())
	total := len(table.Rows())

	assert.Equal(t, table.Rows(), table.Paginate(0, total))
	assert.Equal(t, table.Rows(), table.Paginate(0, total+10))
	assert.Empty(t, table.Paginate(1, total))
	assert.Empty(t, table.Paginate(5, 1))
	assert.Empty(t, table.Paginate(-1, 2))
	assert.Empty(t, table.Paginate(0, 0))
	assert.Equal(t, []string{"3", "4"}, ids(table.Paginate(1, 2)))
	assert.Equal(t, []string{"5"}, ids(table.Paginate(2, 2)))
}

func TestPaginateHugeIndexesStayEmpty(t *testing.T) {
	table := New(fixtures(), fixtureColumns())

	assert.Empty(t, table.Paginate(math.MaxInt/2+1, 2))
	assert.Empty(t, table.Paginate(1<<62, 4))
	assert.Empty(t, table.Paginate(math.MaxInt, math.MaxInt))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(table.Paginate(0, math.MaxInt)))

	page := table.PageFor(ViewState{PageIndex: math.MaxInt, PageSize: 2})
	assert.Empty(t, page.Rows)
	assert.Equal(t, 3, page.PageCount)
	assert.False(t, page.CanNext)
	assert.True(t, page.CanPrevious)

	page = table.PageFor(ViewState{PageSize: math.MaxInt})
	assert.Equal(t, 1, page.PageCount)
	assert.Len(t, page.Rows, 5)
	assert.False(t, page.CanNext)
}

func TestSourceIsNeverMutated(t *testing.T) {
	rows := fixtures()
	original := slices.Clone(rows)
	table := New(rows, fixtureColumns())
	table.SortBy("value", Desc)
	table.SetFilter("status", []string{"won"})
	_ = table.Page()
	assert.Equal(t, original, rows)
	assert.Equal(t, 5, table.Len())
}

func TestPageRendersVisibleCells(t *testing.T) {
	table := New(fixtures(), fixtureColumns(), WithPageSize(2))
	table.SetColumnVisibility("name", false)
	table.SetColumnVisibility("region", false)
	table.SortBy("value", Desc)

	page := table.Page()
	require.Len(t, page.Headers, 3)
	assert.Equal(t, "value", page.Headers[0].Key)
	assert.Equal(t, Desc, page.Headers[0].Sort)
	assert.Equal(t, 1, page.Headers[0].SortPriority)
	assert.True(t, page.Headers[1].CanFilter)
	assert.False(t, page.Headers[2].CanHide)

	require.Len(t, page.Rows, 2)
	assert.Equal(t, "$125000", page.Rows[0].Cells[0].Text)
	assert.Equal(t, 0, page.Rows[0].Index)
	assert.Equal(t, 3, page.PageCount)
	assert.True(t, page.CanNext)
	assert.False(t, page.CanPrevious)

	table.NextPage()
	table.NextPage()
	assert.Equal(t, 2, table.State().PageIndex)
	table.NextPage()
	assert.Equal(t, 2, table.State().PageIndex)
	table.PreviousPage()
	assert.Equal(t, 1, table.State().PageIndex)
}

func TestPageForLeavesStateUntouched(t *testing.T) {
	table := New(fixtures(), fixtureColumns(), WithPageSize(5))
	page := table.PageFor(ViewState{
		Sorting: []SortSpec{{Key: "value", Direction: Desc}},
		Filters: map[string][]string{"status": {"won"}},
	})
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "1", page.Rows[0].Record.ID)
	assert.Equal(t, 5, page.PageSize)
	assert.Empty(t, table.State().Sorting)
}

func TestDeterministicRecomputation(t *testing.T) {
	state := ViewState{
		Sorting:   []SortSpec{{Key: "region", Direction: Asc}, {Key: "name", Direction: Desc}},
		Filters:   map[string][]string{"status": {"won", "pending", "lost"}},
		PageIndex: 0,
		PageSize:  2,
	}
	first := New(fixtures(), fixtureColumns()).PageFor(state)
	second := New(fixtures(), fixtureColumns()).PageFor(state)
	assert.Equal(t, first, second)
}

func TestStateQueryRoundTrip(t *testing.T) {
	values, err := url.ParseQuery("deals.sort=value:desc,name&deals.filter.status=won,lost&deals.page=1&deals.size=5&deals.hide=company&other=1")
	require.NoError(t, err)

	state := StateFromQuery(values, "deals.")
	assert.Equal(t, []SortSpec{{Key: "value", Direction: Desc}, {Key: "name", Direction: Asc}}, state.Sorting)
	assert.Equal(t, []string{"won", "lost"}, state.Filters["status"])
	assert.Equal(t, 1, state.PageIndex)
	assert.Equal(t, 5, state.PageSize)
	assert.True(t, state.Hidden["company"])

	encoded := state.Query("deals.")
	assert.Equal(t, state, StateFromQuery(encoded, "deals."))
}

func TestStateFromQuerySkipsMalformedValues(t *testing.T) {
	values := url.Values{
		"sort": {"value:up,:desc"},
		"page": {"-3"},
		"size": {"zero"},
	}
	state := StateFromQuery(values, "")
	assert.Empty(t, state.Sorting)
	assert.Equal(t, 0, state.PageIndex)
	assert.Equal(t, 0, state.PageSize)
}

func TestCompareValues(t *testing.T) {
	assert.Negative(t, CompareValues(1, 2))
	assert.Positive(t, CompareValues(2.5, 1.5))
	assert.Zero(t, CompareValues("a", "a"))
	assert.Negative(t, CompareValues(false, true))
	assert.Equal(t, strings.Compare("1", "b"), CompareValues(1, "b"))
}

func TestViewStateOverlay(t *testing.T) {
	base := ViewState{
		Sorting:   []SortSpec{{Key: "value", Direction: Desc}},
		Filters:   map[string][]string{"status": {"won"}},
		PageIndex: 2,
		PageSize:  5,
	}

	assert.Equal(t, base, base.Overlay(ViewState{}))

	merged := base.Overlay(ViewState{
		Sorting: []SortSpec{{Key: "name", Direction: Asc}},
		Filters: map[string][]string{"region": {"EU"}},
		Hidden:  map[string]bool{"company": true},
	})
	assert.Equal(t, []SortSpec{{Key: "name", Direction: Asc}}, merged.Sorting)
	assert.Equal(t, []string{"won"}, merged.Filters["status"])
	assert.Equal(t, []string{"EU"}, merged.Filters["region"])
	assert.Equal(t, 0, merged.PageIndex)
	assert.Equal(t, 5, merged.PageSize)
	assert.True(t, merged.Hidden["company"])

	assert.Equal(t, []string{"won"}, base.Filters["status"])
	assert.Nil(t, base.Hidden)
}
