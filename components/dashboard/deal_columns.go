package dashboard

import (
	"cmp"
	"strings"

	"github.com/goliatone/go-admin-hub/components/datatable"
)

// Column keys used by the recent deals table and its query parameters.
const (
	ColumnDealName    = "dealName"
	ColumnCompany     = "company"
	ColumnValue       = "value"
	ColumnStatus      = "status"
	ColumnProbability = "probability"
	ColumnCloseDate   = "closeDate"
)

// DealColumns is the column table for deals: one entry per visible field.
func DealColumns() []datatable.Column[Deal] {
	return []datatable.Column[Deal]{
		{
			Key:      ColumnDealName,
			Header:   "Deal Name",
			Accessor: func(d Deal) any { return d.Name },
			Render:   func(d Deal) datatable.Cell { return datatable.Cell{Text: d.Name, Class: "font-medium"} },
		},
		{
			Key:      ColumnCompany,
			Header:   "Company",
			Accessor: func(d Deal) any { return d.Company },
			Render:   func(d Deal) datatable.Cell { return datatable.Cell{Text: d.Company, Class: "text-muted"} },
		},
		{
			Key:      ColumnValue,
			Header:   "Value",
			Accessor: func(d Deal) any { return d.Value },
			Compare:  func(a, b Deal) int { return cmp.Compare(a.Value, b.Value) },
			Render: func(d Deal) datatable.Cell {
				return datatable.Cell{Text: FormatCurrency(d.Value), Class: "font-semibold"}
			},
		},
		{
			Key:      ColumnStatus,
			Header:   "Status",
			Accessor: func(d Deal) any { return d.Status },
			Compare:  func(a, b Deal) int { return strings.Compare(string(a.Status), string(b.Status)) },
			Render: func(d Deal) datatable.Cell {
				badge := StatusBadge(d.Status)
				return datatable.Cell{Text: badge.Label, Class: "badge", Variant: badge.Variant}
			},
			Filter: func(d Deal, accepted []string) bool {
				return datatable.InSet(string(d.Status), accepted)
			},
		},
		{
			Key:      ColumnProbability,
			Header:   "Probability",
			Accessor: func(d Deal) any { return d.Probability },
			Render:   func(d Deal) datatable.Cell { return datatable.Cell{Text: FormatPercent(d.Probability)} },
		},
		{
			Key:      ColumnCloseDate,
			Header:   "Close Date",
			Accessor: func(d Deal) any { return d.CloseDate },
			Compare:  func(a, b Deal) int { return a.CloseDate.Compare(b.CloseDate) },
			Render:   func(d Deal) datatable.Cell { return datatable.Cell{Text: FormatDate(d.CloseDate)} },
		},
	}
}

// NewDealsTable builds the table adapter over deals.
func NewDealsTable(deals []Deal, opts ...datatable.Option) *datatable.Table[Deal] {
	return datatable.New(deals, DealColumns(), opts...)
}
