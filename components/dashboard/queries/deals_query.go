package queries

import (
	"context"
	"net/url"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/datatable"
)

// DealsInput carries the table view state. Query, when set, is decoded
// with Prefix and overlays State.
type DealsInput struct {
	State  datatable.ViewState
	Query  url.Values
	Prefix string
}

type dealsService interface {
	DealsPage(ctx context.Context, state datatable.ViewState) (datatable.Page[dashboard.Deal], error)
}

// DealsQuery sorts, filters and paginates the deals table.
type DealsQuery struct {
	service dealsService
}

// NewDealsQuery builds the query.
func NewDealsQuery(service dealsService) *DealsQuery {
	return &DealsQuery{service: service}
}

var _ gocommand.Querier[DealsInput, datatable.Page[dashboard.Deal]] = (*DealsQuery)(nil)

// Query returns one page of deals.
func (q *DealsQuery) Query(ctx context.Context, input DealsInput) (datatable.Page[dashboard.Deal], error) {
	state := input.State
	if len(input.Query) > 0 {
		state = state.Overlay(datatable.StateFromQuery(input.Query, input.Prefix))
	}
	return q.service.DealsPage(ctx, state)
}
