package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-admin-hub/components/dashboard"
)

type layoutService interface {
	ConfigureLayout(ctx context.Context, req dashboard.PageRequest) (dashboard.Layout, error)
	Page(ctx context.Context, req dashboard.PageRequest) (dashboard.PagePayload, error)
}

// LayoutQuery executes read-only layout resolution.
type LayoutQuery struct {
	service layoutService
}

// NewLayoutQuery builds the query.
func NewLayoutQuery(service layoutService) *LayoutQuery {
	return &LayoutQuery{service: service}
}

var _ gocommand.Querier[dashboard.PageRequest, dashboard.Layout] = (*LayoutQuery)(nil)

// Query resolves the layout for the request.
func (q *LayoutQuery) Query(ctx context.Context, req dashboard.PageRequest) (dashboard.Layout, error) {
	return q.service.ConfigureLayout(ctx, req)
}

// PageQuery resolves the full page payload: layout, theme and navigation.
type PageQuery struct {
	service layoutService
}

// NewPageQuery builds the query.
func NewPageQuery(service layoutService) *PageQuery {
	return &PageQuery{service: service}
}

var _ gocommand.Querier[dashboard.PageRequest, dashboard.PagePayload] = (*PageQuery)(nil)

// Query resolves the page.
func (q *PageQuery) Query(ctx context.Context, req dashboard.PageRequest) (dashboard.PagePayload, error) {
	return q.service.Page(ctx, req)
}
