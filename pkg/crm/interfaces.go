package crm

import (
	"context"

	"github.com/goliatone/go-admin-hub/components/dashboard"
)

// DealsClient fetches the deal pipeline from an upstream CRM.
type DealsClient interface {
	FetchDeals(ctx context.Context, query DealsQuery) ([]dashboard.Deal, error)
}

// DealsQuery narrows what the CRM returns. Zero values fetch everything.
type DealsQuery struct {
	Statuses []dashboard.DealStatus
	Limit    int
}
