package crm

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-admin-hub/components/dashboard"
)

// NewDealsRepository adapts a CRM client into a dashboard repository.
// Deals with an unknown status or an out of range probability are
// rejected so the table never sees them. Concurrent calls share one
// upstream fetch.
func NewDealsRepository(client DealsClient, query DealsQuery) dashboard.DealsRepository {
	return &dealsRepository{client: client, query: query}
}

type dealsRepository struct {
	client DealsClient
	query  DealsQuery
	group  singleflight.Group
}

func (r *dealsRepository) ListDeals(ctx context.Context) ([]dashboard.Deal, error) {
	ch := r.group.DoChan("deals", func() (any, error) {
		deals, err := r.client.FetchDeals(context.WithoutCancel(ctx), r.query)
		if err != nil {
			return nil, err
		}
		for _, deal := range deals {
			if err := checkDeal(deal); err != nil {
				return nil, err
			}
		}
		return deals, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]dashboard.Deal)), nil
	}
}

func checkDeal(deal dashboard.Deal) error {
	if deal.ID == "" {
		return fmt.Errorf("crm: deal %q is missing id", deal.Name)
	}
	if !slices.Contains(dashboard.DealStatuses(), deal.Status) {
		return fmt.Errorf("crm: deal %s has unknown status %q", deal.ID, deal.Status)
	}
	if deal.Probability < 0 || deal.Probability > 100 {
		return fmt.Errorf("crm: deal %s probability %d out of range", deal.ID, deal.Probability)
	}
	return nil
}
