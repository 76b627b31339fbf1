package crm

import (
	"context"
	"slices"
	"sync"

	"github.com/goliatone/go-admin-hub/components/dashboard"
)

// MockClient implements DealsClient over in-memory fixtures, honoring the
// status and limit filters the way the remote endpoint does.
type MockClient struct {
	mu    sync.RWMutex
	deals []dashboard.Deal
	err   error
}

// NewMockClient builds a mock client from deals.
func NewMockClient(deals []dashboard.Deal) *MockClient {
	return &MockClient{deals: slices.Clone(deals)}
}

// SetDeals replaces the fixtures.
func (c *MockClient) SetDeals(deals []dashboard.Deal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deals = slices.Clone(deals)
}

// FailWith makes every fetch return err until cleared with nil.
func (c *MockClient) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// FetchDeals returns matching fixtures.
func (c *MockClient) FetchDeals(_ context.Context, query DealsQuery) ([]dashboard.Deal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return nil, c.err
	}
	out := make([]dashboard.Deal, 0, len(c.deals))
	for _, deal := range c.deals {
		if len(query.Statuses) > 0 && !slices.Contains(query.Statuses, deal.Status) {
			continue
		}
		out = append(out, deal)
		if query.Limit > 0 && len(out) == query.Limit {
			break
		}
	}
	return out, nil
}
