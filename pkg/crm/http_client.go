package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goliatone/go-admin-hub/components/dashboard"
)

// HTTPConfig configures the HTTP CRM client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient reads deals from a CRM REST endpoint.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for GET {BaseURL}/deals.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("crm: base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("crm: base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchDeals implements DealsClient.
func (c *HTTPClient) FetchDeals(ctx context.Context, query DealsQuery) ([]dashboard.Deal, error) {
	params := url.Values{}
	for _, status := range query.Statuses {
		params.Add("status", status.String())
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	var resp dealsResponse
	if err := c.get(ctx, "/deals", params, &resp); err != nil {
		return nil, err
	}
	return resp.toDeals()
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, target any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("crm: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("crm: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("crm: decode response: %w", err)
	}
	return nil
}

type dealRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"deal_name"`
	Company     string  `json:"company"`
	Value       float64 `json:"value"`
	Status      string  `json:"status"`
	CloseDate   string  `json:"close_date"`
	Probability int     `json:"probability"`
}

type dealsResponse struct {
	Deals []dealRecord `json:"deals"`
}

func (r dealsResponse) toDeals() ([]dashboard.Deal, error) {
	deals := make([]dashboard.Deal, len(r.Deals))
	for i, record := range r.Deals {
		closeDate, err := time.Parse(time.DateOnly, record.CloseDate)
		if err != nil {
			return nil, fmt.Errorf("crm: parse close date %q for deal %s: %w", record.CloseDate, record.ID, err)
		}
		deals[i] = dashboard.Deal{
			ID:          record.ID,
			Name:        record.Name,
			Company:     record.Company,
			Value:       record.Value,
			Status:      dashboard.DealStatus(record.Status),
			CloseDate:   closeDate,
			Probability: record.Probability,
		}
	}
	return deals, nil
}
