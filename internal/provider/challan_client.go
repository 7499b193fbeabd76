// Package provider wraps the external violation-data feed that supplies raw
// challan records for a registration number.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
)

// ChallanClient is the collaborator surface the challan ledger consumes.
type ChallanClient interface {
	FetchChallans(ctx context.Context, registrationNo string) (*ChallanFeed, error)
}

// ChallanFeed is the provider's response: pending and disposed records come
// in two different shapes.
type ChallanFeed struct {
	Pending  []PendingRecord  `json:"pending_data"`
	Disposed []DisposedRecord `json:"disposed_data"`
}

type PendingRecord struct {
	ChallanNo          string      `json:"challan_no"`
	Amount             json.Number `json:"amount"`
	StateCode          string      `json:"state_code"`
	ChallanDateTime    string      `json:"challan_date_time"`
	SentToRegCourt     string      `json:"sent_to_reg_court"`
	SentToVirtualCourt string      `json:"sent_to_virtual_court"`
}

type DisposedRecord struct {
	ChallanNo   string      `json:"challan_no"`
	Amount      json.Number `json:"amount"`
	StateCode   string      `json:"state_code"`
	ChallanDate string      `json:"challan_date"`
	ReceiptNo   string      `json:"receipt_no"`
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a provider client with a bounded request timeout so a
// stalled feed cannot hang callers.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) ChallanClient {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) FetchChallans(ctx context.Context, registrationNo string) (*ChallanFeed, error) {
	logger.ExternalServiceCall("challan-provider", "FetchChallans", "registrationNo", registrationNo)

	endpoint := fmt.Sprintf("%s/challans?rc_no=%s", c.baseURL, url.QueryEscape(registrationNo))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.ExternalServiceResult("challan-provider", "FetchChallans", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: provider returned status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
		logger.ExternalServiceResult("challan-provider", "FetchChallans", err)
		return nil, err
	}

	var payload struct {
		Data ChallanFeed `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		err = fmt.Errorf("%w: malformed payload: %v", domain.ErrUpstreamUnavailable, err)
		logger.ExternalServiceResult("challan-provider", "FetchChallans", err)
		return nil, err
	}

	logger.ExternalServiceResult("challan-provider", "FetchChallans", nil,
		"pending", len(payload.Data.Pending), "disposed", len(payload.Data.Disposed))
	return &payload.Data, nil
}
