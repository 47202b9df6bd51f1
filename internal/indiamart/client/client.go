// Package client provides the HTTP client for the IndiaMART Pull API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"indiamart_bridge/internal/indiamart/transport"
	"indiamart_bridge/platform/logger"
)

const (
	listingPath = "/wservce/crm/crmListing/v2/"

	// TimestampLayout is the Pull API wire format: DD-MM-YYYYHH:MM:SS with no
	// separator between the date and time components.
	TimestampLayout = "02-01-200615:04:05"

	fetchTimeout = 30 * time.Second
	pingTimeout  = 10 * time.Second

	statusFailure = "FAILURE"
)

// Outcome classifies a Pull API call result.
type Outcome int

const (
	// OutcomeSuccess means the API returned STATUS != FAILURE with a parseable body.
	OutcomeSuccess Outcome = iota
	// OutcomeDomainFailure means the API answered with STATUS == FAILURE.
	OutcomeDomainFailure
	// OutcomeTransportFailure means a network error or non-2xx HTTP status.
	OutcomeTransportFailure
	// OutcomeParseFailure means the response body was not valid JSON.
	OutcomeParseFailure
)

// FetchResult is the tagged outcome of a Pull API listing call. Callers branch
// on Outcome instead of catching heterogeneous errors.
type FetchResult struct {
	Outcome Outcome
	Leads   []transport.RawLead
	Message string
}

// Client is the HTTP client for the IndiaMART Pull API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// New creates a new Pull API client. The per-call timeout is set on the
// request context, not the http.Client, because fetch and ping use different
// deadlines.
func New(baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		log:        log,
	}
}

// Fetch requests all leads created inside [start, end). One attempt, no retries.
func (c *Client) Fetch(ctx context.Context, apiKey string, start, end time.Time) FetchResult {
	params := url.Values{}
	params.Set("glusr_crm_key", apiKey)
	params.Set("start_time", start.Format(TimestampLayout))
	params.Set("end_time", end.Format(TimestampLayout))

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	return c.doListing(ctx, params)
}

// TestConnection verifies the API key against the listing endpoint without a
// time window. Returns the upstream MESSAGE on success.
func (c *Client) TestConnection(ctx context.Context, apiKey string) (string, error) {
	params := url.Values{}
	params.Set("glusr_crm_key", apiKey)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	result := c.doListing(ctx, params)
	switch result.Outcome {
	case OutcomeSuccess:
		if result.Message != "" {
			return result.Message, nil
		}
		return "Successfully connected to the IndiaMART API.", nil
	case OutcomeDomainFailure:
		return "", fmt.Errorf("IndiaMART API error: %s", result.Message)
	case OutcomeParseFailure:
		return "", fmt.Errorf("received an invalid response from the IndiaMART server")
	default:
		return "", fmt.Errorf("network error: %s", result.Message)
	}
}

func (c *Client) doListing(ctx context.Context, params url.Values) FetchResult {
	reqURL := c.baseURL + listingPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return FetchResult{Outcome: OutcomeTransportFailure, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("pull api request failed", "error", err)
		return FetchResult{Outcome: OutcomeTransportFailure, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("pull api upstream error", "status", resp.StatusCode)
		return FetchResult{
			Outcome: OutcomeTransportFailure,
			Message: fmt.Sprintf("upstream error: status %d", resp.StatusCode),
		}
	}

	var body transport.PullResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Error("pull api decode failed", "error", err)
		return FetchResult{Outcome: OutcomeParseFailure, Message: "invalid JSON response body"}
	}

	if body.Status == statusFailure {
		// Carry any partial RESPONSE so the caller can still account for it.
		return FetchResult{Outcome: OutcomeDomainFailure, Leads: body.Response, Message: body.Message}
	}

	return FetchResult{Outcome: OutcomeSuccess, Leads: body.Response, Message: body.Message}
}
