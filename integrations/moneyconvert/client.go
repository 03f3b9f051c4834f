// Package moneyconvert fetches reference exchange rates from moneyconvert.net.
// The upstream is always USD-based; other bases are rebased locally.
package moneyconvert

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wanderly/concierge/concierge/domain"
)

const defaultBaseURL = "https://cdn.moneyconvert.net"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithURL exists for tests against an httptest server.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Name() string { return "moneyconvert" }

type latestResponse struct {
	Rates map[string]float64 `json:"rates"`
	Base  string             `json:"base"`
}

// FetchRates implements domain.RateProvider. The upstream feed is USD-based;
// for another base every rate is divided by the base's own USD rate, so the
// returned map is always "units of X per 1 base".
func (c *Client) FetchRates(ctx context.Context, base string) (*domain.ExchangeRates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/latest.json", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moneyconvert returned status %d", resp.StatusCode)
	}

	var raw latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode moneyconvert response: %w", err)
	}

	rates := raw.Rates
	if rates == nil {
		rates = make(map[string]float64)
	}
	if _, ok := rates["USD"]; !ok {
		rates["USD"] = 1.0
	}

	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" || base == "USD" {
		return &domain.ExchangeRates{Base: "USD", Rates: rates, FetchedAt: time.Now()}, nil
	}

	baseRate, ok := rates[base]
	if !ok || baseRate == 0 {
		return nil, fmt.Errorf("unsupported base currency: %s", base)
	}
	rebased := make(map[string]float64, len(rates))
	for code, r := range rates {
		rebased[code] = r / baseRate
	}
	return &domain.ExchangeRates{Base: base, Rates: rebased, FetchedAt: time.Now()}, nil
}
