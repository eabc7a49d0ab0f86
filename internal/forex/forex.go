// Package forex fetches exchange rates from the Yahoo Finance chart API.
package forex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"finboard/internal/cache"
)

const (
	// DefaultBaseURL is the Yahoo Finance chart endpoint.
	DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	userAgent      = "Mozilla/5.0 (compatible; finboard/1.0)"
)

// yahooChartResponse is the subset of the chart payload we read.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Rates are the conversion factors the dashboard settings carry. EURRate
// converts USD to EUR by multiplication; RWFRate is the USD value of one
// RWF, so USD converts to RWF by division.
type Rates struct {
	EURRate float64 `json:"eurRate"`
	RWFRate float64 `json:"rwfRate"`
}

// Client fetches currency pair quotes. Quotes are cached for ttl.
type Client struct {
	httpClient *http.Client
	baseURL    string
	quotes     *cache.LRU[string, float64]
}

// NewClient returns a client against baseURL (DefaultBaseURL when empty).
func NewClient(httpClient *http.Client, baseURL string, ttl time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		quotes:     cache.NewLRU[string, float64](16, ttl),
	}
}

// Rate returns how many units of to one unit of from buys.
func (c *Client) Rate(ctx context.Context, from, to string) (float64, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return 1.0, nil
	}
	ticker := from + to + "=X"
	return c.quotes.GetOrCreate(ticker, func() (float64, error) {
		return c.fetch(ctx, ticker)
	})
}

// Rates fetches the USD to EUR and RWF to USD quotes.
func (c *Client) Rates(ctx context.Context) (Rates, error) {
	eur, err := c.Rate(ctx, "USD", "EUR")
	if err != nil {
		return Rates{}, err
	}
	rwf, err := c.Rate(ctx, "RWF", "USD")
	if err != nil {
		return Rates{}, err
	}
	return Rates{EURRate: eur, RWFRate: rwf}, nil
}

func (c *Client) fetch(ctx context.Context, ticker string) (float64, error) {
	url := c.baseURL + "/" + ticker + "?interval=1d&range=1d"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building forex request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("forex http request for %s: %w", ticker, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("forex request for %s: unexpected status %d", ticker, resp.StatusCode)
	}

	var chartResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return 0, fmt.Errorf("decoding forex response for %s: %w", ticker, err)
	}

	if chartResp.Chart.Error != nil {
		return 0, fmt.Errorf("forex chart error for %s: %s: %s", ticker, chartResp.Chart.Error.Code, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 {
		return 0, fmt.Errorf("no forex results for %s", ticker)
	}

	rate := chartResp.Chart.Result[0].Meta.RegularMarketPrice
	if rate <= 0 {
		return 0, fmt.Errorf("invalid forex rate for %s: %f", ticker, rate)
	}
	return rate, nil
}
