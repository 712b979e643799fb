package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	domainErrors "github.com/paperontime/orderdesk/internal/domain/errors"
	"github.com/paperontime/orderdesk/internal/domain/model"
)

// Client exposes operations to query the exchange rate feed.
type Client interface {
	Fetch(ctx context.Context) (model.RateTable, error)
}

// HTTPClient implements Client against a public exchange rate API.
type HTTPClient struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors the JSON payload from the rate source.
type response struct {
	Rates map[string]float64 `json:"rates"`
}

// NewHTTPClient creates a rate feed client with default timeout.
func NewHTTPClient(endpoint string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse rates url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("rates url must be absolute")
	}
	return &HTTPClient{
		endpoint: parsed,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Fetch loads the live rate table relative to the base currency. The table
// always covers every supported currency: a code the upstream response lacks
// falls back to multiplier 1 rather than failing the whole call. A payload
// without a rates object is a hard failure and must not be papered over.
func (c *HTTPClient) Fetch(ctx context.Context) (model.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrRateFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("rates request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrRateFetch, resp.Status)
	}

	var data response
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrRateUpstream, err)
	}
	if data.Rates == nil {
		return nil, domainErrors.ErrRateUpstream
	}

	fx := make(model.RateTable, len(model.SupportedCurrencies))
	for _, code := range model.SupportedCurrencies {
		if rate, ok := data.Rates[code]; ok && rate != 0 {
			fx[code] = rate
		} else {
			fx[code] = 1
		}
	}
	return fx, nil
}
