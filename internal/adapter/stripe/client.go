package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/paperontime/orderdesk/internal/domain/errors"
)

const sessionsPath = "/v1/checkout/sessions"

// SessionParams describes a single-line-item hosted checkout session.
type SessionParams struct {
	Amount      float64
	Currency    string
	ProductName string
	Quantity    int
	SuccessURL  string
	CancelURL   string
}

// Client creates hosted checkout sessions with the payment provider.
type Client interface {
	CreateCheckoutSession(ctx context.Context, params SessionParams) (string, error)
}

// HTTPClient implements Client via Stripe's form-encoded REST API.
type HTTPClient struct {
	apiBase    *url.URL
	secretKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

// sessionResponse carries either the hosted redirect URL or a provider error.
type sessionResponse struct {
	URL   string `json:"url"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewHTTPClient creates a checkout session client with default timeout.
func NewHTTPClient(apiBase, secretKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(apiBase)
	if err != nil {
		return nil, fmt.Errorf("parse stripe url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("stripe url must be absolute")
	}
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key must be provided")
	}
	return &HTTPClient{
		apiBase:   parsed,
		secretKey: secretKey,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CreateCheckoutSession submits a payment-mode checkout session and returns
// the provider-hosted redirect URL. The line item amount is sent in minor
// units. Transport failures and provider-reported errors both surface as
// GatewayError carrying the provider's message where one exists.
func (c *HTTPClient) CreateCheckoutSession(ctx context.Context, params SessionParams) (string, error) {
	quantity := params.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("line_items[0][price_data][currency]", strings.ToLower(params.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(MinorUnits(params.Amount), 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][quantity]", strconv.Itoa(quantity))

	endpoint := *c.apiBase
	endpoint.Path = strings.TrimSuffix(endpoint.Path, "/") + sessionsPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("stripe request failed", slog.String("error", err.Error()))
		return "", domainErrors.GatewayError{Message: "payment gateway error"}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domainErrors.GatewayError{Message: "payment gateway error"}
	}

	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		c.logger.Error("stripe response malformed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return "", domainErrors.GatewayError{Message: "payment gateway error"}
	}
	if session.Error != nil {
		c.logger.Error("stripe error", slog.String("message", session.Error.Message))
		if session.Error.Message == "" {
			return "", domainErrors.GatewayError{Message: "unknown provider error"}
		}
		return "", domainErrors.GatewayError{Message: session.Error.Message}
	}
	if session.URL == "" {
		return "", domainErrors.GatewayError{Message: "no checkout URL returned"}
	}
	return session.URL, nil
}

// MinorUnits converts a two-decimal monetary amount to integer cents/pence.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
