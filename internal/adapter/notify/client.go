package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

// Client dispatches templated notifications to CRM contacts.
type Client interface {
	SendTemplate(ctx context.Context, templateID, contactID string, variables map[string]string) error
}

// HTTPClient implements Client via the notification collaborator's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type sendRequest struct {
	TemplateID string            `json:"templateId"`
	ContactID  string            `json:"contactId"`
	Variables  map[string]string `json:"variables,omitempty"`
}

// NewHTTPClient creates a notification client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse notify url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notify url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// SendTemplate dispatches one templated notification. Fire-and-forget from
// the caller's perspective: the reconciliation flow never retries inline.
func (c *HTTPClient) SendTemplate(ctx context.Context, templateID, contactID string, variables map[string]string) error {
	body, err := json.Marshal(sendRequest{TemplateID: templateID, ContactID: contactID, Variables: variables})
	if err != nil {
		return err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v1/emails/send")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("notification send failed", slog.Int("status", resp.StatusCode), slog.String("body", string(respBody)))
		return fmt.Errorf("notify send: %s", resp.Status)
	}
	return nil
}
