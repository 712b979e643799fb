package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/paperontime/orderdesk/internal/domain/model"
)

// ErrContactNotFound indicates the directory has no contact for the query.
var ErrContactNotFound = errors.New("contact not found")

// Client exposes operations against the contacts collaborator.
type Client interface {
	FindByEmail(ctx context.Context, email string) (*model.Contact, error)
	Create(ctx context.Context, email string) (string, error)
	Get(ctx context.Context, id string) (*model.Contact, error)
}

// HTTPClient implements Client via the CRM's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type contactPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type queryResponse struct {
	Contacts []contactPayload `json:"contacts"`
}

type createRequest struct {
	Emails []string `json:"emails"`
}

type createResponse struct {
	ID string `json:"id"`
}

// NewHTTPClient creates a CRM client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse crm url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("crm url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// FindByEmail queries the directory by primary email.
func (c *HTTPClient) FindByEmail(ctx context.Context, email string) (*model.Contact, error) {
	endpoint := c.endpoint("/v1/contacts")
	endpoint.RawQuery = url.Values{"email": {email}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpected("query contacts", resp)
	}

	var data queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if len(data.Contacts) == 0 {
		return nil, ErrContactNotFound
	}
	first := data.Contacts[0]
	return &model.Contact{ID: first.ID, Email: first.Email}, nil
}

// Create registers a new contact and returns its id.
func (c *HTTPClient) Create(ctx context.Context, email string) (string, error) {
	body, err := json.Marshal(createRequest{Emails: []string{email}})
	if err != nil {
		return "", err
	}

	endpoint := c.endpoint("/v1/contacts")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", c.unexpected("create contact", resp)
	}

	var data createResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", err
	}
	if data.ID == "" {
		return "", fmt.Errorf("crm returned empty contact id")
	}
	return data.ID, nil
}

// Get loads a contact by id. Returns ErrContactNotFound while the record is
// not yet visible, which callers use to poll after Create.
func (c *HTTPClient) Get(ctx context.Context, id string) (*model.Contact, error) {
	endpoint := c.endpoint(path.Join("/v1/contacts", id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var data contactPayload
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, err
		}
		return &model.Contact{ID: data.ID, Email: data.Email}, nil
	case http.StatusNotFound:
		return nil, ErrContactNotFound
	default:
		return nil, c.unexpected("get contact", resp)
	}
}

func (c *HTTPClient) endpoint(p string) url.URL {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, p)
	return endpoint
}

func (c *HTTPClient) unexpected(op string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	c.logger.Error("crm request failed", slog.String("op", op), slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
	return fmt.Errorf("crm %s: %s", op, resp.Status)
}
