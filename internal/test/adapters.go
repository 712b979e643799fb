package test

import (
	"context"
	"sync"

	"github.com/paperontime/orderdesk/internal/adapter/crm"
	"github.com/paperontime/orderdesk/internal/adapter/stripe"
	"github.com/paperontime/orderdesk/internal/domain/model"
)

// RateSourceStub serves a fixed rate table or a configured error.
type RateSourceStub struct {
	Rates model.RateTable
	Err   error
	Fn    func(context.Context) (model.RateTable, error)
}

// Fetch returns the configured table. When nothing is configured all
// supported currencies convert at 1.
func (s *RateSourceStub) Fetch(ctx context.Context) (model.RateTable, error) {
	if s.Fn != nil {
		return s.Fn(ctx)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Rates != nil {
		return s.Rates, nil
	}
	table := make(model.RateTable, len(model.SupportedCurrencies))
	for _, code := range model.SupportedCurrencies {
		table[code] = 1
	}
	return table, nil
}

// GatewayCall records one checkout session request.
type GatewayCall struct {
	Params stripe.SessionParams
}

// PaymentGatewayStub simulates the hosted checkout provider.
type PaymentGatewayStub struct {
	URL   string
	Err   error
	Fn    func(context.Context, stripe.SessionParams) (string, error)
	Calls []GatewayCall
	mu    sync.Mutex
}

// CreateCheckoutSession tracks the call and returns the configured URL.
func (s *PaymentGatewayStub) CreateCheckoutSession(ctx context.Context, params stripe.SessionParams) (string, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, GatewayCall{Params: params})
	s.mu.Unlock()
	if s.Fn != nil {
		return s.Fn(ctx, params)
	}
	if s.Err != nil {
		return "", s.Err
	}
	if s.URL != "" {
		return s.URL, nil
	}
	return "https://checkout.test/session", nil
}

// ContactDirectoryStub keeps CRM contacts in-memory for tests.
type ContactDirectoryStub struct {
	FindFn   func(context.Context, string) (*model.Contact, error)
	CreateFn func(context.Context, string) (string, error)
	GetFn    func(context.Context, string) (*model.Contact, error)

	mu       sync.Mutex
	ByEmail  map[string]*model.Contact
	ByID     map[string]*model.Contact
	Next     int
	Created  []string
	GetCalls int
}

// NewContactDirectoryStub constructs a stub with initialized maps.
func NewContactDirectoryStub() *ContactDirectoryStub {
	return &ContactDirectoryStub{
		ByEmail: make(map[string]*model.Contact),
		ByID:    make(map[string]*model.Contact),
		Next:    1,
	}
}

// SeedContact registers a pre-existing, immediately visible contact.
func (s *ContactDirectoryStub) SeedContact(id, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact := &model.Contact{ID: id, Email: email}
	s.ByEmail[email] = contact
	s.ByID[id] = contact
}

// FindByEmail returns the stored contact or the not-found sentinel.
func (s *ContactDirectoryStub) FindByEmail(ctx context.Context, email string) (*model.Contact, error) {
	if s.FindFn != nil {
		return s.FindFn(ctx, email)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if contact, ok := s.ByEmail[email]; ok {
		return contact, nil
	}
	return nil, crm.ErrContactNotFound
}

// Create registers a new contact and returns its identifier.
func (s *ContactDirectoryStub) Create(ctx context.Context, email string) (string, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, email)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := "contact-" + RandomASCIIString(8, 8)
	contact := &model.Contact{ID: id, Email: email}
	s.ByEmail[email] = contact
	s.ByID[id] = contact
	s.Created = append(s.Created, email)
	return id, nil
}

// Get resolves a contact by id, tracking visibility poll attempts.
func (s *ContactDirectoryStub) Get(ctx context.Context, id string) (*model.Contact, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetCalls++
	if contact, ok := s.ByID[id]; ok {
		return contact, nil
	}
	return nil, crm.ErrContactNotFound
}

// NotificationCall records one template dispatch.
type NotificationCall struct {
	TemplateID string
	ContactID  string
	Variables  map[string]string
}

// NotifierStub records outgoing notifications.
type NotifierStub struct {
	Err   error
	Fn    func(context.Context, string, string, map[string]string) error
	mu    sync.Mutex
	Calls []NotificationCall
}

// SendTemplate tracks the dispatch and returns the configured error.
func (s *NotifierStub) SendTemplate(ctx context.Context, templateID, contactID string, variables map[string]string) error {
	s.mu.Lock()
	s.Calls = append(s.Calls, NotificationCall{TemplateID: templateID, ContactID: contactID, Variables: variables})
	s.mu.Unlock()
	if s.Fn != nil {
		return s.Fn(ctx, templateID, contactID, variables)
	}
	return s.Err
}

// SentCount returns the number of recorded dispatches.
func (s *NotifierStub) SentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}
