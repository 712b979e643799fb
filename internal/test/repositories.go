package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/paperontime/orderdesk/internal/domain/errors"
	"github.com/paperontime/orderdesk/internal/domain/model"
)

// OrderRepositoryStub stores orders in-memory for tests. Function fields
// override individual operations; the default behaviour is a consistent
// map-backed store.
type OrderRepositoryStub struct {
	CreateFn           func(context.Context, *model.Order) (*model.Order, error)
	GetByIDFn          func(context.Context, uuid.UUID) (*model.Order, error)
	GetByEmailNumberFn func(context.Context, string, string) (*model.Order, error)
	GetBySessionIDFn   func(context.Context, string) (*model.Order, error)
	UpdateFn           func(context.Context, *model.Order) (*model.Order, error)
	SetPaymentFn       func(context.Context, uuid.UUID, float64, string) error
	MarkPaidFn         func(context.Context, string, string, time.Time) (*model.Order, error)
	MarkNotifiedFn     func(context.Context, uuid.UUID, time.Time) error
	SelectUnnotifiedFn func(context.Context, int) ([]model.Order, error)

	mu     sync.Mutex
	Orders map[uuid.UUID]*model.Order

	SetPaymentCalls   []SetPaymentCall
	MarkPaidCalls     []MarkPaidCall
	MarkNotifiedCalls []uuid.UUID
	UpdateCalls       []model.Order
}

// SetPaymentCall records one SetPayment invocation.
type SetPaymentCall struct {
	ID       uuid.UUID
	Amount   float64
	Currency string
}

// MarkPaidCall records one MarkPaid invocation.
type MarkPaidCall struct {
	Number    string
	SessionID string
	PaidAt    time.Time
}

// NewOrderRepositoryStub constructs a stub with an initialized store.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[uuid.UUID]*model.Order)}
}

// Seed places an order into the store and returns it.
func (s *OrderRepositoryStub) Seed(order *model.Order) *model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.Orders[order.ID] = order
	return order
}

// Create inserts an order unless the number already exists.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.OrderNumber == order.OrderNumber {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	stored := *order
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.Orders[stored.ID] = &stored
	return &stored, nil
}

// GetByID fetches a stored order or returns not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.Orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, domainErrors.ErrOrderNotFound
}

// GetByEmailAndNumber fetches an order by its natural key.
func (s *OrderRepositoryStub) GetByEmailAndNumber(ctx context.Context, email, number string) (*model.Order, error) {
	if s.GetByEmailNumberFn != nil {
		return s.GetByEmailNumberFn(ctx, email, number)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.Email == email && o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domainErrors.ErrOrderNotFound
}

// GetBySessionID fetches an order by checkout session identifier.
func (s *OrderRepositoryStub) GetBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	if s.GetBySessionIDFn != nil {
		return s.GetBySessionIDFn(ctx, sessionID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.SessionID != nil && *o.SessionID == sessionID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domainErrors.ErrOrderNotFound
}

// Update overwrites the stored record and tracks the call.
func (s *OrderRepositoryStub) Update(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls = append(s.UpdateCalls, *order)
	if _, ok := s.Orders[order.ID]; !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	stored := *order
	stored.UpdatedAt = time.Now()
	s.Orders[order.ID] = &stored
	cp := stored
	return &cp, nil
}

// SetPayment records the authoritative price write.
func (s *OrderRepositoryStub) SetPayment(ctx context.Context, id uuid.UUID, amount float64, currency string) error {
	if s.SetPaymentFn != nil {
		return s.SetPaymentFn(ctx, id, amount, currency)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetPaymentCalls = append(s.SetPaymentCalls, SetPaymentCall{ID: id, Amount: amount, Currency: currency})
	o, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrOrderNotFound
	}
	o.PaymentAmount = amount
	o.Currency = currency
	return nil
}

// MarkPaid applies the Pending -> Successful transition keeping an
// existing paid timestamp, mirroring the production store.
func (s *OrderRepositoryStub) MarkPaid(ctx context.Context, number, sessionID string, paidAt time.Time) (*model.Order, error) {
	if s.MarkPaidFn != nil {
		return s.MarkPaidFn(ctx, number, sessionID, paidAt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MarkPaidCalls = append(s.MarkPaidCalls, MarkPaidCall{Number: number, SessionID: sessionID, PaidAt: paidAt})
	for _, o := range s.Orders {
		if o.OrderNumber == number {
			o.Status = model.OrderStatusSuccessful
			sid := sessionID
			o.SessionID = &sid
			if o.PaidAt == nil {
				at := paidAt
				o.PaidAt = &at
			}
			cp := *o
			return &cp, nil
		}
	}
	return nil, domainErrors.ErrOrderNotFound
}

// MarkNotified stamps the notification time once.
func (s *OrderRepositoryStub) MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.MarkNotifiedFn != nil {
		return s.MarkNotifiedFn(ctx, id, at)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MarkNotifiedCalls = append(s.MarkNotifiedCalls, id)
	o, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrOrderNotFound
	}
	if o.NotifiedAt == nil {
		stamp := at
		o.NotifiedAt = &stamp
	}
	return nil
}

// SelectUnnotified returns paid orders with no notification stamp,
// claiming each returned order the way the production store does so
// overlapping sweeps do not double-dispatch.
func (s *OrderRepositoryStub) SelectUnnotified(ctx context.Context, limit int) ([]model.Order, error) {
	if s.SelectUnnotifiedFn != nil {
		return s.SelectUnnotifiedFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var out []model.Order
	for _, o := range s.Orders {
		if o.Status != model.OrderStatusSuccessful || o.NotifiedAt != nil {
			continue
		}
		if o.DispatchedAt != nil && now.Sub(*o.DispatchedAt) < 10*time.Minute {
			continue
		}
		stamp := now
		o.DispatchedAt = &stamp
		out = append(out, *o)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
