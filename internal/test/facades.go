package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paperontime/orderdesk/internal/domain/model"
	"github.com/paperontime/orderdesk/internal/usecase"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn    func(context.Context, *model.Order) (*model.Order, error)
	FindFn      func(context.Context, string, string) (*model.Order, error)
	BySessionFn func(context.Context, string) (*model.Order, error)
	UpdateFn    func(context.Context, string, string, usecase.UpdateFields) (*model.Order, error)
	LockedFn    func(*model.Order, time.Time) bool
}

// CreateOrder delegates to override or echoes the order back.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	return order, nil
}

// FindOrder returns the configured lookup result.
func (s OrderFacadeStub) FindOrder(ctx context.Context, email, orderNumber string) (*model.Order, error) {
	if s.FindFn != nil {
		return s.FindFn(ctx, email, orderNumber)
	}
	return &model.Order{Email: email, OrderNumber: orderNumber}, nil
}

// FindOrderBySession returns the configured session lookup result.
func (s OrderFacadeStub) FindOrderBySession(ctx context.Context, sessionID string) (*model.Order, error) {
	if s.BySessionFn != nil {
		return s.BySessionFn(ctx, sessionID)
	}
	sid := sessionID
	return &model.Order{OrderNumber: "ORD-TESTTEST", SessionID: &sid}, nil
}

// UpdateOrder delegates to the override.
func (s OrderFacadeStub) UpdateOrder(ctx context.Context, email, orderNumber string, fields usecase.UpdateFields) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, email, orderNumber, fields)
	}
	return &model.Order{Email: email, OrderNumber: orderNumber}, nil
}

// OrderLocked reports the configured lock state, default unlocked.
func (s OrderFacadeStub) OrderLocked(order *model.Order, now time.Time) bool {
	if s.LockedFn != nil {
		return s.LockedFn(order, now)
	}
	return false
}

// CheckoutFacadeStub simulates pricing and session creation.
type CheckoutFacadeStub struct {
	RatesFn   func(context.Context) (model.RateTable, error)
	QuoteFn   func(context.Context, usecase.CheckoutInput) (float64, error)
	SessionFn func(context.Context, usecase.CheckoutInput) (string, error)
}

// Rates returns the configured table or identity rates.
func (s CheckoutFacadeStub) Rates(ctx context.Context) (model.RateTable, error) {
	if s.RatesFn != nil {
		return s.RatesFn(ctx)
	}
	return model.RateTable{"GBP": 1, "USD": 1.27}, nil
}

// Quote returns the configured amount.
func (s CheckoutFacadeStub) Quote(ctx context.Context, in usecase.CheckoutInput) (float64, error) {
	if s.QuoteFn != nil {
		return s.QuoteFn(ctx, in)
	}
	return 45.5, nil
}

// CreateCheckoutSession returns the configured session URL.
func (s CheckoutFacadeStub) CreateCheckoutSession(ctx context.Context, in usecase.CheckoutInput) (string, error) {
	if s.SessionFn != nil {
		return s.SessionFn(ctx, in)
	}
	return "https://checkout.test/session", nil
}

// PaymentFacadeStub simulates payment reconciliation.
type PaymentFacadeStub struct {
	ConfirmFn func(context.Context, string, string) (*usecase.ReconcileResult, error)
}

// ConfirmPayment delegates to the override or reports a clean success.
func (s PaymentFacadeStub) ConfirmPayment(ctx context.Context, sessionID, orderNumber string) (*usecase.ReconcileResult, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, sessionID, orderNumber)
	}
	sid := sessionID
	order := &model.Order{OrderNumber: orderNumber, SessionID: &sid, Status: model.OrderStatusSuccessful}
	return &usecase.ReconcileResult{Order: order, Notified: true}, nil
}

// OrderDeskFacadeStub aggregates facade dependencies for HTTP layer tests.
type OrderDeskFacadeStub struct {
	OrderFacadeStub
	CheckoutFacadeStub
	PaymentFacadeStub
}

// SweeperFacadeStub mimics sweeper interactions with the application facade.
type SweeperFacadeStub struct {
	Batches  [][]model.Order
	OrdersFn func(context.Context, int) ([]model.Order, error)
	NotifyFn func(context.Context, *model.Order) error

	mu             sync.Mutex
	Notified       []string
	batchCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *SweeperFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweeperFacadeStub) Unlock() { s.mu.Unlock() }

// OrdersAwaitingNotification returns batches from the configured queue.
func (s *SweeperFacadeStub) OrdersAwaitingNotification(ctx context.Context, limit int) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// NotifyPaidOrder records dispatched order numbers.
func (s *SweeperFacadeStub) NotifyPaidOrder(ctx context.Context, order *model.Order) error {
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Notified = append(s.Notified, order.OrderNumber)
	return nil
}
