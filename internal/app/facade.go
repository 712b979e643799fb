package app

import (
	"context"
	"time"

	"github.com/paperontime/orderdesk/internal/domain/model"
	"github.com/paperontime/orderdesk/internal/usecase"
)

// RateProvider is the live exchange rate surface the facade exposes for
// client-side display.
type RateProvider interface {
	Fetch(ctx context.Context) (model.RateTable, error)
}

// OrderDeskFacade aggregates the application's use cases behind one surface
// consumed by HTTP handlers and the notification sweeper.
type OrderDeskFacade struct {
	orders    *usecase.OrderUseCase
	checkout  *usecase.CheckoutUseCase
	reconcile *usecase.ReconcileUseCase
	rates     RateProvider
}

// NewOrderDeskFacade constructs OrderDeskFacade.
func NewOrderDeskFacade(orders *usecase.OrderUseCase, checkout *usecase.CheckoutUseCase, reconcile *usecase.ReconcileUseCase, rates RateProvider) *OrderDeskFacade {
	return &OrderDeskFacade{orders: orders, checkout: checkout, reconcile: reconcile, rates: rates}
}

func (f *OrderDeskFacade) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	return f.orders.Create(ctx, order)
}

func (f *OrderDeskFacade) FindOrder(ctx context.Context, email, orderNumber string) (*model.Order, error) {
	return f.orders.Find(ctx, email, orderNumber)
}

func (f *OrderDeskFacade) FindOrderBySession(ctx context.Context, sessionID string) (*model.Order, error) {
	return f.orders.FindBySession(ctx, sessionID)
}

func (f *OrderDeskFacade) UpdateOrder(ctx context.Context, email, orderNumber string, fields usecase.UpdateFields) (*model.Order, error) {
	return f.orders.Update(ctx, email, orderNumber, fields)
}

func (f *OrderDeskFacade) OrderLocked(order *model.Order, now time.Time) bool {
	return f.orders.Locked(order, now)
}

func (f *OrderDeskFacade) Rates(ctx context.Context) (model.RateTable, error) {
	return f.rates.Fetch(ctx)
}

func (f *OrderDeskFacade) Quote(ctx context.Context, in usecase.CheckoutInput) (float64, error) {
	return f.checkout.Quote(ctx, in)
}

func (f *OrderDeskFacade) CreateCheckoutSession(ctx context.Context, in usecase.CheckoutInput) (string, error) {
	return f.checkout.CreateSession(ctx, in)
}

func (f *OrderDeskFacade) ConfirmPayment(ctx context.Context, sessionID, orderNumber string) (*usecase.ReconcileResult, error) {
	return f.reconcile.Reconcile(ctx, sessionID, orderNumber)
}

func (f *OrderDeskFacade) OrdersAwaitingNotification(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.AwaitingNotification(ctx, limit)
}

func (f *OrderDeskFacade) NotifyPaidOrder(ctx context.Context, order *model.Order) error {
	return f.reconcile.NotifyPaidOrder(ctx, order)
}
