package handlers

import (
	"context"
	"time"

	"github.com/paperontime/orderdesk/internal/domain/model"
	"github.com/paperontime/orderdesk/internal/usecase"
)

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error)
	FindOrder(ctx context.Context, email, orderNumber string) (*model.Order, error)
	FindOrderBySession(ctx context.Context, sessionID string) (*model.Order, error)
	UpdateOrder(ctx context.Context, email, orderNumber string, fields usecase.UpdateFields) (*model.Order, error)
	OrderLocked(order *model.Order, now time.Time) bool
}

// CheckoutFacade provides pricing and payment session operations.
type CheckoutFacade interface {
	Rates(ctx context.Context) (model.RateTable, error)
	Quote(ctx context.Context, in usecase.CheckoutInput) (float64, error)
	CreateCheckoutSession(ctx context.Context, in usecase.CheckoutInput) (string, error)
}

// PaymentFacade provides payment reconciliation.
type PaymentFacade interface {
	ConfirmPayment(ctx context.Context, sessionID, orderNumber string) (*usecase.ReconcileResult, error)
}

// OrderDeskFacade aggregates the full set of operations used across handlers.
type OrderDeskFacade interface {
	OrderFacade
	CheckoutFacade
	PaymentFacade
}
