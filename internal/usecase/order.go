package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/paperontime/orderdesk/internal/domain/errors"
	"github.com/paperontime/orderdesk/internal/domain/model"
	"github.com/paperontime/orderdesk/internal/domain/repository"
)

// OrderUseCase encapsulates order lifecycle logic outside the payment flow.
type OrderUseCase struct {
	orders     repository.OrderRepository
	lockWindow time.Duration
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, lockWindow time.Duration) *OrderUseCase {
	return &OrderUseCase{orders: orders, lockWindow: lockWindow}
}

// UpdateFields carries the customer-editable subset of an order. Nil fields
// are left untouched by Update. Pricing and payment attributes are absent on
// purpose: only the payment flow writes those.
type UpdateFields struct {
	EssayTopic       *string
	Instructions     *string
	ReferencingStyle *string
	Sources          *string
	SubjectArea      *string
	Subject          *string
	PaperType        *string
	Email            *string
	Documents        *[]model.Document
}

// Create inserts a new Pending order, generating the human-facing order
// number when the caller did not supply one.
func (u *OrderUseCase) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if order.OrderNumber == "" {
		order.OrderNumber = model.NewOrderNumber()
	} else if !model.ValidOrderNumber(order.OrderNumber) {
		return nil, domainErrors.ErrInvalidOrderNumber
	}
	order.Status = model.OrderStatusPending
	return u.orders.Create(ctx, order)
}

// Find looks up an order by its natural key. A miss returns (nil, nil) so
// callers can distinguish "not found" from transport failure.
func (u *OrderUseCase) Find(ctx context.Context, email, orderNumber string) (*model.Order, error) {
	order, err := u.orders.GetByEmailAndNumber(ctx, email, orderNumber)
	if err != nil {
		if errors.Is(err, domainErrors.ErrOrderNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

// FindBySession looks up an order by the provider checkout session id stored
// during reconciliation. A miss returns (nil, nil).
func (u *OrderUseCase) FindBySession(ctx context.Context, sessionID string) (*model.Order, error) {
	order, err := u.orders.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrOrderNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

// Update re-fetches the order by natural key and merges only the supplied
// fields onto the full current record before persisting it. The production
// lock is enforced by the presentation layer, not here.
func (u *OrderUseCase) Update(ctx context.Context, email, orderNumber string, fields UpdateFields) (*model.Order, error) {
	order, err := u.orders.GetByEmailAndNumber(ctx, email, orderNumber)
	if err != nil {
		return nil, err
	}

	if fields.EssayTopic != nil {
		order.EssayTopic = *fields.EssayTopic
	}
	if fields.Instructions != nil {
		order.Instructions = *fields.Instructions
	}
	if fields.ReferencingStyle != nil {
		order.ReferencingStyle = *fields.ReferencingStyle
	}
	if fields.Sources != nil {
		order.Sources = *fields.Sources
	}
	if fields.SubjectArea != nil {
		order.SubjectArea = *fields.SubjectArea
	}
	if fields.Subject != nil {
		order.Subject = *fields.Subject
	}
	if fields.PaperType != nil {
		order.PaperType = *fields.PaperType
	}
	if fields.Email != nil {
		order.Email = *fields.Email
	}
	if fields.Documents != nil {
		order.Documents = *fields.Documents
	}

	return u.orders.Update(ctx, order)
}

// AwaitingNotification returns recently paid orders whose confirmation
// notification has not gone out yet.
func (u *OrderUseCase) AwaitingNotification(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectUnnotified(ctx, limit)
}

// Locked reports whether the order is production locked at the given time.
func (u *OrderUseCase) Locked(order *model.Order, now time.Time) bool {
	return order.InProduction(now, u.lockWindow)
}
