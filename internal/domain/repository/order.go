package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/paperontime/orderdesk/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetByEmailAndNumber(ctx context.Context, email, number string) (*model.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.Order, error)
	// Update writes the full record back, unchanged fields included.
	Update(ctx context.Context, order *model.Order) (*model.Order, error)
	// SetPayment persists the authoritative price ahead of the provider call.
	SetPayment(ctx context.Context, id uuid.UUID, amount float64, currency string) error
	// MarkPaid applies the one-way Pending -> Successful transition. Safe to
	// repeat: an already-set paid_at timestamp is kept.
	MarkPaid(ctx context.Context, number, sessionID string, paidAt time.Time) (*model.Order, error)
	MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error
	SelectUnnotified(ctx context.Context, limit int) ([]model.Order, error)
}
