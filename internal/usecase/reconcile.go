package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paperontime/orderdesk/internal/adapter/crm"
	"github.com/paperontime/orderdesk/internal/domain/model"
	"github.com/paperontime/orderdesk/internal/domain/repository"
)

// ContactDirectory is the CRM collaborator surface reconciliation needs.
type ContactDirectory interface {
	FindByEmail(ctx context.Context, email string) (*model.Contact, error)
	Create(ctx context.Context, email string) (string, error)
	Get(ctx context.Context, id string) (*model.Contact, error)
}

// Notifier dispatches templated notifications.
type Notifier interface {
	SendTemplate(ctx context.Context, templateID, contactID string, variables map[string]string) error
}

// ReconcileResult reports the outcome of one reconciliation. The core
// status write either succeeded (a result is returned) or failed (an error
// is); failures of the advisory contact/notification sub-steps are carried
// as warnings, never as errors.
type ReconcileResult struct {
	Order     *model.Order
	ContactID string
	Notified  bool
	Warnings  []string
}

// ReconcileUseCase marks orders paid and performs best-effort customer
// contact upsert and notification.
type ReconcileUseCase struct {
	orders       repository.OrderRepository
	contacts     ContactDirectory
	notifier     Notifier
	templateID   string
	pollInterval time.Duration
	pollAttempts int
	now          func() time.Time
	logger       *slog.Logger
}

// NewReconcileUseCase constructs ReconcileUseCase.
func NewReconcileUseCase(orders repository.OrderRepository, contacts ContactDirectory, notifier Notifier, templateID string, pollInterval time.Duration, pollAttempts int, logger *slog.Logger) *ReconcileUseCase {
	if pollAttempts <= 0 {
		pollAttempts = 1
	}
	return &ReconcileUseCase{
		orders:       orders,
		contacts:     contacts,
		notifier:     notifier,
		templateID:   templateID,
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
		now:          time.Now,
		logger:       logger,
	}
}

// Reconcile is invoked when the payment provider redirects back indicating
// success. The Pending -> Successful transition is the only fatal step;
// CRM and notification availability must never affect whether an order is
// recorded as paid. Safe to call repeatedly for the same order: the paid
// timestamp is kept and the notification is sent at most once.
func (u *ReconcileUseCase) Reconcile(ctx context.Context, sessionID, orderNumber string) (*ReconcileResult, error) {
	order, err := u.orders.MarkPaid(ctx, orderNumber, sessionID, u.now().UTC())
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{Order: order}

	contactID, err := u.upsertContact(ctx, order.Email)
	if err != nil {
		u.logger.Error("contact upsert failed", slog.String("order", order.OrderNumber), slog.String("error", err.Error()))
		result.Warnings = append(result.Warnings, fmt.Sprintf("contact upsert: %s", err))
		return result, nil
	}
	result.ContactID = contactID

	if order.NotifiedAt != nil {
		result.Notified = true
		return result, nil
	}

	if err := u.sendNotification(ctx, contactID, order); err != nil {
		u.logger.Error("notification failed", slog.String("order", order.OrderNumber), slog.String("error", err.Error()))
		result.Warnings = append(result.Warnings, fmt.Sprintf("notification: %s", err))
		return result, nil
	}
	result.Notified = true

	if err := u.orders.MarkNotified(ctx, order.ID, u.now().UTC()); err != nil {
		u.logger.Error("mark notified failed", slog.String("order", order.OrderNumber), slog.String("error", err.Error()))
		result.Warnings = append(result.Warnings, fmt.Sprintf("mark notified: %s", err))
	}
	return result, nil
}

// NotifyPaidOrder re-runs the advisory sub-steps for an already-paid order.
// Used by the notification sweeper to pick up orders whose inline
// notification failed during reconciliation.
func (u *ReconcileUseCase) NotifyPaidOrder(ctx context.Context, order *model.Order) error {
	if order.NotifiedAt != nil {
		return nil
	}
	contactID, err := u.upsertContact(ctx, order.Email)
	if err != nil {
		return fmt.Errorf("contact upsert: %w", err)
	}
	if err := u.sendNotification(ctx, contactID, order); err != nil {
		return fmt.Errorf("notification: %w", err)
	}
	return u.orders.MarkNotified(ctx, order.ID, u.now().UTC())
}

func (u *ReconcileUseCase) upsertContact(ctx context.Context, email string) (string, error) {
	contact, err := u.contacts.FindByEmail(ctx, email)
	if err == nil {
		return contact.ID, nil
	}
	if !errors.Is(err, crm.ErrContactNotFound) {
		return "", err
	}
	return u.contacts.Create(ctx, email)
}

// sendNotification waits for the contact record to become visible before
// dispatching, bounded by pollAttempts. Freshly created contacts are not
// always readable immediately.
func (u *ReconcileUseCase) sendNotification(ctx context.Context, contactID string, order *model.Order) error {
	var lastErr error
	for attempt := 0; attempt < u.pollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(u.pollInterval):
			}
		}
		if _, lastErr = u.contacts.Get(ctx, contactID); lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return fmt.Errorf("contact not visible: %w", lastErr)
	}

	return u.notifier.SendTemplate(ctx, u.templateID, contactID, map[string]string{
		"orderNumber": order.OrderNumber,
	})
}
