package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/paperontime/orderdesk/internal/adapter/stripe"
	domainErrors "github.com/paperontime/orderdesk/internal/domain/errors"
	"github.com/paperontime/orderdesk/internal/domain/model"
	"github.com/paperontime/orderdesk/internal/domain/repository"
	"github.com/paperontime/orderdesk/internal/pricing"
)

// RateSource provides the live currency conversion table.
type RateSource interface {
	Fetch(ctx context.Context) (model.RateTable, error)
}

// PaymentGateway creates hosted checkout sessions.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params stripe.SessionParams) (string, error)
}

// CheckoutInput carries everything needed to price an order and open a
// checkout session. Prices are never trusted from the client; the numeric
// fields arrive as the raw form strings and are re-validated here.
type CheckoutInput struct {
	OrderID          string
	OrderNumber      string
	Service          string
	AcademicLevel    string
	Deadline         string
	WordCount        string
	DiscountFraction string
	PaperType        string
	Currency         string
}

// CheckoutUseCase prices an order server-side and opens a payment session.
type CheckoutUseCase struct {
	orders     repository.OrderRepository
	rates      RateSource
	gateway    PaymentGateway
	successURL string
	cancelURL  string
	product    string
	logger     *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(orders repository.OrderRepository, rates RateSource, gateway PaymentGateway, successURL, cancelURL, product string, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		orders:     orders,
		rates:      rates,
		gateway:    gateway,
		successURL: successURL,
		cancelURL:  cancelURL,
		product:    product,
		logger:     logger,
	}
}

// Quote recomputes the price for display: fetch live rates, price in the
// base currency, convert. Same path the authoritative charge uses.
func (u *CheckoutUseCase) Quote(ctx context.Context, in CheckoutInput) (float64, error) {
	rates, err := u.rates.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch rates: %w", err)
	}
	if !rates.Supports(in.Currency) {
		return 0, domainErrors.ErrUnsupportedCurrency
	}

	base, err := pricing.Price(quoteInput(in))
	if err != nil {
		return 0, err
	}
	return pricing.Convert(base, rates, in.Currency)
}

// CreateSession runs the full checkout sequence: validate, fetch rates,
// price, persist the authoritative amount onto the order, then open the
// provider session. The price write happens before the provider call so a
// record of the intended charge exists even if the gateway fails.
func (u *CheckoutUseCase) CreateSession(ctx context.Context, in CheckoutInput) (string, error) {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"orderRecordId", in.OrderID},
		{"service", in.Service},
		{"academicLevel", in.AcademicLevel},
		{"deadline", in.Deadline},
		{"wordCount", in.WordCount},
		{"paperType", in.PaperType},
		{"currency", in.Currency},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return "", domainErrors.ValidationError{Missing: missing}
	}

	rates, err := u.rates.Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch rates: %w", err)
	}
	if !rates.Supports(in.Currency) {
		return "", domainErrors.ErrUnsupportedCurrency
	}

	base, err := pricing.Price(quoteInput(in))
	if err != nil {
		u.logger.Error("price calculation failed", slog.String("order", in.OrderNumber), slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %w", domainErrors.ErrPricing, err)
	}

	amount, err := pricing.Convert(base, rates, in.Currency)
	if err != nil {
		return "", err
	}

	id, err := uuid.Parse(in.OrderID)
	if err != nil {
		return "", domainErrors.ErrOrderNotFound
	}
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if err := u.orders.SetPayment(ctx, order.ID, amount, in.Currency); err != nil {
		u.logger.Error("order price write failed", slog.String("order", order.OrderNumber), slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %s", domainErrors.ErrPersistence, err)
	}

	sessionURL, err := u.gateway.CreateCheckoutSession(ctx, stripe.SessionParams{
		Amount:      amount,
		Currency:    in.Currency,
		ProductName: u.product,
		Quantity:    1,
		SuccessURL:  fmt.Sprintf("%s?session_id={CHECKOUT_SESSION_ID}&orderNumber=%s", u.successURL, in.OrderNumber),
		CancelURL:   u.cancelURL,
	})
	if err != nil {
		return "", err
	}
	return sessionURL, nil
}

func quoteInput(in CheckoutInput) pricing.QuoteInput {
	return pricing.QuoteInput{
		Service:          in.Service,
		AcademicLevel:    in.AcademicLevel,
		Deadline:         in.Deadline,
		WordCount:        in.WordCount,
		PaperType:        in.PaperType,
		DiscountFraction: in.DiscountFraction,
	}
}
