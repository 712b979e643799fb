package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/paperontime/orderdesk/internal/config"
	"github.com/paperontime/orderdesk/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newOrderUseCase,
	newCheckoutUseCase,
	newReconcileUseCase,
)

type orderParams struct {
	fx.In

	Orders repository.OrderRepository
	Config *config.Config
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Config.ProductionLockWindow)
}

type checkoutParams struct {
	fx.In

	Orders  repository.OrderRepository
	Rates   RateSource
	Gateway PaymentGateway
	Config  *config.Config
	Logger  *slog.Logger
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(
		p.Orders,
		p.Rates,
		p.Gateway,
		p.Config.CheckoutSuccessURL,
		p.Config.CheckoutCancelURL,
		p.Config.ProductName,
		p.Logger,
	)
}

type reconcileParams struct {
	fx.In

	Orders   repository.OrderRepository
	Contacts ContactDirectory
	Notifier Notifier
	Config   *config.Config
	Logger   *slog.Logger
}

func newReconcileUseCase(p reconcileParams) *ReconcileUseCase {
	return NewReconcileUseCase(
		p.Orders,
		p.Contacts,
		p.Notifier,
		p.Config.NotifyTemplateID,
		p.Config.ContactPollInterval,
		p.Config.ContactPollAttempts,
		p.Logger,
	)
}
