package di

import (
	"go.uber.org/fx"

	"github.com/paperontime/orderdesk/internal/adapter/crm"
	"github.com/paperontime/orderdesk/internal/adapter/notify"
	"github.com/paperontime/orderdesk/internal/adapter/rates"
	"github.com/paperontime/orderdesk/internal/adapter/stripe"
	"github.com/paperontime/orderdesk/internal/app"
	"github.com/paperontime/orderdesk/internal/config"
	"github.com/paperontime/orderdesk/internal/logger"
	"github.com/paperontime/orderdesk/internal/server/http/handlers"
	"github.com/paperontime/orderdesk/internal/server/http/router"
	"github.com/paperontime/orderdesk/internal/storage/postgres"
	"github.com/paperontime/orderdesk/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		rates.Module,
		stripe.Module,
		crm.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(
			func(client rates.Client) usecase.RateSource { return client },
			func(client stripe.Client) usecase.PaymentGateway { return client },
			func(client crm.Client) usecase.ContactDirectory { return client },
			func(client notify.Client) usecase.Notifier { return client },
			func(client rates.Client) app.RateProvider { return client },
			func(facade *app.OrderDeskFacade) handlers.OrderDeskFacade { return facade },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
