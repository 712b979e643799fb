package stripe

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/paperontime/orderdesk/internal/config"
)

// Module exposes the checkout session client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.StripeAPIURL, p.Config.StripeSecretKey, p.Logger)
}
