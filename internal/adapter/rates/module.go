package rates

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/paperontime/orderdesk/internal/config"
)

// Module exposes the rate feed client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.RatesURL, p.Logger)
}
