package upbit_client

import (
	"go.uber.org/fx"

	"upbit_bot/internal/modules/upbit_client/service"
)

// Module — REST-клиент Upbit. Один *service.Client обслуживает и рыночные
// данные, и ордера; адаптеры к интерфейсам потребителей — в их модулях.
func Module() fx.Option {
	return fx.Module("upbit_client",
		fx.Provide(
			service.NewClient,
		),
	)
}
