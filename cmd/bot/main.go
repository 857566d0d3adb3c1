package main

import (
	"log"

	"go.uber.org/fx"

	"upbit_bot/internal/modules/config"
	"upbit_bot/internal/modules/health"
	"upbit_bot/internal/modules/observability"
	"upbit_bot/internal/modules/postgres"
	"upbit_bot/internal/modules/strategy"
	telegram "upbit_bot/internal/modules/telegram_bot"
	"upbit_bot/internal/modules/upbit_client"
	"upbit_bot/internal/runner"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	opts := []fx.Option{
		fx.Supply(cfg),
		observability.Module(),
		upbit_client.Module(),
		telegram.Module(),
		strategy.Module(),
		runner.Module(),
		health.Module(),
	}
	// без db_dsn журнал ордеров не ведём, счётчик martingale в памяти
	if cfg.DB != "" {
		opts = append(opts, postgres.Module())
	}

	fx.New(opts...).Run()
}
