package main

import (
	"go.uber.org/fx"

	"upbit_bot/internal/modules/config"
	"upbit_bot/internal/modules/observability"
	telegram "upbit_bot/internal/modules/telegram_bot"
	"upbit_bot/internal/modules/upbit_client"
	"upbit_bot/internal/modules/upbit_websocket"
)

// volume — разовый замер объёмов KRW-рынков с отправкой рейтинга в Telegram.
func main() {
	fx.New(
		config.Module(),
		observability.Module(),
		upbit_client.Module(),
		telegram.Module(),
		upbit_websocket.Module(),
	).Run()
}
