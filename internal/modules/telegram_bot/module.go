package telegram

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"upbit_bot/internal/modules/config"
	"upbit_bot/internal/modules/telegram_bot/service"
	"upbit_bot/internal/notify"
)

// NewNotifier — Telegram при наличии токена и chat_id, иначе лог.
func NewNotifier(cfg *config.Config, log *zap.Logger) (notify.Notifier, error) {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		log.Warn("[TG] token or chat_id not set, notifications go to log")
		return notify.NewStdout(log), nil
	}
	t, err := service.NewTelegram(cfg, log)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			NewNotifier, // notify.Notifier
		),
	)
}
