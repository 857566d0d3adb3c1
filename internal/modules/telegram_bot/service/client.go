package service

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"upbit_bot/internal/modules/config"
)

// Sender — часть tgbot.BotAPI, которой пользуемся.
type Sender interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
}

// Telegram — нотификации в один чат. Без long-polling и команд.
type Telegram struct {
	bot       Sender
	chatID    int64
	parseMode string
	log       *zap.Logger
}

func NewTelegram(cfg *config.Config, log *zap.Logger) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return NewTelegramWithSender(b, cfg.Telegram.ChatID, cfg.Telegram.ParseMode, log), nil
}

func NewTelegramWithSender(bot Sender, chatID int64, parseMode string, log *zap.Logger) *Telegram {
	return &Telegram{
		bot:       bot,
		chatID:    chatID,
		parseMode: parseMode,
		log:       log.Named("telegram"),
	}
}

// SendMessage — одна попытка; ошибка только логируется.
func (t *Telegram) SendMessage(_ context.Context, text string) bool {
	msg := tgbot.NewMessage(t.chatID, text)
	msg.ParseMode = t.parseMode

	if _, err := t.bot.Send(msg); err != nil {
		t.log.Warn("[TG] send failed", zap.Int64("chat_id", t.chatID), zap.Error(err))
		return false
	}
	t.log.Debug("[TG] sent", zap.Int64("chat_id", t.chatID), zap.Int("len", len(text)))
	return true
}
