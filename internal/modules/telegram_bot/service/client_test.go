package service

import (
	"context"
	"errors"
	"testing"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type senderMock struct {
	mock.Mock
}

func (m *senderMock) Send(c tgbot.Chattable) (tgbot.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbot.Message), args.Error(1)
}

func TestSendMessage(t *testing.T) {
	s := &senderMock{}
	s.On("Send", mock.MatchedBy(func(c tgbot.Chattable) bool {
		msg, ok := c.(tgbot.MessageConfig)
		return ok && msg.ChatID == 42 && msg.ParseMode == "Markdown" && msg.Text == "📊 top"
	})).Return(tgbot.Message{MessageID: 1}, nil).Once()

	tg := NewTelegramWithSender(s, 42, "Markdown", zap.NewNop())
	assert.True(t, tg.SendMessage(context.Background(), "📊 top"))
	s.AssertExpectations(t)
}

func TestSendMessageFailureIsNotRetried(t *testing.T) {
	s := &senderMock{}
	s.On("Send", mock.Anything).Return(tgbot.Message{}, errors.New("chat not found")).Once()

	tg := NewTelegramWithSender(s, 42, "", zap.NewNop())
	assert.False(t, tg.SendMessage(context.Background(), "1. KRW-BTC"))
	s.AssertNumberOfCalls(t, "Send", 1)
}
