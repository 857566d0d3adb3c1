package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier — доставка текстовых сообщений оператору.
// false — сообщение не доставлено; повторов нет, вызывающий только логирует.
type Notifier interface {
	SendMessage(ctx context.Context, text string) bool
}

// Stdout — заглушка без Telegram: пишет сообщение в лог.
type Stdout struct {
	log *zap.Logger
}

func NewStdout(log *zap.Logger) *Stdout { return &Stdout{log: log.Named("notify")} }

func (s *Stdout) SendMessage(_ context.Context, text string) bool {
	s.log.Info("[NOTIFY] " + text)
	return true
}

// Recorder копит сообщения в памяти. Для тестов.
type Recorder struct {
	Messages []string
	Fail     bool
}

func (r *Recorder) SendMessage(_ context.Context, text string) bool {
	if r.Fail {
		return false
	}
	r.Messages = append(r.Messages, text)
	return true
}
