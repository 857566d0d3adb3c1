package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	ServiceName string
	Level       string
	Development bool
	OutputPaths []string
}

// New собирает *zap.Logger с полем service. Глобальных логгеров нет —
// результат прокидывается в компоненты явно.
func New(conf Config) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if conf.Level != "" {
		if err := lvl.UnmarshalText([]byte(conf.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", conf.Level, err)
		}
	}

	zc := zap.NewProductionConfig()
	if conf.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if len(conf.OutputPaths) > 0 {
		zc.OutputPaths = conf.OutputPaths
	}

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	name := conf.ServiceName
	if name == "" {
		name = "default"
	}
	return l.With(zap.String("service", name)), nil
}
