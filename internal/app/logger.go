package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName имя сервиса в каждой записи лога
const ServiceName = "hall-booking"

// NewLogger создаёт логгер: JSON в production, цветной консольный вывод иначе.
// level переопределяет уровень по умолчанию, неизвестное значение игнорируется.
func NewLogger(env, level string) *zap.Logger {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		if lvl, err := zap.ParseAtomicLevel(level); err == nil {
			config.Level = lvl
		}
	}

	config.OutputPaths = []string{"stdout"}
	config.InitialFields = map[string]any{"service": ServiceName}

	logger, err := config.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	return logger
}
