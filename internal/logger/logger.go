package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger 构建全局日志器，format 为 json 时使用生产环境编码
func InitLogger(logLevel string, format string) {
	lgr, err := NewLogger(logLevel, format)
	if err != nil {
		panic(fmt.Errorf("构建日志器失败: %w", err))
	}

	zap.ReplaceGlobals(lgr)
}

func NewLogger(logLevel string, format string) (*zap.Logger, error) {
	var cfg zap.Config

	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(logLevel))

	// 旁白占用标准输出，日志统一写到标准错误
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}

func ParseLevel(logLevel string) zapcore.Level {
	switch logLevel {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
