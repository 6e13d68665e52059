package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"artcor/internal/config"
)

// Init builds the process logger and installs it as zap's global.
// With cfg.File set, JSON lines go to a rotating file; development mode
// adds a console core. Without a file, output goes to stderr only.
// PRE: cfg.Level parses as a zap level
// POST: zap.L() returns the new logger
func Init(cfg config.LogConfig, env string) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var cores []zapcore.Core
	if cfg.File != "" {
		cores = append(cores, zapcore.NewCore(jsonEncoder(), fileWriter(cfg), level))
	}
	if env == config.EnvDevelopment {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zapcore.DebugLevel))
	} else if cfg.File == "" {
		cores = append(cores, zapcore.NewCore(jsonEncoder(), zapcore.Lock(os.Stderr), level))
	}

	lg := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	zap.ReplaceGlobals(lg)
	return lg, nil
}

func fileWriter(cfg config.LogConfig) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
	})
}

func jsonEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}
