package badgerkv

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// zapLogger adapts zap to badger's Logger interface.
type zapLogger struct {
	logger *zap.Logger
}

func newZapLogger(logger *zap.Logger) *zapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapLogger{logger: logger.With(zap.String("component", "badger"))}
}

func (z *zapLogger) Errorf(msg string, args ...any) {
	z.logger.Error(format(msg, args))
}

func (z *zapLogger) Warningf(msg string, args ...any) {
	z.logger.Warn(format(msg, args))
}

func (z *zapLogger) Infof(msg string, args ...any) {
	z.logger.Info(format(msg, args))
}

func (z *zapLogger) Debugf(msg string, args ...any) {
	z.logger.Debug(format(msg, args))
}

// badger terminates its messages with a newline.
func format(msg string, args []any) string {
	return strings.TrimRight(fmt.Sprintf(msg, args...), "\n")
}
