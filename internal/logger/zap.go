package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// ZapLogger adapts a structured zap logger, SQL is logged at debug level
type ZapLogger struct {
	log *zap.Logger
	sql bool
}

var _ Logger = (*ZapLogger)(nil)

func NewZapLogger(log *zap.Logger, sql bool) *ZapLogger {
	return &ZapLogger{log: log.WithOptions(zap.AddCallerSkip(1)), sql: sql}
}

func (zl *ZapLogger) Infof(format string, args ...interface{}) {
	zl.log.Info(fmt.Sprintf(format, args...))
}

func (zl *ZapLogger) Successf(format string, args ...interface{}) {
	zl.log.Info(fmt.Sprintf(format, args...), zap.Bool("success", true))
}

func (zl *ZapLogger) Debugf(format string, args ...interface{}) {
	zl.log.Debug(fmt.Sprintf(format, args...))
}

func (zl *ZapLogger) Error(err error) {
	zl.log.Error("migration error", zap.Error(err))
}

func (zl *ZapLogger) SQL(query string, args ...interface{}) {
	if zl.sql {
		zl.log.Debug("running sql", zap.String("query", query), zap.Any("args", args))
	}
}
