package ladder

import (
	"github.com/denismitr/ladder/internal/logger"
	"go.uber.org/zap"
)

func UseColorLogger(p logger.Printer, printSql, printDebug bool) OptionFunc {
	return func(m *Migrator) error {
		m.lg = logger.NewColorLogger(p, printSql, printDebug)
		return nil
	}
}

func UseLogger(p logger.Printer, printSql, printDebug bool) OptionFunc {
	return func(m *Migrator) error {
		m.lg = logger.NewBWLogger(p, printSql, printDebug)
		return nil
	}
}

// UseZapLogger writes structured logs, SQL statements go to the debug level
func UseZapLogger(log *zap.Logger, printSql bool) OptionFunc {
	return func(m *Migrator) error {
		m.lg = logger.NewZapLogger(log, printSql)
		return nil
	}
}
