package ladder

import (
	"github.com/denismitr/ladder/internal/logger"
	"github.com/denismitr/ladder/internal/source"
	"github.com/denismitr/ladder/migration"
)

func UseLocalFolderSource(folder string) OptionFunc {
	return func(m *Migrator) error {
		m.newSource = localFolderSource(folder)
		return nil
	}
}

func UseInMemorySource(factories ...migration.Factory) OptionFunc {
	return func(m *Migrator) error {
		m.newSource = func(logger.Logger) source.Selector {
			return source.NewInMemorySource(factories...)
		}

		return nil
	}
}

func localFolderSource(folder string) selectorFactory {
	return func(lg logger.Logger) source.Selector {
		return source.NewLocalFileSource(folder, lg)
	}
}
