package cli

import (
	"context"

	"github.com/denismitr/ladder"
	"github.com/denismitr/ladder/internal/logger"
	"github.com/denismitr/ladder/internal/source"
	"github.com/denismitr/ladder/migration"
	"github.com/pkg/errors"
)

var (
	ErrFolderInvalid        = errors.New("migrations folder is invalid")
	ErrSourceTypeIsNotValid = errors.New("source type is not valid")
)

type App struct {
	source   source.Source
	migrator *ladder.Migrator
}

func New(cfg Config, opts ...ladder.OptionFunc) (*App, error) {
	m, err := createMigrator(cfg, opts...)
	if err != nil {
		return nil, err
	}

	s := m.Source()
	if s == nil {
		_ = m.Close()
		return nil, ErrSourceTypeIsNotValid
	}

	return &App{
		source:   s,
		migrator: m,
	}, nil
}

// CreateMigration scaffolds the next migration, no database connection is needed
func CreateMigration(ctx context.Context, cfg Config, name string, withDowngrade bool) (*migration.Unit, error) {
	s := source.NewLocalFileSource(cfg.MigrationsFolder, logger.NullLogger{})
	if !s.IsValid() {
		return nil, errors.Wrapf(ErrFolderInvalid, "%s", cfg.MigrationsFolder)
	}

	return s.Create(ctx, name, withDowngrade)
}

func (app *App) Migrate(ctx context.Context, spec string) (*ladder.Result, error) {
	if !app.source.IsValid() {
		return nil, ErrFolderInvalid
	}

	return app.migrator.Migrate(ctx, spec)
}

func (app *App) Status(ctx context.Context) (*ladder.State, error) {
	return app.migrator.Status(ctx)
}

func (app *App) Close() error {
	return app.migrator.Close()
}
