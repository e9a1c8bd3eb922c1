package sqlgateway

import (
	"context"
	"database/sql"

	"github.com/denismitr/ladder/internal/logger"
	"github.com/denismitr/ladder/migration"
	"github.com/pkg/errors"
)

// VersionStore persists the current revision in a single row table.
// It issues single statements inside the session it is given and never commits.
type VersionStore struct {
	schema schema
	lg     logger.Logger
}

func newVersionStore(s schema, lg logger.Logger) *VersionStore {
	if lg == nil {
		lg = logger.NullLogger{}
	}

	return &VersionStore{schema: s, lg: lg}
}

// Read creates the version table when missing and returns the stored revision,
// a missing row is initialized with 0.
func (vs *VersionStore) Read(ctx context.Context, s migration.Session) (int, error) {
	initQuery := vs.schema.initQuery()
	vs.lg.SQL(initQuery)
	if _, err := s.ExecContext(ctx, initQuery); err != nil {
		return 0, errors.Wrap(err, "could not create version table")
	}

	readQuery := vs.schema.readQuery()
	vs.lg.SQL(readQuery)

	var version int
	err := s.QueryRowxContext(ctx, readQuery).Scan(&version)
	if err == nil {
		return version, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return 0, errors.Wrap(err, "could not read current version")
	}

	insertQuery := vs.schema.insertDefaultQuery()
	vs.lg.SQL(insertQuery)
	if _, err := s.ExecContext(ctx, insertQuery); err != nil {
		return 0, errors.Wrap(err, "could not initialize current version")
	}

	return 0, nil
}

// Write overwrites the stored revision with the absolute value given
func (vs *VersionStore) Write(ctx context.Context, s migration.Session, version int) error {
	q, args := vs.schema.updateQuery(version)
	vs.lg.SQL(q, args...)

	if _, err := s.ExecContext(ctx, q, args...); err != nil {
		return errors.Wrapf(err, "could not write version %d", version)
	}

	return nil
}

func (vs *VersionStore) Drop(ctx context.Context, s migration.Session) error {
	q := vs.schema.dropQuery()
	vs.lg.SQL(q)

	if _, err := s.ExecContext(ctx, q); err != nil {
		return errors.Wrap(err, "could not drop version table")
	}

	return nil
}

func (vs *VersionStore) setLogger(lg logger.Logger) {
	vs.lg = lg
}
