package sqlgateway

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var ErrNoDatabase = errors.New("database handle is not set")

func ping(ctx context.Context, db *sqlx.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(err, "db ping failed")
	}

	var result int
	if err := db.QueryRowxContext(ctx, "select 1").Scan(&result); err != nil {
		return errors.Wrap(err, "could not ping DB")
	}

	return nil
}
