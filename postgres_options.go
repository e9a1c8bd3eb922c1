package ladder

import (
	"database/sql"
	"time"

	"github.com/denismitr/ladder/internal/database/sqlgateway"
	"github.com/jmoiron/sqlx"
)

type PostgresOptionFunc func(*sqlgateway.PostgresOptions, *sqlgateway.ConnectOptions)

// UsePostgres expects a handle opened with the pgx stdlib driver
func UsePostgres(db *sql.DB, options ...PostgresOptionFunc) OptionFunc {
	return func(m *Migrator) error {
		pgOpts := &sqlgateway.PostgresOptions{
			CommonOptions: sqlgateway.CommonOptions{
				VersionTable: sqlgateway.DefaultVersionTable,
			},
		}

		connectOpts := sqlgateway.NewDefaultConnectOptions()

		for _, oFunc := range options {
			oFunc(pgOpts, connectOpts)
		}

		connector := sqlgateway.MakeRetryingConnector(sqlx.NewDb(db, "pgx"), connectOpts)
		gateway := sqlgateway.NewPostgresGateway(connector, pgOpts)

		m.closerFns = append(m.closerFns, gateway.Close)
		m.gateway = gateway

		return nil
	}
}

func WithPostgresVersionTable(versionTable string) PostgresOptionFunc {
	return func(pgOpts *sqlgateway.PostgresOptions, connectOpts *sqlgateway.ConnectOptions) {
		pgOpts.VersionTable = versionTable
	}
}

func WithPostgresConnectionTimeout(timeout time.Duration) PostgresOptionFunc {
	return func(pgOpts *sqlgateway.PostgresOptions, connectOpts *sqlgateway.ConnectOptions) {
		connectOpts.MaxTimeout = timeout
	}
}

func WithPostgresMaxConnectionAttempts(attempts int) PostgresOptionFunc {
	return func(pgOpts *sqlgateway.PostgresOptions, connectOpts *sqlgateway.ConnectOptions) {
		connectOpts.MaxAttempts = attempts
	}
}

func WithPostgresIsolation(iso IsolationLevel) PostgresOptionFunc {
	return func(pgOpts *sqlgateway.PostgresOptions, connectOpts *sqlgateway.ConnectOptions) {
		pgOpts.Isolation = iso
	}
}
