package ladder

import (
	"database/sql"
	"time"

	"github.com/denismitr/ladder/internal/database/sqlgateway"
	"github.com/jmoiron/sqlx"
)

type SqliteOptionFunc func(*sqlgateway.SqliteOptions, *sqlgateway.ConnectOptions)

func UseSqlite(db *sql.DB, options ...SqliteOptionFunc) OptionFunc {
	return func(m *Migrator) error {
		sqliteOpts := &sqlgateway.SqliteOptions{
			CommonOptions: sqlgateway.CommonOptions{
				VersionTable: sqlgateway.DefaultVersionTable,
			},
		}

		connectOpts := sqlgateway.NewDefaultConnectOptions()

		for _, oFunc := range options {
			oFunc(sqliteOpts, connectOpts)
		}

		connector := sqlgateway.MakeRetryingConnector(sqlx.NewDb(db, "sqlite3"), connectOpts)
		gateway := sqlgateway.NewSqliteGateway(connector, sqliteOpts)

		m.gateway = gateway
		m.closerFns = append(m.closerFns, gateway.Close)

		return nil
	}
}

func WithSqliteVersionTable(versionTable string) SqliteOptionFunc {
	return func(sqliteOpts *sqlgateway.SqliteOptions, connectOpts *sqlgateway.ConnectOptions) {
		sqliteOpts.VersionTable = versionTable
	}
}

func WithSqliteMaxConnectionAttempts(attempts int) SqliteOptionFunc {
	return func(sqliteOpts *sqlgateway.SqliteOptions, connectOpts *sqlgateway.ConnectOptions) {
		connectOpts.MaxAttempts = attempts
	}
}

func WithSqliteConnectionTimeout(timeout time.Duration) SqliteOptionFunc {
	return func(sqliteOpts *sqlgateway.SqliteOptions, connectOpts *sqlgateway.ConnectOptions) {
		connectOpts.MaxTimeout = timeout
	}
}

// WithSqliteIsolation sets the isolation level of migration transactions
func WithSqliteIsolation(iso IsolationLevel) SqliteOptionFunc {
	return func(sqliteOpts *sqlgateway.SqliteOptions, connectOpts *sqlgateway.ConnectOptions) {
		sqliteOpts.Isolation = iso
	}
}
