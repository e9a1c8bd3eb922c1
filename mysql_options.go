package ladder

import (
	"database/sql"
	"time"

	"github.com/denismitr/ladder/internal/database/sqlgateway"
	"github.com/jmoiron/sqlx"
)

type MySQLOptionFunc func(*sqlgateway.MySQLOptions, *sqlgateway.ConnectOptions)

// UseMySQL - MySQL commits DDL implicitly, so a failing migration
// may leave some of its statements applied.
func UseMySQL(db *sql.DB, options ...MySQLOptionFunc) OptionFunc {
	return func(m *Migrator) error {
		mysqlOpts := &sqlgateway.MySQLOptions{
			Charset: sqlgateway.DefaultMySQLCharset,
			CommonOptions: sqlgateway.CommonOptions{
				VersionTable: sqlgateway.DefaultVersionTable,
			},
		}

		connectOpts := sqlgateway.NewDefaultConnectOptions()

		for _, oFunc := range options {
			oFunc(mysqlOpts, connectOpts)
		}

		connector := sqlgateway.MakeRetryingConnector(sqlx.NewDb(db, "mysql"), connectOpts)
		gateway := sqlgateway.NewMySQLGateway(connector, mysqlOpts)

		m.closerFns = append(m.closerFns, gateway.Close)
		m.gateway = gateway

		return nil
	}
}

func WithMySQLVersionTable(versionTable string) MySQLOptionFunc {
	return func(mysqlOpts *sqlgateway.MySQLOptions, connectOpts *sqlgateway.ConnectOptions) {
		mysqlOpts.VersionTable = versionTable
	}
}

func WithMySQLCharset(charset string) MySQLOptionFunc {
	return func(mysqlOpts *sqlgateway.MySQLOptions, connectOpts *sqlgateway.ConnectOptions) {
		mysqlOpts.Charset = charset
	}
}

func WithMySQLConnectionTimeout(timeout time.Duration) MySQLOptionFunc {
	return func(mysqlOpts *sqlgateway.MySQLOptions, connectOpts *sqlgateway.ConnectOptions) {
		connectOpts.MaxTimeout = timeout
	}
}

func WithMySQLMaxConnectionAttempts(attempts int) MySQLOptionFunc {
	return func(mysqlOpts *sqlgateway.MySQLOptions, connectOpts *sqlgateway.ConnectOptions) {
		connectOpts.MaxAttempts = attempts
	}
}

func WithMySQLIsolation(iso IsolationLevel) MySQLOptionFunc {
	return func(mysqlOpts *sqlgateway.MySQLOptions, connectOpts *sqlgateway.ConnectOptions) {
		mysqlOpts.Isolation = iso
	}
}
