package sqlgateway

import (
	"context"
	"database/sql"

	"github.com/denismitr/ladder/internal/logger"
	"github.com/denismitr/ladder/migration"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var ErrNotConnected = errors.New("sql gateway is not connected")

// SQLGateway binds a connector, the version store of one SQL dialect
// and the transaction manager used for every migration step.
type SQLGateway struct {
	connector SQLConnector
	store     *VersionStore
	txm       TxManager
	lg        logger.Logger
	schema    schema
	isolation ISO
}

// NewSqliteGateway - creates a new SQL gateway for sqlite
func NewSqliteGateway(connector SQLConnector, options *SqliteOptions) *SQLGateway {
	if options == nil {
		options = &SqliteOptions{}
	}

	return newGateway(connector, newSqliteSchemaV1(options.VersionTable), options.Isolation)
}

func NewMySQLGateway(connector SQLConnector, options *MySQLOptions) *SQLGateway {
	if options == nil {
		options = &MySQLOptions{}
	}

	return newGateway(connector, newMysqlSchemaV1(options.VersionTable, options.Charset), options.Isolation)
}

func NewPostgresGateway(connector SQLConnector, options *PostgresOptions) *SQLGateway {
	if options == nil {
		options = &PostgresOptions{}
	}

	return newGateway(connector, newPostgresSchemaV1(options.VersionTable), options.Isolation)
}

func newGateway(connector SQLConnector, s schema, iso ISO) *SQLGateway {
	lg := logger.NullLogger{}

	return &SQLGateway{
		connector: connector,
		schema:    s,
		store:     newVersionStore(s, lg),
		lg:        lg,
		isolation: iso,
	}
}

func (g *SQLGateway) SetLogger(lg logger.Logger) {
	g.lg = lg
	g.store.setLogger(lg)
}

// Connect establishes the connection, repeated calls are no-ops
func (g *SQLGateway) Connect(ctx context.Context) error {
	if g.txm != nil {
		return nil
	}

	db, err := g.connector.Connect(ctx)
	if err != nil {
		return errors.Wrap(err, "could not connect to the database")
	}

	g.txm = NewTxManager(db)

	return nil
}

func (g *SQLGateway) Store() *VersionStore {
	return g.store
}

// ReadWrite runs the callback in its own transaction
// at the isolation level the gateway was configured with
func (g *SQLGateway) ReadWrite(ctx context.Context, cb TxCallback) error {
	if g.txm == nil {
		return ErrNotConnected
	}

	return g.txm.ReadWrite(ctx, cb, Isolation(g.isolation))
}

// ReadVersion reads (and if needed initializes) the version in a committed transaction
func (g *SQLGateway) ReadVersion(ctx context.Context) (int, error) {
	var version int

	err := g.ReadWrite(ctx, func(ctx context.Context, s migration.Session) error {
		v, err := g.store.Read(ctx, s)
		if err != nil {
			return err
		}

		version = v
		return nil
	})

	return version, err
}

func (g *SQLGateway) DropVersionTable(ctx context.Context) error {
	return g.ReadWrite(ctx, func(ctx context.Context, s migration.Session) error {
		return g.store.Drop(ctx, s)
	})
}

func (g *SQLGateway) ShowTables(ctx context.Context) ([]string, error) {
	db, err := g.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryxContext(ctx, g.schema.showTablesQuery())
	if err != nil {
		return nil, errors.Wrap(err, "could not list all tables")
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			g.lg.Error(closeErr)
		}
	}()

	var result []string
	for rows.Next() {
		var table string
		if errScan := rows.Scan(&table); errScan != nil {
			return result, errScan
		}

		result = append(result, table)
	}

	if errRows := rows.Err(); errRows != nil && errRows != sql.ErrNoRows {
		return result, errors.Wrap(errRows, "show tables iteration failed")
	}

	return result, nil
}

func (g *SQLGateway) Close() error {
	return g.connector.Close()
}

// DB is exposed for callers that need to prepare fixtures outside of migrations
func (g *SQLGateway) DB(ctx context.Context) (*sqlx.DB, error) {
	return g.connector.Connect(ctx)
}
