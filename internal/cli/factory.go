package cli

import (
	"database/sql"

	"github.com/denismitr/ladder"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/xo/dburl"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

type (
	databaseOptionFactory func(db *sql.DB, cfg Config) ladder.OptionFunc

	driver struct {
		goDriver string
		option   databaseOptionFactory
	}
)

// drivers maps dburl driver names to the registered database/sql driver
// and the migrator option for its dialect
var drivers = map[string]driver{
	"sqlite3": {
		goDriver: "sqlite3",
		option: func(db *sql.DB, cfg Config) ladder.OptionFunc {
			return ladder.UseSqlite(db, ladder.WithSqliteVersionTable(cfg.VersionTable))
		},
	},
	"mysql": {
		goDriver: "mysql",
		option: func(db *sql.DB, cfg Config) ladder.OptionFunc {
			return ladder.UseMySQL(db, ladder.WithMySQLVersionTable(cfg.VersionTable))
		},
	},
	"postgres": {
		goDriver: "pgx",
		option: func(db *sql.DB, cfg Config) ladder.OptionFunc {
			return ladder.UsePostgres(db, ladder.WithPostgresVersionTable(cfg.VersionTable))
		},
	},
}

func openDatabase(databaseURL string) (*sqlx.DB, driver, error) {
	u, err := dburl.Parse(databaseURL)
	if err != nil {
		return nil, driver{}, errors.Wrap(err, "could not parse database url")
	}

	d, ok := drivers[u.Driver]
	if !ok {
		return nil, driver{}, errors.Wrapf(ErrUnsupportedDriver, "[%s]", u.Driver)
	}

	db, err := sqlx.Open(d.goDriver, u.DSN)
	if err != nil {
		return nil, driver{}, errors.Wrapf(err, "could not open %s database", u.Driver)
	}

	return db, d, nil
}

func createMigrator(cfg Config, opts ...ladder.OptionFunc) (*ladder.Migrator, error) {
	if cfg.DatabaseURL == "" {
		return nil, ErrDatabaseURLMissing
	}

	db, d, err := openDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	all := append([]ladder.OptionFunc{}, opts...)
	all = append(all, d.option(db.DB, cfg), ladder.UseLocalFolderSource(cfg.MigrationsFolder))

	m, err := ladder.NewMigrator(all...)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, errors.Wrap(err, closeErr.Error())
		}

		return nil, err
	}

	return m, nil
}
