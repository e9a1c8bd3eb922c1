package ladder

import (
	"bytes"
	"database/sql"
	"log"
	"testing"
	"time"

	"github.com/denismitr/ladder/internal/database/sqlgateway"
	"github.com/denismitr/ladder/internal/logger"
	"github.com/denismitr/ladder/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUseMySQL(t *testing.T) {
	t.Parallel()

	t.Run("default mysql options", func(t *testing.T) {
		m := Migrator{}
		checkerRuns := 0
		checker := func(mysqlOpts *sqlgateway.MySQLOptions, cOpts *sqlgateway.ConnectOptions) {
			assert.Equal(t, "ladder_version", mysqlOpts.VersionTable)
			assert.Equal(t, "utf8mb4", mysqlOpts.Charset)
			assert.Equal(t, IsolationDefault, mysqlOpts.Isolation)
			assert.Equal(t, sqlgateway.DefaultConnectionAttempts, cOpts.MaxAttempts)
			assert.Equal(t, sqlgateway.DefaultConnectionTimeout, cOpts.MaxTimeout)
			checkerRuns++
		}

		optionsFn := UseMySQL(&sql.DB{}, checker)

		err := optionsFn(&m)
		require.NoError(t, err)
		require.Equal(t, 1, checkerRuns)
		assert.NotNil(t, m.gateway)
		assert.Len(t, m.closerFns, 1)
	})

	t.Run("custom mysql options", func(t *testing.T) {
		m := Migrator{}

		checkerRuns := 0
		checker := func(mysqlOpts *sqlgateway.MySQLOptions, cOpts *sqlgateway.ConnectOptions) {
			assert.Equal(t, "versions", mysqlOpts.VersionTable)
			assert.Equal(t, "latin1", mysqlOpts.Charset)
			assert.Equal(t, IsolationRepeatableRead, mysqlOpts.Isolation)
			assert.Equal(t, 3, cOpts.MaxAttempts)
			assert.Equal(t, 5*time.Second, cOpts.MaxTimeout)
			checkerRuns++
		}

		optionsFn := UseMySQL(
			&sql.DB{},
			WithMySQLVersionTable("versions"),
			WithMySQLCharset("latin1"),
			WithMySQLIsolation(IsolationRepeatableRead),
			WithMySQLMaxConnectionAttempts(3),
			WithMySQLConnectionTimeout(5*time.Second),
			checker)

		err := optionsFn(&m)
		require.NoError(t, err)
		require.Equal(t, 1, checkerRuns)
	})
}

func TestUseSqlite(t *testing.T) {
	t.Parallel()

	m := Migrator{}
	checkerRuns := 0
	checker := func(sqliteOpts *sqlgateway.SqliteOptions, cOpts *sqlgateway.ConnectOptions) {
		assert.Equal(t, "schema_version", sqliteOpts.VersionTable)
		assert.Equal(t, IsolationSerializable, sqliteOpts.Isolation)
		assert.Equal(t, 7, cOpts.MaxAttempts)
		assert.Equal(t, time.Second, cOpts.MaxTimeout)
		checkerRuns++
	}

	optionsFn := UseSqlite(
		&sql.DB{},
		WithSqliteVersionTable("schema_version"),
		WithSqliteMaxConnectionAttempts(7),
		WithSqliteConnectionTimeout(time.Second),
		WithSqliteIsolation(IsolationSerializable),
		checker,
	)

	require.NoError(t, optionsFn(&m))
	require.Equal(t, 1, checkerRuns)
	assert.NotNil(t, m.gateway)
}

func TestUsePostgres(t *testing.T) {
	t.Parallel()

	m := Migrator{}
	checkerRuns := 0
	checker := func(pgOpts *sqlgateway.PostgresOptions, cOpts *sqlgateway.ConnectOptions) {
		assert.Equal(t, "ladder_version", pgOpts.VersionTable)
		assert.Equal(t, IsolationReadCommitted, pgOpts.Isolation)
		assert.Equal(t, 2, cOpts.MaxAttempts)
		assert.Equal(t, 3*time.Second, cOpts.MaxTimeout)
		checkerRuns++
	}

	optionsFn := UsePostgres(
		&sql.DB{},
		WithPostgresMaxConnectionAttempts(2),
		WithPostgresConnectionTimeout(3*time.Second),
		WithPostgresIsolation(IsolationReadCommitted),
		checker,
	)

	require.NoError(t, optionsFn(&m))
	require.Equal(t, 1, checkerRuns)
	assert.NotNil(t, m.gateway)
}

func TestLoggerOptions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := log.New(&buf, "", 0)

	tt := []struct {
		name     string
		option   OptionFunc
		expected interface{}
	}{
		{name: "colored", option: UseColorLogger(p, true, false), expected: &logger.ColoredLogger{}},
		{name: "black and white", option: UseLogger(p, false, true), expected: &logger.BWLogger{}},
		{name: "zap", option: UseZapLogger(zap.NewNop(), true), expected: &logger.ZapLogger{}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			m := Migrator{}
			require.NoError(t, tc.option(&m))
			assert.IsType(t, tc.expected, m.lg)
		})
	}
}

func TestSourceOptions(t *testing.T) {
	t.Parallel()

	t.Run("default source is the local migrations folder", func(t *testing.T) {
		m, err := NewMigrator(UseSqlite(&sql.DB{}))
		require.NoError(t, err)

		lfs, ok := m.selector.(*source.LocalFileSource)
		require.True(t, ok)
		assert.Equal(t, source.DefaultMigrationsFolder, lfs.Folder())
		assert.NotNil(t, m.Source())
	})

	t.Run("local folder", func(t *testing.T) {
		m, err := NewMigrator(UseSqlite(&sql.DB{}), UseLocalFolderSource("./db/migrations"))
		require.NoError(t, err)

		lfs, ok := m.selector.(*source.LocalFileSource)
		require.True(t, ok)
		assert.Equal(t, "./db/migrations", lfs.Folder())
	})

	t.Run("in memory source has no scaffolding", func(t *testing.T) {
		m, err := NewMigrator(UseSqlite(&sql.DB{}), UseInMemorySource())
		require.NoError(t, err)

		_, ok := m.selector.(*source.InMemorySource)
		assert.True(t, ok)
		assert.Nil(t, m.Source())
	})
}
