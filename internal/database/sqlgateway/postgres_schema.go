package sqlgateway

import (
	"fmt"
)

type PostgresOptions struct {
	CommonOptions
}

type postgresSchemaV1 struct {
	versionTable string
}

var _ schema = (*postgresSchemaV1)(nil)

func newPostgresSchemaV1(versionTable string) *postgresSchemaV1 {
	return &postgresSchemaV1{versionTable: tableOrDefault(versionTable)}
}

func (s postgresSchemaV1) initQuery() string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (version INTEGER NOT NULL);", s.versionTable)
}

func (s postgresSchemaV1) readQuery() string {
	return fmt.Sprintf("SELECT version FROM %s LIMIT 1;", s.versionTable)
}

func (s postgresSchemaV1) insertDefaultQuery() string {
	return fmt.Sprintf("INSERT INTO %s (version) VALUES (0);", s.versionTable)
}

func (s postgresSchemaV1) updateQuery(version int) (string, []interface{}) {
	return fmt.Sprintf("UPDATE %s SET version = $1;", s.versionTable), []interface{}{version}
}

func (s postgresSchemaV1) dropQuery() string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", s.versionTable)
}

func (s postgresSchemaV1) showTablesQuery() string {
	return "SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = current_schema() ORDER BY tablename;"
}
