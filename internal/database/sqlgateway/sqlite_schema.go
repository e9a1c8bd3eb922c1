package sqlgateway

import (
	"fmt"
)

type SqliteOptions struct {
	CommonOptions
}

type sqliteSchemaV1 struct {
	versionTable string
}

var _ schema = (*sqliteSchemaV1)(nil)

func newSqliteSchemaV1(versionTable string) *sqliteSchemaV1 {
	return &sqliteSchemaV1{versionTable: tableOrDefault(versionTable)}
}

func (s sqliteSchemaV1) initQuery() string {
	const createSQL = "CREATE TABLE IF NOT EXISTS %s (version INTEGER NOT NULL);"
	return fmt.Sprintf(createSQL, s.versionTable)
}

func (s sqliteSchemaV1) readQuery() string {
	return fmt.Sprintf("SELECT version FROM %s LIMIT 1;", s.versionTable)
}

func (s sqliteSchemaV1) insertDefaultQuery() string {
	return fmt.Sprintf("INSERT INTO %s (version) VALUES (0);", s.versionTable)
}

func (s sqliteSchemaV1) updateQuery(version int) (string, []interface{}) {
	return fmt.Sprintf("UPDATE %s SET version = ?;", s.versionTable), []interface{}{version}
}

func (s sqliteSchemaV1) dropQuery() string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", s.versionTable)
}

func (s sqliteSchemaV1) showTablesQuery() string {
	return "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name;"
}
