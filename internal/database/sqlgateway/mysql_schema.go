package sqlgateway

import (
	"fmt"
)

// MySQLOptions - note that MySQL commits DDL statements implicitly,
// a failing migration may leave part of its schema changes behind.
type MySQLOptions struct {
	CommonOptions
	Charset string
}

type mysqlSchemaV1 struct {
	versionTable, charset string
}

var _ schema = (*mysqlSchemaV1)(nil)

func newMysqlSchemaV1(versionTable, charset string) *mysqlSchemaV1 {
	if charset == "" {
		charset = DefaultMySQLCharset
	}

	return &mysqlSchemaV1{versionTable: tableOrDefault(versionTable), charset: charset}
}

func (s mysqlSchemaV1) initQuery() string {
	const createSQL = "CREATE TABLE IF NOT EXISTS `%s` (`version` INT NOT NULL) ENGINE=InnoDB CHARACTER SET=%s;"
	return fmt.Sprintf(createSQL, s.versionTable, s.charset)
}

func (s mysqlSchemaV1) readQuery() string {
	return fmt.Sprintf("SELECT `version` FROM `%s` LIMIT 1;", s.versionTable)
}

func (s mysqlSchemaV1) insertDefaultQuery() string {
	return fmt.Sprintf("INSERT INTO `%s` (`version`) VALUES (0);", s.versionTable)
}

func (s mysqlSchemaV1) updateQuery(version int) (string, []interface{}) {
	return fmt.Sprintf("UPDATE `%s` SET `version` = ?;", s.versionTable), []interface{}{version}
}

func (s mysqlSchemaV1) dropQuery() string {
	return fmt.Sprintf("DROP TABLE IF EXISTS `%s`;", s.versionTable)
}

func (s mysqlSchemaV1) showTablesQuery() string {
	return "SHOW TABLES;"
}
