package sqlgateway

const (
	DefaultVersionTable = "ladder_version"
	DefaultMySQLCharset = "utf8mb4"
)

type CommonOptions struct {
	VersionTable string
	// Isolation of every migration transaction, Default leaves it to the driver
	Isolation ISO
}

// schema holds the statements maintaining the single row version table
type schema interface {
	initQuery() string
	readQuery() string
	insertDefaultQuery() string
	updateQuery(version int) (string, []interface{})
	dropQuery() string
	showTablesQuery() string
}

func tableOrDefault(table string) string {
	if table == "" {
		return DefaultVersionTable
	}

	return table
}
