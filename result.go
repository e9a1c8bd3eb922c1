package ladder

import (
	"github.com/denismitr/ladder/migration"
)

type Status string

const (
	StatusMigrated     Status = "migrated"
	StatusNothingToDo  Status = "nothing to do"
	StatusNoMigrations Status = "no migrations"
	StatusFailed       Status = "failed"
)

// Result describes a single Migrate call. To is always the last
// committed revision, also when the call failed midway.
type Result struct {
	Status    Status
	Target    string
	From      int
	To        int
	Direction migration.Direction
	Applied   []string
}

type State struct {
	Current int
	Head    int
	Pending []string
}
