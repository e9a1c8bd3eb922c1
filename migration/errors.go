package migration

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrGap              = errors.New("migration set is not contiguous")
	ErrMissingOperation = errors.New("migration operation is missing")
	ErrMigrationFailed  = errors.New("migration failed")
)

// GapError means the sorted set does not number its units 1..n
type GapError struct {
	Missing int
	Found   int
	Key     string
}

func (e *GapError) Error() string {
	if e.Found > 0 && e.Found < e.Missing {
		return fmt.Sprintf("migrations are missing entry %d: duplicate entry %d found in [%s]", e.Missing, e.Found, e.Key)
	}

	return fmt.Sprintf("migrations are missing entry %d: next found is %d in [%s]", e.Missing, e.Found, e.Key)
}

func (e *GapError) Is(target error) bool {
	return target == ErrGap
}

type MissingOperationError struct {
	Key       string
	Direction Direction
}

func (e *MissingOperationError) Error() string {
	return fmt.Sprintf("no %s operation found in migration [%s]", e.Direction, e.Key)
}

func (e *MissingOperationError) Is(target error) bool {
	return target == ErrMissingOperation
}

// MigrationFailedError wraps whatever the migration operation itself returned
type MigrationFailedError struct {
	Key       string
	Direction Direction
	Cause     error
}

func (e *MigrationFailedError) Error() string {
	return fmt.Sprintf("%s of migration [%s] failed: %s", e.Direction, e.Key, e.Cause.Error())
}

func (e *MigrationFailedError) Is(target error) bool {
	return target == ErrMigrationFailed
}

func (e *MigrationFailedError) Unwrap() error {
	return e.Cause
}
