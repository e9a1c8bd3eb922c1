package source

import (
	"context"
	"strings"
	"unicode"

	"github.com/denismitr/ladder/migration"
	"github.com/pkg/errors"
)

var (
	ErrNotAMigrationFile  = errors.New("not a migration file")
	ErrTooManyFilesForKey = errors.New("too many files for single migration")
	ErrMigrationExists    = errors.New("migration already exists")
)

// Selector loads the complete, validated set of migrations
type Selector interface {
	Select(ctx context.Context) (migration.Set, error)
}

// Source is a selector that can also scaffold new migrations
type Source interface {
	Selector

	IsValid() bool
	AlreadyExists(name string) bool
	Next(ctx context.Context) (int, error)
	Create(ctx context.Context, name string, withDowngrade bool) (*migration.Unit, error)
}

func ucFirst(s string) string {
	r := []rune(s)

	if len(r) == 0 {
		return ""
	}

	f := string(unicode.ToUpper(r[0]))

	return f + string(r[1:])
}

func humanize(slug string) string {
	return ucFirst(strings.Replace(slug, "_", " ", -1))
}
