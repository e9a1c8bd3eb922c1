package migration

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type (
	Direction string

	// Session is the transactional scope a migration operation runs in,
	// *sqlx.Tx satisfies it.
	Session interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	}

	Operation func(ctx context.Context, s Session) error

	// Unit is a single numbered migration step. A nil Upgrade or Downgrade
	// means the unit cannot be applied in that direction.
	Unit struct {
		Key       string
		Name      string
		Sequence  int
		Upgrade   Operation
		Downgrade Operation
	}

	Factory func() (*Unit, error)
)

const (
	Upgrade   Direction = "upgrade"
	Downgrade Direction = "downgrade"
)

func (d Direction) Step() int {
	if d == Downgrade {
		return -1
	}

	return 1
}

func (d Direction) Gerund() string {
	if d == Downgrade {
		return "downgrading"
	}

	return "upgrading"
}

// New creates a factory for a migration unit written in Go. Sequence numbers
// outside 1..n are rejected by NewSet with a GapError.
func New(sequence int, name string, upgrade, downgrade Operation) Factory {
	return func() (*Unit, error) {
		return &Unit{
			Key:       CreateKey(sequence, name),
			Name:      name,
			Sequence:  sequence,
			Upgrade:   upgrade,
			Downgrade: downgrade,
		}, nil
	}
}

// NewFromScripts creates a factory for a unit whose operations execute plain SQL
// statements. An empty statement list leaves the corresponding operation absent.
func NewFromScripts(sequence int, name string, upgrade, downgrade []string) Factory {
	var up, down Operation
	if len(upgrade) > 0 {
		up = Scripts(upgrade...)
	}

	if len(downgrade) > 0 {
		down = Scripts(downgrade...)
	}

	return New(sequence, name, up, down)
}

// Scripts builds an operation executing the statements one by one
func Scripts(statements ...string) Operation {
	return func(ctx context.Context, s Session) error {
		for i := range statements {
			if strings.TrimSpace(statements[i]) == "" {
				continue
			}

			if _, err := s.ExecContext(ctx, statements[i]); err != nil {
				return errors.Wrapf(err, "could not execute statement [%s]", statements[i])
			}
		}

		return nil
	}
}

func (u *Unit) Operation(d Direction) Operation {
	if d == Downgrade {
		return u.Downgrade
	}

	return u.Upgrade
}

func (u *Unit) String() string {
	return u.Key
}

// Set is a gap-free sequence of units, Set[i].Sequence == i+1
type Set []*Unit

// NewSet sorts the units by sequence number and rejects the whole set
// when the numbering is not exactly 1..len(units).
func NewSet(units ...*Unit) (Set, error) {
	set := make(Set, len(units))
	copy(set, units)

	sort.SliceStable(set, func(i, j int) bool {
		return set[i].Sequence < set[j].Sequence
	})

	for i := range set {
		if set[i].Sequence != i+1 {
			return nil, &GapError{Missing: i + 1, Found: set[i].Sequence, Key: set[i].Key}
		}
	}

	return set, nil
}

func NewSetFromFactories(factories ...Factory) (Set, error) {
	units := make([]*Unit, len(factories))

	for i := range factories {
		u, err := factories[i]()
		if err != nil {
			return nil, err
		}

		units[i] = u
	}

	return NewSet(units...)
}

// Head is the highest revision reachable with this set
func (s Set) Head() int {
	return len(s)
}

func (s Set) Keys() (result []string) {
	for i := range s {
		result = append(result, s[i].Key)
	}
	return result
}

// Between returns the units that have to run to get from current to target,
// ascending for an upgrade and descending for a downgrade. Both revisions
// must be within [0, Head()].
func (s Set) Between(current, target int) (Set, Direction) {
	if target >= current {
		return s[current:target], Upgrade
	}

	scheduled := make(Set, 0, current-target)
	for i := current - 1; i >= target; i-- {
		scheduled = append(scheduled, s[i])
	}

	return scheduled, Downgrade
}

// CreateKey builds the canonical key like 0004_add_users_email
func CreateKey(sequence int, name string) string {
	slug := Slug(name)
	if slug == "" {
		return fmt.Sprintf("%04d", sequence)
	}

	return fmt.Sprintf("%04d_%s", sequence, slug)
}

// Slug lowercases the name and replaces spaces with underscores
func Slug(name string) string {
	return strings.Replace(strings.ToLower(strings.TrimSpace(name)), " ", "_", -1)
}
