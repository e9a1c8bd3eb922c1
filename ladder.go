package ladder

import (
	"context"

	"github.com/denismitr/ladder/internal/database/sqlgateway"
	"github.com/denismitr/ladder/internal/logger"
	"github.com/denismitr/ladder/internal/source"
	"github.com/denismitr/ladder/migration"
	"github.com/denismitr/ladder/revision"
	"github.com/pkg/errors"
)

var ErrGatewayNotInitialized = errors.New("database gateway has not been initialized")

type CloserFunc func() error

type selectorFactory func(lg logger.Logger) source.Selector

type Migrator struct {
	lg        logger.Logger
	gateway   *sqlgateway.SQLGateway
	selector  source.Selector
	newSource selectorFactory
	closerFns []CloserFunc
}

// NewMigrator creates a migrator configured by option callbacks,
// a database option is required. When no source option is given
// migrations are read from the default local folder.
func NewMigrator(opts ...OptionFunc) (*Migrator, error) {
	m := new(Migrator)
	m.lg = logger.NullLogger{}

	for _, oFunc := range opts {
		if err := oFunc(m); err != nil {
			return nil, err
		}
	}

	if m.gateway == nil {
		return nil, ErrGatewayNotInitialized
	}

	if m.newSource == nil {
		m.newSource = localFolderSource(source.DefaultMigrationsFolder)
	}

	m.selector = m.newSource(m.lg)
	m.gateway.SetLogger(m.lg)

	return m, nil
}

// Migrate moves the database to the revision described by spec:
// "head", an absolute revision like "3" or a relative one like "+1" / "-2".
func (m *Migrator) Migrate(ctx context.Context, spec string) (*Result, error) {
	rs, err := revision.Parse(spec)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	return m.MigrateTo(ctx, rs)
}

// MigrateTo applies or reverts migrations one by one, every unit runs in its
// own transaction together with the version update. Units committed before
// a failure stay committed and the partial result is returned with the error.
func (m *Migrator) MigrateTo(ctx context.Context, spec revision.Spec) (*Result, error) {
	current, err := m.readVersion(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{From: current, To: current, Target: spec.String()}

	if current < 0 {
		return m.fail(result, &BoundsError{Current: current, Target: current, Reason: "stored revision is negative"})
	}

	target := spec.Resolve(current)
	if !target.Head {
		if target.Revision == current {
			m.lg.Infof("nothing to do, database is at revision %d", current)
			result.Status = StatusNothingToDo
			return result, nil
		}

		if target.Revision < 0 {
			return m.fail(result, &BoundsError{
				Current: current,
				Target:  target.Revision,
				Reason:  "cannot downgrade past revision 0",
			})
		}
	}

	set, err := m.selector.Select(ctx)
	if err != nil {
		return m.fail(result, errors.Wrap(err, "could not load migrations"))
	}

	if current > set.Head() {
		return m.fail(result, &BoundsError{
			Current:   current,
			Target:    target.Clamp(set.Head()),
			Available: set.Head(),
			Reason:    "database is ahead of the available migrations",
		})
	}

	to := target.Clamp(set.Head())
	if to > set.Head() {
		m.lg.Debugf("revision %d is above the newest migration, using %d", to, set.Head())
		to = set.Head()
	}

	units, direction := set.Between(current, to)
	result.Direction = direction

	if len(units) == 0 {
		m.lg.Infof("no migrations found for revision %s", target)
		result.Status = StatusNoMigrations
		return result, nil
	}

	for i, u := range units {
		m.lg.Infof("[%d/%d] %s %s", i+1, len(units), direction.Gerund(), u.Key)

		if err := m.step(ctx, u, direction, result.To+direction.Step()); err != nil {
			return m.fail(result, err)
		}

		result.To += direction.Step()
		result.Applied = append(result.Applied, u.Key)
	}

	result.Status = StatusMigrated
	m.lg.Successf("migrated from revision %d to %d", result.From, result.To)

	return result, nil
}

func (m *Migrator) step(ctx context.Context, u *migration.Unit, d migration.Direction, next int) error {
	op := u.Operation(d)
	if op == nil {
		return &migration.MissingOperationError{Key: u.Key, Direction: d}
	}

	err := m.gateway.ReadWrite(ctx, func(ctx context.Context, s migration.Session) error {
		if err := op(ctx, s); err != nil {
			return err
		}

		return m.gateway.Store().Write(ctx, s, next)
	})

	if err != nil {
		return &migration.MigrationFailedError{Key: u.Key, Direction: d, Cause: err}
	}

	return nil
}

// Status reports the current revision against the available migrations
func (m *Migrator) Status(ctx context.Context) (*State, error) {
	current, err := m.readVersion(ctx)
	if err != nil {
		return nil, err
	}

	set, err := m.selector.Select(ctx)
	if err != nil {
		m.lg.Error(err)
		return nil, errors.Wrap(err, "could not load migrations")
	}

	state := &State{Current: current, Head: set.Head()}
	if current >= 0 && current < set.Head() {
		state.Pending = set[current:].Keys()
	}

	return state, nil
}

// Source returns the migrator selector if it implements the full source.Source interface
func (m *Migrator) Source() source.Source {
	if s, ok := m.selector.(source.Source); ok {
		return s
	}

	return nil
}

// Close releases the database connection
func (m *Migrator) Close() error {
	if m.gateway == nil {
		return ErrGatewayNotInitialized
	}

	var result error
	for i := len(m.closerFns) - 1; i >= 0; i-- {
		if err := m.closerFns[i](); err != nil {
			m.lg.Error(err)
			if result == nil {
				result = err
			}
		}
	}

	return result
}

func (m *Migrator) readVersion(ctx context.Context) (int, error) {
	if err := m.gateway.Connect(ctx); err != nil {
		m.lg.Error(err)
		return 0, err
	}

	current, err := m.gateway.ReadVersion(ctx)
	if err != nil {
		err = errors.Wrap(err, "could not read current revision")
		m.lg.Error(err)
		return 0, err
	}

	return current, nil
}

func (m *Migrator) fail(result *Result, err error) (*Result, error) {
	result.Status = StatusFailed
	m.lg.Error(err)
	return result, err
}
