package migration

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, Session) error { return nil }

func unitsWithSequences(seqs ...int) []*Unit {
	var units []*Unit
	for _, seq := range seqs {
		units = append(units, &Unit{Key: CreateKey(seq, "step"), Sequence: seq, Upgrade: noop, Downgrade: noop})
	}
	return units
}

func Test_SetIsSortedBySequenceNumber(t *testing.T) {
	units := unitsWithSequences(10, 2, 1, 3, 4, 5, 6, 7, 8, 9)

	set, err := NewSet(units...)
	require.NoError(t, err)
	require.Len(t, set, 10)

	for i := range set {
		assert.Equal(t, i+1, set[i].Sequence)
	}

	assert.Equal(t, 10, set.Head())
	assert.Equal(t, "0001_step", set.Keys()[0])
	assert.Equal(t, "0010_step", set.Keys()[9])
}

func Test_SetRejectsGapsAndDuplicates(t *testing.T) {
	tt := []struct {
		name    string
		seqs    []int
		missing int
		found   int
	}{
		{name: "starts at two", seqs: []int{2, 3}, missing: 1, found: 2},
		{name: "gap in the middle", seqs: []int{1, 2, 4}, missing: 3, found: 4},
		{name: "duplicate", seqs: []int{1, 1, 2}, missing: 2, found: 1},
		{name: "zero", seqs: []int{0, 1}, missing: 1, found: 0},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			set, err := NewSet(unitsWithSequences(tc.seqs...)...)
			require.Error(t, err)
			assert.Nil(t, set)
			assert.True(t, errors.Is(err, ErrGap))

			var gapErr *GapError
			require.True(t, errors.As(err, &gapErr))
			assert.Equal(t, tc.missing, gapErr.Missing)
			assert.Equal(t, tc.found, gapErr.Found)
		})
	}

	t.Run("any contiguous set of size k is accepted and any single removal rejected", func(t *testing.T) {
		for k := 0; k <= 12; k++ {
			var seqs []int
			for i := k; i >= 1; i-- {
				seqs = append(seqs, i)
			}

			set, err := NewSet(unitsWithSequences(seqs...)...)
			require.NoError(t, err, fmt.Sprintf("k=%d", k))
			assert.Equal(t, k, set.Head())

			for drop := 1; drop < k; drop++ {
				var withGap []int
				withGap = append(withGap, seqs[:drop]...)
				withGap = append(withGap, seqs[drop+1:]...)
				_, err := NewSet(unitsWithSequences(withGap...)...)
				assert.True(t, errors.Is(err, ErrGap), fmt.Sprintf("k=%d drop=%d", k, drop))
			}
		}
	})
}

func Test_SetBetween(t *testing.T) {
	set, err := NewSet(unitsWithSequences(1, 2, 3, 4)...)
	require.NoError(t, err)

	t.Run("upgrade from zero", func(t *testing.T) {
		scheduled, dir := set.Between(0, 2)
		assert.Equal(t, Upgrade, dir)
		assert.Equal(t, []string{"0001_step", "0002_step"}, scheduled.Keys())
	})

	t.Run("upgrade in the middle", func(t *testing.T) {
		scheduled, dir := set.Between(1, 4)
		assert.Equal(t, Upgrade, dir)
		assert.Equal(t, []string{"0002_step", "0003_step", "0004_step"}, scheduled.Keys())
	})

	t.Run("downgrade to zero", func(t *testing.T) {
		scheduled, dir := set.Between(3, 0)
		assert.Equal(t, Downgrade, dir)
		assert.Equal(t, []string{"0003_step", "0002_step", "0001_step"}, scheduled.Keys())
	})

	t.Run("downgrade one step", func(t *testing.T) {
		scheduled, dir := set.Between(4, 3)
		assert.Equal(t, Downgrade, dir)
		assert.Equal(t, []string{"0004_step"}, scheduled.Keys())
	})

	t.Run("nothing between equal revisions", func(t *testing.T) {
		scheduled, _ := set.Between(2, 2)
		assert.Len(t, scheduled, 0)
	})
}

func Test_FactoriesBuildSortedSets(t *testing.T) {
	set, err := NewSetFromFactories(
		NewFromScripts(2, "Add email", []string{"ALTER TABLE users ADD email TEXT"}, nil),
		NewFromScripts(1, "Create users", []string{"CREATE TABLE users (id INTEGER)"}, []string{"DROP TABLE users"}),
	)
	require.NoError(t, err)
	require.Len(t, set, 2)

	assert.Equal(t, "0001_create_users", set[0].Key)
	assert.Equal(t, "Create users", set[0].Name)
	assert.NotNil(t, set[0].Operation(Upgrade))
	assert.NotNil(t, set[0].Operation(Downgrade))

	assert.Equal(t, "0002_add_email", set[1].Key)
	assert.NotNil(t, set[1].Operation(Upgrade))
	assert.Nil(t, set[1].Operation(Downgrade))
}

func Test_SequencesBelowOneAreGaps(t *testing.T) {
	tt := []struct {
		name      string
		sequences []int
		found     int
	}{
		{name: "zero", sequences: []int{0, 1}, found: 0},
		{name: "negative", sequences: []int{1, -2}, found: -2},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			factories := make([]Factory, 0, len(tc.sequences))
			for _, seq := range tc.sequences {
				factories = append(factories, New(seq, "unit", noop, noop))
			}

			_, err := NewSetFromFactories(factories...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrGap))

			var gapErr *GapError
			require.True(t, errors.As(err, &gapErr))
			assert.Equal(t, 1, gapErr.Missing)
			assert.Equal(t, tc.found, gapErr.Found)
			assert.Contains(t, err.Error(), "next found is")
		})
	}
}

func Test_SplitStatements(t *testing.T) {
	tt := []struct {
		name   string
		script string
		out    []string
	}{
		{
			name:   "single statement without semicolon",
			script: "CREATE TABLE foo (id INTEGER)",
			out:    []string{"CREATE TABLE foo (id INTEGER)"},
		},
		{
			name:   "multiline statements and comments",
			script: "-- create the table\nCREATE TABLE foo (\n  id INTEGER\n);\n\nINSERT INTO foo (id) VALUES (1);\n",
			out:    []string{"CREATE TABLE foo (\n  id INTEGER\n);", "INSERT INTO foo (id) VALUES (1);"},
		},
		{
			name:   "empty",
			script: "\n-- nothing here\n\n",
			out:    nil,
		},
		{
			name: "sqlite trigger body stays in one statement",
			script: "CREATE TABLE audit (id INTEGER);\n" +
				"CREATE TRIGGER users_audit AFTER INSERT ON users\n" +
				"BEGIN\n" +
				"  INSERT INTO audit (id) VALUES (NEW.id);\n" +
				"  UPDATE users SET name = CASE WHEN name IS NULL THEN 'anonymous'\n" +
				"    ELSE name END WHERE id = NEW.id;\n" +
				"END;\n" +
				"INSERT INTO users (name) VALUES ('ladder');",
			out: []string{
				"CREATE TABLE audit (id INTEGER);",
				"CREATE TRIGGER users_audit AFTER INSERT ON users\n" +
					"BEGIN\n" +
					"  INSERT INTO audit (id) VALUES (NEW.id);\n" +
					"  UPDATE users SET name = CASE WHEN name IS NULL THEN 'anonymous'\n" +
					"    ELSE name END WHERE id = NEW.id;\n" +
					"END;",
				"INSERT INTO users (name) VALUES ('ladder');",
			},
		},
		{
			name: "dollar quoted function body",
			script: "CREATE FUNCTION touch() RETURNS trigger AS $$\n" +
				"BEGIN\n" +
				"  IF NEW.updated_at IS NULL THEN\n" +
				"    NEW.updated_at := now();\n" +
				"  END IF;\n" +
				"\n" +
				"  RETURN NEW;\n" +
				"END;\n" +
				"$$ LANGUAGE plpgsql;\n" +
				"SELECT 1;",
			out: []string{
				"CREATE FUNCTION touch() RETURNS trigger AS $$\n" +
					"BEGIN\n" +
					"  IF NEW.updated_at IS NULL THEN\n" +
					"    NEW.updated_at := now();\n" +
					"  END IF;\n" +
					"\n" +
					"  RETURN NEW;\n" +
					"END;\n" +
					"$$ LANGUAGE plpgsql;",
				"SELECT 1;",
			},
		},
		{
			name:   "transaction control is not a block",
			script: "BEGIN;\nCREATE TABLE a (id INTEGER);\nCOMMIT;",
			out:    []string{"BEGIN;", "CREATE TABLE a (id INTEGER);", "COMMIT;"},
		},
		{
			name:   "keywords in literals and trailing comments",
			script: "INSERT INTO notes (body) VALUES ('begin; case');\nSELECT 2; -- end",
			out:    []string{"INSERT INTO notes (body) VALUES ('begin; case');", "SELECT 2; -- end"},
		},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.out, SplitStatements(tc.script))
		})
	}
}

func Test_ErrorMessages(t *testing.T) {
	cause := errors.New("near \"CREAT\": syntax error")
	failed := &MigrationFailedError{Key: "0002_add_email", Direction: Upgrade, Cause: cause}

	assert.Equal(t, "upgrade of migration [0002_add_email] failed: near \"CREAT\": syntax error", failed.Error())
	assert.True(t, errors.Is(failed, ErrMigrationFailed))
	assert.Equal(t, cause, errors.Unwrap(failed))

	missing := &MissingOperationError{Key: "0003_drop_foo", Direction: Downgrade}
	assert.Equal(t, "no downgrade operation found in migration [0003_drop_foo]", missing.Error())
	assert.True(t, errors.Is(missing, ErrMissingOperation))

	assert.Equal(t, 1, Upgrade.Step())
	assert.Equal(t, -1, Downgrade.Step())
}
