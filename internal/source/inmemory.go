package source

import (
	"context"

	"github.com/denismitr/ladder/migration"
)

// InMemorySource serves units defined in Go code
type InMemorySource struct {
	factories []migration.Factory
}

var _ Selector = (*InMemorySource)(nil)

func NewInMemorySource(factories ...migration.Factory) *InMemorySource {
	return &InMemorySource{factories: factories}
}

// Select builds the units on every call so that a gap is reported
// before anything touches the database.
func (c *InMemorySource) Select(ctx context.Context) (migration.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return migration.NewSetFromFactories(c.factories...)
}
