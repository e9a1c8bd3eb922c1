package ladder

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrOutOfBounds = errors.New("revision out of bounds")

// BoundsError means the requested or stored revision cannot be reached
type BoundsError struct {
	Current   int
	Target    int
	Available int
	Reason    string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("revision %d is out of bounds (current %d): %s", e.Target, e.Current, e.Reason)
}

func (e *BoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}
