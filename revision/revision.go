// Package revision parses user supplied revision specs such as "head", "+2", "-1" or "7"
// and resolves them against the current revision of a database.
package revision

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidRevision = errors.New("invalid revision")

type Kind int

const (
	Absolute Kind = iota
	Relative
	Head
)

const headKeyword = "head"

// MaxRevision bounds the numbers a spec may carry
const MaxRevision = math.MaxInt32

// InvalidRevisionError is returned when a revision spec matches none of the accepted forms
type InvalidRevisionError struct {
	Spec  string
	Cause error
}

func (e *InvalidRevisionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("revision [%s] could not be parsed as absolute or relative: %s", e.Spec, e.Cause.Error())
	}

	return fmt.Sprintf("revision [%s] could not be parsed as absolute or relative", e.Spec)
}

func (e *InvalidRevisionError) Is(target error) bool {
	return target == ErrInvalidRevision
}

func (e *InvalidRevisionError) Unwrap() error {
	return e.Cause
}

type (
	// Spec is a parsed revision spec. Value is the absolute revision for Absolute,
	// the signed offset for Relative and unused for Head.
	Spec struct {
		Kind  Kind
		Value int
	}

	// Target is a resolved revision. A Head target has no number until it is
	// clamped against the set of available migrations.
	Target struct {
		Head     bool
		Revision int
	}
)

func HeadSpec() Spec {
	return Spec{Kind: Head}
}

func AbsoluteSpec(revision int) Spec {
	return Spec{Kind: Absolute, Value: revision}
}

func RelativeSpec(offset int) Spec {
	return Spec{Kind: Relative, Value: offset}
}

// Parse converts the textual spec into a Spec. Exactly one form matches,
// anything else is an InvalidRevisionError.
func Parse(spec string) (Spec, error) {
	s := strings.TrimSpace(spec)

	if strings.EqualFold(s, headKeyword) {
		return HeadSpec(), nil
	}

	if strings.HasPrefix(s, "+") {
		n, err := parseUnsigned(spec, s[1:])
		if err != nil {
			return Spec{}, err
		}

		return RelativeSpec(n), nil
	}

	if strings.HasPrefix(s, "-") {
		n, err := parseUnsigned(spec, s[1:])
		if err != nil {
			return Spec{}, err
		}

		return RelativeSpec(-n), nil
	}

	n, err := parseUnsigned(spec, s)
	if err != nil {
		return Spec{}, err
	}

	return AbsoluteSpec(n), nil
}

// Resolve parses the revision spec and resolves it against the current revision
func Resolve(spec string, current int) (Target, error) {
	s, err := Parse(spec)
	if err != nil {
		return Target{}, err
	}

	return s.Resolve(current), nil
}

// Resolve never clamps, the result may be negative or above the number of
// available migrations.
func (s Spec) Resolve(current int) Target {
	switch s.Kind {
	case Head:
		return Target{Head: true}
	case Relative:
		return Target{Revision: offset(current, s.Value)}
	default:
		return Target{Revision: s.Value}
	}
}

func (s Spec) String() string {
	switch s.Kind {
	case Head:
		return headKeyword
	case Relative:
		if s.Value < 0 {
			return strconv.Itoa(s.Value)
		}

		return "+" + strconv.Itoa(s.Value)
	default:
		return strconv.Itoa(s.Value)
	}
}

// Clamp turns a head target into the highest available revision
func (t Target) Clamp(available int) int {
	if t.Head {
		return available
	}

	return t.Revision
}

func (t Target) String() string {
	if t.Head {
		return headKeyword
	}

	return strconv.Itoa(t.Revision)
}

func parseUnsigned(spec, digits string) (int, error) {
	if digits == "" {
		return 0, &InvalidRevisionError{Spec: spec}
	}

	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, &InvalidRevisionError{Spec: spec}
		}
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, &InvalidRevisionError{Spec: spec, Cause: err}
	}

	if n > MaxRevision {
		return 0, &InvalidRevisionError{
			Spec:  spec,
			Cause: errors.Errorf("%d exceeds the highest revision %d", n, MaxRevision),
		}
	}

	return n, nil
}

// offset adds delta to current, saturating instead of wrapping around
func offset(current, delta int) int {
	if delta > 0 && current > math.MaxInt-delta {
		return math.MaxInt
	}

	if delta < 0 && current < math.MinInt-delta {
		return math.MinInt
	}

	return current + delta
}
