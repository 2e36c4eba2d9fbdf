package trajgen

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Sentinels for use with errors.Is. Every typed error in this package matches
// exactly one of them.
var (
	ErrValidation = errors.New("invalid parameter")
	ErrDomain     = errors.New("outside profile domain")
	ErrSingular   = errors.New("singular system")
	ErrNotFound   = errors.New("input not found")
	ErrIO         = errors.New("i/o failure")
)

// ValidationError reports a non-finite or out-of-range parameter. Index is the
// position of the offending primitive in the list handed to the compositor, or
// -1 when the error does not concern a primitive list.
type ValidationError struct {
	Index  int
	Kind   Kind
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Index >= 0 {
		fmt.Fprintf(&b, "primitive %d", e.Index)
		if e.Kind != 0 {
			fmt.Fprintf(&b, " (%s)", e.Kind)
		}
		b.WriteString(": ")
	} else if e.Kind != 0 {
		fmt.Fprintf(&b, "%s: ", e.Kind)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "%s: ", e.Field)
	}
	b.WriteString(e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(kind Kind, field, format string, args ...any) *ValidationError {
	return &ValidationError{Index: -1, Kind: kind, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// atIndex stamps err with the primitive index if it is a ValidationError, and
// wraps it in one otherwise.
func atIndex(err error, i int, kind Kind) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		cp := *ve
		cp.Index = i
		if cp.Kind == 0 {
			cp.Kind = kind
		}
		return &cp
	}
	return &ValidationError{Index: i, Kind: kind, Reason: "invalid primitive", Err: err}
}

// SingularSystemError is returned when the quintic boundary-value system has a
// vanishing determinant, which happens for durations close to zero.
type SingularSystemError struct {
	Duration float64
	Det      float64
}

func (e *SingularSystemError) Error() string {
	return fmt.Sprintf("quintic system singular for duration %g (det %g)", e.Duration, e.Det)
}

func (e *SingularSystemError) Is(target error) bool { return target == ErrSingular }

// DomainError reports a kinematic query that has no defined answer, such as
// the time to cover a positive distance with zero acceleration.
type DomainError struct {
	Profile  string
	Distance float64
	Reason   string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s profile at distance %g: %s", e.Profile, e.Distance, e.Reason)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// InputNotFoundError reports a named node missing from a source document.
type InputNotFoundError struct {
	What      string
	ID        string
	Available []string
}

func (e *InputNotFoundError) Error() string {
	avail := slices.Clone(e.Available)
	slices.Sort(avail)
	if len(avail) == 0 {
		return fmt.Sprintf("%s %q not found (none available)", e.What, e.ID)
	}
	return fmt.Sprintf("%s %q not found; available: %s", e.What, e.ID, strings.Join(avail, ", "))
}

func (e *InputNotFoundError) Is(target error) bool { return target == ErrNotFound }

// IOError wraps a failure to read an input or write an output target.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
