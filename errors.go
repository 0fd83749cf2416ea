package svgtrace

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures returned by the tracing pipeline.
type ErrorKind int

const (
	// InvalidImage is returned for images with a zero dimension or an empty pixel buffer.
	InvalidImage ErrorKind = iota + 1
	// InvalidParameter is returned when a parameter is outside of its domain after clamping.
	InvalidParameter
	// TracingFailure signals a broken internal invariant, e.g. a region without a boundary.
	TracingFailure
)

var (
	ErrInvalidImage     = errors.New("invalid image")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrTracingFailure   = errors.New("tracing failure")
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidImage:
		return "InvalidImage"
	case InvalidParameter:
		return "InvalidParameter"
	case TracingFailure:
		return "TracingFailure"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case InvalidImage:
		return ErrInvalidImage
	case InvalidParameter:
		return ErrInvalidParameter
	case TracingFailure:
		return ErrTracingFailure
	}
	return nil
}

// Error is the typed error returned by the tracer. Use errors.Is with one of the
// Err* sentinels or errors.As to inspect the Kind and the failing operation.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("svgtrace: %s: %v", e.Op, e.Kind.sentinel())
	}
	return fmt.Sprintf("svgtrace: %s: %v: %v", e.Op, e.Kind.sentinel(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func newError(kind ErrorKind, op, format string, args ...any) error {
	return &Error{
		Kind: kind,
		Op:   op,
		Err:  fmt.Errorf(format, args...),
	}
}
