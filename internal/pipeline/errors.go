package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures for targeted handling by callers.
type Kind string

const (
	KindUnknownType   Kind = "unknown_type"
	KindInvalidConfig Kind = "invalid_config"
	KindGeometry      Kind = "geometry"
	KindDecode        Kind = "decode"
	KindEncode        Kind = "encode"
	KindStorage       Kind = "storage"
)

// Error is the structured error type surfaced by the pipeline and the
// batch orchestrator. It wraps the underlying cause and names the
// operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// wrapErr builds an *Error unless err is nil.
func wrapErr(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the Kind from err, or "" when err is not a pipeline error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
