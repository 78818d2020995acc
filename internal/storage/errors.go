package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by errors returned for missing keys
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is matched when the store cannot be opened or used
	ErrUnavailable = errors.New("storage unavailable")
	// ErrQuotaExceeded is matched when a write fails because the store is full
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Kind classifies a storage failure
type Kind int

const (
	KindInternal Kind = iota
	KindUnavailable
	KindQuotaExceeded
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindQuotaExceeded:
		return "quota exceeded"
	case KindNotFound:
		return "not found"
	default:
		return "internal"
	}
}

// Error is returned by Provider implementations. Op names the failed operation.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

// NewError wraps err as a storage error. A nil err yields a nil error.
func NewError(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("storage %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match an Error against the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrQuotaExceeded:
		return e.Kind == KindQuotaExceeded
	}
	return false
}

// KindOf reports the kind of err, or KindInternal when err is not a storage error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrQuotaExceeded):
		return KindQuotaExceeded
	}
	return KindInternal
}

// IsNotFound reports whether err means the requested key does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
