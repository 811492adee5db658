package pages

import (
	"errors"
	"fmt"
)

// Kind classifies a page store failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindInvalidArgument
	KindNotFound
	KindTransfer
	KindDeletion
	KindList
)

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrConfiguration   = errors.New("configuration error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrTransfer        = errors.New("transfer failed")
	ErrDeletion        = errors.New("deletion failed")
	ErrList            = errors.New("list failed")
)

func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindNotFound:
		return ErrNotFound
	case KindTransfer:
		return ErrTransfer
	case KindDeletion:
		return ErrDeletion
	case KindList:
		return ErrList
	}
	return nil
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return "unknown"
}

// Error is returned by every Manager operation. Both the Kind sentinel and the
// underlying store error are reachable through errors.Is and errors.As.
type Error struct {
	Kind Kind
	// Op is the operation that failed (e.g. "get", "put", "delete").
	Op string
	// Key is the object key, when the operation has one.
	Key string
	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("pages.%s", e.Op)
	if e.Key != "" {
		msg += " " + e.Key
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, op, key string, err error) *Error {
	return &Error{Kind: kind, Op: op, Key: key, Err: err}
}

func invalidArgument(op, key, format string, args ...any) *Error {
	return newError(KindInvalidArgument, op, key, fmt.Errorf(format, args...))
}
