package klass

import (
	"errors"
	"fmt"

	"github.com/funvibe/klass/pkg/value"
)

// Dispatch errors. Every error returned by an Accessor is an *AccessError
// matching exactly one of these with errors.Is.
var (
	ErrNullArguments    = errors.New("args is nil")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrArgumentCount    = errors.New("argument count mismatch")
	ErrTypeCoercion     = value.ErrCoercion
	ErrTargetInvocation = errors.New("target invocation failed")
)

// ErrNilTarget is the cause of the ErrTargetInvocation raised when an
// instance member is used with a nil target.
var ErrNilTarget = errors.New("target is nil")

// Resolution and registration errors.
var (
	ErrUnsupportedType     = errors.New("unsupported type")
	ErrDuplicateMember     = errors.New("duplicate member")
	ErrAlreadyResolved     = errors.New("type already resolved")
	ErrAlreadyRegistered   = errors.New("type already registered")
	ErrInvalidRegistration = errors.New("invalid registration")
)

// Operation names used in AccessError.
const (
	OpGet         = "get field"
	OpSet         = "set field"
	OpNewInstance = "new instance"
	OpInvoke      = "invoke method"
)

// AccessError is returned by the dispatch operations. Messages carry the
// member index, never the member name.
type AccessError struct {
	Op    string
	Index int
	Err   error // one of the dispatch sentinels
	Cause error // underlying error, if any

	count    int // member count, for ErrIndexOutOfRange
	expected int // parameter count, for ErrArgumentCount
	got      int // argument count, for ErrArgumentCount
	arg      int // argument position for coercion failures, -1 otherwise
}

func (e *AccessError) Error() string {
	switch e.Err {
	case ErrNullArguments:
		return fmt.Sprintf("klass: %s: %v", e.Op, e.Err)
	case ErrIndexOutOfRange:
		return fmt.Sprintf("klass: %s: index %d out of range [0, %d)", e.Op, e.Index, e.count)
	case ErrArgumentCount:
		return fmt.Sprintf("klass: %s: index %d: %v: expected %d, got %d", e.Op, e.Index, e.Err, e.expected, e.got)
	}

	msg := fmt.Sprintf("klass: %s: index %d", e.Op, e.Index)
	if e.arg >= 0 {
		msg += fmt.Sprintf(": argument %d", e.arg)
	}
	if e.Err == ErrTypeCoercion && e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %v", msg, e.Err, e.Cause)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Is matches the dispatch sentinel carried by e.
func (e *AccessError) Is(target error) bool {
	return e.Err == target
}

// Unwrap returns the underlying cause.
func (e *AccessError) Unwrap() error {
	return e.Cause
}

func errNullArguments(op string, index int) error {
	return &AccessError{Op: op, Index: index, Err: ErrNullArguments, arg: -1}
}

func errIndexOutOfRange(op string, index, count int) error {
	return &AccessError{Op: op, Index: index, Err: ErrIndexOutOfRange, count: count, arg: -1}
}

func errArgumentCount(op string, index, expected, got int) error {
	return &AccessError{Op: op, Index: index, Err: ErrArgumentCount, expected: expected, got: got, arg: -1}
}

func errCoercion(op string, index, arg int, cause error) error {
	return &AccessError{Op: op, Index: index, Err: ErrTypeCoercion, Cause: cause, arg: arg}
}

func errInvocation(op string, index int, cause error) error {
	return &AccessError{Op: op, Index: index, Err: ErrTargetInvocation, Cause: cause, arg: -1}
}

// PanicError carries a value recovered from a panicking member.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panic value that is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
