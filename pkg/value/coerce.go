package value

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrCoercion is matched by every error raised when a Value cannot be
// unboxed or cast to a Go type.
var ErrCoercion = errors.New("type coercion failed")

// CoercionError describes a failed unboxing or checked cast.
type CoercionError struct {
	From string // dynamic type of the value
	To   string // declared target type
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%v: cannot use %s as %s", ErrCoercion, e.From, e.To)
}

// Is makes errors.Is(err, ErrCoercion) hold.
func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}

func newCoercionError(v Value, to string) error {
	return &CoercionError{From: v.typeName(), To: to}
}

// NewCoercionError reports that v cannot be used as a t.
func NewCoercionError(v Value, t reflect.Type) error {
	return newCoercionError(v, t.String())
}

// Coercer converts a Value into a reflect.Value assignable to one fixed Go
// type.
type Coercer func(Value) (reflect.Value, error)

// IsRoot reports whether t is an empty interface, the universal root type
// that accepts any value without a cast.
func IsRoot(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

// CoercerFor returns the coercion function for target type t.
func CoercerFor(t reflect.Type) Coercer {
	switch t.Kind() {
	case reflect.Bool:
		return func(v Value) (reflect.Value, error) {
			b, err := v.BoolValue()
			if err != nil {
				return reflect.Value{}, newCoercionError(v, t.String())
			}
			rv := reflect.New(t).Elem()
			rv.SetBool(b)
			return rv, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(v Value) (reflect.Value, error) {
			n, err := v.IntValue()
			if err != nil {
				return reflect.Value{}, newCoercionError(v, t.String())
			}
			rv := reflect.New(t).Elem()
			rv.SetInt(n)
			return rv, nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(v Value) (reflect.Value, error) {
			n, err := v.UintValue()
			if err != nil {
				return reflect.Value{}, newCoercionError(v, t.String())
			}
			rv := reflect.New(t).Elem()
			rv.SetUint(n)
			return rv, nil
		}
	case reflect.Float32, reflect.Float64:
		return func(v Value) (reflect.Value, error) {
			f, err := v.FloatValue()
			if err != nil {
				return reflect.Value{}, newCoercionError(v, t.String())
			}
			rv := reflect.New(t).Elem()
			rv.SetFloat(f)
			return rv, nil
		}
	case reflect.Complex64, reflect.Complex128:
		return func(v Value) (reflect.Value, error) {
			c, err := v.ComplexValue()
			if err != nil {
				return reflect.Value{}, newCoercionError(v, t.String())
			}
			rv := reflect.New(t).Elem()
			rv.SetComplex(c)
			return rv, nil
		}
	case reflect.String:
		return func(v Value) (reflect.Value, error) {
			s, err := v.StringValue()
			if err != nil {
				return reflect.Value{}, newCoercionError(v, t.String())
			}
			rv := reflect.New(t).Elem()
			rv.SetString(s)
			return rv, nil
		}
	}

	if IsRoot(t) {
		// no cast for the root type
		return func(v Value) (reflect.Value, error) {
			rv := reflect.New(t).Elem()
			if x := v.Interface(); x != nil {
				rv.Set(reflect.ValueOf(x))
			}
			return rv, nil
		}
	}

	nillable := false
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		nillable = true
	}
	return func(v Value) (reflect.Value, error) {
		if v.IsNull() {
			if nillable {
				return reflect.Zero(t), nil
			}
			return reflect.Value{}, newCoercionError(v, t.String())
		}
		rv := reflect.ValueOf(v.Interface())
		if !rv.Type().AssignableTo(t) {
			return reflect.Value{}, newCoercionError(v, t.String())
		}
		return rv, nil
	}
}

// Coerce converts v to type t without any caching.
func Coerce(v Value, t reflect.Type) (reflect.Value, error) {
	return CoercerFor(t)(v)
}

// To unboxes v into a T.
func To[T any](v Value) (T, error) {
	var zero T
	rv, err := Coerce(v, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	if x, ok := rv.Interface().(T); ok {
		return x, nil
	}
	return zero, nil
}
