package klass

import (
	"reflect"

	"github.com/funvibe/klass/pkg/value"
)

// Accessor reads and writes fields, invokes methods and constructs
// instances of one klass by member index.
//
// Validation happens in a fixed order and always before any side effect:
// a nil args slice, then the index, then the argument count, then the
// target, then each argument in order. Get and Set take no argument list
// and check only the index before the target. Static members ignore the
// target.
type Accessor interface {
	Get(target any, index int) (value.Value, error)
	Set(target any, index int, v value.Value) error
	NewInstance(index int, args []value.Value) (any, error)
	Invoke(target any, index int, args []value.Value) (value.Value, error)
}

func checkIndex(op string, index, count int) error {
	if index < 0 || index >= count {
		return errIndexOutOfRange(op, index, count)
	}
	return nil
}

// castTarget checks that target may receive an instance member of k.
func castTarget(k *KlassInfo, op string, index int, target any) (reflect.Value, error) {
	if target == nil {
		return reflect.Value{}, errInvocation(op, index, ErrNilTarget)
	}
	rv := reflect.ValueOf(target)
	if k.IsInterface() {
		if !rv.Type().Implements(k.typ) {
			return reflect.Value{}, errCoercion(op, index, -1, &value.CoercionError{From: rv.Type().String(), To: k.typ.String()})
		}
		return rv, nil
	}
	if rv.Type() != k.instance {
		return reflect.Value{}, errCoercion(op, index, -1, &value.CoercionError{From: rv.Type().String(), To: k.instance.String()})
	}
	if rv.IsNil() {
		return reflect.Value{}, errInvocation(op, index, ErrNilTarget)
	}
	return rv, nil
}

// call invokes fn, turning a panic into a *PanicError.
func call(fn reflect.Value, in []reflect.Value, variadic bool) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	if variadic {
		return fn.CallSlice(in), nil
	}
	return fn.Call(in), nil
}

// results boxes the outputs of a method call. A non-nil trailing error
// becomes an invocation failure. No result yields Null and several results
// yield a Ref to a []value.Value. A nil boxers slice boxes by dynamic kind.
func results(op string, index int, out []reflect.Value, returnsError bool, boxers []value.Boxer) (value.Value, error) {
	if returnsError {
		last := out[len(out)-1]
		if !last.IsNil() {
			return value.Null, errInvocation(op, index, last.Interface().(error))
		}
		out = out[:len(out)-1]
	}
	box := func(i int, rv reflect.Value) value.Value {
		if boxers == nil {
			return value.FromReflect(rv)
		}
		return boxers[i](rv)
	}
	switch len(out) {
	case 0:
		return value.Null, nil
	case 1:
		return box(0, out[0]), nil
	}
	vals := make([]value.Value, len(out))
	for i, rv := range out {
		vals[i] = box(i, rv)
	}
	return value.Ref(vals), nil
}

// instance extracts the new instance from constructor outputs. A T
// returned by value is copied into a fresh *T.
func instance(index int, out []reflect.Value, returnsError, byValue bool, t reflect.Type) (any, error) {
	if returnsError {
		if last := out[len(out)-1]; !last.IsNil() {
			return nil, errInvocation(OpNewInstance, index, last.Interface().(error))
		}
	}
	rv := out[0]
	if byValue {
		p := reflect.New(t)
		p.Elem().Set(rv)
		return p.Interface(), nil
	}
	return rv.Interface(), nil
}
