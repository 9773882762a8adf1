package klass

import (
	"reflect"

	"github.com/funvibe/klass/pkg/value"
)

// ReflectAccessor dispatches every call through plain reflection, looking
// members up by name and inspecting types per call. It is observably
// equivalent to CompiledAccessor and serves as its reference.
type ReflectAccessor struct {
	klass *KlassInfo
}

// NewReflectAccessor returns the reflective accessor of k.
func NewReflectAccessor(k *KlassInfo) *ReflectAccessor {
	return &ReflectAccessor{klass: k}
}

// field resolves the named field of the struct behind rv.
func (a *ReflectAccessor) field(op string, index int, rv reflect.Value, f *FieldInfo) (reflect.StructField, reflect.Value, error) {
	elem := rv.Elem()
	sf, _ := elem.Type().FieldByName(f.name)
	fv, err := elem.FieldByIndexErr(sf.Index)
	if err != nil {
		return sf, reflect.Value{}, errInvocation(op, index, err)
	}
	return sf, fv, nil
}

func (a *ReflectAccessor) Get(target any, index int) (value.Value, error) {
	if err := checkIndex(OpGet, index, len(a.klass.fields)); err != nil {
		return value.Null, err
	}
	f := a.klass.fields[index]
	if f.IsStatic() {
		return value.FromReflect(f.ptr.Elem()), nil
	}
	rv, err := castTarget(a.klass, OpGet, index, target)
	if err != nil {
		return value.Null, err
	}
	_, fv, err := a.field(OpGet, index, rv, f)
	if err != nil {
		return value.Null, err
	}
	return value.FromReflect(fv), nil
}

func (a *ReflectAccessor) Set(target any, index int, v value.Value) error {
	if err := checkIndex(OpSet, index, len(a.klass.fields)); err != nil {
		return err
	}
	f := a.klass.fields[index]
	if f.IsStatic() {
		dst := f.ptr.Elem()
		cv, err := value.Coerce(v, dst.Type())
		if err != nil {
			return errCoercion(OpSet, index, -1, err)
		}
		dst.Set(cv)
		return nil
	}
	rv, err := castTarget(a.klass, OpSet, index, target)
	if err != nil {
		return err
	}
	sf, _ := rv.Elem().Type().FieldByName(f.name)
	cv, err := value.Coerce(v, sf.Type)
	if err != nil {
		return errCoercion(OpSet, index, -1, err)
	}
	_, fv, err := a.field(OpSet, index, rv, f)
	if err != nil {
		return err
	}
	fv.Set(cv)
	return nil
}

func (a *ReflectAccessor) Invoke(target any, index int, args []value.Value) (value.Value, error) {
	if args == nil {
		return value.Null, errNullArguments(OpInvoke, index)
	}
	if err := checkIndex(OpInvoke, index, len(a.klass.methods)); err != nil {
		return value.Null, err
	}
	m := a.klass.methods[index]
	if len(args) != len(m.params) {
		return value.Null, errArgumentCount(OpInvoke, index, len(m.params), len(args))
	}

	fn := m.fn
	if !m.static {
		rv, err := castTarget(a.klass, OpInvoke, index, target)
		if err != nil {
			return value.Null, err
		}
		fn = rv.MethodByName(m.name)
	}
	ft := fn.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		cv, err := value.Coerce(arg, ft.In(i))
		if err != nil {
			return value.Null, errCoercion(OpInvoke, index, i, err)
		}
		in[i] = cv
	}
	out, err := call(fn, in, ft.IsVariadic())
	if err != nil {
		return value.Null, errInvocation(OpInvoke, index, err)
	}
	return results(OpInvoke, index, out, returnsError(ft), nil)
}

func (a *ReflectAccessor) NewInstance(index int, args []value.Value) (any, error) {
	if args == nil {
		return nil, errNullArguments(OpNewInstance, index)
	}
	if err := checkIndex(OpNewInstance, index, len(a.klass.ctors)); err != nil {
		return nil, err
	}
	c := a.klass.ctors[index]
	if len(args) != len(c.params) {
		return nil, errArgumentCount(OpNewInstance, index, len(c.params), len(args))
	}
	t := a.klass.typ
	if c.IsDefault() {
		return reflect.New(t).Interface(), nil
	}

	ft := c.fn.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		cv, err := value.Coerce(arg, ft.In(i))
		if err != nil {
			return nil, errCoercion(OpNewInstance, index, i, err)
		}
		in[i] = cv
	}
	out, err := call(c.fn, in, ft.IsVariadic())
	if err != nil {
		return nil, errInvocation(OpNewInstance, index, err)
	}
	byValue := ft.Out(0) == t && t.Kind() != reflect.Interface
	return instance(index, out, returnsError(ft), byValue, t)
}

func returnsError(ft reflect.Type) bool {
	n := ft.NumOut()
	return n > 0 && ft.Out(n-1) == errorType
}
