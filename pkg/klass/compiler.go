package klass

import (
	"reflect"
	"unsafe"

	"github.com/funvibe/klass/pkg/value"
)

// CompiledAccessor dispatches through per-member slots prepared once by
// Compile. Field type, boxing and coercion are decided at compile time;
// fields of basic kind reachable without pointer indirection are read and
// written at a fixed offset from the instance pointer.
type CompiledAccessor struct {
	klass   *KlassInfo
	fields  []fieldSlot
	methods []methodSlot
	ctors   []ctorSlot
}

type (
	loadFunc  func(unsafe.Pointer) value.Value
	storeFunc func(unsafe.Pointer, value.Value) error
)

type fieldSlot struct {
	typ    reflect.Type
	static bool
	direct bool          // addressable at base+offset
	base   unsafe.Pointer // static variable address
	offset uintptr
	path   []int
	load   loadFunc  // basic kinds on direct slots only
	store  storeFunc // basic kinds on direct slots only
	box    value.Boxer
	coerce value.Coercer
}

type methodSlot struct {
	fn           reflect.Value
	static       bool
	iface        bool
	slot         int
	variadic     bool
	returnsError bool
	coerce       []value.Coercer
	box          []value.Boxer
}

type ctorSlot struct {
	fn           reflect.Value
	variadic     bool
	returnsError bool
	byValue      bool
	coerce       []value.Coercer
}

// Compile prepares a dispatcher for k.
func Compile(k *KlassInfo) *CompiledAccessor {
	a := &CompiledAccessor{
		klass:   k,
		fields:  make([]fieldSlot, len(k.fields)),
		methods: make([]methodSlot, len(k.methods)),
		ctors:   make([]ctorSlot, len(k.ctors)),
	}

	for i, f := range k.fields {
		s := fieldSlot{
			typ:    f.typ,
			box:    value.BoxerFor(f.typ),
			coerce: value.CoercerFor(f.typ),
		}
		if f.IsStatic() {
			s.static = true
			s.direct = true
			s.base = f.ptr.UnsafePointer()
		} else {
			s.path = f.path
			s.offset, s.direct = fieldOffset(k.typ, f.path)
		}
		if s.direct {
			s.load, s.store = rawAccess(f.typ)
		}
		a.fields[i] = s
	}

	for i, m := range k.methods {
		s := methodSlot{
			fn:           m.fn,
			static:       m.static,
			iface:        m.iface,
			slot:         m.slot,
			variadic:     m.variadic,
			returnsError: m.returnsError,
			coerce:       make([]value.Coercer, len(m.params)),
			box:          make([]value.Boxer, len(m.results)),
		}
		for j, p := range m.params {
			s.coerce[j] = value.CoercerFor(p)
		}
		for j, r := range m.results {
			s.box[j] = value.BoxerFor(r)
		}
		a.methods[i] = s
	}

	for i, c := range k.ctors {
		s := ctorSlot{
			fn:           c.fn,
			variadic:     c.variadic,
			returnsError: c.returnsError,
			byValue:      c.byValue,
			coerce:       make([]value.Coercer, len(c.params)),
		}
		for j, p := range c.params {
			s.coerce[j] = value.CoercerFor(p)
		}
		a.ctors[i] = s
	}
	return a
}

func (a *CompiledAccessor) Get(target any, index int) (value.Value, error) {
	if err := checkIndex(OpGet, index, len(a.fields)); err != nil {
		return value.Null, err
	}
	s := &a.fields[index]
	if s.static {
		return s.read(s.base), nil
	}
	rv, err := castTarget(a.klass, OpGet, index, target)
	if err != nil {
		return value.Null, err
	}
	if s.direct {
		return s.read(unsafe.Add(rv.UnsafePointer(), s.offset)), nil
	}
	fv, err := rv.Elem().FieldByIndexErr(s.path)
	if err != nil {
		return value.Null, errInvocation(OpGet, index, err)
	}
	return s.box(fv), nil
}

func (a *CompiledAccessor) Set(target any, index int, v value.Value) error {
	if err := checkIndex(OpSet, index, len(a.fields)); err != nil {
		return err
	}
	s := &a.fields[index]
	if s.static {
		return s.write(s.base, index, v)
	}
	rv, err := castTarget(a.klass, OpSet, index, target)
	if err != nil {
		return err
	}
	if s.direct {
		return s.write(unsafe.Add(rv.UnsafePointer(), s.offset), index, v)
	}
	cv, err := s.coerce(v)
	if err != nil {
		return errCoercion(OpSet, index, -1, err)
	}
	fv, err := rv.Elem().FieldByIndexErr(s.path)
	if err != nil {
		return errInvocation(OpSet, index, err)
	}
	fv.Set(cv)
	return nil
}

func (s *fieldSlot) read(p unsafe.Pointer) value.Value {
	if s.load != nil {
		return s.load(p)
	}
	return s.box(reflect.NewAt(s.typ, p).Elem())
}

func (s *fieldSlot) write(p unsafe.Pointer, index int, v value.Value) error {
	if s.store != nil {
		if err := s.store(p, v); err != nil {
			return errCoercion(OpSet, index, -1, err)
		}
		return nil
	}
	cv, err := s.coerce(v)
	if err != nil {
		return errCoercion(OpSet, index, -1, err)
	}
	reflect.NewAt(s.typ, p).Elem().Set(cv)
	return nil
}

func (a *CompiledAccessor) Invoke(target any, index int, args []value.Value) (value.Value, error) {
	if args == nil {
		return value.Null, errNullArguments(OpInvoke, index)
	}
	if err := checkIndex(OpInvoke, index, len(a.methods)); err != nil {
		return value.Null, err
	}
	s := &a.methods[index]
	if len(args) != len(s.coerce) {
		return value.Null, errArgumentCount(OpInvoke, index, len(s.coerce), len(args))
	}

	fn := s.fn
	in := make([]reflect.Value, 0, len(args)+1)
	switch {
	case s.static:
	case s.iface:
		rv, err := castTarget(a.klass, OpInvoke, index, target)
		if err != nil {
			return value.Null, err
		}
		iv := reflect.New(a.klass.typ).Elem()
		iv.Set(rv)
		fn = iv.Method(s.slot)
	default:
		rv, err := castTarget(a.klass, OpInvoke, index, target)
		if err != nil {
			return value.Null, err
		}
		in = append(in, rv)
	}

	for i, arg := range args {
		cv, err := s.coerce[i](arg)
		if err != nil {
			return value.Null, errCoercion(OpInvoke, index, i, err)
		}
		in = append(in, cv)
	}
	out, err := call(fn, in, s.variadic)
	if err != nil {
		return value.Null, errInvocation(OpInvoke, index, err)
	}
	return results(OpInvoke, index, out, s.returnsError, s.box)
}

func (a *CompiledAccessor) NewInstance(index int, args []value.Value) (any, error) {
	if args == nil {
		return nil, errNullArguments(OpNewInstance, index)
	}
	if err := checkIndex(OpNewInstance, index, len(a.ctors)); err != nil {
		return nil, err
	}
	s := &a.ctors[index]
	if len(args) != len(s.coerce) {
		return nil, errArgumentCount(OpNewInstance, index, len(s.coerce), len(args))
	}
	if !s.fn.IsValid() {
		return reflect.New(a.klass.typ).Interface(), nil
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		cv, err := s.coerce[i](arg)
		if err != nil {
			return nil, errCoercion(OpNewInstance, index, i, err)
		}
		in[i] = cv
	}
	out, err := call(s.fn, in, s.variadic)
	if err != nil {
		return nil, errInvocation(OpNewInstance, index, err)
	}
	return instance(index, out, s.returnsError, s.byValue, a.klass.typ)
}

// fieldOffset sums field offsets along path. It reports false when the
// path crosses an embedded pointer.
func fieldOffset(t reflect.Type, path []int) (uintptr, bool) {
	var off uintptr
	for i, idx := range path {
		sf := t.Field(idx)
		off += sf.Offset
		if i == len(path)-1 {
			break
		}
		if sf.Type.Kind() != reflect.Struct {
			return 0, false
		}
		t = sf.Type
	}
	return off, true
}

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// rawAccess returns load and store functions for fields of basic kind.
func rawAccess(t reflect.Type) (loadFunc, storeFunc) {
	switch t.Kind() {
	case reflect.Bool:
		return func(p unsafe.Pointer) value.Value { return value.Bool(*(*bool)(p)) },
			func(p unsafe.Pointer, v value.Value) error {
				b, err := v.BoolValue()
				if err != nil {
					return value.NewCoercionError(v, t)
				}
				*(*bool)(p) = b
				return nil
			}
	case reflect.Int:
		return signedAccess(t, value.Int)
	case reflect.Int8:
		return signedAccess(t, value.Int8)
	case reflect.Int16:
		return signedAccess(t, value.Int16)
	case reflect.Int32:
		return signedAccess(t, value.Int32)
	case reflect.Int64:
		return signedAccess(t, value.Int64)
	case reflect.Uint:
		return unsignedAccess(t, value.Uint)
	case reflect.Uint8:
		return unsignedAccess(t, value.Uint8)
	case reflect.Uint16:
		return unsignedAccess(t, value.Uint16)
	case reflect.Uint32:
		return unsignedAccess(t, value.Uint32)
	case reflect.Uint64:
		return unsignedAccess(t, value.Uint64)
	case reflect.Uintptr:
		return unsignedAccess(t, value.Uintptr)
	case reflect.Float32:
		return floatAccess(t, value.Float32)
	case reflect.Float64:
		return floatAccess(t, value.Float64)
	case reflect.Complex64:
		return complexAccess(t, value.Complex64)
	case reflect.Complex128:
		return complexAccess(t, value.Complex128)
	case reflect.String:
		return func(p unsafe.Pointer) value.Value { return value.String(*(*string)(p)) },
			func(p unsafe.Pointer, v value.Value) error {
				s, err := v.StringValue()
				if err != nil {
					return value.NewCoercionError(v, t)
				}
				*(*string)(p) = s
				return nil
			}
	}
	return nil, nil
}

func signedAccess[T signed](t reflect.Type, box func(T) value.Value) (loadFunc, storeFunc) {
	return func(p unsafe.Pointer) value.Value { return box(*(*T)(p)) },
		func(p unsafe.Pointer, v value.Value) error {
			n, err := v.IntValue()
			if err != nil {
				return value.NewCoercionError(v, t)
			}
			*(*T)(p) = T(n)
			return nil
		}
}

func unsignedAccess[T unsigned](t reflect.Type, box func(T) value.Value) (loadFunc, storeFunc) {
	return func(p unsafe.Pointer) value.Value { return box(*(*T)(p)) },
		func(p unsafe.Pointer, v value.Value) error {
			n, err := v.UintValue()
			if err != nil {
				return value.NewCoercionError(v, t)
			}
			*(*T)(p) = T(n)
			return nil
		}
}

func floatAccess[T ~float32 | ~float64](t reflect.Type, box func(T) value.Value) (loadFunc, storeFunc) {
	return func(p unsafe.Pointer) value.Value { return box(*(*T)(p)) },
		func(p unsafe.Pointer, v value.Value) error {
			f, err := v.FloatValue()
			if err != nil {
				return value.NewCoercionError(v, t)
			}
			*(*T)(p) = T(f)
			return nil
		}
}

func complexAccess[T ~complex64 | ~complex128](t reflect.Type, box func(T) value.Value) (loadFunc, storeFunc) {
	return func(p unsafe.Pointer) value.Value { return box(*(*T)(p)) },
		func(p unsafe.Pointer, v value.Value) error {
			c, err := v.ComplexValue()
			if err != nil {
				return value.NewCoercionError(v, t)
			}
			*(*T)(p) = T(c)
			return nil
		}
}
