package value

import "reflect"

// Boxer converts a host value of one fixed Go type into a Value.
type Boxer func(reflect.Value) Value

// basicBoxers holds one canonical boxing function per basic reflect.Kind.
var basicBoxers = [...]Boxer{
	reflect.Bool:       func(rv reflect.Value) Value { return Bool(rv.Bool()) },
	reflect.Int:        func(rv reflect.Value) Value { return Int(int(rv.Int())) },
	reflect.Int8:       func(rv reflect.Value) Value { return Int8(int8(rv.Int())) },
	reflect.Int16:      func(rv reflect.Value) Value { return Int16(int16(rv.Int())) },
	reflect.Int32:      func(rv reflect.Value) Value { return Int32(int32(rv.Int())) },
	reflect.Int64:      func(rv reflect.Value) Value { return Int64(rv.Int()) },
	reflect.Uint:       func(rv reflect.Value) Value { return Uint(uint(rv.Uint())) },
	reflect.Uint8:      func(rv reflect.Value) Value { return Uint8(uint8(rv.Uint())) },
	reflect.Uint16:     func(rv reflect.Value) Value { return Uint16(uint16(rv.Uint())) },
	reflect.Uint32:     func(rv reflect.Value) Value { return Uint32(uint32(rv.Uint())) },
	reflect.Uint64:     func(rv reflect.Value) Value { return Uint64(rv.Uint()) },
	reflect.Uintptr:    func(rv reflect.Value) Value { return Uintptr(uintptr(rv.Uint())) },
	reflect.Float32:    func(rv reflect.Value) Value { return Float32(float32(rv.Float())) },
	reflect.Float64:    func(rv reflect.Value) Value { return Float64(rv.Float()) },
	reflect.Complex64:  func(rv reflect.Value) Value { return Complex64(complex64(rv.Complex())) },
	reflect.Complex128: func(rv reflect.Value) Value { return Complex128(rv.Complex()) },
	reflect.String:     func(rv reflect.Value) Value { return String(rv.String()) },
}

func basicBoxer(k reflect.Kind) Boxer {
	if int(k) < len(basicBoxers) {
		return basicBoxers[k]
	}
	return nil
}

// BoxerFor returns the boxing function for values of static type t.
// The kind switch happens once, here, instead of on every call.
func BoxerFor(t reflect.Type) Boxer {
	if box := basicBoxer(t.Kind()); box != nil {
		return box
	}
	switch t.Kind() {
	case reflect.Interface:
		return boxInterface
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return boxNillable
	default:
		return boxRef
	}
}

// FromReflect boxes rv, inspecting its kind on every call.
func FromReflect(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Null
	}
	if box := basicBoxer(rv.Kind()); box != nil {
		return box(rv)
	}
	switch rv.Kind() {
	case reflect.Interface:
		return boxInterface(rv)
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return boxNillable(rv)
	default:
		return boxRef(rv)
	}
}

// Of boxes an arbitrary Go value. Basic kinds, named or not, become
// primitive variants; nil and nil references become Null.
func Of(x any) Value {
	switch x := x.(type) {
	case nil:
		return Null
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int64:
		return Int64(x)
	case float64:
		return Float64(x)
	case string:
		return String(x)
	}
	return FromReflect(reflect.ValueOf(x))
}

// boxInterface boxes the dynamic value held by an interface. Only
// predeclared basic types become primitive variants; a defined type such
// as time.Duration stays a Ref so that it can be stored back into the same
// interface.
func boxInterface(rv reflect.Value) Value {
	if rv.IsNil() {
		return Null
	}
	elem := rv.Elem()
	if basicBoxer(elem.Kind()) != nil && elem.Type().PkgPath() != "" {
		return boxRef(elem)
	}
	return FromReflect(elem)
}

func boxNillable(rv reflect.Value) Value {
	if rv.IsNil() {
		return Null
	}
	return Ref(rv.Interface())
}

func boxRef(rv reflect.Value) Value {
	return Ref(rv.Interface())
}
