// Package value implements the universal value representation used at the
// klass dispatch boundary.
//
// A Value is a closed tagged union over the Go basic kinds plus a reference
// variant. Host values are boxed into a Value when they leave a dispatcher
// and coerced back to the declared Go type when they enter one.
package value

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindUintptr
	KindFloat32
	KindFloat64
	KindComplex64
	KindComplex128
	KindString
	KindRef
)

var kindNames = [...]string{
	KindNull:       "null",
	KindBool:       "bool",
	KindInt:        "int",
	KindInt8:       "int8",
	KindInt16:      "int16",
	KindInt32:      "int32",
	KindInt64:      "int64",
	KindUint:       "uint",
	KindUint8:      "uint8",
	KindUint16:     "uint16",
	KindUint32:     "uint32",
	KindUint64:     "uint64",
	KindUintptr:    "uintptr",
	KindFloat32:    "float32",
	KindFloat64:    "float64",
	KindComplex64:  "complex64",
	KindComplex128: "complex128",
	KindString:     "string",
	KindRef:        "ref",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool { return k >= KindInt && k <= KindInt64 }

// IsUnsigned reports whether k is an unsigned integer kind.
func (k Kind) IsUnsigned() bool { return k >= KindUint && k <= KindUintptr }

// IsFloat reports whether k is a floating point kind.
func (k Kind) IsFloat() bool { return k == KindFloat32 || k == KindFloat64 }

// IsComplex reports whether k is a complex kind.
func (k Kind) IsComplex() bool { return k == KindComplex64 || k == KindComplex128 }

// IsReal reports whether k is an integer or floating point kind.
func (k Kind) IsReal() bool { return k.IsSigned() || k.IsUnsigned() || k.IsFloat() }

// IsNumeric reports whether k is any numeric kind, complex included.
func (k Kind) IsNumeric() bool { return k.IsReal() || k.IsComplex() }

// Value is the boxed form of a host value.
//
// Integers, booleans and floats live in bits; strings, complex numbers and
// references live in ref. The zero Value is Null.
type Value struct {
	kind Kind
	bits uint64
	ref  any
}

var (
	Null  = Value{}
	True  = Value{kind: KindBool, bits: 1}
	False = Value{kind: KindBool}
)

func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

func Int(n int) Value { return Value{kind: KindInt, bits: uint64(int64(n))} }
func Int8(n int8) Value { return Value{kind: KindInt8, bits: uint64(int64(n))} }
func Int16(n int16) Value { return Value{kind: KindInt16, bits: uint64(int64(n))} }
func Int32(n int32) Value { return Value{kind: KindInt32, bits: uint64(int64(n))} }
func Int64(n int64) Value { return Value{kind: KindInt64, bits: uint64(n)} }
func Uint(n uint) Value { return Value{kind: KindUint, bits: uint64(n)} }
func Uint8(n uint8) Value { return Value{kind: KindUint8, bits: uint64(n)} }
func Uint16(n uint16) Value { return Value{kind: KindUint16, bits: uint64(n)} }
func Uint32(n uint32) Value { return Value{kind: KindUint32, bits: uint64(n)} }
func Uint64(n uint64) Value { return Value{kind: KindUint64, bits: n} }
func Uintptr(n uintptr) Value { return Value{kind: KindUintptr, bits: uint64(n)} }

func Float32(f float32) Value { return Value{kind: KindFloat32, bits: uint64(math.Float32bits(f))} }
func Float64(f float64) Value { return Value{kind: KindFloat64, bits: math.Float64bits(f)} }

func Complex64(c complex64) Value { return Value{kind: KindComplex64, ref: c} }
func Complex128(c complex128) Value { return Value{kind: KindComplex128, ref: c} }

func String(s string) Value { return Value{kind: KindString, ref: s} }

// Ref wraps x as a reference without inspecting it. A nil x yields Null.
// Use Of to box values of basic kinds.
func Ref(x any) Value {
	if x == nil {
		return Null
	}
	return Value{kind: KindRef, ref: x}
}

// Kind returns the tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Interface returns the Go value carried by v. Null yields nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.bits != 0
	case KindInt:
		return int(int64(v.bits))
	case KindInt8:
		return int8(int64(v.bits))
	case KindInt16:
		return int16(int64(v.bits))
	case KindInt32:
		return int32(int64(v.bits))
	case KindInt64:
		return int64(v.bits)
	case KindUint:
		return uint(v.bits)
	case KindUint8:
		return uint8(v.bits)
	case KindUint16:
		return uint16(v.bits)
	case KindUint32:
		return uint32(v.bits)
	case KindUint64:
		return v.bits
	case KindUintptr:
		return uintptr(v.bits)
	case KindFloat32:
		return math.Float32frombits(uint32(v.bits))
	case KindFloat64:
		return math.Float64frombits(v.bits)
	default:
		return v.ref
	}
}

// BoolValue unboxes a bool. Only KindBool is accepted.
func (v Value) BoolValue() (bool, error) {
	if v.kind != KindBool {
		return false, newCoercionError(v, "bool")
	}
	return v.bits != 0, nil
}

// IntValue unboxes any real numeric value as int64 using Go conversion rules.
func (v Value) IntValue() (int64, error) {
	switch {
	case v.kind.IsSigned(), v.kind.IsUnsigned():
		return int64(v.bits), nil
	case v.kind == KindFloat32:
		return int64(math.Float32frombits(uint32(v.bits))), nil
	case v.kind == KindFloat64:
		return int64(math.Float64frombits(v.bits)), nil
	}
	return 0, newCoercionError(v, "int64")
}

// UintValue unboxes any real numeric value as uint64 using Go conversion rules.
func (v Value) UintValue() (uint64, error) {
	switch {
	case v.kind.IsSigned(), v.kind.IsUnsigned():
		return v.bits, nil
	case v.kind == KindFloat32:
		return uint64(math.Float32frombits(uint32(v.bits))), nil
	case v.kind == KindFloat64:
		return uint64(math.Float64frombits(v.bits)), nil
	}
	return 0, newCoercionError(v, "uint64")
}

// FloatValue unboxes any real numeric value as float64.
func (v Value) FloatValue() (float64, error) {
	switch {
	case v.kind.IsSigned():
		return float64(int64(v.bits)), nil
	case v.kind.IsUnsigned():
		return float64(v.bits), nil
	case v.kind == KindFloat32:
		return float64(math.Float32frombits(uint32(v.bits))), nil
	case v.kind == KindFloat64:
		return math.Float64frombits(v.bits), nil
	}
	return 0, newCoercionError(v, "float64")
}

// ComplexValue unboxes any numeric value as complex128. Real values get a
// zero imaginary part.
func (v Value) ComplexValue() (complex128, error) {
	switch v.kind {
	case KindComplex64:
		return complex128(v.ref.(complex64)), nil
	case KindComplex128:
		return v.ref.(complex128), nil
	}
	f, err := v.FloatValue()
	if err != nil {
		return 0, newCoercionError(v, "complex128")
	}
	return complex(f, 0), nil
}

// StringValue unboxes a string. Only KindString is accepted.
func (v Value) StringValue() (string, error) {
	if v.kind != KindString {
		return "", newCoercionError(v, "string")
	}
	return v.ref.(string), nil
}

// Equal reports whether v and o carry the same kind and payload.
// References compare with reflect.DeepEqual.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindComplex64, KindComplex128, KindString:
		return v.ref == o.ref
	case KindRef:
		return reflect.DeepEqual(v.ref, o.ref)
	default:
		return v.bits == o.bits
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.ref.(string))
	case KindRef:
		return fmt.Sprintf("<%T %v>", v.ref, v.ref)
	default:
		return fmt.Sprint(v.Interface())
	}
}

// typeName describes the dynamic type of v for error messages.
func (v Value) typeName() string {
	if v.kind == KindRef {
		return reflect.TypeOf(v.ref).String()
	}
	return v.kind.String()
}
