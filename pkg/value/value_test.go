package value

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type celsius float64

type named struct {
	A int
}

func TestKinds(t *testing.T) {
	require.True(t, KindInt32.IsSigned())
	require.True(t, KindUintptr.IsUnsigned())
	require.True(t, KindFloat32.IsFloat())
	require.True(t, KindComplex64.IsComplex())
	require.True(t, KindUint8.IsReal())
	require.False(t, KindComplex128.IsReal())
	require.True(t, KindComplex128.IsNumeric())
	require.False(t, KindString.IsNumeric())
	require.Equal(t, "uint16", KindUint16.String())
	require.Equal(t, "kind(200)", Kind(200).String())
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	require.True(t, v.IsNull())
	require.Nil(t, v.Interface())
	require.Equal(t, Null, Ref(nil))
	require.Equal(t, "null", v.String())
}

func TestInterfaceRestoresGoType(t *testing.T) {
	tests := []struct {
		v    Value
		want any
	}{
		{Bool(true), true},
		{Int(-1), -1},
		{Int8(-2), int8(-2)},
		{Int16(-3), int16(-3)},
		{Int32(-4), int32(-4)},
		{Int64(math.MinInt64), int64(math.MinInt64)},
		{Uint(1), uint(1)},
		{Uint8(2), uint8(2)},
		{Uint16(3), uint16(3)},
		{Uint32(4), uint32(4)},
		{Uint64(math.MaxUint64), uint64(math.MaxUint64)},
		{Uintptr(5), uintptr(5)},
		{Float32(1.25), float32(1.25)},
		{Float64(-0.5), -0.5},
		{Complex64(1i), complex64(1i)},
		{Complex128(2 + 1i), 2 + 1i},
		{String("s"), "s"},
	}
	for _, tt := range tests {
		t.Run(tt.v.Kind().String(), func(t *testing.T) {
			require.Equal(t, tt.want, tt.v.Interface())
		})
	}
}

func TestUnboxing(t *testing.T) {
	n, err := Float64(3.9).IntValue()
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	u, err := Int(-1).UintValue()
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), u)

	f, err := Uint8(200).FloatValue()
	require.NoError(t, err)
	require.Equal(t, 200.0, f)

	c, err := Int(2).ComplexValue()
	require.NoError(t, err)
	require.Equal(t, complex(2, 0), c)

	_, err = Complex64(1i).FloatValue()
	require.ErrorIs(t, err, ErrCoercion)

	// booleans and strings are never converted
	_, err = Int(1).BoolValue()
	require.ErrorIs(t, err, ErrCoercion)
	_, err = Bool(true).IntValue()
	require.ErrorIs(t, err, ErrCoercion)
	_, err = Int(1).StringValue()
	require.ErrorIs(t, err, ErrCoercion)
	_, err = Null.StringValue()
	require.EqualError(t, err, "type coercion failed: cannot use null as string")
}

func TestBoxerMatchesFromReflect(t *testing.T) {
	var stringer interface{ String() string } = time.Second
	samples := []any{
		true, 7, int8(-8), int16(16), int32(-32), int64(64),
		uint(1), uint8(8), uint16(16), uint32(32), uint64(64), uintptr(9),
		float32(1.5), 2.5, complex64(1 + 1i), complex128(2 - 2i), "s",
		celsius(36.6), named{A: 1}, &named{A: 2}, []int{1}, map[string]int{"a": 1},
		(*named)(nil), []int(nil), time.Second,
	}
	for _, x := range samples {
		rv := reflect.ValueOf(x)
		require.True(t, BoxerFor(rv.Type())(rv).Equal(FromReflect(rv)), "%T", x)
		require.True(t, Of(x).Equal(FromReflect(rv)), "%T", x)
	}

	field := reflect.ValueOf(&struct{ S interface{ String() string } }{stringer}).Elem().Field(0)
	require.Equal(t, Ref(time.Second), BoxerFor(field.Type())(field))
	require.Equal(t, Ref(time.Second), FromReflect(field))

	// only predeclared types held by an interface become primitives
	held := reflect.ValueOf(&struct{ A any }{A: 7}).Elem().Field(0)
	require.Equal(t, Int(7), BoxerFor(held.Type())(held))
	held = reflect.ValueOf(&struct{ A any }{A: celsius(1.5)}).Elem().Field(0)
	require.Equal(t, Ref(celsius(1.5)), BoxerFor(held.Type())(held))
	held = reflect.ValueOf(&struct{ A any }{A: named{A: 1}}).Elem().Field(0)
	require.Equal(t, Ref(named{A: 1}), FromReflect(held))

	field = reflect.ValueOf(&struct{ A any }{}).Elem().Field(0)
	require.True(t, BoxerFor(field.Type())(field).IsNull())
}

func TestBoxing(t *testing.T) {
	require.Equal(t, Float64(36.6), Of(celsius(36.6)))
	require.Equal(t, Null, Of((*named)(nil)))
	require.Equal(t, Null, Of([]int(nil)))
	require.Equal(t, KindRef, Of(named{}).Kind())
	require.Equal(t, Int(3), Of(Int(3)))
	require.Equal(t, Null, FromReflect(reflect.Value{}))
}

func TestCoerce(t *testing.T) {
	rv, err := Coerce(Int(3), reflect.TypeFor[celsius]())
	require.NoError(t, err)
	require.Equal(t, celsius(3), rv.Interface())

	rv, err = Coerce(Int(300), reflect.TypeFor[int8]())
	require.NoError(t, err)
	require.Equal(t, int8(44), rv.Interface())

	rv, err = Coerce(Null, reflect.TypeFor[*named]())
	require.NoError(t, err)
	require.True(t, rv.IsNil())

	_, err = Coerce(Null, reflect.TypeFor[named]())
	require.ErrorIs(t, err, ErrCoercion)

	_, err = Coerce(Ref(&named{}), reflect.TypeFor[named]())
	var ce *CoercionError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, "*value.named", ce.From)
	require.Equal(t, "value.named", ce.To)

	rv, err = Coerce(String("x"), reflect.TypeFor[any]())
	require.NoError(t, err)
	require.Equal(t, reflect.Interface, rv.Kind())
	require.Equal(t, "x", rv.Interface())

	rv, err = Coerce(Ref(time.Second), reflect.TypeFor[interface{ String() string }]())
	require.NoError(t, err)
	require.Equal(t, "1s", rv.Interface().(interface{ String() string }).String())
}

func TestTo(t *testing.T) {
	n, err := To[int](Float64(2.5))
	require.NoError(t, err)
	require.Equal(t, 2, n)

	p, err := To[*named](Null)
	require.NoError(t, err)
	require.Nil(t, p)

	x, err := To[any](Null)
	require.NoError(t, err)
	require.Nil(t, x)

	_, err = To[string](Int(1))
	require.ErrorIs(t, err, ErrCoercion)
}

func TestEqual(t *testing.T) {
	require.True(t, Int(1).Equal(Int(1)))
	require.False(t, Int(1).Equal(Int64(1)))
	require.True(t, Ref([]int{1}).Equal(Ref([]int{1})))
	require.False(t, String("a").Equal(String("b")))
	require.True(t, Null.Equal(Value{}))
	require.Equal(t, `"a"`, String("a").String())
	require.Equal(t, "<[]int [1]>", Ref([]int{1}).String())
}
