package klass_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/funvibe/klass/pkg/klass"
	"github.com/funvibe/klass/pkg/value"
)

func TestProtobufMessage(t *testing.T) {
	k, err := klass.Of[timestamppb.Timestamp]()
	require.NoError(t, err)

	_, ok := k.Field("state")
	require.False(t, ok)
	seconds, ok := k.Field("Seconds")
	require.True(t, ok)
	nanos, ok := k.Field("Nanos")
	require.True(t, ok)

	ctor, ok := k.Constructor()
	require.True(t, ok)
	require.True(t, ctor.IsDefault())
	inst, err := ctor.NewInstance()
	require.NoError(t, err)
	ts := inst.(*timestamppb.Timestamp)

	require.NoError(t, seconds.Set(ts, value.Int64(1_700_000_000)))
	require.NoError(t, nanos.Set(ts, value.Int(500)))
	require.Equal(t, int64(1_700_000_000), ts.GetSeconds())
	require.Equal(t, int32(500), ts.GetNanos())

	getSeconds, ok := k.Method("GetSeconds")
	require.True(t, ok)
	v, err := getSeconds.Invoke(ts)
	require.NoError(t, err)
	require.Equal(t, value.Int64(1_700_000_000), v)

	asTime, ok := k.Method("AsTime")
	require.True(t, ok)
	v, err = asTime.Invoke(ts)
	require.NoError(t, err)
	got, err := value.To[time.Time](v)
	require.NoError(t, err)
	require.True(t, got.Equal(time.Unix(1_700_000_000, 500)))

	isValid, ok := k.Method("IsValid")
	require.True(t, ok)
	v, err = isValid.Invoke(ts)
	require.NoError(t, err)
	require.Equal(t, value.True, v)

	_, err = getSeconds.Invoke(time.Now())
	require.ErrorIs(t, err, klass.ErrTypeCoercion)
}

func TestUUIDArrayType(t *testing.T) {
	k, err := klass.Of[uuid.UUID]()
	require.NoError(t, err)
	require.Empty(t, k.Fields())

	u := uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")

	str, ok := k.Method("String")
	require.True(t, ok)
	v, err := str.Invoke(&u)
	require.NoError(t, err)
	require.Equal(t, value.String("f47ac10b-58cc-4372-a567-0e02b2c3d479"), v)

	version, ok := k.Method("Version")
	require.True(t, ok)
	v, err = version.Invoke(&u)
	require.NoError(t, err)
	require.Equal(t, value.Uint8(4), v)

	inst, err := k.Constructors()[0].NewInstance()
	require.NoError(t, err)
	fresh := inst.(*uuid.UUID)
	require.Equal(t, uuid.Nil, *fresh)

	unmarshal, ok := k.Method("UnmarshalText")
	require.True(t, ok)
	v, err = unmarshal.Invoke(fresh, value.Ref([]byte(u.String())))
	require.NoError(t, err)
	require.True(t, v.IsNull())
	require.Equal(t, u, *fresh)

	_, err = unmarshal.Invoke(fresh, value.Ref([]byte("not-a-uuid")))
	require.ErrorIs(t, err, klass.ErrTargetInvocation)
}
