package wsm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	testCases := []struct {
		name   string
		kind   Kind
		in     interface{}
		expect Value
		fail   bool
	}{
		{name: "int", kind: KindInt, in: 42, expect: IntValue(42)},
		{name: "int from int64", kind: KindInt, in: int64(-7), expect: IntValue(-7)},
		{name: "int from uint8", kind: KindInt, in: uint8(200), expect: IntValue(200)},
		{name: "int from bool", kind: KindInt, in: true, expect: IntValue(1)},
		{name: "int from float", kind: KindInt, in: 1.5, fail: true},
		{name: "int from string", kind: KindInt, in: "12", fail: true},
		{name: "int overflow", kind: KindInt, in: int64(math.MaxInt32) + 1, fail: true},
		{name: "int from huge uint64", kind: KindInt, in: uint64(math.MaxUint64), fail: true},
		{name: "int from nil", kind: KindInt, in: nil, fail: true},
		{name: "float from int", kind: KindFloat32, in: 3, expect: Float32Value(3)},
		{name: "float rounds", kind: KindFloat32, in: 0.1, expect: Float32Value(0.1)},
		{name: "float from bool", kind: KindFloat32, in: false, expect: Float32Value(0)},
		{name: "float from string", kind: KindFloat32, in: "0.1", fail: true},
		{name: "double keeps precision", kind: KindFloat64, in: 0.1, expect: Float64Value(0.1)},
		{name: "double from float32", kind: KindFloat64, in: float32(0.5), expect: Float64Value(0.5)},
		{name: "bool", kind: KindBool, in: true, expect: BoolValue(true)},
		{name: "bool from int", kind: KindBool, in: 2, expect: BoolValue(true)},
		{name: "bool from float", kind: KindBool, in: 1.0, fail: true},
		{name: "from Value", kind: KindFloat64, in: IntValue(5), expect: Float64Value(5)},
		{name: "from invalid Value", kind: KindInt, in: Value{}, fail: true},
		{name: "unsupported type", kind: KindInt, in: []int{1}, fail: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Coerce(tc.kind, tc.in)
			if tc.fail {
				require.ErrorIs(t, err, ErrInvalidArgument)
				require.False(t, v.IsValid())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expect, v)
		})
	}
}

func TestParseValue(t *testing.T) {
	testCases := []struct {
		name   string
		kind   Kind
		in     string
		expect Value
		fail   bool
	}{
		{name: "int", kind: KindInt, in: "-90", expect: IntValue(-90)},
		{name: "hex int", kind: KindInt, in: "0x10", expect: IntValue(16)},
		{name: "int rejects float", kind: KindInt, in: "1.5", fail: true},
		{name: "int rejects overflow", kind: KindInt, in: "4294967296", fail: true},
		{name: "float", kind: KindFloat32, in: "12.5", expect: Float32Value(12.5)},
		{name: "double", kind: KindFloat64, in: "0.000123", expect: Float64Value(0.000123)},
		{name: "double rejects text", kind: KindFloat64, in: "north", fail: true},
		{name: "bool", kind: KindBool, in: "true", expect: BoolValue(true)},
		{name: "bool numeric", kind: KindBool, in: "0", expect: BoolValue(false)},
		{name: "bool rejects text", kind: KindBool, in: "yes", fail: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := ParseValue(tc.kind, tc.in)
			if tc.fail {
				require.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expect, v)
		})
	}
}

func TestValueConversions(t *testing.T) {
	v := Float32Value(2.75)
	require.Equal(t, KindFloat32, v.Kind())
	require.Equal(t, 2, v.Int())
	require.Equal(t, 2.75, v.Float())
	require.True(t, v.Bool())
	require.Equal(t, float32(2.75), v.Interface())
	require.Equal(t, "2.75", v.String())

	require.Equal(t, 1, BoolValue(true).Int())
	require.Equal(t, "-3", IntValue(-3).String())
	require.Nil(t, Value{}.Interface())
	require.Equal(t, "<invalid>", Value{}.String())
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		err    error
		expect ErrorCode
	}{
		{nil, CodeUnknown},
		{invalidArgf("bad"), CodeInvalidArgument},
		{opErr("get_log", ErrEmptyLog), CodeEmptyLog},
		{opErr("get_log", ErrResourceExhausted), CodeResourceExhausted},
		{unavailable("bt_updated", errTest), CodeUnavailable},
		{errTest, CodeUnknown},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expect, Code(tc.err), "%v", tc.err)
	}
	for _, code := range []ErrorCode{CodeInvalidArgument, CodeResourceExhausted, CodeEmptyLog, CodeUnavailable} {
		require.Equal(t, code, Code(code.Err()))
	}
	require.ErrorIs(t, ErrEmptyLog, ErrResourceExhausted)
}

var errTest = &testError{}

type testError struct{}

func (e *testError) Error() string { return "test" }
