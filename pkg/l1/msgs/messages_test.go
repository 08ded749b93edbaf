package msgs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/wsm.go/pkg/wsm"
)

func encodeDecode(t *testing.T, msg SerializableMessage, seq uint32) (*Typed, interface{}) {
	typed, err := TypedFrom(msg)
	require.NoError(t, err)
	typed.Sequence = seq
	data, err := typed.Encode()
	require.NoError(t, err)
	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, msg.TypeID(), decoded.TypeId)
	require.Equal(t, seq, decoded.Sequence)
	out, err := decoded.Decode()
	require.NoError(t, err)
	return decoded, out
}

func TestTypedKinds(t *testing.T) {
	testCases := []struct {
		msg     SerializableMessage
		command bool
		reply   bool
	}{
		{&SetScalar{}, true, false},
		{&SnapshotQuery{}, true, false},
		{&Snapshot{}, true, true},
		{&CommandOK{}, true, true},
		{&CommandErr{}, true, true},
		{&TelemetryEvent{}, false, false},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%T", tc.msg), func(t *testing.T) {
			typed, err := TypedFrom(tc.msg)
			require.NoError(t, err)
			require.Equal(t, tc.command, typed.IsCommand())
			require.Equal(t, !tc.command, typed.IsEvent())
			require.Equal(t, tc.reply, typed.IsReply())
		})
	}
}

func TestTypedUnknown(t *testing.T) {
	typed := &Typed{TypeId: GroupCustom | 0x42}
	_, err := typed.Decode()
	var unknown *ErrUnknownType
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, GroupCustom|0x42, unknown.TypeID)

	_, err = TypedFrom(nil)
	require.Equal(t, ErrNotSerializable, err)
}

func TestSetScalarOnWire(t *testing.T) {
	testCases := []struct {
		name  string
		value wsm.Value
	}{
		{"heading", wsm.IntValue(-90)},
		{"delta_lat", wsm.Float64Value(0.000123456789)},
		{"volt", wsm.Float32Value(12.6)},
		{"mag_cal", wsm.IntValue(1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, out := encodeDecode(t, NewSetScalar(tc.name, tc.value), 3)
			cmd := out.(*SetScalar)
			require.Equal(t, tc.name, cmd.Name)
			v, err := cmd.Value.Value()
			require.NoError(t, err)
			require.Equal(t, tc.value, v)
		})
	}
}

func TestScalarInvalid(t *testing.T) {
	var s *Scalar
	_, err := s.Value()
	require.ErrorIs(t, err, wsm.ErrInvalidArgument)
	_, err = (&Scalar{Kind: 99}).Value()
	require.ErrorIs(t, err, wsm.ErrInvalidArgument)
	_, err = (&Scalar{Kind: uint32(wsm.KindInt), Int: 1 << 40}).Value()
	require.ErrorIs(t, err, wsm.ErrInvalidArgument)
}

func TestSnapshotOnWire(t *testing.T) {
	values := make([]wsm.Value, wsm.SnapshotLen)
	for n, f := range wsm.SnapshotFields {
		switch f.Kind() {
		case wsm.KindInt:
			values[n] = wsm.IntValue(n)
		case wsm.KindFloat32:
			values[n] = wsm.Float32Value(float32(n) + 0.5)
		case wsm.KindFloat64:
			values[n] = wsm.Float64Value(float64(n) + 0.25)
		case wsm.KindBool:
			values[n] = wsm.BoolValue(n%2 == 0)
		}
	}
	snapshot, err := wsm.SnapshotFromValues(values)
	require.NoError(t, err)

	_, out := encodeDecode(t, NewSnapshot(snapshot), 9)
	got, err := out.(*Snapshot).Snapshot()
	require.NoError(t, err)
	require.Equal(t, snapshot, got)

	typed, out := encodeDecode(t, NewTelemetryEvent(snapshot), 0)
	require.True(t, typed.IsEvent())
	got, err = out.(*TelemetryEvent).Snapshot()
	require.NoError(t, err)
	require.Equal(t, snapshot.Values(), got.Values())

	_, err = (&Snapshot{Values: ScalarsFrom(values[:3])}).Snapshot()
	require.ErrorIs(t, err, wsm.ErrInvalidArgument)
}

func TestCommandErrKeepsKind(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind error
	}{
		{"invalid", fmt.Errorf("set_heading: %w", wsm.ErrInvalidArgument), wsm.ErrInvalidArgument},
		{"empty log", wsm.ErrEmptyLog, wsm.ErrEmptyLog},
		{"too large", wsm.ErrResourceExhausted, wsm.ErrResourceExhausted},
		{"unavailable", wsm.ErrUnavailable, wsm.ErrUnavailable},
		{"unknown", errors.New("slot out of range"), nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, out := encodeDecode(t, NewCommandErr(tc.err), 1)
			cmdErr := out.(*CommandErr)
			require.Equal(t, tc.err.Error(), cmdErr.Error())
			if tc.kind == nil {
				require.Nil(t, errors.Unwrap(cmdErr))
				return
			}
			require.ErrorIs(t, cmdErr, tc.kind)
		})
	}
}

func TestLogDataOnWire(t *testing.T) {
	data := make([]byte, 1000)
	for n := range data {
		data[n] = byte(n)
	}
	_, out := encodeDecode(t, &LogData{Data: data}, 2)
	require.Equal(t, data, out.(*LogData).Data)

	_, out = encodeDecode(t, &SetWifiCredentials{Ssid: "boat", Password: "secret", Slot: 1}, 4)
	require.Equal(t, &SetWifiCredentials{Ssid: "boat", Password: "secret", Slot: 1}, out)
}
