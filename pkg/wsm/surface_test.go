package wsm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/wsm.go/pkg/wsm"
	"github.com/robotalks/wsm.go/pkg/wsm/simfw"
)

func TestSurfaceNames(t *testing.T) {
	names := wsm.Names()
	require.Len(t, names, 17+6)
	for _, name := range []string{
		"bt_updated", "get_bt_update", "get_api_version",
		"set_heading", "set_delta_lat", "set_delta_lon",
		"set_gps_precision", "set_gps_heading", "set_gps_delta_dist",
		"set_control_type", "set_mag_cal", "set_mr_duty", "set_ml_duty",
		"set_volt", "set_amp", "set_mah", "set_ang_wind", "set_vwind",
		"set_lat", "set_lon", "print_log", "set_wifi_credentials", "get_log",
	} {
		require.Contains(t, names, name)
	}
}

func TestInvoke(t *testing.T) {
	b, fw := newTestBridge(t, nil)

	res, err := b.Invoke("set_heading", 90)
	require.NoError(t, err)
	require.Nil(t, res)
	require.Equal(t, wsm.IntValue(90), readField(t, fw, wsm.FieldHeading))

	_, err = b.Invoke("set_gps_precision", 3)
	require.NoError(t, err)
	require.Equal(t, wsm.Float32Value(3), readField(t, fw, wsm.FieldGPSPrecision))

	_, err = b.Invoke("print_log", "hello")
	require.NoError(t, err)

	_, err = b.Invoke("set_wifi_credentials", "harbour", "pw", uint8(1))
	require.NoError(t, err)
	cred, ok := fw.Credential(1)
	require.True(t, ok)
	require.Equal(t, "harbour", cred.SSID)

	require.NoError(t, fw.Deliver(simfw.Update{wsm.FieldYawStart: 4}))
	res, err = b.Invoke("bt_updated")
	require.NoError(t, err)
	require.Equal(t, true, res)

	res, err = b.Invoke("get_bt_update")
	require.NoError(t, err)
	items, ok := res.([]interface{})
	require.True(t, ok)
	require.Len(t, items, wsm.SnapshotLen)
	require.Equal(t, 4, items[1])
	require.IsType(t, float32(0), items[0])
	require.IsType(t, float64(0), items[8])
	require.IsType(t, false, items[5])

	res, err = b.Invoke("get_api_version")
	require.NoError(t, err)
	require.Equal(t, " 1.2 ", res)

	res, err = b.Invoke("get_log")
	require.NoError(t, err)
	require.Equal(t, []byte("hello\n"), res)
}

func TestInvokeInvalid(t *testing.T) {
	testCases := []struct {
		name string
		op   string
		args []interface{}
	}{
		{"unknown", "set_turbo", []interface{}{1}},
		{"missing argument", "set_heading", nil},
		{"extra argument", "get_log", []interface{}{1}},
		{"float heading", "set_heading", []interface{}{1.5}},
		{"non-text log", "print_log", []interface{}{42}},
		{"non-text ssid", "set_wifi_credentials", []interface{}{1, "pw", 0}},
		{"non-text password", "set_wifi_credentials", []interface{}{"ssid", nil, 0}},
		{"text slot", "set_wifi_credentials", []interface{}{"ssid", "pw", "0"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, fw := newTestBridge(t, nil)
			_, err := b.Invoke(tc.op, tc.args...)
			require.ErrorIs(t, err, wsm.ErrInvalidArgument)
			require.Empty(t, fw.Log())
			_, ok := fw.Credential(0)
			require.False(t, ok)
		})
	}
}

func TestInvokeEmptyLog(t *testing.T) {
	b, _ := newTestBridge(t, nil)
	res, err := b.Invoke("get_log")
	require.Nil(t, res)
	require.ErrorIs(t, err, wsm.ErrEmptyLog)
}
