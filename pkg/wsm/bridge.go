// Package wsm bridges a scripting caller and the navigation firmware core.
//
// The firmware core owns the control loop, sensor fusion and the flash log.
// A Bridge forwards commands into firmware state, assembles telemetry
// snapshots and hands the flash log to the caller. Every operation runs to
// completion on the caller's goroutine.
package wsm

import (
	"github.com/golang/glog"
)

// API version reported by APIVersion.
const (
	APIMajorVersion = 1
	APIMinorVersion = 2
)

// DefaultMaxLogSize is the largest log buffer a Bridge allocates by default.
const DefaultMaxLogSize = 4 << 20

// Bridge relays operations to the firmware core.
type Bridge struct {
	fw         Firmware
	maxLogSize int
	major      int
	minor      int
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithMaxLogSize limits the size of a log buffer. A log larger than the
// limit fails with ErrResourceExhausted. Non-positive means no limit.
func WithMaxLogSize(n int) Option {
	return func(b *Bridge) {
		b.maxLogSize = n
	}
}

// WithVersion overrides the reported API version.
func WithVersion(major, minor int) Option {
	return func(b *Bridge) {
		b.major, b.minor = major, minor
	}
}

// New creates a Bridge over the firmware surface.
func New(fw Firmware, opts ...Option) *Bridge {
	b := &Bridge{
		fw:         fw,
		maxLogSize: DefaultMaxLogSize,
		major:      APIMajorVersion,
		minor:      APIMinorVersion,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Firmware returns the underlying firmware surface.
func (b *Bridge) Firmware() Firmware {
	return b.fw
}

// SetField writes a settable field. The value is coerced to the native
// type of the field first, and nothing is written if that fails.
func (b *Bridge) SetField(f Field, v interface{}) error {
	op := "set_" + f.Name()
	if !f.IsSettable() {
		return opErr("set", invalidArgf("%s is not settable", f))
	}
	val, err := Coerce(f.Kind(), v)
	if err != nil {
		return opErr(op, err)
	}
	return b.write(op, f, val)
}

// Set writes a settable field by name, e.g. "heading" or "mr_duty".
func (b *Bridge) Set(name string, v interface{}) error {
	f, ok := FieldByName(name)
	if !ok || !f.IsSettable() {
		return opErr("set", invalidArgf("unknown command %q", name))
	}
	return b.SetField(f, v)
}

// SetHeading sets the heading in degrees.
func (b *Bridge) SetHeading(deg int) error {
	return b.write("set_heading", FieldHeading, IntValue(deg))
}

// SetDeltaLat sets the latitude correction.
func (b *Bridge) SetDeltaLat(v float64) error {
	return b.write("set_delta_lat", FieldDeltaLat, Float64Value(v))
}

// SetDeltaLon sets the longitude correction.
func (b *Bridge) SetDeltaLon(v float64) error {
	return b.write("set_delta_lon", FieldDeltaLon, Float64Value(v))
}

// SetGPSPrecision sets the GPS precision estimate.
func (b *Bridge) SetGPSPrecision(v float32) error {
	return b.write("set_gps_precision", FieldGPSPrecision, Float32Value(v))
}

// SetGPSHeading sets the heading derived from GPS.
func (b *Bridge) SetGPSHeading(v float32) error {
	return b.write("set_gps_heading", FieldGPSHeading, Float32Value(v))
}

// SetGPSDeltaDist sets the distance travelled between GPS fixes.
func (b *Bridge) SetGPSDeltaDist(v float32) error {
	return b.write("set_gps_delta_dist", FieldGPSDeltaDist, Float32Value(v))
}

// SetControlType selects the control mode.
func (b *Bridge) SetControlType(v int) error {
	return b.write("set_control_type", FieldControlType, IntValue(v))
}

// SetMagCal starts or stops magnetometer calibration.
func (b *Bridge) SetMagCal(on bool) error {
	v := 0
	if on {
		v = 1
	}
	return b.write("set_mag_cal", FieldMagCal, IntValue(v))
}

// SetRightDuty sets the right motor duty.
func (b *Bridge) SetRightDuty(duty int) error {
	return b.write("set_mr_duty", FieldRightDuty, IntValue(duty))
}

// SetLeftDuty sets the left motor duty.
func (b *Bridge) SetLeftDuty(duty int) error {
	return b.write("set_ml_duty", FieldLeftDuty, IntValue(duty))
}

// SetVolt reports the battery voltage.
func (b *Bridge) SetVolt(v float32) error {
	return b.write("set_volt", FieldVolt, Float32Value(v))
}

// SetAmp reports the battery current.
func (b *Bridge) SetAmp(v float32) error {
	return b.write("set_amp", FieldAmp, Float32Value(v))
}

// SetMAh reports the consumed charge.
func (b *Bridge) SetMAh(v float32) error {
	return b.write("set_mah", FieldMAh, Float32Value(v))
}

// SetWindAngle reports the estimated wind angle.
func (b *Bridge) SetWindAngle(deg int) error {
	return b.write("set_ang_wind", FieldWindAngle, IntValue(deg))
}

// SetWindSpeed reports the estimated wind speed.
func (b *Bridge) SetWindSpeed(v int) error {
	return b.write("set_vwind", FieldWindSpeed, IntValue(v))
}

// SetLat overrides the latitude.
func (b *Bridge) SetLat(v float32) error {
	return b.write("set_lat", FieldLat, Float32Value(v))
}

// SetLon overrides the longitude.
func (b *Bridge) SetLon(v float32) error {
	return b.write("set_lon", FieldLon, Float32Value(v))
}

// PrintLog appends a line of text to the flash log.
func (b *Bridge) PrintLog(text string) error {
	return unavailable("print_log", b.fw.PrintLog(text))
}

// SetWifiCredentials stores credentials into a slot. Errors from the store,
// e.g. a slot out of range, are returned as-is.
func (b *Bridge) SetWifiCredentials(ssid, password string, slot int) error {
	return opErr("set_wifi_credentials", b.fw.SetWifiCredentials(ssid, password, slot))
}

// Updated probes whether a wireless update arrived. It surfaces the
// firmware flag without changing its triggering policy.
func (b *Bridge) Updated() (bool, error) {
	updated, err := b.fw.Updated()
	if err != nil {
		return false, unavailable("bt_updated", err)
	}
	return updated, nil
}

func (b *Bridge) write(op string, f Field, v Value) error {
	if glog.V(3) {
		glog.Infof("%s(%s)", op, v)
	}
	return unavailable(op, b.fw.Write(f, v))
}
