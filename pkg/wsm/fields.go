package wsm

import "fmt"

// Kind is the native type of a firmware scalar.
type Kind int

// Kinds
const (
	KindInt Kind = iota + 1
	KindFloat32
	KindFloat64
	KindBool
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat32:
		return "float"
	case KindFloat64:
		return "double"
	case KindBool:
		return "bool"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Field identifies a scalar owned by the firmware core.
type Field int

// Settable fields.
const (
	FieldHeading Field = iota + 1
	FieldDeltaLat
	FieldDeltaLon
	FieldGPSPrecision
	FieldGPSHeading
	FieldGPSDeltaDist
	FieldControlType
	FieldMagCal
	FieldRightDuty
	FieldLeftDuty
	FieldVolt
	FieldAmp
	FieldMAh
	FieldWindAngle
	FieldWindSpeed
	FieldLat
	FieldLon
)

// Read-only fields reported by BT updates.
const (
	FieldDesiredHeading Field = iota + 100
	FieldYawStart
	FieldStartLat
	FieldStartLon
	FieldGoalChanged
	FieldX
	FieldY
	FieldFreshGPS
	FieldDesiredX
	FieldDesiredY
	FieldHeadingDriftGain
)

type fieldInfo struct {
	name string
	kind Kind
}

var fields = map[Field]fieldInfo{
	FieldHeading:      {"heading", KindInt},
	FieldDeltaLat:     {"delta_lat", KindFloat64},
	FieldDeltaLon:     {"delta_lon", KindFloat64},
	FieldGPSPrecision: {"gps_precision", KindFloat32},
	FieldGPSHeading:   {"gps_heading", KindFloat32},
	FieldGPSDeltaDist: {"gps_delta_dist", KindFloat32},
	FieldControlType:  {"control_type", KindInt},
	FieldMagCal:       {"mag_cal", KindInt},
	FieldRightDuty:    {"mr_duty", KindInt},
	FieldLeftDuty:     {"ml_duty", KindInt},
	FieldVolt:         {"volt", KindFloat32},
	FieldAmp:          {"amp", KindFloat32},
	FieldMAh:          {"mah", KindFloat32},
	FieldWindAngle:    {"ang_wind", KindInt},
	FieldWindSpeed:    {"vwind", KindInt},
	FieldLat:          {"lat", KindFloat32},
	FieldLon:          {"lon", KindFloat32},

	FieldDesiredHeading:   {"des_fw", KindFloat32},
	FieldYawStart:         {"yaw_start", KindInt},
	FieldStartLat:         {"start_lat", KindFloat32},
	FieldStartLon:         {"start_lon", KindFloat32},
	FieldGoalChanged:      {"goal_changed", KindBool},
	FieldX:                {"xx", KindFloat32},
	FieldY:                {"yy", KindFloat32},
	FieldFreshGPS:         {"fresh_gps", KindBool},
	FieldDesiredX:         {"x_des", KindFloat32},
	FieldDesiredY:         {"y_des", KindFloat32},
	FieldHeadingDriftGain: {"k_heading_drift", KindFloat32},
}

// Name returns the field name used on the wire.
func (f Field) Name() string {
	if info, ok := fields[f]; ok {
		return info.name
	}
	return ""
}

// Kind returns the native type of the field.
func (f Field) Kind() Kind {
	return fields[f].kind
}

// IsValid indicates the field is known.
func (f Field) IsValid() bool {
	_, ok := fields[f]
	return ok
}

// String implements fmt.Stringer.
func (f Field) String() string {
	if name := f.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// FieldByName looks up a field by its wire name.
func FieldByName(name string) (Field, bool) {
	for f, info := range fields {
		if info.name == name {
			return f, true
		}
	}
	return 0, false
}

// SettableFields lists the fields accepting commands, in surface order.
var SettableFields = []Field{
	FieldHeading,
	FieldDeltaLat,
	FieldDeltaLon,
	FieldGPSPrecision,
	FieldGPSHeading,
	FieldGPSDeltaDist,
	FieldControlType,
	FieldMagCal,
	FieldRightDuty,
	FieldLeftDuty,
	FieldVolt,
	FieldAmp,
	FieldMAh,
	FieldWindAngle,
	FieldWindSpeed,
	FieldLat,
	FieldLon,
}

// IsSettable indicates the field accepts commands.
func (f Field) IsSettable() bool {
	return f >= FieldHeading && f <= FieldLon
}
