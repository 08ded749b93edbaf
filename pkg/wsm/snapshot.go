package wsm

import (
	"fmt"
)

// SnapshotLen is the number of fields in a Snapshot.
const SnapshotLen = 14

// SnapshotFields is the order of fields in a Snapshot. The order and
// kinds are part of the contract with the caller.
var SnapshotFields = [SnapshotLen]Field{
	FieldDesiredHeading,
	FieldYawStart,
	FieldControlType,
	FieldStartLat,
	FieldStartLon,
	FieldGoalChanged,
	FieldX,
	FieldY,
	FieldDeltaLat,
	FieldDeltaLon,
	FieldFreshGPS,
	FieldDesiredX,
	FieldDesiredY,
	FieldHeadingDriftGain,
}

// Snapshot is a best-effort view of the telemetry updated over BT.
// Fields are read one after another while the control loop keeps
// running, so they may reflect slightly different instants.
type Snapshot [SnapshotLen]Value

// Snapshot reads the telemetry fields in SnapshotFields order.
// A failed read fails the whole snapshot.
func (b *Bridge) Snapshot() (*Snapshot, error) {
	var s Snapshot
	for n, f := range SnapshotFields {
		v, err := b.fw.Read(f)
		if err != nil {
			return nil, unavailable("get_bt_update", fmt.Errorf("read %s: %w", f, err))
		}
		if s[n], err = Coerce(f.Kind(), v); err != nil {
			return nil, unavailable("get_bt_update", fmt.Errorf("read %s: %v", f, err))
		}
	}
	return &s, nil
}

// SnapshotFromValues rebuilds a Snapshot, e.g. from the wire.
func SnapshotFromValues(values []Value) (*Snapshot, error) {
	if len(values) != SnapshotLen {
		return nil, invalidArgf("snapshot expects %d values, got %d", SnapshotLen, len(values))
	}
	var s Snapshot
	for n, f := range SnapshotFields {
		v, err := Coerce(f.Kind(), values[n])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		s[n] = v
	}
	return &s, nil
}

// Values returns the values in SnapshotFields order.
func (s *Snapshot) Values() []Value {
	values := make([]Value, SnapshotLen)
	copy(values, s[:])
	return values
}

// Interfaces returns the values as int, float32, float64 or bool.
func (s *Snapshot) Interfaces() []interface{} {
	items := make([]interface{}, SnapshotLen)
	for n, v := range s {
		items[n] = v.Interface()
	}
	return items
}

// Get returns the value of a field, or an invalid Value if the field
// isn't part of the snapshot.
func (s *Snapshot) Get(f Field) Value {
	for n, sf := range SnapshotFields {
		if sf == f {
			return s[n]
		}
	}
	return Value{}
}

// DesiredHeading is the heading requested over BT.
func (s *Snapshot) DesiredHeading() float64 { return s[0].Float() }

// YawStart is the yaw when the run started.
func (s *Snapshot) YawStart() int { return s[1].Int() }

// ControlType is the active control mode.
func (s *Snapshot) ControlType() int { return s[2].Int() }

// StartPosition is the latitude and longitude of the start point.
func (s *Snapshot) StartPosition() (lat, lon float64) { return s[3].Float(), s[4].Float() }

// GoalChanged indicates a new goal was set.
func (s *Snapshot) GoalChanged() bool { return s[5].Bool() }

// Position is the current position in the local frame.
func (s *Snapshot) Position() (x, y float64) { return s[6].Float(), s[7].Float() }

// Delta is the latitude and longitude correction.
func (s *Snapshot) Delta() (lat, lon float64) { return s[8].Float(), s[9].Float() }

// FreshGPS indicates a new GPS fix arrived.
func (s *Snapshot) FreshGPS() bool { return s[10].Bool() }

// DesiredPosition is the goal in the local frame.
func (s *Snapshot) DesiredPosition() (x, y float64) { return s[11].Float(), s[12].Float() }

// HeadingDriftGain is the gain correcting heading drift.
func (s *Snapshot) HeadingDriftGain() float64 { return s[13].Float() }
