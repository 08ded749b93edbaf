package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/wsm.go/pkg/framework"
	"github.com/robotalks/wsm.go/pkg/wsm"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the generic reply representing command error.
type CommandErr struct {
	Code    uint32 `protobuf:"varint,1,opt,name=code,proto3" json:"code,omitempty"`
	Message string `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// NewCommandErr creates a CommandErr classifying the error.
func NewCommandErr(err error) *CommandErr {
	return &CommandErr{Code: uint32(wsm.Code(err)), Message: err.Error()}
}

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// Unwrap returns the error kind of the code so errors.Is works
// on the receiving side.
func (m *CommandErr) Unwrap() error { return wsm.ErrorCode(m.Code).Err() }

// SetScalar writes one settable firmware scalar by name.
type SetScalar struct {
	Name  string  `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Value *Scalar `protobuf:"bytes,2,opt,name=value,proto3" json:"value,omitempty"`
}

// NewMessage implements Message.
func (m *SetScalar) NewMessage() fx.Message { return &SetScalar{} }

// TypeID implements SerializableMessage.
func (m *SetScalar) TypeID() uint32 { return SetScalarTypeID }

// Serializable implements SerializableMessage.
func (m *SetScalar) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SetScalar) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SetScalar) Reset() { *m = SetScalar{} }

// String implements proto.Message.
func (m *SetScalar) String() string { return proto.CompactTextString(m) }

// NewSetScalar creates a SetScalar.
func NewSetScalar(name string, v wsm.Value) *SetScalar {
	return &SetScalar{Name: name, Value: ScalarFrom(v)}
}

// PrintLog appends a line to the flash log.
type PrintLog struct {
	Text string `protobuf:"bytes,1,opt,name=text,proto3" json:"text,omitempty"`
}

// NewMessage implements Message.
func (m *PrintLog) NewMessage() fx.Message { return &PrintLog{} }

// TypeID implements SerializableMessage.
func (m *PrintLog) TypeID() uint32 { return PrintLogTypeID }

// Serializable implements SerializableMessage.
func (m *PrintLog) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *PrintLog) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PrintLog) Reset() { *m = PrintLog{} }

// String implements proto.Message.
func (m *PrintLog) String() string { return proto.CompactTextString(m) }

// SetWifiCredentials stores credentials into a slot.
type SetWifiCredentials struct {
	Ssid     string `protobuf:"bytes,1,opt,name=ssid,proto3" json:"ssid,omitempty"`
	Password string `protobuf:"bytes,2,opt,name=password,proto3" json:"password,omitempty"`
	Slot     int32  `protobuf:"varint,3,opt,name=slot,proto3" json:"slot,omitempty"`
}

// NewMessage implements Message.
func (m *SetWifiCredentials) NewMessage() fx.Message { return &SetWifiCredentials{} }

// TypeID implements SerializableMessage.
func (m *SetWifiCredentials) TypeID() uint32 { return SetWifiCredentialsTypeID }

// Serializable implements SerializableMessage.
func (m *SetWifiCredentials) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SetWifiCredentials) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SetWifiCredentials) Reset() { *m = SetWifiCredentials{} }

// String implements proto.Message.
func (m *SetWifiCredentials) String() string { return proto.CompactTextString(m) }

// SnapshotQuery requests the telemetry snapshot.
type SnapshotQuery struct {
}

// NewMessage implements Message.
func (m *SnapshotQuery) NewMessage() fx.Message { return &SnapshotQuery{} }

// TypeID implements SerializableMessage.
func (m *SnapshotQuery) TypeID() uint32 { return SnapshotQueryTypeID }

// Serializable implements SerializableMessage.
func (m *SnapshotQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SnapshotQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SnapshotQuery) Reset() { *m = SnapshotQuery{} }

// String implements proto.Message.
func (m *SnapshotQuery) String() string { return proto.CompactTextString(m) }

// Snapshot replies SnapshotQuery with the values in wire order.
type Snapshot struct {
	Values []*Scalar `protobuf:"bytes,1,rep,name=values,proto3" json:"values,omitempty"`
}

// NewMessage implements Message.
func (m *Snapshot) NewMessage() fx.Message { return &Snapshot{} }

// TypeID implements SerializableMessage.
func (m *Snapshot) TypeID() uint32 { return SnapshotTypeID }

// Serializable implements SerializableMessage.
func (m *Snapshot) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Snapshot) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Snapshot) Reset() { *m = Snapshot{} }

// String implements proto.Message.
func (m *Snapshot) String() string { return proto.CompactTextString(m) }

// NewSnapshot converts a telemetry snapshot.
func NewSnapshot(s *wsm.Snapshot) *Snapshot {
	return &Snapshot{Values: ScalarsFrom(s.Values())}
}

// Snapshot converts back to the telemetry snapshot.
func (m *Snapshot) Snapshot() (*wsm.Snapshot, error) {
	return snapshotFrom(m.Values)
}

// UpdatedQuery probes the update flag.
type UpdatedQuery struct {
}

// NewMessage implements Message.
func (m *UpdatedQuery) NewMessage() fx.Message { return &UpdatedQuery{} }

// TypeID implements SerializableMessage.
func (m *UpdatedQuery) TypeID() uint32 { return UpdatedQueryTypeID }

// Serializable implements SerializableMessage.
func (m *UpdatedQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *UpdatedQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *UpdatedQuery) Reset() { *m = UpdatedQuery{} }

// String implements proto.Message.
func (m *UpdatedQuery) String() string { return proto.CompactTextString(m) }

// UpdatedReply replies UpdatedQuery.
type UpdatedReply struct {
	Updated bool `protobuf:"varint,1,opt,name=updated,proto3" json:"updated,omitempty"`
}

// NewMessage implements Message.
func (m *UpdatedReply) NewMessage() fx.Message { return &UpdatedReply{} }

// TypeID implements SerializableMessage.
func (m *UpdatedReply) TypeID() uint32 { return UpdatedReplyTypeID }

// Serializable implements SerializableMessage.
func (m *UpdatedReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *UpdatedReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *UpdatedReply) Reset() { *m = UpdatedReply{} }

// String implements proto.Message.
func (m *UpdatedReply) String() string { return proto.CompactTextString(m) }

// LogQuery requests the whole flash log.
type LogQuery struct {
}

// NewMessage implements Message.
func (m *LogQuery) NewMessage() fx.Message { return &LogQuery{} }

// TypeID implements SerializableMessage.
func (m *LogQuery) TypeID() uint32 { return LogQueryTypeID }

// Serializable implements SerializableMessage.
func (m *LogQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LogQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LogQuery) Reset() { *m = LogQuery{} }

// String implements proto.Message.
func (m *LogQuery) String() string { return proto.CompactTextString(m) }

// LogData replies LogQuery.
type LogData struct {
	Data []byte `protobuf:"bytes,1,opt,name=data,proto3" json:"data,omitempty"`
}

// NewMessage implements Message.
func (m *LogData) NewMessage() fx.Message { return &LogData{} }

// TypeID implements SerializableMessage.
func (m *LogData) TypeID() uint32 { return LogDataTypeID }

// Serializable implements SerializableMessage.
func (m *LogData) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LogData) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LogData) Reset() { *m = LogData{} }

// String implements proto.Message.
func (m *LogData) String() string { return proto.CompactTextString(m) }

// VersionQuery requests the API version.
type VersionQuery struct {
}

// NewMessage implements Message.
func (m *VersionQuery) NewMessage() fx.Message { return &VersionQuery{} }

// TypeID implements SerializableMessage.
func (m *VersionQuery) TypeID() uint32 { return VersionQueryTypeID }

// Serializable implements SerializableMessage.
func (m *VersionQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VersionQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VersionQuery) Reset() { *m = VersionQuery{} }

// String implements proto.Message.
func (m *VersionQuery) String() string { return proto.CompactTextString(m) }

// VersionReply replies VersionQuery.
type VersionReply struct {
	Version string `protobuf:"bytes,1,opt,name=version,proto3" json:"version,omitempty"`
}

// NewMessage implements Message.
func (m *VersionReply) NewMessage() fx.Message { return &VersionReply{} }

// TypeID implements SerializableMessage.
func (m *VersionReply) TypeID() uint32 { return VersionReplyTypeID }

// Serializable implements SerializableMessage.
func (m *VersionReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VersionReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VersionReply) Reset() { *m = VersionReply{} }

// String implements proto.Message.
func (m *VersionReply) String() string { return proto.CompactTextString(m) }

// TelemetryEvent is published when a new BT update arrives.
type TelemetryEvent struct {
	Values []*Scalar `protobuf:"bytes,1,rep,name=values,proto3" json:"values,omitempty"`
}

// NewMessage implements Message.
func (m *TelemetryEvent) NewMessage() fx.Message { return &TelemetryEvent{} }

// TypeID implements SerializableMessage.
func (m *TelemetryEvent) TypeID() uint32 { return TelemetryEventTypeID }

// Serializable implements SerializableMessage.
func (m *TelemetryEvent) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *TelemetryEvent) ProtoMessage() {}

// Reset implements proto.Message.
func (m *TelemetryEvent) Reset() { *m = TelemetryEvent{} }

// String implements proto.Message.
func (m *TelemetryEvent) String() string { return proto.CompactTextString(m) }

// NewTelemetryEvent creates the event from a telemetry snapshot.
func NewTelemetryEvent(s *wsm.Snapshot) *TelemetryEvent {
	return &TelemetryEvent{Values: ScalarsFrom(s.Values())}
}

// Snapshot converts back to the telemetry snapshot.
func (m *TelemetryEvent) Snapshot() (*wsm.Snapshot, error) {
	return snapshotFrom(m.Values)
}

// Scalar is a typed firmware scalar on the wire.
type Scalar struct {
	Kind  uint32  `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Int   int64   `protobuf:"varint,2,opt,name=int,proto3" json:"int,omitempty"`
	Float float64 `protobuf:"fixed64,3,opt,name=float,proto3" json:"float,omitempty"`
	Bool  bool    `protobuf:"varint,4,opt,name=bool,proto3" json:"bool,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Scalar) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Scalar) Reset() { *m = Scalar{} }

// String implements proto.Message.
func (m *Scalar) String() string { return proto.CompactTextString(m) }

// ScalarFrom converts a Value.
func ScalarFrom(v wsm.Value) *Scalar {
	s := &Scalar{Kind: uint32(v.Kind())}
	switch v.Kind() {
	case wsm.KindInt:
		s.Int = int64(v.Int())
	case wsm.KindFloat32, wsm.KindFloat64:
		s.Float = v.Float()
	case wsm.KindBool:
		s.Bool = v.Bool()
	}
	return s
}

// ScalarsFrom converts a list of Values.
func ScalarsFrom(values []wsm.Value) []*Scalar {
	scalars := make([]*Scalar, len(values))
	for n, v := range values {
		scalars[n] = ScalarFrom(v)
	}
	return scalars
}

// Value converts back to a Value.
func (m *Scalar) Value() (wsm.Value, error) {
	if m == nil {
		return wsm.Value{}, wsm.ErrInvalidArgument
	}
	switch wsm.Kind(m.Kind) {
	case wsm.KindInt:
		return wsm.Coerce(wsm.KindInt, m.Int)
	case wsm.KindFloat32:
		return wsm.Float32Value(float32(m.Float)), nil
	case wsm.KindFloat64:
		return wsm.Float64Value(m.Float), nil
	case wsm.KindBool:
		return wsm.BoolValue(m.Bool), nil
	}
	return wsm.Value{}, wsm.ErrInvalidArgument
}

func snapshotFrom(scalars []*Scalar) (*wsm.Snapshot, error) {
	values := make([]wsm.Value, len(scalars))
	for n, s := range scalars {
		v, err := s.Value()
		if err != nil {
			return nil, err
		}
		values[n] = v
	}
	return wsm.SnapshotFromValues(values)
}

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupBridge  uint32 = 0x00010000
	GroupCustom  uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID          uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID         uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	SetScalarTypeID          uint32 = GroupBridge | 0x0001
	PrintLogTypeID           uint32 = GroupBridge | 0x0002
	SetWifiCredentialsTypeID uint32 = GroupBridge | 0x0003
	SnapshotQueryTypeID      uint32 = GroupBridge | 0x0004
	SnapshotTypeID           uint32 = SnapshotQueryTypeID | TypeIDMaskReply
	UpdatedQueryTypeID       uint32 = GroupBridge | 0x0005
	UpdatedReplyTypeID       uint32 = UpdatedQueryTypeID | TypeIDMaskReply
	LogQueryTypeID           uint32 = GroupBridge | 0x0006
	LogDataTypeID            uint32 = LogQueryTypeID | TypeIDMaskReply
	VersionQueryTypeID       uint32 = GroupBridge | 0x0007
	VersionReplyTypeID       uint32 = VersionQueryTypeID | TypeIDMaskReply
	TelemetryEventTypeID     uint32 = GroupBridge | TypeIDKindEvent | 0x0000
)
