package wsm

// State is the scalar state shared with the firmware control loop.
// Reads and writes are not synchronized with the loop, and a sequence
// of reads is not atomic.
type State interface {
	Read(Field) (Value, error)
	Write(Field, Value) error
}

// CredentialStore keeps Wi-Fi credentials in indexed slots.
// Slot bounds and string lengths are validated by the store.
// Implementations must copy what they keep before returning.
type CredentialStore interface {
	SetWifiCredentials(ssid, password string, slot int) error
}

// LogStore is the flash-resident log.
type LogStore interface {
	// LogSize reports the current log size in bytes.
	LogSize() (int, error)
	// ReadLog fills buf with the log. len(buf) is the size reported by the
	// preceding LogSize, and the log must not change in between.
	ReadLog(buf []byte) error
	// PrintLog appends a line of text to the log.
	PrintLog(text string) error
}

// UpdateNotifier reports wireless updates received from the phone.
type UpdateNotifier interface {
	// Updated indicates an update arrived. Whether reading clears the flag
	// is decided by the firmware.
	Updated() (bool, error)
}

// Firmware is the full native surface consumed by the Bridge.
type Firmware interface {
	State
	CredentialStore
	LogStore
	UpdateNotifier
}
