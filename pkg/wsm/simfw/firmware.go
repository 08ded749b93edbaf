// Package simfw simulates the firmware core behind a wsm.Bridge.
package simfw

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/wsm.go/pkg/wsm"
)

var (
	// ErrUnknownField indicates the field isn't part of the firmware state.
	ErrUnknownField = errors.New("unknown field")
	// ErrSlotOutOfRange indicates the credential slot doesn't exist.
	ErrSlotOutOfRange = errors.New("slot out of range")
	// ErrLogChanged indicates the log size changed after it was queried.
	ErrLogChanged = errors.New("log changed since size query")
)

// Credential is the content of a credential slot.
type Credential struct {
	SSID     string
	Password string
}

// Update is a set of fields delivered over BT.
type Update map[wsm.Field]interface{}

// Firmware is an in-memory firmware core. It's safe for concurrent use,
// but like the real one, consecutive calls aren't atomic as a whole.
type Firmware struct {
	policy Policy

	lock    sync.Mutex
	state   map[wsm.Field]wsm.Value
	slots   []*Credential
	log     []byte
	updated bool
	fault   error
}

// New creates the firmware, nil uses DefaultConfig.
func New(conf *Config) (*Firmware, error) {
	if conf == nil {
		conf = DefaultConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	fw := &Firmware{
		policy: conf.Policy,
		state:  make(map[wsm.Field]wsm.Value),
		slots:  make([]*Credential, conf.Slots),
		log:    []byte(conf.Log),
	}
	state, err := configValues(conf.State)
	if err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}
	for f, v := range state {
		if err := fw.Write(f, v.(wsm.Value)); err != nil {
			return nil, fmt.Errorf("state %s: %v", f, err)
		}
	}
	return fw, nil
}

// Read implements wsm.State. Fields never written read as zero.
func (f *Firmware) Read(field wsm.Field) (wsm.Value, error) {
	if !field.IsValid() {
		return wsm.Value{}, ErrUnknownField
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.fault != nil {
		return wsm.Value{}, f.fault
	}
	if v, ok := f.state[field]; ok {
		return v, nil
	}
	return zeroValue(field.Kind()), nil
}

// Write implements wsm.State.
func (f *Firmware) Write(field wsm.Field, v wsm.Value) error {
	if !field.IsValid() {
		return ErrUnknownField
	}
	val, err := wsm.Coerce(field.Kind(), v)
	if err != nil {
		return err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.fault != nil {
		return f.fault
	}
	f.state[field] = val
	return nil
}

// SetWifiCredentials implements wsm.CredentialStore.
func (f *Firmware) SetWifiCredentials(ssid, password string, slot int) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if slot < 0 || slot >= len(f.slots) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrSlotOutOfRange, slot, len(f.slots))
	}
	f.slots[slot] = &Credential{SSID: ssid, Password: password}
	glog.V(2).Infof("wifi credentials slot %d: %q", slot, ssid)
	return nil
}

// Credential returns the content of a slot.
func (f *Firmware) Credential(slot int) (Credential, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if slot < 0 || slot >= len(f.slots) || f.slots[slot] == nil {
		return Credential{}, false
	}
	return *f.slots[slot], true
}

// LogSize implements wsm.LogStore.
func (f *Firmware) LogSize() (int, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.fault != nil {
		return 0, f.fault
	}
	return len(f.log), nil
}

// ReadLog implements wsm.LogStore.
func (f *Firmware) ReadLog(buf []byte) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.fault != nil {
		return f.fault
	}
	if len(buf) != len(f.log) {
		return fmt.Errorf("%w: %d bytes requested, %d stored", ErrLogChanged, len(buf), len(f.log))
	}
	copy(buf, f.log)
	return nil
}

// PrintLog implements wsm.LogStore.
func (f *Firmware) PrintLog(text string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.fault != nil {
		return f.fault
	}
	f.log = append(f.log, text...)
	f.log = append(f.log, '\n')
	return nil
}

// SetLog replaces the log.
func (f *Firmware) SetLog(data []byte) {
	f.lock.Lock()
	f.log = append([]byte(nil), data...)
	f.lock.Unlock()
}

// Log returns a copy of the log.
func (f *Firmware) Log() []byte {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]byte(nil), f.log...)
}

// Updated implements wsm.UpdateNotifier.
func (f *Firmware) Updated() (bool, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.fault != nil {
		return false, f.fault
	}
	updated := f.updated
	if f.policy == PolicyEdge {
		f.updated = false
	}
	return updated, nil
}

// Acknowledge clears the update flag.
func (f *Firmware) Acknowledge() {
	f.lock.Lock()
	f.updated = false
	f.lock.Unlock()
}

// Deliver applies an update received over BT and raises the update flag.
// Nothing is applied if any value is invalid.
func (f *Firmware) Deliver(u Update) error {
	values := make(map[wsm.Field]wsm.Value, len(u))
	for field, in := range u {
		if !field.IsValid() {
			return ErrUnknownField
		}
		v, err := wsm.Coerce(field.Kind(), in)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		values[field] = v
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	for field, v := range values {
		f.state[field] = v
	}
	f.updated = true
	return nil
}

// SetFault makes every state, log and update call fail with err.
// nil restores normal operation.
func (f *Firmware) SetFault(err error) {
	f.lock.Lock()
	f.fault = err
	f.lock.Unlock()
}

// configValue converts a YAML number, int fields take integral values only.
func configValue(f wsm.Field, val float64) (wsm.Value, error) {
	switch f.Kind() {
	case wsm.KindInt:
		if val != math.Trunc(val) || math.IsInf(val, 0) {
			return wsm.Value{}, fmt.Errorf("%s: %w: %v is not an integer", f, wsm.ErrInvalidArgument, val)
		}
		return wsm.IntValue(int(val)), nil
	case wsm.KindBool:
		return wsm.BoolValue(val != 0), nil
	}
	return wsm.Float64Value(val), nil
}

// configValues converts named YAML values.
func configValues(values map[string]float64) (Update, error) {
	u := make(Update, len(values))
	for name, val := range values {
		f, ok := wsm.FieldByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		v, err := configValue(f, val)
		if err != nil {
			return nil, err
		}
		u[f] = v
	}
	return u, nil
}

func zeroValue(kind wsm.Kind) wsm.Value {
	switch kind {
	case wsm.KindFloat32:
		return wsm.Float32Value(0)
	case wsm.KindFloat64:
		return wsm.Float64Value(0)
	case wsm.KindBool:
		return wsm.BoolValue(false)
	}
	return wsm.IntValue(0)
}
