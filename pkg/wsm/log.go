package wsm

import (
	"fmt"
	"io"

	"github.com/golang/glog"
)

// LogBuffer owns a copy of the flash log. The bridge keeps no reference
// to it once returned.
type LogBuffer struct {
	data []byte
}

// Len returns the number of bytes owned.
func (l *LogBuffer) Len() int {
	return len(l.data)
}

// Bytes returns the owned bytes without copying. The slice stays valid
// until Take is called.
func (l *LogBuffer) Bytes() []byte {
	return l.data
}

// Take moves the bytes out of the buffer, which becomes empty.
func (l *LogBuffer) Take() []byte {
	data := l.data
	l.data = nil
	return data
}

// WriteTo implements io.WriterTo.
func (l *LogBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(l.data)
	return int64(n), err
}

// ReadLog transfers the flash log to the caller. It queries the size,
// allocates exactly that many bytes once and lets the firmware fill them.
// The log must not change between the size query and the fill.
// An empty log fails with ErrEmptyLog, a log over the size limit with
// ErrResourceExhausted.
func (b *Bridge) ReadLog() (*LogBuffer, error) {
	const op = "get_log"
	size, err := b.fw.LogSize()
	if err != nil {
		return nil, unavailable(op, err)
	}
	glog.V(2).Infof("%s: size %d", op, size)
	switch {
	case size == 0:
		return nil, opErr(op, ErrEmptyLog)
	case size < 0:
		return nil, unavailable(op, fmt.Errorf("invalid log size %d", size))
	case b.maxLogSize > 0 && size > b.maxLogSize:
		return nil, opErr(op, fmt.Errorf("%w: log size %d exceeds limit %d", ErrResourceExhausted, size, b.maxLogSize))
	}
	buf := make([]byte, size)
	if err := b.fw.ReadLog(buf); err != nil {
		return nil, unavailable(op, err)
	}
	return &LogBuffer{data: buf}, nil
}
