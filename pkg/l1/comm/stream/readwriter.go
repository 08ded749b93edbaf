// Package stream frames packets on byte streams (TCP, pipes).
package stream

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DefaultMaxPacketSize bounds a single frame, large enough for a log transfer.
const DefaultMaxPacketSize = 16 << 20

// ReadWriter implements PacketReadWriter.
// Each packet is prefixed by 4-byte (little-endian) indicate the length.
type ReadWriter struct {
	io.ReadWriter
	MaxPacketSize uint32
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{ReadWriter: s, MaxPacketSize: DefaultMaxPacketSize}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var size uint32
	if err := binary.Read(p.ReadWriter, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if p.MaxPacketSize > 0 && size > p.MaxPacketSize {
		return nil, fmt.Errorf("packet size %d exceeds %d", size, p.MaxPacketSize)
	}
	pkt := make([]byte, size)
	if _, err := io.ReadFull(p.ReadWriter, pkt); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return pkt, nil
}

// WritePacket implements PacketWriter. The packet is written as is after
// the header, callers serialize concurrent writes.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(pkt)))
	if _, err := p.ReadWriter.Write(header[:]); err != nil {
		return err
	}
	if len(pkt) == 0 {
		return nil
	}
	_, err := p.ReadWriter.Write(pkt)
	return err
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
