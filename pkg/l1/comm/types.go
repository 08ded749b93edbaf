package comm

// PacketReader reads one encoded Typed envelope at a time.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes one encoded Typed envelope at a time.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
