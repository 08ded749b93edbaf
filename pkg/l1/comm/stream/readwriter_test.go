package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFraming(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	packets := [][]byte{[]byte("a"), {}, bytes.Repeat([]byte{0xff}, 70000)}
	for _, pkt := range packets {
		require.NoError(t, rw.WritePacket(pkt))
	}
	require.Equal(t, []byte{1, 0, 0, 0, 'a'}, buf.Bytes()[:5])
	for _, pkt := range packets {
		got, err := rw.ReadPacket()
		require.NoError(t, err)
		require.Equal(t, len(pkt), len(got))
		require.Equal(t, pkt, got)
	}
	_, err := rw.ReadPacket()
	require.Equal(t, io.EOF, err)
}

func TestFramingLimits(t *testing.T) {
	rw := New(bytes.NewBuffer([]byte{0xff, 0xff, 0xff, 0x7f}))
	_, err := rw.ReadPacket()
	require.Error(t, err)

	rw = New(bytes.NewBuffer([]byte{4, 0, 0, 0, 'a', 'b'}))
	_, err = rw.ReadPacket()
	require.Equal(t, io.ErrUnexpectedEOF, err)
}

type recordingWriter struct {
	bytes.Buffer
	writes [][]byte
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, p)
	return w.Buffer.Write(p)
}

func TestWritePacketNoCopy(t *testing.T) {
	w := &recordingWriter{}
	pkt := bytes.Repeat([]byte{0x5a}, 1<<20)
	require.NoError(t, New(w).WritePacket(pkt))
	require.Len(t, w.writes, 2)
	require.Equal(t, []byte{0, 0, 0x10, 0}, w.writes[0])
	require.True(t, &w.writes[1][0] == &pkt[0], "packet written from the caller's buffer")

	got, err := New(&w.Buffer).ReadPacket()
	require.NoError(t, err)
	require.Equal(t, pkt, got)
}
