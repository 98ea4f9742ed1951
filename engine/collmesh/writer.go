package collmesh

import (
	"bufio"
	"io"
	stdmath "math"

	"github.com/spaghettifunk/collmesh/engine/core"
)

// Writer appends chunks to an output stream and counts the bytes the stream
// accepted.
type Writer struct {
	bw  *bufio.Writer
	out *countingWriter
}

func NewWriter(w io.Writer) *Writer {
	out := &countingWriter{w: w}
	return &Writer{bw: bufio.NewWriter(out), out: out}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteChunk appends magic, the length of payload and payload.
func (w *Writer) WriteChunk(magic Magic, payload []byte) error {
	if uint64(len(payload)) > stdmath.MaxUint32 {
		return core.Integrityf("chunk %s of %d bytes does not fit a uint32 length", magic, len(payload))
	}
	var hdr [ChunkHeaderSize]byte
	copy(hdr[:4], magic[:])
	byteOrder.PutUint32(hdr[4:], uint32(len(payload)))

	if _, err := w.bw.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := w.bw.Write(payload); err != nil {
		return err
	}
	return nil
}

// Flush pushes buffered data to the stream and returns the number of bytes
// the stream has accepted so far, also when it fails.
func (w *Writer) Flush() (int64, error) {
	err := w.bw.Flush()
	return w.out.n, err
}

// WriteTo writes the positions, strings and index chunks, in that order.
// Empty payloads still produce their chunk.
func (b *Blob) WriteTo(out io.Writer) (int64, error) {
	w := NewWriter(out)
	payloads := [...][]byte{b.Positions, b.Strings, b.Index}
	for i, magic := range ChunkOrder {
		if err := w.WriteChunk(magic, payloads[i]); err != nil {
			return w.out.n, err
		}
	}
	return w.Flush()
}
