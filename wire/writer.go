package wire

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/wippyai/gamewire/errors"
)

// Writer writes big-endian primitives to an io.Writer.
// Every failure is returned as a classified *errors.Error.
type Writer struct {
	w   io.Writer
	n   int64
	buf [8]byte
}

// NewWriter wraps w. A *Writer is returned as is.
func NewWriter(w io.Writer) *Writer {
	if ww, ok := w.(*Writer); ok {
		return ww
	}
	return &Writer{w: w}
}

// Len returns the number of bytes written through this writer.
func (w *Writer) Len() int64 {
	return w.n
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, errors.IO(errors.PhaseEncode, err)
	}
	return n, nil
}

// WriteBytes writes data in full.
func (w *Writer) WriteBytes(data []byte) error {
	_, err := w.Write(data)
	return err
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) error {
	w.buf[0] = b
	return w.WriteBytes(w.buf[:1])
}

// WriteBool writes 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.Byte(1)
	}
	return w.Byte(0)
}

func (w *Writer) WriteU8(v uint8) error {
	return w.Byte(v)
}

// WriteU16 writes a big-endian uint16.
func (w *Writer) WriteU16(v uint16) error {
	binary.BigEndian.PutUint16(w.buf[:2], v)
	return w.WriteBytes(w.buf[:2])
}

// WriteU32 writes a big-endian uint32.
func (w *Writer) WriteU32(v uint32) error {
	binary.BigEndian.PutUint32(w.buf[:4], v)
	return w.WriteBytes(w.buf[:4])
}

// WriteU64 writes a big-endian uint64.
func (w *Writer) WriteU64(v uint64) error {
	binary.BigEndian.PutUint64(w.buf[:8], v)
	return w.WriteBytes(w.buf[:8])
}

func (w *Writer) WriteI8(v int8) error   { return w.WriteU8(uint8(v)) }
func (w *Writer) WriteI16(v int16) error { return w.WriteU16(uint16(v)) }
func (w *Writer) WriteI32(v int32) error { return w.WriteU32(uint32(v)) }
func (w *Writer) WriteI64(v int64) error { return w.WriteU64(uint64(v)) }

// WriteF32 writes a big-endian IEEE 754 float32.
func (w *Writer) WriteF32(v float32) error {
	return w.WriteU32(math.Float32bits(v))
}

// WriteF64 writes a big-endian IEEE 754 float64.
func (w *Writer) WriteF64(v float64) error {
	return w.WriteU64(math.Float64bits(v))
}

// WriteUint writes v as an unsigned integer of the given byte width
// (1, 2, 4 or 8). Values that do not fit are truncated; callers narrow first.
func (w *Writer) WriteUint(width int, v uint64) error {
	switch width {
	case 1:
		return w.WriteU8(uint8(v))
	case 2:
		return w.WriteU16(uint16(v))
	case 4:
		return w.WriteU32(uint32(v))
	case 8:
		return w.WriteU64(v)
	}
	return errors.New(errors.PhaseEncode, errors.KindUnsupported).
		Detail("integer width %d", width).
		Build()
}
