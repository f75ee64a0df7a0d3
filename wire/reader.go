package wire

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/wippyai/gamewire/errors"
)

// Reader wraps a byte stream with position tracking and big-endian
// primitive reads. It never reads past the bytes it hands out, so the
// caller's stream is positioned exactly after the last decoded value.
//
// ReadByte and Read follow the io contracts and return raw io errors.
// The typed Read* methods return classified *errors.Error values.
type Reader struct {
	r   io.ByteReader
	src io.Reader
	pos int64
}

// NewReader wraps r. A *Reader is returned as is. Sources that do not
// implement io.ByteReader are read one byte at a time rather than through a
// buffer, which would consume bytes beyond the decoded value.
func NewReader(r io.Reader) *Reader {
	if wr, ok := r.(*Reader); ok {
		return wr
	}
	if br, ok := r.(io.ByteReader); ok {
		return &Reader{r: br, src: r}
	}
	return &Reader{r: &byteReader{r: r}, src: r}
}

// Position returns the number of bytes consumed through this reader.
func (r *Reader) Position() int64 {
	return r.pos
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, err
	}
	r.pos++
	return b, nil
}

// Read implements io.Reader over the underlying stream.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	r.pos += int64(n)
	return n, err
}

// ReadFull fills p completely. A short stream is an unexpected EOF.
func (r *Reader) ReadFull(p []byte) error {
	if _, err := io.ReadFull(r, p); err != nil {
		return errors.IO(errors.PhaseDecode, err)
	}
	return nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadRemaining reads until the stream is exhausted.
func (r *Reader) ReadRemaining() ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.IO(errors.PhaseDecode, err)
	}
	return data, nil
}

func (r *Reader) fixed(n int) ([]byte, error) {
	var buf [8]byte
	if err := r.ReadFull(buf[:n]); err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// ReadBool reads one byte; zero is false, anything else is true.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadU8()
	return b != 0, err
}

// ReadU8 reads an unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, errors.IO(errors.PhaseDecode, err)
	}
	return b, nil
}

// ReadU16 reads a big-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	buf, err := r.fixed(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// ReadU32 reads a big-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	buf, err := r.fixed(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// ReadU64 reads a big-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	buf, err := r.fixed(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf), nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF32 reads a big-endian IEEE 754 float32.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadF64 reads a big-endian IEEE 754 float64.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	return math.Float64frombits(v), err
}

// ReadUint reads an unsigned integer of the given byte width (1, 2, 4 or 8).
func (r *Reader) ReadUint(width int) (uint64, error) {
	switch width {
	case 1:
		v, err := r.ReadU8()
		return uint64(v), err
	case 2:
		v, err := r.ReadU16()
		return uint64(v), err
	case 4:
		v, err := r.ReadU32()
		return uint64(v), err
	case 8:
		return r.ReadU64()
	}
	return 0, errors.New(errors.PhaseDecode, errors.KindUnsupported).
		Detail("integer width %d", width).
		Build()
}

// byteReader adapts a plain io.Reader to io.ByteReader without buffering.
type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func (b *byteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(b.r, b.buf[:]); err != nil {
		return 0, err
	}
	return b.buf[0], nil
}
