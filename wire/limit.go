package wire

import (
	"io"

	"github.com/wippyai/gamewire/errors"
)

// LimitedReader reads at most N bytes from R and then reports io.EOF.
// Unlike io.LimitedReader it keeps io.ByteReader, so nested decoders can
// consume it byte by byte without buffering past the limit.
type LimitedReader struct {
	R *Reader
	N int64
}

// Limit returns a reader bounded to n bytes of r.
func Limit(r io.Reader, n int64) *LimitedReader {
	return &LimitedReader{R: NewReader(r), N: n}
}

func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.N <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > l.N {
		p = p[:l.N]
	}
	n, err := l.R.Read(p)
	l.N -= int64(n)
	return n, err
}

func (l *LimitedReader) ReadByte() (byte, error) {
	if l.N <= 0 {
		return 0, io.EOF
	}
	b, err := l.R.ReadByte()
	if err != nil {
		return 0, err
	}
	l.N--
	return b, nil
}

// Remaining returns the number of bytes left before the limit.
func (l *LimitedReader) Remaining() int64 {
	return l.N
}

// Discard consumes whatever is left before the limit. Running out of
// underlying stream first is an unexpected EOF.
func (l *LimitedReader) Discard() error {
	if l.N <= 0 {
		return nil
	}
	n, err := io.CopyN(io.Discard, l.R, l.N)
	l.N -= n
	if err != nil {
		return errors.IO(errors.PhaseDecode, err)
	}
	return nil
}
