package compress

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/wippyai/gamewire/errors"
	"github.com/wippyai/gamewire/wire"
)

// Method selects a stream compressor.
type Method uint8

const (
	None Method = iota
	Zlib
	Zstd
)

var methodNames = [...]string{
	None: "none",
	Zlib: "zlib",
	Zstd: "zstd",
}

func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return fmt.Sprintf("method(%d)", m)
}

// Lookup returns the method with the given name.
func Lookup(name string) (Method, bool) {
	for i, n := range methodNames {
		if strings.EqualFold(n, name) {
			return Method(i), true
		}
	}
	return None, false
}

var (
	zlibWriters = sync.Pool{
		New: func() any {
			w, _ := zlib.NewWriterLevel(io.Discard, zlib.DefaultCompression)
			return w
		},
	}
	zlibReaders sync.Pool

	zstdEncoders = sync.Pool{
		New: func() any {
			enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithZeroFrames(true))
			if err != nil {
				panic(err)
			}
			return enc
		},
	}

	decoderOnce sync.Once
	decoder     *zstd.Decoder
	decoderErr  error
)

func zstdDecoder() (*zstd.Decoder, error) {
	decoderOnce.Do(func() {
		decoder, decoderErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
	return decoder, decoderErr
}

// Writer is a pooled compressor. Close finalizes the compressed stream and
// returns the compressor to its pool; it never closes the underlying sink.
type Writer struct {
	method Method
	zw     *zlib.Writer
	ze     *zstd.Encoder
	closed bool
}

// NewWriter returns a compressor writing the given method's stream to w.
func NewWriter(method Method, w io.Writer) (*Writer, error) {
	switch method {
	case Zlib:
		zw := zlibWriters.Get().(*zlib.Writer)
		zw.Reset(w)
		return &Writer{method: method, zw: zw}, nil
	case Zstd:
		ze := zstdEncoders.Get().(*zstd.Encoder)
		ze.Reset(w)
		return &Writer{method: method, ze: ze}, nil
	}
	return nil, errors.New(errors.PhaseEncode, errors.KindUnsupported).
		Detail("compression method %s", method).
		Build()
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errors.New(errors.PhaseEncode, errors.KindIO).Detail("write to closed %s stream", w.method).Build()
	}
	var (
		n   int
		err error
	)
	if w.zw != nil {
		n, err = w.zw.Write(p)
	} else {
		n, err = w.ze.Write(p)
	}
	if err != nil {
		return n, wrapIO(errors.PhaseEncode, err)
	}
	return n, nil
}

// Close finalizes the stream. Calling Close more than once is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var err error
	switch {
	case w.zw != nil:
		err = w.zw.Close()
		w.zw.Reset(io.Discard)
		zlibWriters.Put(w.zw)
		w.zw = nil
	case w.ze != nil:
		err = w.ze.Close()
		w.ze.Reset(nil)
		zstdEncoders.Put(w.ze)
		w.ze = nil
	}
	if err != nil {
		return wrapIO(errors.PhaseEncode, err)
	}
	return nil
}

// Reader is a decompressor over exactly one compressed region.
type Reader struct {
	method Method
	zr     io.ReadCloser
	data   *bytes.Reader
	closed bool
}

// NewReader starts decompressing the region at the head of r. The region is
// consumed exactly up to its self-terminating end once the Reader has been
// read to EOF or closed; bytes after it are left in r.
func NewReader(method Method, r io.Reader) (*Reader, error) {
	src := wire.NewReader(r)
	switch method {
	case Zlib:
		zr, err := getZlibReader(src)
		if err != nil {
			return nil, err
		}
		return &Reader{method: method, zr: zr}, nil
	case Zstd:
		frame, err := readZstdFrame(src)
		if err != nil {
			return nil, err
		}
		dec, err := zstdDecoder()
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindIO, err, "zstd decoder")
		}
		out, err := dec.DecodeAll(frame, nil)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "zstd frame")
		}
		return &Reader{method: method, data: bytes.NewReader(out)}, nil
	}
	return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
		Detail("compression method %s", method).
		Build()
}

func getZlibReader(src *wire.Reader) (io.ReadCloser, error) {
	if pooled, ok := zlibReaders.Get().(io.ReadCloser); ok {
		if err := pooled.(zlib.Resetter).Reset(src, nil); err != nil {
			return nil, wrapIO(errors.PhaseDecode, err)
		}
		return pooled, nil
	}
	zr, err := zlib.NewReader(src)
	if err != nil {
		return nil, wrapIO(errors.PhaseDecode, err)
	}
	return zr, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, io.EOF
	}
	if r.data != nil {
		return r.data.Read(p)
	}
	n, err := r.zr.Read(p)
	if err != nil && err != io.EOF {
		return n, wrapIO(errors.PhaseDecode, err)
	}
	return n, err
}

// ReadByte lets nested decoders read the decompressed stream directly.
func (r *Reader) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Close discards decompressed bytes nobody read, so the compressed region
// and its trailer are consumed in full, then releases the decompressor.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	var err error
	if r.zr != nil {
		if _, derr := io.Copy(io.Discard, r.zr); derr != nil {
			err = wrapIO(errors.PhaseDecode, derr)
		}
		if cerr := r.zr.Close(); cerr != nil && err == nil {
			err = wrapIO(errors.PhaseDecode, cerr)
		}
		if err == nil {
			zlibReaders.Put(r.zr)
		}
		r.zr = nil
	}
	r.closed = true
	return err
}

// wrapIO keeps already classified errors and classifies the rest.
func wrapIO(phase errors.Phase, err error) error {
	if _, ok := errors.KindOf(err); ok {
		return err
	}
	return errors.IO(phase, err)
}
