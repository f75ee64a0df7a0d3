package codec

import (
	"io"
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/gamewire/errors"
	"github.com/wippyai/gamewire/wire"
)

// LenWidth is the width of a length prefix in bits. LenNone writes no prefix
// and marks the collection as unbounded: it extends to the end of the stream.
type LenWidth uint8

const (
	LenNone LenWidth = 0
	Len8    LenWidth = 8
	Len16   LenWidth = 16
	Len32   LenWidth = 32
	Len64   LenWidth = 64
)

func (l LenWidth) String() string {
	if l == LenNone {
		return "none"
	}
	return strconv.Itoa(int(l))
}

func (l LenWidth) wireName() string {
	if l == LenNone {
		return "none"
	}
	return "u" + strconv.Itoa(int(l))
}

// Config says how lengths are encoded at one nesting level. Inner applies
// to the elements of a collection; nil means Default.
//
// The zero Config is unbounded. Use Default for the 16-bit prefix.
type Config struct {
	Inner *Config
	Len   LenWidth
	UTF16 bool
}

// Default is the configuration used wherever none is declared.
var Default = Config{Len: Len16}

// InnerConfig returns the configuration for nested elements.
func (c Config) InnerConfig() Config {
	if c.Inner == nil {
		return Default
	}
	return *c.Inner
}

// WithInner returns c with the given inner configuration.
func (c Config) WithInner(inner Config) Config {
	c.Inner = &inner
	return c
}

// String renders the chain as used in struct tags, e.g. "8/32,utf16".
func (c Config) String() string {
	var b strings.Builder
	b.WriteString(c.Len.String())
	for in := c.Inner; in != nil; in = in.Inner {
		b.WriteByte('/')
		b.WriteString(in.Len.String())
	}
	if c.UTF16 {
		b.WriteString(",utf16")
	}
	return b.String()
}

// ParseConfig parses a length chain such as "16", "8/32" or "none/8".
// A trailing ",utf16" sets the UTF-16 flag on the outer level.
func ParseConfig(s string) (Config, error) {
	s, utf16 := strings.CutSuffix(s, ",utf16")
	widths, err := parseWidths(s)
	if err != nil {
		return Config{}, err
	}
	cfg := configFromWidths(widths)
	cfg.UTF16 = utf16
	return cfg, nil
}

func parseWidths(s string) ([]uint8, error) {
	parts := strings.Split(s, "/")
	widths := make([]uint8, 0, len(parts))
	for _, p := range parts {
		var w LenWidth
		switch p {
		case "0", "none":
			w = LenNone
		case "8", "16", "32", "64":
			n, _ := strconv.Atoi(p)
			w = LenWidth(n)
		default:
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidTag).
				Detail("invalid length width %q in %q", p, s).
				Build()
		}
		widths = append(widths, uint8(w))
	}
	return widths, nil
}

// configFromWidths builds a chain from outer to inner widths. An empty chain
// is Default.
func configFromWidths(widths []uint8) Config {
	if len(widths) == 0 {
		return Default
	}
	var inner *Config
	for i := len(widths) - 1; i > 0; i-- {
		c := Config{Len: LenWidth(widths[i]), Inner: inner}
		inner = &c
	}
	return Config{Len: LenWidth(widths[0]), Inner: inner}
}

// WriteLen writes n as a length prefix of the configured width.
func (c Config) WriteLen(w *wire.Writer, n int) error {
	if n < 0 {
		return errors.InvalidData(errors.PhaseEncode, nil, "negative length")
	}
	var limit uint64
	switch c.Len {
	case LenNone:
		return nil
	case Len8:
		limit = math.MaxUint8
	case Len16:
		limit = math.MaxUint16
	case Len32:
		limit = math.MaxUint32
	case Len64:
		limit = math.MaxUint64
	default:
		return errors.New(errors.PhaseEncode, errors.KindUnsupported).
			Detail("length width %d", c.Len).
			Build()
	}
	if uint64(n) > limit {
		return errors.TooBig(errors.PhaseEncode, uint64(n), c.Len.wireName())
	}
	return w.WriteUint(int(c.Len)/8, uint64(n))
}

// ReadLen reads a length prefix. LenNone consumes nothing and returns
// Unbounded.
func (c Config) ReadLen(r *wire.Reader) (Length, error) {
	switch c.Len {
	case LenNone:
		return Unbounded, nil
	case Len8, Len16, Len32, Len64:
	default:
		return Length{}, errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Detail("length width %d", c.Len).
			Build()
	}
	n, err := r.ReadUint(int(c.Len) / 8)
	if err != nil {
		return Length{}, err
	}
	if n > math.MaxInt {
		return Length{}, errors.TooBig(errors.PhaseDecode, n, "int")
	}
	return Bounded(int(n)), nil
}

// Length is a decoded collection length: a count, or unbounded.
type Length struct {
	n       int
	bounded bool
}

// Unbounded is the length of a collection that extends to end of stream.
var Unbounded = Length{}

func Bounded(n int) Length {
	return Length{n: n, bounded: true}
}

// Count returns the element count and whether the length is bounded.
func (l Length) Count() (int, bool) {
	return l.n, l.bounded
}

func (l Length) IsBounded() bool {
	return l.bounded
}

// Range yields element indexes: 0..n-1 when bounded, forever otherwise.
func (l Length) Range() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; !l.bounded || i < l.n; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Take limits r to the length in bytes. Unbounded lengths return r as is.
func (l Length) Take(r io.Reader) io.Reader {
	if !l.bounded {
		return r
	}
	return wire.Limit(r, int64(l.n))
}

func (l Length) String() string {
	if !l.bounded {
		return "unbounded"
	}
	return strconv.Itoa(l.n)
}
