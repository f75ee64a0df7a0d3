package codec

import (
	"reflect"

	"github.com/wippyai/gamewire/codec/internal/types"
	"github.com/wippyai/gamewire/compress"
	"github.com/wippyai/gamewire/errors"
	"github.com/wippyai/gamewire/wire"
)

// Field pipeline, outermost first:
//
//	before constants
//	  size frame
//	    compression
//	      value transform (map, scale, as)
//	        base codec
//	after constants
//
// default sits between the constants and the size frame: an unexpected end
// of stream anywhere inside yields the zero value.

func modsConfig(m *types.Modifiers) Config {
	cfg := configFromWidths(m.Lens)
	cfg.UTF16 = m.UTF16
	return cfg
}

func encodeWith(w *wire.Writer, p *types.Plan, m *types.Modifiers, v reflect.Value) error {
	if m == nil {
		return encodeValue(w, p, v, Default)
	}
	cfg := modsConfig(m)
	return writePipeline(w, m, func(w *wire.Writer) error {
		switch {
		case m.Mapping != nil:
			wv, err := m.Mapping.To(v)
			if err != nil {
				return errors.Custom(errors.PhaseEncode, m.Mapping.Name, err)
			}
			return encodeValue(w, p, wv, cfg)
		case m.Scale != 0 || m.As != types.KindInvalid:
			return encodeScaled(w, p, m, v)
		}
		return encodeValue(w, p, v, cfg)
	})
}

func decodeWith(r *wire.Reader, p *types.Plan, m *types.Modifiers, v reflect.Value) error {
	if m == nil {
		return decodeValue(r, p, v, Default)
	}
	cfg := modsConfig(m)
	return readPipeline(r, m, v, func(r *wire.Reader) error {
		switch {
		case m.Mapping != nil:
			wv := reflect.New(m.Mapping.Wire).Elem()
			if err := decodeValue(r, p, wv, cfg); err != nil {
				return err
			}
			out, err := m.Mapping.From(wv)
			if err != nil {
				return errors.Custom(errors.PhaseDecode, m.Mapping.Name, err)
			}
			v.Set(out)
			return nil
		case m.Scale != 0 || m.As != types.KindInvalid:
			return decodeScaled(r, p, m, v)
		}
		return decodeValue(r, p, v, cfg)
	})
}

func writePipeline(w *wire.Writer, m *types.Modifiers, body func(*wire.Writer) error) error {
	if m == nil {
		return body(w)
	}
	for _, c := range m.Before {
		if err := writeConst(w, c); err != nil {
			return err
		}
	}
	if err := writeFramed(w, m, body); err != nil {
		return err
	}
	for _, c := range m.After {
		if err := writeConst(w, c); err != nil {
			return err
		}
	}
	return nil
}

// writeFramed buffers the body to learn its size when a size frame is set.
func writeFramed(w *wire.Writer, m *types.Modifiers, body func(*wire.Writer) error) error {
	if m.Size == 0 {
		return writeCompressed(w, m.Compress, body)
	}

	buf := getBuffer()
	defer putBuffer(buf)
	if err := writeCompressed(wire.NewWriter(buf), m.Compress, body); err != nil {
		return err
	}
	if err := (Config{Len: LenWidth(m.Size)}).WriteLen(w, buf.Len()); err != nil {
		return err
	}
	return w.WriteBytes(buf.Bytes())
}

func writeCompressed(w *wire.Writer, method compress.Method, body func(*wire.Writer) error) error {
	if method == compress.None {
		return body(w)
	}
	cw, err := compress.NewWriter(method, w)
	if err != nil {
		return err
	}
	err = body(wire.NewWriter(cw))
	if cerr := cw.Close(); err == nil {
		err = cerr
	}
	return err
}

func readPipeline(r *wire.Reader, m *types.Modifiers, v reflect.Value, body func(*wire.Reader) error) error {
	if m == nil {
		return body(r)
	}
	for _, c := range m.Before {
		if err := readConst(r, c); err != nil {
			return err
		}
	}
	if err := readFramed(r, m, body); err != nil {
		if !m.Default || !errors.IsUnexpectedEOF(err) {
			return err
		}
		v.SetZero()
	}
	for _, c := range m.After {
		if err := readConst(r, c); err != nil {
			return err
		}
	}
	return nil
}

// readFramed confines the body to the declared size and skips whatever the
// body left unread.
func readFramed(r *wire.Reader, m *types.Modifiers, body func(*wire.Reader) error) error {
	if m.Size == 0 {
		return readCompressed(r, m.Compress, body)
	}

	n, err := (Config{Len: LenWidth(m.Size)}).ReadLen(r)
	if err != nil {
		return err
	}
	size, _ := n.Count()
	sub := wire.Limit(r, int64(size))
	err = readCompressed(wire.NewReader(sub), m.Compress, body)
	if err != nil && !errors.IsUnexpectedEOF(err) {
		return err
	}
	if derr := sub.Discard(); derr != nil {
		return derr
	}
	return err
}

func readCompressed(r *wire.Reader, method compress.Method, body func(*wire.Reader) error) error {
	if method == compress.None {
		return body(r)
	}
	cr, err := compress.NewReader(method, r)
	if err != nil {
		return err
	}
	err = body(wire.NewReader(cr))
	if cerr := cr.Close(); err == nil {
		err = cerr
	}
	return err
}

func writeConst(w *wire.Writer, c types.Const) error {
	switch v := c.Value.(type) {
	case bool:
		return w.WriteBool(v)
	case uint8:
		return w.WriteU8(v)
	case uint16:
		return w.WriteU16(v)
	case uint32:
		return w.WriteU32(v)
	case uint64:
		return w.WriteU64(v)
	case int8:
		return w.WriteI8(v)
	case int16:
		return w.WriteI16(v)
	case int32:
		return w.WriteI32(v)
	case int64:
		return w.WriteI64(v)
	case float32:
		return w.WriteF32(v)
	case float64:
		return w.WriteF64(v)
	case string:
		return encodeString(w, v, Default)
	}
	return errors.New(errors.PhaseEncode, errors.KindUnsupported).
		WireType(c.Kind.String()).
		Detail("constant of type %T", c.Value).
		Build()
}

// readConst reads a literal of the constant's kind and fails unless it
// equals the declared value.
func readConst(r *wire.Reader, c types.Const) error {
	var (
		got any
		err error
	)
	switch c.Value.(type) {
	case bool:
		got, err = r.ReadBool()
	case uint8:
		got, err = r.ReadU8()
	case uint16:
		got, err = r.ReadU16()
	case uint32:
		got, err = r.ReadU32()
	case uint64:
		got, err = r.ReadU64()
	case int8:
		got, err = r.ReadI8()
	case int16:
		got, err = r.ReadI16()
	case int32:
		got, err = r.ReadI32()
	case int64:
		got, err = r.ReadI64()
	case float32:
		got, err = r.ReadF32()
	case float64:
		got, err = r.ReadF64()
	case string:
		got, err = decodeString(r, Default)
	default:
		return errors.New(errors.PhaseDecode, errors.KindUnsupported).
			WireType(c.Kind.String()).
			Detail("constant of type %T", c.Value).
			Build()
	}
	if err != nil {
		return err
	}
	if got != c.Value {
		return errors.InvalidConst(errors.PhaseDecode, c.Value, got)
	}
	return nil
}
