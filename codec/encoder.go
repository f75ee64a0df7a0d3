package codec

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"
	"strconv"
	"unicode/utf16"

	"github.com/wippyai/gamewire/codec/internal/types"
	"github.com/wippyai/gamewire/errors"
	"github.com/wippyai/gamewire/wire"
)

// Encoder writes Go values using compiled plans.
type Encoder struct {
	compiler *Compiler
}

func NewEncoder() *Encoder {
	return &Encoder{compiler: defaultCompiler}
}

func NewEncoderWithCompiler(c *Compiler) *Encoder {
	return &Encoder{compiler: c}
}

// Encode writes v under cfg. A pointer is dereferenced once; a nil pointer
// is an error.
func (e *Encoder) Encode(w io.Writer, v any, cfg Config) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return errors.NilPointer(errors.PhaseEncode, nil, "nil")
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return errors.NilPointer(errors.PhaseEncode, nil, rv.Type().String())
		}
		rv = rv.Elem()
	}

	plan, err := e.compiler.Compile(rv.Type())
	if err != nil {
		return err
	}
	return encodeValue(wire.NewWriter(w), plan, rv, cfg)
}

func encodeValue(w *wire.Writer, p *types.Plan, v reflect.Value, cfg Config) error {
	switch p.Kind {
	case types.KindBool, types.KindU8, types.KindI8, types.KindU16, types.KindI16,
		types.KindU32, types.KindI32, types.KindU64, types.KindI64, types.KindF32, types.KindF64:
		return writePrim(w, p.Kind, v)

	case types.KindString:
		return encodeString(w, v.String(), cfg)

	case types.KindBytes:
		if err := cfg.WriteLen(w, v.Len()); err != nil {
			return err
		}
		return w.WriteBytes(v.Bytes())

	case types.KindUnit:
		return nil

	case types.KindArray:
		for i := range v.Len() {
			if err := encodeValue(w, p.Elem, v.Index(i), Default); err != nil {
				return errors.WithPath(err, index(i))
			}
		}
		return nil

	case types.KindSlice:
		if err := cfg.WriteLen(w, v.Len()); err != nil {
			return err
		}
		inner := cfg.InnerConfig()
		for i := range v.Len() {
			if err := encodeValue(w, p.Elem, v.Index(i), inner); err != nil {
				return errors.WithPath(err, index(i))
			}
		}
		return nil

	case types.KindSet, types.KindMap:
		return encodeMap(w, p, v, cfg)

	case types.KindPair:
		if err := encodeValue(w, p.Fields[0].Plan, v.Field(0), cfg); err != nil {
			return errors.WithPath(err, p.Fields[0].Name)
		}
		if err := encodeValue(w, p.Fields[1].Plan, v.Field(1), cfg.InnerConfig()); err != nil {
			return errors.WithPath(err, p.Fields[1].Name)
		}
		return nil

	case types.KindOption:
		if v.IsNil() {
			return nil
		}
		return encodeValue(w, p.Elem, v.Elem(), cfg)

	case types.KindBox:
		if v.IsNil() {
			return encodeValue(w, p.Elem, reflect.Zero(p.Elem.GoType), cfg)
		}
		return encodeValue(w, p.Elem, v.Elem(), cfg)

	case types.KindStruct:
		for i := range p.Fields {
			f := &p.Fields[i]
			if err := encodeWith(w, f.Plan, f.Mods, v.Field(f.Index)); err != nil {
				return errors.WithPath(err, f.Name)
			}
		}
		return nil

	case types.KindUnion:
		return encodeUnion(w, p, v)

	case types.KindEnum:
		return encodeEnum(w, p, v)

	case types.KindFlags:
		return w.WriteUint(p.Prim.Size(), v.Uint())

	case types.KindRemote:
		sv, err := p.Remote.To(v)
		if err != nil {
			return customError(errors.PhaseEncode, p.GoType, err)
		}
		return encodeValue(w, p.Elem, sv, cfg)

	case types.KindCustom:
		return encodeCustom(w, p, v, cfg)
	}

	return errors.Unsupported(errors.PhaseEncode, nil, p.GoType.String())
}

func writePrim(w *wire.Writer, k types.Kind, v reflect.Value) error {
	switch {
	case k == types.KindBool:
		return w.WriteBool(v.Bool())
	case k.IsUnsigned():
		return w.WriteUint(k.Size(), v.Uint())
	case k.IsSigned():
		return w.WriteUint(k.Size(), uint64(v.Int()))
	case k == types.KindF32:
		return w.WriteF32(float32(v.Float()))
	case k == types.KindF64:
		return w.WriteF64(v.Float())
	}
	return errors.New(errors.PhaseEncode, errors.KindUnsupported).
		WireType(k.String()).
		Build()
}

// encodeString writes s as UTF-8 with a byte count, or as UTF-16 code units
// with a unit count when cfg.UTF16 is set.
func encodeString(w *wire.Writer, s string, cfg Config) error {
	if !cfg.UTF16 {
		if err := cfg.WriteLen(w, len(s)); err != nil {
			return err
		}
		_, err := io.WriteString(w, s)
		return err
	}

	units := utf16.Encode([]rune(s))
	if err := cfg.WriteLen(w, len(units)); err != nil {
		return err
	}
	for _, u := range units {
		if err := w.WriteU16(u); err != nil {
			return err
		}
	}
	return nil
}

type mapEntry struct {
	val        reflect.Value
	start, end int
}

// encodeMap writes entries ordered by their encoded key bytes, so equal maps
// always produce equal output.
func encodeMap(w *wire.Writer, p *types.Plan, v reflect.Value, cfg Config) error {
	if err := cfg.WriteLen(w, v.Len()); err != nil {
		return err
	}
	inner := cfg.InnerConfig()

	buf := getBuffer()
	defer putBuffer(buf)
	kw := wire.NewWriter(buf)

	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		start := buf.Len()
		if err := encodeValue(kw, p.Key, iter.Key(), inner); err != nil {
			return errors.WithPath(err, mapKey(iter.Key()))
		}
		entries = append(entries, mapEntry{val: iter.Value(), start: start, end: buf.Len()})
	}

	keys := buf.Bytes()
	slices.SortFunc(entries, func(a, b mapEntry) int {
		return bytes.Compare(keys[a.start:a.end], keys[b.start:b.end])
	})

	for i, e := range entries {
		if err := w.WriteBytes(keys[e.start:e.end]); err != nil {
			return err
		}
		if p.Kind == types.KindSet {
			continue
		}
		if err := encodeValue(w, p.Elem, e.val, inner.InnerConfig()); err != nil {
			return errors.WithPath(err, index(i))
		}
	}
	return nil
}

func encodeUnion(w *wire.Writer, p *types.Plan, v reflect.Value) error {
	u := p.Union

	var chosen *types.Case
	for i := range u.Cases {
		c := &u.Cases[i]
		if v.Field(c.Index).IsNil() {
			continue
		}
		if chosen != nil {
			return errors.InvalidData(errors.PhaseEncode, nil,
				fmt.Sprintf("%s: variants %s and %s are both set", typeName(p.GoType), chosen.Name, c.Name))
		}
		chosen = c
	}
	if chosen == nil {
		return errors.InvalidData(errors.PhaseEncode, nil, typeName(p.GoType)+": no variant set")
	}

	return writePipeline(w, u.Mods, func(w *wire.Writer) error {
		var err error
		if u.Repr == types.KindString {
			err = encodeString(w, chosen.Tag, Default)
		} else {
			err = w.WriteUint(u.Repr.Size(), chosen.Num)
		}
		if err != nil {
			return err
		}
		payload := v.Field(chosen.Index).Elem()
		return errors.WithPath(encodeWith(w, chosen.Plan, chosen.Mods, payload), chosen.Name)
	})
}

func encodeEnum(w *wire.Writer, p *types.Plan, v reflect.Value) error {
	if p.Prim == types.KindString {
		s := v.String()
		if !p.Enum.ValidString(s) {
			return errors.InvalidEnum(errors.PhaseEncode, typeName(p.GoType), s)
		}
		return encodeString(w, s, Default)
	}

	raw := enumRaw(v)
	if !p.Enum.Valid(raw) {
		return errors.InvalidEnum(errors.PhaseEncode, typeName(p.GoType), v.Interface())
	}
	return w.WriteUint(p.Prim.Size(), raw)
}

func encodeCustom(w *wire.Writer, p *types.Plan, v reflect.Value, cfg Config) error {
	var m Marshaler
	if v.CanAddr() {
		m, _ = v.Addr().Interface().(Marshaler)
	}
	if m == nil {
		m, _ = v.Interface().(Marshaler)
	}
	if m == nil {
		pv := reflect.New(v.Type())
		pv.Elem().Set(v)
		m, _ = pv.Interface().(Marshaler)
	}
	if m == nil {
		return errors.New(errors.PhaseEncode, errors.KindUnsupported).
			GoType(p.GoType.String()).
			Detail("type does not implement Marshaler").
			Build()
	}
	return customError(errors.PhaseEncode, p.GoType, m.MarshalWire(w, cfg))
}

// encodeScaled multiplies numeric leaves by the scale and writes them as the
// as= primitive, or the field's own primitive.
func encodeScaled(w *wire.Writer, p *types.Plan, m *types.Modifiers, v reflect.Value) error {
	if p.Kind == types.KindArray {
		for i := range v.Len() {
			if err := writeScaledLeaf(w, p.Elem.Kind, m, v.Index(i)); err != nil {
				return errors.WithPath(err, index(i))
			}
		}
		return nil
	}
	return writeScaledLeaf(w, p.Kind, m, v)
}

func writeScaledLeaf(w *wire.Writer, leaf types.Kind, m *types.Modifiers, v reflect.Value) error {
	x := toFloat(v)
	if m.Scale != 0 {
		x *= m.Scale
	}
	k := m.As
	if k == types.KindInvalid {
		k = leaf
	}
	return writeNumber(w, k, x)
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	}
	return v.Float()
}

// writeNumber rounds x to the nearest integer for integer kinds and rejects
// values outside the kind's range.
func writeNumber(w *wire.Writer, k types.Kind, x float64) error {
	switch {
	case k == types.KindF32:
		return w.WriteF32(float32(x))
	case k == types.KindF64:
		return w.WriteF64(x)
	}

	r := math.Round(x)
	lo, hi := numberRange(k)
	if math.IsNaN(r) || r < lo || r > hi {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			WireType(k.String()).
			Value(x).
			Detail("value %v out of range", x).
			Build()
	}
	if k.IsSigned() {
		return w.WriteUint(k.Size(), uint64(int64(r)))
	}
	return w.WriteUint(k.Size(), uint64(r))
}

func numberRange(k types.Kind) (float64, float64) {
	switch k {
	case types.KindU8:
		return 0, math.MaxUint8
	case types.KindI8:
		return math.MinInt8, math.MaxInt8
	case types.KindU16:
		return 0, math.MaxUint16
	case types.KindI16:
		return math.MinInt16, math.MaxInt16
	case types.KindU32:
		return 0, math.MaxUint32
	case types.KindI32:
		return math.MinInt32, math.MaxInt32
	case types.KindU64:
		// largest float64 below 2^64
		return 0, 18446744073709549568
	case types.KindI64:
		return math.MinInt64, 9223372036854774784
	}
	return math.Inf(-1), math.Inf(1)
}

func enumRaw(v reflect.Value) uint64 {
	switch v.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(v.Int())
	}
	return v.Uint()
}

// customError classifies an error returned by caller code.
func customError(phase errors.Phase, t reflect.Type, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.KindOf(err); ok {
		return err
	}
	return errors.Custom(phase, typeName(t), err)
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func index(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

func mapKey(k reflect.Value) string {
	return fmt.Sprintf("[%v]", k.Interface())
}
