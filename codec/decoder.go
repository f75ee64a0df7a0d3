package codec

import (
	"bytes"
	"io"
	"math"
	"reflect"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/wippyai/gamewire/codec/internal/types"
	"github.com/wippyai/gamewire/errors"
	"github.com/wippyai/gamewire/wire"
)

const (
	// Declared lengths come from untrusted input; allocation grows with
	// the data actually read past these sizes.
	maxPrealloc  = 4096
	maxByteChunk = 64 << 10
)

// Decoder reads Go values using compiled plans.
type Decoder struct {
	compiler *Compiler
}

func NewDecoder() *Decoder {
	return &Decoder{compiler: defaultCompiler}
}

func NewDecoderWithCompiler(c *Compiler) *Decoder {
	return &Decoder{compiler: c}
}

// Decode reads into the value v points to. Bytes after the value are left
// unread.
func (d *Decoder) Decode(r io.Reader, v any, cfg Config) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return errors.NilPointer(errors.PhaseDecode, nil, "nil")
	}
	if rv.Kind() != reflect.Pointer {
		return errors.TypeMismatch(errors.PhaseDecode, nil, rv.Type().String(), "pointer")
	}
	if rv.IsNil() {
		return errors.NilPointer(errors.PhaseDecode, nil, rv.Type().String())
	}

	elem := rv.Elem()
	plan, err := d.compiler.Compile(elem.Type())
	if err != nil {
		return err
	}
	return decodeValue(wire.NewReader(r), plan, elem, cfg)
}

// decodeValue decodes into v, which must be settable.
func decodeValue(r *wire.Reader, p *types.Plan, v reflect.Value, cfg Config) error {
	switch p.Kind {
	case types.KindBool, types.KindU8, types.KindI8, types.KindU16, types.KindI16,
		types.KindU32, types.KindI32, types.KindU64, types.KindI64, types.KindF32, types.KindF64:
		return readPrim(r, p.Kind, v)

	case types.KindString:
		s, err := decodeString(r, cfg)
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil

	case types.KindBytes:
		n, err := cfg.ReadLen(r)
		if err != nil {
			return err
		}
		data, err := readLength(r, n)
		if err != nil {
			return err
		}
		v.SetBytes(data)
		return nil

	case types.KindUnit:
		return nil

	case types.KindArray:
		for i := range v.Len() {
			if err := decodeValue(r, p.Elem, v.Index(i), Default); err != nil {
				return errors.WithPath(err, index(i))
			}
		}
		return nil

	case types.KindSlice:
		return decodeSlice(r, p, v, cfg)

	case types.KindSet, types.KindMap:
		return decodeMap(r, p, v, cfg)

	case types.KindPair:
		if err := decodeValue(r, p.Fields[0].Plan, v.Field(0), cfg); err != nil {
			return errors.WithPath(err, p.Fields[0].Name)
		}
		if err := decodeValue(r, p.Fields[1].Plan, v.Field(1), cfg.InnerConfig()); err != nil {
			return errors.WithPath(err, p.Fields[1].Name)
		}
		return nil

	case types.KindOption:
		nv := reflect.New(p.Elem.GoType)
		if err := decodeValue(r, p.Elem, nv.Elem(), cfg); err != nil {
			if errors.IsUnexpectedEOF(err) {
				v.SetZero()
				return nil
			}
			return err
		}
		v.Set(nv)
		return nil

	case types.KindBox:
		nv := reflect.New(p.Elem.GoType)
		if err := decodeValue(r, p.Elem, nv.Elem(), cfg); err != nil {
			return err
		}
		v.Set(nv)
		return nil

	case types.KindStruct:
		for i := range p.Fields {
			f := &p.Fields[i]
			if err := decodeWith(r, f.Plan, f.Mods, v.Field(f.Index)); err != nil {
				return errors.WithPath(err, f.Name)
			}
		}
		return nil

	case types.KindUnion:
		return decodeUnion(r, p, v)

	case types.KindEnum:
		return decodeEnum(r, p, v)

	case types.KindFlags:
		n, err := r.ReadUint(p.Prim.Size())
		if err != nil {
			return err
		}
		v.SetUint(n & p.Mask)
		return nil

	case types.KindRemote:
		sv := reflect.New(p.Remote.Shadow).Elem()
		if err := decodeValue(r, p.Elem, sv, cfg); err != nil {
			return err
		}
		v.Set(p.Remote.From(sv))
		return nil

	case types.KindCustom:
		u, ok := v.Addr().Interface().(Unmarshaler)
		if !ok {
			return errors.New(errors.PhaseDecode, errors.KindUnsupported).
				GoType(p.GoType.String()).
				Detail("type does not implement Unmarshaler").
				Build()
		}
		v.SetZero()
		return customError(errors.PhaseDecode, p.GoType, u.UnmarshalWire(r, cfg))
	}

	return errors.Unsupported(errors.PhaseDecode, nil, p.GoType.String())
}

func readPrim(r *wire.Reader, k types.Kind, v reflect.Value) error {
	switch {
	case k == types.KindBool:
		b, err := r.ReadBool()
		if err != nil {
			return err
		}
		v.SetBool(b)
	case k.IsUnsigned():
		n, err := r.ReadUint(k.Size())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case k.IsSigned():
		n, err := r.ReadUint(k.Size())
		if err != nil {
			return err
		}
		v.SetInt(signExtend(k, n))
	case k == types.KindF32:
		f, err := r.ReadF32()
		if err != nil {
			return err
		}
		v.SetFloat(float64(f))
	case k == types.KindF64:
		f, err := r.ReadF64()
		if err != nil {
			return err
		}
		v.SetFloat(f)
	default:
		return errors.New(errors.PhaseDecode, errors.KindUnsupported).
			WireType(k.String()).
			Build()
	}
	return nil
}

func signExtend(k types.Kind, n uint64) int64 {
	switch k {
	case types.KindI8:
		return int64(int8(n))
	case types.KindI16:
		return int64(int16(n))
	case types.KindI32:
		return int64(int32(n))
	}
	return int64(n)
}

// readLength reads n bytes, or the rest of the stream when n is unbounded.
func readLength(r *wire.Reader, n Length) ([]byte, error) {
	count, bounded := n.Count()
	if !bounded {
		return r.ReadRemaining()
	}
	if count <= maxByteChunk {
		return r.ReadBytes(count)
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, int64(count)); err != nil {
		return nil, errors.IO(errors.PhaseDecode, err)
	}
	return buf.Bytes(), nil
}

func decodeString(r *wire.Reader, cfg Config) (string, error) {
	n, err := cfg.ReadLen(r)
	if err != nil {
		return "", err
	}

	if cfg.UTF16 {
		units, err := readUnits(r, n)
		if err != nil {
			return "", err
		}
		return decodeUTF16(units)
	}

	data, err := readLength(r, n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, data)
	}
	return string(data), nil
}

func readUnits(r *wire.Reader, n Length) ([]uint16, error) {
	count, bounded := n.Count()
	units := make([]uint16, 0, min(count, maxPrealloc))
	for range n.Range() {
		u, err := r.ReadU16()
		if err != nil {
			if !bounded && errors.IsUnexpectedEOF(err) {
				break
			}
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

// decodeUTF16 rejects unpaired surrogates instead of replacing them.
func decodeUTF16(units []uint16) (string, error) {
	var b strings.Builder
	b.Grow(len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u < 0xd800 || u >= 0xe000:
			b.WriteRune(rune(u))
		case u < 0xdc00 && i+1 < len(units) && units[i+1] >= 0xdc00 && units[i+1] < 0xe000:
			b.WriteRune(utf16.DecodeRune(rune(u), rune(units[i+1])))
			i++
		default:
			return "", errors.InvalidUTF16(errors.PhaseDecode, u)
		}
	}
	return b.String(), nil
}

// decodeSlice reads elements until the count is reached. An unbounded slice
// ends cleanly when the stream runs out between elements, or when an element
// consumes no bytes (options at EOF, units, all-default structs).
func decodeSlice(r *wire.Reader, p *types.Plan, v reflect.Value, cfg Config) error {
	n, err := cfg.ReadLen(r)
	if err != nil {
		return err
	}
	inner := cfg.InnerConfig()
	count, bounded := n.Count()

	s := reflect.MakeSlice(p.GoType, 0, min(count, maxPrealloc))
	zero := reflect.Zero(p.Elem.GoType)
	for i := range n.Range() {
		start := r.Position()
		s = reflect.Append(s, zero)
		if err := decodeValue(r, p.Elem, s.Index(i), inner); err != nil {
			if !bounded && errors.IsUnexpectedEOF(err) {
				s = s.Slice(0, i)
				break
			}
			return errors.WithPath(err, index(i))
		}
		if !bounded && r.Position() == start {
			s = s.Slice(0, i)
			break
		}
	}

	if s.Len() == 0 {
		v.SetZero()
		return nil
	}
	v.Set(s)
	return nil
}

func decodeMap(r *wire.Reader, p *types.Plan, v reflect.Value, cfg Config) error {
	n, err := cfg.ReadLen(r)
	if err != nil {
		return err
	}
	inner := cfg.InnerConfig()
	count, bounded := n.Count()

	m := reflect.MakeMapWithSize(p.GoType, min(count, maxPrealloc))
	setValue := reflect.Zero(p.GoType.Elem())
	for i := range n.Range() {
		start := r.Position()
		k := reflect.New(p.Key.GoType).Elem()
		err := decodeValue(r, p.Key, k, inner)
		val := setValue
		if err == nil && p.Kind == types.KindMap {
			val = reflect.New(p.Elem.GoType).Elem()
			err = decodeValue(r, p.Elem, val, inner.InnerConfig())
		}
		if err != nil {
			if !bounded && errors.IsUnexpectedEOF(err) {
				break
			}
			return errors.WithPath(err, index(i))
		}
		if !bounded && r.Position() == start {
			break
		}
		m.SetMapIndex(k, val)
	}

	if m.Len() == 0 {
		v.SetZero()
		return nil
	}
	v.Set(m)
	return nil
}

func decodeUnion(r *wire.Reader, p *types.Plan, v reflect.Value) error {
	u := p.Union
	return readPipeline(r, u.Mods, v, func(r *wire.Reader) error {
		var (
			c  *types.Case
			ok bool
		)
		if u.Repr == types.KindString {
			tag, err := decodeString(r, Default)
			if err != nil {
				return err
			}
			if c, ok = u.LookupTag(tag); !ok {
				return errors.InvalidEnum(errors.PhaseDecode, typeName(p.GoType), tag)
			}
		} else {
			num, err := r.ReadUint(u.Repr.Size())
			if err != nil {
				return err
			}
			if c, ok = u.Lookup(num); !ok {
				return errors.InvalidEnum(errors.PhaseDecode, typeName(p.GoType), num)
			}
		}

		v.SetZero()
		payload := reflect.New(v.Field(c.Index).Type().Elem())
		if err := decodeWith(r, c.Plan, c.Mods, payload.Elem()); err != nil {
			return errors.WithPath(err, c.Name)
		}
		v.Field(c.Index).Set(payload)
		return nil
	})
}

func decodeEnum(r *wire.Reader, p *types.Plan, v reflect.Value) error {
	if p.Prim == types.KindString {
		s, err := decodeString(r, Default)
		if err != nil {
			return err
		}
		if !p.Enum.ValidString(s) {
			return errors.InvalidEnum(errors.PhaseDecode, typeName(p.GoType), s)
		}
		v.SetString(s)
		return nil
	}

	n, err := r.ReadUint(p.Prim.Size())
	if err != nil {
		return err
	}
	if p.Prim.IsSigned() {
		x := signExtend(p.Prim, n)
		if !p.Enum.Valid(uint64(x)) {
			return errors.InvalidEnum(errors.PhaseDecode, typeName(p.GoType), x)
		}
		v.SetInt(x)
		return nil
	}
	if !p.Enum.Valid(n) {
		return errors.InvalidEnum(errors.PhaseDecode, typeName(p.GoType), n)
	}
	v.SetUint(n)
	return nil
}

func decodeScaled(r *wire.Reader, p *types.Plan, m *types.Modifiers, v reflect.Value) error {
	if p.Kind == types.KindArray {
		for i := range v.Len() {
			if err := readScaledLeaf(r, p.Elem.Kind, m, v.Index(i)); err != nil {
				return errors.WithPath(err, index(i))
			}
		}
		return nil
	}
	return readScaledLeaf(r, p.Kind, m, v)
}

func readScaledLeaf(r *wire.Reader, leaf types.Kind, m *types.Modifiers, v reflect.Value) error {
	k := m.As
	if k == types.KindInvalid {
		k = leaf
	}
	x, err := readNumber(r, k)
	if err != nil {
		return err
	}
	if m.Scale != 0 {
		x /= m.Scale
	}
	return setNumber(v, x)
}

func readNumber(r *wire.Reader, k types.Kind) (float64, error) {
	switch {
	case k == types.KindF32:
		f, err := r.ReadF32()
		return float64(f), err
	case k == types.KindF64:
		return r.ReadF64()
	}
	n, err := r.ReadUint(k.Size())
	if err != nil {
		return 0, err
	}
	if k.IsSigned() {
		return float64(signExtend(k, n)), nil
	}
	return float64(n), nil
}

func setNumber(v reflect.Value, x float64) error {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		v.SetFloat(x)
		return nil
	}

	rounded := math.Round(x)
	outOfRange := false
	switch v.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		outOfRange = rounded < math.MinInt64 || rounded >= math.MaxInt64 || v.OverflowInt(int64(rounded))
		if !outOfRange {
			v.SetInt(int64(rounded))
		}
	default:
		outOfRange = rounded < 0 || rounded >= math.MaxUint64 || v.OverflowUint(uint64(rounded))
		if !outOfRange {
			v.SetUint(uint64(rounded))
		}
	}
	if outOfRange {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			GoType(v.Type().String()).
			Value(x).
			Detail("value %v out of range", x).
			Build()
	}
	return nil
}
