package codec

import (
	"image"
	"math"
	"reflect"
	"sync"

	"github.com/wippyai/gamewire/codec/internal/types"
	"github.com/wippyai/gamewire/errors"
)

// Registrations must happen before a type is first compiled, typically from
// an init function. Compiled plans are not invalidated.
type registry struct {
	enums    map[reflect.Type]*types.Enum
	flags    map[reflect.Type]uint64
	remotes  map[reflect.Type]*types.Remote
	mappings map[string]*types.Mapping
	mu       sync.RWMutex
}

var reg = &registry{
	enums:    make(map[reflect.Type]*types.Enum),
	flags:    make(map[reflect.Type]uint64),
	remotes:  make(map[reflect.Type]*types.Remote),
	mappings: make(map[string]*types.Mapping),
}

func (r *registry) enum(t reflect.Type) *types.Enum {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enums[t]
}

func (r *registry) flagMask(t reflect.Type) (uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.flags[t]
	return m, ok
}

func (r *registry) remote(t reflect.Type) *types.Remote {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.remotes[t]
}

func (r *registry) mapping(name string) *types.Mapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mappings[name]
}

func registerPanic(t reflect.Type, format string, args ...any) {
	panic(errors.New(errors.PhaseRegister, errors.KindInvalidData).
		GoType(t.String()).
		Detail(format, args...).
		Build())
}

// EnumValue is the set of types usable as scalar enums.
type EnumValue interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64 | ~string
}

// RegisterEnum declares the valid values of a named integer or string type.
// Decoding any other value fails with an invalid_enum error. Registering the
// same type again adds values.
func RegisterEnum[T EnumValue](values ...T) {
	t := reflect.TypeFor[T]()
	if t.Name() == "" {
		registerPanic(t, "enum type must be named")
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.flags[t]; ok {
		registerPanic(t, "type is already registered as a flag set")
	}
	e := reg.enums[t]
	if e == nil {
		e = types.NewEnum()
		reg.enums[t] = e
	}
	for _, v := range values {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.String:
			e.AddString(rv.String())
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			e.Add(uint64(rv.Int()))
		default:
			e.Add(rv.Uint())
		}
	}
}

// FlagValue is the set of types usable as flag sets.
type FlagValue interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// RegisterFlags declares the known bits of a named unsigned type. Unknown
// bits are cleared when decoding.
func RegisterFlags[T FlagValue](flags ...T) {
	t := reflect.TypeFor[T]()
	if t.Name() == "" {
		registerPanic(t, "flag type must be named")
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.enums[t]; ok {
		registerPanic(t, "type is already registered as an enum")
	}
	mask := reg.flags[t]
	for _, f := range flags {
		mask |= uint64(f)
	}
	reg.flags[t] = mask
}

// RegisterRemote makes T encode exactly as its shadow type S. Use it for
// types from other packages whose fields do not have fixed wire widths.
// An error from to aborts the encode; structured errors pass through and
// anything else surfaces as a custom error.
func RegisterRemote[T, S any](to func(T) (S, error), from func(S) T) {
	t := reflect.TypeFor[T]()
	s := reflect.TypeFor[S]()
	if t == s {
		registerPanic(t, "remote type cannot shadow itself")
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.remotes[t] = &types.Remote{
		Shadow: s,
		To: func(v reflect.Value) (reflect.Value, error) {
			s, err := to(v.Interface().(T))
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(&s).Elem(), nil
		},
		From: func(v reflect.Value) reflect.Value {
			return reflect.ValueOf(from(v.Interface().(S)))
		},
	}
}

// RegisterMapping registers a named conversion used by fields tagged
// map=name. T is the field type, W the type written on the wire. Errors
// returned by either direction surface as custom errors.
func RegisterMapping[T, W any](name string, to func(T) (W, error), from func(W) (T, error)) {
	t := reflect.TypeFor[T]()
	if name == "" {
		registerPanic(t, "mapping name must not be empty")
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.mappings[name]; ok {
		registerPanic(t, "duplicate mapping %q", name)
	}
	reg.mappings[name] = &types.Mapping{
		Name: name,
		Type: t,
		Wire: reflect.TypeFor[W](),
		To: func(v reflect.Value) (reflect.Value, error) {
			w, err := to(v.Interface().(T))
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(&w).Elem(), nil
		},
		From: func(v reflect.Value) (reflect.Value, error) {
			out, err := from(v.Interface().(W))
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(&out).Elem(), nil
		},
	}
}

type point32 struct {
	X, Y int32
}

type rect32 struct {
	Min, Max image.Point
}

func toPoint32(p image.Point) (point32, error) {
	if p.X < math.MinInt32 || p.X > math.MaxInt32 || p.Y < math.MinInt32 || p.Y > math.MaxInt32 {
		return point32{}, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			GoType("image.Point").
			Value(p).
			Detail("coordinate out of int32 range").
			Build()
	}
	return point32{X: int32(p.X), Y: int32(p.Y)}, nil
}

func init() {
	RegisterRemote(
		toPoint32,
		func(p point32) image.Point { return image.Pt(int(p.X), int(p.Y)) },
	)
	RegisterRemote(
		func(r image.Rectangle) (rect32, error) { return rect32{Min: r.Min, Max: r.Max}, nil },
		func(r rect32) image.Rectangle { return image.Rectangle{Min: r.Min, Max: r.Max} },
	)
}
