package types

import (
	"reflect"

	"github.com/wippyai/gamewire/compress"
)

// Plan is the compiled encoding of one Go type. Plans are immutable once
// compilation finishes and are shared between goroutines.
type Plan struct {
	GoType reflect.Type
	Elem   *Plan // array, slice, set, option, box, remote shadow; map value
	Key    *Plan // map key
	Enum   *Enum
	Union  *Union
	Remote *Remote
	Fields []Field // struct, pair
	Mask   uint64  // known flag bits
	Len    int     // array length
	Kind   Kind
	Prim   Kind // wire primitive behind enums and flag sets
}

type Field struct {
	Plan  *Plan
	Mods  *Modifiers
	Name  string
	Index int
}

type Case struct {
	Plan  *Plan
	Mods  *Modifiers
	Name  string // Go field name
	Tag   string // string discriminant
	Num   uint64 // integer discriminant
	Index int
}

// Union holds the variants of a tagged union keyed by discriminant.
type Union struct {
	Mods  *Modifiers
	byNum map[uint64]int
	byTag map[string]int
	Cases []Case
	Repr  Kind
}

func NewUnion(repr Kind, mods *Modifiers, cases []Case) *Union {
	u := &Union{
		Repr:  repr,
		Mods:  mods,
		Cases: cases,
		byNum: make(map[uint64]int, len(cases)),
		byTag: make(map[string]int, len(cases)),
	}
	for i, c := range cases {
		if repr == KindString {
			u.byTag[c.Tag] = i
		} else {
			u.byNum[c.Num] = i
		}
	}
	return u
}

func (u *Union) Lookup(num uint64) (*Case, bool) {
	i, ok := u.byNum[num]
	if !ok {
		return nil, false
	}
	return &u.Cases[i], true
}

func (u *Union) LookupTag(tag string) (*Case, bool) {
	i, ok := u.byTag[tag]
	if !ok {
		return nil, false
	}
	return &u.Cases[i], true
}

// Enum is the set of valid values of a registered scalar enum.
type Enum struct {
	nums map[uint64]struct{}
	strs map[string]struct{}
}

func NewEnum() *Enum {
	return &Enum{
		nums: make(map[uint64]struct{}),
		strs: make(map[string]struct{}),
	}
}

func (e *Enum) Add(num uint64)     { e.nums[num] = struct{}{} }
func (e *Enum) AddString(s string) { e.strs[s] = struct{}{} }

func (e *Enum) Valid(num uint64) bool {
	_, ok := e.nums[num]
	return ok
}

func (e *Enum) ValidString(s string) bool {
	_, ok := e.strs[s]
	return ok
}

func (e *Enum) Len() int {
	return len(e.nums) + len(e.strs)
}

// Remote converts a type to and from the shadow type it is encoded as.
type Remote struct {
	Shadow reflect.Type
	To     func(reflect.Value) (reflect.Value, error)
	From   func(reflect.Value) reflect.Value
}

// Mapping is a named fallible conversion between a field type and its wire
// type.
type Mapping struct {
	Type reflect.Type
	Wire reflect.Type
	To   func(reflect.Value) (reflect.Value, error)
	From func(reflect.Value) (reflect.Value, error)
	Name string
}

// Const is a literal written before or after a field.
type Const struct {
	Value any
	Kind  Kind
}

// Modifiers is the per-field pipeline parsed from a struct tag. Nesting on
// write, innermost first: value transform, base codec, compression,
// size frame, constants.
type Modifiers struct {
	Mapping  *Mapping
	Lens     []uint8 // length width chain in bits, 0 is unbounded
	Before   []Const
	After    []Const
	Scale    float64
	As       Kind
	Compress compress.Method
	Size     uint8 // size frame width in bits, 0 is none
	UTF16    bool
	Default  bool
	Box      bool
}

// IsZero reports whether the modifiers change nothing about the field.
func (m *Modifiers) IsZero() bool {
	return m == nil || (m.Mapping == nil && m.Lens == nil && len(m.Before) == 0 &&
		len(m.After) == 0 && m.Scale == 0 && m.As == KindInvalid &&
		m.Compress == compress.None && m.Size == 0 && !m.UTF16 && !m.Default && !m.Box)
}

// Transforms reports whether the value is converted before the base codec.
func (m *Modifiers) Transforms() bool {
	return m != nil && (m.Mapping != nil || m.Scale != 0 || m.As != KindInvalid)
}
