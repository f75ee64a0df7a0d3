package types

type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindU8
	KindI8
	KindU16
	KindI16
	KindU32
	KindI32
	KindU64
	KindI64
	KindF32
	KindF64
	KindString
	KindBytes
	KindUnit
	KindArray
	KindSlice
	KindSet
	KindMap
	KindPair
	KindOption
	KindBox
	KindStruct
	KindUnion
	KindEnum
	KindFlags
	KindRemote
	KindCustom
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindU8:      "u8",
	KindI8:      "i8",
	KindU16:     "u16",
	KindI16:     "i16",
	KindU32:     "u32",
	KindI32:     "i32",
	KindU64:     "u64",
	KindI64:     "i64",
	KindF32:     "f32",
	KindF64:     "f64",
	KindString:  "str",
	KindBytes:   "bytes",
	KindUnit:    "unit",
	KindArray:   "array",
	KindSlice:   "slice",
	KindSet:     "set",
	KindMap:     "map",
	KindPair:    "pair",
	KindOption:  "option",
	KindBox:     "box",
	KindStruct:  "struct",
	KindUnion:   "union",
	KindEnum:    "enum",
	KindFlags:   "flags",
	KindRemote:  "remote",
	KindCustom:  "custom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind resolves a wire primitive name as used in struct tags
// (u8, i32, f64, str, ...). Only primitives and str are accepted.
func ParseKind(name string) (Kind, bool) {
	if name == "s8" || name == "s16" || name == "s32" || name == "s64" {
		name = "i" + name[1:]
	}
	if name == "string" {
		name = "str"
	}
	for k := KindBool; k <= KindString; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindInvalid, false
}

func (k Kind) IsPrimitive() bool {
	return k >= KindBool && k <= KindF64
}

func (k Kind) IsNumeric() bool {
	return k >= KindU8 && k <= KindF64
}

func (k Kind) IsUnsigned() bool {
	switch k {
	case KindU8, KindU16, KindU32, KindU64:
		return true
	}
	return false
}

func (k Kind) IsSigned() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64:
		return true
	}
	return false
}

func (k Kind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

// Size returns the wire width in bytes of a primitive kind, 0 otherwise.
func (k Kind) Size() int {
	switch k {
	case KindBool, KindU8, KindI8:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32, KindF32:
		return 4
	case KindU64, KindI64, KindF64:
		return 8
	}
	return 0
}
