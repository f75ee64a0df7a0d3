package codec

import (
	"github.com/wippyai/gamewire/codec/internal/types"
)

type Kind = types.Kind

const (
	KindBool   = types.KindBool
	KindU8     = types.KindU8
	KindI8     = types.KindI8
	KindU16    = types.KindU16
	KindI16    = types.KindI16
	KindU32    = types.KindU32
	KindI32    = types.KindI32
	KindU64    = types.KindU64
	KindI64    = types.KindI64
	KindF32    = types.KindF32
	KindF64    = types.KindF64
	KindString = types.KindString
	KindBytes  = types.KindBytes
	KindUnit   = types.KindUnit
	KindArray  = types.KindArray
	KindSlice  = types.KindSlice
	KindSet    = types.KindSet
	KindMap    = types.KindMap
	KindPair   = types.KindPair
	KindOption = types.KindOption
	KindBox    = types.KindBox
	KindStruct = types.KindStruct
	KindUnion  = types.KindUnion
	KindEnum   = types.KindEnum
	KindFlags  = types.KindFlags
	KindRemote = types.KindRemote
	KindCustom = types.KindCustom
)

type Plan = types.Plan
type PlanField = types.Field
type PlanCase = types.Case
type Modifiers = types.Modifiers
