package codec

import (
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/gamewire/codec/internal/types"
	"github.com/wippyai/gamewire/compress"
	"github.com/wippyai/gamewire/errors"
)

const tagKey = "mt"

// tagInfo is a parsed `mt` struct tag.
type tagInfo struct {
	mods    *types.Modifiers
	mapping string
	caseNum uint64
	repr    types.Kind
	hasCase bool
	skip    bool
}

// parseTag parses comma-separated tag items. Unknown items are errors so
// typos do not silently change the wire format.
func parseTag(tag string, path []string) (tagInfo, error) {
	var info tagInfo
	m := &types.Modifiers{}
	info.mods = m

	if tag == "" {
		return info, nil
	}
	if tag == "-" {
		info.skip = true
		return info, nil
	}

	// set when the previous item was a string constant
	var afterStr bool
	for _, item := range strings.Split(tag, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		prevStr := afterStr
		afterStr = false
		key, val, hasVal := strings.Cut(item, "=")

		bad := func(detail string) error {
			return errors.InvalidTag(path, item, detail)
		}
		needVal := func() error {
			if !hasVal || val == "" {
				return bad("missing value")
			}
			return nil
		}
		noVal := func() error {
			if hasVal {
				return bad("unexpected value")
			}
			return nil
		}

		switch key {
		case "len":
			if err := needVal(); err != nil {
				return info, err
			}
			widths, err := parseWidths(val)
			if err != nil {
				return info, bad("invalid length width")
			}
			m.Lens = widths
		case "utf16":
			if err := noVal(); err != nil {
				return info, err
			}
			m.UTF16 = true
		case "scale":
			if err := needVal(); err != nil {
				return info, err
			}
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f == 0 || math.IsInf(f, 0) || math.IsNaN(f) {
				return info, bad("scale must be a finite non-zero number")
			}
			m.Scale = f
		case "as":
			if err := needVal(); err != nil {
				return info, err
			}
			k, ok := types.ParseKind(val)
			if !ok || !k.IsNumeric() {
				return info, bad("as must name a numeric primitive")
			}
			m.As = k
		case "map":
			if err := needVal(); err != nil {
				return info, err
			}
			info.mapping = val
		case "size":
			if err := needVal(); err != nil {
				return info, err
			}
			switch val {
			case "8", "16", "32", "64":
				n, _ := strconv.Atoi(val)
				m.Size = uint8(n)
			default:
				return info, bad("size must be 8, 16, 32 or 64")
			}
		case "zlib", "zstd":
			if err := noVal(); err != nil {
				return info, err
			}
			if m.Compress != compress.None {
				return info, bad("only one compression method per field")
			}
			m.Compress, _ = compress.Lookup(key)
		case "before", "after":
			if err := needVal(); err != nil {
				return info, err
			}
			c, err := parseConst(val)
			if err != nil {
				return info, bad(err.Error())
			}
			afterStr = c.Kind == types.KindString
			if key == "before" {
				m.Before = append(m.Before, c)
			} else {
				m.After = append(m.After, c)
			}
		case "default":
			if err := noVal(); err != nil {
				return info, err
			}
			m.Default = true
		case "box":
			if err := noVal(); err != nil {
				return info, err
			}
			m.Box = true
		case "repr":
			if err := needVal(); err != nil {
				return info, err
			}
			k, ok := types.ParseKind(val)
			if !ok || !(k.IsUnsigned() || k == types.KindString) {
				return info, bad("repr must be u8, u16, u32, u64 or str")
			}
			info.repr = k
		case "case":
			if err := needVal(); err != nil {
				return info, err
			}
			n, err := strconv.ParseUint(val, 0, 64)
			if err != nil {
				return info, bad("case must be an unsigned integer")
			}
			info.caseNum = n
			info.hasCase = true
		default:
			if prevStr {
				return info, bad("unknown tag item; string constants cannot contain commas")
			}
			return info, bad("unknown tag item")
		}
	}
	return info, nil
}

// parseConst parses a literal of the form kind:value, e.g. u16:1 or str:x.
func parseConst(s string) (types.Const, error) {
	name, val, ok := strings.Cut(s, ":")
	if !ok {
		return types.Const{}, errors.New(errors.PhaseCompile, errors.KindInvalidTag).
			Detail("constant must be kind:value").
			Build()
	}
	k, ok := types.ParseKind(name)
	if !ok {
		return types.Const{}, errors.New(errors.PhaseCompile, errors.KindInvalidTag).
			Detail("unknown constant kind %q", name).
			Build()
	}

	c := types.Const{Kind: k}
	var err error
	switch {
	case k == types.KindBool:
		var b bool
		b, err = strconv.ParseBool(val)
		c.Value = b
	case k == types.KindString:
		c.Value = val
	case k.IsUnsigned():
		var n uint64
		n, err = strconv.ParseUint(val, 0, k.Size()*8)
		c.Value = narrowUint(k, n)
	case k.IsSigned():
		var n int64
		n, err = strconv.ParseInt(val, 0, k.Size()*8)
		c.Value = narrowInt(k, n)
	case k.IsFloat():
		var f float64
		f, err = strconv.ParseFloat(val, k.Size()*8)
		if k == types.KindF32 {
			c.Value = float32(f)
		} else {
			c.Value = f
		}
	}
	if err != nil {
		return types.Const{}, errors.New(errors.PhaseCompile, errors.KindInvalidTag).
			Cause(err).
			Detail("invalid %s constant %q", k, val).
			Build()
	}
	return c, nil
}

func narrowUint(k types.Kind, n uint64) any {
	switch k {
	case types.KindU8:
		return uint8(n)
	case types.KindU16:
		return uint16(n)
	case types.KindU32:
		return uint32(n)
	}
	return n
}

func narrowInt(k types.Kind, n int64) any {
	switch k {
	case types.KindI8:
		return int8(n)
	case types.KindI16:
		return int16(n)
	case types.KindI32:
		return int32(n)
	}
	return n
}
