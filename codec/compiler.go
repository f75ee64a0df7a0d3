package codec

import (
	"math"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"

	"github.com/wippyai/gamewire/codec/internal/types"
	"github.com/wippyai/gamewire/errors"
)

var (
	unionType       = reflect.TypeFor[Union]()
	unitType        = reflect.TypeFor[Unit]()
	pairType        = reflect.TypeFor[pair]()
	marshalerType   = reflect.TypeFor[Marshaler]()
	unmarshalerType = reflect.TypeFor[Unmarshaler]()
)

// Compiler builds and caches a Plan per Go type. It is safe for concurrent
// use; plans are immutable once published.
type Compiler struct {
	cache   sync.Map // reflect.Type -> *Plan
	pending map[reflect.Type]*types.Plan
	mu      sync.Mutex
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

var defaultCompiler = NewCompiler()

func (c *Compiler) Compile(goType reflect.Type) (*Plan, error) {
	if goType == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindNilPointer).
			Detail("Go type cannot be nil").
			Build()
	}

	if cached, ok := c.cache.Load(goType); ok {
		return cached.(*Plan), nil
	}

	// Recursive types see their own plan through pending before it is
	// complete, so a whole build runs under one lock.
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.cache.Load(goType); ok {
		return cached.(*Plan), nil
	}

	c.pending = make(map[reflect.Type]*types.Plan)
	defer func() { c.pending = nil }()

	plan, err := c.compile(goType, nil)
	if err != nil {
		return nil, err
	}
	for t, p := range c.pending {
		c.cache.Store(t, p)
	}

	Logger().Debug("compiled plan",
		zap.Stringer("type", goType),
		zap.Stringer("kind", plan.Kind),
		zap.Int("fields", len(plan.Fields)),
		zap.Int("plans", len(c.pending)),
	)
	return plan, nil
}

func (c *Compiler) compile(goType reflect.Type, path []string) (*types.Plan, error) {
	if cached, ok := c.cache.Load(goType); ok {
		return cached.(*types.Plan), nil
	}
	if p, ok := c.pending[goType]; ok {
		return p, nil
	}

	p := &types.Plan{GoType: goType}
	c.pending[goType] = p
	if err := c.fill(p, goType, path); err != nil {
		delete(c.pending, goType)
		return nil, err
	}
	return p, nil
}

func (c *Compiler) fill(p *types.Plan, goType reflect.Type, path []string) error {
	if isCustom(goType) {
		p.Kind = types.KindCustom
		return nil
	}

	if r := reg.remote(goType); r != nil {
		shadow, err := c.compile(r.Shadow, path)
		if err != nil {
			return err
		}
		p.Kind = types.KindRemote
		p.Remote = r
		p.Elem = shadow
		return nil
	}

	if e := reg.enum(goType); e != nil {
		prim, ok := primitiveKind(goType.Kind())
		if goType.Kind() == reflect.String {
			prim, ok = types.KindString, true
		}
		if !ok || prim == types.KindBool || prim.IsFloat() {
			return errors.TypeMismatch(errors.PhaseCompile, path, goType.String(), "integer or string enum")
		}
		p.Kind = types.KindEnum
		p.Enum = e
		p.Prim = prim
		return nil
	}

	if mask, ok := reg.flagMask(goType); ok {
		prim, _ := primitiveKind(goType.Kind())
		p.Kind = types.KindFlags
		p.Mask = mask
		p.Prim = prim
		return nil
	}

	if prim, ok := primitiveKind(goType.Kind()); ok {
		p.Kind = prim
		return nil
	}

	switch goType.Kind() {
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			GoType(goType.String()).
			Detail("no fixed wire width, use a sized integer type").
			Build()
	case reflect.String:
		p.Kind = types.KindString
	case reflect.Slice:
		return c.compileSlice(p, goType, path)
	case reflect.Array:
		elem, err := c.compile(goType.Elem(), appendPath(path, "[elem]"))
		if err != nil {
			return err
		}
		p.Kind = types.KindArray
		p.Elem = elem
		p.Len = goType.Len()
	case reflect.Map:
		return c.compileMap(p, goType, path)
	case reflect.Pointer:
		elem, err := c.compile(goType.Elem(), path)
		if err != nil {
			return err
		}
		p.Kind = types.KindOption
		p.Elem = elem
	case reflect.Struct:
		return c.compileStruct(p, goType, path)
	default:
		return errors.Unsupported(errors.PhaseCompile, path, goType.String())
	}
	return nil
}

func (c *Compiler) compileSlice(p *types.Plan, goType reflect.Type, path []string) error {
	elem, err := c.compile(goType.Elem(), appendPath(path, "[elem]"))
	if err != nil {
		return err
	}
	if elem.Kind == types.KindU8 {
		p.Kind = types.KindBytes
	} else {
		p.Kind = types.KindSlice
	}
	p.Elem = elem
	return nil
}

func (c *Compiler) compileMap(p *types.Plan, goType reflect.Type, path []string) error {
	key, err := c.compile(goType.Key(), appendPath(path, "[key]"))
	if err != nil {
		return err
	}
	p.Key = key

	if isEmptyStruct(goType.Elem()) {
		p.Kind = types.KindSet
		return nil
	}

	elem, err := c.compile(goType.Elem(), appendPath(path, "[value]"))
	if err != nil {
		return err
	}
	p.Kind = types.KindMap
	p.Elem = elem
	return nil
}

func (c *Compiler) compileStruct(p *types.Plan, goType reflect.Type, path []string) error {
	switch {
	case goType == unitType || goType.NumField() == 0:
		p.Kind = types.KindUnit
		return nil
	case goType.Implements(pairType):
		return c.compilePair(p, goType, path)
	case isUnion(goType):
		return c.compileUnion(p, goType, path)
	}

	fields := make([]types.Field, 0, goType.NumField())
	for i := 0; i < goType.NumField(); i++ {
		sf := goType.Field(i)
		if !sf.IsExported() {
			continue
		}

		fieldPath := appendPath(path, sf.Name)
		info, err := parseTag(sf.Tag.Get(tagKey), fieldPath)
		if err != nil {
			return err
		}
		if info.skip {
			continue
		}
		if info.repr != types.KindInvalid || info.hasCase {
			return errors.InvalidTag(fieldPath, sf.Tag.Get(tagKey), "repr and case are only valid on unions")
		}

		f, err := c.compileField(sf.Type, info, fieldPath)
		if err != nil {
			return err
		}
		f.Name = sf.Name
		f.Index = i
		fields = append(fields, f)
	}

	p.Kind = types.KindStruct
	p.Fields = fields
	return nil
}

func (c *Compiler) compilePair(p *types.Plan, goType reflect.Type, path []string) error {
	fields := make([]types.Field, 2)
	for i := range fields {
		sf := goType.Field(i)
		plan, err := c.compile(sf.Type, appendPath(path, sf.Name))
		if err != nil {
			return err
		}
		fields[i] = types.Field{Plan: plan, Name: sf.Name, Index: i}
	}
	p.Kind = types.KindPair
	p.Fields = fields
	return nil
}

// compileField resolves the plan a field is encoded with and validates its
// modifiers against it.
func (c *Compiler) compileField(goType reflect.Type, info tagInfo, path []string) (types.Field, error) {
	m := info.mods

	planType := goType
	if info.mapping != "" {
		mp := reg.mapping(info.mapping)
		if mp == nil {
			return types.Field{}, errors.InvalidTag(path, "map="+info.mapping, "unregistered mapping")
		}
		if mp.Type != goType {
			return types.Field{}, errors.TypeMismatch(errors.PhaseCompile, path, goType.String(), mp.Type.String())
		}
		m.Mapping = mp
		planType = mp.Wire
	}

	plan, err := c.compile(planType, path)
	if err != nil {
		return types.Field{}, err
	}

	if m.Box {
		if goType.Kind() != reflect.Pointer || m.Mapping != nil {
			return types.Field{}, errors.InvalidTag(path, "box", "box requires a pointer field")
		}
		plan = &types.Plan{GoType: goType, Kind: types.KindBox, Elem: plan.Elem}
	}

	if m.Scale != 0 || m.As != types.KindInvalid {
		if m.Mapping != nil {
			return types.Field{}, errors.InvalidTag(path, "map="+info.mapping, "cannot combine map with scale or as")
		}
		if !scalable(plan) {
			return types.Field{}, errors.TypeMismatch(errors.PhaseCompile, path, goType.String(), "number or array of numbers")
		}
	}

	if m.IsZero() {
		m = nil
	}
	return types.Field{Plan: plan, Mods: m}, nil
}

func (c *Compiler) compileUnion(p *types.Plan, goType reflect.Type, path []string) error {
	marker := goType.Field(0)
	markerPath := appendPath(path, marker.Name)
	tag := marker.Tag.Get(tagKey)
	info, err := parseTag(tag, markerPath)
	if err != nil {
		return err
	}
	if info.repr == types.KindInvalid {
		return errors.InvalidTag(markerPath, tag, "union requires repr")
	}
	if info.hasCase || info.skip || info.mapping != "" || info.mods.Transforms() || info.mods.Box {
		return errors.InvalidTag(markerPath, tag, "union tag only takes repr and pipeline items")
	}

	var (
		cases = make([]types.Case, 0, goType.NumField()-1)
		nums  = make(map[uint64]string)
		tags  = make(map[string]string)
		next  uint64
	)
	for i := 1; i < goType.NumField(); i++ {
		sf := goType.Field(i)
		if !sf.IsExported() {
			continue
		}

		casePath := appendPath(path, sf.Name)
		vtag := sf.Tag.Get(tagKey)
		vinfo, err := parseTag(vtag, casePath)
		if err != nil {
			return err
		}
		if vinfo.skip {
			continue
		}
		if sf.Type.Kind() != reflect.Pointer {
			return errors.TypeMismatch(errors.PhaseCompile, casePath, sf.Type.String(), "pointer to variant payload")
		}
		if vinfo.repr != types.KindInvalid {
			return errors.InvalidTag(casePath, vtag, "repr is only valid on the union marker")
		}

		cs := types.Case{Name: sf.Name, Index: i}
		if info.repr == types.KindString {
			if vinfo.hasCase {
				return errors.InvalidTag(casePath, vtag, "case is not used with repr=str")
			}
			cs.Tag = snakeCase(sf.Name)
			if prev, dup := tags[cs.Tag]; dup {
				return errors.InvalidTag(casePath, vtag, "discriminant "+cs.Tag+" already used by "+prev)
			}
			tags[cs.Tag] = sf.Name
		} else {
			cs.Num = next
			if vinfo.hasCase {
				cs.Num = vinfo.caseNum
			}
			if !fitsUnsigned(info.repr, cs.Num) {
				return errors.InvalidTag(casePath, vtag, "discriminant does not fit "+info.repr.String())
			}
			if prev, dup := nums[cs.Num]; dup {
				return errors.InvalidTag(casePath, vtag, "discriminant already used by "+prev)
			}
			nums[cs.Num] = sf.Name
			next = cs.Num + 1
		}

		f, err := c.compileField(sf.Type.Elem(), vinfo, casePath)
		if err != nil {
			return err
		}
		cs.Plan = f.Plan
		cs.Mods = f.Mods
		cases = append(cases, cs)
	}

	mods := info.mods
	if mods.IsZero() {
		mods = nil
	}
	p.Kind = types.KindUnion
	p.Union = types.NewUnion(info.repr, mods, cases)
	return nil
}

func isCustom(t reflect.Type) bool {
	if t.Kind() == reflect.Interface || t.Kind() == reflect.Pointer {
		return false
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(marshalerType) || pt.Implements(unmarshalerType)
}

func isUnion(t reflect.Type) bool {
	if t.NumField() == 0 {
		return false
	}
	f := t.Field(0)
	return f.Anonymous && f.Type == unionType
}

func isEmptyStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}

func scalable(p *types.Plan) bool {
	switch p.Kind {
	case types.KindArray:
		return p.Elem.Kind.IsNumeric()
	default:
		return p.Kind.IsNumeric()
	}
}

func primitiveKind(k reflect.Kind) (types.Kind, bool) {
	switch k {
	case reflect.Bool:
		return types.KindBool, true
	case reflect.Uint8:
		return types.KindU8, true
	case reflect.Int8:
		return types.KindI8, true
	case reflect.Uint16:
		return types.KindU16, true
	case reflect.Int16:
		return types.KindI16, true
	case reflect.Uint32:
		return types.KindU32, true
	case reflect.Int32:
		return types.KindI32, true
	case reflect.Uint64:
		return types.KindU64, true
	case reflect.Int64:
		return types.KindI64, true
	case reflect.Float32:
		return types.KindF32, true
	case reflect.Float64:
		return types.KindF64, true
	}
	return types.KindInvalid, false
}

func fitsUnsigned(k types.Kind, n uint64) bool {
	switch k {
	case types.KindU8:
		return n <= math.MaxUint8
	case types.KindU16:
		return n <= math.MaxUint16
	case types.KindU32:
		return n <= math.MaxUint32
	}
	return true
}

func appendPath(path []string, seg string) []string {
	return append(append(make([]string, 0, len(path)+1), path...), seg)
}

// snakeCase converts a Go identifier to snake_case: JoinOk -> join_ok,
// HTTPProxy -> http_proxy.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
