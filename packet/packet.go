package packet

import (
	"bytes"
	"reflect"
	"slices"
	"strings"

	"github.com/wippyai/gamewire/codec"
	"github.com/wippyai/gamewire/errors"
)

// Direction says which side sent a packet. Both directions share the
// opcode space, so a body cannot be decoded without it.
type Direction uint8

const (
	ToClt Direction = iota + 1
	ToSrv
)

func (d Direction) String() string {
	switch d {
	case ToClt:
		return "to_clt"
	case ToSrv:
		return "to_srv"
	default:
		return "unknown"
	}
}

// ParseDirection accepts to_clt, clt, client, to_srv, srv and server.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "to_clt", "clt", "client":
		return ToClt, nil
	case "to_srv", "srv", "server":
		return ToSrv, nil
	}
	return 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Value(s).
		Detail("unknown direction").
		Build()
}

// Pkt is implemented by ToCltPkt and ToSrvPkt.
type Pkt interface {
	Direction() Direction
	// Cmd returns the name of the set variant, or "" if none is set.
	Cmd() string
}

func (ToCltPkt) Direction() Direction { return ToClt }
func (ToSrvPkt) Direction() Direction { return ToSrv }

func (p ToCltPkt) Cmd() string { return variantName(reflect.ValueOf(p)) }
func (p ToSrvPkt) Cmd() string { return variantName(reflect.ValueOf(p)) }

func variantName(v reflect.Value) string {
	for i := 1; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() == reflect.Pointer && !f.IsNil() {
			return v.Type().Field(i).Name
		}
	}
	return ""
}

// Encode serializes pkt including its opcode. pkt must travel in dir.
func Encode(dir Direction, pkt Pkt) ([]byte, error) {
	if pkt == nil {
		return nil, errors.NilPointer(errors.PhaseEncode, nil, "packet.Pkt")
	}
	if pkt.Direction() != dir {
		return nil, errors.TypeMismatch(errors.PhaseEncode, nil,
			reflect.TypeOf(pkt).String(), dir.String())
	}
	var buf bytes.Buffer
	if err := codec.Serialize(&buf, pkt, codec.Default); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a packet body, opcode first. Bytes after the last known
// field are ignored; newer peers append fields to existing packets.
func Decode(dir Direction, data []byte) (Pkt, error) {
	switch dir {
	case ToClt:
		pkt, err := codec.Unmarshal[ToCltPkt](data)
		if err != nil {
			return nil, err
		}
		return &pkt, nil
	case ToSrv:
		pkt, err := codec.Unmarshal[ToSrvPkt](data)
		if err != nil {
			return nil, err
		}
		return &pkt, nil
	}
	return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Value(dir).
		Detail("unknown direction").
		Build()
}

// Command is one entry of a direction's opcode table.
type Command struct {
	Name   string
	Opcode uint16
}

// Commands lists the packets of dir ordered by opcode.
func Commands(dir Direction) ([]Command, error) {
	plan, err := unionPlan(dir)
	if err != nil {
		return nil, err
	}
	cmds := make([]Command, 0, len(plan.Union.Cases))
	for _, c := range plan.Union.Cases {
		cmds = append(cmds, Command{Name: c.Name, Opcode: uint16(c.Num)})
	}
	slices.SortFunc(cmds, func(a, b Command) int { return int(a.Opcode) - int(b.Opcode) })
	return cmds, nil
}

// Opcode returns the opcode of the variant set in pkt.
func Opcode(pkt Pkt) (uint16, bool) {
	plan, err := unionPlan(pkt.Direction())
	if err != nil {
		return 0, false
	}
	name := pkt.Cmd()
	for _, c := range plan.Union.Cases {
		if c.Name == name {
			return uint16(c.Num), true
		}
	}
	return 0, false
}

func unionPlan(dir Direction) (*codec.Plan, error) {
	switch dir {
	case ToClt:
		return codec.Compile(reflect.TypeFor[ToCltPkt]())
	case ToSrv:
		return codec.Compile(reflect.TypeFor[ToSrvPkt]())
	}
	return nil, errors.New(errors.PhaseCompile, errors.KindInvalidData).
		Value(dir).
		Detail("unknown direction").
		Build()
}
