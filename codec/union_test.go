package codec

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/gamewire/errors"
)

type sparse struct {
	Union `mt:"repr=u8"`
	A     *uint8 `mt:"case=2"`
	B     *Unit
	C     *string
	D     *uint16 `mt:"case=10"`
	E     *Unit   `mt:"case=32"`
}

type stateChange struct {
	Union      `mt:"repr=str"`
	JoinOk     *Unit
	PlayerName *string
}

type framedUnion struct {
	Union `mt:"repr=u16,size=16"`
	Small *uint8
	Big   *[]uint32 `mt:"size=32,zlib,before=u8:0"`
}

type animMode uint8

const (
	animNone animMode = iota
	animLoop
	animOnce
)

type drawMode string

type hudFlags uint16

const (
	hudHotbar hudFlags = 1 << iota
	hudHealth
	hudCrosshair
)

type offset int16

func init() {
	RegisterEnum(animNone, animLoop, animOnce)
	RegisterEnum[drawMode]("normal", "glasslike")
	RegisterEnum[offset](-1, 0, 1)
	RegisterFlags(hudHotbar, hudHealth, hudCrosshair)
}

func TestSparseDiscriminants(t *testing.T) {
	tests := []struct {
		name string
		in   sparse
		want []byte
	}{
		{name: "A", in: sparse{A: ptr[uint8](7)}, want: []byte{2, 7}},
		{name: "B", in: sparse{B: &Unit{}}, want: []byte{3}},
		{name: "C", in: sparse{C: ptr("x")}, want: []byte{4, 0, 1, 'x'}},
		{name: "D", in: sparse{D: ptr[uint16](5)}, want: []byte{10, 0, 5}},
		{name: "E", in: sparse{E: &Unit{}}, want: []byte{32}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeBytes(t, tt.in, Default)
			if !bytes.Equal(data, tt.want) {
				t.Fatalf("bytes = %x, want %x", data, tt.want)
			}
			got, err := Unmarshal[sparse](data)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if diff := cmp.Diff(tt.in, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnknownDiscriminant(t *testing.T) {
	for _, raw := range []uint8{0, 1, 5, 11, 33} {
		_, err := Unmarshal[sparse]([]byte{raw, 0, 0})
		e, ok := errors.From(err)
		if !ok || e.Kind != errors.KindInvalidEnum {
			t.Fatalf("raw %d: err = %v, want invalid_enum", raw, err)
		}
		if e.Value != uint64(raw) || e.GoType != "sparse" {
			t.Errorf("raw %d: Value = %v, GoType = %q", raw, e.Value, e.GoType)
		}
	}
}

func TestUnionVariantCount(t *testing.T) {
	var buf bytes.Buffer
	err := Serialize(&buf, sparse{A: ptr[uint8](1), C: ptr("x")}, Default)
	if !errors.IsKind(err, errors.KindInvalidData) {
		t.Errorf("two variants: err = %v, want invalid_data", err)
	}
	err = Serialize(&buf, sparse{}, Default)
	if !errors.IsKind(err, errors.KindInvalidData) {
		t.Errorf("no variant: err = %v, want invalid_data", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes", buf.Len())
	}
}

func TestStringTaggedUnion(t *testing.T) {
	data := encodeBytes(t, stateChange{JoinOk: &Unit{}}, Default)
	if want := append([]byte{0, 7}, "join_ok"...); !bytes.Equal(data, want) {
		t.Fatalf("bytes = %x, want %x", data, want)
	}

	in := stateChange{PlayerName: ptr("sam")}
	data = encodeBytes(t, in, Default)
	want := append(append([]byte{0, 11}, "player_name"...), 0, 3, 's', 'a', 'm')
	if !bytes.Equal(data, want) {
		t.Fatalf("bytes = %x, want %x", data, want)
	}
	if diff := cmp.Diff(in, roundTrip(t, in, Default)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	_, err := Unmarshal[stateChange](append([]byte{0, 4}, "quit"...))
	if e, ok := errors.From(err); !ok || e.Kind != errors.KindInvalidEnum || e.Value != "quit" {
		t.Errorf("err = %v, want invalid_enum with value quit", err)
	}
}

func TestUnionPipelines(t *testing.T) {
	data := encodeBytes(t, framedUnion{Small: ptr[uint8](9)}, Default)
	if want := []byte{0, 3, 0, 0, 9}; !bytes.Equal(data, want) {
		t.Fatalf("bytes = %x, want %x", data, want)
	}

	in := framedUnion{Big: &[]uint32{1, 2, 3, 1 << 30}}
	data = encodeBytes(t, in, Default)
	if data[2] != 0 || data[3] != 1 || data[4] != 0 {
		t.Errorf("header = %x, want discriminant 1 then constant 0", data[:5])
	}
	if diff := cmp.Diff(in, roundTrip(t, in, Default)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// trailing bytes inside the type-level frame are skipped
	got, err := Unmarshal[framedUnion]([]byte{0, 5, 0, 0, 9, 0xaa, 0xbb})
	if err != nil || got.Small == nil || *got.Small != 9 {
		t.Errorf("Unmarshal = %+v, %v", got, err)
	}
}

func TestUnionDecodeResetsVariants(t *testing.T) {
	v := sparse{A: ptr[uint8](1)}
	if err := Deserialize(bytes.NewReader([]byte{32}), &v, Default); err != nil {
		t.Fatal(err)
	}
	if v.A != nil || v.E == nil {
		t.Errorf("got A=%v E=%v, want only E set", v.A, v.E)
	}
}

func TestUnionErrorPath(t *testing.T) {
	_, err := Unmarshal[sparse]([]byte{10, 0})
	e, ok := errors.From(err)
	if !ok || !cmp.Equal(e.Path, []string{"D"}) {
		t.Errorf("err = %v, want path D", err)
	}
}

func TestScalarEnums(t *testing.T) {
	type msg struct {
		Anim animMode
		Draw drawMode
		Off  offset
	}
	in := msg{Anim: animOnce, Draw: "glasslike", Off: -1}

	data := encodeBytes(t, in, Default)
	want := append(append([]byte{2, 0, 9}, "glasslike"...), 0xff, 0xff)
	if !bytes.Equal(data, want) {
		t.Fatalf("bytes = %x, want %x", data, want)
	}
	if diff := cmp.Diff(in, roundTrip(t, in, Default)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name string
		data []byte
		raw  any
	}{
		{name: "uint", data: append(append([]byte{7, 0, 6}, "normal"...), 0, 0), raw: uint64(7)},
		{name: "string", data: append([]byte{0, 0, 1}, 'x', 0, 0), raw: "x"},
		{name: "signed", data: append(append([]byte{0, 0, 6}, "normal"...), 0xff, 0xfe), raw: int64(-2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal[msg](tt.data)
			e, ok := errors.From(err)
			if !ok || e.Kind != errors.KindInvalidEnum {
				t.Fatalf("err = %v, want invalid_enum", err)
			}
			if e.Value != tt.raw {
				t.Errorf("Value = %#v, want %#v", e.Value, tt.raw)
			}
		})
	}

	var buf bytes.Buffer
	if err := Serialize(&buf, animMode(9), Default); !errors.IsKind(err, errors.KindInvalidEnum) {
		t.Errorf("encode unknown value: err = %v, want invalid_enum", err)
	}
}

func TestFlags(t *testing.T) {
	in := hudHotbar | hudCrosshair
	data := encodeBytes(t, in, Default)
	if !bytes.Equal(data, []byte{0, 5}) {
		t.Fatalf("bytes = %x, want 0005", data)
	}

	got, err := Unmarshal[hudFlags]([]byte{0xff, 0xff})
	if err != nil {
		t.Fatal(err)
	}
	if got != hudHotbar|hudHealth|hudCrosshair {
		t.Errorf("unknown bits not cleared: %#x", got)
	}
}
