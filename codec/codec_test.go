package codec

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/wippyai/gamewire/errors"
)

func encodeBytes(t *testing.T, v any, cfg Config) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Serialize(&buf, v, cfg); err != nil {
		t.Fatalf("Serialize(%T): %v", v, err)
	}
	return buf.Bytes()
}

func roundTrip[T any](t *testing.T, in T, cfg Config) T {
	t.Helper()
	data := encodeBytes(t, in, cfg)
	var out T
	if err := Deserialize(bytes.NewReader(data), &out, cfg); err != nil {
		t.Fatalf("Deserialize(%T): %v", out, err)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

type primitives struct {
	F32 float32
	I64 int64
	F64 float64
	U32 uint32
	I16 int16
	U16 uint16
	U8  uint8
	I8  int8
	B   bool
}

func TestPrimitiveBytes(t *testing.T) {
	in := primitives{
		B: true, U8: 0xab, I8: -1, U16: 0x0102, I16: -2,
		U32: 0x01020304, I64: -1, F32: 1.5, F64: -0.5,
	}
	want := []byte{
		0x3f, 0xc0, 0x00, 0x00, // F32
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, // I64
		0xbf, 0xe0, 0, 0, 0, 0, 0, 0, // F64
		0x01, 0x02, 0x03, 0x04, // U32
		0xff, 0xfe, // I16
		0x01, 0x02, // U16
		0xab, // U8
		0xff, // I8
		0x01, // B
	}

	got := encodeBytes(t, in, Default)
	if !bytes.Equal(got, want) {
		t.Fatalf("bytes = %x\nwant    %x", got, want)
	}
	if diff := cmp.Diff(in, roundTrip(t, in, Default)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBoolAnyNonZeroIsTrue(t *testing.T) {
	got, err := Unmarshal[bool]([]byte{0x7f})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !got {
		t.Error("0x7f should decode as true")
	}
}

func TestUnitIsEmpty(t *testing.T) {
	type withUnit struct {
		U Unit
		E struct{}
		V uint8
	}
	if got := encodeBytes(t, withUnit{V: 9}, Default); !bytes.Equal(got, []byte{9}) {
		t.Errorf("bytes = %x, want 09", got)
	}
}

func TestContainerRoundTrip(t *testing.T) {
	type nested struct {
		Set   map[uint16]struct{}
		Map   map[string][]int32
		Opt   *string
		Name  string
		List  []uint64
		Bytes []byte
		Grid  [2][3]int8
		Pair  Pair[string, uint8]
	}

	in := nested{
		Name:  "node",
		List:  []uint64{1, 1 << 40, math.MaxUint64},
		Bytes: []byte{0xde, 0xad},
		Grid:  [2][3]int8{{1, -2, 3}, {-4, 5, -6}},
		Set:   map[uint16]struct{}{7: {}, 300: {}},
		Map:   map[string][]int32{"a": {-1}, "b": {2, 3}},
		Opt:   ptr("opt"),
		Pair:  Pair[string, uint8]{A: "x", B: 4},
	}

	if diff := cmp.Diff(in, roundTrip(t, in, Default)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestArrayHasNoPrefix(t *testing.T) {
	got := encodeBytes(t, [3]uint8{1, 2, 3}, Config{Len: Len8})
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("bytes = %x, want 010203", got)
	}
}

func TestLengthBound(t *testing.T) {
	cfg := Config{Len: Len8}

	ok := make([]uint16, 255)
	got := encodeBytes(t, ok, cfg)
	if len(got) != 1+255*2 || got[0] != 0xff {
		t.Errorf("255 elements: len = %d, prefix = %x", len(got), got[0])
	}

	var buf bytes.Buffer
	err := Serialize(&buf, make([]uint16, 257), cfg)
	if !errors.IsKind(err, errors.KindTooBig) {
		t.Fatalf("257 elements: err = %v, want too_big", err)
	}
	if buf.Len() != 0 {
		t.Errorf("257 elements: wrote %d bytes", buf.Len())
	}

	err = Serialize(&buf, string(make([]byte, 300)), cfg)
	if !errors.IsKind(err, errors.KindTooBig) {
		t.Errorf("300 byte string: err = %v, want too_big", err)
	}
}

func TestUnboundedSequence(t *testing.T) {
	cfg := Config{Len: LenNone}
	in := []uint16{1, 2, 3}

	data := encodeBytes(t, in, cfg)
	if want := []byte{0, 1, 0, 2, 0, 3}; !bytes.Equal(data, want) {
		t.Fatalf("bytes = %x, want %x", data, want)
	}

	var out []uint16
	if err := Deserialize(bytes.NewReader(data), &out, cfg); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	out = nil
	if err := Deserialize(bytes.NewReader(data[:len(data)-1]), &out, cfg); err != nil {
		t.Fatalf("short by one byte: %v", err)
	}
	if diff := cmp.Diff([]uint16{1, 2}, out); diff != "" {
		t.Errorf("short by one byte (-want +got):\n%s", diff)
	}
}

func TestUnboundedStopsOnlyAtEOF(t *testing.T) {
	type strict struct {
		Kind uint8 `mt:"before=u8:1"`
	}
	var out []strict
	err := Deserialize(bytes.NewReader([]byte{1, 5, 2, 6}), &out, Config{})
	if !errors.IsKind(err, errors.KindInvalidConst) {
		t.Fatalf("err = %v, want invalid_const", err)
	}
}

// decodeUnbounded fails the test instead of hanging when decoding does not
// terminate.
func decodeUnbounded[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	done := make(chan error, 1)
	go func() {
		done <- Deserialize(bytes.NewReader(data), &out, Config{Len: LenNone})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Deserialize(%T): %v", out, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Deserialize(%T) did not terminate", out)
	}
	return out
}

func TestUnboundedStopsWithoutProgress(t *testing.T) {
	type defaulted struct {
		A uint8 `mt:"default"`
	}

	t.Run("options", func(t *testing.T) {
		got := decodeUnbounded[[]*uint16](t, []byte{0, 1})
		if diff := cmp.Diff([]*uint16{ptr(uint16(1))}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("units", func(t *testing.T) {
		if got := decodeUnbounded[[]Unit](t, nil); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
	t.Run("empty structs", func(t *testing.T) {
		if got := decodeUnbounded[[]struct{}](t, nil); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
	t.Run("all default struct", func(t *testing.T) {
		got := decodeUnbounded[[]defaulted](t, []byte{7, 8})
		if diff := cmp.Diff([]defaulted{{A: 7}, {A: 8}}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("map of defaults", func(t *testing.T) {
		got := decodeUnbounded[map[defaulted]*uint8](t, []byte{4, 5})
		if diff := cmp.Diff(map[defaulted]*uint8{{A: 4}: ptr(uint8(5))}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
		if got := decodeUnbounded[map[defaulted]*uint8](t, nil); got != nil {
			t.Errorf("empty stream: got %v, want nil", got)
		}
	})
}

func checkUnbounded[T any](t *testing.T, in T, wantBytes []byte, short T, cfg Config) {
	t.Helper()
	data := encodeBytes(t, in, cfg)
	if !bytes.Equal(data, wantBytes) {
		t.Fatalf("bytes = %x, want %x", data, wantBytes)
	}

	var out T
	if err := Deserialize(bytes.NewReader(data), &out, cfg); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("exact (-want +got):\n%s", diff)
	}

	var cut T
	if err := Deserialize(bytes.NewReader(data[:len(data)-1]), &cut, cfg); err != nil {
		t.Fatalf("short by one byte: %v", err)
	}
	if diff := cmp.Diff(short, cut); diff != "" {
		t.Errorf("short by one byte (-want +got):\n%s", diff)
	}
}

func TestUnboundedCollections(t *testing.T) {
	unbounded := Config{Len: LenNone}

	t.Run("map", func(t *testing.T) {
		checkUnbounded(t,
			map[string]uint8{"a": 1, "b": 2},
			[]byte{0, 1, 'a', 1, 0, 1, 'b', 2},
			map[string]uint8{"a": 1},
			unbounded)
	})
	t.Run("set", func(t *testing.T) {
		checkUnbounded(t,
			map[uint16]struct{}{1: {}, 2: {}},
			[]byte{0, 1, 0, 2},
			map[uint16]struct{}{1: {}},
			unbounded)
	})
	t.Run("utf16 string", func(t *testing.T) {
		checkUnbounded(t,
			"h\u00e9\U0001F600!",
			[]byte{0, 0x68, 0, 0xe9, 0xd8, 0x3d, 0xde, 0x00, 0, '!'},
			"h\u00e9\U0001F600",
			Config{Len: LenNone, UTF16: true})
	})
}

func TestRemoteImageOutOfRange(t *testing.T) {
	if math.MaxInt == math.MaxInt32 {
		t.Skip("int is 32 bits")
	}
	big := int64(math.MaxInt32) + 1

	tests := []struct {
		name string
		v    any
	}{
		{"point x", image.Pt(int(big), 0)},
		{"point y", image.Pt(0, int(-big-1))},
		{"rectangle", image.Rect(0, 0, int(big), 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Serialize(&bytes.Buffer{}, tt.v, Default)
			if !errors.IsKind(err, errors.KindInvalidData) {
				t.Fatalf("err = %v, want invalid_data", err)
			}
		})
	}
}

type meters struct{ N int }

type meters8 struct{ N uint8 }

func TestRemoteErrorIsCustom(t *testing.T) {
	RegisterRemote(
		func(m meters) (meters8, error) {
			if m.N < 0 || m.N > math.MaxUint8 {
				return meters8{}, fmt.Errorf("%d does not fit", m.N)
			}
			return meters8{N: uint8(m.N)}, nil
		},
		func(m meters8) meters { return meters{N: int(m.N)} },
	)

	if got := roundTrip(t, meters{N: 200}, Default); got.N != 200 {
		t.Errorf("round trip = %d, want 200", got.N)
	}
	_, err := Marshal(meters{N: 300})
	if !errors.IsKind(err, errors.KindCustom) {
		t.Fatalf("err = %v, want custom", err)
	}
}

func TestBoundedSequenceTruncated(t *testing.T) {
	var out []uint16
	err := Deserialize(bytes.NewReader([]byte{0, 3, 0, 1, 0}), &out, Default)
	if !errors.IsUnexpectedEOF(err) {
		t.Fatalf("err = %v, want unexpected_eof", err)
	}
	e, ok := errors.From(err)
	if !ok || !cmp.Equal(e.Path, []string{"[1]"}) {
		t.Errorf("err = %v, want path [1]", err)
	}
}

func TestNestedConfig(t *testing.T) {
	cfg, err := ParseConfig("8/8")
	if err != nil {
		t.Fatal(err)
	}

	got := encodeBytes(t, [][]uint16{{1}, {2, 3}}, cfg)
	want := []byte{2, 1, 0, 1, 2, 0, 2, 0, 3}
	if !bytes.Equal(got, want) {
		t.Errorf("nested slice = %x, want %x", got, want)
	}

	// key under the inner config, value one level further in
	got = encodeBytes(t, map[string]string{"k": "v"}, cfg)
	want = []byte{1, 1, 'k', 0, 1, 'v'}
	if !bytes.Equal(got, want) {
		t.Errorf("map = %x, want %x", got, want)
	}

	got = encodeBytes(t, Pair[string, string]{A: "a", B: "b"}, Config{Len: Len8})
	want = []byte{1, 'a', 0, 1, 'b'}
	if !bytes.Equal(got, want) {
		t.Errorf("pair = %x, want %x", got, want)
	}
}

func TestMapOrderIsDeterministic(t *testing.T) {
	in := map[string]uint8{"b": 2, "a": 1, "c": 3}
	want := []byte{0, 3, 0, 1, 'a', 1, 0, 1, 'b', 2, 0, 1, 'c', 3}
	for range 5 {
		if got := encodeBytes(t, in, Default); !bytes.Equal(got, want) {
			t.Fatalf("bytes = %x, want %x", got, want)
		}
	}

	set := map[uint8]struct{}{3: {}, 1: {}}
	if got := encodeBytes(t, set, Default); !bytes.Equal(got, []byte{0, 2, 1, 3}) {
		t.Errorf("set = %x, want 00020103", got)
	}
}

func TestStrings(t *testing.T) {
	utf16 := Config{Len: Len16, UTF16: true}

	tests := []struct {
		name string
		in   string
		want []byte
		cfg  Config
	}{
		{name: "utf8", in: "hi", cfg: Default, want: []byte{0, 2, 'h', 'i'}},
		{name: "utf8 multibyte", in: "é", cfg: Default, want: []byte{0, 2, 0xc3, 0xa9}},
		{name: "utf16", in: "hé", cfg: utf16, want: []byte{0, 2, 0, 'h', 0, 0xe9}},
		{name: "utf16 surrogate pair", in: "a😀", cfg: utf16, want: []byte{0, 3, 0, 'a', 0xd8, 0x3d, 0xde, 0x00}},
		{name: "unbounded", in: "abc", cfg: Config{}, want: []byte{'a', 'b', 'c'}},
		{name: "empty", in: "", cfg: Default, want: []byte{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeBytes(t, tt.in, tt.cfg)
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("bytes = %x, want %x", got, tt.want)
			}
			if out := roundTrip(t, tt.in, tt.cfg); out != tt.in {
				t.Errorf("round trip = %q, want %q", out, tt.in)
			}
		})
	}
}

func TestStringErrors(t *testing.T) {
	utf16 := Config{Len: Len16, UTF16: true}

	tests := []struct {
		name  string
		data  []byte
		cfg   Config
		kind  errors.Kind
		value any
	}{
		{name: "lone high surrogate", data: []byte{0, 1, 0xd8, 0x3d}, cfg: utf16, kind: errors.KindInvalidUTF16, value: uint16(0xd83d)},
		{name: "lone low surrogate", data: []byte{0, 1, 0xde, 0x00}, cfg: utf16, kind: errors.KindInvalidUTF16, value: uint16(0xde00)},
		{name: "high then bmp", data: []byte{0, 2, 0xd8, 0x3d, 0, 'a'}, cfg: utf16, kind: errors.KindInvalidUTF16, value: uint16(0xd83d)},
		{name: "bad utf8", data: []byte{0, 1, 0xff}, cfg: Default, kind: errors.KindInvalidUTF8},
		{name: "short utf8", data: []byte{0, 5, 'a'}, cfg: Default, kind: errors.KindUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s string
			err := Deserialize(bytes.NewReader(tt.data), &s, tt.cfg)
			e, ok := errors.From(err)
			if !ok || e.Kind != tt.kind {
				t.Fatalf("err = %v, want %s", err, tt.kind)
			}
			if tt.value != nil && e.Value != tt.value {
				t.Errorf("Value = %v, want %v", e.Value, tt.value)
			}
		})
	}
}

func TestOptionAndBox(t *testing.T) {
	type msg struct {
		B *uint16 `mt:"box"`
		O *uint16
	}

	got := encodeBytes(t, msg{}, Default)
	if !bytes.Equal(got, []byte{0, 0}) {
		t.Fatalf("bytes = %x, want 0000", got)
	}

	out, err := Unmarshal[msg](got)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.B == nil || *out.B != 0 {
		t.Errorf("B = %v, want pointer to 0", out.B)
	}
	if out.O != nil {
		t.Errorf("O = %v, want nil", *out.O)
	}

	in := msg{B: ptr[uint16](5), O: ptr[uint16](6)}
	if diff := cmp.Diff(in, roundTrip(t, in, Default)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := Unmarshal[msg](nil); !errors.IsUnexpectedEOF(err) {
		t.Errorf("box on empty input: err = %v, want unexpected_eof", err)
	}
}

type tree struct {
	Kids []tree
	V    uint8
}

func TestRecursiveType(t *testing.T) {
	in := tree{V: 1, Kids: []tree{{V: 2}, {V: 3, Kids: []tree{{V: 4}}}}}
	got := roundTrip(t, in, Default)
	if diff := cmp.Diff(in, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoteImageTypes(t *testing.T) {
	type shapes struct {
		P image.Point
		R image.Rectangle
	}
	in := shapes{P: image.Pt(1, -2), R: image.Rect(0, 0, 16, 16)}

	data := encodeBytes(t, in, Default)
	want := []byte{
		0, 0, 0, 1, 0xff, 0xff, 0xff, 0xfe,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 16, 0, 0, 0, 16,
	}
	if !bytes.Equal(data, want) {
		t.Fatalf("bytes = %x, want %x", data, want)
	}
	if diff := cmp.Diff(in, roundTrip(t, in, Default)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTopLevelArguments(t *testing.T) {
	var nilPtr *uint8
	if err := Serialize(&bytes.Buffer{}, nilPtr, Default); !errors.IsKind(err, errors.KindNilPointer) {
		t.Errorf("Serialize(nil ptr) err = %v, want nil_pointer", err)
	}

	var v uint8
	if err := Deserialize(bytes.NewReader([]byte{1}), v, Default); !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Errorf("Deserialize(non-pointer) err = %v, want type_mismatch", err)
	}
	if err := Deserialize(bytes.NewReader([]byte{1}), nilPtr, Default); !errors.IsKind(err, errors.KindNilPointer) {
		t.Errorf("Deserialize(nil ptr) err = %v, want nil_pointer", err)
	}
}

func TestDeserializeLeavesTrailingBytes(t *testing.T) {
	r := bytes.NewReader([]byte{0, 7, 0xaa})
	var v uint16
	if err := Deserialize(r, &v, Default); err != nil {
		t.Fatal(err)
	}
	if v != 7 || r.Len() != 1 {
		t.Errorf("v = %d, remaining = %d, want 7 and 1", v, r.Len())
	}
}
