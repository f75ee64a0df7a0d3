package compress

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/gamewire/errors"
)

func compressed(t *testing.T, m Method, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(m, &buf)
	if err != nil {
		t.Fatalf("NewWriter(%s): %v", m, err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"empty":      {},
		"short":      []byte("node meta"),
		"repetitive": bytes.Repeat([]byte("default:stone "), 2000),
	}

	for _, m := range []Method{Zlib, Zstd} {
		for name, payload := range payloads {
			t.Run(m.String()+"/"+name, func(t *testing.T) {
				trailer := []byte{0xca, 0xfe}
				stream := append(compressed(t, m, payload), trailer...)
				src := bytes.NewReader(stream)

				r, err := NewReader(m, src)
				if err != nil {
					t.Fatalf("NewReader: %v", err)
				}
				got, err := io.ReadAll(r)
				if err != nil {
					t.Fatalf("ReadAll: %v", err)
				}
				if err := r.Close(); err != nil {
					t.Fatalf("Close: %v", err)
				}
				if diff := cmp.Diff(payload, got, cmpEmpty); diff != "" {
					t.Errorf("payload mismatch (-want +got):\n%s", diff)
				}

				rest, _ := io.ReadAll(src)
				if !bytes.Equal(rest, trailer) {
					t.Errorf("bytes after region = %x, want %x", rest, trailer)
				}
			})
		}
	}
}

var cmpEmpty = cmp.Comparer(func(a, b []byte) bool { return bytes.Equal(a, b) })

func TestCloseDiscardsUnread(t *testing.T) {
	for _, m := range []Method{Zlib, Zstd} {
		t.Run(m.String(), func(t *testing.T) {
			stream := append(compressed(t, m, []byte("abcdefgh")), 0x42)
			src := bytes.NewReader(stream)

			r, err := NewReader(m, src)
			if err != nil {
				t.Fatal(err)
			}
			b, err := r.ReadByte()
			if err != nil || b != 'a' {
				t.Fatalf("ReadByte = %q, %v", b, err)
			}
			if err := r.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
			next, err := src.ReadByte()
			if err != nil || next != 0x42 {
				t.Errorf("next byte = %#x, %v; want 0x42", next, err)
			}
		})
	}
}

func TestTruncatedRegion(t *testing.T) {
	for _, m := range []Method{Zlib, Zstd} {
		t.Run(m.String(), func(t *testing.T) {
			full := compressed(t, m, bytes.Repeat([]byte("x"), 100))
			short := full[:len(full)-2]

			r, err := NewReader(m, bytes.NewReader(short))
			if err == nil {
				_, err = io.ReadAll(r)
				if err == nil {
					err = r.Close()
				}
			}
			if !errors.IsUnexpectedEOF(err) {
				t.Errorf("expected unexpected_eof, got %v", err)
			}
		})
	}
}

func TestZstdBadMagic(t *testing.T) {
	_, err := NewReader(Zstd, bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	if !errors.IsKind(err, errors.KindInvalidData) {
		t.Errorf("expected invalid_data, got %v", err)
	}
}

func TestWriterCloseTwice(t *testing.T) {
	w, err := NewWriter(Zlib, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if _, err := w.Write([]byte("late")); err == nil {
		t.Error("write after Close should fail")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want Method
		ok   bool
	}{
		{"zlib", Zlib, true},
		{"ZSTD", Zstd, true},
		{"none", None, true},
		{"gzip", None, false},
	}
	for _, tt := range tests {
		got, ok := Lookup(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}

	if _, err := NewWriter(None, io.Discard); !errors.IsKind(err, errors.KindUnsupported) {
		t.Errorf("expected unsupported for None, got %v", err)
	}
	if !strings.Contains(Method(9).String(), "9") {
		t.Error("unknown method should print its number")
	}
}
