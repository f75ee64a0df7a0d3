package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/gamewire/packet"
)

func TestReadPacketsHex(t *testing.T) {
	in := strings.NewReader(`# captured from a local server
33 00 14

2f:01:00:00:00:00:00:00:00:00:00:00:00:00:00
	ff ff
`)
	got, err := readPackets(in, formatHex)
	if err != nil {
		t.Fatalf("readPackets: %v", err)
	}
	want := [][]byte{
		{0x33, 0x00, 0x14},
		{0x2f, 0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0xff, 0xff},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("packets mismatch (-want +got):\n%s", diff)
	}
}

func TestReadPacketsBadHex(t *testing.T) {
	_, err := readPackets(strings.NewReader("00 02\nzz\n"), formatHex)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want error on line 2", err)
	}
}

func TestReadPacketsRaw(t *testing.T) {
	raw := []byte{0x0a, 0x00, 0x0a, '\n'}
	got, err := readPackets(bytes.NewReader(raw), formatRaw)
	if err != nil {
		t.Fatalf("readPackets: %v", err)
	}
	if len(got) != 1 || !bytes.Equal(got[0], raw) {
		t.Errorf("got %x, want one packet %x", got, raw)
	}
}

func TestDecodeAll(t *testing.T) {
	entries := decodeAll(packet.ToClt, [][]byte{{51, 0, 20}, {1}})
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}

	if entries[0].err != nil {
		t.Fatalf("entry 1: %v", entries[0].err)
	}
	if got := entries[0].title(); got != "#1 Hp [51] (3 bytes)" {
		t.Errorf("title = %q", got)
	}

	if entries[1].err == nil {
		t.Fatal("entry 2 should fail")
	}
	if got := entries[1].title(); got != "#2 <invalid_enum> (1 bytes)" {
		t.Errorf("title = %q", got)
	}
	if !strings.Contains(entries[1].detail(), "raw: 01") {
		t.Errorf("detail = %q", entries[1].detail())
	}
}
