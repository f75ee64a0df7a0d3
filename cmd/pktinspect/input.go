package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/gamewire/errors"
	"github.com/wippyai/gamewire/packet"
)

// readPackets splits the input into packet bodies. Hex input holds one
// packet per line; blank lines and lines starting with # are skipped and
// bytes may be separated by spaces or colons. Raw input is a single body.
func readPackets(r io.Reader, format string) ([][]byte, error) {
	if format == formatRaw {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return [][]byte{data}, nil
	}

	var out [][]byte
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 16<<20)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		text = strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(text)
		data, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, data)
	}
	return out, sc.Err()
}

type entry struct {
	pkt   packet.Pkt
	err   error
	raw   []byte
	index int
}

func decodeAll(dir packet.Direction, bodies [][]byte) []entry {
	entries := make([]entry, len(bodies))
	for i, body := range bodies {
		pkt, err := packet.Decode(dir, body)
		entries[i] = entry{index: i + 1, raw: body, pkt: pkt, err: err}
	}
	return entries
}

func (e entry) title() string {
	if e.err != nil {
		kind, _ := errors.KindOf(e.err)
		return fmt.Sprintf("#%d <%s> (%d bytes)", e.index, kind, len(e.raw))
	}
	op, _ := packet.Opcode(e.pkt)
	return fmt.Sprintf("#%d %s [%d] (%d bytes)", e.index, e.pkt.Cmd(), op, len(e.raw))
}

func (e entry) detail() string {
	if e.err != nil {
		return fmt.Sprintf("error: %v\nraw: %x\n", e.err, e.raw)
	}
	return dump(e.pkt)
}
