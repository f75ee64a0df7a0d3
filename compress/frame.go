package compress

import (
	"bytes"
	"encoding/binary"

	"github.com/wippyai/gamewire/errors"
	"github.com/wippyai/gamewire/wire"
)

const (
	zstdMagic       = 0xFD2FB528
	zstdMaxBlock    = 1 << 17
	zstdBlockRaw    = 0
	zstdBlockRLE    = 1
	zstdBlockCmp    = 2
	zstdChecksumLen = 4
)

var (
	dictIDSizes = [4]int{0, 1, 2, 4}
	fcsSizes    = [4]int{0, 2, 4, 8}
)

// readZstdFrame copies exactly one zstd frame from r by walking its frame
// and block headers. The zstd stream decoder reads ahead, so the frame
// boundary has to be found before decoding.
func readZstdFrame(r *wire.Reader) ([]byte, error) {
	var frame bytes.Buffer
	take := func(n int) ([]byte, error) {
		buf, err := r.ReadBytes(n)
		if err != nil {
			return nil, err
		}
		frame.Write(buf)
		return buf, nil
	}

	magic, err := take(4)
	if err != nil {
		return nil, err
	}
	if m := binary.LittleEndian.Uint32(magic); m != zstdMagic {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Value(m).
			Detail("zstd: bad frame magic 0x%08x", m).
			Build()
	}

	fhd, err := take(1)
	if err != nil {
		return nil, err
	}
	desc := fhd[0]
	singleSegment := desc&0x20 != 0
	hasChecksum := desc&0x04 != 0
	if desc&0x08 != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "zstd: reserved frame header bit set")
	}

	headerLen := dictIDSizes[desc&0x03] + fcsSizes[desc>>6]
	if !singleSegment {
		headerLen++ // window descriptor
	} else if desc>>6 == 0 {
		headerLen++ // single segment frames always carry a 1-byte content size
	}
	if _, err := take(headerLen); err != nil {
		return nil, err
	}

	for {
		bh, err := take(3)
		if err != nil {
			return nil, err
		}
		header := uint32(bh[0]) | uint32(bh[1])<<8 | uint32(bh[2])<<16
		last := header&1 != 0
		size := int(header >> 3)

		switch (header >> 1) & 0x03 {
		case zstdBlockRaw, zstdBlockCmp:
			if size > zstdMaxBlock {
				return nil, errors.New(errors.PhaseDecode, errors.KindTooBig).
					Value(uint64(size)).
					Detail("zstd: block of %d bytes", size).
					Build()
			}
		case zstdBlockRLE:
			size = 1
		default:
			return nil, errors.InvalidData(errors.PhaseDecode, nil, "zstd: reserved block type")
		}
		if _, err := take(size); err != nil {
			return nil, err
		}
		if last {
			break
		}
	}

	if hasChecksum {
		if _, err := take(zstdChecksumLen); err != nil {
			return nil, err
		}
	}
	return frame.Bytes(), nil
}
