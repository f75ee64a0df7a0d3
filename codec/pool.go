package codec

import (
	"bytes"
	"sync"
)

const (
	// Pool limits to prevent memory bloat
	poolMaxBuf  = 64 << 10
	poolInitBuf = 512
)

// scratch buffers for size frames and map key ordering
var bufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, poolInitBuf))
	},
}

func getBuffer() *bytes.Buffer {
	return bufPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > poolMaxBuf {
		return // reject oversized
	}
	buf.Reset()
	bufPool.Put(buf)
}
