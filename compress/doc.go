// Package compress provides the two stream compressors used by compressed
// fields: zlib and zstd, both backed by github.com/klauspost/compress.
//
// Compressors are pooled. A Writer must be closed to finalize its stream,
// including when the payload failed to encode. A Reader consumes exactly one
// compressed region from its source and leaves the bytes after it in place,
// so compressed fields can be followed by further fields in the same stream.
package compress
