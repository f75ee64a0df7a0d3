// Package wire implements the big-endian primitive layer of the codec:
// fixed-width integers, IEEE 754 floats, one-byte booleans and raw byte runs.
//
// Readers never consume more of the caller's stream than the values they
// return. Limit bounds a sub-stream for size-framed fields and can discard
// the unread rest of a frame.
package wire
