// Package errors provides structured error types for the gamewire codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/wire type names, the
// offending and expected values, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidConst).
//		Path("Init", "serialize_version").
//		WireType("u16").
//		Want(uint16(1)).
//		Value(uint16(7)).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TooBig(errors.PhaseEncode, 257, "u8")
//	err := errors.InvalidEnum(errors.PhaseDecode, "ToSrvPkt", uint16(11))
//
// Stream failures are classified once: io.EOF and io.ErrUnexpectedEOF become
// KindUnexpectedEOF, which is the only kind absorbed by unbounded sequences,
// optional pointers and default-on-truncation fields. Everything else is KindIO.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
