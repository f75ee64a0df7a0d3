package codec

import (
	"github.com/wippyai/gamewire/wire"
)

// Union marks a struct as a tagged union. Embed it as the first field; its
// tag declares the discriminant representation and the type-level pipeline:
//
//	type Kick struct {
//		codec.Union `mt:"repr=u8"`
//		WrongPasswd *codec.Unit `mt:"case=0"`
//		Custom      *string     `mt:"case=9"`
//	}
//
// Every other exported field is a pointer to a variant payload. Exactly one
// must be set when encoding.
type Union struct{}

// Unit is an empty payload. It encodes to zero bytes.
type Unit struct{}

// Pair is a 2-tuple. A is encoded with the outer Config and B with its
// InnerConfig.
type Pair[A, B any] struct {
	A A
	B B
}

func (Pair[A, B]) isPair() {}

type pair interface {
	isPair()
}

// Marshaler is implemented by types with hand-written wire encoding. cfg is
// the Config in effect for the value.
type Marshaler interface {
	MarshalWire(w *wire.Writer, cfg Config) error
}

// Unmarshaler is the decoding counterpart of Marshaler. It is called on a
// pointer to the zero value.
type Unmarshaler interface {
	UnmarshalWire(r *wire.Reader, cfg Config) error
}
