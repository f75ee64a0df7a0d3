// Package codec maps Go values to and from the game protocol's binary
// format.
//
// Every Go type is compiled once into a Plan that drives both directions.
// Struct tags under the key "mt" adjust how a field is encoded; everything
// else follows from the Go type.
//
// # Wire Format
//
// All integers and floats are big-endian with no padding or alignment:
//
//	Go type            Wire
//	──────────────────────────────────────────────────────
//	bool               1 byte, 0 is false
//	uint8..uint64      1/2/4/8 bytes
//	int8..int64        1/2/4/8 bytes, two's complement
//	float32/float64    IEEE 754, 4/8 bytes
//	[N]T               N elements, no prefix
//	[]T, []byte        length prefix, elements
//	map[K]struct{}     length prefix, keys
//	map[K]V            length prefix, key/value pairs
//	string             length prefix, UTF-8 bytes or UTF-16 units
//	*T                 T, or nothing when nil
//	Unit, struct{}     nothing
//	struct             fields in declaration order
//
// int, uint and uintptr have no fixed width and are rejected.
//
// # Length Configuration
//
// A Config says how wide a length prefix is and, through Inner, how the
// elements of a collection are configured. The default is a 16-bit prefix
// at every level. LenNone writes no prefix; on read the collection extends
// to the end of the stream. Lengths that do not fit the prefix fail with a
// too_big error before anything is written for the collection.
//
// # Struct Tags
//
//	len=8/32        length chain, outer to inner (none, 8, 16, 32, 64)
//	utf16           strings as UTF-16 code units
//	scale=F         multiply by F on write, divide on read
//	as=i16          write numbers as another primitive
//	map=name        convert through a registered mapping
//	size=32         prefix the encoded field with its byte size
//	zlib, zstd      compress the encoded field
//	before=u8:0     literal written before the field, checked on read
//	after=str:x     literal written after the field, checked on read;
//	                str literals cannot contain commas
//	default         end of stream yields the zero value
//	box             *T that is always present; nil writes T's zero value
//	-               skip the field
//
// Modifiers nest in a fixed order: constants outermost, then the size
// frame, compression, the value transform and finally the base encoding.
//
// # Unions
//
// A struct embedding Union as its first field is a tagged union:
//
//	type HudChange struct {
//		codec.Union `mt:"repr=u8"`
//		Pos  *[2]float32 `mt:"case=0"`
//		Name *string
//	}
//
// The discriminant is written with repr (u8..u64, or str for the snake_case
// variant name) followed by the payload. Variants number upward from the
// previous one unless case= is given. Pipeline items on the Union marker
// wrap discriminant and payload together.
//
// # Registration
//
// Scalar enums, flag sets, remote shadows and named mappings are declared
// once, before first use:
//
//	codec.RegisterEnum(AnimLoop, AnimOnce)
//	codec.RegisterFlags(FlagHideBar, FlagHideWield)
//	codec.RegisterRemote(toShadow, fromShadow)
//	codec.RegisterMapping("rgba", toWire, fromWire)
//
// image.Point and image.Rectangle are registered as pairs of int32;
// coordinates outside the int32 range fail with invalid_data.
//
// # Errors
//
// Failures are *errors.Error values with a phase, a kind and the path of the
// field that failed. Only an unexpected end of stream ends unbounded
// collections, absent options and default fields; every other error is
// returned as is.
//
// # Concurrency
//
// Compilers, encoders and decoders are safe for concurrent use. Plans are
// built under a lock and cached for the life of the Compiler.
package codec
