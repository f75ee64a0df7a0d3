// Package gamewire is a schema-driven binary serialization engine for a
// voxel game network protocol.
//
// Go types are the schema. A packet is an ordinary struct; the codec walks
// it once, compiles a plan and then encodes or decodes values of that type
// without further reflection on the type itself.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	gamewire/            Root package, documentation only
//	├── codec/           Type compiler, encoder, decoder and struct tag rules
//	├── wire/            Big-endian primitive reader and writer
//	├── compress/        zlib and zstd stream adapters
//	├── packet/          Client-bound and server-bound packet catalog
//	├── errors/          Structured error types for debugging
//	└── cmd/pktinspect/  Command line and TUI packet inspector
//
// # Quick Start
//
// Encode and decode a server-bound packet:
//
//	data, err := packet.Encode(packet.ToSrv, &packet.ToSrvPkt{
//	    ChatMsg: &packet.ToSrvChatMsg{Msg: "hello"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pkt, err := packet.Decode(packet.ToSrv, data)
//	fmt.Println(pkt.Cmd()) // "ChatMsg"
//
// Any Go type can go through the codec directly:
//
//	type Pos struct {
//	    X, Y, Z int16
//	    Name    string `mt:"len=8"`
//	}
//
//	buf, err := codec.Marshal(Pos{X: 1, Name: "spawn"}, codec.Default)
//	p, err := codec.Unmarshal[Pos](buf, codec.Default)
//
// # Thread Safety
//
// Compiled plans are cached and shared. Serialize, Deserialize and the
// registration functions are safe for concurrent use, but registrations
// must happen before the first value of an affected type is compiled.
package gamewire
