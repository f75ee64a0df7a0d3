// Package packet defines the game protocol's packet catalog on top of the
// codec package.
//
// Each direction has its own tagged union: ToCltPkt for packets the server
// sends and ToSrvPkt for packets the client sends. A packet body starts
// with the opcode (one byte to the client, two bytes to the server)
// followed by the payload of that variant.
//
//	data, err := packet.Encode(packet.ToClt, packet.ToCltPkt{
//		Hp: &packet.ToCltHp{Hp: 20},
//	})
//
//	pkt, err := packet.Decode(packet.ToSrv, body)
//	fmt.Println(pkt.Cmd())
//
// Enumerations and flag sets used by the payloads are registered with the
// codec when the package is initialized. Durations are sent as float32
// seconds and colors in ARGB order.
package packet
