package packet

import "github.com/wippyai/gamewire/codec"

// ToSrvPkt is a packet sent from the client to the server. The opcode is
// two bytes wide.
type ToSrvPkt struct {
	codec.Union    `mt:"repr=u16"`
	Nil            *codec.Unit          `mt:"case=0"`
	Init           *ToSrvInit           `mt:"case=2"`
	Init2          *ToSrvInit2          `mt:"case=17"`
	JoinModChan    *ToSrvJoinModChan    `mt:"case=23"`
	LeaveModChan   *ToSrvLeaveModChan   `mt:"case=24"`
	MsgModChan     *ToSrvMsgModChan     `mt:"case=25"`
	PlayerPos      *PlayerPos           `mt:"case=35"`
	GotBlocks      *ToSrvGotBlocks      `mt:"case=36"`
	DeletedBlocks  *ToSrvDeletedBlocks  `mt:"case=37"`
	InvAction      *ToSrvInvAction      `mt:"case=49"`
	ChatMsg        *ToSrvChatMsg        `mt:"case=50"`
	FallDmg        *ToSrvFallDmg        `mt:"case=53"`
	SelectItem     *ToSrvSelectItem     `mt:"case=55"`
	Respawn        *codec.Unit          `mt:"case=56"`
	Interact       *ToSrvInteract       `mt:"case=57"`
	RemovedSounds  *ToSrvRemovedSounds  `mt:"case=58"`
	NodeMetaFields *ToSrvNodeMetaFields `mt:"case=59"`
	InvFields      *ToSrvInvFields      `mt:"case=60"`
	ReqMedia       *ToSrvReqMedia       `mt:"case=64"`
	CltReady       *ToSrvCltReady       `mt:"case=67"`
	FirstSrp       *ToSrvFirstSrp       `mt:"case=80"`
	SrpBytesA      *ToSrvSrpBytesA      `mt:"case=81"`
	SrpBytesM      *ToSrvSrpBytesM      `mt:"case=82"`
	Disco          *codec.Unit          `mt:"case=0xffff"`
}

type ToSrvInit struct {
	SerializeVersion uint8
	MinProtoVersion  uint16 `mt:"before=u16:1"` // supported compression
	MaxProtoVersion  uint16
	PlayerName       string
	SendFullItemMeta bool `mt:"default"`
}

type ToSrvInit2 struct {
	Lang string
}

type ToSrvJoinModChan struct {
	Channel string
}

type ToSrvLeaveModChan struct {
	Channel string
}

type ToSrvMsgModChan struct {
	Channel string
	Msg     string
}

// PlayerPos is the client's view of its own player. Positions travel as
// fixed-point hundredths and the field of view in eightieths.
type PlayerPos struct {
	Pos         [3]float32 `mt:"scale=100,as=i32"`
	Vel         [3]float32 `mt:"scale=100,as=i32"`
	Pitch       float32    `mt:"scale=100,as=i32"`
	Yaw         float32    `mt:"scale=100,as=i32"`
	FOV         float32    `mt:"scale=80,as=u8"`
	WantedRange uint8
}

type ToSrvGotBlocks struct {
	Blocks [][3]int16 `mt:"len=8"`
}

type ToSrvDeletedBlocks struct {
	Blocks [][3]int16 `mt:"len=8"`
}

type ToSrvInvAction struct {
	Action string `mt:"len=none"`
}

type ToSrvChatMsg struct {
	Msg string `mt:"utf16"`
}

type ToSrvFallDmg struct {
	Amount uint16
}

type ToSrvSelectItem struct {
	Slot uint16
}

// PointedThing is what the player was aiming at when interacting.
type PointedThing struct {
	codec.Union `mt:"repr=u8,before=u8:0"`
	Nothing     *codec.Unit `mt:"case=0"`
	Node        *PointedNode
	Obj         *PointedObj
}

type PointedNode struct {
	Under [3]int16
	Above [3]int16
}

type PointedObj struct {
	ID uint16
}

type ToSrvInteract struct {
	Action   Interaction
	ItemSlot uint16
	Pointed  PointedThing `mt:"size=32"`
	Pos      PlayerPos
}

type ToSrvRemovedSounds struct {
	IDs []int32
}

type ToSrvNodeMetaFields struct {
	Pos      [3]int16
	Formname string
	Fields   map[string]string
}

type ToSrvInvFields struct {
	Formname string
	Fields   map[string]string
}

type ToSrvReqMedia struct {
	Filenames []string
}

type ToSrvCltReady struct {
	Major    uint8
	Minor    uint8
	Patch    uint8
	Reserved uint8
	Version  string
	Formspec uint16
}

type ToSrvFirstSrp struct {
	Salt        []byte
	Verifier    []byte
	EmptyPasswd bool
}

type ToSrvSrpBytesA struct {
	A      []byte
	NoSHA1 bool
}

type ToSrvSrpBytesM struct {
	M []byte
}
