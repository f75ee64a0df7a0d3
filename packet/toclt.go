package packet

import (
	"image/color"
	"time"

	"github.com/wippyai/gamewire/codec"
)

// ToCltPkt is a packet sent from the server to the client. The opcode is
// a single byte.
type ToCltPkt struct {
	codec.Union           `mt:"repr=u8"`
	Hello                 *ToCltHello                 `mt:"case=2"`
	AcceptAuth            *ToCltAcceptAuth            `mt:"case=3"`
	AcceptSudoMode        *ToCltAcceptSudoMode        `mt:"case=4"`
	DenySudoMode          *codec.Unit                 `mt:"case=5"`
	Kick                  *KickReason                 `mt:"case=10"`
	BlockData             *ToCltBlockData             `mt:"case=32"`
	AddNode               *ToCltAddNode               `mt:"case=33"`
	RemoveNode            *ToCltRemoveNode            `mt:"case=34"`
	Inv                   *ToCltInv                   `mt:"case=39"`
	TimeOfDay             *ToCltTimeOfDay             `mt:"case=41"`
	CsmRestrictionFlags   *ToCltCsmRestrictionFlags   `mt:"case=42"`
	AddPlayerVelocity     *ToCltAddPlayerVelocity     `mt:"case=43"`
	MediaPush             *ToCltMediaPush             `mt:"case=44"`
	ChatMsg               *ToCltChatMsg               `mt:"case=47"`
	Hp                    *ToCltHp                    `mt:"case=51"`
	MovePlayer            *ToCltMovePlayer            `mt:"case=52"`
	LegacyKick            *ToCltLegacyKick            `mt:"case=53"`
	Fov                   *ToCltFov                   `mt:"case=54"`
	DeathScreen           *ToCltDeathScreen           `mt:"case=55"`
	Media                 *ToCltMedia                 `mt:"case=56"`
	AnnounceMedia         *ToCltAnnounceMedia         `mt:"case=60"`
	ItemDefs              *ToCltItemDefs              `mt:"case=61,size=32,zlib"`
	PlaySound             *ToCltPlaySound             `mt:"case=63"`
	StopSound             *ToCltStopSound             `mt:"case=64"`
	Privs                 *ToCltPrivs                 `mt:"case=65"`
	InvFormspec           *ToCltInvFormspec           `mt:"case=66"`
	DetachedInv           *ToCltDetachedInv           `mt:"case=67"`
	ShowFormspec          *ToCltShowFormspec          `mt:"case=68"`
	Movement              *ToCltMovement              `mt:"case=69"`
	AddHud                *ToCltAddHud                `mt:"case=73"`
	RemoveHud             *ToCltRemoveHud             `mt:"case=74"`
	ChangeHud             *ToCltChangeHud             `mt:"case=75"`
	HudFlags              *ToCltHudFlags              `mt:"case=76"`
	SetHotbarParam        *HotbarParam                `mt:"case=77"`
	Breath                *ToCltBreath                `mt:"case=78"`
	OverrideDayNightRatio *ToCltOverrideDayNightRatio `mt:"case=80"`
	LocalPlayerAnim       *ToCltLocalPlayerAnim       `mt:"case=81"`
	EyeOffset             *ToCltEyeOffset             `mt:"case=82"`
	RemoveParticleSpawner *ToCltRemoveParticleSpawner `mt:"case=83"`
	CloudParams           *ToCltCloudParams           `mt:"case=84"`
	FadeSound             *ToCltFadeSound             `mt:"case=85"`
	UpdatePlayerList      *ToCltUpdatePlayerList      `mt:"case=86"`
	ModChanMsg            *ToCltModChanMsg            `mt:"case=87"`
	ModChanSig            *ToCltModChanSig            `mt:"case=88"`
	NodeMetasChanged      *map[[3]int16]NodeMeta      `mt:"case=89,size=32"`
	SunParams             *ToCltSunParams             `mt:"case=90"`
	MoonParams            *ToCltMoonParams            `mt:"case=91"`
	StarParams            *ToCltStarParams            `mt:"case=92"`
	SrpBytesSaltB         *ToCltSrpBytesSaltB         `mt:"case=96"`
	FormspecPrepend       *ToCltFormspecPrepend       `mt:"case=97"`
	MinimapModes          *MinimapModes               `mt:"case=98"`
}

type ToCltHello struct {
	SerializeVersion uint8
	ProtoVersion     uint16 `mt:"before=u16:1"` // compression mode
	AuthMethods      AuthMethods
	Username         string
}

type ToCltAcceptAuth struct {
	PlayerPos       [3]float32
	MapSeed         uint64
	SendInterval    time.Duration `mt:"map=seconds"`
	SudoAuthMethods AuthMethods
}

type ToCltAcceptSudoMode struct {
	SudoAuthMethods AuthMethods
}

// KickReason tells the client why it was disconnected.
type KickReason struct {
	codec.Union        `mt:"repr=u8"`
	WrongPasswd        *codec.Unit `mt:"case=0"`
	UnexpectedData     *codec.Unit
	SrvIsSingleplayer  *codec.Unit
	UnsupportedVersion *codec.Unit
	BadNameChars       *codec.Unit
	BadName            *codec.Unit
	TooManyClts        *codec.Unit
	EmptyPasswd        *codec.Unit
	AlreadyConnected   *codec.Unit
	SrvErr             *codec.Unit
	Custom             *string
	Shutdown           *KickShutdown
	Crash              *KickShutdown
}

type KickShutdown struct {
	Custom    string
	Reconnect bool
}

type ToCltBlockData struct {
	Pos   [3]int16
	Block *MapBlock `mt:"zstd,box"`
}

// AlwaysLitFrom marks a block as lit from every direction.
const AlwaysLitFrom uint16 = 0xf000

// NodesPerBlock is the number of nodes in a 16x16x16 map block.
const NodesPerBlock = 4096

type MapBlock struct {
	Flags       MapBlockFlags
	LitFrom     uint16
	Param0Size  codec.Unit `mt:"before=u8:2"`
	Param12Size codec.Unit `mt:"before=u8:2"`
	Param0      [NodesPerBlock]uint16
	Param1      [NodesPerBlock]uint8
	Param2      [NodesPerBlock]uint8
	NodeMetas   map[uint16]NodeMeta
	Version     codec.Unit `mt:"before=u8:2"`
}

type NodeMeta struct {
	Fields []NodeMetaField
	Inv    string `mt:"len=32"`
}

type NodeMetaField struct {
	Name    string
	Value   string `mt:"len=32"`
	Private bool
}

type ToCltAddNode struct {
	Pos      [3]int16
	Param0   uint16
	Param1   uint8
	Param2   uint8
	KeepMeta bool
}

type ToCltRemoveNode struct {
	Pos [3]int16
}

type ToCltInv struct {
	Inv string
}

type ToCltTimeOfDay struct {
	Time  uint16
	Speed float32
}

type ToCltCsmRestrictionFlags struct {
	Flags    CsmRestrictions
	MapRange uint32
}

type ToCltAddPlayerVelocity struct {
	Vel [3]float32
}

type ToCltMediaPush struct {
	NoLenHash     string
	Filename      string
	CallbackToken uint32
	ShouldCache   bool
}

type ToCltChatMsg struct {
	Type      ChatMsgType `mt:"before=u8:1"`
	Sender    string      `mt:"utf16"`
	Text      string      `mt:"utf16"`
	Timestamp int64       // unix seconds
}

type ToCltHp struct {
	Hp           uint16
	DamageEffect bool `mt:"default"`
}

type ToCltMovePlayer struct {
	Pos   [3]float32
	Pitch float32
	Yaw   float32
}

type ToCltLegacyKick struct {
	Reason string `mt:"utf16"`
}

type ToCltFov struct {
	Fov            float32
	Multiplier     bool
	TransitionTime time.Duration `mt:"map=seconds"`
}

type ToCltDeathScreen struct {
	PointCam bool
	PointAt  [3]float32
}

type MediaPayload struct {
	Name string
	Data []byte `mt:"len=32"`
}

type ToCltMedia struct {
	N     uint16
	I     uint16
	Files []MediaPayload
}

type MediaAnnounce struct {
	Name       string
	Base64SHA1 string
}

type ToCltAnnounceMedia struct {
	Files []MediaAnnounce
	URL   string
}

// ItemDef carries the properties a client needs to render and wield an
// item.
type ItemDef struct {
	Type            ItemType
	Name            string
	Desc            string
	InvImg          string
	WieldImg        string
	WieldScale      [3]float32
	StackMax        uint16
	Usable          bool
	CanPointLiquids bool
}

type ToCltItemDefs struct {
	Defs    []ItemDef `mt:"before=u8:0"` // version
	Aliases map[string]string
}

type ToCltPlaySound struct {
	ID        uint32
	Name      string
	Gain      float32
	SrcType   SoundSrcType
	Pos       [3]float32
	SrcObjID  uint16
	Loop      bool
	Fade      float32
	Pitch     float32
	Ephemeral bool
}

type ToCltStopSound struct {
	ID uint32
}

type ToCltPrivs struct {
	Privs map[string]struct{}
}

type ToCltInvFormspec struct {
	Formspec string `mt:"size=32"`
}

type ToCltDetachedInv struct {
	Name string
	Keep bool
	Len  uint16
	Inv  string `mt:"len=none"`
}

type ToCltShowFormspec struct {
	Formspec string `mt:"len=32"`
	Formname string
}

type ToCltMovement struct {
	DefaultAccel float32
	AirAccel     float32
	FastAccel    float32
	WalkSpeed    float32
	CrouchSpeed  float32
	FastSpeed    float32
	ClimbSpeed   float32
	JumpSpeed    float32
	Gravity      float32
}

type ToCltAddHud struct {
	ID  uint32
	Hud HudElement
}

type ToCltRemoveHud struct {
	ID uint32
}

type ToCltChangeHud struct {
	ID     uint32
	Change HudChange
}

type ToCltHudFlags struct {
	Flags HudFlags
	Mask  HudFlags
}

type ToCltBreath struct {
	Breath uint16
}

type ToCltOverrideDayNightRatio struct {
	Override bool
	Ratio    uint16
}

type ToCltLocalPlayerAnim struct {
	Idle    [2]int32
	Walk    [2]int32
	Dig     [2]int32
	WalkDig [2]int32
	Speed   float32
}

type ToCltEyeOffset struct {
	First [3]float32
	Third [3]float32
}

type ToCltRemoveParticleSpawner struct {
	ID uint32
}

type ToCltCloudParams struct {
	Density      float32
	DiffuseColor color.NRGBA
	AmbientColor color.NRGBA
	Height       float32
	Thickness    float32
	Speed        [2]float32
}

type ToCltFadeSound struct {
	ID   uint32
	Step float32
	Gain float32
}

type ToCltUpdatePlayerList struct {
	Type    PlayerListUpdateType
	Players map[string]struct{}
}

type ToCltModChanMsg struct {
	Channel string
	Sender  string
	Msg     string
}

type ToCltModChanSig struct {
	Signal  ModChanSignal
	Channel string
}

type ToCltSunParams struct {
	Visible bool
	Texture string
	ToneMap string
	Rise    string
	Rising  bool
	Size    float32
}

type ToCltMoonParams struct {
	Visible bool
	Texture string
	ToneMap string
	Size    float32
}

type ToCltStarParams struct {
	Visible bool
	Texture string
	ToneMap string
	Size    float32
}

type ToCltSrpBytesSaltB struct {
	Salt []byte
	B    []byte
}

type ToCltFormspecPrepend struct {
	Prepend string
}
