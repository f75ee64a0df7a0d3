package packet

import (
	"image/color"
	"math"
	"time"

	"github.com/wippyai/gamewire/codec"
	"github.com/wippyai/gamewire/errors"
)

type Interaction uint8

const (
	Dig Interaction = iota
	StopDigging
	Dug
	Place
	Use
	Activate
)

type ChatMsgType uint8

const (
	RawMsg ChatMsgType = iota
	NormalMsg
	AnnounceMsg
	SysMsg
)

type ModChanSignal uint8

const (
	JoinOk ModChanSignal = iota
	JoinFail
	LeaveOk
	LeaveFail
	NotRegistered
	SetState
)

type PlayerListUpdateType uint8

const (
	InitPlayers PlayerListUpdateType = iota
	AddPlayers
	RemovePlayers
)

type HudType uint8

const (
	ImageHud HudType = iota
	TextHud
	StatbarHud
	InvHud
	WaypointHud
	ImageWaypointHud
)

type MinimapType uint16

const (
	NoMinimap MinimapType = iota
	SurfaceMinimap
	RadarMinimap
	TextureMinimap
)

type ItemType uint8

const (
	NoItem ItemType = iota
	NodeItem
	CraftItem
	ToolItem
)

// AuthMethods is a set of supported authentication mechanisms.
type AuthMethods uint32

const (
	LegacyPasswd AuthMethods = 1 << iota
	SRP
	FirstSRP
)

type MapBlockFlags uint8

const (
	IsUnderground MapBlockFlags = 1 << iota
	DayNightDiff
	LightExpired
	NotGenerated
)

type HudFlags uint32

const (
	ShowHotbar HudFlags = 1 << iota
	ShowHealthBar
	ShowCrosshair
	ShowWieldedItem
	ShowBreathBar
	ShowMinimap
	ShowRadarMinimap
)

type HudStyleFlags uint32

const (
	StyleBold HudStyleFlags = 1 << iota
	StyleItalic
	StyleMono
)

type SoundSrcType uint16

const (
	NoSoundSrc SoundSrcType = iota
	PosSoundSrc
	ObjSoundSrc
)

// CsmRestrictions limits what client-side mods may do.
type CsmRestrictions uint64

const (
	NoCsmLoading CsmRestrictions = 1 << iota
	NoChatMsgs
	NoItemDefs
	NoNodeDefs
	LimitMapRange
	NoPlayerInfo
)

// argb is the wire layout of a color: alpha first.
type argb struct {
	A, R, G, B uint8
}

func init() {
	codec.RegisterEnum(Dig, StopDigging, Dug, Place, Use, Activate)
	codec.RegisterEnum(RawMsg, NormalMsg, AnnounceMsg, SysMsg)
	codec.RegisterEnum(JoinOk, JoinFail, LeaveOk, LeaveFail, NotRegistered, SetState)
	codec.RegisterEnum(InitPlayers, AddPlayers, RemovePlayers)
	codec.RegisterEnum(ImageHud, TextHud, StatbarHud, InvHud, WaypointHud, ImageWaypointHud)
	codec.RegisterEnum(NoMinimap, SurfaceMinimap, RadarMinimap, TextureMinimap)
	codec.RegisterEnum(NoItem, NodeItem, CraftItem, ToolItem)
	codec.RegisterEnum(NoSoundSrc, PosSoundSrc, ObjSoundSrc)

	codec.RegisterFlags(LegacyPasswd, SRP, FirstSRP)
	codec.RegisterFlags(IsUnderground, DayNightDiff, LightExpired, NotGenerated)
	codec.RegisterFlags(ShowHotbar, ShowHealthBar, ShowCrosshair, ShowWieldedItem,
		ShowBreathBar, ShowMinimap, ShowRadarMinimap)
	codec.RegisterFlags(StyleBold, StyleItalic, StyleMono)
	codec.RegisterFlags(NoCsmLoading, NoChatMsgs, NoItemDefs, NoNodeDefs, LimitMapRange, NoPlayerInfo)

	codec.RegisterRemote(
		func(c color.NRGBA) (argb, error) { return argb{A: c.A, R: c.R, G: c.G, B: c.B}, nil },
		func(c argb) color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A} },
	)

	codec.RegisterMapping("seconds", durationToSeconds, secondsToDuration)
}

func durationToSeconds(d time.Duration) (float32, error) {
	if d < 0 {
		return 0, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Value(d).
			Detail("negative duration").
			Build()
	}
	return float32(d.Seconds()), nil
}

func secondsToDuration(s float32) (time.Duration, error) {
	if s < 0 || math.IsNaN(float64(s)) || float64(s) > math.MaxInt64/float64(time.Second) {
		return 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Value(s).
			Detail("duration out of range").
			Build()
	}
	return time.Duration(float64(s) * float64(time.Second)), nil
}
