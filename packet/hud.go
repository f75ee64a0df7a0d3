package packet

import (
	"github.com/wippyai/gamewire/codec"
	"github.com/wippyai/gamewire/errors"
	"github.com/wippyai/gamewire/wire"
)

type HudElement struct {
	Type     HudType
	Pos      [2]float32
	Name     string
	Scale    [2]float32
	Text     string
	Number   uint32
	Item     uint32
	Dir      uint32
	Align    [2]float32
	Offset   [2]float32
	WorldPos [3]float32
	ZIndex   int32
	Text2    string
	Style    HudStyleFlags
}

// HudChange updates a single attribute of a HUD element.
type HudChange struct {
	codec.Union `mt:"repr=u8"`
	Pos         *[2]float32 `mt:"case=0"`
	Name        *string
	Scale       *[2]float32
	Text        *string
	Number      *uint32
	Item        *uint32
	Dir         *uint32
	Align       *[2]float32
	Offset      *[2]float32
	WorldPos    *[3]float32
	ZIndex      *int32
	Text2       *string
	Style       *HudStyleFlags
}

// Apply copies the changed attribute into e.
func (c HudChange) Apply(e *HudElement) {
	switch {
	case c.Pos != nil:
		e.Pos = *c.Pos
	case c.Name != nil:
		e.Name = *c.Name
	case c.Scale != nil:
		e.Scale = *c.Scale
	case c.Text != nil:
		e.Text = *c.Text
	case c.Number != nil:
		e.Number = *c.Number
	case c.Item != nil:
		e.Item = *c.Item
	case c.Dir != nil:
		e.Dir = *c.Dir
	case c.Align != nil:
		e.Align = *c.Align
	case c.Offset != nil:
		e.Offset = *c.Offset
	case c.WorldPos != nil:
		e.WorldPos = *c.WorldPos
	case c.ZIndex != nil:
		e.ZIndex = *c.ZIndex
	case c.Text2 != nil:
		e.Text2 = *c.Text2
	case c.Style != nil:
		e.Style = *c.Style
	}
}

type HotbarParam struct {
	codec.Union    `mt:"repr=u16"`
	Size           *uint32 `mt:"case=0,before=u16:4"`
	Image          *string
	SelectionImage *string
}

type MinimapMode struct {
	Type    MinimapType
	Label   string
	Size    uint16
	Texture string
	Scale   uint16
}

// DefaultMinimap is the mode list a server sends when no mod overrides it.
var DefaultMinimap = []MinimapMode{
	{Type: NoMinimap},
	{Type: SurfaceMinimap, Size: 256},
	{Type: SurfaceMinimap, Size: 128},
	{Type: SurfaceMinimap, Size: 64},
	{Type: RadarMinimap, Size: 512},
	{Type: RadarMinimap, Size: 256},
	{Type: RadarMinimap, Size: 128},
}

// MinimapModes puts the mode count ahead of the current index, so it
// cannot be described with tags alone. The count uses the Config in effect;
// everything after it uses Default.
type MinimapModes struct {
	Current uint16
	Modes   []MinimapMode
}

func (m *MinimapModes) MarshalWire(w *wire.Writer, cfg codec.Config) error {
	if err := cfg.WriteLen(w, len(m.Modes)); err != nil {
		return err
	}
	if err := w.WriteU16(m.Current); err != nil {
		return err
	}
	for i := range m.Modes {
		if err := codec.Serialize(w, &m.Modes[i], codec.Default); err != nil {
			return err
		}
	}
	return nil
}

func (m *MinimapModes) UnmarshalWire(r *wire.Reader, cfg codec.Config) error {
	n, err := cfg.ReadLen(r)
	if err != nil {
		return err
	}
	if m.Current, err = r.ReadU16(); err != nil {
		return err
	}
	for range n.Range() {
		var mode MinimapMode
		if err := codec.Deserialize(r, &mode, codec.Default); err != nil {
			if !n.IsBounded() && errors.IsUnexpectedEOF(err) {
				return nil
			}
			return err
		}
		m.Modes = append(m.Modes, mode)
	}
	return nil
}
