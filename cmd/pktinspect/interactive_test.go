package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/gamewire/packet"
)

func testEntries(t *testing.T) []entry {
	t.Helper()
	bodies := [][]byte{
		{51, 0, 20},
		{47, 1, 1, 0, 0, 0, 2, 0, 'h', 0, 'i', 0, 0, 0, 0, 0, 0, 0, 0},
		{78, 0, 11},
		{1},
	}
	return decodeAll(packet.ToClt, bodies)
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInteractiveNavigation(t *testing.T) {
	m := newInteractiveModel("capture.hex", testEntries(t))
	if len(m.visible) != 4 {
		t.Fatalf("visible = %d, want 4", len(m.visible))
	}

	m.Update(keys("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if e, _ := m.current(); e.pkt.Cmd() != "Breath" {
		t.Errorf("selected %q, want Breath", e.title())
	}

	m.Update(keys("k"))
	if e, _ := m.current(); e.pkt.Cmd() != "ChatMsg" {
		t.Errorf("selected %q, want ChatMsg", e.title())
	}
	if !strings.Contains(m.detail.View(), `Text: "hi"`) {
		t.Errorf("detail does not show the message:\n%s", m.detail.View())
	}

	for range 10 {
		m.Update(keys("j"))
	}
	if m.selected != 3 {
		t.Errorf("selected = %d, want last entry", m.selected)
	}
}

func TestInteractiveFilter(t *testing.T) {
	m := newInteractiveModel("capture.hex", testEntries(t))

	m.Update(keys("/"))
	if !m.filter.Focused() {
		t.Fatal("filter should be focused")
	}
	for _, r := range "chat" {
		m.Update(keys(string(r)))
	}
	if len(m.visible) != 1 {
		t.Fatalf("visible = %d, want 1", len(m.visible))
	}
	if e, _ := m.current(); e.pkt.Cmd() != "ChatMsg" {
		t.Errorf("selected %q", e.title())
	}

	// q types into the filter instead of quitting
	m.Update(keys("q"))
	if !m.filter.Focused() || m.filter.Value() != "chatq" {
		t.Errorf("filter = %q, focused=%v", m.filter.Value(), m.filter.Focused())
	}
	if len(m.visible) != 0 {
		t.Errorf("visible = %d, want 0", len(m.visible))
	}
	if !strings.Contains(m.View(), "(empty)") {
		t.Error("empty list not rendered")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filter.Focused() || len(m.visible) != 4 {
		t.Errorf("esc should clear the filter: focused=%v visible=%d", m.filter.Focused(), len(m.visible))
	}

	_, cmd := m.Update(keys("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestInteractiveWindowSize(t *testing.T) {
	m := newInteractiveModel("-", testEntries(t))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.detail.Width != 120-listWidth-4 || m.detail.Height != 34 {
		t.Errorf("viewport = %dx%d", m.detail.Width, m.detail.Height)
	}
	view := m.View()
	if !strings.Contains(view, "Packet Inspector") || !strings.Contains(view, "Hp [51]") {
		t.Errorf("view missing header or list:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
}
