package command

import (
	"testing"

	"github.com/ByLCY/canvasfit/autofit"
)

// hiddenSurface 永远不可见，FitBoth 对其为空操作。
type hiddenSurface struct{ style string }

func (s *hiddenSurface) IsShown() bool               { return false }
func (s *hiddenSurface) ClientHeight() float64       { return 0 }
func (s *hiddenSurface) ScrollHeight() float64       { return 0 }
func (s *hiddenSurface) HeightStyle() string         { return s.style }
func (s *hiddenSurface) SetHeightStyle(value string) { s.style = value }

// emptySurface 可见且内容高度固定为 0。
type emptySurface struct {
	node  *fakeNode
	style string
}

func (s *emptySurface) IsShown() bool               { return true }
func (s *emptySurface) ClientHeight() float64       { return s.node.height }
func (s *emptySurface) ScrollHeight() float64       { return max(s.ClientHeight(), 0) }
func (s *emptySurface) HeightStyle() string         { return s.style }
func (s *emptySurface) SetHeightStyle(value string) { s.style = value }

type fakeNode struct {
	width, height float64
	saves         int
	surface       autofit.Surface
}

func (n *fakeNode) Size() (float64, float64)        { return n.width, n.height }
func (n *fakeNode) Resize(w, h float64)             { n.width, n.height = w, h }
func (n *fakeNode) Render()                         {}
func (n *fakeNode) RequestSave()                    { n.saves++ }
func (n *fakeNode) IsTextual() bool                 { return false }
func (n *fakeNode) PreviewSurface() autofit.Surface { return n.surface }

func newEmptyNode(w, h float64) *fakeNode {
	n := &fakeNode{width: w, height: h}
	n.surface = &emptySurface{node: n}
	return n
}

type fakeCanvas struct{ nodes []autofit.Node }

func (c *fakeCanvas) Selection() []autofit.Node { return c.nodes }

type fakeWorkspace struct{ canvas *fakeCanvas }

func (w *fakeWorkspace) ActiveCanvas() (Canvas, bool) {
	if w.canvas == nil {
		return nil, false
	}
	return w.canvas, true
}

func loadPalette(ws Workspace, opts ...Option) (*Plugin, *Palette) {
	p := NewPlugin(opts...)
	pal := NewPalette()
	p.Load(pal, ws)
	return p, pal
}

func TestLoadRegistersFixedTable(t *testing.T) {
	_, pal := loadPalette(&fakeWorkspace{})
	want := []struct{ id, name string }{
		{ResizeMedium, "Canvas node resize (medium)"},
		{ResizeSmall, "Canvas node resize (small)"},
		{ResizeExtraSmall, "Canvas node resize (extra-small)"},
		{ReduceWidth, "Canvas node resize (reduce width)"},
	}
	cmds := pal.Commands()
	if len(cmds) != len(want) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(want))
	}
	for i, w := range want {
		if cmds[i].ID != w.id || cmds[i].Name != w.name {
			t.Fatalf("command %d = %s %q, want %s %q", i, cmds[i].ID, cmds[i].Name, w.id, w.name)
		}
	}
}

func TestUnavailableWithoutActiveCanvas(t *testing.T) {
	_, pal := loadPalette(&fakeWorkspace{})
	if got := pal.Available(); len(got) != 0 {
		t.Fatalf("expected no available commands, got %d", len(got))
	}
	ok, err := pal.Execute(ResizeSmall)
	if err != nil || ok {
		t.Fatalf("execute without canvas: ok=%v err=%v", ok, err)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	_, pal := loadPalette(&fakeWorkspace{canvas: &fakeCanvas{}})
	if _, err := pal.Execute("nope"); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestEmptySelectionIsNoop(t *testing.T) {
	_, pal := loadPalette(&fakeWorkspace{canvas: &fakeCanvas{}})
	if len(pal.Available()) != 4 {
		t.Fatalf("all commands should be available with an active canvas")
	}
	ok, err := pal.Execute(ResizeMedium)
	if err != nil || !ok {
		t.Fatalf("execute: ok=%v err=%v", ok, err)
	}
}

func TestPresetCommandsCollapseEmptyNodes(t *testing.T) {
	cases := map[string]float64{
		ResizeMedium:     MediumSize,
		ResizeSmall:      SmallSize,
		ResizeExtraSmall: ExtraSmallSize,
	}
	for id, size := range cases {
		a, b := newEmptyNode(200, 100), newEmptyNode(50, 400)
		_, pal := loadPalette(&fakeWorkspace{canvas: &fakeCanvas{nodes: []autofit.Node{a, b}}})
		if _, err := pal.Execute(id); err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		for _, n := range []*fakeNode{a, b} {
			if n.width != size || n.height != size {
				t.Fatalf("%s: node = %vx%v, want %vx%v", id, n.width, n.height, size, size)
			}
		}
	}
}

func TestCustomPresets(t *testing.T) {
	n := newEmptyNode(200, 100)
	_, pal := loadPalette(&fakeWorkspace{canvas: &fakeCanvas{nodes: []autofit.Node{n}}},
		WithPresets(Presets{Medium: 40, Small: 20, ExtraSmall: 5}))
	if _, err := pal.Execute(ResizeSmall); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if n.width != 20 || n.height != 20 {
		t.Fatalf("node = %vx%v, want 20x20", n.width, n.height)
	}
}

func TestReduceWidthCommand(t *testing.T) {
	hidden := &fakeNode{width: 10, height: 30, surface: &hiddenSurface{}}
	_, pal := loadPalette(&fakeWorkspace{canvas: &fakeCanvas{nodes: []autofit.Node{hidden}}})
	if _, err := pal.Execute(ReduceWidth); err != nil {
		t.Fatalf("execute: %v", err)
	}
	// 减宽是直接操作，不依赖预览是否可见
	if hidden.width != 9 || hidden.height != 30 || hidden.saves != 1 {
		t.Fatalf("node = %vx%v saves=%d", hidden.width, hidden.height, hidden.saves)
	}
}

func TestHiddenNodesAreSkipped(t *testing.T) {
	n := &fakeNode{width: 10, height: 30, surface: &hiddenSurface{}}
	_, pal := loadPalette(&fakeWorkspace{canvas: &fakeCanvas{nodes: []autofit.Node{n}}})
	if _, err := pal.Execute(ResizeMedium); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if n.width != 10 || n.height != 30 || n.saves != 0 {
		t.Fatalf("hidden node changed: %vx%v saves=%d", n.width, n.height, n.saves)
	}
}

func TestUnloadDisablesCommands(t *testing.T) {
	p, pal := loadPalette(&fakeWorkspace{canvas: &fakeCanvas{}})
	if len(p.Loaded()) != 4 {
		t.Fatalf("expected 4 loaded commands")
	}
	p.Unload()
	if len(pal.Available()) != 0 {
		t.Fatalf("commands should be unavailable after unload")
	}
}
