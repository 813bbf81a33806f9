package layout

import (
	"errors"
	"math"
	"testing"
)

// stubTypesetter 按固定字宽逐字折行，行高取 lineHeight，便于精确断言测量值。
type stubTypesetter struct {
	charWidth float64 // mm
	err       error
}

func (s *stubTypesetter) LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error) {
	if s.err != nil {
		return nil, s.err
	}
	perLine := int(width/s.charWidth + 1e-9)
	if perLine < 1 {
		perLine = 1
	}
	runes := []rune(content)
	var lines []TextLine
	for i := 0; i < len(runes); i += perLine {
		end := i + perLine
		if end > len(runes) {
			end = len(runes)
		}
		lines = append(lines, TextLine{
			Content: string(runes[i:end]),
			Width:   float64(end-i) * s.charWidth,
			Height:  lineHeight,
		})
	}
	return lines, nil
}

func newStub() *stubTypesetter { return &stubTypesetter{charWidth: 10 * PxToMm} }

// testStyle: 边框 2px，内边距 12/24px，行高 24px，内容宽度 = 节点宽度 - 52。
func testStyle() CardStyle {
	s := DefaultTheme().Card
	s.LineHeight = 24
	return s
}

func TestPreviewHiddenUntilReflow(t *testing.T) {
	p := NewPreview(newStub(), testStyle(), "hello")
	if p.IsShown() {
		t.Fatalf("preview should be hidden before first reflow")
	}
	if err := p.Reflow(352, 100); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	if !p.IsShown() {
		t.Fatalf("preview should be shown after reflow")
	}
	p.Hide()
	if p.IsShown() {
		t.Fatalf("Hide should hide the preview")
	}
}

func TestPreviewMeasurements(t *testing.T) {
	// 30 个字符 = 300px，内容宽度 300px 时正好一行
	p := NewPreview(newStub(), testStyle(), "abcdefghijklmnopqrstuvwxyz0123")
	if err := p.Reflow(352, 100); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	if got := p.ContentWidth(); math.Abs(got-300) > 1e-9 {
		t.Fatalf("content width: got %g want 300", got)
	}
	if got := p.ClientHeight(); got != 96 {
		t.Fatalf("clientHeight: got %g want 96", got)
	}
	if got := p.ScrollHeight(); got != 96 {
		t.Fatalf("scrollHeight without overflow should equal clientHeight, got %g", got)
	}

	p.SetHeightStyle("1px")
	if got := p.ClientHeight(); got != 1 {
		t.Fatalf("probe clientHeight: got %g want 1", got)
	}
	if got := p.ScrollHeight(); got != 48 {
		t.Fatalf("probe scrollHeight: got %g want 48 (24 content + 24 padding)", got)
	}
	p.SetHeightStyle("")
	if got := p.ClientHeight(); got != 96 {
		t.Fatalf("clientHeight after restore: got %g want 96", got)
	}

	// 变窄后需要 Reflow 才能看到换行
	if err := p.Reflow(202, 100); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	p.SetHeightStyle("1px")
	if got := p.ScrollHeight(); got != 24*2+24 {
		t.Fatalf("narrow probe scrollHeight: got %g want 72", got)
	}
}

func TestPreviewEmptyTextHasNoContent(t *testing.T) {
	p := NewPreview(newStub(), testStyle(), "")
	if err := p.Reflow(100, 100); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	if p.ContentHeight() != 0 || len(p.Lines()) != 0 {
		t.Fatalf("empty preview should have no content, got %g / %d lines", p.ContentHeight(), len(p.Lines()))
	}
	p.SetHeightStyle("1px")
	if got := p.ScrollHeight(); got != 24 {
		t.Fatalf("empty probe scrollHeight should be padding only, got %g", got)
	}
}

func TestPreviewZeroWidthStillWraps(t *testing.T) {
	p := NewPreview(newStub(), testStyle(), "abc")
	if err := p.Reflow(0, 10); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	if got := len(p.Lines()); got != 3 {
		t.Fatalf("expected one glyph per line at zero width, got %d lines", got)
	}
	if got := p.ClientHeight(); got != 6 {
		t.Fatalf("clientHeight: got %g want 6", got)
	}
}

func TestPreviewReflowErrorHidesSurface(t *testing.T) {
	ts := &stubTypesetter{err: errors.New("font missing")}
	p := NewPreview(ts, testStyle(), "text")
	if err := p.Reflow(200, 100); err == nil {
		t.Fatalf("expected reflow error")
	}
	if p.IsShown() {
		t.Fatalf("preview must be hidden after a failed reflow")
	}
	if p.Err() == nil {
		t.Fatalf("Err should report the failure")
	}
}

func TestPreviewHeightStyleUnits(t *testing.T) {
	p := NewPreview(newStub(), testStyle(), "x")
	if err := p.Reflow(200, 100); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	p.SetHeightStyle("25.4mm")
	if got := p.ClientHeight(); got != 96 {
		t.Fatalf("25.4mm should be 96px, got %g", got)
	}
	p.SetHeightStyle("auto")
	if got := p.ClientHeight(); got != 96 {
		t.Fatalf("auto should follow node height, got %g", got)
	}
}
