package layout

import (
	"math"
	"strings"
)

// minContentWidth 是内容区的最小排版宽度（px）。宽度为 0 时排版器会当作不限宽，
// 这里保留一个极小的正值，让文本逐字折行。
const minContentWidth = 0.01

// measureEpsilon 吸收 mm↔px 换算的浮点误差，避免 ceil 多进一像素。
const measureEpsilon = 1e-6

// Preview 是卡片的可测量预览面板，行为与浏览器中的 DOM 元素一致：
//   - clientHeight 为面板可视高度（节点高度减去上下边框，或高度样式指定的值），取整；
//   - scrollHeight 为 max(clientHeight, 内容高度 + 上下内边距)，向上取整；
//   - 测量值只反映最近一次 Reflow 时的节点尺寸。
type Preview struct {
	ts    Typesetter
	style CardStyle
	text  string

	shown       bool
	heightStyle string

	width         float64 // 最近一次 Reflow 的节点宽度（px）
	height        float64 // 最近一次 Reflow 的节点高度（px）
	lines         []TextLine
	contentHeight float64 // px
	err           error
}

// NewPreview 创建预览面板；在第一次 Reflow 之前面板不可见。
func NewPreview(ts Typesetter, style CardStyle, text string) *Preview {
	return &Preview{ts: ts, style: style, text: text}
}

// Reflow 按节点尺寸重新排版文本。排版失败时面板隐藏，测量不再有意义。
func (p *Preview) Reflow(width, height float64) error {
	p.width = math.Max(width, 0)
	p.height = math.Max(height, 0)

	if p.text == "" {
		p.lines = nil
		p.contentHeight = 0
		p.err = nil
		p.shown = true
		return nil
	}

	s := p.style
	lines, err := layoutLines(p.text, p.ContentWidth()*PxToMm, s.Font, s.FontSize*PxToMm, s.LineHeight*PxToMm, p.ts, s.Wrap)
	if err != nil {
		p.err = err
		p.shown = false
		return err
	}
	total := 0.0
	for _, ln := range lines {
		total += ln.GapBefore + ln.Height
	}
	p.lines = lines
	p.contentHeight = total * MmToPx
	p.err = nil
	p.shown = true
	return nil
}

// Text 返回卡片文本。
func (p *Preview) Text() string { return p.text }

// SetText 替换文本内容，需要再次 Reflow 才会生效。
func (p *Preview) SetText(text string) { p.text = text }

// Hide 隐藏面板，例如卡片进入编辑状态时。
func (p *Preview) Hide() { p.shown = false }

// Err 返回最近一次 Reflow 的错误。
func (p *Preview) Err() error { return p.err }

// Lines 返回最近一次排版的文本行（mm）。
func (p *Preview) Lines() []TextLine { return p.lines }

// Style 返回面板使用的卡片样式。
func (p *Preview) Style() CardStyle { return p.style }

// ContentWidth 返回内容区的排版宽度（px）。
func (p *Preview) ContentWidth() float64 {
	w := p.width - 2*p.style.Border - p.style.Padding.Horizontal()
	return math.Max(w, minContentWidth)
}

// ContentHeight 返回文本内容的自然高度（px），不含内边距。
func (p *Preview) ContentHeight() float64 { return p.contentHeight }

func (p *Preview) IsShown() bool { return p.shown && p.err == nil }

func (p *Preview) HeightStyle() string { return p.heightStyle }

func (p *Preview) SetHeightStyle(value string) { p.heightStyle = strings.TrimSpace(value) }

func (p *Preview) ClientHeight() float64 {
	return math.Round(p.boxHeight())
}

func (p *Preview) ScrollHeight() float64 {
	natural := math.Ceil(p.contentHeight + p.style.Padding.Vertical() - measureEpsilon)
	return math.Max(p.ClientHeight(), natural)
}

// boxHeight 返回面板高度：有高度样式时使用样式值，否则随节点高度变化。
func (p *Preview) boxHeight() float64 {
	if p.heightStyle != "" && p.heightStyle != "auto" {
		l := ParseRawLengthStr(p.heightStyle)
		v := l.Value
		if l.Unit != UnitNone {
			v = l.ToPX()
		}
		return math.Max(v, 0)
	}
	return math.Max(p.height-2*p.style.Border, 0)
}

func layoutLines(content string, width float64, font FontResource, fontSize, lineHeight float64, ts Typesetter, wrap string) ([]TextLine, error) {
	if ts == nil {
		lines := strings.Split(content, "\n")
		out := make([]TextLine, 0, len(lines))
		textHeight := fontSize
		if textHeight <= 0 {
			textHeight = 12
		}
		leading := math.Max(lineHeight-textHeight, 0)
		for _, l := range lines {
			out = append(out, TextLine{
				Content:   l,
				Width:     width,
				Height:    textHeight,
				GapBefore: leading,
			})
		}
		out[0].GapBefore = 0
		return out, nil
	}
	lines, err := ts.LayoutLines(content, width, font, fontSize, lineHeight, wrap)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		height := fontSize
		if height <= 0 {
			height = lineHeight
		}
		lines = []TextLine{{Content: "", Width: width, Height: height}}
	}
	lines[0].GapBefore = 0
	return lines, nil
}
