package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/ByLCY/canvasfit/layout"
)

// textMeasurer 返回文本宽度（mm），*canvas.FontFace 即满足该接口。
type textMeasurer interface {
	TextWidth(s string) float64
}

// greedyWrapTokens 按 wrap 策略折行：
//   - nowrap：仅按显式换行划分；
//   - break-word：忽略空白机会，纯按宽度逐字切分；
//   - 其他（anywhere）：优先在空白处分割，单词超宽时在词内拆分。
//
// width<=0 视为不限宽。
func greedyWrapTokens(content string, width float64, face textMeasurer, wrap string) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	switch wrap {
	case "nowrap":
		parts := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
		lines := make([]layout.TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, layout.TextLine{Content: p, Width: face.TextWidth(p)})
		}
		return lines
	case "break-word":
		return wrapRunes(content, limit, face)
	default:
		return wrapTokens(content, limit, face)
	}
}

// lineBuilder 累积当前行内容与宽度。
type lineBuilder struct {
	lines   []layout.TextLine
	builder strings.Builder
	width   float64
}

// emit 输出当前行；force 为真时空行也会输出（显式换行或文本结尾）。
func (b *lineBuilder) emit(force bool) {
	if b.builder.Len() == 0 {
		if force {
			b.lines = append(b.lines, layout.TextLine{})
		}
		return
	}
	b.lines = append(b.lines, layout.TextLine{Content: b.builder.String(), Width: b.width})
	b.builder.Reset()
	b.width = 0
}

func (b *lineBuilder) append(s string, w float64) {
	b.builder.WriteString(s)
	b.width += w
}

func wrapRunes(content string, limit float64, face textMeasurer) []layout.TextLine {
	var b lineBuilder
	for _, r := range content {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			b.emit(true)
			continue
		}
		s := string(r)
		cw := face.TextWidth(s)
		if b.width > 0 && b.width+cw > limit {
			b.emit(false)
		}
		b.append(s, cw)
		if b.width > limit {
			b.emit(false)
		}
	}
	b.emit(true)
	return b.lines
}

func wrapTokens(content string, limit float64, face textMeasurer) []layout.TextLine {
	var b lineBuilder
	place := func(token string, w float64) {
		if b.width > 0 && b.width+w > limit {
			b.emit(false)
			// 折行处的空白不带到下一行行首
			if strings.TrimSpace(token) == "" {
				return
			}
		}
		b.append(token, w)
		if b.width > limit {
			b.emit(false)
		}
	}

	for _, token := range tokenizeContent(content) {
		if token == "\n" {
			b.emit(true)
			continue
		}
		tokenWidth := face.TextWidth(token)
		if tokenWidth <= limit {
			place(token, tokenWidth)
			continue
		}
		for _, chunk := range splitTokenByWidth(token, limit, face) {
			place(chunk, face.TextWidth(chunk))
		}
	}
	b.emit(true)
	return b.lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, face textMeasurer) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var current []rune
	for _, r := range token {
		current = append(current, r)
		if len(current) > 1 && face.TextWidth(string(current)) > limit {
			parts = append(parts, string(current[:len(current)-1]))
			current = current[len(current)-1:]
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}
