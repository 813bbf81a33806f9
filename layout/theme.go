package layout

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ByLCY/canvasfit/dsl"
)

// 卡片样式的默认值（px），与宿主的默认卡片外观接近。
const (
	defaultFontName   = "Body"
	defaultFontSrc    = "builtin:go-regular"
	defaultFontSize   = 16.0
	defaultLineFactor = 1.5
	defaultBorder     = 2.0
	defaultRadius     = 8.0
)

var (
	defaultPadding     = Insets{Top: 12, Right: 24, Bottom: 12, Left: 24}
	defaultInk         = Color{R: 34, G: 34, B: 34}
	defaultBorderColor = Color{R: 138, G: 138, B: 138}
	defaultPaper       = Color{R: 255, G: 255, B: 255}
)

// Insets 表示四边留白（px）。
type Insets struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Horizontal 返回左右留白之和。
func (i Insets) Horizontal() float64 { return i.Left + i.Right }

// Vertical 返回上下留白之和。
func (i Insets) Vertical() float64 { return i.Top + i.Bottom }

// CardStyle 是解析后的卡片外观，尺寸单位均为 px。
type CardStyle struct {
	Font        FontResource `json:"font"`
	FontSize    float64      `json:"fontSize"`
	LineHeight  float64      `json:"lineHeight"`
	Color       Color        `json:"color"`
	Background  *Color       `json:"background,omitempty"`
	Border      float64      `json:"border"`
	BorderColor Color        `json:"borderColor"`
	Padding     Insets       `json:"padding"`
	Radius      float64      `json:"radius"`
	Wrap        string       `json:"wrap"`
}

// Theme 描述画布预览的字体、样式与元信息。
type Theme struct {
	Name      string       `json:"name"`
	Dir       string       `json:"-"` // 主题文件所在目录，用于解析相对字体路径
	Meta      DocumentMeta `json:"meta"`
	Resources ResourceSet  `json:"resources"`
	Card      CardStyle    `json:"card"`
}

// DefaultTheme 返回未配置主题文件时使用的主题。
func DefaultTheme() *Theme {
	font := FontResource{
		Name:      defaultFontName,
		Src:       defaultFontSrc,
		Family:    defaultFontName,
		IsBuiltin: true,
	}
	paper := defaultPaper
	return &Theme{
		Name: "default",
		Meta: DocumentMeta{Creator: "canvasfit"},
		Resources: ResourceSet{
			Fonts:  map[string]FontResource{font.Name: font},
			Colors: map[string]Color{},
			Styles: map[string]Style{},
		},
		Card: CardStyle{
			Font:        font,
			FontSize:    defaultFontSize,
			LineHeight:  defaultFontSize * defaultLineFactor,
			Color:       defaultInk,
			Background:  &paper,
			Border:      defaultBorder,
			BorderColor: defaultBorderColor,
			Padding:     defaultPadding,
			Radius:      defaultRadius,
			Wrap:        "anywhere",
		},
	}
}

// LoadThemeFile 读取并解析主题文件。
func LoadThemeFile(path string) (*Theme, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开主题文件 %s: %w", path, err)
	}
	defer file.Close()

	theme, err := ParseTheme(file)
	if err != nil {
		return nil, fmt.Errorf("主题文件 %s: %w", path, err)
	}
	theme.Dir = filepath.Dir(path)
	return theme, nil
}

// ParseTheme 从 DSL 文本解析主题。
func ParseTheme(r io.Reader) (*Theme, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析主题 DSL 失败: %w", err)
	}
	return BuildTheme(doc)
}

// BuildTheme 根据 DSL AST 解析资源、元信息与卡片样式。
func BuildTheme(doc *dsl.Document) (*Theme, error) {
	if doc == nil {
		return nil, fmt.Errorf("主题文档为空")
	}
	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}

	cardStyle := ""
	inline := map[string]string{}
	for _, section := range doc.Sections {
		if section.Card == nil {
			continue
		}
		cardStyle = section.Card.Style
		inline, err = collectProps(section.Card.Block)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", cardStyle, err)
		}
	}
	if cardStyle != "" {
		if _, ok := res.Styles[cardStyle]; !ok {
			return nil, fmt.Errorf("card 引用的 style %s 未定义", cardStyle)
		}
	}

	card, err := resolveCardStyle(mergeStyleAttributes(cardStyle, inline, res.Styles), res)
	if err != nil {
		return nil, err
	}

	return &Theme{
		Name:      doc.Name,
		Meta:      collectMeta(doc),
		Resources: res,
		Card:      card,
	}, nil
}

func collectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]Color{},
		Styles: map[string]Style{},
	}
	rawStyles := map[string]Style{}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			switch stmt.Command.Name {
			case "font":
				font := parseFontResource(stmt.Command)
				if font.Name != "" {
					res.Fonts[font.Name] = font
				}
			case "color":
				name, value := parseColorResource(stmt.Command)
				if name == "" || value == "" {
					continue
				}
				c, err := ParseColor(value)
				if err != nil {
					return res, fmt.Errorf("color %s: %w", name, err)
				}
				res.Colors[name] = c
			case "style":
				style, err := parseStyleResource(stmt.Command)
				if err != nil {
					return res, err
				}
				if style.Name != "" {
					rawStyles[style.Name] = style
				}
			default:
				return res, fmt.Errorf("%s: 不支持的资源类型 %s", stmt.Command.Pos, stmt.Command.Name)
			}
		}
	}

	if _, ok := res.Fonts[defaultFontName]; !ok {
		res.Fonts[defaultFontName] = FontResource{
			Name:      defaultFontName,
			Src:       defaultFontSrc,
			Family:    defaultFontName,
			IsBuiltin: true,
		}
	}

	resolvedStyles, err := resolveStyles(rawStyles)
	if err != nil {
		return res, err
	}
	res.Styles = resolvedStyles

	return res, nil
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{
		Creator: "canvasfit",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = valueToString(stmt.Assignment.Value)
			case "author":
				meta.Author = valueToString(stmt.Assignment.Value)
			case "subject":
				meta.Subject = valueToString(stmt.Assignment.Value)
			case "creator":
				meta.Creator = valueToString(stmt.Assignment.Value)
			case "keywords":
				meta.Keywords = valueToStringSlice(stmt.Assignment.Value)
			}
		}
	}
	return meta
}

func parseFontResource(cmd *dsl.Command) FontResource {
	if len(cmd.Args) == 0 {
		return FontResource{}
	}
	font := FontResource{
		Name:   cmd.Args[0].Value,
		Family: cmd.Args[0].Value,
	}

	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil || stmt.Assignment.Value.String == nil {
			continue
		}
		val := string(*stmt.Assignment.Value.String)
		switch stmt.Assignment.Key {
		case "src":
			font.Src = val
			font.IsBuiltin = strings.HasPrefix(val, "builtin:") || strings.HasPrefix(val, "embed:")
		case "style":
			font.Style = val
		case "fallback":
			font.Fallback = val
		}
	}
	return font
}

func parseStyleResource(cmd *dsl.Command) (Style, error) {
	if len(cmd.Args) == 0 {
		return Style{}, nil
	}
	props, err := collectProps(cmd.Block)
	if err != nil {
		return Style{}, fmt.Errorf("style %s: %w", cmd.Args[0].Value, err)
	}
	style := Style{
		Name:  cmd.Args[0].Value,
		Props: props,
	}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		style.Extends = cmd.Args[2].Value
	}
	return style, nil
}

// collectProps 只接受 key: value 形式的属性；其它语句（例如 padding: { top: 4px }）报错并带上位置。
func collectProps(block *dsl.Block) (map[string]string, error) {
	props := map[string]string{}
	if block == nil {
		return props, nil
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			if stmt.Command != nil {
				return nil, fmt.Errorf("%s: 属性 %s 必须写成 key: value", stmt.Command.Pos, stmt.Command.Name)
			}
			continue
		}
		val := valueToString(stmt.Assignment.Value)
		if val == "" {
			continue
		}
		props[stmt.Assignment.Key] = val
	}
	return props, nil
}

func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		style, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if style.Extends != "" {
			parent, err := dfs(style.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range style.Props {
			props[k] = v
		}
		style.Props = props
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func mergeStyleAttributes(style string, inline map[string]string, styles map[string]Style) map[string]string {
	out := make(map[string]string)
	if style != "" {
		if s, ok := styles[style]; ok {
			for k, v := range s.Props {
				out[k] = v
			}
		}
	}
	for k, v := range inline {
		out[k] = v
	}
	return out
}

// resolveCardStyle 把样式属性解析为 CardStyle，未声明的属性使用默认值。
func resolveCardStyle(attrs map[string]string, res ResourceSet) (CardStyle, error) {
	card := DefaultTheme().Card

	fontName := attrs["font"]
	if fontName == "" {
		fontName = defaultFontName
	}
	font, err := resolveFontResource(fontName, res)
	if err != nil {
		return card, err
	}
	card.Font = font

	if v, ok := attrs["size"]; ok {
		size := pxLength(v)
		if size <= 0 {
			return card, fmt.Errorf("字号 %s 无效", v)
		}
		card.FontSize = size
	}
	card.LineHeight = card.FontSize * defaultLineFactor
	if v, ok := attrs["line-height"]; ok {
		lh := parseLineHeight(v).Resolve(Length{Value: card.FontSize, Unit: UnitPX}, UnitPX)
		if lh <= 0 {
			return card, fmt.Errorf("行高 %s 无效", v)
		}
		card.LineHeight = lh
	}
	if v, ok := attrs["color"]; ok {
		card.Color = resolveColor(v, res, defaultInk)
	}
	if v, ok := attrs["background"]; ok {
		if strings.EqualFold(v, "none") {
			card.Background = nil
		} else {
			bg := resolveColor(v, res, defaultPaper)
			card.Background = &bg
		}
	}
	if v, ok := attrs["border"]; ok {
		card.Border = clampPx(pxLength(v))
	}
	if v, ok := attrs["border-color"]; ok {
		card.BorderColor = resolveColor(v, res, defaultBorderColor)
	}
	if v, ok := attrs["padding"]; ok {
		card.Padding = parseInsets(v)
	}
	if v, ok := attrs["radius"]; ok {
		card.Radius = clampPx(pxLength(v))
	}
	if v, ok := attrs["wrap"]; ok {
		card.Wrap = normalizeWrap(v)
	}
	return card, nil
}

func resolveFontResource(name string, res ResourceSet) (FontResource, error) {
	if font, ok := res.Fonts[name]; ok {
		return font, nil
	}
	if font, ok := res.Fonts[defaultFontName]; ok {
		return font, nil
	}
	for _, font := range res.Fonts {
		return font, nil
	}
	return FontResource{}, fmt.Errorf("字体 %s 未定义，且没有可用的默认字体", name)
}

// parseInsets 支持 1~4 个值，语义同 CSS padding：
// 1 个值四边相同；2 个值为上下、左右；3 个值为上、左右、下；4 个值为上右下左。
func parseInsets(value string) Insets {
	vals := []float64{}
	for _, part := range strings.Fields(strings.ReplaceAll(value, ",", " ")) {
		if len(vals) == 4 {
			break
		}
		vals = append(vals, clampPx(pxLength(part)))
	}
	switch len(vals) {
	case 1:
		v := vals[0]
		return Insets{Top: v, Right: v, Bottom: v, Left: v}
	case 2:
		return Insets{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
	case 3:
		return Insets{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
	case 4:
		return Insets{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
	default:
		return Insets{}
	}
}

func parseLineHeight(value string) LineHeightSpec {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.HasSuffix(v, "x") && !strings.HasSuffix(v, "px") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64); err == nil {
			return LineHeightSpec{Kind: LineHeightFactor, Factor: f}
		}
	}
	l := ParseRawLengthStr(v)
	if l.Unit == UnitNone {
		// 无单位按倍数处理，与 CSS line-height 一致
		return LineHeightSpec{Kind: LineHeightFactor, Factor: l.Value}
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}
}

// pxLength 解析长度并换算为 px；无单位的数值视为 px。
func pxLength(value string) float64 {
	l := ParseRawLengthStr(value)
	if l.Unit == UnitNone {
		return l.Value
	}
	return l.ToPX()
}

func clampPx(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func normalizeWrap(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "", "auto", "anywhere", "overflow-wrap:anywhere", "overflow-anywhere":
		return "anywhere"
	case "break-word", "word-break:break-word":
		return "break-word"
	case "nowrap", "no-wrap":
		return "nowrap"
	default:
		return "anywhere"
	}
}

func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

func resolveColor(value string, res ResourceSet, fallback Color) Color {
	if value == "" {
		return fallback
	}
	if c, ok := res.Colors[value]; ok {
		return c
	}
	if strings.HasPrefix(value, "#") {
		if c, err := ParseColor(value); err == nil {
			return c
		}
	}
	return fallback
}

// ParseColor 解析 #rgb / #rrggbb（可带 alpha）形式的十六进制颜色。
func ParseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(value, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	// 8 位写法的 alpha 分量只校验，不参与渲染
	parts := make([]int, len(hex)/2)
	for i := range parts {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		parts[i] = int(v)
	}
	return Color{R: parts[0], G: parts[1], B: parts[2]}, nil
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Array != nil:
		return strings.Join(valueToStringSlice(val), " ")
	case val.Expr != nil:
		var builder strings.Builder
		for _, part := range val.Expr.Parts {
			builder.WriteString(part.Value)
		}
		return builder.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}
