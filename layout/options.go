package layout

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 约定：width/fontSize/lineHeight 以及返回行的宽高均为毫米（mm）。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

// ComposeOptions 控制预览页面的生成。
type ComposeOptions struct {
	Margin float64        // 页面四周留白（px）
	Data   map[string]any // 用于插值主题 meta 中的 ${...}
}
