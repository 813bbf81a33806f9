package board

import (
	"github.com/ByLCY/canvasfit/layout"
)

// JSON Canvas 的预设颜色 "1"-"6"。
var presetColors = map[string]layout.Color{
	"1": {R: 251, G: 70, B: 76},
	"2": {R: 233, G: 151, B: 63},
	"3": {R: 224, G: 222, B: 113},
	"4": {R: 68, G: 207, B: 110},
	"5": {R: 83, G: 223, B: 221},
	"6": {R: 168, G: 130, B: 255},
}

// Compose 把画布排成单页预览：每个节点一个外框（文本节点附带文本），每条连线一段直线。
func (c *Canvas) Compose(theme *layout.Theme, opts layout.ComposeOptions) *layout.Result {
	cards := make([]layout.Card, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		card := layout.Card{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
		if n.preview != nil && n.preview.IsShown() {
			card.Preview = n.preview
		}
		if col, ok := nodeColor(n.Color); ok {
			card.Accent = &col
		}
		cards = append(cards, card)
	}

	connectors := make([]layout.Connector, 0, len(c.Edges))
	for _, e := range c.Edges {
		from, ok1 := c.Node(e.FromNode)
		to, ok2 := c.Node(e.ToNode)
		if !ok1 || !ok2 {
			continue
		}
		x1, y1 := anchor(from, e.FromSide)
		x2, y2 := anchor(to, e.ToSide)
		connectors = append(connectors, layout.Connector{X1: x1, Y1: y1, X2: x2, Y2: y2})
	}
	return layout.Compose(theme, cards, connectors, opts)
}

func nodeColor(value string) (layout.Color, bool) {
	if value == "" {
		return layout.Color{}, false
	}
	if c, ok := presetColors[value]; ok {
		return c, true
	}
	c, err := layout.ParseColor(value)
	return c, err == nil
}

// anchor 返回节点某一侧的中点，未指定时取中心。
func anchor(n *Node, side string) (float64, float64) {
	cx, cy := n.X+n.Width/2, n.Y+n.Height/2
	switch side {
	case "top":
		return cx, n.Y
	case "bottom":
		return cx, n.Y + n.Height
	case "left":
		return n.X, cy
	case "right":
		return n.X + n.Width, cy
	default:
		return cx, cy
	}
}
