package layout

import (
	"math"

	"github.com/ByLCY/canvasfit/binding"
)

const (
	defaultComposeMargin = 40.0 // px
	connectorWidth       = 0.4  // mm
)

var connectorColor = Color{R: 120, G: 120, B: 120}

// Card 是待绘制的卡片，坐标与尺寸为画布像素（px）。
type Card struct {
	X, Y          float64
	Width, Height float64
	Preview       *Preview // 为空时只绘制外框
	Accent        *Color   // 外框颜色，覆盖主题的 border-color
}

// Connector 是两张卡片之间的连线，端点为画布像素（px）。
type Connector struct {
	X1, Y1, X2, Y2 float64
}

// Compose 把画布卡片与连线排成单页预览，页面大小为内容包围盒加留白。
func Compose(theme *Theme, cards []Card, connectors []Connector, opts ComposeOptions) *Result {
	if theme == nil {
		theme = DefaultTheme()
	}
	margin := opts.Margin
	if margin <= 0 {
		margin = defaultComposeMargin
	}

	minX, minY, maxX, maxY := bounds(cards, connectors)
	originX, originY := minX-margin, minY-margin
	toMM := func(px float64) float64 { return px * PxToMm }

	page := Page{
		Width:  toMM(maxX - minX + 2*margin),
		Height: toMM(maxY - minY + 2*margin),
	}

	for _, c := range connectors {
		page.Lines = append(page.Lines, Line{
			X1:    toMM(c.X1 - originX),
			Y1:    toMM(c.Y1 - originY),
			X2:    toMM(c.X2 - originX),
			Y2:    toMM(c.Y2 - originY),
			Color: connectorColor,
			Width: connectorWidth,
		})
	}

	style := theme.Card
	for _, c := range cards {
		stroke := style.BorderColor
		if c.Accent != nil {
			stroke = *c.Accent
		}
		page.Rects = append(page.Rects, Rect{
			X:           toMM(c.X - originX),
			Y:           toMM(c.Y - originY),
			Width:       toMM(c.Width),
			Height:      toMM(c.Height),
			Radius:      toMM(style.Radius),
			StrokeColor: stroke,
			StrokeWidth: toMM(style.Border),
			FillColor:   style.Background,
		})

		if c.Preview == nil || len(c.Preview.Lines()) == 0 {
			continue
		}
		ps := c.Preview.Style()
		page.Texts = append(page.Texts, TextBox{
			Content:    c.Preview.Text(),
			X:          toMM(c.X - originX + ps.Border + ps.Padding.Left),
			Y:          toMM(c.Y - originY + ps.Border + ps.Padding.Top),
			Width:      toMM(c.Preview.ContentWidth()),
			LineHeight: toMM(ps.LineHeight),
			Font:       ps.Font.Name,
			FontSize:   toMM(ps.FontSize),
			Color:      ps.Color,
			Lines:      c.Preview.Lines(),
			Height:     toMM(c.Preview.ContentHeight()),
		})
	}

	meta := theme.Meta
	if opts.Data != nil {
		meta.Title = binding.Interpolate(meta.Title, opts.Data)
		meta.Subject = binding.Interpolate(meta.Subject, opts.Data)
	}

	return &Result{
		Pages:     []Page{page},
		Resources: theme.Resources,
		Meta:      meta,
	}
}

func bounds(cards []Card, connectors []Connector) (minX, minY, maxX, maxY float64) {
	if len(cards) == 0 && len(connectors) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	extend := func(x, y float64) {
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}
	for _, c := range cards {
		extend(c.X, c.Y)
		extend(c.X+c.Width, c.Y+c.Height)
	}
	for _, c := range connectors {
		extend(c.X1, c.Y1)
		extend(c.X2, c.Y2)
	}
	return minX, minY, maxX, maxY
}
