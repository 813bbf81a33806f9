package board

import (
	"github.com/ByLCY/canvasfit/autofit"
	"github.com/ByLCY/canvasfit/layout"
)

// PreviewFactory 为文本节点创建预览面板；返回 nil 表示该节点没有预览。
type PreviewFactory func(n *Node) *layout.Preview

// ThemePreviews 用主题卡片样式与排版器为文本节点创建预览面板。
func ThemePreviews(theme *layout.Theme, ts layout.Typesetter) PreviewFactory {
	if theme == nil {
		theme = layout.DefaultTheme()
	}
	return func(n *Node) *layout.Preview {
		return layout.NewPreview(ts, theme.Card, n.Text)
	}
}

// Mount 给每个文本节点挂载预览面板并渲染一次。
// 非文本节点不挂载，自适应对它们是空操作。
func (c *Canvas) Mount(factory PreviewFactory) {
	for _, n := range c.Nodes {
		n.preview = nil
		if n.Type != TypeText || factory == nil {
			continue
		}
		n.preview = factory(n)
		n.Render()
	}
}

var _ autofit.Node = (*Node)(nil)

func (n *Node) Size() (width, height float64) { return n.Width, n.Height }

// Resize 只修改几何尺寸，预览要等 Render 后才会更新。
func (n *Node) Resize(width, height float64) {
	n.Width, n.Height = width, height
}

// Render 按当前尺寸重新排版预览。排版失败时预览隐藏并记录日志。
func (n *Node) Render() {
	if n.preview == nil {
		return
	}
	if err := n.preview.Reflow(n.Width, n.Height); err != nil && n.canvas != nil {
		n.canvas.Logger().Warn("render node failed", "node", n.ID, "err", err)
	}
}

func (n *Node) RequestSave() {
	if n.canvas != nil {
		n.canvas.RequestSave()
	}
}

// IsTextual 判断节点文本是否非空。
func (n *Node) IsTextual() bool { return len(n.Text) > 0 }

func (n *Node) PreviewSurface() autofit.Surface {
	if n.preview == nil {
		return nil
	}
	return n.preview
}

// Preview 返回挂载的预览面板，未挂载时为 nil。
func (n *Node) Preview() *layout.Preview { return n.preview }
