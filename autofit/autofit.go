// Package autofit 根据预览面板的滚动/可视高度，把画布卡片缩放到恰好容纳内容的尺寸。
//
// 宿主没有直接的文本测量接口，只能通过 clientHeight/scrollHeight 间接判断
// 内容是否溢出：纵向用有界的不动点迭代扩展高度，横向用二分查找最小宽度。
package autofit

import (
	"math"
)

// Surface 是可测量的预览面板。
type Surface interface {
	IsShown() bool
	ClientHeight() float64
	ScrollHeight() float64
	HeightStyle() string
	SetHeightStyle(value string)
}

// Node 是可缩放的卡片节点。Resize 只修改几何尺寸，测量值要等 Render 之后才有效。
type Node interface {
	Size() (width, height float64)
	Resize(width, height float64)
	Render()
	RequestSave()
	IsTextual() bool
	PreviewSurface() Surface
}

// Axis 选择缩放方向。
type Axis int

const (
	Vertical   Axis = iota // 高度：扩展到恰好容纳内容
	Horizontal             // 宽度：不增加溢出的最小宽度
)

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// Report 记录一次 Fit 的过程，仅用于日志与测试，不代表错误。
type Report struct {
	Axis       Axis
	Skipped    bool // 预览面板不可见，未做任何修改
	Iterations int
	Converged  bool // 纵向：|distance| 落入阈值
	RolledBack bool // 横向：校验失败，宽度回退到 initialWidth
	Saves      int
	Width      float64
	Height     float64
}

// Resizer 执行自适应尺寸计算，自身不持有跨调用的可变状态。
type Resizer struct {
	opts Options
}

// New 创建 Resizer，零值字段使用默认参数。
func New(opts Options) *Resizer {
	return &Resizer{opts: opts.normalize()}
}

var defaultResizer = New(DefaultOptions())

// Fit 使用默认参数对单个节点执行一个方向的自适应。
func Fit(node Node, axis Axis, preset float64) Report {
	return defaultResizer.Fit(node, axis, preset)
}

// FitBoth 先纵向再横向，与预设尺寸命令的顺序一致。
func (r *Resizer) FitBoth(node Node, preset float64) (Report, Report) {
	v := r.Fit(node, Vertical, preset)
	h := r.Fit(node, Horizontal, preset)
	return v, h
}

// Fit 对 node 执行 axis 方向的自适应；空文本节点在该方向回退为 preset 尺寸。
func (r *Resizer) Fit(node Node, axis Axis, preset float64) Report {
	rep := Report{Axis: axis}
	surface := node.PreviewSurface()
	if surface == nil || !surface.IsShown() {
		rep.Skipped = true
		rep.Width, rep.Height = node.Size()
		r.opts.Logger.Debug("autofit skipped: preview hidden", "axis", axis)
		return rep
	}
	preset = clampSize(preset)

	switch axis {
	case Vertical:
		r.fitVertical(node, surface, preset, &rep)
	case Horizontal:
		r.fitHorizontal(node, surface, preset, &rep)
	}
	rep.Width, rep.Height = node.Size()
	r.opts.Logger.Debug("autofit done",
		"axis", axis,
		"iterations", rep.Iterations,
		"converged", rep.Converged,
		"rolledBack", rep.RolledBack,
		"saves", rep.Saves,
		"width", rep.Width,
		"height", rep.Height,
	)
	return rep
}

func (r *Resizer) fitVertical(node Node, surface Surface, preset float64, rep *Report) {
	textual := node.IsTextual()
	for i := 0; i < r.opts.MaxIterations; i++ {
		rep.Iterations++
		clientHeight := surface.ClientHeight()
		scrollHeight := r.probeScrollHeight(surface)
		distance := scrollHeight - clientHeight + r.opts.bias()
		r.opts.Logger.Debug("autofit vertical step",
			"iteration", i,
			"clientHeight", clientHeight,
			"scrollHeight", scrollHeight,
			"distance", distance,
		)
		if math.Abs(distance) < r.opts.Tolerance {
			rep.Converged = true
			return
		}

		width, height := node.Size()
		nextWidth, nextHeight := preset, preset
		if textual {
			nextWidth, nextHeight = width, clampSize(height+distance)
		}
		// 尺寸不再变化时继续迭代只会重复保存
		if nextWidth == width && nextHeight == height {
			return
		}
		node.Resize(nextWidth, nextHeight)
		node.Render()
		node.RequestSave()
		rep.Saves++
	}
}

// probeScrollHeight 临时把高度压到探测值以读出内容的自然高度。
func (r *Resizer) probeScrollHeight(surface Surface) float64 {
	restore := overrideHeight(surface, r.opts.ProbeHeight)
	defer restore()
	return surface.ScrollHeight()
}

func (r *Resizer) fitHorizontal(node Node, surface Surface, preset float64, rep *Report) {
	restore := overrideHeight(surface, r.opts.ProbeHeight)
	defer restore()

	textual := node.IsTextual()
	target := surface.ScrollHeight() + r.opts.ScrollEpsilon
	initialWidth, _ := node.Size()
	lo, hi := 0.0, clampSize(initialWidth)

	for i := 0; i < r.opts.MaxIterations; i++ {
		rep.Iterations++
		mid := math.Round((lo + hi) / 2)
		_, height := node.Size()
		node.Resize(mid, height)
		node.Render()

		scrollHeight := surface.ScrollHeight()
		if scrollHeight > target {
			lo = mid
		} else {
			hi = mid
		}
		r.opts.Logger.Debug("autofit horizontal step",
			"iteration", i,
			"width", mid,
			"scrollHeight", scrollHeight,
			"target", target,
		)
		if hi-lo < 1 {
			break
		}
	}

	_, height := node.Size()
	if textual {
		node.Resize(hi, height)
	} else {
		node.Resize(preset, preset)
	}
	node.Render()

	if surface.ScrollHeight() > target {
		_, height = node.Size()
		node.Resize(initialWidth, height)
		node.Render()
		rep.RolledBack = true
		return
	}
	node.RequestSave()
	rep.Saves++
}

// ReduceWidth 把节点宽度减少 1，宽度不会低于 0。
func ReduceWidth(node Node) {
	width, height := node.Size()
	node.Resize(clampSize(width-1), height)
	node.Render()
	node.RequestSave()
}

// overrideHeight 写入临时高度样式，返回的 restore 恢复调用前的值。
// 调用方必须 defer restore()，保证 panic 时也能还原。
func overrideHeight(surface Surface, value string) (restore func()) {
	original := surface.HeightStyle()
	surface.SetHeightStyle(value)
	return func() {
		surface.SetHeightStyle(original)
	}
}

func clampSize(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
