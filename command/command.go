// Package command 注册按预设尺寸缩放画布卡片的命令。
package command

import (
	"log/slog"

	"github.com/ByLCY/canvasfit/autofit"
)

// 预设尺寸（px），用于空文本卡片。
const (
	MediumSize     = 32
	SmallSize      = 17
	ExtraSmallSize = 3
)

// 命令 id。
const (
	ResizeMedium     = "canvas-node-resize-medium"
	ResizeSmall      = "canvas-node-resize-small"
	ResizeExtraSmall = "canvas-node-resize-extra-small"
	ReduceWidth      = "canvas-node-resize-reduce-width"
)

// Command 是暴露给宿主命令面板的一条命令。
// CheckCallback(true) 只判断命令是否可用；CheckCallback(false) 执行命令，返回值同样表示可用性。
type Command struct {
	ID            string
	Name          string
	CheckCallback func(checking bool) bool
}

// Registry 由宿主提供，用于登记命令。
type Registry interface {
	AddCommand(cmd Command)
}

// Workspace 提供当前活动的画布视图。
type Workspace interface {
	ActiveCanvas() (Canvas, bool)
}

// Canvas 是带选择集的画布视图。
type Canvas interface {
	Selection() []autofit.Node
}

// Presets 是三档空卡片尺寸。
type Presets struct {
	Medium     float64
	Small      float64
	ExtraSmall float64
}

// DefaultPresets 返回内置的预设尺寸。
func DefaultPresets() Presets {
	return Presets{Medium: MediumSize, Small: SmallSize, ExtraSmall: ExtraSmallSize}
}

// Action 作用于单个选中节点。
type Action func(node autofit.Node)

// Spec 是命令表中的一项。
type Spec struct {
	ID     string
	Name   string
	Preset float64
	Action Action
}

// Plugin 持有命令表；Load 之前不登记任何命令。
type Plugin struct {
	resizer *autofit.Resizer
	presets Presets
	logger  *slog.Logger

	ws     Workspace
	loaded []string
}

// Option 配置 Plugin。
type Option func(*Plugin)

// WithPresets 覆盖预设尺寸；id 与名称保持不变。
func WithPresets(p Presets) Option {
	return func(pl *Plugin) { pl.presets = p }
}

// WithResizer 使用自定义参数的 Resizer。
func WithResizer(r *autofit.Resizer) Option {
	return func(pl *Plugin) { pl.resizer = r }
}

// WithLogger 指定日志。
func WithLogger(l *slog.Logger) Option {
	return func(pl *Plugin) { pl.logger = l }
}

// NewPlugin 创建插件实例。
func NewPlugin(opts ...Option) *Plugin {
	p := &Plugin{
		resizer: autofit.New(autofit.DefaultOptions()),
		presets: DefaultPresets(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Specs 返回固定的命令表。
func (p *Plugin) Specs() []Spec {
	fit := func(size float64) Action {
		return func(node autofit.Node) { p.resizer.FitBoth(node, size) }
	}
	return []Spec{
		{ID: ResizeMedium, Name: "Canvas node resize (medium)", Preset: p.presets.Medium, Action: fit(p.presets.Medium)},
		{ID: ResizeSmall, Name: "Canvas node resize (small)", Preset: p.presets.Small, Action: fit(p.presets.Small)},
		{ID: ResizeExtraSmall, Name: "Canvas node resize (extra-small)", Preset: p.presets.ExtraSmall, Action: fit(p.presets.ExtraSmall)},
		{ID: ReduceWidth, Name: "Canvas node resize (reduce width)", Action: autofit.ReduceWidth},
	}
}

// Load 把命令表登记到 reg。
func (p *Plugin) Load(reg Registry, ws Workspace) {
	p.ws = ws
	p.loaded = p.loaded[:0]
	for _, spec := range p.Specs() {
		reg.AddCommand(Command{
			ID:            spec.ID,
			Name:          spec.Name,
			CheckCallback: p.checkCallback(spec),
		})
		p.loaded = append(p.loaded, spec.ID)
	}
	p.logger.Debug("commands loaded", "count", len(p.loaded))
}

// Unload 断开与工作区的关联，已登记命令之后总是不可用。
func (p *Plugin) Unload() {
	p.ws = nil
	p.loaded = nil
}

// Loaded 返回已登记的命令 id。
func (p *Plugin) Loaded() []string { return p.loaded }

func (p *Plugin) checkCallback(spec Spec) func(bool) bool {
	return func(checking bool) bool {
		if p.ws == nil {
			return false
		}
		canvas, ok := p.ws.ActiveCanvas()
		if !ok || canvas == nil {
			return false
		}
		if !checking {
			nodes := canvas.Selection()
			if len(nodes) == 0 {
				return true
			}
			for _, node := range nodes {
				spec.Action(node)
			}
			p.logger.Info("command executed", "command", spec.ID, "nodes", len(nodes))
		}
		return true
	}
}
