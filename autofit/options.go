package autofit

import (
	"io"
	"log/slog"
)

// 以下常量来自宿主环境的经验值，保持原样，不要重新推导。
const (
	DefaultMaxIterations = 10
	DefaultTolerance     = 0.5
	DefaultDistanceBias  = 1.0
	DefaultScrollEpsilon = 0.1
	DefaultProbeHeight   = "1px"
)

// Options 配置自适应尺寸计算的收敛参数。
type Options struct {
	MaxIterations int      // 每个方向的最大迭代次数，上限为 DefaultMaxIterations
	Tolerance     float64  // 纵向收敛阈值：|distance| 小于该值即停止
	DistanceBias  *float64 // distance = scrollHeight - clientHeight + DistanceBias；nil 表示默认值
	ScrollEpsilon float64  // 横向基线：targetScrollHeight = scrollHeight + ScrollEpsilon
	ProbeHeight   string   // 探测时写入预览面板的高度样式
	Logger        *slog.Logger
}

// Bias 返回 v 的指针，便于给 Options.DistanceBias 赋值。
func Bias(v float64) *float64 { return &v }

// DefaultOptions 返回与宿主插件一致的默认参数。
func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		DistanceBias:  Bias(DefaultDistanceBias),
		ScrollEpsilon: DefaultScrollEpsilon,
		ProbeHeight:   DefaultProbeHeight,
	}
}

// bias 返回生效的距离偏置。
func (o Options) bias() float64 {
	if o.DistanceBias == nil {
		return DefaultDistanceBias
	}
	return *o.DistanceBias
}

// normalize 用默认值回填零值字段，并把迭代次数限制在 DefaultMaxIterations 以内。
func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.MaxIterations <= 0 || o.MaxIterations > DefaultMaxIterations {
		o.MaxIterations = def.MaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = def.Tolerance
	}
	if o.DistanceBias == nil {
		o.DistanceBias = def.DistanceBias
	}
	if o.ScrollEpsilon <= 0 {
		o.ScrollEpsilon = def.ScrollEpsilon
	}
	if o.ProbeHeight == "" {
		o.ProbeHeight = def.ProbeHeight
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
