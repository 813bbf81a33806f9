// Package config 读取 canvasfit.yaml。
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/canvasfit/autofit"
	"github.com/ByLCY/canvasfit/command"
)

// FileName 是默认配置文件名。
const FileName = "canvasfit.yaml"

// Config 是 canvasfit 的全部配置项。
type Config struct {
	Theme    string  `yaml:"theme"`    // 主题文件路径，空表示内置主题
	Output   string  `yaml:"output"`   // 预览输出路径，扩展名决定格式
	LogLevel string  `yaml:"logLevel"` // debug / info / warn / error
	Presets  Presets `yaml:"presets"`
	Autofit  Autofit `yaml:"autofit"`
}

// Presets 覆盖三档空卡片尺寸（px）。
type Presets struct {
	Medium     float64 `yaml:"medium"`
	Small      float64 `yaml:"small"`
	ExtraSmall float64 `yaml:"extraSmall"`
}

// Autofit 覆盖自适应算法的调参常量。
type Autofit struct {
	MaxIterations int      `yaml:"maxIterations"`
	Tolerance     float64  `yaml:"tolerance"`
	DistanceBias  *float64 `yaml:"distanceBias"` // 允许显式写 0
	ScrollEpsilon float64  `yaml:"scrollEpsilon"`
}

// Default 返回默认配置。
func Default() *Config {
	p := command.DefaultPresets()
	opts := autofit.DefaultOptions()
	bias := *opts.DistanceBias
	return &Config{
		Output:   "canvas-preview.pdf",
		LogLevel: "info",
		Presets:  Presets{Medium: p.Medium, Small: p.Small, ExtraSmall: p.ExtraSmall},
		Autofit: Autofit{
			MaxIterations: opts.MaxIterations,
			Tolerance:     opts.Tolerance,
			DistanceBias:  &bias,
			ScrollEpsilon: opts.ScrollEpsilon,
		},
	}
}

// Load 读取 path；文件不存在时返回默认配置。
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("无法打开配置文件 %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("解析配置 %s 失败: %w", path, err)
	}
	return cfg, nil
}

// Parse 在默认配置之上解析 YAML，未知字段视为错误。
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查取值范围。
func (c *Config) Validate() error {
	var errs []error
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	for name, v := range map[string]float64{
		"presets.medium":     c.Presets.Medium,
		"presets.small":      c.Presets.Small,
		"presets.extraSmall": c.Presets.ExtraSmall,
	} {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s 必须大于 0，当前为 %g", name, v))
		}
	}
	if n := c.Autofit.MaxIterations; n < 1 || n > autofit.DefaultMaxIterations {
		errs = append(errs, fmt.Errorf("autofit.maxIterations 必须在 1 到 %d 之间，当前为 %d", autofit.DefaultMaxIterations, n))
	}
	if c.Autofit.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("autofit.tolerance 必须大于 0"))
	}
	if c.Autofit.ScrollEpsilon <= 0 {
		errs = append(errs, fmt.Errorf("autofit.scrollEpsilon 必须大于 0"))
	}
	return errors.Join(errs...)
}

// ParseLevel 把配置中的日志级别转换为 slog.Level。
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("未知日志级别: %q", s)
	}
	return level, nil
}

// CommandPresets 转换为命令使用的预设尺寸。
func (c *Config) CommandPresets() command.Presets {
	return command.Presets{
		Medium:     c.Presets.Medium,
		Small:      c.Presets.Small,
		ExtraSmall: c.Presets.ExtraSmall,
	}
}

// AutofitOptions 转换为自适应参数。
func (c *Config) AutofitOptions(logger *slog.Logger) autofit.Options {
	opts := autofit.DefaultOptions()
	opts.MaxIterations = c.Autofit.MaxIterations
	opts.Tolerance = c.Autofit.Tolerance
	if c.Autofit.DistanceBias != nil {
		opts.DistanceBias = autofit.Bias(*c.Autofit.DistanceBias)
	}
	opts.ScrollEpsilon = c.Autofit.ScrollEpsilon
	opts.Logger = logger
	return opts
}
