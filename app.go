package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/canvasfit/autofit"
	"github.com/ByLCY/canvasfit/board"
	"github.com/ByLCY/canvasfit/command"
	"github.com/ByLCY/canvasfit/config"
	"github.com/ByLCY/canvasfit/layout"
	"github.com/ByLCY/canvasfit/renderer"
	canvasrenderer "github.com/ByLCY/canvasfit/renderer/canvas"
)

// app 串联配置、主题、排版器与渲染器。
type app struct {
	cfg       *config.Config
	themePath string
	theme     *layout.Theme
	logger    *slog.Logger

	renderer   renderer.Renderer
	typesetter layout.Typesetter
}

func newApp(opts *globalOptions, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	a := &app{cfg: cfg, logger: logger}
	switch {
	case opts.theme != "":
		a.themePath = opts.theme
	case cfg.Theme != "" && !filepath.IsAbs(cfg.Theme):
		// 配置中的相对路径相对于配置文件所在目录
		a.themePath = filepath.Join(filepath.Dir(opts.configPath), cfg.Theme)
	default:
		a.themePath = cfg.Theme
	}
	if err := a.loadTheme(); err != nil {
		return nil, err
	}

	var r renderer.Renderer = canvasrenderer.NewRenderer(a.theme.Dir)
	ts, ok := r.(layout.Typesetter)
	if !ok {
		return nil, fmt.Errorf("renderer 未实现排版接口")
	}
	a.renderer, a.typesetter = r, ts
	return a, nil
}

// loadTheme 读取主题文件；未配置时使用内置主题。
func (a *app) loadTheme() error {
	if a.themePath == "" {
		a.theme = layout.DefaultTheme()
		return nil
	}
	theme, err := layout.LoadThemeFile(a.themePath)
	if err != nil {
		return err
	}
	a.theme = theme
	a.logger.Debug("theme loaded", "theme", theme.Name, "path", a.themePath)
	return nil
}

// openCanvas 读取画布并给文本卡片挂载预览。
func (a *app) openCanvas(path string) (*board.Canvas, error) {
	c, err := board.Load(path)
	if err != nil {
		return nil, err
	}
	c.SetLogger(a.logger)
	c.Mount(board.ThemePreviews(a.theme, a.typesetter))
	return c, nil
}

// plugin 按配置创建命令插件并登记到新的命令面板。
func (a *app) plugin(ws command.Workspace) (*command.Plugin, *command.Palette) {
	p := command.NewPlugin(
		command.WithPresets(a.cfg.CommandPresets()),
		command.WithResizer(autofit.New(a.cfg.AutofitOptions(a.logger))),
		command.WithLogger(a.logger),
	)
	pal := command.NewPalette()
	p.Load(pal, ws)
	return p, pal
}

// renderPreview 把画布排成预览页并写入 output，格式由扩展名决定。
func (a *app) renderPreview(c *board.Canvas, output, debugPath string) error {
	name := strings.TrimSuffix(filepath.Base(c.Path()), filepath.Ext(c.Path()))
	result := c.Compose(a.theme, layout.ComposeOptions{
		Data: map[string]any{
			"canvas": map[string]any{"name": name, "nodes": len(c.Nodes)},
		},
	})

	if debugPath != "" {
		if err := layout.WriteDebugJSON(result, debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	if err := a.renderer.RenderFile(result, f, filepath.Ext(output)); err != nil {
		f.Close()
		os.Remove(output)
		return fmt.Errorf("渲染预览失败: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("写入预览文件失败: %w", err)
	}
	a.logger.Info("preview rendered", "output", output)
	return nil
}

// fileWorkspace 把单个画布文件当作宿主的活动视图。
type fileWorkspace struct {
	canvas *board.Canvas
}

func (w fileWorkspace) ActiveCanvas() (command.Canvas, bool) {
	if w.canvas == nil {
		return nil, false
	}
	return w.canvas, true
}
