package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 100 * time.Millisecond

func newWatchCommand(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch <file.canvas>",
		Short: "画布或主题变化时重新生成预览",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if output == "" {
				output = a.cfg.Output
			}
			canvasPath, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			themePath := ""
			if a.themePath != "" {
				if themePath, err = filepath.Abs(a.themePath); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			rebuild := func(themeChanged bool) {
				if themeChanged {
					if err := a.loadTheme(); err != nil {
						a.logger.Error("reload theme failed", "err", err)
						return
					}
				}
				c, err := a.openCanvas(canvasPath)
				if err != nil {
					a.logger.Error("reload canvas failed", "err", err)
					return
				}
				if err := a.renderPreview(c, output, ""); err != nil {
					a.logger.Error("render preview failed", "err", err)
					return
				}
				fmt.Fprintln(out, successStyle.Render("已更新预览：")+output)
			}
			rebuild(false)

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("创建文件监听失败: %w", err)
			}
			defer watcher.Close()

			// 编辑器常以替换文件的方式保存，因此监听所在目录
			dirs := map[string]bool{filepath.Dir(canvasPath): true}
			if themePath != "" {
				dirs[filepath.Dir(themePath)] = true
			}
			for dir := range dirs {
				if err := watcher.Add(dir); err != nil {
					return fmt.Errorf("监听目录 %s 失败: %w", dir, err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(out, mutedStyle.Render("watching "+canvasPath))
			relevant := func(name string) bool {
				name = filepath.Clean(name)
				return name == canvasPath || (themePath != "" && name == themePath)
			}
			debounceEvents(ctx, watcher.Events, watcher.Errors, watchDebounce, relevant, func(events []fsnotify.Event) {
				themeChanged := false
				for _, ev := range events {
					if themePath != "" && filepath.Clean(ev.Name) == themePath {
						themeChanged = true
					}
				}
				rebuild(themeChanged)
			}, func(err error) {
				a.logger.Warn("watcher error", "err", err)
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "输出路径（.pdf 或 .svg），默认取配置中的 output")
	return cmd
}

// debounceEvents 合并 delay 时间内的相关事件后统一交给 handle，直到 ctx 结束或通道关闭。
func debounceEvents(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	delay time.Duration,
	relevant func(name string) bool,
	handle func([]fsnotify.Event),
	onError func(error),
) {
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	var pending []fsnotify.Event
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !relevant(ev.Name) {
				continue
			}
			pending = append(pending, ev)
			debounce.Reset(delay)
		case err, ok := <-errs:
			if !ok {
				return
			}
			if onError != nil {
				onError(err)
			}
		case <-debounce.C:
			if len(pending) > 0 {
				batch := pending
				pending = nil
				handle(batch)
			}
		}
	}
}
