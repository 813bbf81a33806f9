package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/canvasfit/config"
)

var version = "0.1.0"

// globalOptions 是所有子命令共享的参数，命令行优先于配置文件。
type globalOptions struct {
	configPath string
	theme      string
	logLevel   string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("错误: ")+err.Error())
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "canvasfit",
		Short: "把 JSON Canvas 中的文本卡片缩放到恰好容纳内容",
		Long: `canvasfit 读取 .canvas 文件，按卡片主题排版文本，
并通过预设尺寸命令让卡片的宽高贴合渲染后的内容。`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", config.FileName, "配置文件路径")
	flags.StringVar(&opts.theme, "theme", "", "卡片主题文件，覆盖配置中的 theme")
	flags.StringVar(&opts.logLevel, "log-level", "", "日志级别：debug/info/warn/error")

	root.AddCommand(newCommandsCommand(opts))
	root.AddCommand(newRunCommand(opts))
	root.AddCommand(newPreviewCommand(opts))
	root.AddCommand(newWatchCommand(opts))
	return root
}
