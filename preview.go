package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPreviewCommand(opts *globalOptions) *cobra.Command {
	var (
		output    string
		debugPath string
	)

	cmd := &cobra.Command{
		Use:   "preview <file.canvas>",
		Short: "按卡片主题把画布渲染为 PDF 或 SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c, err := a.openCanvas(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = a.cfg.Output
			}
			if err := a.renderPreview(c, output, debugPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("已生成预览：")+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "输出路径（.pdf 或 .svg），默认取配置中的 output")
	cmd.Flags().StringVar(&debugPath, "debug", "", "布局调试 JSON 输出路径")
	return cmd
}
