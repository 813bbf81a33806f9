package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCommandsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "commands [file.canvas]",
		Short: "列出卡片缩放命令及其是否可用",
		Long: `列出全部卡片缩放命令。指定画布文件时，该画布作为活动视图，
命令才会显示为可用。`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			var ws fileWorkspace
			if len(args) == 1 {
				if ws.canvas, err = a.openCanvas(args[0]); err != nil {
					return err
				}
			}
			_, pal := a.plugin(ws)

			available := map[string]bool{}
			for _, c := range pal.Available() {
				available[c.ID] = true
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Commands"))
			for _, c := range pal.Commands() {
				state := mutedStyle.Render("unavailable")
				if available[c.ID] {
					state = successStyle.Render("available")
				}
				fmt.Fprintf(out, "  %s  %s  %s\n", idStyle.Render(c.ID), c.Name, state)
			}
			return nil
		},
	}
}
