package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCommand(opts *globalOptions) *cobra.Command {
	var (
		nodes  []string
		all    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run <command-id> <file.canvas>",
		Short: "对选中的卡片执行缩放命令并保存画布",
		Example: `  canvasfit run canvas-node-resize-small board.canvas --node 6f0ad84f --node 8a1c2e77
  canvasfit run canvas-node-resize-reduce-width board.canvas --all`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, path := args[0], args[1]

			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c, err := a.openCanvas(path)
			if err != nil {
				return err
			}
			if all {
				c.SelectAll()
			} else if err := c.Select(nodes...); err != nil {
				return err
			}

			type size struct{ w, h float64 }
			before := map[string]size{}
			for _, n := range c.Nodes {
				before[n.ID] = size{n.Width, n.Height}
			}

			_, pal := a.plugin(fileWorkspace{canvas: c})
			ok, err := pal.Execute(id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("命令 %s 当前不可用", id)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(id))
			for _, n := range c.Nodes {
				b := before[n.ID]
				if b.w == n.Width && b.h == n.Height {
					continue
				}
				fmt.Fprintf(out, "  %s  %gx%g → %gx%g\n", idStyle.Render(n.ID), b.w, b.h, n.Width, n.Height)
			}

			if dryRun {
				fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("dry run: %d save request(s) discarded", c.SaveRequests())))
				return nil
			}
			wrote, err := c.Flush()
			if err != nil {
				return err
			}
			if wrote {
				fmt.Fprintln(out, successStyle.Render("saved ")+path)
			} else {
				fmt.Fprintln(out, mutedStyle.Render("nothing to save"))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&nodes, "node", "n", nil, "要选中的节点 id，可重复")
	cmd.Flags().BoolVar(&all, "all", false, "选中画布上的全部节点")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "只计算尺寸，不写回文件")
	return cmd
}
