package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/reflow/pkg/core"
	"github.com/go-drift/reflow/pkg/markup"
)

func newDiffCmd() *cobra.Command {
	var showHTML bool
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Print the mutations that turn one tree into another",
		Long: `Render OLD, then NEW into the same root and print the mutations the
reconciler committed for the second render.`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.ErrOrStderr())
			if err != nil {
				return err
			}
			oldTree, err := loadTree(args[0])
			if err != nil {
				return err
			}
			newTree, err := loadTree(args[1])
			if err != nil {
				return err
			}

			queue := core.NewTaskQueue()
			root := newRoot(cfg, queue)
			defer root.Unmount()
			if err := root.Render(oldTree); err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			queue.Drain()
			if err := root.Render(newTree); err != nil {
				return fmt.Errorf("render %s: %w", args[1], err)
			}
			out := c.OutOrStdout()
			writeMutations(out, root.LastMutations())
			queue.Drain()

			if showHTML {
				html, err := markup.HostString(root.Container())
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, html)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showHTML, "html", false, "also print the markup after the second render")
	return cmd
}
