package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/reflow/pkg/config"
	"github.com/go-drift/reflow/pkg/core"
	"github.com/go-drift/reflow/pkg/markup"
	"github.com/go-drift/reflow/pkg/treefile"
)

func newRenderCmd() *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a tree file to HTML",
		Long: `Render a tree file through a live root and print the resulting markup.

Effects run before the markup is captured, so state they set is visible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.ErrOrStderr())
			if err != nil {
				return err
			}
			tree, err := loadTree(args[0])
			if err != nil {
				return err
			}
			html, err := renderTree(cfg, tree)
			if err != nil {
				return err
			}
			if pretty {
				html = markup.Pretty(html)
			}
			fmt.Fprintln(c.OutOrStdout(), html)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "indent the markup")
	return cmd
}

func loadTree(path string) (core.Node, error) {
	specs, err := treefile.Load(path)
	if err != nil {
		return core.Node{}, err
	}
	tree, err := treefile.Build(specs, components)
	if err != nil {
		return core.Node{}, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// renderTree mounts tree, settles its effects and returns the markup.
func renderTree(cfg *config.Config, tree core.Node) (string, error) {
	queue := core.NewTaskQueue()
	root := newRoot(cfg, queue)
	defer root.Unmount()
	if err := root.Render(tree); err != nil {
		return "", err
	}
	queue.Drain()
	return markup.HostString(root.Container())
}
