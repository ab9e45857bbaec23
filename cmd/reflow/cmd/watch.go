package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/go-drift/reflow/pkg/config"
	"github.com/go-drift/reflow/pkg/core"
	"github.com/go-drift/reflow/pkg/markup"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-render a tree file whenever it changes",
		Long: `Render FILE and keep the root alive. Every time the file is written the
new tree is reconciled against the previous one and the committed
mutations are printed, followed by the markup. Component state survives
edits that keep a component's position and key.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt)
			defer stop()
			return watch(ctx, cfg, args[0], c.OutOrStdout(), c.ErrOrStderr(), nil)
		},
	}
}

// watch renders path and re-renders it on every write until ctx is done.
// ready, when non-nil, is called once the watcher is installed.
func watch(ctx context.Context, cfg *config.Config, path string, out, errOut io.Writer, ready func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()
	// Editors often replace files instead of writing them, so the directory
	// is watched and events are filtered by name.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	queue := core.NewTaskQueue()
	root := newRoot(cfg, queue)
	defer root.Unmount()

	w := &watchSession{root: root, queue: queue, out: out, errOut: errOut}
	w.reload(abs)
	if ready != nil {
		ready()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			w.reload(abs)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "watch: %v\n", err)
		}
	}
}

type watchSession struct {
	root    *core.Root
	queue   *core.TaskQueue
	out     io.Writer
	errOut  io.Writer
	renders int
}

// reload renders the current file content. Failures are reported and the
// previous tree stays mounted.
func (w *watchSession) reload(path string) {
	tree, err := loadTree(path)
	if err != nil {
		fmt.Fprintf(w.errOut, "reload: %v\n", err)
		return
	}
	if err := w.root.Render(tree); err != nil {
		fmt.Fprintf(w.errOut, "render: %v\n", err)
		return
	}
	muts := w.root.LastMutations()
	w.queue.Drain()
	w.renders++

	fmt.Fprintf(w.out, "== render %d\n", w.renders)
	if w.renders > 1 {
		writeMutations(w.out, muts)
	}
	html, err := markup.HostString(w.root.Container())
	if err != nil {
		fmt.Fprintf(w.errOut, "markup: %v\n", err)
		return
	}
	fmt.Fprintln(w.out, html)
}
