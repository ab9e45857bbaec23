// Package cmd implements the reflow CLI commands.
//
// The root command carries the global --config flag; subcommands render
// tree files (render), print the mutations between two trees (diff), keep a
// tree live while its file changes (watch) and run an interactive terminal
// host (demo).
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/reflow/pkg/config"
	"github.com/go-drift/reflow/pkg/core"
	"github.com/go-drift/reflow/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var configFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reflow",
		Short: "Render and inspect reflow element trees",
		Long: `Reflow renders element trees described in YAML through the component
runtime and shows what the reconciler does with them.

Tree files hold a single element or a list of elements:

  tag: ul
  children:
    - tag: li
      key: a
      text: first
    - component: Counter
      props: {start: 3}`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to "+config.FileName+" (default: search upward from the working directory)")
	return cmd
}

func init() {
	rootCmd.AddCommand(newRenderCmd(), newDiffCmd(), newWatchCmd(), newDemoCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration selected by --config, falling back to
// the nearest reflow.yaml, and installs its error handler writing to
// stderr.
func loadConfig(stderr io.Writer) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configFlag != "" {
		cfg, err = config.Load(configFlag)
	} else {
		cfg, err = discoverConfig()
	}
	if err != nil {
		return nil, err
	}
	errors.SetHandler(&errors.LogHandler{Verbose: cfg.Runtime.VerboseErrors, Out: stderr})
	return cfg, nil
}

func discoverConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Default(), nil
	}
	root, err := config.FindRoot(wd)
	if err != nil {
		return config.Default(), nil
	}
	return config.LoadOptional(root)
}

// newRoot creates a root driven by queue with the configured options.
func newRoot(cfg *config.Config, queue *core.TaskQueue) *core.Root {
	opts := append([]core.Option{core.WithScheduler(queue)}, core.OptionsFromConfig(cfg)...)
	return core.NewRoot(newContainer(cfg), opts...)
}
