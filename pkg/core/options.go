package core

import (
	"github.com/go-drift/reflow/pkg/config"
)

// DefaultMaxRenderPasses bounds the re-renders a single flush may perform
// when components keep updating state while rendering.
const DefaultMaxRenderPasses = 25

// Options configures a Root.
type Options struct {
	// Scheduler receives deferred work: passive effects and batched
	// re-renders. Nil uses DefaultQueue.
	Scheduler Scheduler
	// SyncUpdates re-renders immediately on every state write made outside
	// a render pass instead of batching writes until the next tick.
	SyncUpdates bool
	// MaxRenderPasses bounds consecutive re-renders caused by state writes
	// during rendering. Zero means DefaultMaxRenderPasses.
	MaxRenderPasses int
}

// Option mutates Options.
type Option func(*Options)

// WithScheduler sets the scheduler.
func WithScheduler(s Scheduler) Option {
	return func(o *Options) { o.Scheduler = s }
}

// WithSyncUpdates switches state writes to synchronous re-rendering.
func WithSyncUpdates(sync bool) Option {
	return func(o *Options) { o.SyncUpdates = sync }
}

// WithMaxRenderPasses sets the re-render bound.
func WithMaxRenderPasses(n int) Option {
	return func(o *Options) { o.MaxRenderPasses = n }
}

// OptionsFromConfig maps a loaded configuration onto root options and
// applies its global debug switch.
func OptionsFromConfig(cfg *config.Config) []Option {
	if cfg == nil {
		return nil
	}
	SetDebugMode(cfg.Runtime.Debug)
	return []Option{
		WithSyncUpdates(cfg.Runtime.SyncUpdates),
		WithMaxRenderPasses(cfg.Runtime.MaxRenderPasses),
	}
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.Scheduler == nil {
		o.Scheduler = DefaultQueue
	}
	if o.MaxRenderPasses <= 0 {
		o.MaxRenderPasses = DefaultMaxRenderPasses
	}
	return o
}
