package core

import (
	"github.com/go-drift/reflow/pkg/errors"
)

// effectRecord describes the effect stored in one hook slot.
type effectRecord struct {
	fiber *Fiber
	index int
	fn    func() func()
	// deps are the deps of the last run. pending holds the deps of the
	// latest render and is adopted when the effect runs, so an effect
	// dropped by a failed render stays due.
	deps    Deps
	pending Deps
	hasRun  bool
	layout  bool
	queued  bool
}

func registerEffect(f *Fiber, op string, fn func() func(), deps Deps, layout bool) {
	s, isNew := f.nextSlot(op, slotEffect)
	if isNew {
		s.effect = &effectRecord{fiber: f, index: f.hookIndex - 1, layout: layout}
	}
	rec := s.effect
	due := !rec.hasRun || deps == nil || depsChanged(rec.deps, deps)
	rec.fn = fn
	rec.pending = deps
	if due {
		f.root.enqueueEffect(rec)
	}
}

func (r *Root) enqueueEffect(rec *effectRecord) {
	if rec.queued {
		return
	}
	rec.queued = true
	if rec.layout {
		r.layoutQueue = append(r.layoutQueue, rec)
	} else {
		r.effectQueue = append(r.effectQueue, rec)
	}
}

// drainEffects runs queued passive effects in registration order. Effects
// queued while draining, for instance by a synchronous re-render, are run
// by the same loop.
func (r *Root) drainEffects() {
	for len(r.effectQueue) > 0 {
		rec := r.effectQueue[0]
		r.effectQueue = r.effectQueue[1:]
		r.runEffect(rec)
	}
	r.effectQueue = nil
}

func (r *Root) drainLayoutEffects() {
	for len(r.layoutQueue) > 0 {
		rec := r.layoutQueue[0]
		r.layoutQueue = r.layoutQueue[1:]
		r.runEffect(rec)
	}
	r.layoutQueue = nil
}

// runEffect runs the stale cleanup of rec, then its body, and registers the
// returned cleanup. Panics are reported per effect.
func (r *Root) runEffect(rec *effectRecord) {
	rec.queued = false
	f := rec.fiber
	if !f.mounted {
		return
	}
	if cleanup := r.cleanups.take(f.id, rec.index); cleanup != nil {
		r.runCleanup(f.id, cleanup)
	}
	rec.deps = rec.pending
	var next func()
	errors.Guard("core.effect", errors.KindEffect, f.id, func() {
		next = rec.fn()
	})
	rec.hasRun = true
	r.stats.EffectsRun++
	if next != nil {
		r.cleanups.add(f.id, rec.index, next)
	}
}

func (r *Root) runCleanup(id string, cleanup func()) {
	errors.Guard("core.cleanup", errors.KindCleanup, id, cleanup)
	r.stats.CleanupsRun++
}

// scheduleDrain defers the passive effect queue to the next scheduler tick.
func (r *Root) scheduleDrain() {
	if len(r.effectQueue) == 0 || r.drainScheduled {
		return
	}
	r.drainScheduled = true
	r.scheduler.Schedule(func() {
		r.drainScheduled = false
		r.drainEffects()
	})
}
