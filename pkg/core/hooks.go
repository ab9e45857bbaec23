package core

// Setter updates a state slot. The zero Setter is inert.
//
// Set and Update write the slot immediately, so consecutive updates build
// on each other, and then request a re-render from the root.
type Setter[T any] struct {
	fiber *Fiber
	slot  *slot
}

// Get returns the current value of the slot, including writes made since
// the last render.
func (s Setter[T]) Get() T {
	if s.slot == nil {
		var zero T
		return zero
	}
	v, _ := s.slot.value.(T)
	return v
}

// Set replaces the value.
func (s Setter[T]) Set(value T) {
	s.Update(func(T) T { return value })
}

// Update applies transform to the current value. Calls after the component
// unmounted are ignored.
func (s Setter[T]) Update(transform func(T) T) {
	if s.fiber == nil || !s.fiber.mounted {
		return
	}
	s.slot.value = transform(s.Get())
	s.fiber.root.markDirty(s.fiber)
}

// UseState returns the current value of a state slot and its setter. The
// slot is initialized with initial on the component's first render.
//
//	func Counter(ctx *core.BuildContext, props core.Props) core.Node {
//	    count, setCount := core.UseState(ctx, 0)
//	    return core.H("button", core.Props{
//	        "onClick": func() { setCount.Update(func(n int) int { return n + 1 }) },
//	    }, count)
//	}
func UseState[T any](ctx *BuildContext, initial T) (T, Setter[T]) {
	f := ctx.use("core.UseState")
	s, isNew := f.nextSlot("core.UseState", slotState)
	if isNew {
		s.value = initial
	}
	setter := Setter[T]{fiber: f, slot: s}
	return setter.Get(), setter
}

// Ref is a mutable cell whose identity is stable for the lifetime of the
// component.
type Ref[T any] struct {
	Current T
}

// UseRef returns the component's Ref for this call site, created with
// initial on the first render.
func UseRef[T any](ctx *BuildContext, initial T) *Ref[T] {
	f := ctx.use("core.UseRef")
	s, isNew := f.nextSlot("core.UseRef", slotRef)
	if isNew {
		s.value = &Ref[T]{Current: initial}
	}
	ref, _ := s.value.(*Ref[T])
	return ref
}

// UseMemo returns the value computed by factory, recomputing it only when
// deps differ from the previous render's deps element by element. A nil
// deps computes the value once.
func UseMemo[T any](ctx *BuildContext, factory func() T, deps Deps) T {
	f := ctx.use("core.UseMemo")
	s, isNew := f.nextSlot("core.UseMemo", slotMemo)
	if isNew || (deps != nil && depsChanged(s.deps, deps)) {
		s.value = factory()
		s.deps = deps
	}
	v, _ := s.value.(T)
	return v
}

// UseCallback returns fn as it was on the last render whose deps differed,
// so the result keeps its identity while deps are unchanged.
func UseCallback[F any](ctx *BuildContext, fn F, deps Deps) F {
	ctx.use("core.UseCallback")
	return UseMemo(ctx, func() F { return fn }, deps)
}

// UseEffect registers fn to run after the render pass has been committed.
// It runs after the first render, after every render when deps is nil, and
// otherwise only when deps changed. A non-nil return value is the cleanup,
// run before the next run of the effect and when the component unmounts.
func UseEffect(ctx *BuildContext, fn func() func(), deps Deps) {
	f := ctx.use("core.UseEffect")
	registerEffect(f, "core.UseEffect", fn, deps, false)
}

// UseLayoutEffect is UseEffect drained synchronously at the end of the
// commit, before control returns to the caller of Render.
func UseLayoutEffect(ctx *BuildContext, fn func() func(), deps Deps) {
	f := ctx.use("core.UseLayoutEffect")
	registerEffect(f, "core.UseLayoutEffect", fn, deps, true)
}
