package core

import (
	"context"
	"fmt"
	"hash/fnv"
	"reflect"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// UseReducer manages state through a reducer. The returned dispatch
// function keeps its identity across renders and always applies the
// reducer of the latest render.
func UseReducer[S, A any](ctx *BuildContext, reducer func(S, A) S, initial S) (S, func(A)) {
	state, set := UseState(ctx, initial)
	latest := UseRef(ctx, reducer)
	latest.Current = reducer
	dispatch := UseMemo(ctx, func() func(A) {
		return func(action A) {
			set.Update(func(s S) S { return latest.Current(s, action) })
		}
	}, Deps{})
	return state, dispatch
}

// UseToggle returns a boolean state and a function that flips it.
func UseToggle(ctx *BuildContext, initial bool) (bool, func()) {
	on, set := UseState(ctx, initial)
	toggle := UseMemo(ctx, func() func() {
		return func() { set.Update(func(b bool) bool { return !b }) }
	}, Deps{})
	return on, toggle
}

// ArrayOps mutates a slice held in state. Every operation stores a new
// slice, so the value changes identity whenever its contents change.
type ArrayOps[T any] struct {
	set Setter[[]T]
}

// Push appends items.
func (a ArrayOps[T]) Push(items ...T) {
	a.set.Update(func(cur []T) []T {
		return append(slices.Clip(cur), items...)
	})
}

// Insert places item at index i, clamped to the slice bounds.
func (a ArrayOps[T]) Insert(i int, item T) {
	a.set.Update(func(cur []T) []T {
		i = min(max(i, 0), len(cur))
		return slices.Insert(slices.Clone(cur), i, item)
	})
}

// RemoveAt deletes the item at index i. Out-of-range indices are ignored.
func (a ArrayOps[T]) RemoveAt(i int) {
	a.set.Update(func(cur []T) []T {
		if i < 0 || i >= len(cur) {
			return cur
		}
		return slices.Delete(slices.Clone(cur), i, i+1)
	})
}

// SetAt replaces the item at index i. Out-of-range indices are ignored.
func (a ArrayOps[T]) SetAt(i int, item T) {
	a.set.Update(func(cur []T) []T {
		if i < 0 || i >= len(cur) {
			return cur
		}
		next := slices.Clone(cur)
		next[i] = item
		return next
	})
}

// Filter keeps the items for which keep returns true.
func (a ArrayOps[T]) Filter(keep func(T) bool) {
	a.set.Update(func(cur []T) []T {
		next := make([]T, 0, len(cur))
		for _, it := range cur {
			if keep(it) {
				next = append(next, it)
			}
		}
		return next
	})
}

// Replace stores items as the new value.
func (a ArrayOps[T]) Replace(items []T) {
	a.set.Set(items)
}

// Clear empties the slice.
func (a ArrayOps[T]) Clear() {
	a.set.Set(nil)
}

// Len returns the length of the live value.
func (a ArrayOps[T]) Len() int {
	return len(a.set.Get())
}

// UseArray holds a slice in state and returns operations on it.
func UseArray[T any](ctx *BuildContext, initial []T) ([]T, ArrayOps[T]) {
	items, set := UseState(ctx, initial)
	return items, ArrayOps[T]{set: set}
}

// FetchResult is the state of a UseFetch call.
type FetchResult[T any] struct {
	Data    T
	Err     error
	Loading bool
}

var (
	fetchGroup singleflight.Group

	fetchMu    sync.Mutex
	fetchCalls = make(map[string]*sharedFetch)
)

// sharedFetch is the context of one collapsed fetch. It outlives the
// component that started the call and is canceled when its last waiter
// leaves.
type sharedFetch struct {
	key     string
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func joinFetch(key string) *sharedFetch {
	fetchMu.Lock()
	defer fetchMu.Unlock()
	call := fetchCalls[key]
	if call == nil {
		ctx, cancel := context.WithCancel(context.Background())
		call = &sharedFetch{key: key, ctx: ctx, cancel: cancel}
		fetchCalls[key] = call
	}
	call.waiters++
	return call
}

// leave drops a waiter. The last one cancels the call and forgets it, so a
// later fetch of the key starts afresh instead of joining a canceled call.
func (c *sharedFetch) leave() {
	fetchMu.Lock()
	defer fetchMu.Unlock()
	c.waiters--
	if c.waiters > 0 {
		return
	}
	c.cancel()
	if fetchCalls[c.key] == c {
		delete(fetchCalls, c.key)
		fetchGroup.Forget(c.key)
	}
}

// fetchKey scopes key by result type so fetches of different types never
// share a call.
func fetchKey[T any](key string) string {
	return reflect.TypeOf((*T)(nil)).Elem().String() + "\x00" + key
}

// UseFetch runs fetch in the background whenever key changes and returns
// its latest result. Concurrent fetches that share a key and result type
// are collapsed into one call, which keeps running while any component
// waits for it. The result is delivered through the root's scheduler; it
// is dropped when the component unmounted or key changed in the meantime.
// An empty key fetches nothing.
func UseFetch[T any](ctx *BuildContext, key string, fetch func(context.Context) (T, error)) FetchResult[T] {
	result, set := UseState(ctx, FetchResult[T]{Loading: key != ""})
	latest := UseRef(ctx, fetch)
	latest.Current = fetch
	f := ctx.fiber

	UseEffect(ctx, func() func() {
		if key == "" {
			return nil
		}
		if cur := set.Get(); !cur.Loading || cur.Err != nil {
			set.Set(FetchResult[T]{Data: cur.Data, Loading: true})
		}
		waitCtx, cancel := context.WithCancel(context.Background())
		do := latest.Current
		go func() {
			sfKey := fetchKey[T](key)
			call := joinFetch(sfKey)
			defer call.leave()
			ch := fetchGroup.DoChan(sfKey, func() (any, error) {
				return do(call.ctx)
			})
			select {
			case res := <-ch:
				f.root.Dispatch(func() {
					if waitCtx.Err() != nil {
						return
					}
					data, ok := res.Val.(T)
					err := res.Err
					if !ok && err == nil && res.Val != nil {
						err = fmt.Errorf("fetch %q: got %T, want %s", key, res.Val, reflect.TypeOf((*T)(nil)).Elem())
					}
					set.Set(FetchResult[T]{Data: data, Err: err})
				})
			case <-waitCtx.Done():
			}
		}()
		return cancel
	}, Deps{key})

	return result
}

// UseID returns an identifier that is unique within the root and stable
// for the lifetime of the component, suitable for element ids.
func UseID(ctx *BuildContext) string {
	f := ctx.use("core.UseID")
	s, isNew := f.nextSlot("core.UseID", slotRef)
	if isNew {
		h := fnv.New64a()
		h.Write([]byte(f.id))
		s.value = "r" + strconv.FormatUint(h.Sum64(), 36) + "-" + strconv.Itoa(f.hookIndex-1)
	}
	id, _ := s.value.(string)
	return id
}
