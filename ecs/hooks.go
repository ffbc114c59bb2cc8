package ecs

import (
	"fmt"
	"reflect"
	"slices"
)

// Hooks is implemented by values that can host hook calls: a *HooksContext
// directly, or a *World while one of its systems is running.
type Hooks interface {
	hooksContext() *HooksContext
}

type hookKind uint8

const (
	hookState hookKind = iota + 1
	hookRef
	hookEffect
)

func (k hookKind) String() string {
	switch k {
	case hookState:
		return "UseState"
	case hookRef:
		return "UseRef"
	case hookEffect:
		return "UseEffect"
	default:
		return "unknown"
	}
}

type slot struct {
	kind  hookKind
	value any
}

type pendingCleanup struct {
	fn func()
}

type effectDeps struct {
	values []any
}

// HooksContext is the persistent state of one system. Slots are addressed by the
// order of hook calls within an invocation, two slots per call, so a system must
// make the same hook calls in the same order every time it runs. Reset rewinds
// the cursor before each invocation without clearing slot contents.
type HooksContext struct {
	slots   []slot
	cleanup []*pendingCleanup
	cursor  int

	invoked bool
	sealed  bool
	retired bool

	deferred *TaskQueue
}

// NewHooksContext creates a context with its own deferred task queue.
func NewHooksContext() *HooksContext {
	return newHooksContext(NewTaskQueue())
}

func newHooksContext(deferred *TaskQueue) *HooksContext {
	return &HooksContext{deferred: deferred}
}

func (c *HooksContext) hooksContext() *HooksContext {
	return c
}

// Cursor returns the index of the next slot a hook call would claim.
func (c *HooksContext) Cursor() int {
	return c.cursor
}

// Len returns the number of allocated slots.
func (c *HooksContext) Len() int {
	return len(c.slots)
}

// PendingCleanups returns the number of mounted effects holding a cleanup.
func (c *HooksContext) PendingCleanups() int {
	return len(c.cleanup)
}

// Retired reports whether Retire has been called.
func (c *HooksContext) Retired() bool {
	return c.retired
}

// Reset rewinds the cursor for the next invocation. The first completed
// invocation fixes the slot count, including hooks called before the first
// Reset; any later invocation that ended on a different count panics with
// ErrHookOrder.
func (c *HooksContext) Reset() {
	if c.invoked || len(c.slots) > 0 {
		if !c.sealed {
			c.sealed = true
		} else if c.cursor != len(c.slots) {
			panic(fmt.Errorf("%w: invocation used %d of %d slots", ErrHookOrder, c.cursor, len(c.slots)))
		}
	}
	c.invoked = true
	c.cursor = 0
}

// Retire schedules every outstanding effect cleanup on the deferred queue, in
// the order the effects were mounted, and empties the context. The context must
// not be used afterwards.
func (c *HooksContext) Retire() {
	for _, pc := range c.cleanup {
		c.deferred.Defer(pc.fn)
	}
	c.slots = nil
	c.cleanup = nil
	c.cursor = 0
	c.retired = true
}

// Flush runs the deferred tasks queued on the context's task queue.
func (c *HooksContext) Flush() int {
	return c.deferred.Flush()
}

// claim reserves the next two slots for a hook of kind and reports whether they
// were freshly allocated.
func (c *HooksContext) claim(kind hookKind) (int, bool) {
	if c.retired {
		panic(fmt.Errorf("%w: %s", ErrContextRetired, kind))
	}

	idx := c.cursor
	c.cursor += 2

	if idx < len(c.slots) {
		if got := c.slots[idx].kind; got != kind {
			panic(fmt.Errorf("%w: slot %d belongs to %s, called %s", ErrHookOrder, idx, got, kind))
		}
		return idx, false
	}

	if c.sealed {
		panic(fmt.Errorf("%w: %s claimed slot %d beyond the %d slots of the first invocation",
			ErrHookOrder, kind, idx, len(c.slots)))
	}

	c.slots = append(c.slots, slot{kind: kind}, slot{kind: kind})
	return idx, true
}

func (c *HooksContext) store(idx int, value any) {
	if idx < len(c.slots) {
		c.slots[idx].value = value
	}
}

// UseState returns the value held at this call position and a setter for it.
// initial is stored on the first call only. The setter returns the value it
// wrote so it can be read back in the same expression.
func UseState[T any](h Hooks, initial T) (T, func(T) T) {
	c := h.hooksContext()
	idx, _ := c.claim(hookState)

	if initialized, _ := c.slots[idx].value.(bool); !initialized {
		c.slots[idx].value = true
		c.slots[idx+1].value = initial
	}

	value, ok := c.slots[idx+1].value.(T)
	if !ok && c.slots[idx+1].value != nil {
		panic(fmt.Errorf("%w: UseState at slot %d holds %T", ErrHookOrder, idx, c.slots[idx+1].value))
	}
	set := func(v T) T {
		c.store(idx+1, v)
		return v
	}
	return value, set
}

// Ref is a mutable cell whose identity is stable across invocations.
type Ref[T any] struct {
	Current T
}

// UseRef returns the Ref held at this call position, created with initial on
// the first call.
func UseRef[T any](h Hooks, initial T) *Ref[T] {
	c := h.hooksContext()
	idx, _ := c.claim(hookRef)

	if initialized, _ := c.slots[idx].value.(bool); !initialized {
		c.slots[idx].value = true
		c.slots[idx+1].value = &Ref[T]{Current: initial}
	}

	ref, ok := c.slots[idx+1].value.(*Ref[T])
	if !ok {
		panic(fmt.Errorf("%w: UseRef at slot %d holds %T", ErrHookOrder, idx, c.slots[idx+1].value))
	}
	return ref
}

type effectOptions struct {
	immediate bool
}

// EffectOption adjusts how UseEffect schedules the previous cleanup.
type EffectOption func(*effectOptions)

// ImmediateCleanup runs the previous cleanup synchronously inside UseEffect
// instead of deferring it.
func ImmediateCleanup() EffectOption {
	return func(o *effectOptions) {
		o.immediate = true
	}
}

// UseEffect runs effect when deps differ from the previous call's deps, compared
// element by element. A nil deps runs the effect on every call; an empty non-nil
// deps runs it once. effect may return a cleanup, which runs when the effect
// runs again or when the context is retired. The previous cleanup is deferred
// unless ImmediateCleanup is given.
func UseEffect(h Hooks, effect func() func(), deps []any, opts ...EffectOption) {
	c := h.hooksContext()
	idx, fresh := c.claim(hookEffect)

	if !fresh && deps != nil {
		if prev, ok := c.slots[idx].value.(effectDeps); ok && prev.values != nil && sameDeps(prev.values, deps) {
			return
		}
	}

	var o effectOptions
	for _, opt := range opts {
		opt(&o)
	}

	oldCleanup, _ := c.slots[idx+1].value.(*pendingCleanup)

	newCleanup := effect()
	c.store(idx, effectDeps{values: slices.Clone(deps)})

	if newCleanup != nil {
		pc := &pendingCleanup{fn: newCleanup}
		c.store(idx+1, pc)
		c.cleanup = append(c.cleanup, pc)
	} else {
		c.store(idx+1, nil)
	}

	if oldCleanup != nil {
		c.cleanup = slices.DeleteFunc(c.cleanup, func(pc *pendingCleanup) bool {
			return pc == oldCleanup
		})
		if o.immediate {
			oldCleanup.fn()
		} else {
			c.deferred.Defer(oldCleanup.fn)
		}
	}
}

// UseMemo returns the result of factory, recomputed only when deps change. The
// stored value is replaced only when the new result differs from it.
func UseMemo[T any](h Hooks, factory func() T, deps []any) T {
	var zero T
	result, setResult := UseState(h, zero)

	UseEffect(h, func() func() {
		next := factory()
		if !sameValue(next, result) {
			result = setResult(next)
		}
		return nil
	}, deps)

	return result
}

func sameDeps(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameValue(a[i], b[i]) {
			return false
		}
	}
	return true
}

// sameValue is a shallow equality: == for comparable values and identity for
// reference kinds. Funcs are only equal when both are nil, since closures built
// from one literal share a code pointer. Values that cannot be compared
// shallowly are never equal.
func sameValue(a, b any) (equal bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	case reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	if !va.Type().Comparable() {
		return false
	}

	// Interface fields holding uncomparable values still panic on ==.
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()
	return a == b
}
