package ecs

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// World composes a Store with named groups of systems, each system owning a
// HooksContext, and an opaque environment value E fixed at creation. A World is
// single-threaded: all calls must come from one goroutine.
type World[E any] struct {
	*Store

	env        E
	groups     map[string][]*system[E]
	groupOrder []string

	current *system[E]
	running int

	commands *Commands
	deferred *TaskQueue
	logger   *slog.Logger
}

// NewWorld creates an empty world carrying env, which every system can read
// through Env.
func NewWorld[E any](env E, opts ...Option) *World[E] {
	cfg := newConfig(opts)
	return &World[E]{
		Store:    NewStore(opts...),
		env:      env,
		groups:   make(map[string][]*system[E]),
		commands: newCommands(),
		deferred: NewTaskQueue(),
		logger:   cfg.logger,
	}
}

// Env returns the environment value supplied at creation.
func (w *World[E]) Env() E {
	return w.env
}

// Commands returns the world's deferred edit buffer.
func (w *World[E]) Commands() *Commands {
	return w.commands
}

// Deferred returns the queue effect cleanups are scheduled on.
func (w *World[E]) Deferred() *TaskQueue {
	return w.deferred
}

// AddSystem appends fn to group under id. The group is created on first use.
// Registering an id twice in one group panics with ErrDuplicateSystem.
func (w *World[E]) AddSystem(group, id string, fn SystemFunc[E]) {
	systems, ok := w.groups[group]
	if !ok {
		w.groupOrder = append(w.groupOrder, group)
	}
	if slices.ContainsFunc(systems, func(s *system[E]) bool { return s.id == id }) {
		panic(fmt.Errorf("%w: %q in group %q", ErrDuplicateSystem, id, group))
	}

	w.groups[group] = append(systems, &system[E]{
		id:    id,
		group: group,
		run:   fn,
		hooks: newHooksContext(w.deferred),
		stats: newSystemStats(group, id),
	})
	w.logger.Debug("system added", "group", group, "system", id)
}

// RemoveSystem retires the system's hooks context, scheduling its outstanding
// effect cleanups, and removes it from group. An unknown group or id logs a
// warning and returns false. Outside Run the cleanups run before returning.
func (w *World[E]) RemoveSystem(group, id string) bool {
	systems := w.groups[group]
	idx := slices.IndexFunc(systems, func(s *system[E]) bool { return s.id == id })
	if idx < 0 {
		w.logger.Warn("system not found [not removing]", "group", group, "system", id)
		return false
	}

	systems[idx].hooks.Retire()
	w.groups[group] = slices.Delete(systems, idx, idx+1)
	w.logger.Debug("system removed", "group", group, "system", id)

	if w.running == 0 {
		w.flush()
	}
	return true
}

// Groups returns group names in the order they were created.
func (w *World[E]) Groups() []string {
	return slices.Clone(w.groupOrder)
}

// Systems returns the ids registered in group, in execution order.
func (w *World[E]) Systems(group string) []string {
	systems := w.groups[group]
	ids := make([]string, len(systems))
	for i, s := range systems {
		ids[i] = s.id
	}
	return ids
}

// Run executes every system of group once, in registration order. Each system
// sees the mutations of the systems before it. Systems removed during the run
// are skipped; systems added during the run start on the next call. When the
// outermost Run returns, queued Commands are applied and deferred tasks drained.
// An unknown group is a no-op.
func (w *World[E]) Run(group string) {
	systems, ok := w.groups[group]
	if !ok {
		return
	}

	outer := w.current
	w.running++
	defer func() {
		w.current = outer
		w.running--
	}()

	for _, s := range slices.Clone(systems) {
		if s.hooks.Retired() {
			continue
		}

		w.current = s
		s.hooks.Reset()

		start := time.Now()
		s.run(w)
		s.stats.record(time.Since(start))
	}

	w.current = outer
	if w.running == 1 {
		w.flush()
	}
}

func (w *World[E]) flush() {
	for w.commands.Len() > 0 || w.deferred.Len() > 0 {
		w.commands.Flush(w.Store)
		w.deferred.Flush()
	}
}

func (w *World[E]) hooksContext() *HooksContext {
	if w.current == nil {
		panic(ErrNoActiveSystem)
	}
	return w.current.hooks
}

// CurrentSystem returns the group and id of the running system.
func (w *World[E]) CurrentSystem() (group, id string, ok bool) {
	if w.current == nil {
		return "", "", false
	}
	return w.current.group, w.current.id, true
}

// UseQuery returns a snapshot of the entities matching tokens. The shared query
// is registered on the first call and re-registered only when the token set
// changes; it is released when the system is removed.
func (w *World[E]) UseQuery(tokens ...string) []*Entity {
	return slices.Clone(w.useQuery(tokens).Matches())
}

func (w *World[E]) useQuery(tokens []string) *Query {
	key := Fingerprint(tokens...)
	query, setQuery := UseState[*Query](w, nil)

	UseEffect(w, func() func() {
		q := w.Store.RegisterQuery(tokens...)
		query = setQuery(q)
		return func() {
			w.Store.UnregisterQuery(q)
		}
	}, []any{key})

	return query
}

// Delta partitions a query's matches against the previous invocation's.
type Delta struct {
	Entered []*Entity
	Still   []*Entity
	Exited  []*Entity
}

// UseDeltaQuery is UseQuery split into entities that entered the match set
// since the previous invocation, stayed in it, and left it. Exited entities may
// already be removed from the world.
func (w *World[E]) UseDeltaQuery(tokens ...string) Delta {
	query := w.useQuery(tokens)
	previous := UseRef[[]*Entity](w, nil)

	current := slices.Clone(query.Matches())
	seen := make(map[EntityId]bool, len(previous.Current))
	for _, e := range previous.Current {
		seen[e.id] = true
	}

	var delta Delta
	now := make(map[EntityId]bool, len(current))
	for _, e := range current {
		now[e.id] = true
		if seen[e.id] {
			delta.Still = append(delta.Still, e)
		} else {
			delta.Entered = append(delta.Entered, e)
		}
	}
	for _, e := range previous.Current {
		if !now[e.id] {
			delta.Exited = append(delta.Exited, e)
		}
	}

	previous.Current = current
	return delta
}
