package ecs

// SystemFunc is a unit of per-tick logic. It runs synchronously with the world
// as its argument and may call hooks on it to keep state between invocations.
type SystemFunc[E any] func(w *World[E])

type system[E any] struct {
	id    string
	group string
	run   SystemFunc[E]
	hooks *HooksContext
	stats *systemStatsInternal
}
