package ecs

import "errors"

// Usage violations. These are programmer errors and are raised with panic,
// wrapped with detail about the offending call.
var (
	// ErrNoActiveSystem is raised when a world hook is called while no system is running.
	ErrNoActiveSystem = errors.New("ecs: hook called outside of a running system")

	// ErrHookOrder is raised when a system does not call the same hooks in the same
	// order on every invocation.
	ErrHookOrder = errors.New("ecs: hook call order changed between invocations")

	// ErrContextRetired is raised when a hook is called on a retired HooksContext.
	ErrContextRetired = errors.New("ecs: hooks context used after retirement")

	// ErrDuplicateSystem is raised when a system id is registered twice in one group.
	ErrDuplicateSystem = errors.New("ecs: duplicate system id in group")

	// ErrIdSpaceExhausted is raised when AddEntity has no unused id left to hand out.
	ErrIdSpaceExhausted = errors.New("ecs: entity id space exhausted")

	// ErrInvalidToken is raised for empty query tokens.
	ErrInvalidToken = errors.New("ecs: invalid query token")

	// ErrUnknownVariant is for exhaustive switches over a domain's component variants.
	// Callers wrap it when they meet a variant they do not know how to handle.
	ErrUnknownVariant = errors.New("ecs: unknown component variant")
)
