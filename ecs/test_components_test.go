package ecs_test

import (
	"io"
	"log/slog"

	"github.com/plus3/hookworld/ecs"
)

// Common test component types
type Position struct {
	X, Y float32
}

func (Position) ComponentType() string { return "position" }

type Velocity struct {
	DX, DY float32
}

func (Velocity) ComponentType() string { return "velocity" }

type Health struct {
	Current int
	Max     int
}

func (Health) ComponentType() string { return "health" }

type Name struct {
	Value string
}

func (Name) ComponentType() string { return "name" }

type Score int32

func (Score) ComponentType() string { return "score" }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore() *ecs.Store {
	return ecs.NewStore(ecs.WithLogger(quietLogger()))
}

func newTestWorld() *ecs.World[struct{}] {
	return ecs.NewWorld(struct{}{}, ecs.WithLogger(quietLogger()))
}

func ids(entities []*ecs.Entity) []ecs.EntityId {
	out := make([]ecs.EntityId, len(entities))
	for i, e := range entities {
		out[i] = e.ID()
	}
	return out
}
