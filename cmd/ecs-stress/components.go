package main

import (
	"fmt"
	"math"

	"github.com/plus3/hookworld/ecs"
)

type Position struct {
	X, Y float64
}

func (*Position) ComponentType() string { return "position" }

type Velocity struct {
	DX, DY float64
}

func (*Velocity) ComponentType() string { return "velocity" }

type Health struct {
	Current, Max float64
}

func (*Health) ComponentType() string { return "health" }

// Shape is a closed set of collision shapes. Every variant reports the same
// component type so a single "shape" token matches them all.
type Shape interface {
	ecs.Component
	isShape()
}

type Circle struct {
	Radius float64
}

func (*Circle) ComponentType() string { return "shape" }
func (*Circle) isShape()              {}

type Rectangle struct {
	Width, Height float64
}

func (*Rectangle) ComponentType() string { return "shape" }
func (*Rectangle) isShape()              {}

// aabb is an axis-aligned bounding box.
type aabb struct {
	MinX, MinY, MaxX, MaxY float64
}

func (a aabb) overlaps(b aabb) bool {
	return a.MinX < b.MaxX && b.MinX < a.MaxX && a.MinY < b.MaxY && b.MinY < a.MaxY
}

func (a aabb) extent() float64 {
	return math.Max(a.MaxX-a.MinX, a.MaxY-a.MinY)
}

// collider returns the bounding box of s centred on pos.
func collider(pos *Position, s Shape) aabb {
	switch v := s.(type) {
	case *Circle:
		return aabb{pos.X - v.Radius, pos.Y - v.Radius, pos.X + v.Radius, pos.Y + v.Radius}
	case *Rectangle:
		hw, hh := v.Width/2, v.Height/2
		return aabb{pos.X - hw, pos.Y - hh, pos.X + hw, pos.Y + hh}
	default:
		panic(fmt.Errorf("%w: %T", ecs.ErrUnknownVariant, s))
	}
}
