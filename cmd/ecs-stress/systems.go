package main

import (
	"math"
	"math/rand"

	"github.com/plus3/hookworld/ecs"
)

const frameGroup = "frame"

// Env is the world context shared by every system of the simulation.
type Env struct {
	Rand             *rand.Rand
	DeltaTime        float64
	Bounds           float64
	TargetPopulation int
	SpawnBatch       int
	DecayRate        float64

	Counters Counters
}

// Counters accumulate simulation events for the report.
type Counters struct {
	Spawned    int
	Reaped     int
	Entered    int
	Exited     int
	Collisions int
	Waves      int
}

type World = ecs.World[*Env]

// registerSystems installs the simulation on the frame group, in execution order.
func registerSystems(w *World) {
	w.AddSystem(frameGroup, "spawner", spawnerSystem)
	w.AddSystem(frameGroup, "movement", movementSystem)
	w.AddSystem(frameGroup, "decay", decaySystem)
	w.AddSystem(frameGroup, "reaper", reaperSystem)
	w.AddSystem(frameGroup, "lifecycle", lifecycleSystem)
	w.AddSystem(frameGroup, "collisions", collisionSystem)
}

func spawnRandomEntity(env *Env) ([]ecs.Component, []string) {
	r := env.Rand
	components := []ecs.Component{
		&Position{X: r.Float64() * env.Bounds, Y: r.Float64() * env.Bounds},
		&Velocity{DX: r.Float64()*2 - 1, DY: r.Float64()*2 - 1},
	}

	maxHealth := 50 + r.Float64()*50
	components = append(components, &Health{Current: maxHealth, Max: maxHealth})

	var tags []string
	switch r.Intn(3) {
	case 0:
		components = append(components, &Circle{Radius: 0.5 + r.Float64()})
	case 1:
		components = append(components, &Rectangle{Width: 1 + r.Float64(), Height: 1 + r.Float64()})
	default:
		tags = append(tags, "ghost")
	}
	return components, tags
}

// spawnerSystem tops the population up towards the target, at most one batch
// per frame, and counts the frames that spawned as waves.
func spawnerSystem(w *World) {
	env := w.Env()
	waves, setWaves := ecs.UseState(w, 0)
	alive := len(w.UseQuery("health"))

	deficit := min(env.TargetPopulation-alive, env.SpawnBatch)
	if deficit <= 0 {
		return
	}

	for range deficit {
		components, tags := spawnRandomEntity(env)
		w.Commands().AddEntity(components, tags...)
	}
	env.Counters.Spawned += deficit
	env.Counters.Waves = setWaves(waves + 1)
}

func movementSystem(w *World) {
	env := w.Env()
	for _, e := range w.UseQuery("position", "velocity") {
		pos, _ := ecs.First[*Position](e)
		vel, _ := ecs.First[*Velocity](e)

		pos.X += vel.DX * env.DeltaTime
		pos.Y += vel.DY * env.DeltaTime

		if pos.X < 0 || pos.X > env.Bounds {
			vel.DX = -vel.DX
			pos.X = math.Max(0, math.Min(pos.X, env.Bounds))
		}
		if pos.Y < 0 || pos.Y > env.Bounds {
			vel.DY = -vel.DY
			pos.Y = math.Max(0, math.Min(pos.Y, env.Bounds))
		}
	}
}

func decaySystem(w *World) {
	env := w.Env()
	for _, e := range w.UseQuery("health", "-immortal") {
		for _, h := range ecs.Each[*Health](e) {
			h.Current -= env.DecayRate * env.DeltaTime
		}
	}
}

func reaperSystem(w *World) {
	for _, e := range w.UseQuery("health") {
		if h, ok := ecs.First[*Health](e); ok && h.Current <= 0 {
			w.Commands().RemoveEntity(e.ID())
			w.Env().Counters.Reaped++
		}
	}
}

func lifecycleSystem(w *World) {
	delta := w.UseDeltaQuery("health")
	counters := &w.Env().Counters
	counters.Entered += len(delta.Entered)
	counters.Exited += len(delta.Exited)
}

// collisionSystem counts overlapping collider pairs with a uniform grid. The
// cell size is the largest collider extent, recomputed only when the set of
// shaped entities changes.
func collisionSystem(w *World) {
	shaped := w.UseQuery("position", "shape")

	var first, last ecs.EntityId
	if len(shaped) > 0 {
		first, last = shaped[0].ID(), shaped[len(shaped)-1].ID()
	}
	cellSize := ecs.UseMemo(w, func() float64 {
		return maxExtent(shaped)
	}, []any{len(shaped), first, last})

	w.Env().Counters.Collisions += countCollisions(shaped, cellSize)
}

func maxExtent(entities []*ecs.Entity) float64 {
	size := 0.0
	origin := &Position{}
	for _, e := range entities {
		if s, ok := ecs.First[Shape](e); ok {
			size = math.Max(size, collider(origin, s).extent())
		}
	}
	return size
}

type cell struct {
	x, y int
}

func cellOf(x, y, size float64) cell {
	return cell{int(math.Floor(x / size)), int(math.Floor(y / size))}
}

func countCollisions(entities []*ecs.Entity, cellSize float64) int {
	if cellSize <= 0 {
		return 0
	}

	boxes := make([]aabb, 0, len(entities))
	grid := make(map[cell][]int)
	for _, e := range entities {
		pos, ok := ecs.First[*Position](e)
		if !ok {
			continue
		}
		s, ok := ecs.First[Shape](e)
		if !ok {
			continue
		}

		box := collider(pos, s)
		idx := len(boxes)
		boxes = append(boxes, box)

		lo, hi := cellOf(box.MinX, box.MinY, cellSize), cellOf(box.MaxX, box.MaxY, cellSize)
		for x := lo.x; x <= hi.x; x++ {
			for y := lo.y; y <= hi.y; y++ {
				grid[cell{x, y}] = append(grid[cell{x, y}], idx)
			}
		}
	}

	// A pair sharing several cells is counted only in the cell holding the
	// minimum corner of its intersection.
	collisions := 0
	for c, members := range grid {
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := boxes[members[i]], boxes[members[j]]
				if !a.overlaps(b) {
					continue
				}
				if cellOf(math.Max(a.MinX, b.MinX), math.Max(a.MinY, b.MinY), cellSize) == c {
					collisions++
				}
			}
		}
	}
	return collisions
}
