package main

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/hookworld/ecs"
)

func bruteForceCollisions(entities []*ecs.Entity) int {
	var boxes []aabb
	for _, e := range entities {
		pos, ok := ecs.First[*Position](e)
		if !ok {
			continue
		}
		if s, ok := ecs.First[Shape](e); ok {
			boxes = append(boxes, collider(pos, s))
		}
	}

	n := 0
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].overlaps(boxes[j]) {
				n++
			}
		}
	}
	return n
}

func TestCountCollisions(t *testing.T) {
	t.Run("matches brute force", func(t *testing.T) {
		env := &Env{Rand: rand.New(rand.NewSource(3)), Bounds: 40}
		store := ecs.NewStore()
		for range 500 {
			components, tags := spawnRandomEntity(env)
			store.AddEntity(components, tags...)
		}
		entities := store.RegisterQuery("position", "shape").Matches()

		got := countCollisions(entities, maxExtent(entities))
		assert.Equal(t, bruteForceCollisions(entities), got)
		assert.Positive(t, got)
	})

	t.Run("pair spanning several cells counts once", func(t *testing.T) {
		store := ecs.NewStore()
		store.AddEntity([]ecs.Component{&Position{X: 10, Y: 10}, &Rectangle{Width: 8, Height: 8}})
		store.AddEntity([]ecs.Component{&Position{X: 11, Y: 11}, &Rectangle{Width: 8, Height: 8}})
		entities := store.RegisterQuery("position", "shape").Matches()

		assert.Equal(t, 1, countCollisions(entities, 1))
	})

	t.Run("no shapes", func(t *testing.T) {
		store := ecs.NewStore()
		store.AddEntity([]ecs.Component{&Position{}}, "ghost")
		entities := store.RegisterQuery("position").Matches()

		assert.Equal(t, 0.0, maxExtent(entities))
		assert.Equal(t, 0, countCollisions(entities, maxExtent(entities)))
	})
}

func healthCount(w *World) int {
	n := 0
	for e := range w.Entities() {
		if e.Has("health") {
			n++
		}
	}
	return n
}

func TestSimulation(t *testing.T) {
	t.Run("lifecycle tracks the live population", func(t *testing.T) {
		w := newSimulation(&Options{Entities: 50, Seed: 7}, discardLogger(), nil)
		w.Env().DecayRate = 600

		for range 30 {
			before := healthCount(w)
			w.Run(frameGroup)

			c := w.Env().Counters
			assert.Equal(t, before, c.Entered-c.Exited)
		}

		c := w.Env().Counters
		assert.Positive(t, c.Reaped)
		assert.Positive(t, c.Spawned)
		assert.Equal(t, 50+c.Spawned-c.Reaped, w.Len())
	})

	t.Run("spawner reaches the target", func(t *testing.T) {
		w := newSimulation(&Options{TargetPopulation: 20, Seed: 1}, discardLogger(), nil)
		w.Env().DecayRate = 0

		for range 25 {
			w.Run(frameGroup)
		}

		c := w.Env().Counters
		assert.Equal(t, 20, w.Len())
		assert.Equal(t, 20, c.Spawned)
		assert.Equal(t, 20, c.Waves)
		assert.Zero(t, c.Reaped)
	})

	t.Run("immortal entities do not decay", func(t *testing.T) {
		scenario, err := ParseScenario([]byte(arenaScenario))
		require.NoError(t, err)

		w := newSimulation(&Options{Seed: 1}, discardLogger(), scenario)
		w.Env().DecayRate = 1000
		w.Run(frameGroup)

		e, ok := w.GetEntity(10)
		require.True(t, ok)
		h, _ := ecs.First[*Health](e)
		assert.Equal(t, 80.0, h.Current)
	})

	t.Run("same seed same outcome", func(t *testing.T) {
		run := func() Counters {
			w := newSimulation(&Options{Entities: 200, Seed: 99}, discardLogger(), nil)
			for range 10 {
				w.Run(frameGroup)
			}
			return w.Env().Counters
		}
		assert.Equal(t, run(), run())
	})
}

func TestRootCommand(t *testing.T) {
	t.Run("writes report", func(t *testing.T) {
		dir := t.TempDir()
		scenarioPath := filepath.Join(dir, "arena.yaml")
		reportPath := filepath.Join(dir, "report.md")
		require.NoError(t, os.WriteFile(scenarioPath, []byte(arenaScenario), 0o644))

		cmd := newRootCommand()
		cmd.SetArgs([]string{
			"--duration", "20ms",
			"--entities", "100",
			"--scenario", scenarioPath,
			"--report", reportPath,
			"--gc-pause-metrics",
		})
		require.NoError(t, cmd.Execute())

		data, err := os.ReadFile(reportPath)
		require.NoError(t, err)
		report := string(data)
		assert.Contains(t, report, "# ECS Stress Test Report")
		assert.Contains(t, report, "- **Scenario:** arena")
		assert.Contains(t, report, "| frame | spawner |")
		assert.Contains(t, report, "| `health` |")
		assert.Contains(t, report, "## GC Pause Durations")
	})

	t.Run("writes to stdout", func(t *testing.T) {
		var out bytes.Buffer
		cmd := newRootCommand()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--duration", "10ms", "--entities", "10"})
		require.NoError(t, cmd.Execute())

		assert.Contains(t, out.String(), "- **Initial Entities:** 10")
	})

	t.Run("invalid profile", func(t *testing.T) {
		cmd := newRootCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--duration", "1ms", "--profile", "gpu"})
		assert.ErrorContains(t, cmd.Execute(), `invalid profile "gpu"`)
	})
}

func TestRunFramesStopsAtDeadline(t *testing.T) {
	w := newSimulation(&Options{Entities: 10, Seed: 1}, discardLogger(), nil)

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	updates, samples := runFrames(ctx, w)

	assert.Less(t, time.Since(start), time.Second)
	assert.Positive(t, updates)
	assert.Len(t, samples, int(updates))
}
