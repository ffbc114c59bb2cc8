package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/hookworld/ecs"
)

const arenaScenario = `
name: arena
entities:
  - id: 10
    tags: [immortal]
    position: {x: 1, y: 2}
    velocity: {dx: 0.5, dy: -0.5}
    health: {current: 80, max: 100}
    shape:
      kind: circle
      radius: 3
  - id: 11
    position: {x: 5, y: 5}
    shape:
      kind: rectangle
      width: 4
      height: 2
  - id: 12
    tags: [marker]
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseScenario(t *testing.T) {
	scenario, err := ParseScenario([]byte(arenaScenario))
	require.NoError(t, err)

	assert.Equal(t, "arena", scenario.Name)
	require.Len(t, scenario.Entities, 3)

	first := scenario.Entities[0]
	assert.Equal(t, uint64(10), first.ID)
	assert.Equal(t, []string{"immortal"}, first.Tags)
	assert.Equal(t, &Position{X: 1, Y: 2}, first.Position)
	assert.Equal(t, &Velocity{DX: 0.5, DY: -0.5}, first.Velocity)
	assert.Equal(t, &Health{Current: 80, Max: 100}, first.Health)
	require.NotNil(t, first.Shape)
	assert.Equal(t, &Circle{Radius: 3}, first.Shape.Shape)

	second := scenario.Entities[1]
	assert.Nil(t, second.Health)
	require.NotNil(t, second.Shape)
	assert.Equal(t, &Rectangle{Width: 4, Height: 2}, second.Shape.Shape)

	assert.Empty(t, scenario.Entities[2].Components())
}

func TestParseScenarioErrors(t *testing.T) {
	t.Run("unknown shape kind", func(t *testing.T) {
		_, err := ParseScenario([]byte(`
name: bad
entities:
  - id: 1
    shape:
      kind: triangle
`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ecs.ErrUnknownVariant)
		assert.Contains(t, err.Error(), `"triangle"`)
	})

	t.Run("unknown entity field", func(t *testing.T) {
		_, err := ParseScenario([]byte(`
name: bad
entities:
  - id: 1
    colour: red
`))
		assert.ErrorContains(t, err, "colour")
	})

	t.Run("unknown shape field", func(t *testing.T) {
		_, err := ParseScenario([]byte(`
name: bad
entities:
  - id: 1
    shape:
      kind: circle
      sides: 3
`))
		assert.ErrorContains(t, err, "sides")
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := ParseScenario([]byte("entities: []\n"))
		assert.ErrorContains(t, err, "name is required")
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := ParseScenario([]byte(`
name: bad
entities:
  - tags: [a]
`))
		assert.ErrorContains(t, err, "id is required")
	})

	t.Run("id out of range", func(t *testing.T) {
		_, err := ParseScenario([]byte(`
name: bad
entities:
  - id: 18446744073709551615
`))
		assert.ErrorContains(t, err, "out of range")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadScenario("testdata/does-not-exist.yaml")
		assert.ErrorContains(t, err, "failed to read scenario file")
	})
}

func TestScenarioApply(t *testing.T) {
	scenario, err := ParseScenario([]byte(arenaScenario))
	require.NoError(t, err)

	store := ecs.NewStore(ecs.WithLogger(discardLogger()))
	taken := store.AddEntity(nil)
	scenario.Entities[2].ID = uint64(taken)

	loaded := scenario.Apply(store, discardLogger())
	assert.Equal(t, 2, loaded)
	assert.Equal(t, 3, store.Len())

	e, ok := store.GetEntity(10)
	require.True(t, ok)
	assert.True(t, e.HasTag("immortal"))
	assert.True(t, e.Matches("position", "velocity", "health", "shape"))

	shape, ok := ecs.First[Shape](e)
	require.True(t, ok)
	assert.Equal(t, &Circle{Radius: 3}, shape)

	// the skipped entity keeps its original contents
	e, ok = store.GetEntity(taken)
	require.True(t, ok)
	assert.False(t, e.HasTag("marker"))

	assert.Equal(t, ecs.EntityId(12), store.AddEntity(nil))
}
