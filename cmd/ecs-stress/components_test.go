package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/hookworld/ecs"
)

type triangle struct{}

func (*triangle) ComponentType() string { return "shape" }
func (*triangle) isShape()              {}

func TestCollider(t *testing.T) {
	tests := []struct {
		name  string
		pos   Position
		shape Shape
		want  aabb
	}{
		{"circle", Position{X: 10, Y: 10}, &Circle{Radius: 2}, aabb{8, 8, 12, 12}},
		{"rectangle", Position{}, &Rectangle{Width: 4, Height: 2}, aabb{-2, -1, 2, 1}},
		{"zero circle", Position{X: 1, Y: 1}, &Circle{}, aabb{1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collider(&tt.pos, tt.shape))
		})
	}
}

func TestColliderUnknownVariant(t *testing.T) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err, _ = r.(error)
			}
		}()
		collider(&Position{}, &triangle{})
	}()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ecs.ErrUnknownVariant))
	assert.Contains(t, err.Error(), "triangle")
}

func TestAABB(t *testing.T) {
	a := aabb{0, 0, 2, 2}

	assert.True(t, a.overlaps(aabb{1, 1, 3, 3}))
	assert.False(t, a.overlaps(aabb{2, 0, 4, 2}), "touching edges do not overlap")
	assert.False(t, a.overlaps(aabb{5, 5, 6, 6}))
	assert.Equal(t, 2.0, a.extent())
	assert.Equal(t, 4.0, aabb{0, 0, 1, 4}.extent())
}

func TestShapeVariantsShareType(t *testing.T) {
	store := ecs.NewStore()
	store.AddEntity([]ecs.Component{&Position{}, &Circle{Radius: 1}})
	store.AddEntity([]ecs.Component{&Position{}, &Rectangle{Width: 1, Height: 1}})
	store.AddEntity([]ecs.Component{&Position{}})

	assert.Equal(t, 2, store.RegisterQuery("shape").Len())
}
