package debugui

import (
	"reflect"
	"testing"

	"github.com/plus3/hookworld/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vitals struct {
	Level   int8
	Speed   float32
	Label   string
	Enabled bool
	Mass    *uint16
	hidden  int
}

func (*vitals) ComponentType() string { return "vitals" }

func TestSelection(t *testing.T) {
	store := ecs.NewStore()
	store.AddEntity(nil, "other")
	id := store.AddEntity([]ecs.Component{&Selection{Entity: 7}}, InternalTag)

	entity, _ := store.GetEntity(id)
	other, _ := store.GetEntity(1)

	s := selection([]*ecs.Entity{other, entity})
	require.NotNil(t, s)
	assert.Equal(t, ecs.EntityId(7), s.Entity)
	assert.Nil(t, selection([]*ecs.Entity{other}))
}

func TestEntityBrowserHelpers(t *testing.T) {
	store := ecs.NewStore()
	a := store.AddEntity([]ecs.Component{&vitals{}, &Selection{}}, "player")
	b := store.AddEntity([]ecs.Component{&ImguiItem{}})
	c := store.AddEntity(nil, "Enemy")

	var matches []*ecs.Entity
	for _, id := range []ecs.EntityId{a, b, c} {
		e, _ := store.GetEntity(id)
		matches = append(matches, e)
	}

	entities := collectEntities(matches)
	require.Len(t, entities, 3)
	assert.Equal(t, []string{"vitals", SelectionType}, entities[0].ComponentTypes)
	assert.Equal(t, 2, entities[0].ComponentCount)

	t.Run("sort by count descending", func(t *testing.T) {
		sortEntities(entities, 3, false)
		assert.Equal(t, []ecs.EntityId{a, b, c}, entityIds(entities))
	})

	t.Run("sort by id", func(t *testing.T) {
		sortEntities(entities, 0, true)
		assert.Equal(t, []ecs.EntityId{a, b, c}, entityIds(entities))
		sortEntities(entities, 0, false)
		assert.Equal(t, []ecs.EntityId{c, b, a}, entityIds(entities))
	})

	t.Run("filter is case insensitive", func(t *testing.T) {
		assert.Equal(t, []ecs.EntityId{c}, entityIds(filterEntities(entities, "enemy")))
		assert.Equal(t, []ecs.EntityId{b}, entityIds(filterEntities(entities, "IMGUI")))
		assert.Len(t, filterEntities(entities, ""), 3)
	})
}

func entityIds(entities []EntityInfo) []ecs.EntityId {
	out := make([]ecs.EntityId, len(entities))
	for i, e := range entities {
		out[i] = e.ID
	}
	return out
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		total, page, size int
		start, end        int
	}{
		{0, 0, 10, 0, 0},
		{25, 0, 10, 0, 10},
		{25, 2, 10, 20, 25},
		{25, 5, 10, 25, 25},
	}
	for _, tt := range tests {
		start, end := pageBounds(tt.total, tt.page, tt.size)
		assert.Equal(t, tt.start, start)
		assert.Equal(t, tt.end, end)
	}
}

type nested struct {
	Inner   vitals
	Samples []float64
	Lookup  map[string]int
	Fn      func()
}

func (*nested) ComponentType() string { return "nested" }

func TestFieldLayouts(t *testing.T) {
	fl := newFieldLayouts()

	fields := fl.ComponentFields(&vitals{})
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"Level", "Speed", "Label", "Enabled", "Mass"}, names)

	mass := fields[4]
	assert.True(t, mass.IsPointer)
	assert.Equal(t, reflect.Uint16, mass.Kind)
	assert.Equal(t, 4, mass.Index)

	for _, f := range fields {
		assert.True(t, f.Editable(), f.Name)
	}

	again := fl.Fields(reflect.TypeOf(vitals{}))
	assert.Equal(t, fields, again)
	assert.Equal(t, 1, fl.Len())

	assert.Empty(t, fl.Fields(reflect.TypeOf(0)))
	assert.Equal(t, 2, fl.Len())
}

func TestFieldEditors(t *testing.T) {
	fields := newFieldLayouts().ComponentFields(&nested{})
	require.Len(t, fields, 4)

	editors := make([]fieldEditor, len(fields))
	for i, f := range fields {
		editors[i] = f.editor
		assert.False(t, f.Editable(), f.Name)
	}
	assert.Equal(t, []fieldEditor{editorStruct, editorCollection, editorCollection, editorReadOnly}, editors)
}

func TestAssignField(t *testing.T) {
	component := &vitals{}
	val := reflect.ValueOf(component).Elem()

	assert.True(t, assignField(val.Field(0), int64(12)))
	assert.False(t, assignField(val.Field(0), int64(1000)), "int8 overflow")
	assert.True(t, assignField(val.Field(1), float64(2.5)))
	assert.True(t, assignField(val.Field(2), "hero"))
	assert.True(t, assignField(val.Field(3), true))
	assert.False(t, assignField(val.Field(2), true), "kind mismatch")

	assert.Equal(t, vitals{Level: 12, Speed: 2.5, Label: "hero", Enabled: true}, *component)

	byValue := reflect.ValueOf(vitals{})
	assert.False(t, assignField(byValue.Field(0), int64(1)), "unaddressable")
}

func TestFrameHistory(t *testing.T) {
	h := newFrameHistory(3)
	assert.Equal(t, float32(0), h.average())

	h.push(10)
	assert.Equal(t, float32(10), h.average())

	h.push(20)
	h.push(30)
	h.push(40)
	assert.Equal(t, float32(30), h.average())
	assert.Equal(t, []float32{40, 20, 30}, h.frames)
}

func TestBuildTokens(t *testing.T) {
	selected := map[string]tokenMode{}
	assert.Empty(t, buildTokens(selected))

	setTokenMode(selected, "velocity", tokenRequired, true)
	setTokenMode(selected, "frozen", tokenExcluded, true)
	setTokenMode(selected, "position", tokenRequired, true)
	assert.Equal(t, []string{"-frozen", "position", "velocity"}, buildTokens(selected))

	setTokenMode(selected, "velocity", tokenExcluded, false)
	assert.Contains(t, buildTokens(selected), "velocity", "unchecking another mode keeps the token")

	setTokenMode(selected, "velocity", tokenRequired, false)
	assert.Equal(t, []string{"-frozen", "position"}, buildTokens(selected))
}

func TestSortSystemStats(t *testing.T) {
	systems := []ecs.SystemStats{
		{Group: "update", Name: "b", ExecutionCount: 3, AvgDuration: 5},
		{Group: "render", Name: "a", ExecutionCount: 1, AvgDuration: 9},
		{Group: "update", Name: "c", ExecutionCount: 2, AvgDuration: 1},
	}

	sortSystemStats(systems, columnAvg, false)
	assert.Equal(t, "a", systems[0].Name)
	assert.Equal(t, "c", systems[2].Name)

	sortSystemStats(systems, columnRuns, true)
	assert.Equal(t, []int64{1, 2, 3}, []int64{systems[0].ExecutionCount, systems[1].ExecutionCount, systems[2].ExecutionCount})

	sortSystemStats(systems, columnGroup, true)
	assert.Equal(t, "render", systems[0].Group)
}

func TestQueryLabel(t *testing.T) {
	assert.Equal(t, "(all entities)", queryLabel(""))
	assert.Equal(t, "-frozen, position", queryLabel("-frozen,position"))
}
