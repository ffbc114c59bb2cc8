package debugui

import "github.com/plus3/hookworld/ecs"

// Component types and tags owned by the debug UI.
const (
	ImguiItemType  = "debugui.imgui-item"
	InputStateType = "debugui.input-state"
	SelectionType  = "debugui.selection"

	// InternalTag marks entities the debug UI creates for its own bookkeeping.
	InternalTag = "debugui"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

func (*ImguiItem) ComponentType() string { return ImguiItemType }

// ImguiInputState tracks Dear ImGui's input capture state.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

func (*ImguiInputState) ComponentType() string { return InputStateType }

// Selection is the entity currently picked in the entity browser.
type Selection struct {
	Entity ecs.EntityId
}

func (*Selection) ComponentType() string { return SelectionType }

func selection(matches []*ecs.Entity) *Selection {
	for _, e := range matches {
		if s, ok := ecs.First[*Selection](e); ok {
			return s
		}
	}
	return nil
}

// useInternalEntity spawns an entity carrying components for as long as the
// calling system is registered.
func useInternalEntity[E any](w *ecs.World[E], components ...ecs.Component) {
	ecs.UseEffect(w, func() func() {
		id := w.AddEntity(components, InternalTag)
		return func() { w.RemoveEntity(id) }
	}, []any{})
}
