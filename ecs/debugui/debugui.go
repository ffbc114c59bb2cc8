// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// Every panel is an ordinary system: its widget state lives in hooks and it reads the world
// through queries, so registering the panels on a group is all an application has to do.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hookworld/ecs"
)

// ImguiSystem publishes ImGui's input capture state on an internal entity and
// defers every ImguiItem render function to the end of the frame.
func ImguiSystem[E any](w *ecs.World[E]) {
	useInternalEntity(w, &ImguiInputState{})

	io := imgui.CurrentIO()
	for _, e := range w.UseQuery(InputStateType) {
		if state, ok := ecs.First[*ImguiInputState](e); ok {
			state.WantCaptureMouse = io.WantCaptureMouse()
			state.WantCaptureKeyboard = io.WantCaptureKeyboard()
		}
	}

	for _, e := range w.UseQuery(ImguiItemType) {
		for _, item := range ecs.Each[*ImguiItem](e) {
			if item.Render != nil {
				w.Commands().Defer(item.Render)
			}
		}
	}
}
