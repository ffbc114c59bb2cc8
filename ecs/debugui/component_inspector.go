package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hookworld/ecs"
)

// ComponentInspector is a system that shows the components of the selected
// entity and edits the exported fields of pointer components in place.
func ComponentInspector[E any](w *ecs.World[E]) {
	selected := selection(w.UseQuery(SelectionType))

	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	if selected == nil || selected.Entity == ecs.NilEntity {
		imgui.Text("No entity selected")
		return
	}

	entity, ok := w.GetEntity(selected.Entity)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %d no longer exists", selected.Entity))
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", entity.ID()))
	for _, tag := range entity.Tags() {
		imgui.BulletText(tag)
	}
	imgui.Separator()

	for i, component := range entity.Components() {
		if imgui.TreeNodeStr(fmt.Sprintf("%s##%d", component.ComponentType(), i)) {
			renderComponent(component)
			imgui.TreePop()
		}
	}
}

func renderComponent(component ecs.Component) {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			imgui.Text("nil")
			return
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		imgui.Text(fmt.Sprintf("%v", val.Interface()))
		return
	}

	for _, field := range layouts.ComponentFields(component) {
		renderField(field.Name, val.Field(field.Index), field)
	}
}

func renderField(name string, val reflect.Value, field FieldInfo) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer {
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		val = val.Elem()
	}

	switch field.editor {
	case editorInt:
		v := int32(val.Int())
		labelField(name, 150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			assignField(val, int64(v))
		}

	case editorUint:
		v := int32(val.Uint())
		labelField(name, 150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 {
			assignField(val, uint64(v))
		}

	case editorFloat:
		v := float32(val.Float())
		labelField(name, 150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
			assignField(val, float64(v))
		}

	case editorBool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			assignField(val, v)
		}

	case editorString:
		v := val.String()
		labelField(name, 200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) {
			assignField(val, v)
		}

	case editorStruct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range layouts.Fields(val.Type()) {
				renderField(nf.Name, val.Field(nf.Index), nf)
			}
			imgui.TreePop()
		}

	case editorCollection:
		imgui.Text(fmt.Sprintf("%s: %s[%d items]", name, val.Kind(), val.Len()))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: <%s>", name, val.Kind()))
		}
	}
}

func labelField(name string, width float32) {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(width)
}

// assignField writes value into field, converting between numeric kinds. It
// reports false when the field is not addressable, which is the case for
// components attached by value.
func assignField(field reflect.Value, value any) bool {
	if !field.CanSet() {
		return false
	}

	switch v := value.(type) {
	case int64:
		if !field.CanInt() || field.OverflowInt(v) {
			return false
		}
		field.SetInt(v)
	case uint64:
		if !field.CanUint() || field.OverflowUint(v) {
			return false
		}
		field.SetUint(v)
	case float64:
		if !field.CanFloat() || field.OverflowFloat(v) {
			return false
		}
		field.SetFloat(v)
	case bool:
		if field.Kind() != reflect.Bool {
			return false
		}
		field.SetBool(v)
	case string:
		if field.Kind() != reflect.String {
			return false
		}
		field.SetString(v)
	default:
		return false
	}
	return true
}
