package debugui

import (
	"reflect"
	"sync"

	"github.com/plus3/hookworld/ecs"
)

// fieldEditor selects the widget the inspector draws for a field.
type fieldEditor uint8

const (
	editorReadOnly fieldEditor = iota
	editorInt
	editorUint
	editorFloat
	editorBool
	editorString
	editorStruct
	editorCollection
)

func editorFor(kind reflect.Kind) fieldEditor {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return editorInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return editorUint
	case reflect.Float32, reflect.Float64:
		return editorFloat
	case reflect.Bool:
		return editorBool
	case reflect.String:
		return editorString
	case reflect.Struct:
		return editorStruct
	case reflect.Slice, reflect.Array, reflect.Map:
		return editorCollection
	default:
		return editorReadOnly
	}
}

// FieldInfo describes one exported field of a component struct. Type and Kind
// are those of the pointed-to value when IsPointer is set.
type FieldInfo struct {
	Name      string
	Index     int
	Type      reflect.Type
	Kind      reflect.Kind
	IsPointer bool

	editor fieldEditor
}

// Editable reports whether the inspector draws an input widget for the field.
func (f FieldInfo) Editable() bool {
	return f.editor >= editorInt && f.editor <= editorString
}

// fieldLayouts caches the inspectable fields of each struct type the
// inspector has drawn. Components are usually pointers, so lookups go through
// the element type.
type fieldLayouts struct {
	mu      sync.Mutex
	layouts map[reflect.Type][]FieldInfo
}

func newFieldLayouts() *fieldLayouts {
	return &fieldLayouts{layouts: make(map[reflect.Type][]FieldInfo)}
}

// ComponentFields returns the fields of the struct behind component.
func (fl *fieldLayouts) ComponentFields(component ecs.Component) []FieldInfo {
	return fl.Fields(reflect.TypeOf(component))
}

// Fields returns the exported fields of t, or of its element type when t is a
// pointer. Non-struct types have none.
func (fl *fieldLayouts) Fields(t reflect.Type) []FieldInfo {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	fl.mu.Lock()
	defer fl.mu.Unlock()

	if layout, ok := fl.layouts[t]; ok {
		return layout
	}

	layout := layoutOf(t)
	fl.layouts[t] = layout
	return layout
}

// Len returns the number of struct types laid out so far.
func (fl *fieldLayouts) Len() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return len(fl.layouts)
}

func layoutOf(t reflect.Type) []FieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var layout []FieldInfo
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		info := FieldInfo{Name: sf.Name, Index: i, Type: sf.Type}
		if sf.Type.Kind() == reflect.Pointer {
			info.IsPointer = true
			info.Type = sf.Type.Elem()
		}
		info.Kind = info.Type.Kind()
		info.editor = editorFor(info.Kind)
		layout = append(layout, info)
	}
	return layout
}

var layouts = newFieldLayouts()
