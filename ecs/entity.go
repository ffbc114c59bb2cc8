package ecs

import (
	"log/slog"
	"slices"
)

// EntityId identifies an entity for the lifetime of its Store. Ids are never reused.
type EntityId uint64

// NilEntity is the zero value; no entity is ever allocated this id.
const NilEntity EntityId = 0

// Component is a typed data fragment attached to an entity. ComponentType is the
// discriminant used for lookup and query matching. Several components of the
// same type may be attached to one entity.
type Component interface {
	ComponentType() string
}

// Entity is an identity with an ordered list of components and a set of tags.
// All structural mutation goes through its methods so the owning Store can keep
// queries up to date.
type Entity struct {
	id         EntityId
	components []Component
	tags       []string
	store      *Store
}

// ID returns the entity id.
func (e *Entity) ID() EntityId {
	return e.id
}

// Alive reports whether the entity still belongs to a store.
func (e *Entity) Alive() bool {
	return e.store != nil
}

func (e *Entity) logger() *slog.Logger {
	if e.store != nil {
		return e.store.logger
	}
	return slog.Default()
}

func (e *Entity) changed() {
	if e.store != nil {
		e.store.notifyUpdated(e)
	}
}

// HasTag reports whether the entity carries tag.
func (e *Entity) HasTag(tag string) bool {
	return slices.Contains(e.tags, tag)
}

// Tags returns a copy of the entity's tags in insertion order.
func (e *Entity) Tags() []string {
	return slices.Clone(e.tags)
}

// AddTag attaches tag. Adding a tag the entity already has logs a warning and
// changes nothing.
func (e *Entity) AddTag(tag string) {
	if e.HasTag(tag) {
		e.logger().Warn("entity already has tag, ignoring add", "id", e.id, "tag", tag)
		return
	}
	e.tags = append(e.tags, tag)
	e.changed()
}

// AddTags attaches every tag not already present and notifies once.
func (e *Entity) AddTags(tags ...string) {
	added := false
	for _, tag := range tags {
		if e.HasTag(tag) {
			e.logger().Warn("entity already has tag, ignoring add", "id", e.id, "tag", tag)
			continue
		}
		e.tags = append(e.tags, tag)
		added = true
	}
	if added {
		e.changed()
	}
}

// RemoveTag detaches tag. Removing an absent tag logs a warning and changes nothing.
func (e *Entity) RemoveTag(tag string) {
	idx := slices.Index(e.tags, tag)
	if idx < 0 {
		e.logger().Warn("entity does not have tag, ignoring remove", "id", e.id, "tag", tag)
		return
	}
	e.tags = slices.Delete(e.tags, idx, idx+1)
	e.changed()
}

// RemoveTags detaches every listed tag that is present and notifies once.
func (e *Entity) RemoveTags(tags ...string) {
	removed := false
	for _, tag := range tags {
		idx := slices.Index(e.tags, tag)
		if idx < 0 {
			e.logger().Warn("entity does not have tag, ignoring remove", "id", e.id, "tag", tag)
			continue
		}
		e.tags = slices.Delete(e.tags, idx, idx+1)
		removed = true
	}
	if removed {
		e.changed()
	}
}

// Has reports whether the entity has at least one component of componentType.
func (e *Entity) Has(componentType string) bool {
	return e.indexOf(componentType) >= 0
}

// Components returns a copy of the entity's component list.
func (e *Entity) Components() []Component {
	return slices.Clone(e.components)
}

// GetOne returns the first component of componentType.
func (e *Entity) GetOne(componentType string) (Component, bool) {
	idx := e.indexOf(componentType)
	if idx < 0 {
		return nil, false
	}
	return e.components[idx], true
}

// GetAll returns every component of componentType in attachment order.
func (e *Entity) GetAll(componentType string) []Component {
	var out []Component
	for _, c := range e.components {
		if c.ComponentType() == componentType {
			out = append(out, c)
		}
	}
	return out
}

// AddOne attaches a component.
func (e *Entity) AddOne(component Component) {
	e.components = append(e.components, component)
	e.changed()
}

// AddAll attaches components in order and notifies once. An empty call is a no-op.
func (e *Entity) AddAll(components ...Component) {
	if len(components) == 0 {
		return
	}
	e.components = append(e.components, components...)
	e.changed()
}

// RemoveOne detaches the first component of componentType. It returns false,
// with a warning, when there is none.
func (e *Entity) RemoveOne(componentType string) bool {
	idx := e.indexOf(componentType)
	if idx < 0 {
		e.logger().Warn("entity has no component of type, ignoring remove", "id", e.id, "type", componentType)
		return false
	}
	e.components = slices.Delete(e.components, idx, idx+1)
	e.changed()
	return true
}

// RemoveAll detaches every component of componentType and returns how many were removed.
func (e *Entity) RemoveAll(componentType string) int {
	before := len(e.components)
	e.components = slices.DeleteFunc(e.components, func(c Component) bool {
		return c.ComponentType() == componentType
	})
	removed := before - len(e.components)
	if removed == 0 {
		e.logger().Warn("entity has no component of type, ignoring remove", "id", e.id, "type", componentType)
		return 0
	}
	e.changed()
	return removed
}

// Matches reports whether the entity satisfies every query token.
func (e *Entity) Matches(tokens ...string) bool {
	required, excluded := parseTokens(tokens)
	return e.matches(required, excluded)
}

func (e *Entity) matches(required, excluded []string) bool {
	for _, t := range required {
		if !e.hasTypeOrTag(t) {
			return false
		}
	}
	for _, t := range excluded {
		if e.hasTypeOrTag(t) {
			return false
		}
	}
	return true
}

func (e *Entity) hasTypeOrTag(name string) bool {
	return e.Has(name) || e.HasTag(name)
}

func (e *Entity) indexOf(componentType string) int {
	return slices.IndexFunc(e.components, func(c Component) bool {
		return c.ComponentType() == componentType
	})
}

// First returns the first component of the entity whose dynamic type is T.
func First[T Component](e *Entity) (T, bool) {
	for _, c := range e.components {
		if v, ok := c.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Each returns every component of the entity whose dynamic type is T.
func Each[T Component](e *Entity) []T {
	var out []T
	for _, c := range e.components {
		if v, ok := c.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
