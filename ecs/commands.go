package ecs

// Commands buffers structural edits so a system can queue them while iterating
// and have them applied once the outermost World.Run returns.
type Commands struct {
	spawns     []spawnCommand
	deletes    []EntityId
	adds       []addComponentCommand
	removes    []removeComponentCommand
	tagAdds    []tagCommand
	tagRemoves []tagCommand
	defers     []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []Component
	tags       []string
}

type addComponentCommand struct {
	entity    EntityId
	component Component
}

type removeComponentCommand struct {
	entity        EntityId
	componentType string
}

type tagCommand struct {
	entity EntityId
	tag    string
}

// Defer queues a function to run after the structural edits.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// AddEntity queues an entity spawn.
func (c *Commands) AddEntity(components []Component, tags ...string) {
	c.spawns = append(c.spawns, spawnCommand{components: components, tags: tags})
}

// RemoveEntity queues an entity removal.
func (c *Commands) RemoveEntity(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues attaching component to entity.
func (c *Commands) AddComponent(entity EntityId, component Component) {
	c.adds = append(c.adds, addComponentCommand{entity: entity, component: component})
}

// RemoveComponent queues detaching the first component of componentType from entity.
func (c *Commands) RemoveComponent(entity EntityId, componentType string) {
	c.removes = append(c.removes, removeComponentCommand{entity: entity, componentType: componentType})
}

// AddTag queues adding tag to entity.
func (c *Commands) AddTag(entity EntityId, tag string) {
	c.tagAdds = append(c.tagAdds, tagCommand{entity: entity, tag: tag})
}

// RemoveTag queues removing tag from entity.
func (c *Commands) RemoveTag(entity EntityId, tag string) {
	c.tagRemoves = append(c.tagRemoves, tagCommand{entity: entity, tag: tag})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) +
		len(c.tagAdds) + len(c.tagRemoves) + len(c.defers)
}

// Flush applies queued commands to store in the order deletes, removals,
// additions, spawns, defers, and resets the buffer. Edits aimed at an entity
// deleted in the same flush are dropped.
func (c *Commands) Flush(store *Store) {
	deleted := make(map[EntityId]bool, len(c.deletes))

	for _, id := range c.deletes {
		if !deleted[id] {
			store.RemoveEntity(id)
			deleted[id] = true
		}
	}

	lookup := func(id EntityId) (*Entity, bool) {
		if deleted[id] {
			return nil, false
		}
		return store.GetEntity(id)
	}

	for _, cmd := range c.removes {
		if e, ok := lookup(cmd.entity); ok {
			e.RemoveOne(cmd.componentType)
		}
	}
	for _, cmd := range c.tagRemoves {
		if e, ok := lookup(cmd.entity); ok {
			e.RemoveTag(cmd.tag)
		}
	}
	for _, cmd := range c.adds {
		if e, ok := lookup(cmd.entity); ok {
			e.AddOne(cmd.component)
		}
	}
	for _, cmd := range c.tagAdds {
		if e, ok := lookup(cmd.entity); ok {
			e.AddTag(cmd.tag)
		}
	}

	for _, cmd := range c.spawns {
		store.AddEntity(cmd.components, cmd.tags...)
	}

	defers := c.defers

	clear(c.spawns)
	clear(c.adds)
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.tagAdds = c.tagAdds[:0]
	c.tagRemoves = c.tagRemoves[:0]
	c.defers = nil

	for _, fn := range defers {
		fn()
	}
}
