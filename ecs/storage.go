package ecs

import (
	"iter"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/kamstrup/intmap"
)

// Store owns entity identity, components and tags, and the index of live queries.
// It is the only mutator of entity data and notifies every live query of each
// structural change synchronously.
type Store struct {
	nextId   EntityId
	entities *intmap.Map[EntityId, *Entity]
	removed  *intmap.Set[EntityId]
	queries  map[string]*Query
	logger   *slog.Logger
}

// NewStore creates an empty store. Ids start at 1.
func NewStore(opts ...Option) *Store {
	cfg := newConfig(opts)
	return &Store{
		nextId:   1,
		entities: intmap.New[EntityId, *Entity](cfg.entityCapacity),
		removed:  intmap.NewSet[EntityId](cfg.entityCapacity),
		queries:  make(map[string]*Query),
		logger:   cfg.logger,
	}
}

// AddEntity creates an entity with a fresh id and returns the id. It panics
// with ErrIdSpaceExhausted once the id counter has wrapped.
func (s *Store) AddEntity(components []Component, tags ...string) EntityId {
	id := s.nextId
	if id == NilEntity {
		panic(ErrIdSpaceExhausted)
	}
	s.nextId++
	s.insert(id, components, tags)
	return id
}

// LoadEntity creates an entity with a caller-supplied id, used when replaying
// persisted state. The id counter is advanced past id so generated ids never
// collide with it. It returns false, with a warning, if id is NilEntity, live,
// previously removed, or the largest id, which is kept back so the counter
// cannot wrap.
func (s *Store) LoadEntity(id EntityId, components []Component, tags ...string) bool {
	switch {
	case id == NilEntity:
		s.logger.Warn("cannot load entity with nil id [not loading]")
		return false
	case id == math.MaxUint64:
		s.logger.Warn("entity id out of range [not loading]", "id", id)
		return false
	case s.entities.Has(id):
		s.logger.Warn("entity id already in use [not loading]", "id", id)
		return false
	case s.removed.Has(id):
		s.logger.Warn("entity id was removed [not loading]", "id", id)
		return false
	}
	if id >= s.nextId {
		s.nextId = id + 1
	}
	return s.insert(id, components, tags)
}

// insert never replaces a live entity.
func (s *Store) insert(id EntityId, components []Component, tags []string) bool {
	if s.entities.Has(id) {
		s.logger.Warn("entity id already in use [not inserting]", "id", id)
		return false
	}

	entity := &Entity{
		id:         id,
		components: slices.Clone(components),
		tags:       make([]string, 0, len(tags)),
		store:      s,
	}
	for _, tag := range tags {
		if entity.HasTag(tag) {
			s.logger.Warn("duplicate initial tag [ignore add]", "id", id, "tag", tag)
			continue
		}
		entity.tags = append(entity.tags, tag)
	}

	for _, q := range s.queries {
		q.added(entity)
	}

	s.entities.Put(id, entity)
	return true
}

// GetEntity looks up an entity. An unknown id logs a warning.
func (s *Store) GetEntity(id EntityId) (*Entity, bool) {
	entity, ok := s.entities.Get(id)
	if !ok {
		s.logger.Warn("entity not found [return nil]", "id", id)
		return nil, false
	}
	return entity, true
}

// RemoveEntity removes an entity after every live query has dropped it.
// An unknown id logs a warning and returns false.
func (s *Store) RemoveEntity(id EntityId) bool {
	entity, ok := s.entities.Get(id)
	if !ok {
		s.logger.Warn("entity not found [not removing]", "id", id)
		return false
	}

	for _, q := range s.queries {
		q.removed(entity)
	}

	s.entities.Del(id)
	s.removed.Add(id)
	entity.store = nil
	return true
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	return s.entities.Len()
}

// Entities iterates over all live entities in no particular order.
// The store must not be structurally modified during iteration.
func (s *Store) Entities() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		s.entities.ForEach(func(_ EntityId, e *Entity) bool {
			return yield(e)
		})
	}
}

func (s *Store) notifyUpdated(entity *Entity) {
	for _, q := range s.queries {
		q.updated(entity)
	}
}

// RegisterQuery returns the shared query for tokens, creating it on first use
// and otherwise taking another reference on it.
func (s *Store) RegisterQuery(tokens ...string) *Query {
	key := Fingerprint(tokens...)
	if q, ok := s.queries[key]; ok {
		q.register()
		return q
	}

	q := newQuery(tokens, s.Entities())
	s.queries[key] = q
	s.logger.Debug("query created", "query", key, "matches", q.Len())
	return q
}

// UnregisterQuery releases one reference on q and drops it from the index when
// none remain. It reports whether the query was dropped.
func (s *Store) UnregisterQuery(q *Query) bool {
	if !q.unregister() {
		return false
	}
	if s.queries[q.fingerprint] == q {
		delete(s.queries, q.fingerprint)
		s.logger.Debug("query dropped", "query", q.fingerprint)
	}
	return true
}

// LookupQuery returns the live query for tokens without taking a reference.
func (s *Store) LookupQuery(tokens ...string) (*Query, bool) {
	q, ok := s.queries[Fingerprint(tokens...)]
	return q, ok
}

// Queries returns the live queries sorted by fingerprint.
func (s *Store) Queries() []*Query {
	out := make([]*Query, 0, len(s.queries))
	for _, q := range s.queries {
		out = append(out, q)
	}
	slices.SortFunc(out, func(a, b *Query) int {
		return strings.Compare(a.fingerprint, b.fingerprint)
	})
	return out
}
