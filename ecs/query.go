package ecs

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/kamstrup/intmap"
)

// Query is a cached, incrementally maintained set of entities satisfying a token list.
// A token "T" requires a component of type T or a tag T; "-T" requires that neither is present.
// Queries with the same token set, in any order, share one Query through the Store's index.
type Query struct {
	fingerprint string
	tokens      []string
	required    []string
	excluded    []string

	matches  []*Entity
	position *intmap.Map[EntityId, int]
	refCount int
}

// Fingerprint returns the canonical key of a token list: the tokens sorted and
// joined with ",". The caller's slice is not reordered.
func Fingerprint(tokens ...string) string {
	sorted := slices.Clone(tokens)
	slices.Sort(sorted)
	return strings.Join(sorted, ",")
}

func parseTokens(tokens []string) (required, excluded []string) {
	for _, t := range tokens {
		if name, ok := strings.CutPrefix(t, "-"); ok {
			if name == "" {
				panic(fmt.Errorf("%w: %q", ErrInvalidToken, t))
			}
			excluded = append(excluded, name)
			continue
		}
		if t == "" {
			panic(fmt.Errorf("%w: empty token", ErrInvalidToken))
		}
		required = append(required, t)
	}
	return required, excluded
}

// newQuery builds a query with a reference count of one by scanning entities once.
func newQuery(tokens []string, entities iter.Seq[*Entity]) *Query {
	required, excluded := parseTokens(tokens)
	q := &Query{
		fingerprint: Fingerprint(tokens...),
		tokens:      slices.Clone(tokens),
		required:    required,
		excluded:    excluded,
		position:    intmap.New[EntityId, int](64),
		refCount:    1,
	}

	for entity := range entities {
		q.added(entity)
	}

	return q
}

// Fingerprint returns the query's canonical key.
func (q *Query) Fingerprint() string {
	return q.fingerprint
}

// Tokens returns the token list the query was first registered with.
func (q *Query) Tokens() []string {
	return slices.Clone(q.tokens)
}

// Matches returns the current match set. The slice is owned by the query and is
// only valid until the next structural change; do not modify it.
func (q *Query) Matches() []*Entity {
	return q.matches
}

// Len returns the number of matching entities.
func (q *Query) Len() int {
	return len(q.matches)
}

// Contains reports whether the entity with id is in the match set.
func (q *Query) Contains(id EntityId) bool {
	return q.position.Has(id)
}

// RefCount returns the number of registrations currently holding the query.
func (q *Query) RefCount() int {
	return q.refCount
}

func (q *Query) test(entity *Entity) bool {
	return entity.matches(q.required, q.excluded)
}

func (q *Query) insert(entity *Entity) {
	q.position.Put(entity.id, len(q.matches))
	q.matches = append(q.matches, entity)
}

func (q *Query) delete(id EntityId) {
	idx, ok := q.position.Get(id)
	if !ok {
		return
	}

	last := len(q.matches) - 1
	if idx != last {
		moved := q.matches[last]
		q.matches[idx] = moved
		q.position.Put(moved.id, idx)
	}
	q.matches[last] = nil
	q.matches = q.matches[:last]
	q.position.Del(id)
}

func (q *Query) added(entity *Entity) {
	if q.test(entity) {
		q.insert(entity)
	}
}

func (q *Query) updated(entity *Entity) {
	present := q.position.Has(entity.id)
	matches := q.test(entity)

	switch {
	case matches && !present:
		q.insert(entity)
	case !matches && present:
		q.delete(entity.id)
	}
}

func (q *Query) removed(entity *Entity) {
	q.delete(entity.id)
}

func (q *Query) register() {
	q.refCount++
}

// unregister drops one reference and reports whether none remain.
func (q *Query) unregister() bool {
	q.refCount--
	return q.refCount <= 0
}
