// Package repository provides the ID-indexed entity arenas the market
// core is built on. Entities never hold owning references to each other;
// they hold IDs, and components resolve those IDs through a Repository at
// use sites. This keeps the person/family/household/dwelling object graph
// acyclic in memory and safe to read concurrently from multiple goroutines
// between mutation barriers.
package repository

import "github.com/vtuos/housingmarket/internal/models"

// Identifiable is the constraint entity types stored in a Repository
// must satisfy, so AddNew can stamp the ID it assigns back onto the
// entity itself. Every cross-entity reference in this core (a
// household's dwelling, a dwelling's occupant) is carried as a plain
// models.ID read off the referenced entity, not as a repository lookup
// key threaded separately.
type Identifiable interface {
	SetID(models.ID)
}

// Repository is an append-only, iterable, ID-indexed collection. IDs are
// assigned on insertion and are never reused; removing an entity leaves a
// hole rather than renumbering survivors. Concurrent mutation during
// iteration is not supported; callers batch writes outside iteration
// windows.
type Repository[T Identifiable] struct {
	order   []models.ID
	entries map[models.ID]T
	next    models.ID
}

// New creates an empty repository. The first entity inserted gets ID 1;
// 0 is reserved for models.NoID.
func New[T Identifiable]() *Repository[T] {
	return &Repository[T]{
		entries: make(map[models.ID]T),
		next:    1,
	}
}

// AddNew inserts entity, assigns it the next free ID, stamps that ID
// onto the entity via SetID, and returns it.
func (r *Repository[T]) AddNew(entity T) models.ID {
	id := r.next
	r.next++
	entity.SetID(id)
	r.order = append(r.order, id)
	r.entries[id] = entity
	return id
}

// Get retrieves the entity for id. It panics if id is not present: a
// caller holding an ID from this repository is expected to have verified
// it still exists, or to use TryGet when that isn't guaranteed.
func (r *Repository[T]) Get(id models.ID) T {
	v, ok := r.entries[id]
	if !ok {
		panic("repository: get of unknown id")
	}
	return v
}

// TryGet retrieves the entity for id, reporting whether it was found.
func (r *Repository[T]) TryGet(id models.ID) (T, bool) {
	v, ok := r.entries[id]
	return v, ok
}

// Set overwrites the entity stored at id. id must already exist.
func (r *Repository[T]) Set(id models.ID, entity T) {
	if _, ok := r.entries[id]; !ok {
		panic("repository: set of unknown id")
	}
	r.entries[id] = entity
}

// Remove deletes the entity for id. Surviving IDs are not renumbered.
func (r *Repository[T]) Remove(id models.ID) {
	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of live entities.
func (r *Repository[T]) Len() int {
	return len(r.order)
}

// Iter calls fn for every live entity in insertion order. fn returning
// false stops the iteration early.
func (r *Repository[T]) Iter(fn func(id models.ID, entity T) bool) {
	for _, id := range r.order {
		v, ok := r.entries[id]
		if !ok {
			continue
		}
		if !fn(id, v) {
			return
		}
	}
}

// All returns every live entity, in insertion order.
func (r *Repository[T]) All() []T {
	out := make([]T, 0, len(r.order))
	r.Iter(func(_ models.ID, v T) bool {
		out = append(out, v)
		return true
	})
	return out
}
