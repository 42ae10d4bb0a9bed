package registry

import "fmt"

// ErrSchemaConflict is returned when a property column is redeclared with
// a different scalar kind than it already has.
type ErrSchemaConflict struct {
	Type    string
	Column  string
	Want    string
	Got     string
}

func (e *ErrSchemaConflict) Error() string {
	return fmt.Sprintf("property %s.%s already declared as %s, cannot redeclare as %s", e.Type, e.Column, e.Want, e.Got)
}

// TypeRegistry is a single shard's replica of the name<->id bimap for
// either node types or relationship types (shardgraph keeps one instance
// of each per shard). Id 0 is reserved for "empty/invalid" and is never
// assigned to a real type. Once a name is allocated an id, that id is
// stable for the lifetime of the database: Delete only marks the slot
// empty, it never reclaims or reassigns the numeric id.
//
// TypeRegistry carries no internal locking: it is only ever mutated or
// read from the single goroutine that owns the shard it replicates into.
// Concurrent allocation of the *same* name from different shards is
// serialized upstream, on the coordinator shard, by internal/router.
type TypeRegistry struct {
	namesByID map[uint16]string
	idsByName map[string]uint16
	deleted   map[uint16]bool
	next      uint16
}

// NewTypeRegistry returns an empty registry ready to allocate ids
// starting at 1 (id 0 stays reserved).
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		namesByID: make(map[uint16]string),
		idsByName: make(map[string]uint16),
		deleted:   make(map[uint16]bool),
		next:      1,
	}
}

// GetID returns the id assigned to name, or 0 if name has never been
// allocated (or was deleted and is no longer live).
func (r *TypeRegistry) GetID(name string) uint16 {
	if id, ok := r.idsByName[name]; ok && !r.deleted[id] {
		return id
	}
	return 0
}

// GetName returns the name assigned to id, and whether id currently names
// a live (non-deleted) type.
func (r *TypeRegistry) GetName(id uint16) (string, bool) {
	if id == 0 || r.deleted[id] {
		return "", false
	}
	name, ok := r.namesByID[id]
	return name, ok
}

// AllocateNext reserves the next unused type id for name and installs the
// (name, id) mapping in this replica. Callers (the coordinator) must
// ensure name has not already been allocated before calling this; replica
// application on non-coordinator shards should use Install instead, which
// is idempotent given the exact (name, id) the coordinator chose.
func (r *TypeRegistry) AllocateNext(name string) uint16 {
	id := r.next
	r.next++
	r.Install(name, id)
	return id
}

// Install records an authoritative (name, id) mapping, as broadcast by
// the coordinator. It is idempotent: installing the same mapping twice is
// a no-op, and it un-deletes the slot if it had been previously deleted
// and is now being recreated under the same id (which never happens in
// practice, since deleted ids are never reused for types, but Install
// stays defensive about it).
func (r *TypeRegistry) Install(name string, id uint16) {
	r.namesByID[id] = name
	r.idsByName[name] = id
	delete(r.deleted, id)
	if id >= r.next {
		r.next = id + 1
	}
}

// Delete marks id's slot empty on this replica. The id itself is never
// reused: Count, Names, and GetID/GetName all treat a deleted id as gone,
// but a future AllocateNext will still pick next unallocated id, never a
// previously-deleted one.
func (r *TypeRegistry) Delete(id uint16) {
	r.deleted[id] = true
}

// Count returns the number of live (non-deleted) type ids in this
// replica.
func (r *TypeRegistry) Count() int {
	n := 0
	for id := range r.namesByID {
		if !r.deleted[id] {
			n++
		}
	}
	return n
}

// Names returns the names of every live type, in no particular order.
func (r *TypeRegistry) Names() []string {
	names := make([]string, 0, len(r.namesByID))
	for id, name := range r.namesByID {
		if !r.deleted[id] {
			names = append(names, name)
		}
	}
	return names
}
