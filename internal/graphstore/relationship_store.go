package graphstore

import (
	"github.com/dreamware/shardgraph/internal/propstore"
	"github.com/dreamware/shardgraph/internal/registry"
)

// RelationshipTypeStore holds one relationship type's columnar storage on
// one shard: starting/ending node ids, properties, and the deleted-offset
// pool. Per spec.md §3's invariant, StartID(offset) is always on this
// same shard; EndID(offset) may be anywhere.
type RelationshipTypeStore struct {
	Properties  *propstore.PropertyStore
	startIDs    []uint64
	endIDs      []uint64
	deleted     *offsetPool
	everCreated int
}

// NewRelationshipTypeStore returns an empty store backed by schema.
func NewRelationshipTypeStore(schema *registry.TypeSchema) *RelationshipTypeStore {
	return &RelationshipTypeStore{
		Properties: propstore.NewPropertyStore(schema),
		deleted:    newOffsetPool(),
	}
}

func (s *RelationshipTypeStore) grow(n int) {
	for len(s.startIDs) < n {
		s.startIDs = append(s.startIDs, 0)
		s.endIDs = append(s.endIDs, 0)
	}
}

// Add allocates a new (or reused) offset for a relationship from startID
// to endID and returns it.
func (s *RelationshipTypeStore) Add(startID, endID uint64) int {
	offset, reused := s.deleted.Reuse()
	if !reused {
		offset = len(s.startIDs)
	}
	s.grow(offset + 1)
	s.startIDs[offset] = startID
	s.endIDs[offset] = endID
	s.everCreated++
	return offset
}

// Live reports whether offset currently names a live relationship.
func (s *RelationshipTypeStore) Live(offset int) bool {
	return offset >= 0 && offset < len(s.startIDs) && !s.deleted.IsDeleted(offset)
}

// Endpoints returns the (startID, endID) pair stored at offset.
func (s *RelationshipTypeStore) Endpoints(offset int) (start, end uint64, ok bool) {
	if !s.Live(offset) {
		return 0, 0, false
	}
	return s.startIDs[offset], s.endIDs[offset], true
}

// Count returns the number of live relationships of this type.
func (s *RelationshipTypeStore) Count() int {
	return len(s.startIDs) - s.deleted.Len()
}

// Offsets returns every live offset in ascending order, for FilterCore's
// column-at-a-time per-shard scans.
func (s *RelationshipTypeStore) Offsets() []int {
	out := make([]int, 0, s.Count())
	for offset := range s.startIDs {
		if !s.deleted.IsDeleted(offset) {
			out = append(out, offset)
		}
	}
	return out
}

// EverCreated returns the running count of relationships ever created for
// this type, independent of later deletions.
func (s *RelationshipTypeStore) EverCreated() int {
	return s.everCreated
}

// Remove tombstones offset: clears its endpoint columns, tombstones its
// properties, and frees the offset for reuse. Adjacency cleanup on the
// endpoint nodes is the caller's (internal/router's) responsibility.
func (s *RelationshipTypeStore) Remove(offset int) {
	if !s.Live(offset) {
		return
	}
	s.startIDs[offset] = 0
	s.endIDs[offset] = 0
	s.Properties.DeleteProperties(offset)
	s.deleted.Free(offset)
}
