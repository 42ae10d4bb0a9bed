package graphstore

import (
	"github.com/dreamware/shardgraph/internal/propstore"
	"github.com/dreamware/shardgraph/internal/registry"
)

// NodeTypeStore holds one node type's columnar storage on one shard:
// keys, adjacency groups, properties, and the deleted-offset pool. The
// key->offset map (not key->external id, per spec.md §4.4's design note)
// means a shard renumbering or id-width change would never invalidate it.
type NodeTypeStore struct {
	Properties  *propstore.PropertyStore
	keys        []string
	keyToOffset map[string]int
	outgoing    [][]Group
	incoming    [][]Group
	deleted     *offsetPool
	everCreated int
}

// NewNodeTypeStore returns an empty store backed by schema for property
// coercion.
func NewNodeTypeStore(schema *registry.TypeSchema) *NodeTypeStore {
	return &NodeTypeStore{
		Properties:  propstore.NewPropertyStore(schema),
		keyToOffset: make(map[string]int),
		deleted:     newOffsetPool(),
	}
}

// grow extends every parallel vector up to length n, leaving new slots
// empty/zero.
func (s *NodeTypeStore) grow(n int) {
	for len(s.keys) < n {
		s.keys = append(s.keys, "")
		s.outgoing = append(s.outgoing, nil)
		s.incoming = append(s.incoming, nil)
	}
}

// Add inserts key, reusing the minimum deleted offset if one exists or
// appending otherwise, and returns the new offset. Add does not check for
// duplicate keys; callers (internal/router's NodeAdd) must call
// OffsetForKey first and reject duplicates per spec.md's duplicate-key
// error.
func (s *NodeTypeStore) Add(key string) int {
	offset, reused := s.deleted.Reuse()
	if !reused {
		offset = len(s.keys)
	}
	s.grow(offset + 1)
	s.keys[offset] = key
	s.outgoing[offset] = nil
	s.incoming[offset] = nil
	s.keyToOffset[key] = offset
	s.everCreated++
	return offset
}

// OffsetForKey returns the offset assigned to key, if key is live.
func (s *NodeTypeStore) OffsetForKey(key string) (int, bool) {
	offset, ok := s.keyToOffset[key]
	if !ok || s.deleted.IsDeleted(offset) {
		return 0, false
	}
	return offset, true
}

// Key returns the key stored at offset.
func (s *NodeTypeStore) Key(offset int) (string, bool) {
	if !s.Live(offset) {
		return "", false
	}
	return s.keys[offset], true
}

// Live reports whether offset currently names a live (non-deleted,
// in-bounds) node.
func (s *NodeTypeStore) Live(offset int) bool {
	return offset >= 0 && offset < len(s.keys) && !s.deleted.IsDeleted(offset)
}

// Count returns the number of live nodes of this type.
func (s *NodeTypeStore) Count() int {
	return len(s.keys) - s.deleted.Len()
}

// Offsets returns every live offset in ascending order, for FilterCore's
// column-at-a-time per-shard scans.
func (s *NodeTypeStore) Offsets() []int {
	out := make([]int, 0, s.Count())
	for offset := range s.keys {
		if !s.deleted.IsDeleted(offset) {
			out = append(out, offset)
		}
	}
	return out
}

// EverCreated returns the running count of nodes ever created for this
// type, independent of later deletions (recovered from the original
// engine's per-type counters; see SPEC_FULL.md §3).
func (s *NodeTypeStore) EverCreated() int {
	return s.everCreated
}

// Outgoing returns the outgoing adjacency groups for offset.
func (s *NodeTypeStore) Outgoing(offset int) []Group {
	if offset < 0 || offset >= len(s.outgoing) {
		return nil
	}
	return s.outgoing[offset]
}

// Incoming returns the incoming adjacency groups for offset.
func (s *NodeTypeStore) Incoming(offset int) []Group {
	if offset < 0 || offset >= len(s.incoming) {
		return nil
	}
	return s.incoming[offset]
}

// AddOutgoing records an outgoing link of relType from offset to link,
// preserving sortedness within the group.
func (s *NodeTypeStore) AddOutgoing(offset int, relType uint16, link Link) {
	s.outgoing[offset] = insertLink(s.outgoing[offset], relType, link)
}

// AddIncoming records an incoming link of relType into offset from link.
func (s *NodeTypeStore) AddIncoming(offset int, relType uint16, link Link) {
	s.incoming[offset] = insertLink(s.incoming[offset], relType, link)
}

// RemoveOutgoing deletes an outgoing link of relType from offset.
func (s *NodeTypeStore) RemoveOutgoing(offset int, relType uint16, link Link) {
	if offset >= 0 && offset < len(s.outgoing) {
		removeLink(s.outgoing[offset], relType, link)
	}
}

// RemoveIncoming deletes an incoming link of relType from offset.
func (s *NodeTypeStore) RemoveIncoming(offset int, relType uint16, link Link) {
	if offset >= 0 && offset < len(s.incoming) {
		removeLink(s.incoming[offset], relType, link)
	}
}

// Remove tombstones offset: clears its key from the key map, clears
// adjacency, tombstones its properties, and frees the offset for reuse.
// It does not touch relationships incident on the node — that
// cross-shard cleanup is internal/router's job (spec.md §4.7).
func (s *NodeTypeStore) Remove(offset int) {
	if !s.Live(offset) {
		return
	}
	delete(s.keyToOffset, s.keys[offset])
	s.keys[offset] = ""
	s.outgoing[offset] = nil
	s.incoming[offset] = nil
	s.Properties.DeleteProperties(offset)
	s.deleted.Free(offset)
}
