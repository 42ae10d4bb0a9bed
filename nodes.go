package shardgraph

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/dreamware/shardgraph/internal/apierr"
	"github.com/dreamware/shardgraph/internal/propstore"
)

// NodeAdd creates a node of typeID/typeName with key and props, routed to
// its owning shard by hashing typeName and key. It fails with an
// ErrDuplicateKey Error if key is already live for this type.
func (db *Database) NodeAdd(ctx context.Context, typeID uint16, typeName, key string, props map[string]any) (uint64, error) {
	return db.router.NodeAdd(ctx, typeID, typeName, key, props)
}

// NodeAddEmpty creates a node of typeID/typeName with key and no
// properties.
func (db *Database) NodeAddEmpty(ctx context.Context, typeID uint16, typeName, key string) (uint64, error) {
	return db.router.NodeAdd(ctx, typeID, typeName, key, nil)
}

// NodeBatchEntry is one row of a NodeAddMany call.
type NodeBatchEntry struct {
	Key        string
	Properties map[string]any
}

// NodeAddMany creates one node per entries, all of typeID/typeName. A key
// repeated later in entries than its first occurrence is not attempted
// again — its slot in the returned slice is 0, matching the key already
// present in the store (whether that key's node was created earlier in
// this same call, or already existed before it).
func (db *Database) NodeAddMany(ctx context.Context, typeID uint16, typeName string, entries []NodeBatchEntry) ([]uint64, error) {
	seen := make(map[string]bool, len(entries))
	ids := make([]uint64, len(entries))
	for i, e := range entries {
		if seen[e.Key] {
			continue
		}
		seen[e.Key] = true

		id, err := db.router.NodeAdd(ctx, typeID, typeName, e.Key, e.Properties)
		if err != nil {
			if apiErr, ok := err.(*apierr.Error); ok && apiErr.Kind == apierr.DuplicateKey {
				continue
			}
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// NodeGetID resolves (typeName, key) to an external id via the same
// routing NodeAdd uses, returning 0 if not found.
func (db *Database) NodeGetID(ctx context.Context, typeID uint16, typeName, key string) (uint64, error) {
	return db.router.NodeGetID(ctx, typeID, typeName, key)
}

// NodeGet returns the full record for id, or ok=false if id is invalid
// or tombstoned.
func (db *Database) NodeGet(ctx context.Context, id uint64) (Node, bool, error) {
	return db.router.NodeGet(ctx, id)
}

// NodesGet looks up every id in ids, partitioning the work by owning
// shard and dropping any that are invalid or tombstoned.
func (db *Database) NodesGet(ctx context.Context, ids []uint64) ([]Node, error) {
	return db.router.NodesGet(ctx, ids)
}

// NodeGetKey returns just id's key.
func (db *Database) NodeGetKey(ctx context.Context, id uint64) (string, bool, error) {
	return db.router.NodeGetKey(ctx, id)
}

// NodeGetType returns id's type name, or ok=false if id is invalid or
// tombstoned.
func (db *Database) NodeGetType(ctx context.Context, id uint64) (string, bool, error) {
	node, ok, err := db.router.NodeGet(ctx, id)
	return node.Type, ok, err
}

// NodeGetProperty returns the value of name on id.
func (db *Database) NodeGetProperty(ctx context.Context, id uint64, name string) (propstore.Value, bool, error) {
	return db.router.NodeGetProperty(ctx, id, name)
}

// NodeSetProperty sets a single property on id.
func (db *Database) NodeSetProperty(ctx context.Context, id uint64, name string, value any) error {
	return db.router.NodeSetProperty(ctx, id, name, value)
}

// NodeSetProperties merges props into id's property cells.
func (db *Database) NodeSetProperties(ctx context.Context, id uint64, props map[string]any) error {
	return db.router.NodeSetProperties(ctx, id, props)
}

// NodeSetPropertiesFromJson decodes a JSON object and merges its fields
// into id's property cells.
func (db *Database) NodeSetPropertiesFromJson(ctx context.Context, id uint64, jsonProps []byte) error {
	props, err := decodePropsJSON(jsonProps)
	if err != nil {
		return err
	}
	return db.router.NodeSetProperties(ctx, id, props)
}

// NodeResetProperties replaces id's entire property row: every declared
// column is first tombstoned, then props is applied.
func (db *Database) NodeResetProperties(ctx context.Context, id uint64, props map[string]any) error {
	return db.router.NodeResetProperties(ctx, id, props)
}

// NodeResetPropertiesFromJson is NodeResetProperties, decoding props from
// a JSON object.
func (db *Database) NodeResetPropertiesFromJson(ctx context.Context, id uint64, jsonProps []byte) error {
	props, err := decodePropsJSON(jsonProps)
	if err != nil {
		return err
	}
	return db.router.NodeResetProperties(ctx, id, props)
}

// NodeDeleteProperty tombstones a single property cell on id.
func (db *Database) NodeDeleteProperty(ctx context.Context, id uint64, name string) error {
	return db.router.NodeDeleteProperty(ctx, id, name)
}

// NodeDeleteProperties tombstones every property cell on id.
func (db *Database) NodeDeleteProperties(ctx context.Context, id uint64) error {
	return db.router.NodeDeleteProperties(ctx, id)
}

// NodeGetDegree counts id's adjacency links matching direction and the
// (optional) relationship-type filter.
func (db *Database) NodeGetDegree(ctx context.Context, id uint64, dir Direction, filter TypeFilter) (int, error) {
	return db.router.NodeGetDegree(ctx, id, dir, filter)
}

// NodeGetNeighborIds returns the ids of every node reachable from id by
// one hop in direction dir restricted to filter.
func (db *Database) NodeGetNeighborIds(ctx context.Context, id uint64, dir Direction, filter TypeFilter) ([]uint64, error) {
	return db.router.NodeGetNeighborIds(ctx, id, dir, filter)
}

// NodeGetNeighbors resolves id's one-hop neighbors to full node records.
func (db *Database) NodeGetNeighbors(ctx context.Context, id uint64, dir Direction, filter TypeFilter) ([]Node, error) {
	return db.router.NodeGetNeighbors(ctx, id, dir, filter)
}

// NodeGetRelationshipsIDs returns the relationship ids incident on id in
// direction dir restricted to filter.
func (db *Database) NodeGetRelationshipsIDs(ctx context.Context, id uint64, dir Direction, filter TypeFilter) ([]uint64, error) {
	return db.router.NodeGetRelationshipsIDs(ctx, id, dir, filter)
}

// NodeGetOutgoingRelationships returns the full relationship records for
// id's outgoing links restricted to filter.
func (db *Database) NodeGetOutgoingRelationships(ctx context.Context, id uint64, filter TypeFilter) ([]Relationship, error) {
	return db.router.NodeGetOutgoingRelationships(ctx, id, filter)
}

// NodeGetShardedRelationshipIDs partitions id's incident relationship
// ids (direction dir, restricted by filter) by owning shard.
func (db *Database) NodeGetShardedRelationshipIDs(ctx context.Context, id uint64, dir Direction, filter TypeFilter) (map[uint16][]uint64, error) {
	return db.router.NodeGetShardedRelationshipIDs(ctx, id, dir, filter)
}

// NodeRemove destroys the node named by id and every relationship
// incident on it, across shards.
func (db *Database) NodeRemove(ctx context.Context, id uint64) error {
	return db.router.NodeRemove(ctx, id)
}

// decodePropsJSON decodes a JSON object into a property map, using
// UseNumber so integer and floating-point literals stay distinguishable
// for propstore's coercion rules (see internal/propstore's coerce.go).
func decodePropsJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var props map[string]any
	if err := dec.Decode(&props); err != nil {
		return nil, apierr.New(apierr.CoercionFailure, "invalid property JSON: %v", err)
	}
	return props, nil
}
