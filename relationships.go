package shardgraph

import (
	"context"

	"github.com/dreamware/shardgraph/internal/propstore"
)

// RelationshipAdd creates a relationship of relTypeID from id1 to id2. If
// both nodes are on the same shard, a single local round trip does the
// whole job; otherwise it runs the three-step cross-shard protocol,
// including a documented partial-failure window between creating the
// relationship/outgoing link and adding id2's incoming link: if id2 is
// removed in that window, RelationshipAdd returns the already-created
// relationship id alongside an ErrPartialCrossShardFailure Error.
func (db *Database) RelationshipAdd(ctx context.Context, relTypeID uint16, id1, id2 uint64, props map[string]any) (uint64, error) {
	return db.router.RelationshipAdd(ctx, relTypeID, id1, id2, props)
}

// RelationshipRemove destroys relID. Removing an already-gone
// relationship is a no-op.
func (db *Database) RelationshipRemove(ctx context.Context, relID uint64) error {
	return db.router.RelationshipRemove(ctx, relID)
}

// RelationshipGet returns the full record for id, or ok=false if id is
// invalid or tombstoned.
func (db *Database) RelationshipGet(ctx context.Context, id uint64) (Relationship, bool, error) {
	return db.router.RelationshipGet(ctx, id)
}

// RelationshipsGet looks up each id in ids, skipping any that are
// invalid or tombstoned.
func (db *Database) RelationshipsGet(ctx context.Context, ids []uint64) ([]Relationship, error) {
	return db.router.RelationshipsGet(ctx, ids)
}

// RelationshipsGetSharded fetches the relationship ids gathered by
// NodeGetShardedRelationshipIDs, one round trip per owning shard run in
// parallel.
func (db *Database) RelationshipsGetSharded(ctx context.Context, byShard map[uint16][]uint64) ([]Relationship, error) {
	return db.router.RelationshipsGetSharded(ctx, byShard)
}

// RelationshipGetType returns id's type name, or ok=false if id is
// invalid or tombstoned.
func (db *Database) RelationshipGetType(ctx context.Context, id uint64) (string, bool, error) {
	rel, ok, err := db.router.RelationshipGet(ctx, id)
	return rel.Type, ok, err
}

// RelationshipGetProperty returns the value of name on relationship id.
func (db *Database) RelationshipGetProperty(ctx context.Context, id uint64, name string) (propstore.Value, bool, error) {
	return db.router.RelationshipGetProperty(ctx, id, name)
}

// RelationshipSetProperty sets a single property on relationship id.
func (db *Database) RelationshipSetProperty(ctx context.Context, id uint64, name string, value any) error {
	return db.router.RelationshipSetProperty(ctx, id, name, value)
}

// RelationshipSetPropertiesFromJson decodes a JSON object and applies
// each field as a RelationshipSetProperty call.
func (db *Database) RelationshipSetPropertiesFromJson(ctx context.Context, id uint64, jsonProps []byte) error {
	props, err := decodePropsJSON(jsonProps)
	if err != nil {
		return err
	}
	for name, value := range props {
		if err := db.router.RelationshipSetProperty(ctx, id, name, value); err != nil {
			return err
		}
	}
	return nil
}

// RelationshipDeleteProperty tombstones a single property cell on
// relationship id.
func (db *Database) RelationshipDeleteProperty(ctx context.Context, id uint64, name string) error {
	return db.router.RelationshipDeleteProperty(ctx, id, name)
}
