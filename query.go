package shardgraph

import "context"

// FindNodeCount returns the number of nodes of typeID matching
// predicate.
func (db *Database) FindNodeCount(ctx context.Context, typeID uint16, predicate Predicate) (int, error) {
	return db.router.FindNodeCount(ctx, typeID, predicate)
}

// FindNodeIds returns the ids of nodes of typeID matching q's predicate,
// paginated and optionally sorted per q.
func (db *Database) FindNodeIds(ctx context.Context, typeID uint16, q Query) ([]uint64, error) {
	return db.router.FindNodeIds(ctx, typeID, q)
}

// FindNodes returns the full records of nodes of typeID matching q.
func (db *Database) FindNodes(ctx context.Context, typeID uint16, q Query) ([]Node, error) {
	return db.router.FindNodes(ctx, typeID, q)
}

// FilterNodeIds narrows an existing id set to those matching predicate,
// via a sharded bulk gather rather than a full per-type scan.
func (db *Database) FilterNodeIds(ctx context.Context, ids []uint64, predicate Predicate) ([]uint64, error) {
	return db.router.FilterNodeIds(ctx, ids, predicate)
}

// FindRelationshipCount returns the number of relationships of typeID
// matching predicate.
func (db *Database) FindRelationshipCount(ctx context.Context, typeID uint16, predicate Predicate) (int, error) {
	return db.router.FindRelationshipCount(ctx, typeID, predicate)
}

// FindRelationshipIds returns the ids of relationships of typeID matching
// q's predicate, paginated and optionally sorted per q.
func (db *Database) FindRelationshipIds(ctx context.Context, typeID uint16, q Query) ([]uint64, error) {
	return db.router.FindRelationshipIds(ctx, typeID, q)
}

// FindRelationships returns the full records of relationships of typeID
// matching q.
func (db *Database) FindRelationships(ctx context.Context, typeID uint16, q Query) ([]Relationship, error) {
	return db.router.FindRelationships(ctx, typeID, q)
}

// FilterRelationshipIds narrows an existing relationship id set to those
// matching predicate, via a sharded bulk gather.
func (db *Database) FilterRelationshipIds(ctx context.Context, ids []uint64, predicate Predicate) ([]uint64, error) {
	return db.router.FilterRelationshipIds(ctx, ids, predicate)
}
