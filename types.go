package shardgraph

import "context"

// NodeTypeInsert returns the id for name, allocating and replicating a
// new one across every shard if name hasn't been declared yet.
func (db *Database) NodeTypeInsert(ctx context.Context, name string) (uint16, error) {
	return db.router.NodeTypeInsert(ctx, name)
}

// NodeTypeGet returns the id assigned to name, and whether it exists.
func (db *Database) NodeTypeGet(ctx context.Context, name string) (uint16, bool, error) {
	return db.router.NodeTypeGet(ctx, name)
}

// NodeTypeCount returns the number of live node types.
func (db *Database) NodeTypeCount(ctx context.Context) (int, error) {
	return db.router.NodeTypeCount(ctx)
}

// NodeTypeNames returns the names of every live node type.
func (db *Database) NodeTypeNames(ctx context.Context) ([]string, error) {
	return db.router.NodeTypeNames(ctx)
}

// NodeTypeDelete deletes node type name, failing with an ErrTypeInUse
// Error if any shard still holds a live node of that type.
func (db *Database) NodeTypeDelete(ctx context.Context, name string) error {
	return db.router.NodeTypeDelete(ctx, name)
}

// RelationshipTypeInsert is NodeTypeInsert's symmetric twin for
// relationship types.
func (db *Database) RelationshipTypeInsert(ctx context.Context, name string) (uint16, error) {
	return db.router.RelationshipTypeInsert(ctx, name)
}

// RelationshipTypeGet returns the id assigned to name, and whether it
// exists.
func (db *Database) RelationshipTypeGet(ctx context.Context, name string) (uint16, bool, error) {
	return db.router.RelationshipTypeGet(ctx, name)
}

// RelationshipTypeCount returns the number of live relationship types.
func (db *Database) RelationshipTypeCount(ctx context.Context) (int, error) {
	return db.router.RelationshipTypeCount(ctx)
}

// RelationshipTypeNames returns the names of every live relationship
// type.
func (db *Database) RelationshipTypeNames(ctx context.Context) ([]string, error) {
	return db.router.RelationshipTypeNames(ctx)
}

// RelationshipTypeDelete deletes relationship type name, failing with an
// ErrTypeInUse Error if any shard still holds a live relationship of
// that type.
func (db *Database) RelationshipTypeDelete(ctx context.Context, name string) error {
	return db.router.RelationshipTypeDelete(ctx, name)
}

// NodePropertyTypeAdd declares name as a column of kind on node type
// typeID.
func (db *Database) NodePropertyTypeAdd(ctx context.Context, typeID uint16, typeName, name string, kind PropertyKind) error {
	return db.router.NodePropertyTypeAdd(ctx, typeID, typeName, name, kind)
}

// NodePropertyTypeGet returns the declared kind for name on node type
// typeID, and whether it is live.
func (db *Database) NodePropertyTypeGet(ctx context.Context, typeID uint16, name string) (PropertyKind, bool, error) {
	return db.router.NodePropertyTypeGet(ctx, typeID, name)
}

// NodePropertyTypeDelete tombstones name's declaration on node type
// typeID.
func (db *Database) NodePropertyTypeDelete(ctx context.Context, typeID uint16, name string) error {
	return db.router.NodePropertyTypeDelete(ctx, typeID, name)
}

// RelationshipPropertyTypeAdd is NodePropertyTypeAdd's symmetric twin for
// relationship types.
func (db *Database) RelationshipPropertyTypeAdd(ctx context.Context, typeID uint16, typeName, name string, kind PropertyKind) error {
	return db.router.RelationshipPropertyTypeAdd(ctx, typeID, typeName, name, kind)
}

// RelationshipPropertyTypeGet returns the declared kind for name on
// relationship type typeID, and whether it is live.
func (db *Database) RelationshipPropertyTypeGet(ctx context.Context, typeID uint16, name string) (PropertyKind, bool, error) {
	return db.router.RelationshipPropertyTypeGet(ctx, typeID, name)
}

// RelationshipPropertyTypeDelete tombstones name's declaration on
// relationship type typeID.
func (db *Database) RelationshipPropertyTypeDelete(ctx context.Context, typeID uint16, name string) error {
	return db.router.RelationshipPropertyTypeDelete(ctx, typeID, name)
}
