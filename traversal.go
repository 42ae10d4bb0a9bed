package shardgraph

import (
	"context"

	"github.com/dreamware/shardgraph/internal/traversal"
)

// NodeGetNeighborDegrees returns id's one-hop neighbors (direction dir,
// restricted by filter) paired with each neighbor's own degree.
func (db *Database) NodeGetNeighborDegrees(ctx context.Context, id uint64, dir Direction, filter TypeFilter) ([]NeighborDegree, error) {
	return traversal.NodeGetNeighborDegrees(ctx, db.router, id, dir, filter)
}

// KHopIds returns every node reachable from start in exactly 1..hops
// hops (inclusive) in direction dir restricted to filter, excluding
// start itself.
func (db *Database) KHopIds(ctx context.Context, start uint64, hops int, dir Direction, filter TypeFilter) ([]uint64, error) {
	return traversal.KHopIds(ctx, db.router, start, hops, dir, filter)
}

// KHopCount is KHopIds's cardinality-only twin.
func (db *Database) KHopCount(ctx context.Context, start uint64, hops int, dir Direction, filter TypeFilter) (int, error) {
	return traversal.KHopCount(ctx, db.router, start, hops, dir, filter)
}

// TriangleCount counts triangles among nodeIDs, restricted to
// relTypeFilter: for each v in nodeIDs and each outgoing neighbor b of
// v, it counts the nodes that are both one of b's outgoing neighbors
// and one of v's incoming neighbors.
func (db *Database) TriangleCount(ctx context.Context, nodeIDs []uint64, relTypeFilter TypeFilter) (int, error) {
	return traversal.TriangleCount(ctx, db.router, nodeIDs, relTypeFilter)
}
