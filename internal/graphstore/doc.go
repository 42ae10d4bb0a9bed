// Package graphstore implements the per-type, per-shard storage for nodes
// and relationships described in spec.md §4.4/§4.5: columnar key/adjacency
// vectors indexed by offset, sorted adjacency groups, and deleted-offset
// recycling.
//
// # Adjacency
//
// Each node holds two adjacency lists — outgoing and incoming — each a
// sequence of Groups. A Group is (relationship-type id, sorted []Link)
// where a Link pairs a peer node's external id with the connecting
// relationship's external id. Groups appear in the order their
// relationship type was first used on that node; within a group, Links
// stay sorted by (NodeID, RelID) via binary-search insertion. A neighbor
// list gathered across several groups is not sorted as a whole, so
// internal/traversal's TriangleCount sorts those lists before
// intersecting them.
//
// # Offset recycling
//
// Deleting a node or relationship frees its offset into a per-type
// offsetPool, which always hands back the minimum free offset on reuse —
// "reuse its minimum offset; else append" per spec.md §4.4. The pool
// pairs a github.com/bits-and-blooms/bitset membership bitmap (so
// "deleted disjoint from live" is a cheap Test, per spec.md §8) with a
// container/heap min-heap for O(log n) minimum extraction.
package graphstore
