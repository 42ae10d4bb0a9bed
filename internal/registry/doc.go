// Package registry implements the two pieces of global state shardgraph
// replicates identically across every shard: the node/relationship type
// bimap, and the per-type property schema.
//
// # Overview
//
// Every shard holds its own *replica* of a TypeRegistry and a
// SchemaRegistry — there is no shared pointer between shards, matching
// the shared-nothing discipline the rest of the engine follows. Mutations
// (allocating a new type, declaring a property column) are always
// initiated on the coordinator shard (shard 0) and then broadcast,
// synchronously, to every other shard's replica before the call that
// triggered the mutation returns to its caller. See internal/router for
// the broadcast orchestration; this package only implements the
// single-shard-local data structures being replicated.
//
// # Consistency
//
// Because every replica is mutated only by replaying the same sequence of
// (name -> id) allocations and (type, name) -> kind declarations, and
// because the coordinator serializes concurrent allocation requests for
// the same name, every shard's replica is guaranteed to agree once a
// mutating call has returned — "after TypeInsert(name) returns on the
// coordinator, every shard maps name to the same id" (spec.md §8).
// Reads never touch the coordinator and never take a lock shared across
// shards: a TypeRegistry/SchemaRegistry instance is only ever touched
// from the single goroutine owning the shard it replicates into, so it
// carries no internal synchronization of its own.
package registry
