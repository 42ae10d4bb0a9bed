// Package router implements shardgraph's cross-shard protocols: the
// coordinator-fenced type/schema broadcasts, the three-step cross-shard
// relationship-add, the two-step relationship-remove, node removal's
// peer-broadcast cleanup, and bulk sharded gathers.
//
// Router holds no storage of its own; every method decomposes into one or
// more internal/shard.Call/Exec round-trips against the shards it was
// constructed with, exactly as spec.md §4.7 describes PeeredRouter:
// "decomposes an operation into local sub-operations, dispatches them to
// owning shards, and reassembles results." Shard 0 is always the
// coordinator for type and schema mutations.
package router
