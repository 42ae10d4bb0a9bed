// Package shardgraph implements an in-memory, shard-per-core labeled
// property graph. A Database partitions nodes and relationships across a
// fixed number of shards, each owned by a single goroutine, and fans
// operations out across them through a Router.
//
// Architecture:
//
//	┌──────────────────────────────────────────────┐
//	│                  Database                     │
//	├──────────────────────────────────────────────┤
//	│  router.Router   - type/schema/CRUD fan-out   │
//	│  monitor.Monitor - per-shard liveness checks  │
//	│  []*shard.Shard  - goroutine-owned partitions │
//	│    NodeTypeStore / RelationshipTypeStore      │
//	│    NodeTypes / RelTypes / *Schemas registries │
//	└──────────────────────────────────────────────┘
//
// Every shard runs its own event loop (internal/shard); the only way to
// touch a shard's storage from outside that goroutine is a mailbox round
// trip (shard.Call/Exec), so no intra-shard state is ever locked. Shard 0
// additionally acts as the coordinator for type and schema mutations,
// which are declared there first and then broadcast to every other
// shard (internal/router).
//
// Configuration:
//   - SHARDGRAPH_SHARDS: shard count for cmd/shardgraph's demo REPL
//     (default: runtime.NumCPU())
package shardgraph
