// Package shard implements shardgraph's cooperative, shared-nothing
// execution unit: one goroutine per logical shard, one mailbox channel,
// no internal locks.
//
// A Shard owns its slice of every node/relationship type store
// (internal/graphstore) and its replica of the type and schema registries
// (internal/registry). All of that state is touched only from inside the
// Shard's own goroutine, by jobs taken off its mailbox — callers never
// reach into a Shard's fields directly, mirroring the torua Shard's rule
// that storage operations are only ever reached through the Shard's own
// methods, except here the boundary is enforced by goroutine ownership
// instead of a mutex.
//
//	shard 0              shard 1              shard N-1
//	┌─────────┐          ┌─────────┐          ┌─────────┐
//	│ mailbox │ <- Call  │ mailbox │ <- Call  │ mailbox │
//	│ event   │          │ event   │          │ event   │
//	│ loop    │          │ loop    │          │ loop    │
//	└─────────┘          └─────────┘          └─────────┘
//
// Cross-shard work (internal/router) is built entirely out of Call and
// Exec: a protocol step is "send a closure to shard X's mailbox, wait for
// its typed reply." No shard ever calls into another shard's state
// directly.
package shard
