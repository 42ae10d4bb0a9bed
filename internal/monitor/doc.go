// Package monitor watches shard liveness by periodically round-tripping a
// no-op job through each shard's mailbox and timing the reply.
//
// It is adapted from the health-check/consecutive-failure bookkeeping the
// teacher corpus uses to watch cluster nodes over HTTP, repurposed here
// for an in-process, goroutine-per-shard engine: a shard's event loop
// never blocks in normal operation, so a round-trip that times out
// repeatedly means that shard's goroutine is wedged (a long-running job
// that never yields, a deadlocked cross-shard call waiting on itself).
// There is no redistribution or failover on top of this — shardgraph
// keeps no replicas to fail over to — the monitor is purely diagnostic.
package monitor
