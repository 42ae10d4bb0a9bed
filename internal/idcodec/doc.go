// Package idcodec implements the pure bit-packing scheme shared by every
// node and relationship identifier in shardgraph.
//
// # Overview
//
// Every external id is a 64-bit unsigned integer with three fields, packed
// least-significant-bit first:
//
//	┌───────────────────────────────┬────────────────┬──────────┐
//	│            offset             │      type      │  shard   │
//	│            38 bits             │     16 bits    │  10 bits │
//	└───────────────────────────────┴────────────────┴──────────┘
//	 bit 63                      bit 26            bit 10      bit 0
//
// The encoding is `external = ((offset << 16) | type) << 10 | shard`.
// Id zero is reserved: it decodes to shard 0, type 0, offset 0, and no
// live node or relationship is ever assigned it.
//
// # Shard routing
//
// HashRoute implements the deterministic
// "wide-multiplication" reduction used throughout the system to route a
// (type, key) pair, or a (type, property, value) find pivot, to one of N
// shards without a modulo bias: hash the UTF-8 routing string with a
// 64-bit hash, then reduce with `(hash * N) >> 64`. The same primitive is
// reused by internal/router for content-based routing of find operations.
package idcodec
