// Package filter implements FilterCore's predicate evaluation (spec.md
// §4.9): the operator dispatch table that internal/router's Find*
// operations run column-at-a-time, per shard, per offset.
package filter
