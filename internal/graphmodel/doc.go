// Package graphmodel holds the small set of types shared across
// internal/router, internal/traversal, internal/filter, and the root
// shardgraph package, so none of them need to import one another just to
// agree on what a Direction or a Node record looks like.
package graphmodel
