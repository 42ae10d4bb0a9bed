package shard

import (
	"context"
	"fmt"

	"github.com/dreamware/shardgraph/internal/graphstore"
	"github.com/dreamware/shardgraph/internal/registry"
)

// Shard is one goroutine-owned partition of the graph: its slice of every
// node/relationship type's columnar storage, and its replica of the type
// and schema registries. All fields below are touched only from within
// Run's event loop goroutine.
type Shard struct {
	// ID is this shard's position in the owning Router's shard slice,
	// and the low 10 bits of every external id this shard mints.
	ID int

	mailbox chan func()

	NodeTypes   *registry.TypeRegistry
	RelTypes    *registry.TypeRegistry
	NodeSchemas *registry.SchemaRegistry
	RelSchemas  *registry.SchemaRegistry

	nodes map[uint16]*graphstore.NodeTypeStore
	rels  map[uint16]*graphstore.RelationshipTypeStore
}

// New returns a Shard with empty storage and fresh (unpopulated)
// registries. Callers that want identical registries across every shard
// (spec.md's replication requirement) install the same state on each
// shard's registries via internal/router's coordinator-broadcast
// discipline, not by sharing pointers.
func New(id int) *Shard {
	return &Shard{
		ID:          id,
		mailbox:     make(chan func(), 64),
		NodeTypes:   registry.NewTypeRegistry(),
		RelTypes:    registry.NewTypeRegistry(),
		NodeSchemas: registry.NewSchemaRegistry(),
		RelSchemas:  registry.NewSchemaRegistry(),
		nodes:       make(map[uint16]*graphstore.NodeTypeStore),
		rels:        make(map[uint16]*graphstore.RelationshipTypeStore),
	}
}

// Run is the shard's event loop: it executes jobs taken off the mailbox
// one at a time, in arrival order, until ctx is cancelled. Run must be
// started in its own goroutine before any Call or Exec is issued against
// this shard, and it is the only goroutine ever allowed to touch the
// shard's storage or registries.
func (s *Shard) Run(ctx context.Context) {
	for {
		select {
		case job := <-s.mailbox:
			job()
		case <-ctx.Done():
			return
		}
	}
}

// Exec enqueues job to run on the shard's own goroutine and returns
// immediately without waiting for it to execute. Exec is used for
// fire-and-forget peer notifications where the caller does not need the
// result before continuing its own protocol step.
func (s *Shard) Exec(job func()) {
	s.mailbox <- job
}

// Call enqueues job, blocks until it has run on the shard's own goroutine,
// and returns its result. If ctx is done before job runs, Call returns the
// zero value of T and ctx.Err(); job still eventually runs (it is already
// enqueued), its result is simply discarded.
func Call[T any](ctx context.Context, s *Shard, job func() T) (T, error) {
	reply := make(chan T, 1)
	s.mailbox <- func() {
		reply <- job()
	}
	var zero T
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// NodeStore returns this shard's NodeTypeStore for typeID, creating an
// empty one (backed by this shard's schema replica) on first access.
func (s *Shard) NodeStore(typeID uint16) *graphstore.NodeTypeStore {
	store, ok := s.nodes[typeID]
	if !ok {
		store = graphstore.NewNodeTypeStore(s.NodeSchemas.Schema(typeID))
		s.nodes[typeID] = store
	}
	return store
}

// RelStore returns this shard's RelationshipTypeStore for typeID, creating
// an empty one (backed by this shard's schema replica) on first access.
func (s *Shard) RelStore(typeID uint16) *graphstore.RelationshipTypeStore {
	store, ok := s.rels[typeID]
	if !ok {
		store = graphstore.NewRelationshipTypeStore(s.RelSchemas.Schema(typeID))
		s.rels[typeID] = store
	}
	return store
}

// HasNodeStore reports whether a NodeTypeStore has ever been created for
// typeID on this shard, without creating one.
func (s *Shard) HasNodeStore(typeID uint16) bool {
	_, ok := s.nodes[typeID]
	return ok
}

// HasRelStore reports whether a RelationshipTypeStore has ever been
// created for typeID on this shard, without creating one.
func (s *Shard) HasRelStore(typeID uint16) bool {
	_, ok := s.rels[typeID]
	return ok
}

// NodeTypeIDs returns the type ids with a NodeTypeStore on this shard.
func (s *Shard) NodeTypeIDs() []uint16 {
	ids := make([]uint16, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	return ids
}

// RelTypeIDs returns the type ids with a RelationshipTypeStore on this
// shard.
func (s *Shard) RelTypeIDs() []uint16 {
	ids := make([]uint16, 0, len(s.rels))
	for id := range s.rels {
		ids = append(ids, id)
	}
	return ids
}

// String satisfies fmt.Stringer for log lines and test failure output.
func (s *Shard) String() string {
	return fmt.Sprintf("shard[%d]", s.ID)
}
