package router

import (
	"context"

	"github.com/dreamware/shardgraph/internal/apierr"
	"github.com/dreamware/shardgraph/internal/graphmodel"
	"github.com/dreamware/shardgraph/internal/graphstore"
	"github.com/dreamware/shardgraph/internal/idcodec"
	"github.com/dreamware/shardgraph/internal/propstore"
	"github.com/dreamware/shardgraph/internal/shard"
)

// checkNodeLive reports whether id currently names a live node, with a
// single round-trip to its owning shard.
func (r *Router) checkNodeLive(ctx context.Context, id uint64) (bool, error) {
	shardID, typeID, offset := idcodec.Decode(id)
	if int(shardID) >= len(r.shards) {
		return false, nil
	}
	s := r.shardFor(id)
	return shard.Call(ctx, s, func() bool {
		return s.HasNodeStore(typeID) && s.NodeStore(typeID).Live(int(offset))
	})
}

// relAddCreateAndOutgoing is step 2 of the cross-shard relationship-add
// protocol (spec.md §4.7): on id1's shard, verify id1 is live, allocate a
// relationship slot, record its endpoints and properties, and append the
// outgoing link. Returns 0 if id1 is no longer live.
func (r *Router) relAddCreateAndOutgoing(ctx context.Context, relTypeID uint16, id1, id2 uint64, props map[string]any) (uint64, error) {
	shard1 := idcodec.Shard(id1)
	s := r.shards[shard1]
	type1 := idcodec.Type(id1)

	relID, err := shard.Call(ctx, s, func() uint64 {
		if !s.HasNodeStore(type1) || !s.NodeStore(type1).Live(int(idcodec.Offset(id1))) {
			return 0
		}
		off := s.RelStore(relTypeID).Add(id1, id2)
		s.RelStore(relTypeID).Properties.SetProperties(off, props)
		id := idcodec.Encode(uint16(s.ID), relTypeID, uint64(off))
		s.NodeStore(type1).AddOutgoing(int(idcodec.Offset(id1)), relTypeID, graphstore.Link{NodeID: id2, RelID: id})
		return id
	})
	return relID, err
}

// relAddIncoming is step 3 of the cross-shard relationship-add protocol:
// on id2's shard, verify id2 is still live and append the incoming link.
// Returns false if id2 was deleted between steps 2 and 3 (the documented
// partial-failure window).
func (r *Router) relAddIncoming(ctx context.Context, relTypeID uint16, id1, id2, relID uint64) (bool, error) {
	shard2 := idcodec.Shard(id2)
	s := r.shards[shard2]
	type2 := idcodec.Type(id2)

	return shard.Call(ctx, s, func() bool {
		if !s.HasNodeStore(type2) || !s.NodeStore(type2).Live(int(idcodec.Offset(id2))) {
			return false
		}
		s.NodeStore(type2).AddIncoming(int(idcodec.Offset(id2)), relTypeID, graphstore.Link{NodeID: id1, RelID: relID})
		return true
	})
}

// RelationshipAdd creates a relationship of relTypeID from id1 to id2. If
// both nodes are on the same shard, a single local round-trip does the
// whole job; otherwise it runs the three-step cross-shard protocol from
// spec.md §4.7, including the documented partial-failure window between
// steps 2 and 3.
func (r *Router) RelationshipAdd(ctx context.Context, relTypeID uint16, id1, id2 uint64, props map[string]any) (uint64, error) {
	shard1 := idcodec.Shard(id1)
	shard2 := idcodec.Shard(id2)

	if shard1 == shard2 {
		s := r.shards[shard1]
		type1, type2 := idcodec.Type(id1), idcodec.Type(id2)
		relID, err := shard.Call(ctx, s, func() uint64 {
			if !s.HasNodeStore(type1) || !s.NodeStore(type1).Live(int(idcodec.Offset(id1))) {
				return 0
			}
			if !s.HasNodeStore(type2) || !s.NodeStore(type2).Live(int(idcodec.Offset(id2))) {
				return 0
			}
			off := s.RelStore(relTypeID).Add(id1, id2)
			s.RelStore(relTypeID).Properties.SetProperties(off, props)
			id := idcodec.Encode(shard1, relTypeID, uint64(off))
			s.NodeStore(type1).AddOutgoing(int(idcodec.Offset(id1)), relTypeID, graphstore.Link{NodeID: id2, RelID: id})
			s.NodeStore(type2).AddIncoming(int(idcodec.Offset(id2)), relTypeID, graphstore.Link{NodeID: id1, RelID: id})
			return id
		})
		if err != nil {
			return 0, err
		}
		return relID, nil
	}

	live2, err := r.checkNodeLive(ctx, id2)
	if err != nil || !live2 {
		return 0, err
	}

	relID, err := r.relAddCreateAndOutgoing(ctx, relTypeID, id1, id2, props)
	if err != nil || relID == 0 {
		return 0, err
	}

	ok3, err := r.relAddIncoming(ctx, relTypeID, id1, id2, relID)
	if err != nil {
		return relID, err
	}
	if !ok3 {
		return relID, apierr.New(apierr.PartialCrossShardFailure,
			"relationship %d created from %d to %d but id2 was removed before the incoming link could be added", relID, id1, id2)
	}
	return relID, nil
}

// RelationshipRemove destroys relID: on its owning shard it removes the
// outgoing link and tombstones the relationship offset, then on the
// ending node's shard it removes the incoming link. Removing an
// already-gone relationship is a no-op.
func (r *Router) RelationshipRemove(ctx context.Context, relID uint64) error {
	relShard, relTypeID, relOffset := idcodec.Decode(relID)
	if int(relShard) >= len(r.shards) {
		return apierr.New(apierr.InvalidID, "shard %d out of range", relShard)
	}
	s := r.shards[relShard]

	type step1 struct {
		ok             bool
		startID, endID uint64
	}
	res, err := shard.Call(ctx, s, func() step1 {
		if !s.HasRelStore(relTypeID) {
			return step1{}
		}
		start, end, ok := s.RelStore(relTypeID).Endpoints(int(relOffset))
		if !ok {
			return step1{}
		}
		s.NodeStore(idcodec.Type(start)).RemoveOutgoing(int(idcodec.Offset(start)), relTypeID, graphstore.Link{NodeID: end, RelID: relID})
		s.RelStore(relTypeID).Remove(int(relOffset))
		return step1{ok: true, startID: start, endID: end}
	})
	if err != nil || !res.ok {
		return err
	}

	peer := r.shards[idcodec.Shard(res.endID)]
	_, err = shard.Call(ctx, peer, func() struct{} {
		peer.NodeStore(idcodec.Type(res.endID)).RemoveIncoming(int(idcodec.Offset(res.endID)), relTypeID, graphstore.Link{NodeID: res.startID, RelID: relID})
		return struct{}{}
	})
	return err
}

type relSnapshot struct {
	typeName   string
	startID    uint64
	endID      uint64
	properties map[string]any
	ok         bool
}

func (r *Router) readRelationship(ctx context.Context, id uint64) (relSnapshot, error) {
	relShard, relTypeID, relOffset := idcodec.Decode(id)
	if int(relShard) >= len(r.shards) {
		return relSnapshot{}, nil
	}
	s := r.shards[relShard]
	return shard.Call(ctx, s, func() relSnapshot {
		if !s.HasRelStore(relTypeID) {
			return relSnapshot{}
		}
		start, end, ok := s.RelStore(relTypeID).Endpoints(int(relOffset))
		if !ok {
			return relSnapshot{}
		}
		name, _ := s.RelTypes.GetName(relTypeID)
		return relSnapshot{typeName: name, startID: start, endID: end, properties: s.RelStore(relTypeID).Properties.GetAll(int(relOffset)), ok: true}
	})
}

// RelationshipGet returns the full record for id, or ok=false if id is
// invalid or tombstoned.
func (r *Router) RelationshipGet(ctx context.Context, id uint64) (graphmodel.Relationship, bool, error) {
	snap, err := r.readRelationship(ctx, id)
	if err != nil || !snap.ok {
		return graphmodel.Relationship{}, false, err
	}
	return graphmodel.Relationship{ID: id, Type: snap.typeName, StartID: snap.startID, EndID: snap.endID, Properties: snap.properties}, true, nil
}

// RelationshipsGet looks up each id in ids, skipping any that are
// invalid or tombstoned.
func (r *Router) RelationshipsGet(ctx context.Context, ids []uint64) ([]graphmodel.Relationship, error) {
	out := make([]graphmodel.Relationship, 0, len(ids))
	for _, id := range ids {
		rel, ok, err := r.RelationshipGet(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rel)
		}
	}
	return out, nil
}

// RelationshipGetProperty returns the value of name on relationship id.
func (r *Router) RelationshipGetProperty(ctx context.Context, id uint64, name string) (propstore.Value, bool, error) {
	relShard, relTypeID, relOffset := idcodec.Decode(id)
	if int(relShard) >= len(r.shards) {
		return propstore.Value{}, false, nil
	}
	s := r.shards[relShard]
	type result struct {
		v  propstore.Value
		ok bool
	}
	res, err := shard.Call(ctx, s, func() result {
		if !s.HasRelStore(relTypeID) || !s.RelStore(relTypeID).Live(int(relOffset)) {
			return result{}
		}
		v, ok := s.RelStore(relTypeID).Properties.GetProperty(int(relOffset), name)
		return result{v: v, ok: ok}
	})
	return res.v, res.ok, err
}

// RelationshipSetProperty sets a single property on relationship id.
func (r *Router) RelationshipSetProperty(ctx context.Context, id uint64, name string, value any) error {
	relShard, relTypeID, relOffset := idcodec.Decode(id)
	if int(relShard) >= len(r.shards) {
		return apierr.New(apierr.InvalidID, "shard %d out of range", relShard)
	}
	s := r.shards[relShard]
	_, err := shard.Call(ctx, s, func() error {
		if !s.HasRelStore(relTypeID) || !s.RelStore(relTypeID).Live(int(relOffset)) {
			return apierr.New(apierr.InvalidID, "relationship %d is not live", id)
		}
		s.RelStore(relTypeID).Properties.SetProperty(int(relOffset), name, value)
		return nil
	})
	return err
}

// RelationshipDeleteProperty tombstones a single property cell on
// relationship id.
func (r *Router) RelationshipDeleteProperty(ctx context.Context, id uint64, name string) error {
	relShard, relTypeID, relOffset := idcodec.Decode(id)
	if int(relShard) >= len(r.shards) {
		return nil
	}
	s := r.shards[relShard]
	_, err := shard.Call(ctx, s, func() struct{} {
		if s.HasRelStore(relTypeID) {
			s.RelStore(relTypeID).Properties.DeleteProperty(int(relOffset), name)
		}
		return struct{}{}
	})
	return err
}
