package router

import (
	"context"

	"github.com/dreamware/shardgraph/internal/apierr"
	"github.com/dreamware/shardgraph/internal/graphmodel"
	"github.com/dreamware/shardgraph/internal/graphstore"
	"github.com/dreamware/shardgraph/internal/idcodec"
	"github.com/dreamware/shardgraph/internal/propstore"
	"github.com/dreamware/shardgraph/internal/shard"
	"golang.org/x/sync/errgroup"
)

// NodeAdd creates a node of typeID/typeName with key and props, routing to
// the owning shard via HashRoute(typeName, key). It fails with
// ErrDuplicateKey if key is already live for this type.
func (r *Router) NodeAdd(ctx context.Context, typeID uint16, typeName, key string, props map[string]any) (uint64, error) {
	shardID := idcodec.HashRoute(len(r.shards), typeName, key)
	s := r.shards[shardID]

	type result struct {
		offset int
		dup    bool
	}
	res, err := shard.Call(ctx, s, func() result {
		store := s.NodeStore(typeID)
		if _, ok := store.OffsetForKey(key); ok {
			return result{dup: true}
		}
		offset := store.Add(key)
		store.Properties.SetProperties(offset, props)
		return result{offset: offset}
	})
	if err != nil {
		return 0, err
	}
	if res.dup {
		return 0, apierr.New(apierr.DuplicateKey, "key %q already exists for type %q", key, typeName)
	}
	return idcodec.Encode(shardID, typeID, uint64(res.offset)), nil
}

// NodeGetID resolves (typeName, key) to an external id via the same
// HashRoute used by NodeAdd, returning 0 if not found.
func (r *Router) NodeGetID(ctx context.Context, typeID uint16, typeName, key string) (uint64, error) {
	shardID := idcodec.HashRoute(len(r.shards), typeName, key)
	s := r.shards[shardID]

	offset, err := shard.Call(ctx, s, func() int {
		off, ok := s.NodeStore(typeID).OffsetForKey(key)
		if !ok {
			return -1
		}
		return off
	})
	if err != nil || offset < 0 {
		return 0, err
	}
	return idcodec.Encode(shardID, typeID, uint64(offset)), nil
}

// nodeSnapshot is the raw per-offset data a shard hands back for an id;
// ok is false when the id is out of range, the type has no store, or the
// offset is not live.
type nodeSnapshot struct {
	key        string
	typeName   string
	properties map[string]any
	ok         bool
}

func (r *Router) readNode(ctx context.Context, id uint64) (nodeSnapshot, error) {
	shardID, typeID, offset := idcodec.Decode(id)
	if int(shardID) >= len(r.shards) {
		return nodeSnapshot{}, nil
	}
	s := r.shards[shardID]
	return shard.Call(ctx, s, func() nodeSnapshot {
		if !s.HasNodeStore(typeID) {
			return nodeSnapshot{}
		}
		store := s.NodeStore(typeID)
		key, live := store.Key(int(offset))
		if !live {
			return nodeSnapshot{}
		}
		name, _ := s.NodeTypes.GetName(typeID)
		return nodeSnapshot{key: key, typeName: name, properties: store.Properties.GetAll(int(offset)), ok: true}
	})
}

// NodeGet returns the full record for id, or ok=false if id is invalid or
// tombstoned.
func (r *Router) NodeGet(ctx context.Context, id uint64) (graphmodel.Node, bool, error) {
	snap, err := r.readNode(ctx, id)
	if err != nil || !snap.ok {
		return graphmodel.Node{}, false, err
	}
	return graphmodel.Node{ID: id, Type: snap.typeName, Key: snap.key, Properties: snap.properties}, true, nil
}

// NodeGetKey returns just id's key.
func (r *Router) NodeGetKey(ctx context.Context, id uint64) (string, bool, error) {
	snap, err := r.readNode(ctx, id)
	return snap.key, snap.ok, err
}

// NodeGetProperty returns the value of name on id.
func (r *Router) NodeGetProperty(ctx context.Context, id uint64, name string) (propstore.Value, bool, error) {
	shardID, typeID, offset := idcodec.Decode(id)
	if int(shardID) >= len(r.shards) {
		return propstore.Value{}, false, nil
	}
	s := r.shards[shardID]
	type result struct {
		v  propstore.Value
		ok bool
	}
	res, err := shard.Call(ctx, s, func() result {
		if !s.HasNodeStore(typeID) || !s.NodeStore(typeID).Live(int(offset)) {
			return result{}
		}
		v, ok := s.NodeStore(typeID).Properties.GetProperty(int(offset), name)
		return result{v: v, ok: ok}
	})
	return res.v, res.ok, err
}

// NodeSetProperty sets a single property on id.
func (r *Router) NodeSetProperty(ctx context.Context, id uint64, name string, value any) error {
	shardID, typeID, offset := idcodec.Decode(id)
	if int(shardID) >= len(r.shards) {
		return apierr.New(apierr.InvalidID, "shard %d out of range", shardID)
	}
	s := r.shards[shardID]
	_, err := shard.Call(ctx, s, func() error {
		if !s.HasNodeStore(typeID) || !s.NodeStore(typeID).Live(int(offset)) {
			return apierr.New(apierr.InvalidID, "node %d is not live", id)
		}
		s.NodeStore(typeID).Properties.SetProperty(int(offset), name, value)
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// NodeSetProperties merges props into id's property cells.
func (r *Router) NodeSetProperties(ctx context.Context, id uint64, props map[string]any) error {
	shardID, typeID, offset := idcodec.Decode(id)
	if int(shardID) >= len(r.shards) {
		return apierr.New(apierr.InvalidID, "shard %d out of range", shardID)
	}
	s := r.shards[shardID]
	_, err := shard.Call(ctx, s, func() error {
		if !s.HasNodeStore(typeID) || !s.NodeStore(typeID).Live(int(offset)) {
			return apierr.New(apierr.InvalidID, "node %d is not live", id)
		}
		s.NodeStore(typeID).Properties.SetProperties(int(offset), props)
		return nil
	})
	return err
}

// NodeResetProperties replaces id's entire property row: every declared
// column is first tombstoned, then props is applied.
func (r *Router) NodeResetProperties(ctx context.Context, id uint64, props map[string]any) error {
	shardID, typeID, offset := idcodec.Decode(id)
	if int(shardID) >= len(r.shards) {
		return apierr.New(apierr.InvalidID, "shard %d out of range", shardID)
	}
	s := r.shards[shardID]
	_, err := shard.Call(ctx, s, func() error {
		if !s.HasNodeStore(typeID) || !s.NodeStore(typeID).Live(int(offset)) {
			return apierr.New(apierr.InvalidID, "node %d is not live", id)
		}
		store := s.NodeStore(typeID)
		store.Properties.DeleteProperties(int(offset))
		store.Properties.SetProperties(int(offset), props)
		return nil
	})
	return err
}

// NodeDeleteProperty tombstones a single property cell on id.
func (r *Router) NodeDeleteProperty(ctx context.Context, id uint64, name string) error {
	shardID, typeID, offset := idcodec.Decode(id)
	if int(shardID) >= len(r.shards) {
		return nil
	}
	s := r.shards[shardID]
	_, err := shard.Call(ctx, s, func() struct{} {
		if s.HasNodeStore(typeID) {
			s.NodeStore(typeID).Properties.DeleteProperty(int(offset), name)
		}
		return struct{}{}
	})
	return err
}

// NodeDeleteProperties tombstones every property cell on id.
func (r *Router) NodeDeleteProperties(ctx context.Context, id uint64) error {
	shardID, typeID, offset := idcodec.Decode(id)
	if int(shardID) >= len(r.shards) {
		return nil
	}
	s := r.shards[shardID]
	_, err := shard.Call(ctx, s, func() struct{} {
		if s.HasNodeStore(typeID) {
			s.NodeStore(typeID).Properties.DeleteProperties(int(offset))
		}
		return struct{}{}
	})
	return err
}

// NodeGetDegree counts id's adjacency links matching direction and the
// (optional) relationship-type filter. A relationship that is a self-loop
// on the same shard contributes to both OUT and IN counts when dir is
// Both, preserving the original engine's documented double-counting
// behavior (see DESIGN.md's Open Question decisions).
func (r *Router) NodeGetDegree(ctx context.Context, id uint64, dir graphmodel.Direction, filter graphmodel.TypeFilter) (int, error) {
	shardID, typeID, offset := idcodec.Decode(id)
	if int(shardID) >= len(r.shards) {
		return 0, nil
	}
	s := r.shards[shardID]
	return shard.Call(ctx, s, func() int {
		if !s.HasNodeStore(typeID) || !s.NodeStore(typeID).Live(int(offset)) {
			return 0
		}
		store := s.NodeStore(typeID)
		count := 0
		if dir == graphmodel.Out || dir == graphmodel.Both {
			count += countGroups(store.Outgoing(int(offset)), filter)
		}
		if dir == graphmodel.In || dir == graphmodel.Both {
			count += countGroups(store.Incoming(int(offset)), filter)
		}
		return count
	})
}

func countGroups(groups []graphstore.Group, filter graphmodel.TypeFilter) int {
	n := 0
	for _, g := range groups {
		if filter.Matches(g.RelType) {
			n += len(g.Links)
		}
	}
	return n
}

// --- Node removal (spec.md §4.7) ---

// NodeRemove destroys the node named by id and every relationship
// incident on it, across shards. It follows the four-step protocol:
// collect outgoing/incoming links grouped by peer shard, broadcast
// removal to each peer shard (in parallel), then tombstone the node
// itself.
func (r *Router) NodeRemove(ctx context.Context, id uint64) error {
	shardID, typeID, offset := idcodec.Decode(id)
	if int(shardID) >= len(r.shards) {
		return apierr.New(apierr.InvalidID, "shard %d out of range", shardID)
	}
	s := r.shards[shardID]

	type linkByPeer struct {
		peerShard uint16
		relType   uint16
		peerID    uint64
		relID     uint64
	}
	type collected struct {
		live     bool
		outgoing []linkByPeer
		incoming []linkByPeer
	}

	col, err := shard.Call(ctx, s, func() collected {
		if !s.HasNodeStore(typeID) || !s.NodeStore(typeID).Live(int(offset)) {
			return collected{}
		}
		store := s.NodeStore(typeID)
		var c collected
		c.live = true
		for _, g := range store.Outgoing(int(offset)) {
			for _, link := range g.Links {
				c.outgoing = append(c.outgoing, linkByPeer{peerShard: idcodec.Shard(link.NodeID), relType: g.RelType, peerID: link.NodeID, relID: link.RelID})
			}
		}
		for _, g := range store.Incoming(int(offset)) {
			for _, link := range g.Links {
				c.incoming = append(c.incoming, linkByPeer{peerShard: idcodec.Shard(link.NodeID), relType: g.RelType, peerID: link.NodeID, relID: link.RelID})
			}
		}
		return c
	})
	if err != nil {
		return err
	}
	if !col.live {
		return nil
	}

	// Step 2: for every outgoing link, this node is the relationship's
	// starting side, so the relationship offset itself lives on this
	// shard (invariant: startingNodeId shares a shard with the
	// relationship). The peer only needs its incoming link removed.
	g2, gctx := errgroup.WithContext(ctx)
	for _, l := range col.outgoing {
		l := l
		peer := r.shards[l.peerShard]
		g2.Go(func() error {
			_, err := shard.Call(gctx, peer, func() struct{} {
				peer.NodeStore(idcodec.Type(l.peerID)).RemoveIncoming(int(idcodec.Offset(l.peerID)), l.relType, graphstore.Link{NodeID: id, RelID: l.relID})
				return struct{}{}
			})
			return err
		})
	}

	// Step 3: symmetric for incoming links. Here the relationship lives
	// on the peer shard (it is the peer's outgoing side), so the peer
	// must also tombstone the relationship offset itself, not merely
	// its own outgoing link.
	for _, l := range col.incoming {
		l := l
		peer := r.shards[l.peerShard]
		g2.Go(func() error {
			_, err := shard.Call(gctx, peer, func() struct{} {
				peerType := idcodec.Type(l.peerID)
				peer.NodeStore(peerType).RemoveOutgoing(int(idcodec.Offset(l.peerID)), l.relType, graphstore.Link{NodeID: id, RelID: l.relID})
				peer.RelStore(l.relType).Remove(int(idcodec.Offset(l.relID)))
				return struct{}{}
			})
			return err
		})
	}
	if err := g2.Wait(); err != nil {
		return err
	}

	// Step 4: tombstone every relationship this node owned (its
	// outgoing side) and then the node itself.
	_, err = shard.Call(ctx, s, func() struct{} {
		store := s.NodeStore(typeID)
		for _, l := range col.outgoing {
			s.RelStore(l.relType).Remove(int(idcodec.Offset(l.relID)))
		}
		store.Remove(int(offset))
		return struct{}{}
	})
	return err
}
