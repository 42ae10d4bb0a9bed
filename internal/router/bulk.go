package router

import (
	"context"
	"sync"

	"github.com/dreamware/shardgraph/internal/graphmodel"
	"github.com/dreamware/shardgraph/internal/graphstore"
	"github.com/dreamware/shardgraph/internal/idcodec"
	"github.com/dreamware/shardgraph/internal/shard"
	"golang.org/x/sync/errgroup"
)

// linksMatching gathers id's adjacency links in direction dir, passing
// filter, in OUT-before-IN order when dir is Both.
func linksMatching(s *shard.Shard, typeID uint16, offset int, dir graphmodel.Direction, filter graphmodel.TypeFilter) []graphstore.Link {
	store := s.NodeStore(typeID)
	var links []graphstore.Link
	if dir == graphmodel.Out || dir == graphmodel.Both {
		for _, g := range store.Outgoing(offset) {
			if filter.Matches(g.RelType) {
				links = append(links, g.Links...)
			}
		}
	}
	if dir == graphmodel.In || dir == graphmodel.Both {
		for _, g := range store.Incoming(offset) {
			if filter.Matches(g.RelType) {
				links = append(links, g.Links...)
			}
		}
	}
	return links
}

func (r *Router) nodeLinks(ctx context.Context, id uint64, dir graphmodel.Direction, filter graphmodel.TypeFilter) ([]graphstore.Link, error) {
	shardID, typeID, offset := idcodec.Decode(id)
	if int(shardID) >= len(r.shards) {
		return nil, nil
	}
	s := r.shards[shardID]
	return shard.Call(ctx, s, func() []graphstore.Link {
		if !s.HasNodeStore(typeID) || !s.NodeStore(typeID).Live(int(offset)) {
			return nil
		}
		return linksMatching(s, typeID, int(offset), dir, filter)
	})
}

// NodeGetNeighborIds returns the ids of every node reachable from id by one
// hop in direction dir restricted to filter, in OUT-before-IN order.
func (r *Router) NodeGetNeighborIds(ctx context.Context, id uint64, dir graphmodel.Direction, filter graphmodel.TypeFilter) ([]uint64, error) {
	links, err := r.nodeLinks(ctx, id, dir, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, len(links))
	for i, l := range links {
		ids[i] = l.NodeID
	}
	return ids, nil
}

// NodeGetRelationshipsIDs returns the relationship ids incident on id in
// direction dir restricted to filter, in OUT-before-IN order.
func (r *Router) NodeGetRelationshipsIDs(ctx context.Context, id uint64, dir graphmodel.Direction, filter graphmodel.TypeFilter) ([]uint64, error) {
	links, err := r.nodeLinks(ctx, id, dir, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, len(links))
	for i, l := range links {
		ids[i] = l.RelID
	}
	return ids, nil
}

// NodeGetOutgoingRelationships returns the full relationship records for
// id's outgoing links restricted to filter. Every outgoing relationship id
// is owned by id's own shard (spec.md's starting-node-shares-shard
// invariant), so this is always a single local round trip.
func (r *Router) NodeGetOutgoingRelationships(ctx context.Context, id uint64, filter graphmodel.TypeFilter) ([]graphmodel.Relationship, error) {
	shardID, typeID, offset := idcodec.Decode(id)
	if int(shardID) >= len(r.shards) {
		return nil, nil
	}
	s := r.shards[shardID]
	type row struct {
		id   uint64
		snap relSnapshot
	}
	rows, err := shard.Call(ctx, s, func() []row {
		if !s.HasNodeStore(typeID) || !s.NodeStore(typeID).Live(int(offset)) {
			return nil
		}
		var out []row
		for _, link := range linksMatching(s, typeID, int(offset), graphmodel.Out, filter) {
			_, relTypeID, relOffset := idcodec.Decode(link.RelID)
			if !s.HasRelStore(relTypeID) {
				continue
			}
			start, end, ok := s.RelStore(relTypeID).Endpoints(int(relOffset))
			if !ok {
				continue
			}
			name, _ := s.RelTypes.GetName(relTypeID)
			out = append(out, row{id: link.RelID, snap: relSnapshot{
				typeName:   name,
				startID:    start,
				endID:      end,
				properties: s.RelStore(relTypeID).Properties.GetAll(int(relOffset)),
				ok:         true,
			}})
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	result := make([]graphmodel.Relationship, len(rows))
	for i, row := range rows {
		result[i] = graphmodel.Relationship{ID: row.id, Type: row.snap.typeName, StartID: row.snap.startID, EndID: row.snap.endID, Properties: row.snap.properties}
	}
	return result, nil
}

// NodeGetShardedRelationshipIDs partitions id's incident relationship ids
// (direction dir, restricted by filter) by owning shard, matching spec.md
// §4.7's bulk-sharded-gather shape: the caller gets back a map from shard
// index to the relationship ids that live there, ready to hand to a
// per-shard fan-out instead of one round trip per relationship.
func (r *Router) NodeGetShardedRelationshipIDs(ctx context.Context, id uint64, dir graphmodel.Direction, filter graphmodel.TypeFilter) (map[uint16][]uint64, error) {
	ids, err := r.NodeGetRelationshipsIDs(ctx, id, dir, filter)
	if err != nil {
		return nil, err
	}
	byShard := make(map[uint16][]uint64)
	for _, relID := range ids {
		s := idcodec.Shard(relID)
		byShard[s] = append(byShard[s], relID)
	}
	return byShard, nil
}

// NodesGet looks up every id in ids, partitioning the work by owning shard
// so each shard is visited at most once instead of once per id, then
// reassembles the results in the original order (dropping ids that are
// invalid or tombstoned).
func (r *Router) NodesGet(ctx context.Context, ids []uint64) ([]graphmodel.Node, error) {
	out := make([]graphmodel.Node, len(ids))
	found := make([]bool, len(ids))
	byShard := make(map[uint16][]int)
	for i, id := range ids {
		s := idcodec.Shard(id)
		if int(s) >= len(r.shards) {
			continue
		}
		byShard[s] = append(byShard[s], i)
	}

	g, gctx := errgroup.WithContext(ctx)
	for shardID, idxs := range byShard {
		shardID, idxs := shardID, idxs
		s := r.shards[shardID]
		g.Go(func() error {
			type row struct {
				idx  int
				node graphmodel.Node
			}
			rows, err := shard.Call(gctx, s, func() []row {
				rs := make([]row, 0, len(idxs))
				for _, idx := range idxs {
					id := ids[idx]
					_, typeID, offset := idcodec.Decode(id)
					if !s.HasNodeStore(typeID) {
						continue
					}
					store := s.NodeStore(typeID)
					key, live := store.Key(int(offset))
					if !live {
						continue
					}
					name, _ := s.NodeTypes.GetName(typeID)
					rs = append(rs, row{idx: idx, node: graphmodel.Node{ID: id, Type: name, Key: key, Properties: store.Properties.GetAll(int(offset))}})
				}
				return rs
			})
			if err != nil {
				return err
			}
			for _, row := range rows {
				out[row.idx] = row.node
				found[row.idx] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]graphmodel.Node, 0, len(ids))
	for i := range ids {
		if found[i] {
			result = append(result, out[i])
		}
	}
	return result, nil
}

// NodeGetNeighbors resolves id's one-hop neighbors (direction dir,
// restricted by filter) to full node records via a sharded bulk gather.
func (r *Router) NodeGetNeighbors(ctx context.Context, id uint64, dir graphmodel.Direction, filter graphmodel.TypeFilter) ([]graphmodel.Node, error) {
	ids, err := r.NodeGetNeighborIds(ctx, id, dir, filter)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	return r.NodesGet(ctx, ids)
}

// RelationshipsGetSharded fetches the relationship ids gathered by
// NodeGetShardedRelationshipIDs, fanning out one call per shard in
// parallel and concatenating (spec.md §4.7's "router then fans out
// RelationshipsGet to each shard in parallel and concatenates").
func (r *Router) RelationshipsGetSharded(ctx context.Context, byShard map[uint16][]uint64) ([]graphmodel.Relationship, error) {
	var mu sync.Mutex
	var all []graphmodel.Relationship
	g, gctx := errgroup.WithContext(ctx)
	for shardID, ids := range byShard {
		shardID, ids := shardID, ids
		g.Go(func() error {
			rels, err := r.relationshipsGetOnShard(gctx, shardID, ids)
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, rels...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

// relationshipsGetOnShard looks up ids (all already known to live on
// shardID) in a single round trip to that shard.
func (r *Router) relationshipsGetOnShard(ctx context.Context, shardID uint16, ids []uint64) ([]graphmodel.Relationship, error) {
	s := r.shards[shardID]
	return shard.Call(ctx, s, func() []graphmodel.Relationship {
		out := make([]graphmodel.Relationship, 0, len(ids))
		for _, id := range ids {
			_, relTypeID, relOffset := idcodec.Decode(id)
			if !s.HasRelStore(relTypeID) {
				continue
			}
			start, end, ok := s.RelStore(relTypeID).Endpoints(int(relOffset))
			if !ok {
				continue
			}
			name, _ := s.RelTypes.GetName(relTypeID)
			out = append(out, graphmodel.Relationship{ID: id, Type: name, StartID: start, EndID: end, Properties: s.RelStore(relTypeID).Properties.GetAll(int(relOffset))})
		}
		return out
	})
}
