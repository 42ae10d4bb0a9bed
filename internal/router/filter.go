package router

import (
	"context"
	"sort"

	"github.com/dreamware/shardgraph/internal/filter"
	"github.com/dreamware/shardgraph/internal/graphmodel"
	"github.com/dreamware/shardgraph/internal/idcodec"
	"github.com/dreamware/shardgraph/internal/shard"
)

// nodeMatch is one FindNode*/FilterNode* hit, carrying enough to sort,
// paginate, and (if requested) materialize a full record without a
// second round trip.
type nodeMatch struct {
	id        uint64
	shardID   uint16
	offset    int
	sortValue float64
	sortOK    bool
	node      graphmodel.Node
}

// scanNodeShard evaluates predicate over every live offset of typeID on
// s. A sort request forces a full, unbounded scan (shards must be merged
// by value before any skip/limit window makes sense); otherwise only the
// first skip+limit matches on this shard are collected, per spec.md
// §4.9. materialize controls whether each match's full Node record is
// built eagerly (FindNodes) or left zero (FindNodeIds/FindNodeCount,
// which only need the id).
func scanNodeShard(s *shard.Shard, typeID uint16, q filter.Query, materialize bool) []nodeMatch {
	if !s.HasNodeStore(typeID) {
		return nil
	}
	store := s.NodeStore(typeID)
	name, _ := s.NodeTypes.GetName(typeID)
	sorted := q.Sort != filter.NoSort
	shardCap := q.Skip + q.Limit

	var out []nodeMatch
	for _, offset := range store.Offsets() {
		if !sorted && q.Limit > 0 && len(out) >= shardCap {
			break
		}
		v, present := store.Properties.GetProperty(offset, q.Predicate.Property)
		if !filter.Evaluate(v, present, q.Predicate.Op, q.Predicate.Value) {
			continue
		}
		m := nodeMatch{id: idcodec.Encode(uint16(s.ID), typeID, uint64(offset)), shardID: uint16(s.ID), offset: offset}
		if q.SortProperty != "" {
			if sv, sok := store.Properties.GetProperty(offset, q.SortProperty); sok {
				m.sortValue, m.sortOK = numericSortKey(sv)
			}
		}
		if materialize {
			key, _ := store.Key(offset)
			m.node = graphmodel.Node{ID: m.id, Type: name, Key: key, Properties: store.Properties.GetAll(offset)}
		}
		out = append(out, m)
	}
	return out
}

// numericSortKey widens an int64 or double property to float64 for
// comparison; any other kind sorts after every value that has one.
func numericSortKey(v interface{ Native() any }) (float64, bool) {
	switch n := v.Native().(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func sortNodeMatches(matches []nodeMatch, order filter.SortOrder) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.sortOK != b.sortOK {
			return a.sortOK && !b.sortOK
		}
		if a.sortOK && b.sortOK && a.sortValue != b.sortValue {
			if order == filter.Descending {
				return a.sortValue > b.sortValue
			}
			return a.sortValue < b.sortValue
		}
		if a.shardID != b.shardID {
			return a.shardID < b.shardID
		}
		return a.offset < b.offset
	})
}

func paginate(n, skip, limit int) (lo, hi int) {
	if skip < 0 {
		skip = 0
	}
	if skip > n {
		skip = n
	}
	hi = n
	if limit > 0 && skip+limit < hi {
		hi = skip + limit
	}
	return skip, hi
}

// findNodeMatches runs q across every shard in shard-id order and
// applies the global skip/limit (and optional sort) per spec.md §4.9.
func (r *Router) findNodeMatches(ctx context.Context, typeID uint16, q filter.Query, materialize bool) ([]nodeMatch, error) {
	var all []nodeMatch
	for _, s := range r.shards {
		s := s
		matches, err := shard.Call(ctx, s, func() []nodeMatch { return scanNodeShard(s, typeID, q, materialize) })
		if err != nil {
			return nil, err
		}
		all = append(all, matches...)
	}
	if q.Sort != filter.NoSort {
		sortNodeMatches(all, q.Sort)
	}
	lo, hi := paginate(len(all), q.Skip, q.Limit)
	return all[lo:hi], nil
}

// FindNodeCount returns the number of nodes of typeID matching predicate.
func (r *Router) FindNodeCount(ctx context.Context, typeID uint16, predicate filter.Predicate) (int, error) {
	matches, err := r.findNodeMatches(ctx, typeID, filter.Query{Predicate: predicate}, false)
	return len(matches), err
}

// FindNodeIds returns the ids of nodes of typeID matching q's predicate,
// paginated and optionally sorted per q.
func (r *Router) FindNodeIds(ctx context.Context, typeID uint16, q filter.Query) ([]uint64, error) {
	matches, err := r.findNodeMatches(ctx, typeID, q, false)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, len(matches))
	for i, m := range matches {
		ids[i] = m.id
	}
	return ids, nil
}

// FindNodes returns the full records of nodes of typeID matching q.
func (r *Router) FindNodes(ctx context.Context, typeID uint16, q filter.Query) ([]graphmodel.Node, error) {
	matches, err := r.findNodeMatches(ctx, typeID, q, true)
	if err != nil {
		return nil, err
	}
	nodes := make([]graphmodel.Node, len(matches))
	for i, m := range matches {
		nodes[i] = m.node
	}
	return nodes, nil
}

// FilterNodeIds narrows an existing id set to those matching predicate,
// via a sharded bulk gather (one round trip per distinct owning shard)
// rather than a full per-type scan.
func (r *Router) FilterNodeIds(ctx context.Context, ids []uint64, predicate filter.Predicate) ([]uint64, error) {
	byShard := make(map[uint16][]uint64)
	for _, id := range ids {
		s := idcodec.Shard(id)
		if int(s) >= len(r.shards) {
			continue
		}
		byShard[s] = append(byShard[s], id)
	}

	var out []uint64
	for shardID, shardIDs := range byShard {
		s := r.shards[shardID]
		matched, err := shard.Call(ctx, s, func() []uint64 {
			var hits []uint64
			for _, id := range shardIDs {
				_, typeID, offset := idcodec.Decode(id)
				if !s.HasNodeStore(typeID) {
					continue
				}
				store := s.NodeStore(typeID)
				if !store.Live(int(offset)) {
					continue
				}
				v, present := store.Properties.GetProperty(int(offset), predicate.Property)
				if filter.Evaluate(v, present, predicate.Op, predicate.Value) {
					hits = append(hits, id)
				}
			}
			return hits
		})
		if err != nil {
			return nil, err
		}
		out = append(out, matched...)
	}
	return out, nil
}
