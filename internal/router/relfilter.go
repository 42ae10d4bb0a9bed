package router

import (
	"context"
	"sort"

	"github.com/dreamware/shardgraph/internal/filter"
	"github.com/dreamware/shardgraph/internal/graphmodel"
	"github.com/dreamware/shardgraph/internal/idcodec"
	"github.com/dreamware/shardgraph/internal/shard"
)

// relMatch is FindRelationship*/FilterRelationship*'s analogue of
// nodeMatch.
type relMatch struct {
	id        uint64
	shardID   uint16
	offset    int
	sortValue float64
	sortOK    bool
	rel       graphmodel.Relationship
}

func scanRelShard(s *shard.Shard, typeID uint16, q filter.Query, materialize bool) []relMatch {
	if !s.HasRelStore(typeID) {
		return nil
	}
	store := s.RelStore(typeID)
	name, _ := s.RelTypes.GetName(typeID)
	sorted := q.Sort != filter.NoSort
	shardCap := q.Skip + q.Limit

	var out []relMatch
	for _, offset := range store.Offsets() {
		if !sorted && q.Limit > 0 && len(out) >= shardCap {
			break
		}
		v, present := store.Properties.GetProperty(offset, q.Predicate.Property)
		if !filter.Evaluate(v, present, q.Predicate.Op, q.Predicate.Value) {
			continue
		}
		m := relMatch{id: idcodec.Encode(uint16(s.ID), typeID, uint64(offset)), shardID: uint16(s.ID), offset: offset}
		if q.SortProperty != "" {
			if sv, sok := store.Properties.GetProperty(offset, q.SortProperty); sok {
				m.sortValue, m.sortOK = numericSortKey(sv)
			}
		}
		if materialize {
			start, end, _ := store.Endpoints(offset)
			m.rel = graphmodel.Relationship{ID: m.id, Type: name, StartID: start, EndID: end, Properties: store.Properties.GetAll(offset)}
		}
		out = append(out, m)
	}
	return out
}

// sortRelMatches mirrors sortNodeMatches; kept separate since relMatch
// and nodeMatch aren't a shared type.
func sortRelMatches(matches []relMatch, order filter.SortOrder) {
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

func (r *Router) findRelMatches(ctx context.Context, typeID uint16, q filter.Query, materialize bool) ([]relMatch, error) {
	var all []relMatch
	for _, s := range r.shards {
		s := s
		matches, err := shard.Call(ctx, s, func() []relMatch { return scanRelShard(s, typeID, q, materialize) })
		if err != nil {
			return nil, err
		}
		all = append(all, matches...)
	}
	if q.Sort != filter.NoSort {
		sortRelMatches(all, q.Sort)
	}
	lo, hi := paginate(len(all), q.Skip, q.Limit)
	return all[lo:hi], nil
}

// FindRelationshipCount returns the number of relationships of typeID
// matching predicate.
func (r *Router) FindRelationshipCount(ctx context.Context, typeID uint16, predicate filter.Predicate) (int, error) {
	matches, err := r.findRelMatches(ctx, typeID, filter.Query{Predicate: predicate}, false)
	return len(matches), err
}

// FindRelationshipIds returns the ids of relationships of typeID matching
// q's predicate, paginated and optionally sorted per q.
func (r *Router) FindRelationshipIds(ctx context.Context, typeID uint16, q filter.Query) ([]uint64, error) {
	matches, err := r.findRelMatches(ctx, typeID, q, false)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, len(matches))
	for i, m := range matches {
		ids[i] = m.id
	}
	return ids, nil
}

// FindRelationships returns the full records of relationships of typeID
// matching q.
func (r *Router) FindRelationships(ctx context.Context, typeID uint16, q filter.Query) ([]graphmodel.Relationship, error) {
	matches, err := r.findRelMatches(ctx, typeID, q, true)
	if err != nil {
		return nil, err
	}
	rels := make([]graphmodel.Relationship, len(matches))
	for i, m := range matches {
		rels[i] = m.rel
	}
	return rels, nil
}

// FilterRelationshipIds narrows an existing relationship id set to those
// matching predicate, via a sharded bulk gather.
func (r *Router) FilterRelationshipIds(ctx context.Context, ids []uint64, predicate filter.Predicate) ([]uint64, error) {
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
				if !s.HasRelStore(typeID) {
					continue
				}
				store := s.RelStore(typeID)
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
