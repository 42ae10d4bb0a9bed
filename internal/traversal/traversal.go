package traversal

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/dreamware/shardgraph/internal/graphmodel"
	"github.com/dreamware/shardgraph/internal/router"
	"golang.org/x/sync/errgroup"
)

// KHopIds returns the set of nodes reachable from start in exactly 1..hops
// hops (inclusive) in direction dir restricted to filter, excluding start
// itself. It implements spec.md §4.8's bitmap-frontier algorithm: at each
// step what's already seen is subtracted from the previous frontier, the
// remainder is folded into seen, then expanded one hop via a peered
// neighbor gather.
func KHopIds(ctx context.Context, r *router.Router, start uint64, hops int, dir graphmodel.Direction, filter graphmodel.TypeFilter) ([]uint64, error) {
	seen := NewFrontier()
	current := FromSlice([]uint64{start})

	for step := 0; step < hops && current.Len() > 0; step++ {
		current.AndNot(seen)
		if current.Len() == 0 {
			break
		}
		seen.Or(current)

		next, err := neighborsOf(ctx, r, current, dir, filter)
		if err != nil {
			return nil, err
		}
		current = next

		// Yield between hops so a long k-hop traversal doesn't
		// monopolize the caller's goroutine; the shard loops
		// themselves never block on this, since the suspension
		// point is here in the orchestrating goroutine, not inside
		// a shard's mailbox.
		runtime.Gosched()
	}

	result := seen.Clone()
	result.Or(current)
	out := result.ToSlice()
	filtered := out[:0]
	for _, id := range out {
		if id != start {
			filtered = append(filtered, id)
		}
	}
	return filtered, nil
}

// KHopCount is KHopIds's cardinality-only twin: it runs KHopIds and
// returns the length of its result.
func KHopCount(ctx context.Context, r *router.Router, start uint64, hops int, dir graphmodel.Direction, filter graphmodel.TypeFilter) (int, error) {
	ids, err := KHopIds(ctx, r, start, hops, dir, filter)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// neighborsOf fans out a one-hop neighbor gather over every id in
// frontier in parallel, and unions the results (spec.md §4.8: "for each
// node in the frontier, route to its owning shard, gather neighbor sets,
// union into a single bitmap").
func neighborsOf(ctx context.Context, r *router.Router, frontier *Frontier, dir graphmodel.Direction, filter graphmodel.TypeFilter) (*Frontier, error) {
	ids := frontier.ToSlice()
	next := NewFrontier()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			neighbors, err := r.NodeGetNeighborIds(gctx, id, dir, filter)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, n := range neighbors {
				next.Add(n)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}

// NeighborDegree pairs a neighbor's id with its own degree, recovered
// from the original engine's scripting-layer traversal primitive (see
// DESIGN.md) as a thin composition of neighbor enumeration and degree
// counting.
type NeighborDegree struct {
	ID     uint64
	Degree int
}

// NodeGetNeighborDegrees returns id's one-hop neighbors paired with each
// neighbor's own degree (direction Both, unrestricted by relType).
func NodeGetNeighborDegrees(ctx context.Context, r *router.Router, id uint64, dir graphmodel.Direction, filter graphmodel.TypeFilter) ([]NeighborDegree, error) {
	neighbors, err := r.NodeGetNeighborIds(ctx, id, dir, filter)
	if err != nil {
		return nil, err
	}
	out := make([]NeighborDegree, len(neighbors))
	for i, n := range neighbors {
		deg, err := r.NodeGetDegree(ctx, n, graphmodel.Both, nil)
		if err != nil {
			return nil, err
		}
		out[i] = NeighborDegree{ID: n, Degree: deg}
	}
	return out, nil
}

// TriangleCount implements spec.md §4.8's illustrative combinator:
// builds each candidate node's sorted outgoing/incoming neighbor vectors
// restricted to relTypeFilter, then for every v and every b in outs[v]
// adds |outs[b] ∩ ins[v]|, using an O(n+m) sorted-vector intersection.
// nodeIDs scopes the candidate vertex set (typically gathered from
// FilterCore or a known node-type roster).
func TriangleCount(ctx context.Context, r *router.Router, nodeIDs []uint64, relTypeFilter graphmodel.TypeFilter) (int, error) {
	outs := make(map[uint64][]uint64, len(nodeIDs))
	ins := make(map[uint64][]uint64, len(nodeIDs))

	for _, v := range nodeIDs {
		o, err := r.NodeGetNeighborIds(ctx, v, graphmodel.Out, relTypeFilter)
		if err != nil {
			return 0, err
		}
		i, err := r.NodeGetNeighborIds(ctx, v, graphmodel.In, relTypeFilter)
		if err != nil {
			return 0, err
		}
		sort.Slice(o, func(a, b int) bool { return o[a] < o[b] })
		sort.Slice(i, func(a, b int) bool { return i[a] < i[b] })
		outs[v] = o
		ins[v] = i
	}

	count := 0
	for _, v := range nodeIDs {
		for _, b := range outs[v] {
			count += intersectSortedCount(outs[b], ins[v])
		}
	}
	return count, nil
}

// intersectSortedCount counts the common elements of two ascending
// sorted slices in O(n+m), without materializing the intersection.
func intersectSortedCount(a, b []uint64) int {
	i, j, n := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			n++
			i++
			j++
		}
	}
	return n
}
