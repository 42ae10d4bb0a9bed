package router

import (
	"context"

	"github.com/dreamware/shardgraph/internal/apierr"
	"github.com/dreamware/shardgraph/internal/idcodec"
	"github.com/dreamware/shardgraph/internal/registry"
	"github.com/dreamware/shardgraph/internal/shard"
	"golang.org/x/sync/errgroup"
)

// Router fans out operations across a fixed slice of shards. Shard 0 is
// the coordinator (spec.md §4.6): every type/schema mutation runs there
// first and is then broadcast to the rest.
type Router struct {
	shards []*shard.Shard
}

// New returns a Router over shards. shards must already have their Run
// loops started; Router never starts or stops a shard goroutine.
func New(shards []*shard.Shard) *Router {
	return &Router{shards: shards}
}

// NumShards returns the number of shards this router fans out across.
func (r *Router) NumShards() int {
	return len(r.shards)
}

func (r *Router) coordinator() *shard.Shard {
	return r.shards[0]
}

func (r *Router) shardFor(id uint64) *shard.Shard {
	return r.shards[idcodec.Shard(id)]
}

// broadcastOthers runs job on every shard except the coordinator, in
// parallel, waiting for all to finish.
func (r *Router) broadcastOthers(ctx context.Context, job func(s *shard.Shard)) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range r.shards[1:] {
		s := s
		g.Go(func() error {
			_, err := shard.Call(ctx, s, func() struct{} {
				job(s)
				return struct{}{}
			})
			return err
		})
	}
	return g.Wait()
}

// --- Type management (node types) ---

// NodeTypeInsert returns the id for name, allocating one on the
// coordinator and broadcasting it to every shard if name is new.
func (r *Router) NodeTypeInsert(ctx context.Context, name string) (uint16, error) {
	type result struct {
		id  uint16
		new bool
	}
	res, err := shard.Call(ctx, r.coordinator(), func() result {
		if id := r.coordinator().NodeTypes.GetID(name); id != 0 {
			return result{id: id}
		}
		return result{id: r.coordinator().NodeTypes.AllocateNext(name), new: true}
	})
	if err != nil {
		return 0, err
	}
	if res.new {
		if err := r.broadcastOthers(ctx, func(s *shard.Shard) { s.NodeTypes.Install(name, res.id) }); err != nil {
			return 0, err
		}
	}
	return res.id, nil
}

// NodeTypeGet returns the id assigned to name, and whether it exists.
func (r *Router) NodeTypeGet(ctx context.Context, name string) (uint16, bool, error) {
	id, err := shard.Call(ctx, r.coordinator(), func() uint16 { return r.coordinator().NodeTypes.GetID(name) })
	return id, id != 0, err
}

// NodeTypeCount returns the number of live node types.
func (r *Router) NodeTypeCount(ctx context.Context) (int, error) {
	return shard.Call(ctx, r.coordinator(), func() int { return r.coordinator().NodeTypes.Count() })
}

// NodeTypeNames returns the names of every live node type.
func (r *Router) NodeTypeNames(ctx context.Context) ([]string, error) {
	return shard.Call(ctx, r.coordinator(), func() []string { return r.coordinator().NodeTypes.Names() })
}

// NodeTypeDelete deletes node type name, failing with ErrTypeInUse if any
// shard still holds a live node of that type.
func (r *Router) NodeTypeDelete(ctx context.Context, name string) error {
	id, ok, err := r.NodeTypeGet(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return apierr.New(apierr.UnknownType, "node type %q does not exist", name)
	}
	for _, s := range r.shards {
		s := s
		live, err := shard.Call(ctx, s, func() int {
			if !s.HasNodeStore(id) {
				return 0
			}
			return s.NodeStore(id).Count()
		})
		if err != nil {
			return err
		}
		if live > 0 {
			return apierr.New(apierr.TypeInUse, "node type %q has %d live instance(s) on shard %d", name, live, s.ID)
		}
	}
	for _, s := range r.shards {
		s := s
		if _, err := shard.Call(ctx, s, func() struct{} {
			s.NodeTypes.Delete(id)
			return struct{}{}
		}); err != nil {
			return err
		}
	}
	return nil
}

// --- Type management (relationship types) ---

// RelationshipTypeInsert is NodeTypeInsert's symmetric twin for
// relationship types.
func (r *Router) RelationshipTypeInsert(ctx context.Context, name string) (uint16, error) {
	type result struct {
		id  uint16
		new bool
	}
	res, err := shard.Call(ctx, r.coordinator(), func() result {
		if id := r.coordinator().RelTypes.GetID(name); id != 0 {
			return result{id: id}
		}
		return result{id: r.coordinator().RelTypes.AllocateNext(name), new: true}
	})
	if err != nil {
		return 0, err
	}
	if res.new {
		if err := r.broadcastOthers(ctx, func(s *shard.Shard) { s.RelTypes.Install(name, res.id) }); err != nil {
			return 0, err
		}
	}
	return res.id, nil
}

// RelationshipTypeGet returns the id assigned to name, and whether it
// exists.
func (r *Router) RelationshipTypeGet(ctx context.Context, name string) (uint16, bool, error) {
	id, err := shard.Call(ctx, r.coordinator(), func() uint16 { return r.coordinator().RelTypes.GetID(name) })
	return id, id != 0, err
}

// RelationshipTypeCount returns the number of live relationship types.
func (r *Router) RelationshipTypeCount(ctx context.Context) (int, error) {
	return shard.Call(ctx, r.coordinator(), func() int { return r.coordinator().RelTypes.Count() })
}

// RelationshipTypeNames returns the names of every live relationship
// type.
func (r *Router) RelationshipTypeNames(ctx context.Context) ([]string, error) {
	return shard.Call(ctx, r.coordinator(), func() []string { return r.coordinator().RelTypes.Names() })
}

// RelationshipTypeDelete deletes relationship type name, failing with
// ErrTypeInUse if any shard still holds a live relationship of that type.
func (r *Router) RelationshipTypeDelete(ctx context.Context, name string) error {
	id, ok, err := r.RelationshipTypeGet(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return apierr.New(apierr.UnknownType, "relationship type %q does not exist", name)
	}
	for _, s := range r.shards {
		s := s
		live, err := shard.Call(ctx, s, func() int {
			if !s.HasRelStore(id) {
				return 0
			}
			return s.RelStore(id).Count()
		})
		if err != nil {
			return err
		}
		if live > 0 {
			return apierr.New(apierr.TypeInUse, "relationship type %q has %d live instance(s) on shard %d", name, live, s.ID)
		}
	}
	for _, s := range r.shards {
		s := s
		if _, err := shard.Call(ctx, s, func() struct{} {
			s.RelTypes.Delete(id)
			return struct{}{}
		}); err != nil {
			return err
		}
	}
	return nil
}

// --- Property schema (node types) ---

// NodePropertyTypeAdd declares name as a column of kind on node type
// typeID, on the coordinator first, then broadcast.
func (r *Router) NodePropertyTypeAdd(ctx context.Context, typeID uint16, typeName, name string, kind registry.Kind) error {
	_, err := shard.Call(ctx, r.coordinator(), func() error {
		_, err := r.coordinator().NodeSchemas.Schema(typeID).Declare(typeName, name, kind)
		return err
	})
	if err != nil {
		return err
	}
	return r.broadcastOthers(ctx, func(s *shard.Shard) {
		_, _ = s.NodeSchemas.Schema(typeID).Declare(typeName, name, kind)
	})
}

// NodePropertyTypeGet returns the declared kind for name on node type
// typeID, and whether it is live.
func (r *Router) NodePropertyTypeGet(ctx context.Context, typeID uint16, name string) (registry.Kind, bool, error) {
	type result struct {
		kind registry.Kind
		ok   bool
	}
	res, err := shard.Call(ctx, r.coordinator(), func() result {
		kind, _, ok := r.coordinator().NodeSchemas.Schema(typeID).Get(name)
		return result{kind: kind, ok: ok}
	})
	return res.kind, res.ok, err
}

// NodePropertyTypeDelete tombstones name's declaration on node type
// typeID, on every shard.
func (r *Router) NodePropertyTypeDelete(ctx context.Context, typeID uint16, name string) error {
	for _, s := range r.shards {
		s := s
		if _, err := shard.Call(ctx, s, func() struct{} {
			s.NodeSchemas.Schema(typeID).Delete(name)
			return struct{}{}
		}); err != nil {
			return err
		}
	}
	return nil
}

// --- Property schema (relationship types) ---

// RelationshipPropertyTypeAdd is NodePropertyTypeAdd's symmetric twin for
// relationship types.
func (r *Router) RelationshipPropertyTypeAdd(ctx context.Context, typeID uint16, typeName, name string, kind registry.Kind) error {
	_, err := shard.Call(ctx, r.coordinator(), func() error {
		_, err := r.coordinator().RelSchemas.Schema(typeID).Declare(typeName, name, kind)
		return err
	})
	if err != nil {
		return err
	}
	return r.broadcastOthers(ctx, func(s *shard.Shard) {
		_, _ = s.RelSchemas.Schema(typeID).Declare(typeName, name, kind)
	})
}

// RelationshipPropertyTypeGet returns the declared kind for name on
// relationship type typeID, and whether it is live.
func (r *Router) RelationshipPropertyTypeGet(ctx context.Context, typeID uint16, name string) (registry.Kind, bool, error) {
	type result struct {
		kind registry.Kind
		ok   bool
	}
	res, err := shard.Call(ctx, r.coordinator(), func() result {
		kind, _, ok := r.coordinator().RelSchemas.Schema(typeID).Get(name)
		return result{kind: kind, ok: ok}
	})
	return res.kind, res.ok, err
}

// RelationshipPropertyTypeDelete tombstones name's declaration on
// relationship type typeID, on every shard.
func (r *Router) RelationshipPropertyTypeDelete(ctx context.Context, typeID uint16, name string) error {
	for _, s := range r.shards {
		s := s
		if _, err := shard.Call(ctx, s, func() struct{} {
			s.RelSchemas.Schema(typeID).Delete(name)
			return struct{}{}
		}); err != nil {
			return err
		}
	}
	return nil
}
