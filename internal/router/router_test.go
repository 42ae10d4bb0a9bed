package router

import (
	"context"
	"sync"
	"testing"

	"github.com/dreamware/shardgraph/internal/apierr"
	"github.com/dreamware/shardgraph/internal/graphmodel"
	"github.com/dreamware/shardgraph/internal/idcodec"
	"github.com/dreamware/shardgraph/internal/registry"
	"github.com/dreamware/shardgraph/internal/shard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, n int) *Router {
	t.Helper()
	shards := make([]*shard.Shard, n)
	for i := 0; i < n; i++ {
		shards[i] = shard.New(i)
	}
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for _, s := range shards {
		s := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Run(ctx)
		}()
	}
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
	return New(shards)
}

// addNodeOnShard bypasses hash routing to place a node on a specific
// shard, so cross-shard/same-shard tests can be constructed
// deterministically instead of hoping a key hashes the right way.
func addNodeOnShard(t *testing.T, s *shard.Shard, typeID uint16, key string) uint64 {
	t.Helper()
	offset, err := shard.Call(context.Background(), s, func() int {
		return s.NodeStore(typeID).Add(key)
	})
	require.NoError(t, err)
	return idcodec.Encode(uint16(s.ID), typeID, uint64(offset))
}

func TestNodeTypeInsertReplicatesToAllShards(t *testing.T) {
	r := newTestRouter(t, 3)
	ctx := context.Background()

	id, err := r.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	assert.NotZero(t, id)

	again, err := r.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	for _, s := range r.shards {
		assert.Equal(t, id, s.NodeTypes.GetID("Person"))
	}
}

func TestNodeTypeDeleteFailsWhenInUse(t *testing.T) {
	r := newTestRouter(t, 2)
	ctx := context.Background()

	typeID, err := r.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	addNodeOnShard(t, r.shards[0], typeID, "alice")

	err = r.NodeTypeDelete(ctx, "Person")
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.TypeInUse, apiErr.Kind)
}

func TestNodeTypeDeleteSucceedsWhenEmpty(t *testing.T) {
	r := newTestRouter(t, 2)
	ctx := context.Background()

	_, err := r.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	require.NoError(t, r.NodeTypeDelete(ctx, "Person"))

	_, ok, err := r.NodeTypeGet(ctx, "Person")
	require.NoError(t, err)
	assert.False(t, ok)
}

func declarePersonSchema(t *testing.T, r *Router, typeID uint16) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, r.NodePropertyTypeAdd(ctx, typeID, "Person", "name", registry.KindString))
	require.NoError(t, r.NodePropertyTypeAdd(ctx, typeID, "Person", "age", registry.KindInt64))
}

func TestNodeAddGetRoundTrip(t *testing.T) {
	r := newTestRouter(t, 4)
	ctx := context.Background()

	typeID, err := r.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	declarePersonSchema(t, r, typeID)

	id, err := r.NodeAdd(ctx, typeID, "Person", "max", map[string]any{"name": "max", "age": int64(99)})
	require.NoError(t, err)
	require.NotZero(t, id)

	node, ok, err := r.NodeGet(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "max", node.Key)
	assert.Equal(t, "Person", node.Type)
	assert.Equal(t, "max", node.Properties["name"])
	assert.Equal(t, int64(99), node.Properties["age"])
}

func TestNodeAddDuplicateKeyFails(t *testing.T) {
	r := newTestRouter(t, 2)
	ctx := context.Background()

	typeID, err := r.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)

	_, err = r.NodeAdd(ctx, typeID, "Person", "max", nil)
	require.NoError(t, err)

	_, err = r.NodeAdd(ctx, typeID, "Person", "max", nil)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.DuplicateKey, apiErr.Kind)
}

func TestNodeGetIDRoutesDeterministically(t *testing.T) {
	r := newTestRouter(t, 4)
	ctx := context.Background()

	typeID, err := r.NodeTypeInsert(ctx, "User")
	require.NoError(t, err)
	want, err := r.NodeAdd(ctx, typeID, "User", "helene", nil)
	require.NoError(t, err)

	got, err := r.NodeGetID(ctx, typeID, "User", "helene")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	missing, err := r.NodeGetID(ctx, typeID, "User", "nobody")
	require.NoError(t, err)
	assert.Zero(t, missing)
}

func TestRelationshipAddSameShard(t *testing.T) {
	r := newTestRouter(t, 4)
	ctx := context.Background()

	nodeType, err := r.NodeTypeInsert(ctx, "Node")
	require.NoError(t, err)
	relType, err := r.RelationshipTypeInsert(ctx, "FRIENDS")
	require.NoError(t, err)

	a := addNodeOnShard(t, r.shards[0], nodeType, "a")
	b := addNodeOnShard(t, r.shards[0], nodeType, "b")

	relID, err := r.RelationshipAdd(ctx, relType, a, b, nil)
	require.NoError(t, err)
	require.NotZero(t, relID)

	deg, err := r.NodeGetDegree(ctx, a, graphmodel.Out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, deg)

	deg, err = r.NodeGetDegree(ctx, b, graphmodel.In, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, deg)
}

func TestRelationshipAddCrossShardAdjacencySymmetry(t *testing.T) {
	r := newTestRouter(t, 4)
	ctx := context.Background()

	nodeType, err := r.NodeTypeInsert(ctx, "Node")
	require.NoError(t, err)
	relType, err := r.RelationshipTypeInsert(ctx, "KNOWS")
	require.NoError(t, err)

	a := addNodeOnShard(t, r.shards[0], nodeType, "a")
	b := addNodeOnShard(t, r.shards[1], nodeType, "b")

	relID, err := r.RelationshipAdd(ctx, relType, a, b, nil)
	require.NoError(t, err)
	require.NotZero(t, relID)

	outDeg, err := r.NodeGetDegree(ctx, a, graphmodel.Out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, outDeg)

	inDeg, err := r.NodeGetDegree(ctx, b, graphmodel.In, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, inDeg)

	rel, ok, err := r.RelationshipGet(ctx, relID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a, rel.StartID)
	assert.Equal(t, b, rel.EndID)
}

// TestRelationshipAddPartialFailureWindow forces id2's deletion between
// steps 2 and 3 of the cross-shard relationship-add protocol and asserts
// the documented half-relationship outcome (spec.md §9).
func TestRelationshipAddPartialFailureWindow(t *testing.T) {
	r := newTestRouter(t, 4)
	ctx := context.Background()

	nodeType, err := r.NodeTypeInsert(ctx, "Node")
	require.NoError(t, err)
	relType, err := r.RelationshipTypeInsert(ctx, "KNOWS")
	require.NoError(t, err)

	a := addNodeOnShard(t, r.shards[0], nodeType, "a")
	b := addNodeOnShard(t, r.shards[1], nodeType, "b")

	live2, err := r.checkNodeLive(ctx, b)
	require.NoError(t, err)
	require.True(t, live2)

	relID, err := r.relAddCreateAndOutgoing(ctx, relType, a, b, nil)
	require.NoError(t, err)
	require.NotZero(t, relID)

	require.NoError(t, r.NodeRemove(ctx, b))

	ok3, err := r.relAddIncoming(ctx, relType, a, b, relID)
	require.NoError(t, err)
	assert.False(t, ok3, "incoming link must not be added once id2 is gone")

	outDeg, err := r.NodeGetDegree(ctx, a, graphmodel.Out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, outDeg, "the half-relationship's outgoing side must still be visible")
}

func TestRelationshipRemoveReusesOffset(t *testing.T) {
	r := newTestRouter(t, 2)
	ctx := context.Background()

	nodeType, err := r.NodeTypeInsert(ctx, "Node")
	require.NoError(t, err)
	relType, err := r.RelationshipTypeInsert(ctx, "KNOWS")
	require.NoError(t, err)

	a := addNodeOnShard(t, r.shards[0], nodeType, "a")
	b := addNodeOnShard(t, r.shards[0], nodeType, "b")

	first, err := r.RelationshipAdd(ctx, relType, a, b, nil)
	require.NoError(t, err)
	require.NoError(t, r.RelationshipRemove(ctx, first))

	second, err := r.RelationshipAdd(ctx, relType, a, b, nil)
	require.NoError(t, err)

	assert.Equal(t, idcodec.Offset(first), idcodec.Offset(second), "the minimum freed offset must be reused")

	_, ok, err := r.RelationshipGet(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok, "the reused offset now names the second relationship")
}

func TestNodeRemoveCascadesIncidentRelationships(t *testing.T) {
	r := newTestRouter(t, 4)
	ctx := context.Background()

	nodeType, err := r.NodeTypeInsert(ctx, "Node")
	require.NoError(t, err)
	relType, err := r.RelationshipTypeInsert(ctx, "KNOWS")
	require.NoError(t, err)

	a := addNodeOnShard(t, r.shards[0], nodeType, "a")
	b := addNodeOnShard(t, r.shards[1], nodeType, "b")

	relID, err := r.RelationshipAdd(ctx, relType, a, b, nil)
	require.NoError(t, err)

	require.NoError(t, r.NodeRemove(ctx, a))

	_, ok, err := r.NodeGet(ctx, a)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.RelationshipGet(ctx, relID)
	require.NoError(t, err)
	assert.False(t, ok, "the cascading relationship must be gone too")

	deg, err := r.NodeGetDegree(ctx, b, graphmodel.In, nil)
	require.NoError(t, err)
	assert.Zero(t, deg, "b's incoming link must be cleaned up")
}

func TestNodeGetDegreeSelfLoopDoubleCounts(t *testing.T) {
	r := newTestRouter(t, 2)
	ctx := context.Background()

	nodeType, err := r.NodeTypeInsert(ctx, "Node")
	require.NoError(t, err)
	relType, err := r.RelationshipTypeInsert(ctx, "KNOWS")
	require.NoError(t, err)

	a := addNodeOnShard(t, r.shards[0], nodeType, "a")

	_, err = r.RelationshipAdd(ctx, relType, a, a, nil)
	require.NoError(t, err)

	deg, err := r.NodeGetDegree(ctx, a, graphmodel.Both, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, deg, "a self-loop counts once outgoing and once incoming")
}

func TestNodePropertySetGetDelete(t *testing.T) {
	r := newTestRouter(t, 2)
	ctx := context.Background()

	typeID, err := r.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	declarePersonSchema(t, r, typeID)

	id, err := r.NodeAdd(ctx, typeID, "Person", "max", nil)
	require.NoError(t, err)

	require.NoError(t, r.NodeSetProperty(ctx, id, "age", int64(30)))
	v, ok, err := r.NodeGetProperty(ctx, id, "age")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(30), v.Int)

	require.NoError(t, r.NodeDeleteProperty(ctx, id, "age"))
	_, ok, err = r.NodeGetProperty(ctx, id, "age")
	require.NoError(t, err)
	assert.False(t, ok)
}
