package router

import (
	"context"
	"testing"

	"github.com/dreamware/shardgraph/internal/filter"
	"github.com/dreamware/shardgraph/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPeople(t *testing.T, r *Router) uint16 {
	t.Helper()
	ctx := context.Background()
	typeID, err := r.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	require.NoError(t, r.NodePropertyTypeAdd(ctx, typeID, "Person", "name", registry.KindString))
	require.NoError(t, r.NodePropertyTypeAdd(ctx, typeID, "Person", "age", registry.KindInt64))

	people := []struct {
		key  string
		name string
		age  int64
	}{
		{"p1", "maxdemarzi", 40},
		{"p2", "helenedemarzi", 35},
		{"p3", "maxwell", 12},
	}
	for _, p := range people {
		_, err := r.NodeAdd(ctx, typeID, "Person", p.key, map[string]any{"name": p.name, "age": p.age})
		require.NoError(t, err)
	}
	return typeID
}

func TestFindNodeIdsStartsWith(t *testing.T) {
	r := newTestRouter(t, 4)
	ctx := context.Background()
	typeID := seedPeople(t, r)

	ids, err := r.FindNodeIds(ctx, typeID, filter.Query{
		Predicate: filter.Predicate{Property: "name", Op: filter.StartsWith, Value: "max"},
	})
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestFindNodeCountGTE(t *testing.T) {
	r := newTestRouter(t, 4)
	ctx := context.Background()
	typeID := seedPeople(t, r)

	count, err := r.FindNodeCount(ctx, typeID, filter.Predicate{Property: "age", Op: filter.GTE, Value: 35})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestFindNodesSortedDescendingByAge(t *testing.T) {
	r := newTestRouter(t, 4)
	ctx := context.Background()
	typeID := seedPeople(t, r)

	nodes, err := r.FindNodes(ctx, typeID, filter.Query{
		Predicate:    filter.Predicate{Property: "age", Op: filter.GT, Value: 0},
		SortProperty: "age",
		Sort:         filter.Descending,
	})
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "maxdemarzi", nodes[0].Properties["name"])
	assert.Equal(t, "helenedemarzi", nodes[1].Properties["name"])
	assert.Equal(t, "maxwell", nodes[2].Properties["name"])
}

func TestFindNodeIdsIsNullFindsTombstonedColumn(t *testing.T) {
	r := newTestRouter(t, 2)
	ctx := context.Background()
	typeID := seedPeople(t, r)

	allIDs, err := r.FindNodeIds(ctx, typeID, filter.Query{Predicate: filter.Predicate{Property: "age", Op: filter.GT, Value: -1}})
	require.NoError(t, err)
	require.Len(t, allIDs, 3)
	require.NoError(t, r.NodeDeleteProperty(ctx, allIDs[0], "age"))

	nullIDs, err := r.FindNodeIds(ctx, typeID, filter.Query{Predicate: filter.Predicate{Property: "age", Op: filter.IsNull}})
	require.NoError(t, err)
	assert.Equal(t, []uint64{allIDs[0]}, nullIDs)
}

func TestFindNodeIdsSkipLimit(t *testing.T) {
	r := newTestRouter(t, 4)
	ctx := context.Background()
	typeID := seedPeople(t, r)

	page, err := r.FindNodeIds(ctx, typeID, filter.Query{
		Predicate: filter.Predicate{Property: "age", Op: filter.GT, Value: -1},
		Skip:      1,
		Limit:     1,
	})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestFilterNodeIdsNarrowsGivenSet(t *testing.T) {
	r := newTestRouter(t, 4)
	ctx := context.Background()
	typeID := seedPeople(t, r)

	all, err := r.FindNodeIds(ctx, typeID, filter.Query{Predicate: filter.Predicate{Property: "age", Op: filter.GT, Value: -1}})
	require.NoError(t, err)

	narrowed, err := r.FilterNodeIds(ctx, all, filter.Predicate{Property: "age", Op: filter.LT, Value: 20})
	require.NoError(t, err)
	require.Len(t, narrowed, 1)

	node, ok, err := r.NodeGet(ctx, narrowed[0])
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "maxwell", node.Properties["name"])
}
