package shardgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDatabase opens a Database with numShards shards and registers
// its Close on t's cleanup.
func newTestDatabase(t *testing.T, numShards int) *Database {
	t.Helper()
	db := Open(numShards)
	t.Cleanup(db.Close)
	return db
}

// TestFriendsAndEnemiesDegree is spec.md §8 scenario 1's behavioral
// half: the exact external ids it calls out (verifying IdCodec's packed
// layout) are pinned directly against Encode/Decode in
// internal/idcodec's own tests, since reproducing them here would also
// require the original engine's specific hash routing outcome for the
// literal keys "four"/"five"/"six", which this engine's xxhash-based
// HashRoute has no obligation to reproduce. What's tested here is the
// degree/adjacency math the scenario exists to exercise.
func TestFriendsAndEnemiesDegree(t *testing.T) {
	db := newTestDatabase(t, 4)
	ctx := context.Background()

	nodeType, err := db.NodeTypeInsert(ctx, "Node")
	require.NoError(t, err)
	require.NoError(t, err)

	four, err := db.NodeAddEmpty(ctx, nodeType, "Node", "four")
	require.NoError(t, err)
	five, err := db.NodeAddEmpty(ctx, nodeType, "Node", "five")
	require.NoError(t, err)

	friends, err := db.RelationshipTypeInsert(ctx, "FRIENDS")
	require.NoError(t, err)
	enemies, err := db.RelationshipTypeInsert(ctx, "ENEMIES")
	require.NoError(t, err)

	_, err = db.RelationshipAdd(ctx, friends, four, five, nil)
	require.NoError(t, err)
	_, err = db.RelationshipAdd(ctx, enemies, five, four, nil)
	require.NoError(t, err)

	both, err := db.NodeGetDegree(ctx, four, Both, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, both)

	in, err := db.NodeGetDegree(ctx, four, In, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, in)

	out, err := db.NodeGetDegree(ctx, four, Out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out)

	inEnemies, err := db.NodeGetDegree(ctx, four, In, TypeFilter{enemies})
	require.NoError(t, err)
	assert.Equal(t, 1, inEnemies)

	outEnemies, err := db.NodeGetDegree(ctx, four, Out, TypeFilter{enemies})
	require.NoError(t, err)
	assert.Equal(t, 0, outEnemies)

	bothFiltered, err := db.NodeGetDegree(ctx, four, Both, TypeFilter{friends, enemies})
	require.NoError(t, err)
	assert.Equal(t, 2, bothFiltered)
}

// TestNodeGetIDRoundTripsThroughLookup is spec.md §8 scenario 2's
// behavioral half: adding a node and then resolving it back by
// (type, key) from any caller must return the same id, regardless of
// which shard HashRoute happened to land it on.
func TestNodeGetIDRoundTripsThroughLookup(t *testing.T) {
	db := newTestDatabase(t, 4)
	ctx := context.Background()

	userType, err := db.NodeTypeInsert(ctx, "User")
	require.NoError(t, err)

	id, err := db.NodeAddEmpty(ctx, userType, "User", "helene")
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := db.NodeGetID(ctx, userType, "User", "helene")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

// TestPropertyFilterCounts is spec.md §8 scenario 3.
func TestPropertyFilterCounts(t *testing.T) {
	db := newTestDatabase(t, 4)
	ctx := context.Background()

	personType, err := db.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	require.NoError(t, db.NodePropertyTypeAdd(ctx, personType, "Person", "name", KindString))
	require.NoError(t, db.NodePropertyTypeAdd(ctx, personType, "Person", "age", KindInt64))
	require.NoError(t, db.NodePropertyTypeAdd(ctx, personType, "Person", "weight", KindDouble))
	require.NoError(t, db.NodePropertyTypeAdd(ctx, personType, "Person", "active", KindBool))
	require.NoError(t, db.NodePropertyTypeAdd(ctx, personType, "Person", "vector", KindListInt64))

	people := []struct {
		key    string
		name   string
		age    int64
		weight float64
		active bool
		vector []int64
	}{
		{"p1", "max", 99, 230.5, true, []int64{1, 2, 3, 4}},
		{"p2", "max", 99, 230.5, true, []int64{1, 2, 3, 4}},
		{"p3", "alex", 55, 199, false, []int64{1, 2}},
		{"p4", "alex", 55, 199, false, []int64{3, 4}},
	}
	for _, p := range people {
		_, err := db.NodeAdd(ctx, personType, "Person", p.key, map[string]any{
			"name": p.name, "age": p.age, "weight": p.weight, "active": p.active, "vector": p.vector,
		})
		require.NoError(t, err)
	}

	count, err := db.FindNodeCount(ctx, personType, Predicate{Property: "age", Op: EQ, Value: int64(55)})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = db.FindNodeCount(ctx, personType, Predicate{Property: "age", Op: GT, Value: 55})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = db.FindNodeCount(ctx, personType, Predicate{Property: "age", Op: GTE, Value: 55})
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	count, err = db.FindNodeCount(ctx, personType, Predicate{Property: "age", Op: LTE, Value: 55})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = db.FindNodeCount(ctx, personType, Predicate{Property: "name", Op: StartsWith, Value: "a"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = db.FindNodeCount(ctx, personType, Predicate{Property: "name", Op: EndsWith, Value: "x"})
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	count, err = db.FindNodeCount(ctx, personType, Predicate{Property: "name", Op: Contains, Value: "a"})
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

// TestRelationshipRemoveReusesOffset is spec.md §8 scenario 4.
func TestRelationshipRemoveReusesOffset(t *testing.T) {
	db := newTestDatabase(t, 1)
	ctx := context.Background()

	personType, err := db.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	a, err := db.NodeAddEmpty(ctx, personType, "Person", "a")
	require.NoError(t, err)
	b, err := db.NodeAddEmpty(ctx, personType, "Person", "b")
	require.NoError(t, err)

	knows, err := db.RelationshipTypeInsert(ctx, "KNOWS")
	require.NoError(t, err)

	first, err := db.RelationshipAdd(ctx, knows, a, b, nil)
	require.NoError(t, err)
	require.NoError(t, db.RelationshipRemove(ctx, first))

	second, err := db.RelationshipAdd(ctx, knows, a, b, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestNodeTypeInsertIsIdempotentAndTypeInUseBlocksDelete is spec.md §8
// scenario 5.
func TestNodeTypeInsertIsIdempotentAndTypeInUseBlocksDelete(t *testing.T) {
	db := newTestDatabase(t, 2)
	ctx := context.Background()

	first, err := db.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	second, err := db.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, db.NodeTypeDelete(ctx, "Person"))

	// Re-inserting a deleted name allocates a fresh id; deleted ids are
	// never reused.
	again, err := db.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	id, err := db.NodeAddEmpty(ctx, again, "Person", "only")
	require.NoError(t, err)
	require.NotZero(t, id)

	err = db.NodeTypeDelete(ctx, "Person")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeInUse)
}

// TestKHopCorrectness is spec.md §8 scenario 6.
func TestKHopCorrectness(t *testing.T) {
	db := newTestDatabase(t, 3)
	ctx := context.Background()

	personType, err := db.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	knows, err := db.RelationshipTypeInsert(ctx, "KNOWS")
	require.NoError(t, err)

	ids := make(map[string]uint64)
	for _, key := range []string{"a", "b", "c", "d"} {
		id, err := db.NodeAddEmpty(ctx, personType, "Person", key)
		require.NoError(t, err)
		ids[key] = id
	}
	_, err = db.RelationshipAdd(ctx, knows, ids["a"], ids["b"], nil)
	require.NoError(t, err)
	_, err = db.RelationshipAdd(ctx, knows, ids["b"], ids["c"], nil)
	require.NoError(t, err)
	_, err = db.RelationshipAdd(ctx, knows, ids["c"], ids["d"], nil)
	require.NoError(t, err)

	oneHop, err := db.KHopIds(ctx, ids["a"], 1, Out, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{ids["b"]}, oneHop)

	twoHop, err := db.KHopIds(ctx, ids["a"], 2, Out, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{ids["b"], ids["c"]}, twoHop)

	threeHop, err := db.KHopIds(ctx, ids["a"], 3, Out, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{ids["b"], ids["c"], ids["d"]}, threeHop)

	count, err := db.KHopCount(ctx, ids["a"], 3, Out, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	zero, err := db.KHopIds(ctx, ids["a"], 0, Out, nil)
	require.NoError(t, err)
	assert.Empty(t, zero)
}

// TestNodeAddEmptyThenRemoveLeavesCountUnchanged exercises spec.md §8's
// NodeAddEmpty/NodeRemove round-trip law.
func TestNodeAddEmptyThenRemoveLeavesCountUnchanged(t *testing.T) {
	db := newTestDatabase(t, 2)
	ctx := context.Background()

	personType, err := db.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	_, err = db.NodeAddEmpty(ctx, personType, "Person", "keep")
	require.NoError(t, err)

	// IS_NULL on an undeclared property matches every live node of the
	// type, so this counts the live Person nodes.
	before, err := db.FindNodeCount(ctx, personType, Predicate{Property: "missing", Op: IsNull})
	require.NoError(t, err)

	id, err := db.NodeAddEmpty(ctx, personType, "Person", "transient")
	require.NoError(t, err)
	require.NoError(t, db.NodeRemove(ctx, id))

	after, err := db.FindNodeCount(ctx, personType, Predicate{Property: "missing", Op: IsNull})
	require.NoError(t, err)
	assert.Equal(t, 1, before)
	assert.Equal(t, before, after)
}

// TestNodeAddManyDuplicateKeysWithinBatch is spec.md §8's NodeAddMany
// boundary behavior.
func TestNodeAddManyDuplicateKeysWithinBatch(t *testing.T) {
	db := newTestDatabase(t, 2)
	ctx := context.Background()

	personType, err := db.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)

	ids, err := db.NodeAddMany(ctx, personType, "Person", []NodeBatchEntry{
		{Key: "dup"},
		{Key: "unique"},
		{Key: "dup"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.NotZero(t, ids[0])
	assert.NotZero(t, ids[1])
	assert.Zero(t, ids[2])
}

// TestFindNodeIdsIsNullMatchesTombstonedColumn is spec.md §8's
// FindNodes(...,IS_NULL,_) law.
func TestFindNodeIdsIsNullMatchesTombstonedColumn(t *testing.T) {
	db := newTestDatabase(t, 2)
	ctx := context.Background()

	personType, err := db.NodeTypeInsert(ctx, "Person")
	require.NoError(t, err)
	require.NoError(t, db.NodePropertyTypeAdd(ctx, personType, "Person", "age", KindInt64))

	id1, err := db.NodeAdd(ctx, personType, "Person", "has-age", map[string]any{"age": int64(10)})
	require.NoError(t, err)
	id2, err := db.NodeAdd(ctx, personType, "Person", "no-age", nil)
	require.NoError(t, err)
	_ = id1

	nullIDs, err := db.FindNodeIds(ctx, personType, Query{Predicate: Predicate{Property: "age", Op: IsNull}})
	require.NoError(t, err)
	assert.Equal(t, []uint64{id2}, nullIDs)
}
