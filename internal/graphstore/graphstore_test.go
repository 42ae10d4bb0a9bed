package graphstore

import (
	"sort"
	"testing"

	"github.com/dreamware/shardgraph/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeTypeStoreAddAndLookup(t *testing.T) {
	schema := registry.NewTypeSchema()
	s := NewNodeTypeStore(schema)

	off := s.Add("four")
	assert.Equal(t, 0, off)

	got, ok := s.OffsetForKey("four")
	require.True(t, ok)
	assert.Equal(t, off, got)

	key, ok := s.Key(off)
	require.True(t, ok)
	assert.Equal(t, "four", key)
}

func TestNodeTypeStoreOffsetReuse(t *testing.T) {
	schema := registry.NewTypeSchema()
	s := NewNodeTypeStore(schema)

	a := s.Add("a")
	b := s.Add("b")
	s.Remove(a)

	reused := s.Add("c")
	assert.Equal(t, a, reused, "the minimum deleted offset must be reused first")
	assert.NotEqual(t, b, reused)
}

func TestNodeTypeStoreKeyUniqueAfterRemoval(t *testing.T) {
	schema := registry.NewTypeSchema()
	s := NewNodeTypeStore(schema)

	off := s.Add("k")
	s.Remove(off)

	_, ok := s.OffsetForKey("k")
	assert.False(t, ok, "a removed key must not resolve to its old offset")
}

func TestAdjacencySortedness(t *testing.T) {
	var groups []Group
	links := []Link{{NodeID: 30, RelID: 1}, {NodeID: 10, RelID: 5}, {NodeID: 10, RelID: 2}, {NodeID: 20, RelID: 1}}
	for _, l := range links {
		groups = insertLink(groups, 1, l)
	}

	require.Len(t, groups, 1)
	got := groups[0].Links
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return less(got[i], got[j]) }))
	assert.Equal(t, []Link{{10, 2}, {10, 5}, {20, 1}, {30, 1}}, got)
}

func TestAdjacencyGroupsPreserveFirstUseOrder(t *testing.T) {
	var groups []Group
	groups = insertLink(groups, 2, Link{NodeID: 1, RelID: 1})
	groups = insertLink(groups, 1, Link{NodeID: 2, RelID: 2})
	groups = insertLink(groups, 2, Link{NodeID: 3, RelID: 3})

	require.Len(t, groups, 2)
	assert.Equal(t, uint16(2), groups[0].RelType)
	assert.Equal(t, uint16(1), groups[1].RelType)
	assert.Len(t, groups[0].Links, 2)
}

func TestRemoveLink(t *testing.T) {
	var groups []Group
	link := Link{NodeID: 5, RelID: 1}
	groups = insertLink(groups, 1, link)
	removeLink(groups, 1, link)

	assert.Empty(t, groups[0].Links)
}

func TestOffsetPoolMinimumReuse(t *testing.T) {
	p := newOffsetPool()
	p.Free(5)
	p.Free(2)
	p.Free(8)

	offset, ok := p.Reuse()
	require.True(t, ok)
	assert.Equal(t, 2, offset)

	offset, ok = p.Reuse()
	require.True(t, ok)
	assert.Equal(t, 5, offset)
}

func TestOffsetPoolEmpty(t *testing.T) {
	p := newOffsetPool()
	_, ok := p.Reuse()
	assert.False(t, ok)
}

func TestRelationshipTypeStoreAddRemoveReuse(t *testing.T) {
	schema := registry.NewTypeSchema()
	s := NewRelationshipTypeStore(schema)

	off := s.Add(10, 20)
	start, end, ok := s.Endpoints(off)
	require.True(t, ok)
	assert.Equal(t, uint64(10), start)
	assert.Equal(t, uint64(20), end)

	s.Remove(off)
	assert.False(t, s.Live(off))

	reused := s.Add(30, 40)
	assert.Equal(t, off, reused)
}

func TestNodeTypeStoreCountAndEverCreated(t *testing.T) {
	schema := registry.NewTypeSchema()
	s := NewNodeTypeStore(schema)
	a := s.Add("a")
	s.Add("b")
	s.Remove(a)

	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 2, s.EverCreated())
}
