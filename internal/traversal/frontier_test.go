package traversal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrontierAddContains(t *testing.T) {
	f := NewFrontier()
	f.Add(42)
	f.Add(1 << 40)
	assert.True(t, f.Contains(42))
	assert.True(t, f.Contains(1<<40))
	assert.False(t, f.Contains(7))
	assert.Equal(t, 2, f.Len())
}

func TestFrontierOrUnions(t *testing.T) {
	a := FromSlice([]uint64{1, 2, 3})
	b := FromSlice([]uint64{3, 4, 5})
	a.Or(b)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, a.ToSlice())
}

func TestFrontierAndNotSubtracts(t *testing.T) {
	a := FromSlice([]uint64{1, 2, 3, 4})
	b := FromSlice([]uint64{2, 4})
	a.AndNot(b)
	assert.Equal(t, []uint64{1, 3}, a.ToSlice())
}

func TestFrontierToSliceIsSortedAcrossHighHalves(t *testing.T) {
	f := FromSlice([]uint64{5, 1<<40 + 2, 3, 1 << 40})
	assert.Equal(t, []uint64{3, 5, 1 << 40, 1<<40 + 2}, f.ToSlice())
}

func TestFrontierCloneIsIndependent(t *testing.T) {
	a := FromSlice([]uint64{1, 2})
	b := a.Clone()
	b.Add(3)
	assert.Equal(t, []uint64{1, 2}, a.ToSlice())
	assert.Equal(t, []uint64{1, 2, 3}, b.ToSlice())
}
