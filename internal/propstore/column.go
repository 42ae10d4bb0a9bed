package propstore

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/dreamware/shardgraph/internal/registry"
)

// Column is the per-property storage abstraction: a dense vector indexed
// by node/relationship offset, plus a presence bitmap. Implementations
// are generic over their element type (see column[T]) but expose this
// non-generic interface so PropertyStore can hold heterogeneous columns
// in one map.
type Column interface {
	// Kind reports this column's declared scalar kind.
	Kind() registry.Kind
	// Present reports whether offset holds a non-tombstoned value.
	Present(offset int) bool
	// Get returns the value at offset and whether it is present.
	Get(offset int) (Value, bool)
	// SetFromJSON coerces raw (a decoded-JSON value) into this column's
	// kind and stores it at offset, growing the column if needed. It
	// tombstones the cell and returns false if raw cannot be coerced.
	SetFromJSON(offset int, raw any) bool
	// Delete tombstones offset without altering its stored bytes.
	Delete(offset int)
	// DeleteAll tombstones every offset, used when a property column
	// itself is dropped from the schema.
	DeleteAll()
}

// column is the shared generic implementation behind every concrete
// Column kind; only the coerce and toValue functions vary per kind.
type column[T any] struct {
	kind    registry.Kind
	values  []T
	present *bitset.BitSet
	coerce  func(any) (T, bool)
	toValue func(T) Value
}

func newColumn[T any](kind registry.Kind, coerce func(any) (T, bool), toValue func(T) Value) *column[T] {
	return &column[T]{
		kind:    kind,
		present: bitset.New(0),
		coerce:  coerce,
		toValue: toValue,
	}
}

func (c *column[T]) Kind() registry.Kind { return c.kind }

func (c *column[T]) grow(n int) {
	if n <= len(c.values) {
		return
	}
	grown := make([]T, n)
	copy(grown, c.values)
	c.values = grown
}

func (c *column[T]) Present(offset int) bool {
	return offset >= 0 && offset < len(c.values) && c.present.Test(uint(offset))
}

func (c *column[T]) Get(offset int) (Value, bool) {
	if !c.Present(offset) {
		return Value{}, false
	}
	return c.toValue(c.values[offset]), true
}

func (c *column[T]) SetFromJSON(offset int, raw any) bool {
	c.grow(offset + 1)
	v, ok := c.coerce(raw)
	if !ok {
		c.present.Clear(uint(offset))
		return false
	}
	c.values[offset] = v
	c.present.Set(uint(offset))
	return true
}

func (c *column[T]) Delete(offset int) {
	if offset >= 0 && offset < len(c.values) {
		c.present.Clear(uint(offset))
	}
}

func (c *column[T]) DeleteAll() {
	c.present.ClearAll()
}

// newBoolColumn, newInt64Column, ... construct the concrete column for
// each registry.Kind, wiring in the corresponding coercion rule from
// coerce.go and the Value constructor that tags the result correctly.

func newBoolColumn() Column {
	return newColumn(registry.KindBool, coerceBool, func(b bool) Value { return Value{Kind: registry.KindBool, Bool: b} })
}

func newInt64Column() Column {
	return newColumn(registry.KindInt64, coerceInt64, func(i int64) Value { return Value{Kind: registry.KindInt64, Int: i} })
}

func newDoubleColumn() Column {
	return newColumn(registry.KindDouble, coerceDouble, func(f float64) Value { return Value{Kind: registry.KindDouble, Float: f} })
}

func newStringColumn() Column {
	return newColumn(registry.KindString, coerceString, func(s string) Value { return Value{Kind: registry.KindString, Str: s} })
}

func newDateColumn() Column {
	return newColumn(registry.KindDate, coerceDate, func(f float64) Value { return Value{Kind: registry.KindDate, Float: f} })
}

func newListBoolColumn() Column {
	coerce := func(raw any) ([]bool, bool) { return coerceList(raw, coerceBool) }
	return newColumn(registry.KindListBool, coerce, func(l []bool) Value { return Value{Kind: registry.KindListBool, ListBool: l} })
}

func newListInt64Column() Column {
	coerce := func(raw any) ([]int64, bool) { return coerceList(raw, coerceInt64) }
	return newColumn(registry.KindListInt64, coerce, func(l []int64) Value { return Value{Kind: registry.KindListInt64, ListInt: l} })
}

func newListDoubleColumn() Column {
	coerce := func(raw any) ([]float64, bool) { return coerceList(raw, coerceDouble) }
	return newColumn(registry.KindListDouble, coerce, func(l []float64) Value { return Value{Kind: registry.KindListDouble, ListFloat: l} })
}

func newListStringColumn() Column {
	coerce := func(raw any) ([]string, bool) { return coerceList(raw, coerceString) }
	return newColumn(registry.KindListString, coerce, func(l []string) Value { return Value{Kind: registry.KindListString, ListStr: l} })
}

func newListDateColumn() Column {
	coerce := func(raw any) ([]float64, bool) { return coerceList(raw, coerceDate) }
	return newColumn(registry.KindListDate, coerce, func(l []float64) Value { return Value{Kind: registry.KindListDate, ListFloat: l} })
}

// newColumnFor constructs the concrete Column implementation for kind.
func newColumnFor(kind registry.Kind) Column {
	switch kind {
	case registry.KindBool:
		return newBoolColumn()
	case registry.KindInt64:
		return newInt64Column()
	case registry.KindDouble:
		return newDoubleColumn()
	case registry.KindString:
		return newStringColumn()
	case registry.KindDate:
		return newDateColumn()
	case registry.KindListBool:
		return newListBoolColumn()
	case registry.KindListInt64:
		return newListInt64Column()
	case registry.KindListDouble:
		return newListDoubleColumn()
	case registry.KindListString:
		return newListStringColumn()
	case registry.KindListDate:
		return newListDateColumn()
	default:
		return nil
	}
}
