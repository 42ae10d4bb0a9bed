package filter

import (
	"testing"

	"github.com/dreamware/shardgraph/internal/propstore"
	"github.com/dreamware/shardgraph/internal/registry"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateIsNullIgnoresValue(t *testing.T) {
	assert.True(t, Evaluate(propstore.Value{}, false, IsNull, nil))
	assert.False(t, Evaluate(propstore.Value{}, true, IsNull, nil))
	assert.False(t, Evaluate(propstore.Value{}, false, NotIsNull, nil))
	assert.True(t, Evaluate(propstore.Value{}, true, NotIsNull, nil))
}

func TestEvaluateAbsentIsFalseForEveryOtherOp(t *testing.T) {
	assert.False(t, Evaluate(propstore.Value{}, false, EQ, 1))
	assert.False(t, Evaluate(propstore.Value{}, false, StartsWith, "x"))
}

func TestEvaluateNumericComparisonsWithIntDoublePromotion(t *testing.T) {
	v := propstore.Value{Kind: registry.KindInt64, Int: 42}
	assert.True(t, Evaluate(v, true, EQ, 42))
	assert.True(t, Evaluate(v, true, EQ, 42.0))
	assert.True(t, Evaluate(v, true, GT, 41))
	assert.True(t, Evaluate(v, true, GTE, 42))
	assert.True(t, Evaluate(v, true, LT, 43))
	assert.True(t, Evaluate(v, true, LTE, 42))
	assert.True(t, Evaluate(v, true, NEQ, 7))

	d := propstore.Value{Kind: registry.KindDouble, Float: 3.5}
	assert.True(t, Evaluate(d, true, GT, 3))
	assert.True(t, Evaluate(d, true, LT, 4))
}

func TestEvaluateMismatchedKindIsFalseNotError(t *testing.T) {
	v := propstore.Value{Kind: registry.KindInt64, Int: 42}
	assert.False(t, Evaluate(v, true, EQ, "42"))
	assert.False(t, Evaluate(v, true, GT, "x"))

	s := propstore.Value{Kind: registry.KindString, Str: "hello"}
	assert.False(t, Evaluate(s, true, GT, 1))
}

func TestEvaluateStringOps(t *testing.T) {
	v := propstore.Value{Kind: registry.KindString, Str: "maxdemarzi"}
	assert.True(t, Evaluate(v, true, StartsWith, "max"))
	assert.False(t, Evaluate(v, true, StartsWith, "zzz"))
	assert.True(t, Evaluate(v, true, EndsWith, "marzi"))
	assert.True(t, Evaluate(v, true, Contains, "dema"))
	assert.False(t, Evaluate(v, true, Contains, "zzz"))
	assert.True(t, Evaluate(v, true, NotContains, "zzz"))
	assert.False(t, Evaluate(v, true, NotStartsWith, "max"))
}

func TestEvaluateStringEquality(t *testing.T) {
	v := propstore.Value{Kind: registry.KindString, Str: "max"}
	assert.True(t, Evaluate(v, true, EQ, "max"))
	assert.False(t, Evaluate(v, true, EQ, "other"))
}
