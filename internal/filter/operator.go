package filter

import (
	"reflect"
	"strings"

	"github.com/dreamware/shardgraph/internal/propstore"
	"github.com/dreamware/shardgraph/internal/registry"
)

// Op is one of the fourteen predicate operators spec.md §4.9 requires.
type Op int

const (
	EQ Op = iota
	NEQ
	GT
	GTE
	LT
	LTE
	IsNull
	NotIsNull
	StartsWith
	NotStartsWith
	EndsWith
	NotEndsWith
	Contains
	NotContains
)

// Predicate is one FilterCore clause: evaluate Property against Op and
// Value.
type Predicate struct {
	Property string
	Op       Op
	Value    any
}

// Evaluate reports whether v (present at an offset iff present is true)
// satisfies op against query, per spec.md §4.9's type rules: numeric ops
// compare with int<->double promotion, string ops compare UTF-8 byte
// sequences, IS_NULL/NOT_IS_NULL test presence directly, and comparing a
// value of mismatched kind to query yields false rather than an error.
func Evaluate(v propstore.Value, present bool, op Op, query any) bool {
	if op == IsNull {
		return !present
	}
	if op == NotIsNull {
		return present
	}
	if !present {
		return false
	}

	switch op {
	case EQ, NEQ, GT, GTE, LT, LTE:
		return evalNumericOrEqual(v, op, query)
	case StartsWith, NotStartsWith, EndsWith, NotEndsWith, Contains, NotContains:
		return evalString(v, op, query)
	default:
		return false
	}
}

// asFloat64 returns v's value widened to float64 for numeric comparison,
// and whether v holds a numeric (int64 or double) kind.
func asFloat64(v propstore.Value) (float64, bool) {
	switch v.Kind {
	case registry.KindInt64:
		return float64(v.Int), true
	case registry.KindDouble, registry.KindDate:
		return v.Float, true
	default:
		return 0, false
	}
}

func queryAsFloat64(query any) (float64, bool) {
	switch q := query.(type) {
	case int:
		return float64(q), true
	case int64:
		return float64(q), true
	case float64:
		return q, true
	case float32:
		return float64(q), true
	default:
		return 0, false
	}
}

// evalNumericOrEqual handles EQ/NEQ for every kind (numeric promotion for
// int/double, exact match otherwise) and GT/GTE/LT/LTE which are
// numeric-only per spec.md §4.9.
func evalNumericOrEqual(v propstore.Value, op Op, query any) bool {
	if vf, vok := asFloat64(v); vok {
		if qf, qok := queryAsFloat64(query); qok {
			switch op {
			case EQ:
				return vf == qf
			case NEQ:
				return vf != qf
			case GT:
				return vf > qf
			case GTE:
				return vf >= qf
			case LT:
				return vf < qf
			case LTE:
				return vf <= qf
			}
		}
		// Numeric column compared against a non-numeric query value:
		// mismatched kind, never an error.
		return false
	}

	nv := v.Native()
	if reflect.TypeOf(nv) != reflect.TypeOf(query) {
		// Mismatched kind: false for every operator, never an error.
		return false
	}
	switch op {
	case EQ:
		return reflect.DeepEqual(nv, query)
	case NEQ:
		return !reflect.DeepEqual(nv, query)
	default:
		// GT/GTE/LT/LTE against a non-numeric column: no ordering
		// defined, so it's simply false.
		return false
	}
}

func evalString(v propstore.Value, op Op, query any) bool {
	if v.Kind != registry.KindString {
		return false
	}
	q, ok := query.(string)
	if !ok {
		return false
	}
	switch op {
	case StartsWith:
		return strings.HasPrefix(v.Str, q)
	case NotStartsWith:
		return !strings.HasPrefix(v.Str, q)
	case EndsWith:
		return strings.HasSuffix(v.Str, q)
	case NotEndsWith:
		return !strings.HasSuffix(v.Str, q)
	case Contains:
		return strings.Contains(v.Str, q)
	case NotContains:
		return !strings.Contains(v.Str, q)
	default:
		return false
	}
}
