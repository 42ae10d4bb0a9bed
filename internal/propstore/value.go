package propstore

import "github.com/dreamware/shardgraph/internal/registry"

// Value is the tagged union every property cell is read back as,
// matching spec.md §9's "Polymorphic property values" design note: a
// null/bool/i64/f64/string/list-of-each union. Only the field named by
// Kind is meaningful; the rest are zero values.
type Value struct {
	Kind      registry.Kind
	Bool      bool
	Int       int64
	Float     float64
	Str       string
	ListBool  []bool
	ListInt   []int64
	ListFloat []float64
	ListStr   []string
}

// Native converts a Value into the plain Go value external callers see
// from NodeGet/RelationshipGet property maps: bool, int64, float64,
// string, or one of the []bool/[]int64/[]float64/[]string list forms.
// Dates (scalar and list) surface as float64 seconds-since-epoch, per
// spec.md §3 ("date is stored as double seconds since epoch").
func (v Value) Native() any {
	switch v.Kind {
	case registry.KindBool:
		return v.Bool
	case registry.KindInt64:
		return v.Int
	case registry.KindDouble, registry.KindDate:
		return v.Float
	case registry.KindString:
		return v.Str
	case registry.KindListBool:
		return v.ListBool
	case registry.KindListInt64:
		return v.ListInt
	case registry.KindListDouble, registry.KindListDate:
		return v.ListFloat
	case registry.KindListString:
		return v.ListStr
	default:
		return nil
	}
}
