package shardgraph

import (
	"github.com/dreamware/shardgraph/internal/filter"
	"github.com/dreamware/shardgraph/internal/graphmodel"
	"github.com/dreamware/shardgraph/internal/registry"
	"github.com/dreamware/shardgraph/internal/traversal"
)

// Direction selects which adjacency groups a traversal or degree count
// considers.
type Direction = graphmodel.Direction

const (
	Out  = graphmodel.Out
	In   = graphmodel.In
	Both = graphmodel.Both
)

// Node is the external-facing view of a node record: its id, type name,
// key, and live (non-tombstoned) properties.
type Node = graphmodel.Node

// Relationship is the external-facing view of a relationship record.
type Relationship = graphmodel.Relationship

// TypeFilter selects which relationship type ids a traversal or degree
// count considers. A nil or empty TypeFilter matches every type.
type TypeFilter = graphmodel.TypeFilter

// PropertyKind identifies the declared storage kind of a property
// column: int64, double, string, boolean, or date, or a list of boolean,
// int64, double or string values.
type PropertyKind = registry.Kind

const (
	KindInt64      = registry.KindInt64
	KindDouble     = registry.KindDouble
	KindString     = registry.KindString
	KindBool       = registry.KindBool
	KindDate       = registry.KindDate
	KindListBool   = registry.KindListBool
	KindListInt64  = registry.KindListInt64
	KindListDouble = registry.KindListDouble
	KindListString = registry.KindListString
	KindListDate   = registry.KindListDate
)

// NeighborDegree pairs a neighbor's id with its own degree.
type NeighborDegree = traversal.NeighborDegree

// Op is one FilterCore comparison or string-match operator.
type Op = filter.Op

const (
	EQ            = filter.EQ
	NEQ           = filter.NEQ
	GT            = filter.GT
	GTE           = filter.GTE
	LT            = filter.LT
	LTE           = filter.LTE
	IsNull        = filter.IsNull
	NotIsNull     = filter.NotIsNull
	StartsWith    = filter.StartsWith
	NotStartsWith = filter.NotStartsWith
	EndsWith      = filter.EndsWith
	NotEndsWith   = filter.NotEndsWith
	Contains      = filter.Contains
	NotContains   = filter.NotContains
)

// Predicate is one FilterCore test: a property name, an operator, and
// (except for the IsNull family) a comparison value.
type Predicate = filter.Predicate

// SortOrder selects how a Query orders its results.
type SortOrder = filter.SortOrder

const (
	NoSort     = filter.NoSort
	Ascending  = filter.Ascending
	Descending = filter.Descending
)

// Query bundles one FilterCore scan: the predicate to evaluate, the
// global skip/limit window, and an optional sort.
type Query = filter.Query
