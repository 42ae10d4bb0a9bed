package shardgraph

import (
	"github.com/dreamware/shardgraph/internal/apierr"
	"github.com/dreamware/shardgraph/internal/monitor"
)

// Kind identifies one of the error categories a Database operation can
// fail with.
type Kind = apierr.Kind

// Error is the typed error returned for every non-sentinel failure in
// this package's public surface. Use errors.Is against the Err*
// sentinels below, or switch on its Kind field.
type Error = apierr.Error

// ShardHealth is one shard's current liveness record, as tracked by the
// Database's background Monitor.
type ShardHealth = monitor.ShardHealth

const (
	InvalidID                = apierr.InvalidID
	UnknownType              = apierr.UnknownType
	DuplicateKey             = apierr.DuplicateKey
	SchemaConflict           = apierr.SchemaConflict
	CoercionFailure          = apierr.CoercionFailure
	TypeInUse                = apierr.TypeInUse
	PartialCrossShardFailure = apierr.PartialCrossShardFailure
)

// Sentinels for errors.Is comparisons, e.g. errors.Is(err, shardgraph.ErrDuplicateKey).
var (
	ErrInvalidID                = apierr.ErrInvalidID
	ErrUnknownType              = apierr.ErrUnknownType
	ErrDuplicateKey             = apierr.ErrDuplicateKey
	ErrSchemaConflict           = apierr.ErrSchemaConflict
	ErrCoercionFailure          = apierr.ErrCoercionFailure
	ErrTypeInUse                = apierr.ErrTypeInUse
	ErrPartialCrossShardFailure = apierr.ErrPartialCrossShardFailure
)
