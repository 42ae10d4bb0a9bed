// Package apierr defines the error taxonomy shared by internal/router and
// the root shardgraph package. It lives on its own, below both, so that
// router can return a typed error without importing the root package
// (which imports router).
package apierr

import "fmt"

// Kind identifies one of the error categories a shardgraph operation can
// fail with.
type Kind int

const (
	// InvalidID marks an external id that is malformed, names a shard
	// outside the cluster, or names a tombstoned/out-of-range offset.
	InvalidID Kind = iota
	// UnknownType marks a type name with no id on this shard.
	UnknownType
	// DuplicateKey marks NodeAdd called with a key already live in the
	// type.
	DuplicateKey
	// SchemaConflict marks a property redeclared with a different kind.
	SchemaConflict
	// CoercionFailure marks a property value that could not be coerced
	// to its column's declared kind; the cell is left tombstoned.
	CoercionFailure
	// TypeInUse marks an attempt to delete a type with live instances.
	TypeInUse
	// PartialCrossShardFailure marks a cross-shard protocol that
	// aborted between steps, possibly leaving a relationship
	// half-present.
	PartialCrossShardFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidID:
		return "invalid-id"
	case UnknownType:
		return "unknown-type"
	case DuplicateKey:
		return "duplicate-key"
	case SchemaConflict:
		return "schema-conflict"
	case CoercionFailure:
		return "coercion-failure"
	case TypeInUse:
		return "type-in-use"
	case PartialCrossShardFailure:
		return "partial-cross-shard-failure"
	default:
		return "unknown"
	}
}

// Error is the typed error returned for every non-sentinel failure in the
// public surface. Message carries operation-specific detail; Kind is what
// callers should switch or errors.Is on.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is(err, apierr.ErrUnknownType) match any *Error sharing
// that sentinel's Kind, regardless of Message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error of kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is comparisons; their Message is empty, which Is
// ignores since it only compares Kind.
var (
	ErrInvalidID                = &Error{Kind: InvalidID}
	ErrUnknownType              = &Error{Kind: UnknownType}
	ErrDuplicateKey             = &Error{Kind: DuplicateKey}
	ErrSchemaConflict           = &Error{Kind: SchemaConflict}
	ErrCoercionFailure          = &Error{Kind: CoercionFailure}
	ErrTypeInUse                = &Error{Kind: TypeInUse}
	ErrPartialCrossShardFailure = &Error{Kind: PartialCrossShardFailure}
)
