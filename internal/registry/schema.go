package registry

// Kind identifies the scalar type of a declared property column. The
// list-of-T forms share the same storage rules as their scalar
// counterpart; Date is stored as seconds-since-epoch Double, and
// ListDate is stored as ListDouble, exactly per spec.md §3.
type Kind int

const (
	// KindInvalid marks the zero value; it is never a valid column kind.
	KindInvalid Kind = iota
	KindBool
	KindInt64
	KindDouble
	KindString
	KindDate
	KindListBool
	KindListInt64
	KindListDouble
	KindListString
	KindListDate
)

// String renders a Kind's declared name (the name used in
// setPropertyType/error messages), not a Go-ish identifier.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindListBool:
		return "list<bool>"
	case KindListInt64:
		return "list<int64>"
	case KindListDouble:
		return "list<double>"
	case KindListString:
		return "list<string>"
	case KindListDate:
		return "list<date>"
	default:
		return "invalid"
	}
}

// columnDecl is one property declaration within a type's schema: its
// stable column index (insertion order, never reused once assigned) and
// scalar kind.
type columnDecl struct {
	name    string
	kind    Kind
	index   int
	deleted bool
}

// TypeSchema is the ordered set of property declarations for a single
// type. Column order is insertion order and is stable for the life of
// the type: deleting a property tombstones its declaration but does not
// shift later columns' indexes, so stored offsets in PropertyStore never
// need to be renumbered.
type TypeSchema struct {
	byName map[string]*columnDecl
	order  []*columnDecl
}

// NewTypeSchema returns an empty schema.
func NewTypeSchema() *TypeSchema {
	return &TypeSchema{byName: make(map[string]*columnDecl)}
}

// Declare adds name as a new column of kind, or validates that an
// existing (non-deleted) declaration for name already has that kind.
// Redeclaring an existing live column under a different kind fails with
// *ErrSchemaConflict, per spec.md §4.2. Redeclaring a tombstoned column
// resurrects it at its original column index under the new kind.
func (s *TypeSchema) Declare(typeName, name string, kind Kind) (*columnDecl, error) {
	if existing, ok := s.byName[name]; ok {
		if !existing.deleted {
			if existing.kind != kind {
				return nil, &ErrSchemaConflict{Type: typeName, Column: name, Want: existing.kind.String(), Got: kind.String()}
			}
			return existing, nil
		}
		existing.deleted = false
		existing.kind = kind
		return existing, nil
	}
	decl := &columnDecl{name: name, kind: kind, index: len(s.order)}
	s.byName[name] = decl
	s.order = append(s.order, decl)
	return decl, nil
}

// Get returns the declaration for name, and whether it is currently live.
func (s *TypeSchema) Get(name string) (kind Kind, index int, ok bool) {
	decl, found := s.byName[name]
	if !found || decl.deleted {
		return KindInvalid, -1, false
	}
	return decl.kind, decl.index, true
}

// Delete tombstones name's declaration: subsequent Get calls report it as
// absent, per spec.md §4.2's deletePropertyType.
func (s *TypeSchema) Delete(name string) {
	if decl, ok := s.byName[name]; ok {
		decl.deleted = true
	}
}

// Names returns the names of every live property declaration, in
// declaration order.
func (s *TypeSchema) Names() []string {
	names := make([]string, 0, len(s.order))
	for _, decl := range s.order {
		if !decl.deleted {
			names = append(names, decl.name)
		}
	}
	return names
}

// SchemaRegistry is a single shard's replica of the per-type property
// schemas, for either node types or relationship types. Like
// TypeRegistry, it is replicated identically on every shard by the same
// coordinator-fenced broadcast discipline, and carries no locking of its
// own.
type SchemaRegistry struct {
	byType map[uint16]*TypeSchema
}

// NewSchemaRegistry returns an empty schema registry.
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{byType: make(map[uint16]*TypeSchema)}
}

// Schema returns the TypeSchema for typeID, creating an empty one on
// first access so callers never need to nil-check.
func (r *SchemaRegistry) Schema(typeID uint16) *TypeSchema {
	s, ok := r.byType[typeID]
	if !ok {
		s = NewTypeSchema()
		r.byType[typeID] = s
	}
	return s
}
