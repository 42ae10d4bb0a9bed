package propstore

import "github.com/dreamware/shardgraph/internal/registry"

// PropertyStore holds the columnar storage for one type's declared
// properties, on one shard. It is backed by a registry.TypeSchema that
// tells it which columns exist and what kind each is; PropertyStore
// itself only owns the per-column value/presence vectors.
type PropertyStore struct {
	schema  *registry.TypeSchema
	columns map[string]Column
}

// NewPropertyStore returns a PropertyStore reading column declarations
// from schema. schema is shared with the owning shard's SchemaRegistry
// replica; PropertyStore never mutates it.
func NewPropertyStore(schema *registry.TypeSchema) *PropertyStore {
	return &PropertyStore{schema: schema, columns: make(map[string]Column)}
}

// column returns (creating if necessary) the live Column for name,
// or nil if name is not declared in the schema.
func (p *PropertyStore) column(name string) Column {
	kind, _, ok := p.schema.Get(name)
	if !ok {
		return nil
	}
	col, exists := p.columns[name]
	if !exists || col.Kind() != kind {
		col = newColumnFor(kind)
		p.columns[name] = col
	}
	return col
}

// SetProperty coerces raw into name's declared kind and stores it at
// offset. Unknown property names are ignored (return true, nothing
// stored), matching spec.md §4.4's "unknown keys ignored" rule for
// NodeAdd. A known property whose value cannot be coerced tombstones the
// cell and returns false, per spec.md §4.3.
func (p *PropertyStore) SetProperty(offset int, name string, raw any) bool {
	col := p.column(name)
	if col == nil {
		return true
	}
	return col.SetFromJSON(offset, raw)
}

// SetProperties applies every (name, value) pair in props to offset,
// ignoring unknown names and tombstoning individually-failing cells, so
// a partially-typed object still stores its well-typed fields.
func (p *PropertyStore) SetProperties(offset int, props map[string]any) {
	for name, raw := range props {
		p.SetProperty(offset, name, raw)
	}
}

// GetProperty returns the value stored at offset for name, and whether it
// is present (declared, set, and not tombstoned).
func (p *PropertyStore) GetProperty(offset int, name string) (Value, bool) {
	col := p.columns[name]
	if col == nil {
		if _, _, ok := p.schema.Get(name); !ok {
			return Value{}, false
		}
		return Value{}, false
	}
	return col.Get(offset)
}

// GetAll returns every present property at offset as a plain Go map,
// suitable for external NodeGet/RelationshipGet responses.
func (p *PropertyStore) GetAll(offset int) map[string]any {
	out := make(map[string]any)
	for _, name := range p.schema.Names() {
		col := p.columns[name]
		if col == nil {
			continue
		}
		if v, ok := col.Get(offset); ok {
			out[name] = v.Native()
		}
	}
	return out
}

// DeleteProperty tombstones a single cell.
func (p *PropertyStore) DeleteProperty(offset int, name string) {
	if col := p.columns[name]; col != nil {
		col.Delete(offset)
	}
}

// DeleteProperties tombstones every declared column at offset, used when
// a whole node or relationship row is removed.
func (p *PropertyStore) DeleteProperties(offset int) {
	for _, col := range p.columns {
		col.Delete(offset)
	}
}

// DropColumn tombstones every cell in name's column, used by
// deletePropertyType (spec.md §4.2): subsequent reads of name return
// absent regardless of offset.
func (p *PropertyStore) DropColumn(name string) {
	if col := p.columns[name]; col != nil {
		col.DeleteAll()
	}
}
