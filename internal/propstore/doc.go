// Package propstore implements the strictly columnar property storage
// described in spec.md §4.3: one typed column per declared property, one
// presence bitmap per column, and the typed-setter coercion rules that
// turn arbitrary decoded-JSON input into a column's declared scalar kind.
//
// # Layout
//
// A PropertyStore holds one Column per property name declared in the
// owning registry.TypeSchema. Each Column is a dense vector indexed by
// node/relationship offset, paired with a github.com/bits-and-blooms/bitset
// presence bitmap (1 = present, 0 = absent/tombstoned). Growing a column
// (a new offset beyond its current length) extends both the value vector
// and the bitmap; new rows start absent, exactly per spec.md §4.3.
//
// # Coercion
//
// Values arrive already decoded from JSON text into `any` using
// encoding/json's UseNumber mode, so integer and floating-point literals
// are distinguishable by inspecting the json.Number text rather than
// losing that distinction to Go's default float64-for-everything
// unmarshaling. SetFromJSON dispatches on the column's declared Kind, not
// the shape of the incoming value, per spec.md §4.3's "capability is
// dispatched on the declared column kind, not the value kind" design
// note. A value that cannot be coerced tombstones the cell and reports
// failure, so that a single malformed field in a property-update batch
// does not prevent the other, well-typed fields from being stored.
package propstore
