// Package definition loads form definition documents (JSON or YAML) into
// element trees and checks their structural invariants: known element types,
// names unique within their scope, children only on containers, and UUID
// identifiers. Pages and sections share the scope of their parent; a
// repeatable set opens a new one because each repetition is addressed
// independently.
//
// Definitions can be read one file at a time or gathered from an fs.FS into
// a Store keyed by definition id.
package definition
