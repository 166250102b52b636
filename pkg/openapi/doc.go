// Package openapi derives form definitions from OpenAPI 3 operations. The
// request body schema of an operation becomes an element tree: nested objects
// turn into sections, arrays of objects into repeatable sets, and primitive
// properties into input elements chosen from their type, format, and enum.
//
// Element ids are name-based UUIDs derived from the operation id and the
// property path, so importing the same document twice yields identical
// definitions.
package openapi
