// Package fluxlog provides the primitive pieces shared by the schema and
// filter-compiler layers: declared field types, typed values with their
// raw encodings, literal parsing, and the relational operators that
// compiled predicates dispatch through.
package fluxlog
