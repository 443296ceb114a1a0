// Package schema maps field names to stable indexes, declared types, and
// byte offsets within raw record buffers.  A Schema is immutable once
// built; compiled filters hold the column information they resolved from
// it and never consult it again.
package schema

import (
	"fmt"

	"github.com/agnivade/levenshtein"
	"github.com/fluxlog/fluxlog"
)

// DefaultStringSize is the raw-buffer width given to string fields whose
// definition does not declare one.
const DefaultStringSize = 32

// Field is a schema field as declared by the user.  Size is only
// meaningful for string fields; scalar widths are fixed by the type.
type Field struct {
	Name string
	Type fluxlog.Type
	Size int
}

// Column is a resolved field: its stable index in the schema plus its
// position in the raw-buffer layout.
type Column struct {
	Name   string
	Index  int
	Type   fluxlog.Type
	Offset int
	Size   int
}

// UnknownFieldError reports a lookup of a field name not present in the
// schema.  Suggestion, when non-empty, is the closest declared name.
type UnknownFieldError struct {
	Name       string
	Suggestion string
}

func (e *UnknownFieldError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown field %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown field %q", e.Name)
}

type Schema struct {
	columns []Column
	byName  map[string]int
	size    int
}

// New builds a Schema from an ordered field list, assigning indexes in
// declaration order and packing the raw-buffer layout field by field.
func New(fields []Field) (*Schema, error) {
	s := &Schema{byName: make(map[string]int, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema field %d has no name", len(s.columns))
		}
		if _, ok := s.byName[f.Name]; ok {
			return nil, fmt.Errorf("duplicate schema field %q", f.Name)
		}
		size := f.Type.FixedSize()
		if f.Type == fluxlog.TypeString {
			size = f.Size
			if size == 0 {
				size = DefaultStringSize
			}
			if size < 0 {
				return nil, fmt.Errorf("schema field %q has negative size", f.Name)
			}
		}
		s.byName[f.Name] = len(s.columns)
		s.columns = append(s.columns, Column{
			Name:   f.Name,
			Index:  len(s.columns),
			Type:   f.Type,
			Offset: s.size,
			Size:   size,
		})
		s.size += size
	}
	return s, nil
}

// Lookup resolves a field name to its Column.  A miss returns an
// *UnknownFieldError that names the nearest declared field when one is
// plausibly close.
func (s *Schema) Lookup(name string) (Column, error) {
	if i, ok := s.byName[name]; ok {
		return s.columns[i], nil
	}
	return Column{}, &UnknownFieldError{Name: name, Suggestion: s.closest(name)}
}

func (s *Schema) closest(name string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range s.columns {
		if d := levenshtein.ComputeDistance(name, c.Name); d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	return best
}

const maxSuggestDistance = 2

// Columns returns the schema's columns in declaration order.
func (s *Schema) Columns() []Column {
	return s.columns
}

// Size returns the width in bytes of one raw record buffer.
func (s *Schema) Size() int {
	return s.size
}
