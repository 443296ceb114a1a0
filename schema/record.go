package schema

import (
	"fmt"

	"github.com/fluxlog/fluxlog"
)

// Record is a materialized row: one typed value per schema column.
type Record struct {
	values []fluxlog.Value
}

// ValueAt returns the value at column index i.
func (r *Record) ValueAt(i int) fluxlog.Value {
	return r.values[i]
}

func (r *Record) Len() int {
	return len(r.values)
}

// NewRecord materializes a record from one value per column, in schema
// order.  Values must match the declared types, and string values must fit
// their column's declared width.
func (s *Schema) NewRecord(values ...fluxlog.Value) (*Record, error) {
	if len(values) != len(s.columns) {
		return nil, fmt.Errorf("record has %d values, schema has %d columns", len(values), len(s.columns))
	}
	for i, v := range values {
		c := s.columns[i]
		if v.Type != c.Type {
			return nil, fmt.Errorf("field %q: value type %s does not match declared type %s", c.Name, v.Type, c.Type)
		}
		if c.Type == fluxlog.TypeString && len(v.Bytes) > c.Size {
			return nil, fmt.Errorf("field %q: string of %d bytes exceeds declared size %d", c.Name, len(v.Bytes), c.Size)
		}
	}
	return &Record{values: values}, nil
}

// ParseRecord materializes a record from one literal per column, parsing
// each under its column's declared type.
func (s *Schema) ParseRecord(literals ...string) (*Record, error) {
	if len(literals) != len(s.columns) {
		return nil, fmt.Errorf("record has %d literals, schema has %d columns", len(literals), len(s.columns))
	}
	values := make([]fluxlog.Value, len(literals))
	for i, lit := range literals {
		v, err := fluxlog.ParseValue(lit, s.columns[i].Type)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return s.NewRecord(values...)
}

// Pack encodes a record into its raw-buffer form under this schema's
// layout.  String fields are NUL-padded to their declared width.
func (s *Schema) Pack(r *Record) []byte {
	buf := make([]byte, s.size)
	for i, c := range s.columns {
		copy(buf[c.Offset:c.Offset+c.Size], r.values[i].Bytes)
	}
	return buf
}

// Unpack materializes a record from a raw buffer.  The returned record's
// string values share storage with buf.
func (s *Schema) Unpack(buf []byte) (*Record, error) {
	if len(buf) < s.size {
		return nil, fmt.Errorf("buffer of %d bytes is short of record size %d", len(buf), s.size)
	}
	values := make([]fluxlog.Value, len(s.columns))
	for i, c := range s.columns {
		values[i] = c.extract(buf)
	}
	return &Record{values: values}, nil
}
