package schema

import (
	"bytes"

	"github.com/fluxlog/fluxlog"
)

// Snapshot is a frozen copy of a schema's raw-buffer layout.  Scans hold a
// snapshot so field extraction stays stable for their lifetime regardless
// of what happens to the schema they were planned against.
type Snapshot struct {
	columns []Column
	size    int
}

// Snapshot freezes the schema's current layout.
func (s *Schema) Snapshot() *Snapshot {
	columns := make([]Column, len(s.columns))
	copy(columns, s.columns)
	return &Snapshot{columns: columns, size: s.size}
}

// Extract reads the field at column index i straight out of a raw record
// buffer without materializing a record.  The returned value shares
// storage with buf, which must be at least Size() bytes.
func (sn *Snapshot) Extract(buf []byte, i int) fluxlog.Value {
	return sn.columns[i].extract(buf)
}

// Size returns the width in bytes of one raw record buffer.
func (sn *Snapshot) Size() int {
	return sn.size
}

func (c Column) extract(buf []byte) fluxlog.Value {
	b := buf[c.Offset : c.Offset+c.Size]
	if c.Type == fluxlog.TypeString {
		if i := bytes.IndexByte(b, 0); i >= 0 {
			b = b[:i]
		}
	}
	return fluxlog.Value{Type: c.Type, Bytes: b}
}
