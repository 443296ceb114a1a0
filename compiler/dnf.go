// Package compiler turns parsed filter expressions into disjunctive
// normal form: an OR of minterms, each minterm an AND of predicates.
// Scans evaluate the compiled form against materialized records or, on
// the zero-copy path, against raw record buffers under a schema snapshot.
//
// Predicates, minterms, and expressions order and deduplicate by their
// canonical textual form.  That text is also the compiled expression's
// identity for callers that cache or compare filters.
package compiler

import (
	"strings"

	"github.com/fluxlog/fluxlog"
	"github.com/fluxlog/fluxlog/schema"
	"golang.org/x/exp/slices"
)

// Predicate is one resolved comparison: a schema column, a relational
// operator, and a literal parsed under the column's declared type.
// Predicates are immutable once constructed.
type Predicate struct {
	column schema.Column
	op     fluxlog.Op
	value  fluxlog.Value
	text   string
}

// NewPredicate resolves attr through the schema and parses literal under
// the resolved column's declared type.  It fails with
// *schema.UnknownFieldError or *fluxlog.ValueParseError.
func NewPredicate(attr string, op fluxlog.Op, literal string, s *schema.Schema) (Predicate, error) {
	c, err := s.Lookup(attr)
	if err != nil {
		return Predicate{}, err
	}
	v, err := fluxlog.ParseValue(literal, c.Type)
	if err != nil {
		return Predicate{}, err
	}
	return Predicate{
		column: c,
		op:     op,
		value:  v,
		text:   c.Name + op.String() + v.Format(),
	}, nil
}

func (p Predicate) FieldName() string {
	return p.column.Name
}

func (p Predicate) FieldIndex() int {
	return p.column.Index
}

func (p Predicate) Op() fluxlog.Op {
	return p.op
}

func (p Predicate) Value() fluxlog.Value {
	return p.value
}

// String returns the predicate's canonical textual form, e.g. "a>5".
// Canonical text is the sole ordering and equality key for predicates.
func (p Predicate) String() string {
	return p.text
}

// Compare orders predicates lexicographically by canonical text.
func (p Predicate) Compare(other Predicate) int {
	return strings.Compare(p.text, other.text)
}

// Test evaluates the predicate against a materialized record.
func (p Predicate) Test(r *schema.Record) bool {
	return fluxlog.CompareOp(p.op, r.ValueAt(p.column.Index), p.value)
}

// TestBytes evaluates the predicate against a raw record buffer, reading
// the field through the snapshot's layout without materializing a record.
func (p Predicate) TestBytes(sn *schema.Snapshot, buf []byte) bool {
	return fluxlog.CompareOp(p.op, sn.Extract(buf, p.column.Index), p.value)
}

// Minterm is a conjunction of predicates, kept ordered by canonical text
// with duplicates collapsed.  The zero Minterm is the vacuously true
// conjunction.
type Minterm struct {
	preds []Predicate
}

// Add inserts p, keeping the predicate set ordered and unique.
func (m *Minterm) Add(p Predicate) {
	i, ok := slices.BinarySearchFunc(m.preds, p, Predicate.Compare)
	if ok {
		return
	}
	m.preds = slices.Insert(m.preds, i, p)
}

// With returns a copy of m extended with p.  m itself is unchanged; the
// compiler threads accumulator minterms through conjunctions this way so
// a minterm already inserted into an expression is never mutated.
func (m Minterm) With(p Predicate) Minterm {
	preds := make([]Predicate, len(m.preds), len(m.preds)+1)
	copy(preds, m.preds)
	n := Minterm{preds: preds}
	n.Add(p)
	return n
}

// Predicates returns the member predicates in canonical order.  The
// returned slice must not be modified.
func (m Minterm) Predicates() []Predicate {
	return m.preds
}

func (m Minterm) Len() int {
	return len(m.preds)
}

// Test ANDs the member predicates against a record, stopping at the
// first false.  An empty minterm is true.
func (m Minterm) Test(r *schema.Record) bool {
	for _, p := range m.preds {
		if !p.Test(r) {
			return false
		}
	}
	return true
}

// TestBytes is Test for the raw-buffer path.
func (m Minterm) TestBytes(sn *schema.Snapshot, buf []byte) bool {
	for _, p := range m.preds {
		if !p.TestBytes(sn, buf) {
			return false
		}
	}
	return true
}

// String returns the canonical textual form: member predicates joined
// with " and ".
func (m Minterm) String() string {
	parts := make([]string, len(m.preds))
	for i, p := range m.preds {
		parts[i] = p.String()
	}
	return strings.Join(parts, " and ")
}

// Compare orders minterms lexicographically by canonical text.
func (m Minterm) Compare(other Minterm) int {
	return strings.Compare(m.String(), other.String())
}

// Expression is a disjunction of minterms, kept ordered by canonical
// text with duplicates collapsed.  The zero Expression means "no
// filter" and matches every record.  A compiled Expression is immutable
// and may be shared across concurrent scans.
type Expression struct {
	minterms []Minterm
}

// Add inserts m, keeping the minterm set ordered and unique.
func (e *Expression) Add(m Minterm) {
	i, ok := slices.BinarySearchFunc(e.minterms, m, Minterm.Compare)
	if ok {
		return
	}
	e.minterms = slices.Insert(e.minterms, i, m)
}

// Minterms returns the member minterms in canonical order.  The returned
// slice must not be modified.
func (e Expression) Minterms() []Minterm {
	return e.minterms
}

func (e Expression) Len() int {
	return len(e.minterms)
}

// Test ORs the member minterms against a record, stopping at the first
// true.  An empty expression is "no filter" and returns true without
// looking at anything.
func (e Expression) Test(r *schema.Record) bool {
	if len(e.minterms) == 0 {
		return true
	}
	for _, m := range e.minterms {
		if m.Test(r) {
			return true
		}
	}
	return false
}

// TestBytes is Test for the raw-buffer path.
func (e Expression) TestBytes(sn *schema.Snapshot, buf []byte) bool {
	if len(e.minterms) == 0 {
		return true
	}
	for _, m := range e.minterms {
		if m.TestBytes(sn, buf) {
			return true
		}
	}
	return false
}

// String returns the canonical textual form: member minterms joined with
// " or ".  Two expressions are equal iff their canonical texts are equal,
// so the text doubles as a cache key for compiled filters.
func (e Expression) String() string {
	parts := make([]string, len(e.minterms))
	for i, m := range e.minterms {
		parts[i] = m.String()
	}
	return strings.Join(parts, " or ")
}

// Compare orders expressions lexicographically by canonical text.
func (e Expression) Compare(other Expression) int {
	return strings.Compare(e.String(), other.String())
}

// union returns the minterm-level set union of a and b.
func union(a, b Expression) Expression {
	out := Expression{minterms: slices.Clone(a.minterms)}
	for _, m := range b.minterms {
		out.Add(m)
	}
	return out
}
