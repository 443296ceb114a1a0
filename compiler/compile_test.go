package compiler_test

import (
	"testing"

	"github.com/fluxlog/fluxlog"
	"github.com/fluxlog/fluxlog/ast"
	"github.com/fluxlog/fluxlog/compiler"
	"github.com/fluxlog/fluxlog/compiler/parser"
	"github.com/fluxlog/fluxlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New([]schema.Field{
		{Name: "a", Type: fluxlog.TypeInt64},
		{Name: "b", Type: fluxlog.TypeString, Size: 16},
		{Name: "c", Type: fluxlog.TypeFloat64},
	})
	require.NoError(t, err)
	return s
}

func compile(t *testing.T, s *schema.Schema, src string) compiler.Expression {
	t.Helper()
	node, err := parser.Parse(src)
	require.NoError(t, err, "filter: %q", src)
	e, err := compiler.Compile(node, s)
	require.NoError(t, err, "filter: %q", src)
	return e
}

func record(t *testing.T, s *schema.Schema, literals ...string) *schema.Record {
	t.Helper()
	rec, err := s.ParseRecord(literals...)
	require.NoError(t, err)
	return rec
}

func TestCompileComparison(t *testing.T) {
	s := testSchema(t)
	e := compile(t, s, `a > 5`)
	require.Equal(t, 1, e.Len())
	require.Equal(t, 1, e.Minterms()[0].Len())
	assert.Equal(t, "a>5", e.String())

	p := e.Minterms()[0].Predicates()[0]
	assert.Equal(t, "a", p.FieldName())
	assert.Equal(t, 0, p.FieldIndex())
	assert.Equal(t, fluxlog.GT, p.Op())

	assert.True(t, e.Test(record(t, s, "10", "x", "1.0")))
	assert.False(t, e.Test(record(t, s, "3", "x", "1.0")))
}

func TestCompileDistributesAndOverOr(t *testing.T) {
	s := testSchema(t)
	e := compile(t, s, `a = 1 and (b = "x" or c != 2.0)`)
	require.Equal(t, 2, e.Len())
	assert.Equal(t, "a==1 and b==x or a==1 and c!=2", e.String())

	// Second minterm matches: c != 2.
	assert.True(t, e.Test(record(t, s, "1", "y", "3.0")))
	// Neither minterm matches.
	assert.False(t, e.Test(record(t, s, "1", "y", "2.0")))
	// First minterm matches: b == x.
	assert.True(t, e.Test(record(t, s, "1", "x", "2.0")))
	assert.False(t, e.Test(record(t, s, "2", "x", "2.0")))
}

func TestCompileContradictionStillConjoins(t *testing.T) {
	// No simplification happens beyond DNF: a > 1 and a < 1 stays one
	// minterm of two predicates and simply never matches.
	s := testSchema(t)
	e := compile(t, s, `a > 1 and a < 1`)
	require.Equal(t, 1, e.Len())
	assert.Equal(t, "a<1 and a>1", e.String())
	assert.False(t, e.Test(record(t, s, "5", "x", "1.0")))
	assert.False(t, e.Test(record(t, s, "0", "x", "1.0")))
}

func TestCompileNestedConjunction(t *testing.T) {
	s := testSchema(t)
	e := compile(t, s, `a > 0 and (b = "x" and (c > 1 or c < 0))`)
	require.Equal(t, 2, e.Len())
	assert.Equal(t, "a>0 and b==x and c<0 or a>0 and b==x and c>1", e.String())
	assert.True(t, e.Test(record(t, s, "1", "x", "2.0")))
	assert.True(t, e.Test(record(t, s, "1", "x", "-1.0")))
	assert.False(t, e.Test(record(t, s, "1", "x", "0.5")))
	assert.False(t, e.Test(record(t, s, "1", "y", "2.0")))
}

func TestDistributionLaw(t *testing.T) {
	s := testSchema(t)
	factored := compile(t, s, `a = 1 and (b = "x" or c > 2)`)
	expanded := compile(t, s, `(a = 1 and b = "x") or (a = 1 and c > 2)`)
	assert.Equal(t, factored.String(), expanded.String())
	assert.Zero(t, factored.Compare(expanded))
}

func TestOrCommutativeAssociative(t *testing.T) {
	s := testSchema(t)
	ab := compile(t, s, `a = 1 or b = "x"`)
	ba := compile(t, s, `b = "x" or a = 1`)
	assert.Zero(t, ab.Compare(ba))

	leftAssoc := compile(t, s, `(a = 1 or b = "x") or c = 2`)
	rightAssoc := compile(t, s, `a = 1 or (b = "x" or c = 2)`)
	assert.Zero(t, leftAssoc.Compare(rightAssoc))
}

func TestIdempotentDedup(t *testing.T) {
	s := testSchema(t)
	e := compile(t, s, `a = 1 or a = 1`)
	assert.Equal(t, 1, e.Len())
	assert.Zero(t, e.Compare(compile(t, s, `a = 1`)))

	e = compile(t, s, `a = 1 and a = 1`)
	require.Equal(t, 1, e.Len())
	assert.Equal(t, 1, e.Minterms()[0].Len())
}

func TestCompileEmpty(t *testing.T) {
	s := testSchema(t)
	e := compile(t, s, "")
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, "", e.String())
	assert.True(t, e.Test(record(t, s, "1", "x", "1.0")))
	assert.True(t, e.Test(record(t, s, "-5", "", "0.0")))
}

func TestCompileUnknownField(t *testing.T) {
	s := testSchema(t)
	node, err := parser.Parse(`z = 1`)
	require.NoError(t, err)
	_, err = compiler.Compile(node, s)
	var unknown *schema.UnknownFieldError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "z", unknown.Name)

	// The same failure inside a conjunction aborts the whole compile.
	node, err = parser.Parse(`a = 1 and z = 1`)
	require.NoError(t, err)
	_, err = compiler.Compile(node, s)
	require.ErrorAs(t, err, &unknown)
}

func TestCompileMalformedLiteral(t *testing.T) {
	s := testSchema(t)
	node, err := parser.Parse(`a = "notanint"`)
	require.NoError(t, err)
	_, err = compiler.Compile(node, s)
	var parseErr *fluxlog.ValueParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "notanint", parseErr.Literal)
}

func TestCompileRejectsCalls(t *testing.T) {
	s := testSchema(t)
	for _, src := range []string{`now()`, `a = 1 and f(b, c)`} {
		node, err := parser.Parse(src)
		require.NoError(t, err, "filter: %q", src)
		_, err = compiler.Compile(node, s)
		var unsupported *compiler.UnsupportedExpressionError
		require.ErrorAs(t, err, &unsupported, "filter: %q", src)
	}
}

func TestCompileUnexpectedOperator(t *testing.T) {
	s := testSchema(t)
	node := &ast.Comparison{Attr: "a", Op: fluxlog.Op(42), Literal: "1"}
	_, err := compiler.Compile(node, s)
	var unexpected *compiler.UnexpectedOperatorError
	require.ErrorAs(t, err, &unexpected)
	assert.Equal(t, fluxlog.Op(42), unexpected.Op)

	// The same check applies under conjunction distribution.
	_, err = compiler.Compile(&ast.And{
		LHS: &ast.Comparison{Attr: "a", Op: fluxlog.EQ, Literal: "1"},
		RHS: node,
	}, s)
	require.ErrorAs(t, err, &unexpected)
}

func TestCompileRejectsNilChild(t *testing.T) {
	s := testSchema(t)
	_, err := compiler.Compile(&ast.And{
		LHS: nil,
		RHS: &ast.Comparison{Attr: "a", Op: fluxlog.EQ, Literal: "1"},
	}, s)
	var unsupported *compiler.UnsupportedExpressionError
	require.ErrorAs(t, err, &unsupported)
}

func TestRawBufferEquivalence(t *testing.T) {
	s := testSchema(t)
	snap := s.Snapshot()
	records := [][]string{
		{"10", "x", "1.0"},
		{"1", "y", "2.0"},
		{"-3", "", "0.5"},
	}
	filters := []string{
		`a > 5`,
		`a = 1 and (b = "x" or c != 2.0)`,
		`b = "x" or c >= 0.5`,
		`a <= 0`,
		``,
	}
	for _, src := range filters {
		e := compile(t, s, src)
		for _, literals := range records {
			rec := record(t, s, literals...)
			buf := s.Pack(rec)
			assert.Equal(t, e.Test(rec), e.TestBytes(snap, buf),
				"filter %q record %v", src, literals)
			for _, m := range e.Minterms() {
				assert.Equal(t, m.Test(rec), m.TestBytes(snap, buf))
				for _, p := range m.Predicates() {
					assert.Equal(t, p.Test(rec), p.TestBytes(snap, buf),
						"predicate %s record %v", p, literals)
				}
			}
		}
	}
}

func TestCanonicalTextIsIdentity(t *testing.T) {
	s := testSchema(t)
	// Logically equivalent reorderings produce byte-identical canonical
	// text; a different filter does not.
	e1 := compile(t, s, `c > 1.5 and a = 2 or b != "q"`)
	e2 := compile(t, s, `b != "q" or (a = 2 and c > 1.5)`)
	other := compile(t, s, `b != "q" or (a = 3 and c > 1.5)`)
	assert.Equal(t, e1.String(), e2.String())
	assert.Zero(t, e1.Compare(e2))
	assert.NotEqual(t, e1.String(), other.String())
	assert.NotZero(t, e1.Compare(other))
}
