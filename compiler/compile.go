package compiler

import (
	"fmt"

	"github.com/fluxlog/fluxlog"
	"github.com/fluxlog/fluxlog/ast"
	"github.com/fluxlog/fluxlog/schema"
)

// UnsupportedExpressionError reports a syntax-tree node the compiler does
// not handle: a function call or a node kind outside comparison/and/or.
type UnsupportedExpressionError struct {
	Node string
}

func (e *UnsupportedExpressionError) Error() string {
	return "unsupported expression: " + e.Node
}

// UnexpectedOperatorError reports an operator code outside the relational
// set at a comparison leaf.
type UnexpectedOperatorError struct {
	Op fluxlog.Op
}

func (e *UnexpectedOperatorError) Error() string {
	return fmt.Sprintf("unexpected operator code %d", int(e.Op))
}

// Compile converts a filter syntax tree into disjunctive normal form
// under the given schema.  A nil node compiles to the empty Expression,
// meaning no filter.
//
// All validation happens here: an unknown field, a literal that does not
// parse under its field's declared type, a function call, or an operator
// code outside the relational set aborts the whole compilation with no
// partial result.  Evaluating a successfully compiled Expression cannot
// fail.
//
// Note that DNF expansion of deeply nested conjunctions of disjunctions
// is exponential in the worst case.  Callers compiling untrusted filter
// text should bound the input's size before calling Compile.
func Compile(node ast.Node, s *schema.Schema) (Expression, error) {
	if node == nil {
		return Expression{}, nil
	}
	return compile(node, s)
}

// compile dispatches on the node kind.  Unlike Compile, a nil node here
// is an error: the empty filter is only meaningful at the top level.
func compile(node ast.Node, s *schema.Schema) (Expression, error) {
	var e Expression
	switch v := node.(type) {
	case *ast.Comparison:
		p, err := resolve(v, s)
		if err != nil {
			return Expression{}, err
		}
		var m Minterm
		m.Add(p)
		e.Add(m)
	case *ast.Or:
		left, err := compile(v.LHS, s)
		if err != nil {
			return Expression{}, err
		}
		right, err := compile(v.RHS, s)
		if err != nil {
			return Expression{}, err
		}
		e = union(left, right)
	case *ast.And:
		// (m1 or ... or mk) and R  ==  (m1 and R) or ... or (mk and R)
		left, err := compile(v.LHS, s)
		if err != nil {
			return Expression{}, err
		}
		for _, m := range left.minterms {
			expanded, err := expandConjunction(m, v.RHS, s)
			if err != nil {
				return Expression{}, err
			}
			e = union(e, expanded)
		}
	case *ast.Call:
		return Expression{}, &UnsupportedExpressionError{Node: fmt.Sprintf("function call %q", v.Name)}
	default:
		return Expression{}, &UnsupportedExpressionError{Node: fmt.Sprintf("node type %T", node)}
	}
	return e, nil
}

// expandConjunction distributes the accumulator minterm acc over the
// subtree node, producing acc AND node in DNF.  acc is extended by copy
// at each comparison leaf and never mutated.
func expandConjunction(acc Minterm, node ast.Node, s *schema.Schema) (Expression, error) {
	var e Expression
	switch v := node.(type) {
	case *ast.Comparison:
		p, err := resolve(v, s)
		if err != nil {
			return Expression{}, err
		}
		e.Add(acc.With(p))
	case *ast.Or:
		// acc and (A or B)  ==  (acc and A) or (acc and B)
		left, err := expandConjunction(acc, v.LHS, s)
		if err != nil {
			return Expression{}, err
		}
		right, err := expandConjunction(acc, v.RHS, s)
		if err != nil {
			return Expression{}, err
		}
		e = union(left, right)
	case *ast.And:
		// Fold acc through A, then each extended minterm through B.
		left, err := expandConjunction(acc, v.LHS, s)
		if err != nil {
			return Expression{}, err
		}
		for _, m := range left.minterms {
			expanded, err := expandConjunction(m, v.RHS, s)
			if err != nil {
				return Expression{}, err
			}
			e = union(e, expanded)
		}
	case *ast.Call:
		return Expression{}, &UnsupportedExpressionError{Node: fmt.Sprintf("function call %q", v.Name)}
	default:
		return Expression{}, &UnsupportedExpressionError{Node: fmt.Sprintf("node type %T", node)}
	}
	return e, nil
}

func resolve(c *ast.Comparison, s *schema.Schema) (Predicate, error) {
	switch c.Op {
	case fluxlog.EQ, fluxlog.NEQ, fluxlog.LT, fluxlog.GT, fluxlog.LE, fluxlog.GE:
	default:
		return Predicate{}, &UnexpectedOperatorError{Op: c.Op}
	}
	return NewPredicate(c.Attr, c.Op, c.Literal, s)
}
