// Package ast declares the syntax-tree nodes for fluxlog filter
// expressions.  The node set is closed: a filter is comparisons joined by
// strictly binary and/or, with function-call syntax represented so the
// compiler can reject it with a useful error.
package ast

import "github.com/fluxlog/fluxlog"

// Node is implemented by all filter syntax-tree nodes.
type Node interface {
	filterNode()
}

// Comparison is a leaf comparing a named field against a literal.
// Op is an operator code as produced by the parser; the compiler validates
// it against the known relational operators.
type Comparison struct {
	Attr    string
	Op      fluxlog.Op
	Literal string
}

// And and Or are binary logical connectives.
type And struct {
	LHS, RHS Node
}

type Or struct {
	LHS, RHS Node
}

// Call is a function-call leaf.  The filter language has no functions;
// the compiler rejects these nodes.
type Call struct {
	Name string
	Args []Node
}

func (*Comparison) filterNode() {}
func (*And) filterNode()        {}
func (*Or) filterNode()         {}
func (*Call) filterNode()       {}
