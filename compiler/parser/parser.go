// Package parser turns filter source text into the syntax trees consumed
// by the compiler.  The grammar is comparisons joined by strictly binary
// and/or with parentheses for grouping:
//
//	expr   := term (("or" | "||") term)*
//	term   := factor (("and" | "&&") factor)*
//	factor := "(" expr ")" | ident relop literal | ident "(" ... ")"
//	relop  := "=" | "==" | "!=" | "<" | "<=" | ">" | ">="
//
// Function-call syntax parses into an ast.Call node; the compiler is the
// layer that rejects it.  Empty input parses to a nil node, meaning no
// filter.
package parser

import (
	"fmt"

	"github.com/fluxlog/fluxlog"
	"github.com/fluxlog/fluxlog/ast"
)

type parser struct {
	lex lexer
	tok token
}

// Parse converts filter source text into a syntax tree.
func Parse(src string) (ast.Node, error) {
	p := &parser{lex: lexer{input: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.typ == tokenEOF {
		return nil, nil
	}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.typ != tokenEOF {
		return nil, fmt.Errorf("unexpected %q at offset %d", p.tok.text, p.tok.pos)
	}
	return node, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) parseOr() (ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.typ == tokenOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Or{LHS: left, RHS: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.tok.typ == tokenAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.And{LHS: left, RHS: right}
	}
	return left, nil
}

func (p *parser) parseFactor() (ast.Node, error) {
	switch p.tok.typ {
	case tokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.tok.typ != tokenRParen {
			return nil, fmt.Errorf("expected ) at offset %d", p.tok.pos)
		}
		return node, p.advance()
	case tokenIdent:
		return p.parseComparison()
	}
	return nil, fmt.Errorf("expected field name or ( at offset %d", p.tok.pos)
}

func (p *parser) parseComparison() (ast.Node, error) {
	name := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.typ == tokenLParen {
		return p.parseCall(name)
	}
	if p.tok.typ != tokenOp {
		return nil, fmt.Errorf("expected operator after %q at offset %d", name, p.tok.pos)
	}
	op, err := opOf(p.tok.text, p.tok.pos)
	if err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	switch p.tok.typ {
	case tokenNumber, tokenString, tokenIdent:
	default:
		return nil, fmt.Errorf("expected literal at offset %d", p.tok.pos)
	}
	node := &ast.Comparison{Attr: name, Op: op, Literal: p.tok.text}
	return node, p.advance()
}

// parseCall consumes a function call through its closing paren.  The
// arguments are not modeled; the compiler rejects call nodes outright.
func (p *parser) parseCall(name string) (ast.Node, error) {
	depth := 0
	for {
		switch p.tok.typ {
		case tokenLParen:
			depth++
		case tokenRParen:
			depth--
			if depth == 0 {
				return &ast.Call{Name: name}, p.advance()
			}
		case tokenEOF:
			return nil, fmt.Errorf("unterminated call of %q at offset %d", name, p.tok.pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

func opOf(sym string, pos int) (fluxlog.Op, error) {
	switch sym {
	case "=", "==":
		return fluxlog.EQ, nil
	case "!=":
		return fluxlog.NEQ, nil
	case "<":
		return fluxlog.LT, nil
	case ">":
		return fluxlog.GT, nil
	case "<=":
		return fluxlog.LE, nil
	case ">=":
		return fluxlog.GE, nil
	}
	return 0, fmt.Errorf("unknown operator %q at offset %d", sym, pos)
}
