package parser

import (
	"fmt"
	"strings"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenIdent
	tokenNumber
	tokenString
	tokenOp
	tokenAnd
	tokenOr
	tokenLParen
	tokenRParen
	tokenComma
)

type token struct {
	typ  tokenType
	text string
	pos  int
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.input) {
		return token{typ: tokenEOF, pos: start}, nil
	}
	c := l.input[l.pos]
	switch {
	case c == '(':
		l.pos++
		return token{tokenLParen, "(", start}, nil
	case c == ')':
		l.pos++
		return token{tokenRParen, ")", start}, nil
	case c == ',':
		l.pos++
		return token{tokenComma, ",", start}, nil
	case c == '"':
		return l.scanString()
	case c == '&' || c == '|':
		if l.pos+1 < len(l.input) && l.input[l.pos+1] == c {
			l.pos += 2
			if c == '&' {
				return token{tokenAnd, "&&", start}, nil
			}
			return token{tokenOr, "||", start}, nil
		}
		return token{}, fmt.Errorf("unexpected character %q at offset %d", c, start)
	case c == '=' || c == '!' || c == '<' || c == '>':
		return l.scanOp()
	case isDigit(c) || c == '-' || c == '.':
		return l.scanNumber()
	case isIdentStart(c):
		return l.scanIdent()
	}
	return token{}, fmt.Errorf("unexpected character %q at offset %d", c, start)
}

func (l *lexer) scanOp() (token, error) {
	start := l.pos
	c := l.input[l.pos]
	l.pos++
	if l.pos < len(l.input) && l.input[l.pos] == '=' {
		l.pos++
	} else if c == '!' {
		return token{}, fmt.Errorf("unexpected character '!' at offset %d", start)
	}
	return token{tokenOp, l.input[start:l.pos], start}, nil
}

func (l *lexer) scanString() (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch c {
		case '"':
			l.pos++
			return token{tokenString, b.String(), start}, nil
		case '\\':
			l.pos++
			if l.pos >= len(l.input) {
				return token{}, fmt.Errorf("unterminated string at offset %d", start)
			}
			b.WriteByte(l.input[l.pos])
			l.pos++
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return token{}, fmt.Errorf("unterminated string at offset %d", start)
}

func (l *lexer) scanNumber() (token, error) {
	start := l.pos
	if l.input[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.input) && (isDigit(l.input[l.pos]) || l.input[l.pos] == '.' ||
		l.input[l.pos] == 'e' || l.input[l.pos] == 'E' ||
		((l.input[l.pos] == '+' || l.input[l.pos] == '-') && (l.input[l.pos-1] == 'e' || l.input[l.pos-1] == 'E'))) {
		l.pos++
	}
	if l.pos == start || l.input[start:l.pos] == "-" {
		return token{}, fmt.Errorf("malformed number at offset %d", start)
	}
	return token{tokenNumber, l.input[start:l.pos], start}, nil
}

func (l *lexer) scanIdent() (token, error) {
	start := l.pos
	for l.pos < len(l.input) && isIdent(l.input[l.pos]) {
		l.pos++
	}
	text := l.input[start:l.pos]
	switch strings.ToLower(text) {
	case "and":
		return token{tokenAnd, text, start}, nil
	case "or":
		return token{tokenOr, text, start}, nil
	}
	return token{tokenIdent, text, start}, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdent(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.'
}
