package compiler

import (
	"github.com/fluxlog/fluxlog/compiler/parser"
	"github.com/fluxlog/fluxlog/schema"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes compiled expressions keyed by filter source text so a
// query layer can recompile hot filters for free.  Compiled expressions
// are immutable, so a cached Expression is safe to hand to any number of
// concurrent scans.
type Cache struct {
	schema *schema.Schema
	lru    *lru.Cache[string, Expression]
}

// NewCache returns a cache of at most size compiled expressions against
// the given schema.
func NewCache(s *schema.Schema, size int) (*Cache, error) {
	c, err := lru.New[string, Expression](size)
	if err != nil {
		return nil, err
	}
	return &Cache{schema: s, lru: c}, nil
}

// Compile parses and compiles src, returning the cached expression when
// the same source text was compiled before.  Failed compilations are not
// cached.
func (c *Cache) Compile(src string) (Expression, error) {
	if e, ok := c.lru.Get(src); ok {
		return e, nil
	}
	node, err := parser.Parse(src)
	if err != nil {
		return Expression{}, err
	}
	e, err := Compile(node, c.schema)
	if err != nil {
		return Expression{}, err
	}
	c.lru.Add(src, e)
	return e, nil
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int {
	return c.lru.Len()
}
