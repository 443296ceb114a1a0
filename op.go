package fluxlog

import "fmt"

// Op is a relational-operator code.  Parsers hand these to the compiler as
// plain integers; anything outside EQ through GE is rejected there.
type Op int

const (
	EQ Op = iota
	NEQ
	LT
	GT
	LE
	GE
)

// String returns the canonical operator symbol used in the textual form of
// compiled predicates.
func (o Op) String() string {
	switch o {
	case EQ:
		return "=="
	case NEQ:
		return "!="
	case LT:
		return "<"
	case GT:
		return ">"
	case LE:
		return "<="
	case GE:
		return ">="
	}
	return fmt.Sprintf("op(%d)", int(o))
}
