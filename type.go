package fluxlog

import "fmt"

// Type identifies the declared type of a schema field and of any Value
// bound to that field.  The set is closed; raw-buffer layout depends on it.
type Type int

const (
	TypeBool Type = iota
	TypeInt64
	TypeFloat64
	TypeString
	TypeTime
)

// TypeOf resolves a declared-type name as written in schema definitions.
// A few aliases are accepted for the numeric types.
func TypeOf(name string) (Type, error) {
	switch name {
	case "bool":
		return TypeBool, nil
	case "int", "int64", "long":
		return TypeInt64, nil
	case "float", "float64", "double":
		return TypeFloat64, nil
	case "string":
		return TypeString, nil
	case "time":
		return TypeTime, nil
	}
	return 0, fmt.Errorf("unknown type name %q", name)
}

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeString:
		return "string"
	case TypeTime:
		return "time"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// FixedSize returns the raw-buffer width of t in bytes, or 0 for strings,
// whose width is declared per field by the schema.
func (t Type) FixedSize() int {
	switch t {
	case TypeBool:
		return 1
	case TypeInt64, TypeFloat64, TypeTime:
		return 8
	}
	return 0
}
