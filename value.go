package fluxlog

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// Value is an immutable typed value: a Type plus that type's raw encoding.
// The encoding is the same one used for fields inside raw record buffers
// (little-endian fixed width for the scalar types, raw bytes for strings),
// so values extracted from a buffer share storage with it.
type Value struct {
	Type  Type
	Bytes []byte
}

func NewBool(b bool) Value {
	if b {
		return Value{TypeBool, []byte{1}}
	}
	return Value{TypeBool, []byte{0}}
}

func NewInt64(v int64) Value {
	return Value{TypeInt64, binary.LittleEndian.AppendUint64(nil, uint64(v))}
}

func NewFloat64(v float64) Value {
	return Value{TypeFloat64, binary.LittleEndian.AppendUint64(nil, math.Float64bits(v))}
}

func NewString(s string) Value {
	return Value{TypeString, []byte(s)}
}

// NewTime encodes ts as nanoseconds since the Unix epoch.
func NewTime(ts time.Time) Value {
	return Value{TypeTime, binary.LittleEndian.AppendUint64(nil, uint64(ts.UnixNano()))}
}

func DecodeBool(b []byte) bool {
	return len(b) > 0 && b[0] != 0
}

func DecodeInt64(b []byte) int64 {
	return int64(binary.LittleEndian.Uint64(b))
}

func DecodeFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func DecodeTime(b []byte) time.Time {
	return time.Unix(0, DecodeInt64(b)).UTC()
}

// ValueParseError reports a literal that does not parse as its field's
// declared type.
type ValueParseError struct {
	Literal string
	Type    Type
	Err     error
}

func (e *ValueParseError) Error() string {
	return fmt.Sprintf("value %q cannot be parsed as type %s", e.Literal, e.Type)
}

func (e *ValueParseError) Unwrap() error { return e.Err }

// ParseValue parses a literal string under a declared type.  Time literals
// accept anything dateparse recognizes as well as integer nanoseconds.
func ParseValue(literal string, typ Type) (Value, error) {
	switch typ {
	case TypeBool:
		b, err := strconv.ParseBool(literal)
		if err != nil {
			return Value{}, &ValueParseError{literal, typ, err}
		}
		return NewBool(b), nil
	case TypeInt64:
		v, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return Value{}, &ValueParseError{literal, typ, err}
		}
		return NewInt64(v), nil
	case TypeFloat64:
		v, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return Value{}, &ValueParseError{literal, typ, err}
		}
		return NewFloat64(v), nil
	case TypeString:
		return NewString(literal), nil
	case TypeTime:
		if ns, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return NewTime(time.Unix(0, ns)), nil
		}
		ts, err := dateparse.ParseAny(literal)
		if err != nil {
			return Value{}, &ValueParseError{literal, typ, err}
		}
		return NewTime(ts), nil
	}
	return Value{}, &ValueParseError{literal, typ, fmt.Errorf("unknown type %s", typ)}
}

// Format returns the canonical textual form of the value, as used in the
// textual form of compiled predicates.
func (v Value) Format() string {
	switch v.Type {
	case TypeBool:
		return strconv.FormatBool(DecodeBool(v.Bytes))
	case TypeInt64:
		return strconv.FormatInt(DecodeInt64(v.Bytes), 10)
	case TypeFloat64:
		return strconv.FormatFloat(DecodeFloat64(v.Bytes), 'g', -1, 64)
	case TypeString:
		return string(v.Bytes)
	case TypeTime:
		return DecodeTime(v.Bytes).Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("value(%s)", v.Type)
}

// Compare returns -1, 0, or 1 ordering v against w, which must have the
// same type.  Booleans order false before true.
func (v Value) Compare(w Value) int {
	switch v.Type {
	case TypeBool:
		a, b := DecodeBool(v.Bytes), DecodeBool(w.Bytes)
		switch {
		case a == b:
			return 0
		case b:
			return -1
		}
		return 1
	case TypeInt64, TypeTime:
		return compareOrdered(DecodeInt64(v.Bytes), DecodeInt64(w.Bytes))
	case TypeFloat64:
		return compareOrdered(DecodeFloat64(v.Bytes), DecodeFloat64(w.Bytes))
	}
	return bytes.Compare(v.Bytes, w.Bytes)
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// CompareOp applies a relational operator to two same-typed values.
func CompareOp(op Op, a, b Value) bool {
	c := a.Compare(b)
	switch op {
	case EQ:
		return c == 0
	case NEQ:
		return c != 0
	case LT:
		return c < 0
	case GT:
		return c > 0
	case LE:
		return c <= 0
	case GE:
		return c >= 0
	}
	return false
}
