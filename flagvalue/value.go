// Package flagvalue implements the closed, discriminated set of value
// kinds a feature flag may carry (spec §4.6): booleans, strings,
// 64-bit integers, doubles, enum variants, and nested objects built
// from the same kinds. Reflection-based, open-ended payload dispatch is
// deliberately not supported — the set is closed and exhaustively
// switched on everywhere it is consumed.
package flagvalue

import "fmt"

// Kind is the wire discriminant carried alongside every value site.
type Kind string

const (
	KindBoolean Kind = "BOOLEAN"
	KindString  Kind = "STRING"
	KindInt     Kind = "INT"
	KindDouble  Kind = "DOUBLE"
	KindEnum    Kind = "ENUM"
	KindObject  Kind = "OBJECT"
)

// Value is an immutable, type-erased feature value. Construct one with
// the Bool/String/Int/Double/Enum/Object constructors; read it back with
// the matching accessor once Kind() has been checked (or use AsX which
// returns ok=false on a kind mismatch).
type Value struct {
	kind Kind

	boolValue   bool
	stringValue string
	intValue    int64
	doubleValue float64
	enumType    string
	enumVariant string
	fields      map[string]Value
}

func Bool(b bool) Value         { return Value{kind: KindBoolean, boolValue: b} }
func String(s string) Value     { return Value{kind: KindString, stringValue: s} }
func Int(i int64) Value         { return Value{kind: KindInt, intValue: i} }
func Double(f float64) Value    { return Value{kind: KindDouble, doubleValue: f} }

// Enum constructs an ENUM value identifying a variant of enumType.
func Enum(enumType, variant string) Value {
	return Value{kind: KindEnum, enumType: enumType, enumVariant: variant}
}

// Object constructs an OBJECT value from named fields of any supported
// kind, recursively. A nil map is normalized to an empty one.
func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindObject, fields: fields}
}

// Kind reports which of the six closed variants this value holds.
func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() (bool, bool)     { return v.boolValue, v.kind == KindBoolean }
func (v Value) AsString() (string, bool) { return v.stringValue, v.kind == KindString }
func (v Value) AsInt() (int64, bool)     { return v.intValue, v.kind == KindInt }
func (v Value) AsDouble() (float64, bool) { return v.doubleValue, v.kind == KindDouble }

// AsEnum returns the enum type id and variant name.
func (v Value) AsEnum() (enumType, variant string, ok bool) {
	return v.enumType, v.enumVariant, v.kind == KindEnum
}

// AsObject returns the nested field map.
func (v Value) AsObject() (map[string]Value, bool) {
	return v.fields, v.kind == KindObject
}

// Equal reports deep equality between two values, recursing through
// OBJECT fields. Used by round-trip tests.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBoolean:
		return v.boolValue == other.boolValue
	case KindString:
		return v.stringValue == other.stringValue
	case KindInt:
		return v.intValue == other.intValue
	case KindDouble:
		return v.doubleValue == other.doubleValue
	case KindEnum:
		return v.enumType == other.enumType && v.enumVariant == other.enumVariant
	case KindObject:
		if len(v.fields) != len(other.fields) {
			return false
		}
		for name, field := range v.fields {
			otherField, ok := other.fields[name]
			if !ok || !field.Equal(otherField) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders a short diagnostic form; it is not the wire format.
func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		return fmt.Sprintf("BOOLEAN(%v)", v.boolValue)
	case KindString:
		return fmt.Sprintf("STRING(%q)", v.stringValue)
	case KindInt:
		return fmt.Sprintf("INT(%d)", v.intValue)
	case KindDouble:
		return fmt.Sprintf("DOUBLE(%g)", v.doubleValue)
	case KindEnum:
		return fmt.Sprintf("ENUM(%s.%s)", v.enumType, v.enumVariant)
	case KindObject:
		return fmt.Sprintf("OBJECT(%d fields)", len(v.fields))
	default:
		return "INVALID"
	}
}
