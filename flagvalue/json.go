package flagvalue

import (
	"encoding/json"
	"fmt"
)

// DecodeError is a structural or semantic violation found while decoding
// a Value from its wire form, tagged with the JSON path of the offending
// leaf so callers can report precisely where validation failed.
type DecodeError struct {
	Path    string
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func decodeErrorf(path, format string, args ...any) *DecodeError {
	return &DecodeError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// wireValue mirrors the JSON shape of every FlagValue site (spec §4.6):
//
//	{"type":"BOOLEAN","value":bool}
//	{"type":"STRING","value":string}
//	{"type":"INT","value":int64}
//	{"type":"DOUBLE","value":float64}
//	{"type":"ENUM","enum":string,"variant":string}
//	{"type":"OBJECT","fields":{name:<FlagValue>,...}}
type wireValue struct {
	Type    string                     `json:"type"`
	Value   json.RawMessage            `json:"value,omitempty"`
	Enum    string                     `json:"enum,omitempty"`
	Variant string                     `json:"variant,omitempty"`
	Fields  map[string]json.RawMessage `json:"fields,omitempty"`
}

// MarshalJSON is infallible: every constructed Value satisfies the closed
// kind switch below.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBoolean:
		return json.Marshal(struct {
			Type  string `json:"type"`
			Value bool   `json:"value"`
		}{string(KindBoolean), v.boolValue})
	case KindString:
		return json.Marshal(struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		}{string(KindString), v.stringValue})
	case KindInt:
		return json.Marshal(struct {
			Type  string `json:"type"`
			Value int64  `json:"value"`
		}{string(KindInt), v.intValue})
	case KindDouble:
		return json.Marshal(struct {
			Type  string  `json:"type"`
			Value float64 `json:"value"`
		}{string(KindDouble), v.doubleValue})
	case KindEnum:
		return json.Marshal(struct {
			Type    string `json:"type"`
			Enum    string `json:"enum"`
			Variant string `json:"variant"`
		}{string(KindEnum), v.enumType, v.enumVariant})
	case KindObject:
		return json.Marshal(struct {
			Type   string           `json:"type"`
			Fields map[string]Value `json:"fields"`
		}{string(KindObject), v.fields})
	default:
		// Unreachable for any Value produced by this package's
		// constructors; fall back to a null rather than panic.
		return []byte("null"), nil
	}
}

// Decode parses raw into a Value, validating the discriminant and payload
// shape against the closed set of Kind variants. path identifies raw's
// location for error reporting (e.g. "flags[2].defaultValue").
func Decode(raw json.RawMessage, path string) (Value, error) {
	var wire wireValue
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Value{}, decodeErrorf(path, "not a valid FlagValue object: %v", err)
	}

	switch Kind(wire.Type) {
	case KindBoolean:
		var b bool
		if len(wire.Value) == 0 {
			return Value{}, decodeErrorf(path, "BOOLEAN requires a \"value\" field")
		}
		if err := json.Unmarshal(wire.Value, &b); err != nil {
			return Value{}, decodeErrorf(path+".value", "expected bool: %v", err)
		}
		return Bool(b), nil

	case KindString:
		var s string
		if len(wire.Value) == 0 {
			return Value{}, decodeErrorf(path, "STRING requires a \"value\" field")
		}
		if err := json.Unmarshal(wire.Value, &s); err != nil {
			return Value{}, decodeErrorf(path+".value", "expected string: %v", err)
		}
		return String(s), nil

	case KindInt:
		var i int64
		if len(wire.Value) == 0 {
			return Value{}, decodeErrorf(path, "INT requires a \"value\" field")
		}
		if err := json.Unmarshal(wire.Value, &i); err != nil {
			return Value{}, decodeErrorf(path+".value", "expected int64: %v", err)
		}
		return Int(i), nil

	case KindDouble:
		var f float64
		if len(wire.Value) == 0 {
			return Value{}, decodeErrorf(path, "DOUBLE requires a \"value\" field")
		}
		if err := json.Unmarshal(wire.Value, &f); err != nil {
			return Value{}, decodeErrorf(path+".value", "expected float64: %v", err)
		}
		return Double(f), nil

	case KindEnum:
		if wire.Enum == "" {
			return Value{}, decodeErrorf(path+".enum", "ENUM requires a non-empty \"enum\" type id")
		}
		if wire.Variant == "" {
			return Value{}, decodeErrorf(path+".variant", "ENUM requires a non-empty \"variant\" name")
		}
		return Enum(wire.Enum, wire.Variant), nil

	case KindObject:
		fields := make(map[string]Value, len(wire.Fields))
		for name, rawField := range wire.Fields {
			fieldPath := fmt.Sprintf("%s.fields.%s", path, name)
			decoded, err := Decode(rawField, fieldPath)
			if err != nil {
				return Value{}, err
			}
			fields[name] = decoded
		}
		return Object(fields), nil

	case "":
		return Value{}, decodeErrorf(path, "missing \"type\" discriminant")

	default:
		return Value{}, decodeErrorf(path+".type", "unknown value kind %q", wire.Type)
	}
}
