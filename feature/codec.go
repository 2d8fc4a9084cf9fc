package feature

import (
	"fmt"

	"github.com/flagcore/flagcore/flagvalue"
)

// Codec is the bridge between a feature's declared Go type T and the
// closed, type-erased flagvalue.Value wire representation. Built-in
// codecs exist for bool, string, int64, and float64; enum- and
// object-kinded features supply their own Codec implementation
// (typically generated or hand-written alongside the declared type).
type Codec[T any] interface {
	Kind() flagvalue.Kind
	Encode(value T) flagvalue.Value
	Decode(value flagvalue.Value) (T, error)
}

type boolCodec struct{}

func (boolCodec) Kind() flagvalue.Kind             { return flagvalue.KindBoolean }
func (boolCodec) Encode(v bool) flagvalue.Value    { return flagvalue.Bool(v) }
func (boolCodec) Decode(v flagvalue.Value) (bool, error) {
	b, ok := v.AsBool()
	if !ok {
		return false, fmt.Errorf("feature: expected BOOLEAN, got %s", v.Kind())
	}
	return b, nil
}

type stringCodec struct{}

func (stringCodec) Kind() flagvalue.Kind          { return flagvalue.KindString }
func (stringCodec) Encode(v string) flagvalue.Value { return flagvalue.String(v) }
func (stringCodec) Decode(v flagvalue.Value) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", fmt.Errorf("feature: expected STRING, got %s", v.Kind())
	}
	return s, nil
}

type int64Codec struct{}

func (int64Codec) Kind() flagvalue.Kind           { return flagvalue.KindInt }
func (int64Codec) Encode(v int64) flagvalue.Value { return flagvalue.Int(v) }
func (int64Codec) Decode(v flagvalue.Value) (int64, error) {
	i, ok := v.AsInt()
	if !ok {
		return 0, fmt.Errorf("feature: expected INT, got %s", v.Kind())
	}
	return i, nil
}

type float64Codec struct{}

func (float64Codec) Kind() flagvalue.Kind             { return flagvalue.KindDouble }
func (float64Codec) Encode(v float64) flagvalue.Value { return flagvalue.Double(v) }
func (float64Codec) Decode(v flagvalue.Value) (float64, error) {
	f, ok := v.AsDouble()
	if !ok {
		return 0, fmt.Errorf("feature: expected DOUBLE, got %s", v.Kind())
	}
	return f, nil
}
