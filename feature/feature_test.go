package feature

import (
	"testing"

	"github.com/flagcore/flagcore/flagcontext"
	"github.com/flagcore/flagcore/flagvalue"
)

func TestNewBoolRoundTripsThroughCodec(t *testing.T) {
	f, err := NewBool[flagcontext.Base]("web", "dark_mode", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Key() != "dark_mode" || f.Namespace() != "web" || f.Default() != false {
		t.Errorf("unexpected feature identity: %+v", f)
	}
	if f.Kind() != flagvalue.KindBoolean {
		t.Errorf("Kind() = %v, want BOOLEAN", f.Kind())
	}

	encoded := f.Encode(true)
	decoded, err := f.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != true {
		t.Errorf("round trip = %v, want true", decoded)
	}
}

func TestNewRejectsEmptyKey(t *testing.T) {
	if _, err := NewString[flagcontext.Base]("web", "", "prod"); err != ErrEmptyKey {
		t.Errorf("error = %v, want ErrEmptyKey", err)
	}
}

func TestDecodeRejectsKindMismatch(t *testing.T) {
	f, _ := NewInt64[flagcontext.Base]("web", "max_items", 10)
	_, err := f.Decode(flagvalue.String("not an int"))
	if err == nil {
		t.Fatal("expected a type mismatch error")
	}
}

type tier string

type tierCodec struct{}

func (tierCodec) Kind() flagvalue.Kind { return flagvalue.KindEnum }
func (tierCodec) Encode(v tier) flagvalue.Value {
	return flagvalue.Enum("Tier", string(v))
}
func (tierCodec) Decode(v flagvalue.Value) (tier, error) {
	_, variant, ok := v.AsEnum()
	if !ok {
		return "", errNotEnum
	}
	return tier(variant), nil
}

var errNotEnum = errEnum{}

type errEnum struct{}

func (errEnum) Error() string { return "feature: expected ENUM" }

func TestNewWithCodecSupportsEnum(t *testing.T) {
	f, err := NewWithCodec[tier, flagcontext.Base]("web", "tier", tier("FREE"), tierCodec{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded := f.Encode(tier("GOLD"))
	if encoded.Kind() != flagvalue.KindEnum {
		t.Fatalf("Kind() = %v, want ENUM", encoded.Kind())
	}
	decoded, err := f.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != "GOLD" {
		t.Errorf("decoded = %q, want GOLD", decoded)
	}
}

func TestNewWithCodecRejectsNilCodec(t *testing.T) {
	if _, err := NewWithCodec[tier, flagcontext.Base]("web", "tier", tier("FREE"), nil); err == nil {
		t.Error("expected an error for a nil codec")
	}
}
