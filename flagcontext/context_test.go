package flagcontext

import (
	"testing"

	"github.com/flagcore/flagcore/identifier"
)

func TestBaseImplementsContext(t *testing.T) {
	id, err := identifier.NewStableID("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := Base{
		LocaleValue:     "en_US",
		PlatformValue:   "IOS",
		AppVersionValue: identifier.Version{Major: 2, Minor: 1, Patch: 0},
		StableIDValue:   id,
		Axes:            map[string]string{"cohort": "beta"},
	}

	if b.Locale() != "en_US" || b.Platform() != "IOS" {
		t.Errorf("unexpected locale/platform: %v/%v", b.Locale(), b.Platform())
	}
	if v, ok := b.Axis("cohort"); !ok || v != "beta" {
		t.Errorf("Axis(cohort) = (%q, %v), want (beta, true)", v, ok)
	}
	if _, ok := b.Axis("missing"); ok {
		t.Errorf("Axis(missing) should report false")
	}
}

func TestBaseAxisOnNilMap(t *testing.T) {
	var b Base
	if v, ok := b.Axis("anything"); ok || v != "" {
		t.Errorf("Axis on zero-value Base should be (\"\", false), got (%q, %v)", v, ok)
	}
}
