package registry

import (
	"strings"
	"testing"

	"github.com/flagcore/flagcore/flagvalue"
)

const sampleSnapshotJSON = `{
  "flags": [
    {
      "key": "checkout.newFlow",
      "defaultValue": {"type": "BOOLEAN", "value": false},
      "salt": "v2",
      "isActive": true,
      "rules": [
        {
          "value": {"type": "BOOLEAN", "value": true},
          "rampUp": 25.5,
          "note": "beta-cohort",
          "platforms": ["IOS", "ANDROID"],
          "versionRange": {"type": "LeftBound", "min": "4.2.0"},
          "axes": {"cohort": ["beta"]},
          "allowlist": ["user-1", "user-2"]
        }
      ]
    },
    {
      "key": "search.resultLimit",
      "defaultValue": {"type": "INT", "value": 20}
    }
  ]
}`

func TestFromJSONRoundTrip(t *testing.T) {
	snap, perr := FromJSON([]byte(sampleSnapshotJSON))
	if perr != nil {
		t.Fatalf("FromJSON: %v", perr)
	}
	if snap.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", snap.Len())
	}

	def, ok := snap.Get("checkout.newFlow")
	if !ok {
		t.Fatal("missing checkout.newFlow")
	}
	if def.Salt != "v2" || !def.Active {
		t.Errorf("salt/isActive not decoded: salt=%q active=%v", def.Salt, def.Active)
	}
	if len(def.Rules) != 1 {
		t.Fatalf("rules len = %d, want 1", len(def.Rules))
	}
	if def.Rules[0].Note != "beta-cohort" {
		t.Errorf("note = %q", def.Rules[0].Note)
	}
	if def.Rules[0].Criteria.RampUp.Float64() != 25.5 {
		t.Errorf("rampUp = %v, want 25.5", def.Rules[0].Criteria.RampUp.Float64())
	}

	other, ok := snap.Get("search.resultLimit")
	if !ok {
		t.Fatal("missing search.resultLimit")
	}
	if other.Salt != DefaultSalt {
		t.Errorf("default salt = %q, want %q", other.Salt, DefaultSalt)
	}
	if !other.Active {
		t.Error("isActive must default to true when omitted")
	}

	reencoded := snap.ToJSON()
	roundTripped, perr := FromJSON(reencoded)
	if perr != nil {
		t.Fatalf("FromJSON(ToJSON(snap)): %v", perr)
	}
	if roundTripped.Len() != snap.Len() {
		t.Fatalf("round trip changed flag count: %d vs %d", roundTripped.Len(), snap.Len())
	}
	def2, _ := roundTripped.Get("checkout.newFlow")
	if !def2.DefaultValue.Equal(def.DefaultValue) {
		t.Error("round trip changed defaultValue")
	}
}

func TestToJSONIsDeterministic(t *testing.T) {
	snap, perr := FromJSON([]byte(sampleSnapshotJSON))
	if perr != nil {
		t.Fatal(perr)
	}
	a := snap.ToJSON()
	b := snap.ToJSON()
	if string(a) != string(b) {
		t.Error("ToJSON must be deterministic across calls on the same snapshot")
	}
}

func TestFromJSONMalformedJSONIsInvalidJSON(t *testing.T) {
	_, perr := FromJSON([]byte(`{not valid`))
	if perr == nil || perr.Kind != KindInvalidJSON {
		t.Fatalf("got %#v, want KindInvalidJSON", perr)
	}
}

func TestFromJSONMissingKeyIsInvalidSnapshot(t *testing.T) {
	_, perr := FromJSON([]byte(`{"flags":[{"defaultValue":{"type":"BOOLEAN","value":true}}]}`))
	if perr == nil || perr.Kind != KindInvalidSnapshot {
		t.Fatalf("got %#v, want KindInvalidSnapshot", perr)
	}
	if !strings.Contains(perr.Path, "key") {
		t.Errorf("path = %q, want it to mention .key", perr.Path)
	}
}

func TestFromJSONInvalidKeyCharsetIsInvalidSnapshot(t *testing.T) {
	doc := `{"flags":[{"key":"bad key!","defaultValue":{"type":"BOOLEAN","value":true}}]}`
	_, perr := FromJSON([]byte(doc))
	if perr == nil || perr.Kind != KindInvalidSnapshot {
		t.Fatalf("got %#v, want KindInvalidSnapshot", perr)
	}
	if !strings.Contains(perr.Path, "key") {
		t.Errorf("path = %q, want it to mention .key", perr.Path)
	}
}

func TestFromJSONOverlongKeyIsInvalidSnapshot(t *testing.T) {
	doc := `{"flags":[{"key":"` + strings.Repeat("k", maxFeatureKeyLength+1) + `","defaultValue":{"type":"BOOLEAN","value":true}}]}`
	_, perr := FromJSON([]byte(doc))
	if perr == nil || perr.Kind != KindInvalidSnapshot {
		t.Fatalf("got %#v, want KindInvalidSnapshot", perr)
	}
}

func TestFromJSONBadVersionIsInvalidVersion(t *testing.T) {
	doc := `{"flags":[{"key":"f","defaultValue":{"type":"BOOLEAN","value":true},
		"rules":[{"value":{"type":"BOOLEAN","value":false},
		"versionRange":{"type":"LeftBound","min":"not-a-version"}}]}]}`
	_, perr := FromJSON([]byte(doc))
	if perr == nil || perr.Kind != KindInvalidVersion {
		t.Fatalf("got %#v, want KindInvalidVersion", perr)
	}
	if perr.VersionText != "not-a-version" {
		t.Errorf("VersionText = %q", perr.VersionText)
	}
}

func TestFromJSONInvertedRangeIsInvalidRange(t *testing.T) {
	doc := `{"flags":[{"key":"f","defaultValue":{"type":"BOOLEAN","value":true},
		"rules":[{"value":{"type":"BOOLEAN","value":false},
		"versionRange":{"type":"FullyBound","min":"5.0.0","max":"1.0.0"}}]}]}`
	_, perr := FromJSON([]byte(doc))
	if perr == nil || perr.Kind != KindInvalidRange {
		t.Fatalf("got %#v, want KindInvalidRange", perr)
	}
}

func TestFromJSONOutOfBoundsRampUpIsInvalidRampUp(t *testing.T) {
	doc := `{"flags":[{"key":"f","defaultValue":{"type":"BOOLEAN","value":true},
		"rules":[{"value":{"type":"BOOLEAN","value":false},"rampUp":150}]}]}`
	_, perr := FromJSON([]byte(doc))
	if perr == nil || perr.Kind != KindInvalidRampUp {
		t.Fatalf("got %#v, want KindInvalidRampUp", perr)
	}
	if perr.RampUpValue != 150 {
		t.Errorf("RampUpValue = %v", perr.RampUpValue)
	}
}

func TestFromJSONBadValueKindIsInvalidSnapshot(t *testing.T) {
	doc := `{"flags":[{"key":"f","defaultValue":{"type":"NOT_A_KIND","value":1}}]}`
	_, perr := FromJSON([]byte(doc))
	if perr == nil || perr.Kind != KindInvalidSnapshot {
		t.Fatalf("got %#v, want KindInvalidSnapshot (from a flagvalue decode failure)", perr)
	}
	if !strings.Contains(perr.Path, "defaultValue") {
		t.Errorf("path = %q, want it to mention defaultValue", perr.Path)
	}
}

func TestFromJSONFailureLeavesNoPartialSnapshot(t *testing.T) {
	doc := `{"flags":[
		{"key":"good","defaultValue":{"type":"BOOLEAN","value":true}},
		{"key":"bad","defaultValue":{"type":"NOPE","value":true}}
	]}`
	snap, perr := FromJSON([]byte(doc))
	if perr == nil {
		t.Fatal("expected a parse error")
	}
	if snap != nil {
		t.Error("a failed parse must return a nil snapshot, never a partially-populated one")
	}
}

func TestPatchFromJSONRoundTrip(t *testing.T) {
	doc := `{"flags":[{"key":"c","defaultValue":{"type":"INT","value":3}}],"removeKeys":["a"]}`
	patch, perr := PatchFromJSON([]byte(doc))
	if perr != nil {
		t.Fatalf("PatchFromJSON: %v", perr)
	}
	if len(patch.Upserts) != 1 || patch.Upserts[0].FeatureKey != "c" {
		t.Fatalf("upserts = %+v", patch.Upserts)
	}
	if len(patch.Removes) != 1 || patch.Removes[0] != "a" {
		t.Fatalf("removes = %+v", patch.Removes)
	}

	reencoded := patch.ToJSON()
	roundTripped, perr := PatchFromJSON(reencoded)
	if perr != nil {
		t.Fatalf("PatchFromJSON(ToJSON(patch)): %v", perr)
	}
	if len(roundTripped.Upserts) != 1 || roundTripped.Removes[0] != "a" {
		t.Errorf("round trip changed patch contents: %+v", roundTripped)
	}
}

func TestPatchFromJSONMalformedFlagIsInvalidSnapshot(t *testing.T) {
	doc := `{"flags":[{"defaultValue":{"type":"BOOLEAN","value":true}}],"removeKeys":[]}`
	_, perr := PatchFromJSON([]byte(doc))
	if perr == nil || perr.Kind != KindInvalidSnapshot {
		t.Fatalf("got %#v, want KindInvalidSnapshot", perr)
	}
}

func TestCheckKindsDetectsMissingAndMismatchedFeatures(t *testing.T) {
	snap, perr := FromJSON([]byte(sampleSnapshotJSON))
	if perr != nil {
		t.Fatal(perr)
	}

	if err := snap.CheckKinds([]KnownFeature{
		{Key: "checkout.newFlow", Kind: flagvalue.KindBoolean},
		{Key: "search.resultLimit", Kind: flagvalue.KindInt},
	}); err != nil {
		t.Errorf("CheckKinds on a matching registry: %v", err)
	}

	if err := snap.CheckKinds([]KnownFeature{{Key: "does.not.exist", Kind: flagvalue.KindBoolean}}); err == nil || err.Kind != KindFeatureNotFound {
		t.Errorf("got %#v, want KindFeatureNotFound", err)
	}

	if err := snap.CheckKinds([]KnownFeature{{Key: "search.resultLimit", Kind: flagvalue.KindBoolean}}); err == nil || err.Kind != KindTypeMismatch {
		t.Errorf("got %#v, want KindTypeMismatch", err)
	}
}
