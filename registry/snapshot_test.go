package registry

import (
	"testing"

	"github.com/flagcore/flagcore/flagvalue"
)

func def(key string, value flagvalue.Value) *Definition {
	return &Definition{FeatureKey: key, Kind: value.Kind(), DefaultValue: value, Active: true, Salt: DefaultSalt}
}

func TestSnapshotGetMissing(t *testing.T) {
	s := EmptySnapshot()
	if _, ok := s.Get("missing"); ok {
		t.Error("empty snapshot must not contain any key")
	}
}

func TestNilSnapshotBehavesEmpty(t *testing.T) {
	var s *Snapshot
	if _, ok := s.Get("x"); ok {
		t.Error("nil snapshot Get must report not-found")
	}
	if s.Len() != 0 {
		t.Error("nil snapshot Len must be 0")
	}
	if s.Keys() != nil {
		t.Error("nil snapshot Keys must be nil")
	}
}

func TestSnapshotWithUpsertAndRemove(t *testing.T) {
	s := NewSnapshot(def("a", flagvalue.Bool(true)), def("b", flagvalue.Bool(false)))

	next := s.With(Patch{
		Upserts: []*Definition{def("c", flagvalue.Int(1))},
		Removes: []string{"a"},
	})

	if _, ok := next.Get("a"); ok {
		t.Error("a should have been removed")
	}
	if _, ok := next.Get("b"); !ok {
		t.Error("b should remain untouched")
	}
	if _, ok := next.Get("c"); !ok {
		t.Error("c should have been upserted")
	}

	// receiver unchanged
	if _, ok := s.Get("a"); !ok {
		t.Error("With must not mutate the receiver: a should still be present on s")
	}
	if _, ok := s.Get("c"); ok {
		t.Error("With must not mutate the receiver: c must not appear on s")
	}
}

func TestSnapshotWithRemoveIsIdempotent(t *testing.T) {
	s := NewSnapshot(def("a", flagvalue.Bool(true)))
	once := s.With(Patch{Removes: []string{"a"}})
	twice := once.With(Patch{Removes: []string{"a"}})

	if once.Len() != 0 || twice.Len() != 0 {
		t.Error("removing an absent key must be a no-op, not an error")
	}
}

func TestSnapshotWithUpsertReplacesByKey(t *testing.T) {
	s := NewSnapshot(def("a", flagvalue.Bool(true)))
	next := s.With(Patch{Upserts: []*Definition{def("a", flagvalue.Bool(false))}})

	got, _ := next.Get("a")
	v, _ := got.DefaultValue.AsBool()
	if v != false {
		t.Errorf("upsert must replace the existing definition for a, got default=%v", v)
	}
	old, _ := s.Get("a")
	oldV, _ := old.DefaultValue.AsBool()
	if oldV != true {
		t.Error("With must not mutate the receiver's existing definition")
	}
}
