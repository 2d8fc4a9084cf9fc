package registry

// Snapshot is an immutable, per-namespace map from feature key to
// type-erased flag Definition. Snapshots are never mutated after
// construction; Patch application and JSON loading always produce a new
// Snapshot, leaving any previously-held reference untouched (spec §3
// "Snapshot immutability").
type Snapshot struct {
	definitions map[string]*Definition
}

// EmptySnapshot returns a Snapshot with no definitions.
func EmptySnapshot() *Snapshot {
	return &Snapshot{definitions: map[string]*Definition{}}
}

// NewSnapshot builds a Snapshot from a set of already-erased
// definitions. Later entries win on a duplicate FeatureKey.
func NewSnapshot(defs ...*Definition) *Snapshot {
	m := make(map[string]*Definition, len(defs))
	for _, d := range defs {
		m[d.FeatureKey] = d
	}
	return &Snapshot{definitions: m}
}

// Get returns the definition for key, and whether one exists. A nil
// Snapshot (an uninitialized Namespace with no Load yet) behaves as
// empty rather than panicking.
func (s *Snapshot) Get(key string) (*Definition, bool) {
	if s == nil {
		return nil, false
	}
	d, ok := s.definitions[key]
	return d, ok
}

// Keys returns the feature keys present in this snapshot, in no
// particular order.
func (s *Snapshot) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.definitions))
	for k := range s.definitions {
		keys = append(keys, k)
	}
	return keys
}

// Len reports how many definitions this snapshot holds.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.definitions)
}

// clone returns a shallow copy of the definitions map. Definition values
// themselves are never mutated in place anywhere in this package, so
// sharing *Definition pointers between the old and new map is safe.
func (s *Snapshot) clone() map[string]*Definition {
	src := map[string]*Definition{}
	if s != nil {
		src = s.definitions
	}
	dst := make(map[string]*Definition, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Patch is an incremental snapshot update: upserts replace (or add) a
// definition by key; removes drop a key. Both lists are applied in a
// single logical step producing one new Snapshot (spec §4.4).
type Patch struct {
	Upserts []*Definition
	Removes []string
}

// With returns a new Snapshot built by applying patch to s. Removing a
// key that is not present is a no-op (removal is idempotent, spec §8).
// The receiver is left unchanged.
func (s *Snapshot) With(patch Patch) *Snapshot {
	next := s.clone()
	for _, key := range patch.Removes {
		delete(next, key)
	}
	for _, def := range patch.Upserts {
		next[def.FeatureKey] = def
	}
	return &Snapshot{definitions: next}
}
