package registry

import "github.com/cespare/xxhash/v2"

// Fingerprint returns a content hash of s's wire serialization. It is not
// part of the spec's snapshot contract; it exists so a caller storing or
// pushing snapshots (e.g. the postgres adapter, or a polling config
// loader) can cheaply skip a redundant write or history push when the
// freshly-loaded snapshot is byte-identical to the one already current.
func (s *Snapshot) Fingerprint() uint64 {
	return xxhash.Sum64(s.ToJSON())
}
