// Package evalengine implements the deterministic rule match loop,
// ramp-up bucketing, and evaluation diagnostics: the operations that
// turn a Snapshot, a Feature, and a Context into a concrete value.
package evalengine

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/flagcore/flagcore/identifier"
)

// BucketSpace is the number of distinct ramp-up buckets: 0.01% granularity.
const BucketSpace = 10_000

// StableBucket computes the deterministic ramp-up bucket for
// (featureKey, stableID, salt): SHA-256 over "salt:featureKey:canonicalID",
// the first four digest bytes read big-endian, modulo BucketSpace. The
// same triple always yields the same bucket on any platform and any
// process restart; changing any one of the three inputs re-randomizes
// the assignment via SHA-256's avalanche property.
func StableBucket(featureKey string, stableID identifier.StableID, salt string) uint32 {
	key := salt + ":" + featureKey + ":" + stableID.String()
	digest := sha256.Sum256([]byte(key))
	n := binary.BigEndian.Uint32(digest[:4])
	return n % BucketSpace
}

// rampUpThreshold converts a RampUp percentage into the bucket cutoff:
// eligible iff bucket < threshold.
func rampUpThreshold(percent float64) uint32 {
	return uint32(percent * (BucketSpace / 100.0))
}
