package evalengine

import (
	"fmt"
	"math"
	"testing"

	"github.com/flagcore/flagcore/identifier"
)

func stableID(t *testing.T, raw string) identifier.StableID {
	t.Helper()
	id, err := identifier.NewStableID(raw)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestStableBucketDeterministic(t *testing.T) {
	id := stableID(t, "user-1")
	a := StableBucket("exp", id, "v1")
	b := StableBucket("exp", id, "v1")
	if a != b {
		t.Errorf("StableBucket is not deterministic: %d != %d", a, b)
	}
}

func TestStableBucketWithinSpace(t *testing.T) {
	id := stableID(t, "user-1")
	b := StableBucket("exp", id, "v1")
	if b >= BucketSpace {
		t.Errorf("bucket %d out of [0, %d)", b, BucketSpace)
	}
}

func TestStableBucketChangesWithFeatureKey(t *testing.T) {
	id := stableID(t, "user-1")
	a := StableBucket("feature-a", id, "v1")
	b := StableBucket("feature-b", id, "v1")
	if a == b {
		t.Skip("hash collision across feature keys is possible but astronomically unlikely; not a real failure")
	}
}

func TestStableBucketDistributionIsApproximatelyUniform(t *testing.T) {
	const n = 10_000
	const buckets = 100
	counts := make([]int, buckets)
	for i := 0; i < n; i++ {
		id := stableID(t, fmt.Sprintf("u-%d", i))
		b := StableBucket("exp", id, "v1")
		counts[int(b)%buckets]++
	}

	expected := float64(n) / float64(buckets)
	var chiSquare float64
	for _, c := range counts {
		diff := float64(c) - expected
		chiSquare += diff * diff / expected
	}

	// 99 degrees of freedom; a generous bound well above the expected
	// statistic under a uniform null hypothesis catches only gross skew.
	const bound = 160.0
	if chiSquare > bound {
		t.Errorf("chi-square statistic %.2f exceeds bound %.2f; bucketing looks non-uniform", chiSquare, bound)
	}
}

func TestStableBucketSaltDecorrelation(t *testing.T) {
	const n = 5_000
	same := 0
	for i := 0; i < n; i++ {
		id := stableID(t, fmt.Sprintf("u-%d", i))
		b1 := StableBucket("exp", id, "v1") % 10
		b2 := StableBucket("exp", id, "v2") % 10
		if b1 == b2 {
			same++
		}
	}

	fraction := float64(same) / float64(n)
	if math.Abs(fraction-0.1) > 0.03 {
		t.Errorf("salt-decorrelated bucket%%10 match fraction = %.3f, want ~0.1", fraction)
	}
}
