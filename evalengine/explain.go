package evalengine

import (
	"github.com/google/uuid"

	"github.com/flagcore/flagcore/feature"
	"github.com/flagcore/flagcore/flagcontext"
	"github.com/flagcore/flagcore/flagvalue"
	"github.com/flagcore/flagcore/registry"
)

// Explanation is the diagnostic record returned by Explain. It never
// affects snapshot state; it exists purely to answer "why did this
// context get this value."
type Explanation struct {
	ExplanationID uuid.UUID
	FeatureKey    string
	Found         bool
	MatchedRule   *int    // nil when the default won (or the feature was inactive/not found)
	Bucket        *uint32 // non-nil only when a ramp-up computation actually ran
	Value         flagvalue.Value
	Cause         error // set if an extension predicate faulted during the walk
}

// Explain runs the same match algorithm Evaluate does, but returns the
// full diagnostic trail instead of collapsing it to a typed value: the
// matched rule index (if any), the computed ramp-up bucket (if the gate
// was actually evaluated), and the resulting wire-form value.
func Explain[T any, C flagcontext.Context](snap *registry.Snapshot, f feature.Feature[T, C], ctx C) Explanation {
	return ExplainWithSalt(snap, f, ctx, "")
}

// ExplainWithSalt is Explain with the ramp-up salt overridable, exactly
// like EvaluateErasedWithSalt: an empty saltOverride uses the
// definition's wire-configured salt.
func ExplainWithSalt[T any, C flagcontext.Context](snap *registry.Snapshot, f feature.Feature[T, C], ctx C, saltOverride string) Explanation {
	exp := Explanation{ExplanationID: uuid.New(), FeatureKey: f.Key()}

	def, ok := snap.Get(f.Key())
	if !ok {
		return exp
	}
	exp.Found = true

	outcome := runMatchLoopWithSalt(def, f.Key(), ctx, saltOverride)
	if outcome.cause != nil {
		exp.Cause = outcome.cause
		idx := outcome.ruleIndex
		exp.MatchedRule = &idx
		return exp
	}

	exp.Value = outcome.value
	exp.Bucket = outcome.bucket
	if outcome.ruleIndex >= 0 {
		idx := outcome.ruleIndex
		exp.MatchedRule = &idx
	}
	return exp
}
