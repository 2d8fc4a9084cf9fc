package evalengine

import (
	"github.com/flagcore/flagcore/flagcontext"
	"github.com/flagcore/flagcore/flagvalue"
	"github.com/flagcore/flagcore/registry"
)

// RawResult is EvaluateErased's outcome: the wire-level counterpart of
// Result[T] for callers that only have a snapshot and a feature key on
// hand, not a compile-time feature.Feature[T, C] handle (the reference
// CLI, an admin console, a debugging endpoint).
type RawResult struct {
	Kind       ResultKind
	Value      flagvalue.Value // meaningful only when Kind == Success
	FeatureKey string
	RuleIndex  int
	Cause      error
}

// EvaluateErased runs the same match loop as Evaluate but skips the
// Codec decode step, returning the matched flagvalue.Value directly.
// It never needs a type parameter, so it is the entry point usable from
// untyped tooling built against a *registry.Snapshot alone.
func EvaluateErased(snap *registry.Snapshot, featureKey string, ctx flagcontext.Context) RawResult {
	return EvaluateErasedWithSalt(snap, featureKey, ctx, "")
}

// EvaluateErasedWithSalt is EvaluateErased with the ramp-up salt
// overridable: an empty saltOverride uses the definition's
// wire-configured salt, exactly like EvaluateErased. A non-empty
// saltOverride buckets against that salt instead, for tooling that
// previews a rollout under a different salt than the one stored in the
// snapshot.
func EvaluateErasedWithSalt(snap *registry.Snapshot, featureKey string, ctx flagcontext.Context, saltOverride string) RawResult {
	def, ok := snap.Get(featureKey)
	if !ok {
		return RawResult{Kind: FlagNotFound, FeatureKey: featureKey, RuleIndex: -1}
	}

	outcome := runMatchLoopWithSalt(def, featureKey, ctx, saltOverride)
	if outcome.cause != nil {
		return RawResult{Kind: EvaluationErr, FeatureKey: featureKey, RuleIndex: outcome.ruleIndex, Cause: outcome.cause}
	}
	return RawResult{Kind: Success, Value: outcome.value, FeatureKey: featureKey, RuleIndex: outcome.ruleIndex}
}
