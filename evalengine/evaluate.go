package evalengine

import (
	"fmt"

	"github.com/flagcore/flagcore/feature"
	"github.com/flagcore/flagcore/flagcontext"
	"github.com/flagcore/flagcore/registry"
)

// ResultKind discriminates the three outcomes of Evaluate (spec §4.2,
// §7): the engine never throws, so every call returns exactly one of
// these as a value.
type ResultKind string

const (
	Success       ResultKind = "Success"
	FlagNotFound  ResultKind = "FlagNotFound"
	EvaluationErr ResultKind = "EvaluationError"
)

// Result is the total, typed outcome of Evaluate.
type Result[T any] struct {
	Kind       ResultKind
	Value      T // meaningful only when Kind == Success
	FeatureKey string
	RuleIndex  int   // index of the winning (or faulting) rule; -1 when the default was used or the flag was not found
	Cause      error // set when Kind == EvaluationErr
}

// Evaluate is the deterministic, total match function: given the
// current snapshot, a feature handle, and a context, it selects a value
// by walking def.Rules in their pre-sorted specificity order and
// applying the first eligible rule, falling through to the default.
// Evaluate never panics: an extension-predicate fault or a value-kind
// mismatch is captured into an EvaluationErr result rather than
// propagated.
func Evaluate[T any, C flagcontext.Context](snap *registry.Snapshot, f feature.Feature[T, C], ctx C) Result[T] {
	def, ok := snap.Get(f.Key())
	if !ok {
		return Result[T]{Kind: FlagNotFound, FeatureKey: f.Key(), RuleIndex: -1}
	}

	outcome := runMatchLoop(def, f.Key(), ctx)
	if outcome.cause != nil {
		return Result[T]{Kind: EvaluationErr, FeatureKey: f.Key(), RuleIndex: outcome.ruleIndex, Cause: outcome.cause}
	}

	value, err := f.Decode(outcome.value)
	if err != nil {
		return Result[T]{
			Kind:       EvaluationErr,
			FeatureKey: f.Key(),
			RuleIndex:  outcome.ruleIndex,
			Cause:      fmt.Errorf("type mismatch decoding feature %q: %w", f.Key(), err),
		}
	}
	return Result[T]{Kind: Success, Value: value, FeatureKey: f.Key(), RuleIndex: outcome.ruleIndex}
}

// EvaluateOrDefault is the convenience wrapper that collapses
// FlagNotFound and EvaluationErr to a caller-supplied fallback.
func EvaluateOrDefault[T any, C flagcontext.Context](snap *registry.Snapshot, f feature.Feature[T, C], ctx C, fallback T) T {
	result := Evaluate(snap, f, ctx)
	if result.Kind != Success {
		return fallback
	}
	return result.Value
}
