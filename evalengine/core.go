package evalengine

import (
	"fmt"

	"github.com/flagcore/flagcore/flagcontext"
	"github.com/flagcore/flagcore/flagvalue"
	"github.com/flagcore/flagcore/registry"
	"github.com/flagcore/flagcore/rules"
)

// matchOutcome is the result of running the rule match loop against one
// definition: a winning rule (ruleIndex >= 0), the definition's default
// (ruleIndex == -1, cause == nil), or a captured extension-predicate
// fault (cause != nil).
type matchOutcome struct {
	ruleIndex int
	bucket    *uint32
	value     flagvalue.Value
	cause     error
}

// runMatchLoop implements spec §4.2 steps 2-4 against an
// already-looked-up Definition: inactive short-circuit, then iterate
// rules in their pre-sorted order applying dimensional criteria, the
// extension predicate under a fault boundary, and the ramp-up gate;
// fall through to the default.
func runMatchLoop(def *registry.Definition, featureKey string, ctx flagcontext.Context) matchOutcome {
	return runMatchLoopWithSalt(def, featureKey, ctx, "")
}

// runMatchLoopWithSalt is runMatchLoop with the ramp-up salt overridable:
// an empty saltOverride falls back to def.Salt, the wire-configured
// value. A caller-supplied salt lets host tooling preview how a rollout
// buckets under a hypothetical salt without editing the snapshot.
func runMatchLoopWithSalt(def *registry.Definition, featureKey string, ctx flagcontext.Context, saltOverride string) matchOutcome {
	if !def.Active {
		return matchOutcome{ruleIndex: -1, value: def.DefaultValue}
	}

	salt := def.Salt
	if saltOverride != "" {
		salt = saltOverride
	}

	var computed *uint32
	for i, rule := range def.Rules {
		if !rule.Criteria.MatchesDimensions(ctx) {
			continue
		}

		if rule.Criteria.Extension != nil {
			matched, cause := invokeExtension(rule.Criteria.Extension, ctx)
			if cause != nil {
				return matchOutcome{ruleIndex: i, cause: fmt.Errorf("rule %d: %w", i, cause)}
			}
			if !matched {
				continue
			}
		}

		stableID := ctx.StableID()
		switch {
		case rule.Criteria.InAllowlist(stableID):
			return matchOutcome{ruleIndex: i, value: rule.Value}
		case rule.Criteria.RampUp.Float64() >= 100:
			return matchOutcome{ruleIndex: i, value: rule.Value}
		case rule.Criteria.RampUp.Float64() <= 0:
			continue
		default:
			bucket := StableBucket(featureKey, stableID, salt)
			b := bucket
			computed = &b
			if bucket < rampUpThreshold(rule.Criteria.RampUp.Float64()) {
				return matchOutcome{ruleIndex: i, bucket: computed, value: rule.Value}
			}
		}
	}

	return matchOutcome{ruleIndex: -1, bucket: computed, value: def.DefaultValue}
}

// invokeExtension calls ext.Match(ctx) under a fault boundary: a panic
// inside the caller-supplied predicate is captured as an error rather
// than propagated (spec §4.2/§7 "the engine MUST isolate extension
// faults and never propagate them").
func invokeExtension(ext *rules.ExtensionPredicate, ctx flagcontext.Context) (matched bool, cause error) {
	defer func() {
		if r := recover(); r != nil {
			matched = false
			cause = fmt.Errorf("extension predicate panicked: %v", r)
		}
	}()
	return ext.Match(ctx), nil
}
