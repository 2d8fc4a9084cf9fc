// Package registry implements the per-namespace, atomically-swappable
// feature snapshot: the type-erased FlagDefinition storage, the
// immutable Snapshot map, the Namespace registry with its rollback
// history, patch merge semantics, and the JSON serialization boundary.
package registry

import (
	"github.com/flagcore/flagcore/feature"
	"github.com/flagcore/flagcore/flagcontext"
	"github.com/flagcore/flagcore/flagvalue"
	"github.com/flagcore/flagcore/rules"
)

// Rule is the type-erased, install-time form of rules.Rule[C,T]: its
// Value has already been encoded to the closed flagvalue.Value wire
// form, so a Definition can hold rules that originated from any T.
type Rule struct {
	Value    flagvalue.Value
	Criteria rules.Criteria
	Note     string
}

// Definition is a type-erased FlagDefinition: the snapshot stores these,
// keyed by feature key, with the original T recovered at evaluation time
// via the matching feature.Feature's Kind/Decode (spec §9, "type-indexed
// registry under erasure"). Rules is always stored pre-sorted by
// descending specificity, Note as the tie-break; nothing outside this
// package ever re-sorts it.
type Definition struct {
	FeatureKey   string
	Kind         flagvalue.Kind
	DefaultValue flagvalue.Value
	Active       bool
	Salt         string
	Rules        []Rule
}

// FlagDefinition is the generic, builder-facing counterpart of
// Definition: the shape application code constructs before installing it
// into a Snapshot via Install. C is a phantom parameter binding this
// definition's rules to the context type they were built against.
type FlagDefinition[C flagcontext.Context, T any] struct {
	FeatureKey   string
	DefaultValue T
	Active       bool
	Salt         string
	Rules        []rules.Rule[C, T]
}

// DefaultSalt is used when a FlagDefinition omits an explicit salt.
const DefaultSalt = "v1"

// NewFlagDefinition returns a FlagDefinition with no rules, Active=true,
// and the default salt — the same defaults the wire schema applies
// (spec §6: "salt ... optional, default \"v1\"", "isActive ... optional,
// default true").
func NewFlagDefinition[C flagcontext.Context, T any](featureKey string, defaultValue T) FlagDefinition[C, T] {
	return FlagDefinition[C, T]{
		FeatureKey:   featureKey,
		DefaultValue: defaultValue,
		Active:       true,
		Salt:         DefaultSalt,
	}
}

// WithRules returns a copy of d carrying the given rules, sorted by
// descending specificity (Note lexicographic as the tie-break).
func (d FlagDefinition[C, T]) WithRules(list ...rules.Rule[C, T]) FlagDefinition[C, T] {
	sorted := append([]rules.Rule[C, T](nil), list...)
	rules.SortBySpecificity(sorted)
	d.Rules = sorted
	return d
}

// Install erases a FlagDefinition built against feature f into its
// type-erased Definition form, ready to be placed into a Snapshot.
// Install re-sorts Rules defensively, so it is safe to call even if the
// caller constructed FlagDefinition.Rules by hand rather than via
// WithRules.
func Install[C flagcontext.Context, T any](f feature.Feature[T, C], d FlagDefinition[C, T]) *Definition {
	sorted := append([]rules.Rule[C, T](nil), d.Rules...)
	rules.SortBySpecificity(sorted)

	erasedRules := make([]Rule, len(sorted))
	for i, r := range sorted {
		erasedRules[i] = Rule{
			Value:    f.Encode(r.Value),
			Criteria: r.Criteria,
			Note:     r.Note,
		}
	}

	salt := d.Salt
	if salt == "" {
		salt = DefaultSalt
	}

	return &Definition{
		FeatureKey:   d.FeatureKey,
		Kind:         f.Kind(),
		DefaultValue: f.Encode(d.DefaultValue),
		Active:       d.Active,
		Salt:         salt,
		Rules:        erasedRules,
	}
}
