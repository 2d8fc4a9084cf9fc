// Package rules models the per-rule targeting criteria, their
// specificity score, and the opaque extension predicate hook. Criteria
// are immutable once constructed: nothing in this package mutates a
// Criteria value after NewCriteria returns it.
package rules

import (
	"github.com/flagcore/flagcore/flagcontext"
	"github.com/flagcore/flagcore/identifier"
)

// ExtensionPredicate is an opaque, caller-supplied context predicate with
// an associated specificity contribution. It is the realization of
// spec's "Option<ContextPredicate<C>>" — type-erased to
// func(flagcontext.Context) bool so it can live inside a Criteria value
// regardless of the concrete context type it was built against; use
// NewExtensionPredicate to build one with compile-time C safety.
type ExtensionPredicate struct {
	Match       func(ctx flagcontext.Context) bool
	Specificity uint32
}

// NewExtensionPredicate adapts a typed predicate fn(C) bool into the
// erased ExtensionPredicate form. If invoked against a context whose
// dynamic type is not C (a type that merely embeds C does not count),
// Match reports false rather than panicking —
// a predicate built for the wrong context type is simply never eligible,
// matching "does not match" semantics rather than a construction error.
func NewExtensionPredicate[C flagcontext.Context](specificity uint32, fn func(C) bool) *ExtensionPredicate {
	return &ExtensionPredicate{
		Specificity: specificity,
		Match: func(ctx flagcontext.Context) bool {
			typed, ok := ctx.(C)
			if !ok {
				return false
			}
			return fn(typed)
		},
	}
}

// Criteria is the immutable bag of targeting conditions a Rule evaluates
// against a Context. An empty Platforms, Locales, or per-axis value set
// matches every value for that dimension (spec §4.2/§8 "empty-set-means-all").
type Criteria struct {
	Platforms    map[identifier.PlatformTag]struct{}
	Locales      map[identifier.LocaleTag]struct{}
	VersionRange identifier.VersionRange
	Axes         map[string]map[string]struct{}
	Allowlist    map[identifier.StableID]struct{}
	RampUp       identifier.RampUp
	Extension    *ExtensionPredicate
}

// NewCriteria returns the zero-value Criteria: no platform/locale/axis
// restriction, an unbounded version range, an empty allowlist, full
// ramp-up, and no extension predicate. Narrow it by direct field
// assignment before the Criteria is embedded in a Rule.
func NewCriteria() Criteria {
	return Criteria{
		VersionRange: identifier.Unbounded(),
		RampUp:       identifier.FullRampUp,
	}
}

// Specificity sums the criterion groups this Criteria constrains: 1 for
// a non-empty Platforms set, 1 for a non-empty Locales set, 1 if
// VersionRange is not Unbounded, 1 per non-empty Axes entry, plus the
// extension predicate's own Specificity if present. Allowlist and
// RampUp never contribute.
func (c Criteria) Specificity() uint32 {
	var total uint32
	if len(c.Platforms) > 0 {
		total++
	}
	if len(c.Locales) > 0 {
		total++
	}
	if c.VersionRange.Kind != identifier.RangeUnbounded && c.VersionRange.Kind != "" {
		total++
	}
	for _, values := range c.Axes {
		if len(values) > 0 {
			total++
		}
	}
	if c.Extension != nil {
		total += c.Extension.Specificity
	}
	return total
}

// MatchesDimensions reports whether ctx satisfies every dimensional
// criterion (platforms, locales, version range, axes) — everything
// except the allowlist/ramp-up gate and the extension predicate, which
// the evaluation engine applies separately since they have their own
// fault-isolation and bucketing semantics.
func (c Criteria) MatchesDimensions(ctx flagcontext.Context) bool {
	if len(c.Platforms) > 0 {
		if _, ok := c.Platforms[ctx.Platform()]; !ok {
			return false
		}
	}
	if len(c.Locales) > 0 {
		if _, ok := c.Locales[ctx.Locale()]; !ok {
			return false
		}
	}
	if !c.VersionRange.Contains(ctx.AppVersion()) {
		return false
	}
	for axisKey, allowed := range c.Axes {
		if len(allowed) == 0 {
			continue
		}
		value, ok := ctx.Axis(axisKey)
		if !ok {
			return false
		}
		if _, ok := allowed[value]; !ok {
			return false
		}
	}
	return true
}

// InAllowlist reports whether id bypasses the ramp-up gate.
func (c Criteria) InAllowlist(id identifier.StableID) bool {
	if len(c.Allowlist) == 0 {
		return false
	}
	_, ok := c.Allowlist[id]
	return ok
}
