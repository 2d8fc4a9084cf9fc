// Package flagcontext defines the minimal per-evaluation context surface
// the rule engine requires. It is intentionally small: locale, platform,
// app version, stable id, and an open axis accessor for dimensional
// targeting. Application code is free to carry additional domain fields
// by embedding Base (or implementing Context directly) in a richer type.
package flagcontext

import "github.com/flagcore/flagcore/identifier"

// Context is the base trait the evaluation engine requires of every
// per-call context value. Implementations are constructed per
// evaluation call (or per request) and are never retained by the engine.
type Context interface {
	Locale() identifier.LocaleTag
	Platform() identifier.PlatformTag
	AppVersion() identifier.Version
	StableID() identifier.StableID

	// Axis returns the context's value for a named dimensional
	// attribute, and whether that attribute was set at all. An absent
	// axis value always causes axis criteria referencing it to skip
	// the rule (see rules.Criteria.Axes).
	Axis(key string) (string, bool)
}

// Base is the idiomatic builder-style realization of Context: a plain
// struct with the four standard dimensions plus an open Axes map for
// everything else. Application code MAY embed Base in a domain-specific
// context type to add further fields without reimplementing Context.
type Base struct {
	LocaleValue     identifier.LocaleTag
	PlatformValue   identifier.PlatformTag
	AppVersionValue identifier.Version
	StableIDValue   identifier.StableID
	Axes            map[string]string
}

var _ Context = Base{}

func (b Base) Locale() identifier.LocaleTag       { return b.LocaleValue }
func (b Base) Platform() identifier.PlatformTag   { return b.PlatformValue }
func (b Base) AppVersion() identifier.Version     { return b.AppVersionValue }
func (b Base) StableID() identifier.StableID      { return b.StableIDValue }

func (b Base) Axis(key string) (string, bool) {
	if b.Axes == nil {
		return "", false
	}
	v, ok := b.Axes[key]
	return v, ok
}
