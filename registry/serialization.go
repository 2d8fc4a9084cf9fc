package registry

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/flagcore/flagcore/flagvalue"
	"github.com/flagcore/flagcore/identifier"
	"github.com/flagcore/flagcore/rules"
)

// maxFeatureKeyLength and keyPattern bound a wire feature key to the
// charset and length every host application in this corpus already
// enforces at its admin boundary; the core enforces it too so a
// snapshot built by any caller round-trips identically everywhere.
const maxFeatureKeyLength = 128

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ---- decode: FromJSON ------------------------------------------------

type wireSnapshot struct {
	Flags []json.RawMessage `json:"flags"`
}

type wireFlagDefinition struct {
	Key          string            `json:"key"`
	DefaultValue json.RawMessage   `json:"defaultValue"`
	Salt         *string           `json:"salt,omitempty"`
	IsActive     *bool             `json:"isActive,omitempty"`
	Rules        []json.RawMessage `json:"rules,omitempty"`
}

type wireRule struct {
	Value        json.RawMessage     `json:"value"`
	RampUp       *float64            `json:"rampUp,omitempty"`
	Note         string              `json:"note,omitempty"`
	Platforms    []string            `json:"platforms,omitempty"`
	Locales      []string            `json:"locales,omitempty"`
	VersionRange json.RawMessage     `json:"versionRange,omitempty"`
	Axes         map[string][]string `json:"axes,omitempty"`
	Allowlist    []string            `json:"allowlist,omitempty"`
}

type wireVersionRange struct {
	Type string  `json:"type"`
	Min  *string `json:"min,omitempty"`
	Max  *string `json:"max,omitempty"`
}

// FromJSON parses data into a Snapshot. It never panics and never
// returns a partially-built Snapshot: on any violation it returns
// (nil, *ParseError) describing exactly one offending leaf (spec §4.5,
// "total: every input maps to either a Snapshot or a single ParseError").
func FromJSON(data []byte) (*Snapshot, *ParseError) {
	var top wireSnapshot
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, invalidJSON(err.Error())
	}

	defs := make([]*Definition, 0, len(top.Flags))
	for i, raw := range top.Flags {
		path := fmt.Sprintf("flags[%d]", i)
		def, perr := decodeDefinition(raw, path)
		if perr != nil {
			return nil, perr
		}
		defs = append(defs, def)
	}
	return NewSnapshot(defs...), nil
}

func decodeDefinition(raw json.RawMessage, path string) (*Definition, *ParseError) {
	var wire wireFlagDefinition
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, invalidSnapshot(path, err.Error())
	}
	if wire.Key == "" {
		return nil, invalidSnapshot(path+".key", "key must not be empty")
	}
	if len(wire.Key) > maxFeatureKeyLength {
		return nil, invalidSnapshot(path+".key", fmt.Sprintf("key must not exceed %d characters", maxFeatureKeyLength))
	}
	if !keyPattern.MatchString(wire.Key) {
		return nil, invalidSnapshot(path+".key", "key must contain only alphanumerics, underscores, hyphens, and dots")
	}
	if len(wire.DefaultValue) == 0 {
		return nil, invalidSnapshot(path+".defaultValue", "defaultValue is required")
	}

	defaultValue, err := flagvalue.Decode(wire.DefaultValue, path+".defaultValue")
	if err != nil {
		return nil, fromDecodeError(err)
	}

	salt := DefaultSalt
	if wire.Salt != nil && *wire.Salt != "" {
		salt = *wire.Salt
	}
	active := true
	if wire.IsActive != nil {
		active = *wire.IsActive
	}

	decodedRules := make([]Rule, 0, len(wire.Rules))
	for i, rawRule := range wire.Rules {
		rulePath := fmt.Sprintf("%s.rules[%d]", path, i)
		r, perr := decodeRule(rawRule, rulePath)
		if perr != nil {
			return nil, perr
		}
		decodedRules = append(decodedRules, *r)
	}
	sortErasedRules(decodedRules)

	return &Definition{
		FeatureKey:   wire.Key,
		Kind:         defaultValue.Kind(),
		DefaultValue: defaultValue,
		Active:       active,
		Salt:         salt,
		Rules:        decodedRules,
	}, nil
}

func decodeRule(raw json.RawMessage, path string) (*Rule, *ParseError) {
	var wire wireRule
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, invalidSnapshot(path, err.Error())
	}
	if len(wire.Value) == 0 {
		return nil, invalidSnapshot(path+".value", "value is required")
	}

	value, err := flagvalue.Decode(wire.Value, path+".value")
	if err != nil {
		return nil, fromDecodeError(err)
	}

	rampUp := identifier.FullRampUp
	if wire.RampUp != nil {
		r, err := identifier.NewRampUp(*wire.RampUp)
		if err != nil {
			return nil, invalidRampUp(path+".rampUp", *wire.RampUp)
		}
		rampUp = r
	}

	versionRange := identifier.Unbounded()
	if len(wire.VersionRange) > 0 {
		vr, perr := decodeVersionRange(wire.VersionRange, path+".versionRange")
		if perr != nil {
			return nil, perr
		}
		versionRange = vr
	}

	axes, perr := decodeAxes(wire.Axes)
	if perr != nil {
		return nil, perr
	}
	allowlist, perr := decodeStableIDSet(wire.Allowlist, path+".allowlist")
	if perr != nil {
		return nil, perr
	}

	return &Rule{
		Value: value,
		Criteria: rules.Criteria{
			Platforms:    toPlatformSet(wire.Platforms),
			Locales:      toLocaleSet(wire.Locales),
			VersionRange: versionRange,
			Axes:         axes,
			Allowlist:    allowlist,
			RampUp:       rampUp,
		},
		Note: wire.Note,
	}, nil
}

func decodeVersionRange(raw json.RawMessage, path string) (identifier.VersionRange, *ParseError) {
	var wire wireVersionRange
	if err := json.Unmarshal(raw, &wire); err != nil {
		return identifier.VersionRange{}, invalidSnapshot(path, err.Error())
	}

	switch wire.Type {
	case "", string(identifier.RangeUnbounded):
		return identifier.Unbounded(), nil

	case string(identifier.RangeLeftBound):
		if wire.Min == nil {
			return identifier.VersionRange{}, invalidSnapshot(path+".min", "LeftBound requires min")
		}
		min, err := identifier.ParseVersion(*wire.Min)
		if err != nil {
			return identifier.VersionRange{}, invalidVersion(path+".min", *wire.Min, err.Error())
		}
		return identifier.NewLeftBound(min), nil

	case string(identifier.RangeRightBound):
		if wire.Max == nil {
			return identifier.VersionRange{}, invalidSnapshot(path+".max", "RightBound requires max")
		}
		max, err := identifier.ParseVersion(*wire.Max)
		if err != nil {
			return identifier.VersionRange{}, invalidVersion(path+".max", *wire.Max, err.Error())
		}
		return identifier.NewRightBound(max), nil

	case string(identifier.RangeFullyBound):
		if wire.Min == nil || wire.Max == nil {
			return identifier.VersionRange{}, invalidSnapshot(path, "FullyBound requires min and max")
		}
		min, err := identifier.ParseVersion(*wire.Min)
		if err != nil {
			return identifier.VersionRange{}, invalidVersion(path+".min", *wire.Min, err.Error())
		}
		max, err := identifier.ParseVersion(*wire.Max)
		if err != nil {
			return identifier.VersionRange{}, invalidVersion(path+".max", *wire.Max, err.Error())
		}
		vr, err := identifier.NewFullyBound(min, max)
		if err != nil {
			return identifier.VersionRange{}, invalidRange(path, *wire.Min, *wire.Max)
		}
		return vr, nil

	default:
		return identifier.VersionRange{}, invalidSnapshot(path+".type", fmt.Sprintf("unknown version range type %q", wire.Type))
	}
}

func decodeAxes(raw map[string][]string) (map[string]map[string]struct{}, *ParseError) {
	if len(raw) == 0 {
		return nil, nil
	}
	axes := make(map[string]map[string]struct{}, len(raw))
	for key, values := range raw {
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		axes[key] = set
	}
	return axes, nil
}

func decodeStableIDSet(raw []string, path string) (map[identifier.StableID]struct{}, *ParseError) {
	if len(raw) == 0 {
		return nil, nil
	}
	set := make(map[identifier.StableID]struct{}, len(raw))
	for i, entry := range raw {
		id, err := identifier.NewStableID(entry)
		if err != nil {
			return nil, invalidSnapshot(fmt.Sprintf("%s[%d]", path, i), err.Error())
		}
		set[id] = struct{}{}
	}
	return set, nil
}

func toPlatformSet(raw []string) map[identifier.PlatformTag]struct{} {
	if len(raw) == 0 {
		return nil
	}
	set := make(map[identifier.PlatformTag]struct{}, len(raw))
	for _, p := range raw {
		set[identifier.PlatformTag(p)] = struct{}{}
	}
	return set
}

func toLocaleSet(raw []string) map[identifier.LocaleTag]struct{} {
	if len(raw) == 0 {
		return nil
	}
	set := make(map[identifier.LocaleTag]struct{}, len(raw))
	for _, l := range raw {
		set[identifier.LocaleTag(l)] = struct{}{}
	}
	return set
}

// sortErasedRules mirrors rules.SortBySpecificity for the erased Rule
// type, since Rule[C,T]'s generic sort cannot be reused once rules have
// already been stripped of their context type parameter.
func sortErasedRules(list []Rule) {
	sort.SliceStable(list, func(i, j int) bool {
		si, sj := list[i].Criteria.Specificity(), list[j].Criteria.Specificity()
		if si != sj {
			return si > sj
		}
		return list[i].Note < list[j].Note
	})
}

// ---- encode: ToJSON ----------------------------------------------------

type wireFlagDefinitionOut struct {
	Key          string        `json:"key"`
	DefaultValue flagvalue.Value `json:"defaultValue"`
	Salt         string        `json:"salt"`
	IsActive     bool          `json:"isActive"`
	Rules        []wireRuleOut `json:"rules,omitempty"`
}

type wireRuleOut struct {
	Value        flagvalue.Value      `json:"value"`
	RampUp       float64              `json:"rampUp"`
	Note         string               `json:"note,omitempty"`
	Platforms    []string             `json:"platforms,omitempty"`
	Locales      []string             `json:"locales,omitempty"`
	VersionRange wireVersionRangeOut  `json:"versionRange"`
	Axes         map[string][]string  `json:"axes,omitempty"`
	Allowlist    []string             `json:"allowlist,omitempty"`
}

type wireVersionRangeOut struct {
	Type string `json:"type"`
	Min  string `json:"min,omitempty"`
	Max  string `json:"max,omitempty"`
}

// ToJSON serializes s in the same wire schema FromJSON consumes.
// Marshaling a Snapshot is infallible: every in-memory value was itself
// produced by a successful Install or FromJSON call. Flag keys are
// emitted in sorted order so two equal snapshots always serialize to
// byte-identical output.
func (s *Snapshot) ToJSON() []byte {
	keys := s.Keys()
	sort.Strings(keys)

	wire := wireSnapshotOut{Flags: make([]wireFlagDefinitionOut, 0, len(keys))}
	for _, key := range keys {
		def, _ := s.Get(key)
		wire.Flags = append(wire.Flags, defToWire(def))
	}

	data, err := json.Marshal(wire)
	if err != nil {
		// Unreachable: every field type here has an infallible
		// MarshalJSON or is a plain builtin.
		panic(fmt.Sprintf("registry: infallible snapshot marshal failed: %v", err))
	}
	return data
}

type wireSnapshotOut struct {
	Flags []wireFlagDefinitionOut `json:"flags"`
}

func defToWire(def *Definition) wireFlagDefinitionOut {
	out := wireFlagDefinitionOut{
		Key:          def.FeatureKey,
		DefaultValue: def.DefaultValue,
		Salt:         def.Salt,
		IsActive:     def.Active,
		Rules:        make([]wireRuleOut, len(def.Rules)),
	}
	for i, r := range def.Rules {
		out.Rules[i] = ruleToWire(r)
	}
	return out
}

func ruleToWire(r Rule) wireRuleOut {
	return wireRuleOut{
		Value:        r.Value,
		RampUp:       r.Criteria.RampUp.Float64(),
		Note:         r.Note,
		Platforms:    platformsToStrings(r.Criteria.Platforms),
		Locales:      localesToStrings(r.Criteria.Locales),
		VersionRange: versionRangeToWire(r.Criteria.VersionRange),
		Axes:         axesToWire(r.Criteria.Axes),
		Allowlist:    allowlistToStrings(r.Criteria.Allowlist),
	}
}

func versionRangeToWire(vr identifier.VersionRange) wireVersionRangeOut {
	out := wireVersionRangeOut{Type: string(vr.Kind)}
	if out.Type == "" {
		out.Type = string(identifier.RangeUnbounded)
	}
	switch vr.Kind {
	case identifier.RangeLeftBound:
		out.Min = vr.Min.String()
	case identifier.RangeRightBound:
		out.Max = vr.Max.String()
	case identifier.RangeFullyBound:
		out.Min = vr.Min.String()
		out.Max = vr.Max.String()
	}
	return out
}

func platformsToStrings(set map[identifier.PlatformTag]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

func localesToStrings(set map[identifier.LocaleTag]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, string(l))
	}
	sort.Strings(out)
	return out
}

func axesToWire(axes map[string]map[string]struct{}) map[string][]string {
	if len(axes) == 0 {
		return nil
	}
	out := make(map[string][]string, len(axes))
	for key, values := range axes {
		list := make([]string, 0, len(values))
		for v := range values {
			list = append(list, v)
		}
		sort.Strings(list)
		out[key] = list
	}
	return out
}

func allowlistToStrings(set map[identifier.StableID]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id.String())
	}
	sort.Strings(out)
	return out
}

// ---- patch wire schema ---------------------------------------------------

type wirePatch struct {
	Flags      []json.RawMessage `json:"flags"`
	RemoveKeys []string          `json:"removeKeys"`
}

// PatchFromJSON parses data in the Patch JSON schema — `{"flags":
// [...], "removeKeys": [...]}` — distinct from the Snapshot schema
// FromJSON consumes: each entry under "flags" is a full FlagDefinition
// that will replace (or add) the definition for its key, never a
// partial update.
func PatchFromJSON(data []byte) (*Patch, *ParseError) {
	var wire wirePatch
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, invalidJSON(err.Error())
	}

	upserts := make([]*Definition, 0, len(wire.Flags))
	for i, raw := range wire.Flags {
		path := fmt.Sprintf("flags[%d]", i)
		def, perr := decodeDefinition(raw, path)
		if perr != nil {
			return nil, perr
		}
		upserts = append(upserts, def)
	}

	return &Patch{Upserts: upserts, Removes: wire.RemoveKeys}, nil
}

// ToJSON serializes p in the Patch wire schema.
func (p Patch) ToJSON() []byte {
	wire := wirePatch{RemoveKeys: p.Removes}
	if wire.RemoveKeys == nil {
		wire.RemoveKeys = []string{}
	}
	wire.Flags = make([]json.RawMessage, len(p.Upserts))
	for i, def := range p.Upserts {
		raw, err := json.Marshal(defToWire(def))
		if err != nil {
			panic(fmt.Sprintf("registry: infallible patch marshal failed: %v", err))
		}
		wire.Flags[i] = raw
	}
	data, err := json.Marshal(wire)
	if err != nil {
		panic(fmt.Sprintf("registry: infallible patch marshal failed: %v", err))
	}
	return data
}

// ---- optional compile-time registry cross-check -------------------------

// KnownFeature describes a feature key's declared kind, for CheckKinds.
type KnownFeature struct {
	Key  string
	Kind flagvalue.Kind
}

// CheckKinds validates s against a compile-time feature registry: every
// key in known must be present in s (FeatureNotFound otherwise) and
// every definition's Kind must match its declared kind (TypeMismatch
// otherwise). FromJSON deliberately has no registry parameter — its
// signature mirrors the wire schema alone — so this is an optional,
// separate step callers run after a successful FromJSON when they want
// the stronger guarantee (spec §4.5's "compile-time feature registry"
// cross-check).
func (s *Snapshot) CheckKinds(known []KnownFeature) *ParseError {
	for _, k := range known {
		def, ok := s.Get(k.Key)
		if !ok {
			return featureNotFound(fmt.Sprintf("flags[%q]", k.Key), k.Key)
		}
		if def.Kind != k.Kind {
			return typeMismatch(fmt.Sprintf("flags[%q].defaultValue", k.Key), k.Key, string(k.Kind), string(def.Kind))
		}
	}
	return nil
}
