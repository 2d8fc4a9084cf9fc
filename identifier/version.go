package identifier

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is a semantic (major, minor, patch) triple with a total,
// lexicographic ordering.
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// ParseVersion parses the canonical "MAJOR.MINOR.PATCH" form. Parsing is
// delegated to Masterminds/semver, which accepts a superset of the
// canonical form (leading "v", pre-release/build metadata), but all three
// numeric components must be present ("1.2" is rejected); only the
// numeric (major, minor, patch) triple is retained, since spec-level
// version ranges are defined purely over that triple.
func ParseVersion(text string) (Version, error) {
	if strings.TrimSpace(text) == "" {
		return Version{}, fmt.Errorf("identifier: invalid version %q: want MAJOR.MINOR.PATCH", text)
	}

	core := strings.TrimPrefix(strings.TrimSpace(text), "v")
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	if strings.Count(core, ".") != 2 {
		return Version{}, fmt.Errorf("identifier: invalid version %q: want MAJOR.MINOR.PATCH", text)
	}

	parsed, err := semver.NewVersion(text)
	if err != nil {
		return Version{}, fmt.Errorf("identifier: invalid version %q: %w", text, err)
	}

	return Version{
		Major: uint32(parsed.Major()),
		Minor: uint32(parsed.Minor()),
		Patch: uint32(parsed.Patch()),
	}, nil
}

// String renders the canonical "MAJOR.MINOR.PATCH" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater
// than other, ordering lexicographically on (Major, Minor, Patch).
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return cmpUint32(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return cmpUint32(v.Minor, other.Minor)
	}
	return cmpUint32(v.Patch, other.Patch)
}

func cmpUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// LessThan reports whether v orders strictly before other.
func (v Version) LessThan(other Version) bool { return v.Compare(other) < 0 }

// RangeKind discriminates the four VersionRange variants.
type RangeKind string

const (
	RangeUnbounded RangeKind = "Unbounded"
	RangeLeftBound RangeKind = "LeftBound"
	RangeRightBound RangeKind = "RightBound"
	RangeFullyBound RangeKind = "FullyBound"
)

// VersionRange is a tagged union over the four bound shapes a targeting
// rule may apply to an app version. The zero value is Unbounded (matches
// every version), which is also the wire default.
type VersionRange struct {
	Kind RangeKind
	Min  Version
	Max  Version
}

// Unbounded returns the range that matches every version.
func Unbounded() VersionRange { return VersionRange{Kind: RangeUnbounded} }

// NewLeftBound returns the range min <= v.
func NewLeftBound(min Version) VersionRange {
	return VersionRange{Kind: RangeLeftBound, Min: min}
}

// NewRightBound returns the range v <= max.
func NewRightBound(max Version) VersionRange {
	return VersionRange{Kind: RangeRightBound, Max: max}
}

// NewFullyBound returns the range min <= v <= max. Construction fails with
// ErrInvalidRange if min > max.
func NewFullyBound(min, max Version) (VersionRange, error) {
	if min.Compare(max) > 0 {
		return VersionRange{}, ErrInvalidRange
	}
	return VersionRange{Kind: RangeFullyBound, Min: min, Max: max}, nil
}

// Contains reports whether v satisfies this range's bound(s).
func (r VersionRange) Contains(v Version) bool {
	switch r.Kind {
	case RangeUnbounded, "":
		return true
	case RangeLeftBound:
		return r.Min.Compare(v) <= 0
	case RangeRightBound:
		return v.Compare(r.Max) <= 0
	case RangeFullyBound:
		return r.Min.Compare(v) <= 0 && v.Compare(r.Max) <= 0
	default:
		return false
	}
}
