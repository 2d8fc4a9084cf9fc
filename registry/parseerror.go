package registry

import (
	"fmt"

	"github.com/flagcore/flagcore/flagvalue"
)

// ParseErrorKind discriminates the categories of ParseError, mirroring
// spec §4.5's closed ParseError union.
type ParseErrorKind string

const (
	KindInvalidJSON     ParseErrorKind = "InvalidJson"
	KindInvalidSnapshot ParseErrorKind = "InvalidSnapshot"
	KindFeatureNotFound ParseErrorKind = "FeatureNotFound"
	KindInvalidVersion  ParseErrorKind = "InvalidVersion"
	KindInvalidRange    ParseErrorKind = "InvalidRange"
	KindInvalidRampUp   ParseErrorKind = "InvalidRampUp"
	KindTypeMismatch    ParseErrorKind = "TypeMismatch"
)

// ParseError is the structured failure returned in place of a Snapshot
// when FromJSON (or CheckKinds) rejects its input. A *ParseError is
// never produced alongside a non-nil *Snapshot: FromJSON returns exactly
// one of (snapshot, nil) or (nil, error), the Go rendering of spec's
// ParseResult<Snapshot> = Success(Snapshot) | Failure(ParseError).
type ParseError struct {
	Kind    ParseErrorKind
	Message string
	Path    string // JSON path of the offending leaf, when applicable

	FeatureKey  string // set for KindFeatureNotFound
	VersionText string // set for KindInvalidVersion
	RangeMin    string // set for KindInvalidRange
	RangeMax    string // set for KindInvalidRange
	RampUpValue float64 // set for KindInvalidRampUp

	ExpectedKind string // set for KindTypeMismatch
	ActualKind   string // set for KindTypeMismatch
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func invalidJSON(message string) *ParseError {
	return &ParseError{Kind: KindInvalidJSON, Message: message}
}

func invalidSnapshot(path, message string) *ParseError {
	return &ParseError{Kind: KindInvalidSnapshot, Message: message, Path: path}
}

func invalidRange(path, min, max string) *ParseError {
	return &ParseError{
		Kind:     KindInvalidRange,
		Message:  fmt.Sprintf("min %q must not exceed max %q", min, max),
		Path:     path,
		RangeMin: min,
		RangeMax: max,
	}
}

func invalidVersion(path, text, cause string) *ParseError {
	return &ParseError{
		Kind:        KindInvalidVersion,
		Message:     cause,
		Path:        path,
		VersionText: text,
	}
}

func invalidRampUp(path string, value float64) *ParseError {
	return &ParseError{
		Kind:        KindInvalidRampUp,
		Message:     "ramp-up must be within [0, 100]",
		Path:        path,
		RampUpValue: value,
	}
}

func featureNotFound(path, key string) *ParseError {
	return &ParseError{
		Kind:       KindFeatureNotFound,
		Message:    fmt.Sprintf("feature %q is not declared in the compile-time feature registry", key),
		Path:       path,
		FeatureKey: key,
	}
}

func typeMismatch(path, key, expected, actual string) *ParseError {
	return &ParseError{
		Kind:         KindTypeMismatch,
		Message:      fmt.Sprintf("feature %q declared kind %s but snapshot carries %s", key, expected, actual),
		Path:         path,
		FeatureKey:   key,
		ExpectedKind: expected,
		ActualKind:   actual,
	}
}

// fromDecodeError adapts a *flagvalue.DecodeError into a ParseError,
// preserving its path. Every flagvalue decode failure is a schema
// violation from the snapshot's point of view.
func fromDecodeError(err error) *ParseError {
	if de, ok := err.(*flagvalue.DecodeError); ok {
		return invalidSnapshot(de.Path, de.Message)
	}
	return invalidSnapshot("", err.Error())
}
