// Package feature declares the compile-time feature identity: a key,
// declared value type, namespace, and default value. A Feature is
// constructed once (at program initialization or declaration time) and
// lives for the process lifetime; it never changes shape afterward. The
// mutable part — default value, active flag, rules — lives one level
// down, in a registry.FlagDefinition installed into a registry.Snapshot.
package feature

import (
	"errors"

	"github.com/flagcore/flagcore/flagcontext"
	"github.com/flagcore/flagcore/flagvalue"
)

// ErrEmptyKey is returned by the constructors when key is blank.
var ErrEmptyKey = errors.New("feature: key must not be empty")

// Feature is the (key, declared type T, namespace) triple plus a default
// value, generic over the context type C it may be evaluated against.
// The type parameter C never appears in the struct's fields — it exists
// purely so the compiler rejects evaluating this feature against the
// wrong context type; see evalengine.Evaluate.
type Feature[T any, C flagcontext.Context] struct {
	key       string
	namespace string
	def       T
	codec     Codec[T]
}

// Key returns the feature's identity within its namespace.
func (f Feature[T, C]) Key() string { return f.key }

// Namespace returns the namespace this feature's definition lives in.
func (f Feature[T, C]) Namespace() string { return f.namespace }

// Default returns the compile-time default value.
func (f Feature[T, C]) Default() T { return f.def }

// Kind classifies T against the closed wire discriminant set (spec §4.6).
func (f Feature[T, C]) Kind() flagvalue.Kind { return f.codec.Kind() }

// Encode converts a value of the declared type into its erased wire form.
func (f Feature[T, C]) Encode(v T) flagvalue.Value { return f.codec.Encode(v) }

// Decode recovers a value of the declared type from its erased wire
// form, failing with a TypeMismatch-flavored error if kinds disagree.
func (f Feature[T, C]) Decode(v flagvalue.Value) (T, error) { return f.codec.Decode(v) }

func newFeature[T any, C flagcontext.Context](namespace, key string, def T, codec Codec[T]) (Feature[T, C], error) {
	if key == "" {
		return Feature[T, C]{}, ErrEmptyKey
	}
	return Feature[T, C]{key: key, namespace: namespace, def: def, codec: codec}, nil
}

// NewBool declares a Boolean-kinded feature.
func NewBool[C flagcontext.Context](namespace, key string, def bool) (Feature[bool, C], error) {
	return newFeature[bool, C](namespace, key, def, boolCodec{})
}

// NewString declares a String-kinded feature.
func NewString[C flagcontext.Context](namespace, key string, def string) (Feature[string, C], error) {
	return newFeature[string, C](namespace, key, def, stringCodec{})
}

// NewInt64 declares an Int64-kinded feature.
func NewInt64[C flagcontext.Context](namespace, key string, def int64) (Feature[int64, C], error) {
	return newFeature[int64, C](namespace, key, def, int64Codec{})
}

// NewFloat64 declares a Float64-kinded feature.
func NewFloat64[C flagcontext.Context](namespace, key string, def float64) (Feature[float64, C], error) {
	return newFeature[float64, C](namespace, key, def, float64Codec{})
}

// NewWithCodec declares a feature of any declared type T, given an
// explicit Codec. This is the path Enum(variant name, enum type id) and
// Data/Object features take: the caller supplies a Codec[T] that maps T
// to/from an ENUM or OBJECT flagvalue.Value.
func NewWithCodec[T any, C flagcontext.Context](namespace, key string, def T, codec Codec[T]) (Feature[T, C], error) {
	if codec == nil {
		return Feature[T, C]{}, errors.New("feature: codec must not be nil")
	}
	return newFeature[T, C](namespace, key, def, codec)
}
