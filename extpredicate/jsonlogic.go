// Package extpredicate builds rules.ExtensionPredicate values from
// JSON Logic (jsonlogic.com) expressions, the targeting-rule language
// this module shares with its sibling projects. A predicate evaluates
// its expression against a flattened document built from a Context's
// standard dimensions plus any axis values the caller asks for.
package extpredicate

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/diegoholiveira/jsonlogic/v3"

	"github.com/flagcore/flagcore/flagcontext"
	"github.com/flagcore/flagcore/rules"
)

// ErrEmptyExpression is returned when an expression is empty or
// whitespace-only.
var ErrEmptyExpression = errors.New("extpredicate: expression must not be empty")

// ErrInvalidExpression is returned when an expression is not valid JSON
// or not valid JSON Logic.
var ErrInvalidExpression = errors.New("extpredicate: not valid JSON Logic")

// document builds the flattened map a JSON Logic expression evaluates
// against: the four standard context dimensions under lowerCamelCase
// keys, plus one entry per requested axis. Axis keys the context has no
// value for are simply omitted — JSON Logic treats a missing var as
// undefined (falsy), matching the predicate's own "absent means does
// not match" default.
func document(ctx flagcontext.Context, axisKeys []string) map[string]any {
	doc := map[string]any{
		"locale":     string(ctx.Locale()),
		"platform":   string(ctx.Platform()),
		"appVersion": ctx.AppVersion().String(),
		"stableId":   ctx.StableID().String(),
	}
	for _, key := range axisKeys {
		if v, ok := ctx.Axis(key); ok {
			doc[key] = v
		}
	}
	return doc
}

// Evaluate applies expression to ctx (flattened per document) and
// returns its JSON-Logic truthiness. An empty expression or one that is
// not valid JSON Logic is reported as an error rather than silently
// treated as non-matching.
func Evaluate(expression string, ctx flagcontext.Context, axisKeys []string) (bool, error) {
	if strings.TrimSpace(expression) == "" {
		return false, ErrEmptyExpression
	}

	data, err := json.Marshal(document(ctx, axisKeys))
	if err != nil {
		return false, err
	}

	var resultBuf bytes.Buffer
	if err := jsonlogic.Apply(strings.NewReader(expression), bytes.NewReader(data), &resultBuf); err != nil {
		return false, ErrInvalidExpression
	}

	var result any
	if err := json.Unmarshal(resultBuf.Bytes(), &result); err != nil {
		return false, err
	}
	return isTruthy(result), nil
}

// Validate reports whether expression is well-formed JSON Logic,
// without evaluating it against any real context.
func Validate(expression string) error {
	if strings.TrimSpace(expression) == "" {
		return ErrEmptyExpression
	}
	var rule any
	if err := json.Unmarshal([]byte(expression), &rule); err != nil {
		return ErrInvalidExpression
	}
	var resultBuf bytes.Buffer
	if err := jsonlogic.Apply(strings.NewReader(expression), strings.NewReader("{}"), &resultBuf); err != nil {
		return ErrInvalidExpression
	}
	return nil
}

// isTruthy follows JSON Logic's JavaScript-like truthiness rules.
func isTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// New builds a *rules.ExtensionPredicate from a JSON Logic expression,
// generic over the context type C it will be invoked against. axisKeys
// lists the axis attributes expression may reference via {"var": key} —
// Context has no way to enumerate its own axes, so the caller names the
// ones it cares about. Construction fails if expression is not valid
// JSON Logic; a runtime evaluation failure (unlikely once constructed)
// is treated as a non-match rather than surfaced, since
// rules.ExtensionPredicate.Match has no error return of its own.
func New[C flagcontext.Context](specificity uint32, expression string, axisKeys []string) (*rules.ExtensionPredicate, error) {
	if err := Validate(expression); err != nil {
		return nil, err
	}

	return rules.NewExtensionPredicate[C](specificity, func(ctx C) bool {
		matched, err := Evaluate(expression, ctx, axisKeys)
		if err != nil {
			return false
		}
		return matched
	}), nil
}
