// Package cli renders flagctl's output in table, JSON, or YAML form.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/flagcore/flagcore/evalengine"
	"github.com/flagcore/flagcore/flagvalue"
	"github.com/flagcore/flagcore/registry"
)

// OutputFormat selects how PrintSnapshot/PrintDefinition/PrintResult render.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// definitionRow is the flattened, display-friendly projection of a
// registry.Definition — the table/yaml/json shape flagctl prints,
// distinct from the wire schema registry.Snapshot.ToJSON emits.
type definitionRow struct {
	Key     string `json:"key" yaml:"key"`
	Kind    string `json:"kind" yaml:"kind"`
	Active  bool   `json:"active" yaml:"active"`
	Default string `json:"default" yaml:"default"`
	Salt    string `json:"salt" yaml:"salt"`
	Rules   int    `json:"rules" yaml:"rules"`
}

func toRow(def *registry.Definition) definitionRow {
	return definitionRow{
		Key:     def.FeatureKey,
		Kind:    string(def.Kind),
		Active:  def.Active,
		Default: renderValue(def.DefaultValue),
		Salt:    def.Salt,
		Rules:   len(def.Rules),
	}
}

// renderValue formats a flagvalue.Value for display; it is not the wire
// format (registry.ToJSON owns that).
func renderValue(v flagvalue.Value) string {
	switch v.Kind() {
	case flagvalue.KindBoolean:
		b, _ := v.AsBool()
		return fmt.Sprintf("%v", b)
	case flagvalue.KindString:
		s, _ := v.AsString()
		return s
	case flagvalue.KindInt:
		i, _ := v.AsInt()
		return fmt.Sprintf("%d", i)
	case flagvalue.KindDouble:
		d, _ := v.AsDouble()
		return fmt.Sprintf("%g", d)
	case flagvalue.KindEnum:
		enumType, variant, _ := v.AsEnum()
		return fmt.Sprintf("%s.%s", enumType, variant)
	case flagvalue.KindObject:
		fields, _ := v.AsObject()
		return fmt.Sprintf("{%d fields}", len(fields))
	default:
		return "<invalid>"
	}
}

// PrintSnapshot lists every definition a Snapshot holds, sorted by key.
func PrintSnapshot(snap *registry.Snapshot, format OutputFormat) error {
	keys := snap.Keys()
	sort.Strings(keys)

	rows := make([]definitionRow, 0, len(keys))
	for _, key := range keys {
		def, _ := snap.Get(key)
		rows = append(rows, toRow(def))
	}

	switch format {
	case FormatJSON:
		return printJSON(map[string][]definitionRow{"flags": rows})
	case FormatYAML:
		return printYAML(rows)
	case FormatTable:
		return printDefinitionTable(rows)
	default:
		return fmt.Errorf("cli: unsupported format %q", format)
	}
}

// PrintDefinition shows a single definition's detail, including its
// rules in their pre-sorted specificity order.
func PrintDefinition(def *registry.Definition, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(def)
	case FormatYAML:
		return printYAML(def)
	case FormatTable:
		if err := printDefinitionTable([]definitionRow{toRow(def)}); err != nil {
			return err
		}
		return printRulesTable(def)
	default:
		return fmt.Errorf("cli: unsupported format %q", format)
	}
}

// PrintResult shows an evalengine.RawResult — the outcome of `flagctl evaluate`.
func PrintResult(result evalengine.RawResult, format OutputFormat) error {
	type resultView struct {
		FeatureKey string `json:"featureKey" yaml:"featureKey"`
		Kind       string `json:"kind" yaml:"kind"`
		Value      string `json:"value,omitempty" yaml:"value,omitempty"`
		RuleIndex  *int   `json:"matchedRule,omitempty" yaml:"matchedRule,omitempty"`
		Cause      string `json:"cause,omitempty" yaml:"cause,omitempty"`
	}

	view := resultView{FeatureKey: result.FeatureKey, Kind: string(result.Kind)}
	if result.Kind == evalengine.Success {
		view.Value = renderValue(result.Value)
		if result.RuleIndex >= 0 {
			idx := result.RuleIndex
			view.RuleIndex = &idx
		}
	}
	if result.Cause != nil {
		view.Cause = result.Cause.Error()
	}

	switch format {
	case FormatJSON:
		return printJSON(view)
	case FormatYAML:
		return printYAML(view)
	case FormatTable:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Feature", "Kind", "Value", "Matched Rule", "Cause")
		matched := "-"
		if view.RuleIndex != nil {
			matched = fmt.Sprintf("%d", *view.RuleIndex)
		}
		table.Append(view.FeatureKey, view.Kind, view.Value, matched, view.Cause)
		return table.Render()
	default:
		return fmt.Errorf("cli: unsupported format %q", format)
	}
}

func printJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(data any) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printDefinitionTable(rows []definitionRow) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Kind", "Active", "Default", "Salt", "Rules")
	for _, row := range rows {
		table.Append(
			row.Key,
			row.Kind,
			fmt.Sprintf("%v", row.Active),
			row.Default,
			row.Salt,
			fmt.Sprintf("%d", row.Rules),
		)
	}
	return table.Render()
}

func printRulesTable(def *registry.Definition) error {
	if len(def.Rules) == 0 {
		return nil
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Note", "Specificity", "Ramp-Up", "Value")
	for i, rule := range def.Rules {
		note := rule.Note
		if note == "" {
			note = "-"
		}
		rampUp := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", rule.Criteria.RampUp.Float64()), "0"), ".")
		table.Append(
			fmt.Sprintf("%d", i),
			note,
			fmt.Sprintf("%d", rule.Criteria.Specificity()),
			rampUp+"%",
			renderValue(rule.Value),
		)
	}
	return table.Render()
}
