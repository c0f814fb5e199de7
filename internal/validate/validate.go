// Package validate checks a plan for critical fields left empty.
//
// Validation is advisory. It writes warnings into the document's meta block
// and never refuses an edit or a save.
package validate

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/calvinalkan/gsmeac/internal/fieldpath"
	"github.com/calvinalkan/gsmeac/internal/plan"
)

type ruleKind int

const (
	nonEmptyText ruleKind = iota
	nonEmptyList
)

// Rule is one critical field check.
type Rule struct {
	Field   string
	Message string

	path fieldpath.Path
	kind ruleKind
}

func text(section, field, message string) Rule {
	return Rule{Field: field, Message: message, path: fieldpath.MustParse(section + "." + field), kind: nonEmptyText}
}

func list(section, field, message string) Rule {
	return Rule{Field: field, Message: message, path: fieldpath.MustParse(section + "." + field), kind: nonEmptyList}
}

// Sections lists the document sections validation covers, in rule order.
var Sections = []string{
	"ground",
	"situation",
	"season",
	"mission",
	"execution",
	"administration",
	"commandControl",
}

var rules = map[string][]Rule{
	"ground": {
		list("ground", "terrainTypes", "Select at least one terrain type"),
		text("ground", "trailType", "Select a trail type"),
	},
	"situation": {
		text("situation", "travelType", "Specify if traveling solo or in a group"),
		text("situation", "experienceLevel", "Select your experience level"),
	},
	"season": {
		text("season", "season", "Select the season for your trip"),
	},
	"mission": {
		text("mission", "statement", "Write a mission statement for your trip"),
	},
	"execution": {
		list("execution", "dailyPlan", "Add at least one day to your itinerary"),
	},
	"administration": nil,
	"commandControl": {
		text("commandControl", "homeContactName", "Provide a home contact name"),
		text("commandControl", "expectedCheckIn", "Set an expected check-in date"),
	},
}

// Rules returns the checks for section, in declaration order.
func Rules(section string) []Rule {
	return append([]Rule(nil), rules[section]...)
}

// ValidateSection returns a warning for every failed rule of section. An
// unknown section has no rules and therefore no warnings.
func ValidateSection(doc *plan.Plan, section string) []plan.Warning {
	warnings := []plan.Warning{}

	for _, r := range rules[section] {
		if !r.passes(doc) {
			warnings = append(warnings, plan.Warning{Field: r.Field, Message: r.Message})
		}
	}

	return warnings
}

// Run validates every section and replaces doc's validation warnings with
// the result, which it also returns.
func Run(doc *plan.Plan) map[string][]plan.Warning {
	out := make(map[string][]plan.Warning, len(Sections))
	for _, section := range Sections {
		out[section] = ValidateSection(doc, section)
	}

	doc.Meta.ValidationWarnings = out

	return out
}

func (r Rule) passes(doc *plan.Plan) bool {
	v, ok := fieldpath.Get(doc, r.path)
	if !ok || v == nil {
		return false
	}

	rv := reflect.ValueOf(v)

	switch r.kind {
	case nonEmptyText:
		return rv.Kind() == reflect.String && strings.TrimSpace(rv.String()) != ""
	case nonEmptyList:
		return rv.Kind() == reflect.Slice && rv.Len() > 0
	default:
		return false
	}
}

// SectionSummary is the validation state of one section.
type SectionSummary struct {
	WarningCount int
	Complete     bool
}

// Totals counts a set of warnings.
type Totals struct {
	TotalWarnings int
	Sections      map[string]SectionSummary
}

// Summary counts warnings per section.
func Summary(warnings map[string][]plan.Warning) Totals {
	s := Totals{Sections: make(map[string]SectionSummary, len(warnings))}

	for section, ws := range warnings {
		s.Sections[section] = SectionSummary{WarningCount: len(ws), Complete: len(ws) == 0}
		s.TotalWarnings += len(ws)
	}

	return s
}

// IsComplete reports whether section has no recorded warnings.
func IsComplete(warnings map[string][]plan.Warning, section string) bool {
	return len(warnings[section]) == 0
}

// IncompleteLabel describes a warning count the way the progress bar tooltip
// does.
func IncompleteLabel(n int) string {
	if n == 1 {
		return "1 incomplete field"
	}

	return strconv.Itoa(n) + " incomplete fields"
}
