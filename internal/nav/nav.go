// Package nav moves through the planner's fixed sequence of sections.
//
// A [Controller] tracks the current section, reports the side effects that
// entering a section calls for, and derives the progress bar. It is not safe
// for concurrent use; the planner session serializes access to it.
package nav

import (
	"errors"
	"fmt"
	"slices"

	"github.com/calvinalkan/gsmeac/internal/plan"
)

// Sections in wizard order.
const (
	Welcome        = "welcome"
	Ground         = "ground"
	Situation      = "situation"
	Mission        = "mission"
	Execution      = "execution"
	Administration = "administration"
	CommandControl = "commandcontrol"
	Review         = "review"
)

// ErrInvalidSection is returned for a section name outside [Sections].
var ErrInvalidSection = errors.New("invalid section")

var sections = []string{Welcome, Ground, Situation, Mission, Execution, Administration, CommandControl, Review}

// Sections returns the wizard order.
func Sections() []string {
	return slices.Clone(sections)
}

// Index returns the position of section in the wizard order, or -1.
func Index(section string) int {
	return slices.Index(sections, section)
}

// Valid reports whether section is part of the wizard.
func Valid(section string) bool {
	return Index(section) >= 0
}

// Resolve picks the section to open at startup: a valid deep link wins, then
// a valid stored section, then [Welcome].
func Resolve(deepLink, stored string) string {
	switch {
	case Valid(deepLink):
		return deepLink
	case Valid(stored):
		return stored
	default:
		return Welcome
	}
}

// Completed reports whether section counts as done while current is open:
// it lies strictly after [Welcome] and strictly before current.
func Completed(section, current string) bool {
	i := Index(section)

	return i > 0 && i < Index(current)
}

// OnEnter is a side effect the owner performs after a section is entered.
type OnEnter int

const (
	ShowWarnings OnEnter = iota
	PrepopulateItinerary
	SuggestFoodDays
	RefreshMissionSummary
	RefreshReport
)

func (e OnEnter) String() string {
	switch e {
	case ShowWarnings:
		return "show-warnings"
	case PrepopulateItinerary:
		return "prepopulate-itinerary"
	case SuggestFoodDays:
		return "suggest-food-days"
	case RefreshMissionSummary:
		return "refresh-mission-summary"
	case RefreshReport:
		return "refresh-report"
	default:
		return fmt.Sprintf("OnEnter(%d)", int(e))
	}
}

// Hooks lists the side effects of entering section.
func Hooks(section string) []OnEnter {
	hooks := []OnEnter{ShowWarnings}

	switch section {
	case Mission:
		hooks = append(hooks, RefreshMissionSummary)
	case Execution:
		hooks = append(hooks, PrepopulateItinerary)
	case Administration:
		hooks = append(hooks, SuggestFoodDays)
	case Review:
		hooks = append(hooks, RefreshReport)
	}

	return hooks
}

// PersistFunc records the current section in the document.
type PersistFunc func(section string)

// Controller is the navigation state machine.
type Controller struct {
	current string
	persist PersistFunc
}

// New starts at initial, falling back to [Welcome] when it is not a section.
// persist may be nil.
func New(initial string, persist PersistFunc) *Controller {
	if !Valid(initial) {
		initial = Welcome
	}

	return &Controller{current: initial, persist: persist}
}

// Current returns the open section.
func (c *Controller) Current() string {
	return c.current
}

// GoTo opens section and returns its entry hooks. An unknown section leaves
// the controller unchanged. Re-entering the open section is allowed and
// returns the hooks again.
func (c *Controller) GoTo(section string) ([]OnEnter, error) {
	if !Valid(section) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSection, section)
	}

	c.current = section

	if c.persist != nil {
		c.persist(section)
	}

	return Hooks(section), nil
}

// Next opens the following section. At [Review] it does nothing and reports
// false.
func (c *Controller) Next() ([]OnEnter, bool) {
	i := Index(c.current)
	if i < 0 || i >= len(sections)-1 {
		return nil, false
	}

	hooks, _ := c.GoTo(sections[i+1])

	return hooks, true
}

// Previous opens the preceding section. At [Welcome] it does nothing and
// reports false.
func (c *Controller) Previous() ([]OnEnter, bool) {
	i := Index(c.current)
	if i <= 0 {
		return nil, false
	}

	hooks, _ := c.GoTo(sections[i-1])

	return hooks, true
}

// Completed reports whether section is done relative to the open section.
func (c *Controller) Completed(section string) bool {
	return Completed(section, c.current)
}

// Step is one progress bar entry.
type Step struct {
	Section   string
	Label     string
	Active    bool
	Completed bool

	// Warnings counts validation warnings that belong to this step.
	Warnings int
}

var stepLabels = map[string]string{
	Ground:         "Ground",
	Situation:      "Situation",
	Mission:        "Mission",
	Execution:      "Execution",
	Administration: "Admin",
	CommandControl: "Command",
	Review:         "Review",
}

// StepFor maps a validation warnings key to its progress step. Season
// warnings show on the situation step.
func StepFor(warningsKey string) string {
	switch warningsKey {
	case "season":
		return Situation
	case "commandControl":
		return CommandControl
	default:
		return warningsKey
	}
}

// Steps builds the progress bar for every section after [Welcome].
func (c *Controller) Steps(warnings map[string][]plan.Warning) []Step {
	counts := map[string]int{}
	for key, ws := range warnings {
		counts[StepFor(key)] += len(ws)
	}

	steps := make([]Step, 0, len(sections)-1)
	for _, s := range sections[1:] {
		steps = append(steps, Step{
			Section:   s,
			Label:     stepLabels[s],
			Active:    s == c.current,
			Completed: s != c.current && c.Completed(s),
			Warnings:  counts[s],
		})
	}

	return steps
}

// ShowProgress reports whether the progress bar is visible; it is hidden on
// the welcome screen.
func (c *Controller) ShowProgress() bool {
	return c.current != Welcome
}
