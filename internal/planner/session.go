// Package planner is the editing session over one trip plan.
//
// A [Session] wires the document store, the validator and the navigation
// controller together. Every edit goes through it so the cascades between
// fields (day-hike dates, gear presets, check-in date) run in one place, and
// every edit schedules one debounced save and one debounced validation pass.
package planner

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/calvinalkan/gsmeac/internal/config"
	"github.com/calvinalkan/gsmeac/internal/debounce"
	"github.com/calvinalkan/gsmeac/internal/derive"
	"github.com/calvinalkan/gsmeac/internal/fieldpath"
	"github.com/calvinalkan/gsmeac/internal/kv"
	"github.com/calvinalkan/gsmeac/internal/logbook"
	"github.com/calvinalkan/gsmeac/internal/nav"
	"github.com/calvinalkan/gsmeac/internal/plan"
	"github.com/calvinalkan/gsmeac/internal/store"
	"github.com/calvinalkan/gsmeac/internal/validate"
)

var (
	ErrReadOnlyField = errors.New("field is managed by the planner")
	ErrNoDays        = errors.New("itinerary is empty")
	ErrDayHasData    = errors.New("last day has data (use force to remove it)")
)

// Options configures [Open].
type Options struct {
	Clock  debounce.Clock
	Logger logrus.FieldLogger

	// Presets overrides the built-in gear catalog.
	Presets plan.Presets

	// DeepLink names a section to open instead of the stored one.
	DeepLink string
}

// Session is the single owner of an open plan.
type Session struct {
	mu        sync.Mutex
	slots     kv.Store
	store     *store.Store
	validator *validate.Scheduler
	nav       *nav.Controller
	presets   plan.Presets
	clock     debounce.Clock
	log       logrus.FieldLogger
	closed    bool
}

// Open loads the plan held in slots, validates it and resolves the section
// to show. The session owns slots from here on and closes it in
// [Session.Close].
func Open(cfg config.Config, slots kv.Store, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = debounce.RealClock{}
	}

	if opts.Logger == nil {
		opts.Logger = logbook.Discard()
	}

	if opts.Presets == nil {
		opts.Presets = plan.DefaultPresets()
	}

	s := &Session{
		slots:   slots,
		presets: opts.Presets,
		clock:   opts.Clock,
		log:     opts.Logger,
	}

	s.store = store.Open(slots, store.Options{
		SaveDelay: cfg.SaveDelay(),
		Clock:     opts.Clock,
		Logger:    opts.Logger,
	})
	doc := s.store.Load()

	s.validator = validate.NewScheduler(cfg.ValidateDelay(), opts.Clock, s.validationPass)
	s.validator.Now()

	initial := nav.Resolve(opts.DeepLink, doc.Meta.CurrentSection)
	s.nav = nav.New(doc.Meta.CurrentSection, s.persistSection)

	if initial != s.nav.Current() {
		hooks, _ := s.nav.GoTo(initial)
		s.runHooks(hooks)
	}

	return s
}

// validationPass rewrites the document's warnings. When they changed and no
// save is already on its way, it schedules one so the warnings persist.
func (s *Session) validationPass() {
	changed := false

	_ = s.store.Mutate(func(doc *plan.Plan) error {
		before := doc.Meta.ValidationWarnings
		after := validate.Run(doc)
		changed = !maps.EqualFunc(before, after, slices.Equal[[]plan.Warning])

		return nil
	})

	if changed && !s.store.Pending() {
		_ = s.store.Save(false)
	}
}

func (s *Session) persistSection(section string) {
	_ = s.store.Mutate(func(doc *plan.Plan) error {
		doc.Meta.CurrentSection = section

		return nil
	})
	_ = s.store.Save(false)
}

// touch schedules the debounced save and validation that follow every edit.
func (s *Session) touch() {
	s.validator.Trigger()
	_ = s.store.Save(false)
}

// edit runs fn on the live document and schedules the follow-up work when
// fn succeeds. fn's error leaves nothing scheduled.
func (s *Session) edit(fn func(doc *plan.Plan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.Mutate(fn)
	if err != nil {
		return err
	}

	s.touch()

	return nil
}

// Set assigns value to the field at path and applies the dependent updates.
func (s *Session) Set(path string, value any) error {
	return s.setWith(path, func(doc *plan.Plan, p fieldpath.Path) error {
		return fieldpath.Set(doc, p, value)
	})
}

// SetText parses text for the field at path, assigns it and applies the
// dependent updates.
func (s *Session) SetText(path, text string) error {
	return s.setWith(path, func(doc *plan.Plan, p fieldpath.Path) error {
		return fieldpath.SetText(doc, p, text)
	})
}

func (s *Session) setWith(path string, set func(*plan.Plan, fieldpath.Path) error) error {
	p, err := fieldpath.Parse(path)
	if err != nil {
		return err
	}

	if p.Section() == "meta" {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, p)
	}

	return s.edit(func(doc *plan.Plan) error {
		if p.Equal(fieldpath.TripEndDate) && doc.Trip.TripType == plan.TripDayhike {
			return fmt.Errorf("%w: %s follows trip.startDate on a day hike", ErrReadOnlyField, p)
		}

		oldEnd := doc.Trip.EndDate

		err := set(doc, p)
		if err != nil {
			return err
		}

		s.cascade(doc, p, oldEnd)

		return nil
	})
}

// cascade applies the updates that follow a change to the field at p.
func (s *Session) cascade(doc *plan.Plan, p fieldpath.Path, oldEnd string) {
	dayhike := doc.Trip.TripType == plan.TripDayhike

	switch {
	case p.Equal(fieldpath.TripType) && dayhike:
		if doc.Trip.StartDate != "" {
			doc.Trip.EndDate = doc.Trip.StartDate
		}

		doc.Administration.Accommodation.NightsRequired = "0"
	case p.Section() == "trip" && dayhike:
		// Covers startDate edits and whole-trip writes.
		doc.Trip.EndDate = doc.Trip.StartDate
	}

	if p.Equal(fieldpath.TripType) || p.Equal(fieldpath.Season) {
		s.reloadGear(doc)
	}

	if strings.HasPrefix(p.String(), fieldpath.DailyPlan.String()) {
		plan.RenumberDays(doc.Execution.DailyPlan)
	}

	dateEdit := p.Equal(fieldpath.TripStartDate) || p.Equal(fieldpath.TripEndDate)
	if (dateEdit || doc.Trip.EndDate != oldEnd) && derive.ShouldReseedCheckIn(doc) {
		if checkIn, ok := derive.CheckInDefault(doc); ok {
			doc.CommandControl.ExpectedCheckIn = checkIn
		}
	}
}

func (s *Session) reloadGear(doc *plan.Plan) {
	preset, ok := s.presets.For(doc.Trip.TripType, doc.Season.Season)
	if !ok {
		return
	}

	doc.Administration.Gear.Checklist = plan.MergePreset(doc.Administration.Gear.Checklist, preset)
}

// Get returns the value at path.
func (s *Session) Get(path string) (any, error) {
	p, err := fieldpath.Parse(path)
	if err != nil {
		return nil, err
	}

	var (
		v  any
		ok bool
	)

	s.store.Read(func(doc *plan.Plan) {
		v, ok = fieldpath.Get(doc, p)
	})

	if !ok {
		return nil, fmt.Errorf("%w: %s", fieldpath.ErrIndexOutOfRange, p)
	}

	return v, nil
}

// AddMapLink appends a map link.
func (s *Session) AddMapLink(url, description string) error {
	return s.edit(func(doc *plan.Plan) error {
		doc.Ground.MapLinks = append(doc.Ground.MapLinks, plan.MapLink{URL: url, Description: description})

		return nil
	})
}

// RemoveMapLink deletes the map link at index i.
func (s *Session) RemoveMapLink(i int) error {
	return s.edit(func(doc *plan.Plan) error {
		if i < 0 || i >= len(doc.Ground.MapLinks) {
			return fmt.Errorf("%w: map link %d", fieldpath.ErrIndexOutOfRange, i)
		}

		doc.Ground.MapLinks = slices.Delete(doc.Ground.MapLinks, i, i+1)

		return nil
	})
}

// AddDay appends an itinerary day dated from the trip start, and returns it.
func (s *Session) AddDay() (plan.Day, error) {
	var day plan.Day

	err := s.edit(func(doc *plan.Plan) error {
		day = derive.NextDay(doc)
		doc.Execution.DailyPlan = append(doc.Execution.DailyPlan, day)

		return nil
	})

	return day, err
}

// RemoveLastDay drops the final itinerary day. A day holding data is only
// removed with force.
func (s *Session) RemoveLastDay(force bool) error {
	return s.edit(func(doc *plan.Plan) error {
		days := doc.Execution.DailyPlan
		if len(days) == 0 {
			return ErrNoDays
		}

		last := days[len(days)-1]
		if !force && derive.DayHasData(last) {
			return fmt.Errorf("%w: day %d", ErrDayHasData, last.Day)
		}

		doc.Execution.DailyPlan = days[:len(days)-1]

		return nil
	})
}

// PrepopulateItinerary fills an empty itinerary with one day per trip day.
// It reports whether anything changed.
func (s *Session) PrepopulateItinerary() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.prepopulateLocked()
}

func (s *Session) prepopulateLocked() bool {
	filled := false

	_ = s.store.Mutate(func(doc *plan.Plan) error {
		if len(doc.Execution.DailyPlan) > 0 {
			return nil
		}

		days := derive.ItineraryFor(doc)
		if len(days) == 0 {
			return nil
		}

		doc.Execution.DailyPlan = days
		filled = true

		return nil
	})

	if filled {
		s.touch()
	}

	return filled
}

// ToggleGear sets the checked state of a listed item.
func (s *Session) ToggleGear(name string, checked bool) error {
	return s.edit(func(doc *plan.Plan) error {
		list := doc.Administration.Gear.Checklist

		i := plan.FindGear(list, name)
		if i < 0 {
			return fmt.Errorf("%w: %s", plan.ErrGearNotFound, name)
		}

		list[i].Checked = checked

		return nil
	})
}

// AddCustomGear adds a user item to the checklist.
func (s *Session) AddCustomGear(name string) error {
	return s.edit(func(doc *plan.Plan) error {
		list, err := plan.AddCustomGear(doc.Administration.Gear.Checklist, name)
		if err != nil {
			return err
		}

		doc.Administration.Gear.Checklist = list

		return nil
	})
}

// RemoveCustomGear deletes a user item from the checklist.
func (s *Session) RemoveCustomGear(name string) error {
	return s.edit(func(doc *plan.Plan) error {
		list, err := plan.RemoveCustomGear(doc.Administration.Gear.Checklist, name)
		if err != nil {
			return err
		}

		doc.Administration.Gear.Checklist = list

		return nil
	})
}

// ReloadGear merges the preset for the current trip type and season into
// the checklist.
func (s *Session) ReloadGear() error {
	return s.edit(func(doc *plan.Plan) error {
		s.reloadGear(doc)

		return nil
	})
}

// GoTo opens section and performs its entry hooks, which it returns.
func (s *Session) GoTo(section string) ([]nav.OnEnter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hooks, err := s.nav.GoTo(section)
	if err != nil {
		s.log.WithError(err).Warn("navigation rejected")

		return nil, err
	}

	s.runHooks(hooks)

	return hooks, nil
}

// Next opens the following section. It reports false at the last section.
func (s *Session) Next() ([]nav.OnEnter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hooks, moved := s.nav.Next()
	s.runHooks(hooks)

	return hooks, moved
}

// Previous opens the preceding section. It reports false at the first.
func (s *Session) Previous() ([]nav.OnEnter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hooks, moved := s.nav.Previous()
	s.runHooks(hooks)

	return hooks, moved
}

// runHooks performs the entry hooks that change the document. The others
// are views derived on demand.
func (s *Session) runHooks(hooks []nav.OnEnter) {
	for _, h := range hooks {
		if h == nav.PrepopulateItinerary {
			s.prepopulateLocked()
		}
	}
}

// Current returns the open section.
func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.nav.Current()
}

// Progress returns the progress bar for the open section.
func (s *Session) Progress() []nav.Step {
	s.mu.Lock()
	defer s.mu.Unlock()

	var steps []nav.Step

	s.store.Read(func(doc *plan.Plan) {
		steps = s.nav.Steps(doc.Meta.ValidationWarnings)
	})

	return steps
}

// Snapshot returns a deep copy of the document.
func (s *Session) Snapshot() *plan.Plan {
	return s.store.Snapshot()
}

func (s *Session) view(fn func(doc *plan.Plan)) {
	s.store.Read(fn)
}

// Summary returns the mission summary fragments.
func (s *Session) Summary() []string {
	var out []string

	s.view(func(doc *plan.Plan) { out = derive.MissionSummary(doc) })

	return out
}

// SummaryText returns the mission summary as bullet lines.
func (s *Session) SummaryText() string {
	var out string

	s.view(func(doc *plan.Plan) { out = derive.MissionSummaryText(doc) })

	return out
}

// Report renders the printable text report.
func (s *Session) Report() string {
	var out string

	s.view(func(doc *plan.Plan) { out = derive.TextReport(doc) })

	return out
}

// SafetyWarnings lists the safety banners for the plan.
func (s *Session) SafetyWarnings() []string {
	var out []string

	s.view(func(doc *plan.Plan) { out = derive.SafetyWarnings(doc) })

	return out
}

// FoodDaysHint returns the days-of-food hint.
func (s *Session) FoodDaysHint() string {
	var out string

	s.view(func(doc *plan.Plan) { out = derive.FoodDaysHint(doc) })

	return out
}

// Warnings returns a copy of the recorded validation warnings.
func (s *Session) Warnings() map[string][]plan.Warning {
	return s.Snapshot().Meta.ValidationWarnings
}

// Validate runs a validation pass now and returns the warnings.
func (s *Session) Validate() map[string][]plan.Warning {
	s.validator.Now()

	return s.Warnings()
}

// ValidationPasses returns how many validation passes have run.
func (s *Session) ValidationPasses() int {
	return s.validator.Passes()
}

// Status returns the save indicator state.
func (s *Session) Status() (store.Status, error) {
	return s.store.Status()
}

// OnStatus registers a save indicator observer.
func (s *Session) OnStatus(fn store.StatusFunc) {
	s.store.OnStatus(fn)
}

// Flush runs pending validation and save work now.
func (s *Session) Flush() error {
	s.validator.Flush()

	return s.store.Flush()
}

// Export returns the plan as an export envelope, with validation current.
func (s *Session) Export() ([]byte, error) {
	s.validator.Flush()

	return s.store.Export()
}

// ExportFileName suggests a file name for [Session.Export].
func (s *Session) ExportFileName() string {
	return store.ExportFileName(s.Snapshot(), s.clock.Now())
}

// Import replaces the plan with an exported one. See [store.Store.Import].
func (s *Session) Import(data []byte) (*plan.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Import(data)
	if doc != nil {
		s.adopt()
	}

	return doc, err
}

// Reset starts a new plan. With keepBackup the current one is kept in the
// pre-reset slot.
func (s *Session) Reset(keepBackup bool) (*plan.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.validator.Cancel()

	doc, err := s.store.Reset(keepBackup)
	s.adopt()

	return doc, err
}

// Restore replaces the plan with the one in a backup slot.
func (s *Session) Restore(slot string) (*plan.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Restore(slot)
	if doc != nil {
		s.adopt()
	}

	return doc, err
}

// Metadata returns the storage bookkeeping record.
func (s *Session) Metadata() store.Metadata {
	return s.store.Metadata()
}

// Backups describes the backup slots.
func (s *Session) Backups() []store.Backup {
	return s.store.Backups()
}

// adopt revalidates a wholesale-replaced document and moves navigation to
// its stored section.
func (s *Session) adopt() {
	s.validator.Now()

	var section string

	s.store.Read(func(doc *plan.Plan) { section = doc.Meta.CurrentSection })
	s.nav = nav.New(nav.Resolve("", section), s.persistSection)
}

// Close runs pending work, then closes the storage. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	s.validator.Flush()

	return errors.Join(s.store.Close(), s.slots.Close())
}

// Now returns the session clock's time.
func (s *Session) Now() time.Time {
	return s.clock.Now()
}
