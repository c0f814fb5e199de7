package planner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/gsmeac/internal/config"
	"github.com/calvinalkan/gsmeac/internal/fieldpath"
	"github.com/calvinalkan/gsmeac/internal/kv"
	"github.com/calvinalkan/gsmeac/internal/nav"
	"github.com/calvinalkan/gsmeac/internal/plan"
	"github.com/calvinalkan/gsmeac/internal/planner"
	"github.com/calvinalkan/gsmeac/internal/testutil"
)

func open(t *testing.T, mem *kv.MemStore, link string) (*planner.Session, *testutil.Clock) {
	t.Helper()

	clk := testutil.NewClock()
	s := planner.Open(config.Default(), mem, planner.Options{Clock: clk, DeepLink: link})

	t.Cleanup(func() { _ = s.Close() })

	return s, clk
}

// settle runs every pending timer, including the saved-indicator reset.
func settle(clk *testutil.Clock) {
	clk.Advance(5 * time.Second)
}

func TestBurstOfEditsWritesAndValidatesOnce(t *testing.T) {
	t.Parallel()

	mem := kv.NewMemStore()
	s, clk := open(t, mem, "")
	settle(clk)

	writes := mem.Writes(kv.KeyCurrent)
	passes := s.ValidationPasses()

	for _, name := range []string{"M", "Mo", "Mou", "Moun", "Mount"} {
		require.NoError(t, s.SetText("trip.tripName", name))
		clk.Advance(100 * time.Millisecond)
	}

	assert.Equal(t, writes, mem.Writes(kv.KeyCurrent), "saved inside the quiet window")

	settle(clk)

	assert.Equal(t, writes+1, mem.Writes(kv.KeyCurrent))
	assert.Equal(t, passes+1, s.ValidationPasses())

	reopened, _ := open(t, mem, "")
	assert.Equal(t, "Mount", reopened.Snapshot().Trip.TripName)
}

func TestDayhikeCascade(t *testing.T) {
	t.Parallel()

	s, _ := open(t, kv.NewMemStore(), "")

	require.NoError(t, s.SetText("trip.startDate", "2024-06-01"))
	require.NoError(t, s.SetText("administration.accommodation.nightsRequired", "3"))
	require.NoError(t, s.SetText("trip.tripType", plan.TripDayhike))

	doc := s.Snapshot()
	assert.Equal(t, "2024-06-01", doc.Trip.EndDate)
	assert.Equal(t, plan.Number("0"), doc.Administration.Accommodation.NightsRequired)
	assert.Equal(t, "2024-06-02", doc.CommandControl.ExpectedCheckIn)

	preset, ok := plan.DefaultPresets().For(plan.TripDayhike, "")
	require.True(t, ok)
	require.Len(t, doc.Administration.Gear.Checklist, len(preset))
	assert.Equal(t, preset[0], doc.Administration.Gear.Checklist[0].Name)

	require.NoError(t, s.SetText("trip.startDate", "2024-06-05"))

	doc = s.Snapshot()
	assert.Equal(t, "2024-06-05", doc.Trip.EndDate)
	assert.Equal(t, "2024-06-06", doc.CommandControl.ExpectedCheckIn)
}

func TestDayhikeEndDateFollowsStartDate(t *testing.T) {
	t.Parallel()

	s, _ := open(t, kv.NewMemStore(), "")

	require.NoError(t, s.SetText("trip.startDate", "2024-06-01"))
	require.NoError(t, s.SetText("trip.tripType", plan.TripDayhike))

	err := s.SetText("trip.endDate", "2024-06-09")
	require.ErrorIs(t, err, planner.ErrReadOnlyField)
	assert.Equal(t, "2024-06-01", s.Snapshot().Trip.EndDate)

	trip := map[string]any{
		"tripName":  "Ridge",
		"tripType":  plan.TripDayhike,
		"startDate": "2024-06-03",
		"endDate":   "2024-06-20",
	}
	require.NoError(t, s.Set("trip", trip))

	doc := s.Snapshot()
	assert.Equal(t, "2024-06-03", doc.Trip.StartDate)
	assert.Equal(t, "2024-06-03", doc.Trip.EndDate)

	require.NoError(t, s.SetText("trip.tripType", plan.TripBackpacking))
	require.NoError(t, s.SetText("trip.endDate", "2024-06-09"))
	assert.Equal(t, "2024-06-09", s.Snapshot().Trip.EndDate)
}

func TestCheckInKeepsLaterUserChoice(t *testing.T) {
	t.Parallel()

	s, _ := open(t, kv.NewMemStore(), "")

	require.NoError(t, s.SetText("trip.startDate", "2024-06-01"))
	require.NoError(t, s.SetText("trip.endDate", "2024-06-03"))
	assert.Equal(t, "2024-06-04", s.Snapshot().CommandControl.ExpectedCheckIn)

	require.NoError(t, s.SetText("commandControl.expectedCheckIn", "2024-06-10"))
	require.NoError(t, s.SetText("trip.endDate", "2024-06-05"))
	assert.Equal(t, "2024-06-10", s.Snapshot().CommandControl.ExpectedCheckIn)

	require.NoError(t, s.SetText("trip.endDate", "2024-06-12"))
	assert.Equal(t, "2024-06-13", s.Snapshot().CommandControl.ExpectedCheckIn)
}

func TestSeasonChangeReloadsGearAndKeepsCustomItems(t *testing.T) {
	t.Parallel()

	s, _ := open(t, kv.NewMemStore(), "")
	assert.Empty(t, s.Snapshot().Administration.Gear.Checklist)

	require.NoError(t, s.AddCustomGear("Banjo"))
	require.NoError(t, s.SetText("season.season", plan.SeasonWinter))

	winter, _ := plan.DefaultPresets().For(plan.TripBackpacking, plan.SeasonWinter)
	list := s.Snapshot().Administration.Gear.Checklist
	require.Len(t, list, len(winter)+1)
	assert.Equal(t, "Banjo", list[len(list)-1].Name)

	require.NoError(t, s.ToggleGear(winter[0], true))
	require.NoError(t, s.SetText("season.season", plan.SeasonWinter))
	assert.True(t, s.Snapshot().Administration.Gear.Checklist[0].Checked, "re-selecting a season keeps checks")

	require.ErrorIs(t, s.ToggleGear("Kayak", true), plan.ErrGearNotFound)
	require.ErrorIs(t, s.RemoveCustomGear(winter[0]), plan.ErrGearNotFound)
	require.NoError(t, s.RemoveCustomGear("banjo"))
}

func TestMetaFieldsAreReadOnly(t *testing.T) {
	t.Parallel()

	s, _ := open(t, kv.NewMemStore(), "")

	require.ErrorIs(t, s.SetText("meta.currentSection", "review"), planner.ErrReadOnlyField)
	require.ErrorIs(t, s.SetText("trip.nope", "x"), fieldpath.ErrUnknownField)
	assert.Equal(t, nav.Welcome, s.Current())
}

func TestInvalidGoToKeepsCurrentSection(t *testing.T) {
	t.Parallel()

	mem := kv.NewMemStore()
	s, clk := open(t, mem, "")

	_, err := s.GoTo("mission")
	require.NoError(t, err)

	_, err = s.GoTo("summary")
	require.ErrorIs(t, err, nav.ErrInvalidSection)
	assert.Equal(t, nav.Mission, s.Current())

	settle(clk)

	reopened, _ := open(t, mem, "")
	assert.Equal(t, nav.Mission, reopened.Current())
}

func TestDeepLinkWinsOverStoredSection(t *testing.T) {
	t.Parallel()

	mem := kv.NewMemStore()
	s, clk := open(t, mem, "")

	_, err := s.GoTo("ground")
	require.NoError(t, err)
	settle(clk)

	linked, _ := open(t, mem, "review")
	assert.Equal(t, nav.Review, linked.Current())
	assert.Equal(t, nav.Review, linked.Snapshot().Meta.CurrentSection)
}

func TestEnteringExecutionPrepopulatesItinerary(t *testing.T) {
	t.Parallel()

	s, _ := open(t, kv.NewMemStore(), "")

	require.NoError(t, s.SetText("trip.startDate", "2024-06-01"))
	require.NoError(t, s.SetText("trip.endDate", "2024-06-03"))

	hooks, err := s.GoTo("execution")
	require.NoError(t, err)
	assert.Contains(t, hooks, nav.PrepopulateItinerary)

	days := s.Snapshot().Execution.DailyPlan
	require.Len(t, days, 3)
	assert.Equal(t, "2024-06-03", days[2].Date)

	require.NoError(t, s.SetText("execution.dailyPlan.2.notes", "summit"))
	assert.False(t, s.PrepopulateItinerary(), "a non-empty itinerary is left alone")

	require.ErrorIs(t, s.RemoveLastDay(false), planner.ErrDayHasData)
	require.NoError(t, s.RemoveLastDay(true))

	day, err := s.AddDay()
	require.NoError(t, err)
	assert.Equal(t, plan.Day{Day: 3, Date: "2024-06-03"}, day)
}

func TestMapLinks(t *testing.T) {
	t.Parallel()

	s, _ := open(t, kv.NewMemStore(), "")

	require.NoError(t, s.AddMapLink("https://example.org/a", "topo"))
	require.NoError(t, s.AddMapLink("https://example.org/b", ""))
	require.NoError(t, s.RemoveMapLink(0))
	require.ErrorIs(t, s.RemoveMapLink(5), fieldpath.ErrIndexOutOfRange)

	links := s.Snapshot().Ground.MapLinks
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.org/b", links[0].URL)
}

func TestResetReturnsToWelcome(t *testing.T) {
	t.Parallel()

	s, _ := open(t, kv.NewMemStore(), "")

	require.NoError(t, s.SetText("trip.tripName", "Old trip"))
	_, err := s.GoTo("review")
	require.NoError(t, err)

	doc, err := s.Reset(true)
	require.NoError(t, err)
	assert.Empty(t, doc.Trip.TripName)
	assert.Equal(t, nav.Welcome, s.Current())
	assert.NotEmpty(t, s.Warnings()["ground"], "fresh plan is revalidated")

	restored, err := s.Restore("before-reset")
	require.NoError(t, err)
	assert.Equal(t, "Old trip", restored.Trip.TripName)
	assert.Equal(t, nav.Review, s.Current())
}

func TestExportImportThroughSessions(t *testing.T) {
	t.Parallel()

	src, _ := open(t, kv.NewMemStore(), "")
	require.NoError(t, src.SetText("trip.tripName", "Carry over"))

	data, err := src.Export()
	require.NoError(t, err)

	dst, _ := open(t, kv.NewMemStore(), "")

	_, err = dst.Import([]byte(`{"nope": true}`))
	require.Error(t, err)
	assert.Empty(t, dst.Snapshot().Trip.TripName)

	doc, err := dst.Import(data)
	require.NoError(t, err)
	assert.Equal(t, "Carry over", doc.Trip.TripName)
	assert.Equal(t, "Carry over", dst.Snapshot().Trip.TripName)
}

func TestProgressCountsWarnings(t *testing.T) {
	t.Parallel()

	s, _ := open(t, kv.NewMemStore(), "situation")

	steps := s.Progress()
	require.Len(t, steps, 7)
	assert.True(t, steps[1].Active)
	assert.True(t, steps[0].Completed)
	assert.Equal(t, 3, steps[1].Warnings, "situation folds in season")
}
