package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/gsmeac/internal/cli"
	"github.com/calvinalkan/gsmeac/internal/derive"
	"github.com/calvinalkan/gsmeac/internal/plan"
)

func Test_Set_Then_Get_Persists_Field(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	if got, want := c.MustRun("set", "trip.tripName", "Ridge Loop"), "trip.tripName = Ridge Loop"; got != want {
		t.Errorf("set=%q, want=%q", got, want)
	}

	if got, want := c.MustRun("get", "trip.tripName"), "Ridge Loop"; got != want {
		t.Errorf("get=%q, want=%q", got, want)
	}

	if got, want := c.CurrentPlan().Trip.TripName, "Ridge Loop"; got != want {
		t.Errorf("stored tripName=%q, want=%q", got, want)
	}
}

func Test_Set_Json_And_List_Text(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("set", "ground.terrainTypes", `["hills","alpine"]`, "--json")

	if diff := cmp.Diff([]string{"hills", "alpine"}, c.CurrentPlan().Ground.TerrainTypes); diff != "" {
		t.Errorf("terrainTypes mismatch (-want +got):\n%s", diff)
	}

	c.MustRun("set", "ground.terrainTypes", "flat, mountains")

	if diff := cmp.Diff([]string{"flat", "mountains"}, c.CurrentPlan().Ground.TerrainTypes); diff != "" {
		t.Errorf("terrainTypes mismatch (-want +got):\n%s", diff)
	}

	stderr := c.MustFail("set", "ground.terrainTypes", "{nope", "--json")
	cli.AssertContains(t, stderr, "invalid JSON value")
}

func Test_Set_Rejects_Bad_Paths(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	cli.AssertContains(t, c.MustFail("set", "trip.bogus", "x"), "unknown field")
	cli.AssertContains(t, c.MustFail("set", "meta.currentSection", "review"), "managed by the planner")
	cli.AssertContains(t, c.MustFail("set", "trip.tripName"), "wrong number of arguments")
	cli.AssertContains(t, c.MustFail("get", "execution.dailyPlan.4.notes"), "out of range")
}

func Test_Dayhike_Cascade_Through_Cli(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("set", "trip.startDate", "2024-06-01")
	c.MustRun("set", "trip.tripType", "dayhike")

	if got, want := c.MustRun("get", "trip.endDate"), "2024-06-01"; got != want {
		t.Errorf("endDate=%q, want=%q", got, want)
	}

	if got, want := c.MustRun("get", "commandControl.expectedCheckIn"), "2024-06-02"; got != want {
		t.Errorf("expectedCheckIn=%q, want=%q", got, want)
	}

	if got, want := c.MustRun("get", "administration.accommodation.nightsRequired"), "0"; got != want {
		t.Errorf("nightsRequired=%q, want=%q", got, want)
	}

	cli.AssertContains(t, c.MustFail("set", "trip.endDate", "2024-06-09"), "managed by the planner")

	if got, want := c.MustRun("get", "trip.endDate"), "2024-06-01"; got != want {
		t.Errorf("endDate after rejected edit=%q, want=%q", got, want)
	}
}

func Test_Show_Prints_Section_Json(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("set", "mission.statement", "Reach the hut")

	stdout := c.MustRun("show", "mission")
	cli.AssertContains(t, stdout, `"statement": "Reach the hut"`)

	full := c.MustRun("show")
	cli.AssertContains(t, full, `"schemaVersion": "1.0"`)
}

func Test_Status_On_Fresh_Plan(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("status")

	cli.AssertContains(t, stdout, "Trip: (untitled)")
	cli.AssertContains(t, stdout, "Section: welcome")
	cli.AssertContains(t, stdout, "incomplete fields")
	cli.AssertContains(t, stdout, "Trips planned: 1")
	cli.AssertNotContains(t, stdout, "Ground")
}

func Test_Status_Shows_Save_Indicator(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("set", "trip.tripName", "Ridge")

	cli.AssertContains(t, c.MustRun("status"), "Save: idle")
	cli.AssertContains(t, c.MustRun("save"), "Saved")
}

func Test_Status_Shows_Safety_Alerts(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("set", "season.season", "winter")
	c.MustRun("set", "situation.travelType", "solo")
	c.MustRun("set", "commandControl.deviceCarried", "none")

	stdout := c.MustRun("status")
	cli.AssertContains(t, stdout, derive.WinterAlert)
	cli.AssertContains(t, stdout, derive.SoloAlert)
}

func Test_Validate_Lists_Missing_Fields(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("set", "mission.statement", "Reach the hut")

	stdout := c.MustRun("validate")

	cli.AssertContains(t, stdout, "ground.trailType: Select a trail type")
	cli.AssertContains(t, stdout, "commandControl.expectedCheckIn: Set an expected check-in date")
	cli.AssertNotContains(t, stdout, "mission.statement")

	warnings := c.CurrentPlan().Meta.ValidationWarnings
	if got := len(warnings["mission"]); got != 0 {
		t.Errorf("stored mission warnings=%d, want=0", got)
	}

	if _, ok := warnings["administration"]; !ok {
		t.Error("administration must be recorded with an empty list")
	}
}

func Test_Summary_And_Report(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("set", "trip.tripName", "Ridge Loop")
	c.MustRun("set", "trip.startDate", "2024-06-01")
	c.MustRun("set", "trip.endDate", "2024-06-03")

	summary := c.MustRun("summary")
	want := strings.Join([]string{
		"• Backpacking Trip",
		"• 3 days (Jun 1, 2024 - Jun 3, 2024)",
		"• Trip: Ridge Loop",
	}, "\n")

	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	report := c.MustRun("report")
	cli.AssertContains(t, report, "TRIP: Ridge Loop")
	cli.AssertContains(t, report, "DURATION: 3 days")
	cli.AssertContains(t, report, "Generated with GSMEAC Backpacking Planner")

	c.MustRun("report", "-o", "plan.txt")

	data, err := os.ReadFile(filepath.Join(c.Dir, "plan.txt"))
	if err != nil {
		t.Fatal(err)
	}

	doc := c.CurrentPlan()
	if got, want := string(data), derive.TextReport(doc); got != want {
		t.Errorf("report file differs from rendering the stored plan")
	}

	if doc.Trip.TripType != plan.TripBackpacking {
		t.Errorf("tripType=%q", doc.Trip.TripType)
	}
}
