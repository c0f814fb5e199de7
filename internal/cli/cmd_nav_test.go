package cli_test

import (
	"testing"

	"github.com/calvinalkan/gsmeac/internal/cli"
	"github.com/calvinalkan/gsmeac/internal/derive"
)

func Test_Goto_Persists_Section_And_Shows_Entry(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("goto", "mission")

	cli.AssertContains(t, stdout, "Section: mission")
	cli.AssertContains(t, stdout, "  - Write a mission statement for your trip")
	cli.AssertContains(t, stdout, "• Backpacking Trip")

	if got, want := c.CurrentPlan().Meta.CurrentSection, "mission"; got != want {
		t.Errorf("stored currentSection=%q, want=%q", got, want)
	}

	status := c.MustRun("status")
	cli.AssertContains(t, status, "Section: mission")
	cli.AssertContains(t, status, "✓ Ground")
	cli.AssertContains(t, status, "[Mission]")
}

func Test_Goto_Invalid_Section_Keeps_Current(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("goto", "ground")

	stderr := c.MustFail("goto", "summary")
	cli.AssertContains(t, stderr, "invalid section")

	if got, want := c.CurrentPlan().Meta.CurrentSection, "ground"; got != want {
		t.Errorf("currentSection=%q, want=%q", got, want)
	}
}

func Test_Next_And_Prev_Walk_The_Wizard(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	cli.AssertContains(t, c.MustFail("prev"), "already at the first section")

	want := []string{"ground", "situation", "mission", "execution", "administration", "commandcontrol", "review"}
	for _, section := range want {
		cli.AssertContains(t, c.MustRun("next"), "Section: "+section)
	}

	cli.AssertContains(t, c.MustFail("next"), "already at the last section")
	cli.AssertContains(t, c.MustRun("prev"), "Section: commandcontrol")
}

func Test_Situation_Entry_Shows_Season_Warnings(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("goto", "situation")

	cli.AssertContains(t, stdout, "Specify if traveling solo or in a group")
	cli.AssertContains(t, stdout, "Select the season for your trip")
}

func Test_Execution_Entry_Prepopulates_Itinerary(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("set", "trip.startDate", "2024-06-01")
	c.MustRun("set", "trip.endDate", "2024-06-03")

	cli.AssertContains(t, c.MustRun("goto", "execution"), "Itinerary: 3 day(s)")

	days := c.CurrentPlan().Execution.DailyPlan
	if got, want := len(days), 3; got != want {
		t.Fatalf("days=%d, want=%d", got, want)
	}

	if got, want := days[1].Date, "2024-06-02"; got != want {
		t.Errorf("day 2 date=%q, want=%q", got, want)
	}

	food := c.MustRun("goto", "administration")
	cli.AssertContains(t, food, "(suggested: 3 days based on your itinerary)")

	c.MustRun("set", "administration.foodFuel.daysOfFood", "4")
	cli.AssertNotContains(t, c.MustRun("goto", "administration"), "suggested")

	if got := derive.SuggestedFoodDays(c.CurrentPlan()); got != 3 {
		t.Errorf("SuggestedFoodDays=%d, want=3", got)
	}
}
