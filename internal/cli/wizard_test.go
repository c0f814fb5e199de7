package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/gsmeac/internal/store"
)

func TestSplitLine(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		`set trip.tripName "Ridge Loop"`: {"set", "trip.tripName", "Ridge Loop"},
		`gear check 'First aid kit'`:     {"gear", "check", "First aid kit"},
		"  next\t ":                      {"next"},
		`set trip.description ""`:        {"set", "trip.description", ""},
		`link add a"b c"d`:               {"link", "add", "ab cd"},
	}

	for line, want := range cases {
		got, err := splitLine(line)
		if err != nil {
			t.Errorf("splitLine(%q): %v", line, err)

			continue
		}

		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("splitLine(%q) mismatch (-want +got):\n%s", line, diff)
		}
	}

	if _, err := splitLine(`set trip.tripName "open`); err == nil {
		t.Error("unterminated quote accepted")
	}
}

func TestCompleterSuggestsCommandsAndSections(t *testing.T) {
	t.Parallel()

	complete := completer([]string{"goto", "gear", "get", "next"})

	if diff := cmp.Diff([]string{"goto", "gear", "get"}, complete("g")); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"goto execution"}, complete("goto ex")); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestWizardRunsScriptedSession(t *testing.T) {
	t.Parallel()

	c := NewCLI(t)
	script := `set trip.tripName "Ridge Loop"
next
bogus
set trip.startDate 2024-06-01
"unterminated
goto review
quit
`

	stdout, stderr, code := c.RunWithInput(script, "wizard", "ground")
	if code != 0 {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}

	AssertContains(t, stdout, "Section: ground")
	AssertContains(t, stdout, "gsmeac(ground)> ")
	AssertContains(t, stdout, "trip.tripName = Ridge Loop")
	AssertContains(t, stdout, "Section: situation")
	AssertContains(t, stdout, "Unknown command: bogus")
	AssertContains(t, stdout, "error: unterminated quote")
	AssertContains(t, stdout, "gsmeac(review)> ")

	doc := c.CurrentPlan()
	if doc.Trip.TripName != "Ridge Loop" || doc.Trip.StartDate != "2024-06-01" || doc.Meta.CurrentSection != "review" {
		t.Errorf("stored trip=%+v section=%q", doc.Trip, doc.Meta.CurrentSection)
	}
}

func TestWizardEndsOnEOFAndRejectsBadSection(t *testing.T) {
	t.Parallel()

	c := NewCLI(t)

	_, _, code := c.RunWithInput("next\n", "wizard")
	if code != 0 {
		t.Fatalf("code=%d, want=0", code)
	}

	if got, want := c.CurrentPlan().Meta.CurrentSection, "ground"; got != want {
		t.Errorf("section=%q, want=%q", got, want)
	}

	stderr := c.MustFail("wizard", "summary")
	AssertContains(t, stderr, "invalid section")
}

func TestWizardReportsSaveState(t *testing.T) {
	t.Parallel()

	c := NewCLI(t)
	script := `set trip.tripName Ridge
status
quit
`

	stdout, stderr, code := c.RunWithInput(script, "wizard")
	if code != 0 {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}

	AssertContains(t, stdout, "Save: ")
	AssertNotContains(t, stdout, "Error saving")
}

func TestWizardAlertsWhenSaveFails(t *testing.T) {
	t.Parallel()

	c := NewCLI(t)
	c.WriteFile(".gsmeac.json", `{"quota_bytes": 64}`)

	script := `set trip.tripName "Too big to store"
save
status
quit
`

	stdout, _, _ := c.RunWithInput(script, "wizard")

	AssertContains(t, stdout, "! "+store.QuotaMessage)
	AssertContains(t, stdout, "Save: Error saving: "+store.QuotaMessage)
}
