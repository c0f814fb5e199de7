package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/gsmeac/internal/cli"
)

func Test_Usage_When_No_Command(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run()

	if got, want := exitCode, 0; got != want {
		t.Errorf("exitCode=%d, want=%d (stderr=%q)", got, want, stderr)
	}

	cli.AssertContains(t, stdout, "Usage: gsmeac")
	cli.AssertContains(t, stdout, "wizard [section]")
	cli.AssertContains(t, stdout, "--plan-dir")

	if _, err := os.Stat(c.PlanDir()); !os.IsNotExist(err) {
		t.Errorf("usage must not create the plan dir (err=%v)", err)
	}
}

func Test_Invalid_Global_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--invalid-flag", "status")

	cli.AssertContains(t, stderr, "unknown flag")
	cli.AssertContains(t, stderr, "--invalid-flag")
}

func Test_Global_Flag_Missing_Value_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	_, stderr, code := c.Run("status", "--nothing")
	if code != 1 {
		t.Fatalf("code=%d, want=1", code)
	}

	cli.AssertContains(t, stderr, "unknown flag: --nothing")
	cli.AssertContains(t, stderr, "usage: gsmeac status")

	stdout, stderr, code := c.Run("--plan-dir")
	if code != 1 || stdout != "" {
		t.Fatalf("code=%d stdout=%q", code, stdout)
	}

	cli.AssertContains(t, stderr, "flag requires an argument")
}

func Test_Unknown_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("fly")

	cli.AssertContains(t, stderr, "unknown command: fly")
	cli.AssertContains(t, stderr, "Commands:")
}

func Test_Command_Help_When_Flag_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("set", "--help")

	cli.AssertContains(t, stdout, "Usage: gsmeac set <path> <value> [--json]")
	cli.AssertContains(t, stdout, "--json")
}

func Test_Print_Config_Shows_Defaults(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "plan_dir="+c.PlanDir())
	cli.AssertContains(t, stdout, "backend=file")
	cli.AssertContains(t, stdout, "save_debounce_ms=500")
	cli.AssertContains(t, stdout, "(defaults only)")
}

func Test_Print_Config_Uses_Project_File(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".gsmeac.json", `{
		// trips live next to the notes
		"plan_dir": "trips",
	}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "plan_dir="+filepath.Join(c.Dir, "trips"))
	cli.AssertContains(t, stdout, "project_config="+filepath.Join(c.Dir, ".gsmeac.json"))
}

func Test_Invalid_Backend_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--backend", "redis", "status")

	cli.AssertContains(t, stderr, "unknown backend")
}

func Test_SQLite_Backend_Persists_Between_Runs(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("--backend", "sqlite", "set", "trip.tripName", "Lite")

	if got, want := c.MustRun("--backend=sqlite", "get", "trip.tripName"), "Lite"; got != want {
		t.Errorf("get=%q, want=%q", got, want)
	}

	if _, err := os.Stat(filepath.Join(c.PlanDir(), "planner.db")); err != nil {
		t.Errorf("planner.db: %v", err)
	}
}

func Test_Log_Shows_Session_Entries(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	if got, want := c.MustRun("log"), "(no log entries)"; got != want {
		t.Errorf("log=%q, want=%q", got, want)
	}

	c.MustRun("reset", "--yes")

	stdout := c.MustRun("log", "-n", "5")
	cli.AssertContains(t, stdout, "reset plan")
	cli.AssertContains(t, stdout, "session=")
}
