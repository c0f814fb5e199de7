package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calvinalkan/gsmeac/internal/fs"
	"github.com/calvinalkan/gsmeac/internal/nav"
	"github.com/calvinalkan/gsmeac/internal/plan"
	"github.com/calvinalkan/gsmeac/internal/store"
	"github.com/calvinalkan/gsmeac/internal/validate"
)

func (a *app) showCmd() *Command {
	return &Command{
		Flags: newFlags("show"),
		Usage: "show [section]",
		Short: "Print the plan (or one section) as JSON",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 1 {
				return wantArgs(args, 1, "show [section]")
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return printJSON(o, sess.Snapshot())
			}

			v, err := sess.Get(args[0])
			if err != nil {
				return err
			}

			return printJSON(o, v)
		},
	}
}

func (a *app) getCmd() *Command {
	return &Command{
		Flags: newFlags("get"),
		Usage: "get <path>",
		Short: "Print one field, e.g. trip.startDate",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 1, "get <path>"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			v, err := sess.Get(args[0])
			if err != nil {
				return err
			}

			return printValue(o, v)
		},
	}
}

func (a *app) setCmd() *Command {
	flags := newFlags("set")
	asJSON := flags.Bool("json", false, "Parse <value> as JSON")

	return &Command{
		Flags: flags,
		Usage: "set <path> <value> [--json]",
		Short: "Change one field",
		Long: `Change one field. Text is parsed for the field's kind: numbers and
dates are kept as typed, booleans accept true/false, and string lists
take comma-separated items or a JSON array. Use --json to pass any value
as JSON. Related fields update too: a day hike ends on its start date,
changing trip type or season reloads the gear preset, and the expected
check-in follows the end date.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 2, "set <path> <value>"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			path, text := args[0], args[1]

			if *asJSON {
				var v any

				if err := json.Unmarshal([]byte(text), &v); err != nil {
					return fmt.Errorf("invalid JSON value: %w", err)
				}

				err = sess.Set(path, v)
			} else {
				err = sess.SetText(path, text)
			}

			if err != nil {
				return err
			}

			v, err := sess.Get(path)
			if err != nil {
				return err
			}

			o.Printf("%s = ", path)

			return printValue(o, v)
		},
	}
}

// printValue prints scalars bare and everything else as JSON.
func printValue(o *IO, v any) error {
	switch v := v.(type) {
	case string:
		o.Println(v)
	case plan.Number:
		o.Println(string(v))
	case bool, int:
		o.Println(v)
	default:
		return printJSON(o, v)
	}

	return nil
}

var (
	stepDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	stepActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	stepPending = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	stepWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
)

// renderProgress draws the progress bar as one line.
func renderProgress(steps []nav.Step) string {
	parts := make([]string, 0, len(steps))

	for _, s := range steps {
		var text string

		switch {
		case s.Active:
			text = stepActive.Render("[" + s.Label + "]")
		case s.Completed:
			text = stepDone.Render("✓ " + s.Label)
		default:
			text = stepPending.Render(s.Label)
		}

		if s.Warnings > 0 {
			text += " " + stepWarn.Render(fmt.Sprintf("(%d)", s.Warnings))
		}

		parts = append(parts, text)
	}

	return strings.Join(parts, " > ")
}

func (a *app) statusCmd() *Command {
	return &Command{
		Flags: newFlags("status"),
		Usage: "status",
		Short: "Show the open section, progress and safety alerts",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 0, "status"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			doc := sess.Snapshot()
			meta := sess.Metadata()

			name := doc.Trip.TripName
			if name == "" {
				name = "(untitled)"
			}

			o.Println("Trip:", name)
			o.Println("Section:", sess.Current())

			if sess.Current() != nav.Welcome {
				o.Println(renderProgress(sess.Progress()))
			}

			total := validate.Summary(doc.Meta.ValidationWarnings).TotalWarnings
			if total == 0 {
				o.Println("All sections complete")
			} else {
				o.Println(validate.IncompleteLabel(total))
			}

			o.Println("Save:", saveLabel(sess.Status()))
			o.Println("Last modified:", doc.LastModified)
			o.Println("Trips planned:", meta.TripCount)

			for _, alert := range sess.SafetyWarnings() {
				o.Println(alertStyle.Render("! " + alert))
			}

			return nil
		},
	}
}

// saveLabel renders the save indicator. An idle indicator shows as "idle"
// rather than blank.
func saveLabel(status store.Status, err error) string {
	switch {
	case status == store.StatusError && err != nil:
		return status.Label() + ": " + describe(err)
	case status.Label() == "":
		return status.String()
	default:
		return status.Label()
	}
}

func (a *app) validateCmd() *Command {
	return &Command{
		Flags: newFlags("validate"),
		Usage: "validate",
		Short: "Check every section for missing fields",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 0, "validate"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			warnings := sess.Validate()

			for _, section := range validate.Sections {
				for _, w := range warnings[section] {
					o.Printf("%s.%s: %s\n", section, w.Field, w.Message)
				}
			}

			total := validate.Summary(warnings).TotalWarnings
			if total == 0 {
				o.Println("All sections complete")
			} else {
				o.Println(validate.IncompleteLabel(total))
			}

			return nil
		},
	}
}

func (a *app) summaryCmd() *Command {
	return &Command{
		Flags: newFlags("summary"),
		Usage: "summary",
		Short: "Print the auto-generated mission summary",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 0, "summary"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			o.Println(sess.SummaryText())

			return nil
		},
	}
}

// resolvePath makes a user-supplied path relative to the effective cwd.
func (a *app) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(a.cfg.EffectiveCwd, p)
}

func (a *app) writeFile(p string, data []byte) error {
	return fs.NewReal().WriteFileAtomic(a.resolvePath(p), data, 0o644)
}

func (a *app) reportCmd() *Command {
	flags := newFlags("report")
	output := flags.StringP("output", "o", "", "Write the report to `file` instead of stdout")

	return &Command{
		Flags: flags,
		Usage: "report [-o file]",
		Short: "Render the printable plain-text report",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 0, "report [-o file]"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			report := sess.Report()

			if *output == "" {
				o.Println(report)

				return nil
			}

			if err := a.writeFile(*output, []byte(report)); err != nil {
				return err
			}

			o.Println("Wrote", *output)

			return nil
		},
	}
}
