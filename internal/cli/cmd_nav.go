package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/calvinalkan/gsmeac/internal/nav"
	"github.com/calvinalkan/gsmeac/internal/planner"
	"github.com/calvinalkan/gsmeac/internal/validate"
)

var (
	errAtLast  = errors.New("already at the last section")
	errAtFirst = errors.New("already at the first section")
)

// warningKeys maps a section to the validation keys shown on entering it.
func warningKeys(section string) []string {
	switch section {
	case nav.Situation:
		return []string{"situation", "season"}
	case nav.CommandControl:
		return []string{"commandControl"}
	case nav.Welcome, nav.Review:
		return nil
	default:
		return []string{section}
	}
}

// printEntry prints what entering a section shows.
func printEntry(o *IO, sess *planner.Session, hooks []nav.OnEnter) {
	section := sess.Current()
	o.Println("Section:", section)

	for _, h := range hooks {
		switch h {
		case nav.ShowWarnings:
			warnings := sess.Warnings()
			for _, key := range warningKeys(section) {
				for _, w := range warnings[key] {
					o.Printf("  - %s\n", w.Message)
				}
			}
		case nav.PrepopulateItinerary:
			o.Println("Itinerary:", len(sess.Snapshot().Execution.DailyPlan), "day(s)")
		case nav.SuggestFoodDays:
			o.Println(sess.FoodDaysHint())
		case nav.RefreshMissionSummary:
			o.Println(sess.SummaryText())
		case nav.RefreshReport:
			total := validate.Summary(sess.Warnings()).TotalWarnings
			if total > 0 {
				o.Println(validate.IncompleteLabel(total) + " (run 'gsmeac validate')")
			}
		}
	}
}

func (a *app) gotoCmd() *Command {
	return &Command{
		Flags: newFlags("goto"),
		Usage: "goto <section>",
		Short: "Open a section",
		Long:  "Open a section: " + strings.Join(nav.Sections(), ", ") + ".",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 1, "goto <section>"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			hooks, err := sess.GoTo(args[0])
			if err != nil {
				return err
			}

			printEntry(o, sess, hooks)

			return nil
		},
	}
}

func (a *app) nextCmd() *Command {
	return &Command{
		Flags: newFlags("next"),
		Usage: "next",
		Short: "Open the following section",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 0, "next"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			hooks, moved := sess.Next()
			if !moved {
				return errAtLast
			}

			printEntry(o, sess, hooks)

			return nil
		},
	}
}

func (a *app) prevCmd() *Command {
	return &Command{
		Flags: newFlags("prev"),
		Usage: "prev",
		Short: "Open the preceding section",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 0, "prev"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			hooks, moved := sess.Previous()
			if !moved {
				return errAtFirst
			}

			printEntry(o, sess, hooks)

			return nil
		},
	}
}
