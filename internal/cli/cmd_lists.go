package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/calvinalkan/gsmeac/internal/planner"
)

var errUnknownAction = errors.New("unknown action")

// subcommand splits "<action> args..." and checks the action is known.
func subcommand(args []string, usage string, actions ...string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("%w: usage: gsmeac %s", ErrUsage, usage)
	}

	for _, act := range actions {
		if args[0] == act {
			return act, args[1:], nil
		}
	}

	return "", nil, fmt.Errorf("%w %q: usage: gsmeac %s", errUnknownAction, args[0], usage)
}

func (a *app) gearCmd() *Command {
	const usage = "gear <list|add|rm|check|uncheck|reload> [name]"

	return &Command{
		Flags: newFlags("gear"),
		Usage: usage,
		Short: "Manage the gear checklist",
		Long: `Manage the gear checklist.

  list            Show every item
  add <name>      Add a custom item
  rm <name>       Remove a custom item
  check <name>    Mark an item packed
  uncheck <name>  Mark an item not packed
  reload          Merge the preset for the trip type and season`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			act, rest, err := subcommand(args, usage, "list", "add", "rm", "check", "uncheck", "reload")
			if err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			name := strings.Join(rest, " ")
			needName := act != "list" && act != "reload"

			if needName && strings.TrimSpace(name) == "" {
				return fmt.Errorf("%w: usage: gsmeac gear %s <name>", ErrUsage, act)
			}

			switch act {
			case "add":
				err = sess.AddCustomGear(name)
			case "rm":
				err = sess.RemoveCustomGear(name)
			case "check":
				err = sess.ToggleGear(name, true)
			case "uncheck":
				err = sess.ToggleGear(name, false)
			case "reload":
				err = sess.ReloadGear()
			}

			if err != nil {
				return err
			}

			printGear(o, sess)

			return nil
		},
	}
}

func printGear(o *IO, sess *planner.Session) {
	list := sess.Snapshot().Administration.Gear.Checklist
	if len(list) == 0 {
		o.Println("No gear listed. Choose a trip type and season, or add items.")

		return
	}

	packed := 0

	for _, item := range list {
		mark := " "
		if item.Checked {
			mark = "x"
			packed++
		}

		suffix := ""
		if item.Custom {
			suffix = " (custom)"
		}

		o.Printf("[%s] %s%s\n", mark, item.Name, suffix)
	}

	o.Printf("%d/%d packed\n", packed, len(list))
}

func (a *app) dayCmd() *Command {
	const usage = "day <list|add|rm|fill> [--force]"

	flags := newFlags("day")
	force := flags.Bool("force", false, "Remove the last day even if it has data")

	return &Command{
		Flags: flags,
		Usage: usage,
		Short: "Manage the daily itinerary",
		Long: `Manage the daily itinerary.

  list   Show every day
  add    Append a day dated from the start date
  rm     Remove the last day (refuses a day with data unless --force)
  fill   Create one day per trip day when the itinerary is empty

Edit a day's fields with set, e.g. set execution.dailyPlan.0.to "Hut".`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			act, rest, err := subcommand(args, usage, "list", "add", "rm", "fill")
			if err != nil {
				return err
			}

			if len(rest) > 0 {
				return fmt.Errorf("%w: usage: gsmeac %s", ErrUsage, usage)
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			switch act {
			case "add":
				day, err := sess.AddDay()
				if err != nil {
					return err
				}

				o.Println("Added day", day.Day)
			case "rm":
				if err := sess.RemoveLastDay(*force); err != nil {
					return err
				}
			case "fill":
				if !sess.PrepopulateItinerary() {
					o.Println("Itinerary unchanged (it already has days, or the trip has no dates)")
				}
			}

			printDays(o, sess)

			return nil
		},
	}
}

func printDays(o *IO, sess *planner.Session) {
	days := sess.Snapshot().Execution.DailyPlan
	if len(days) == 0 {
		o.Println("No days planned.")

		return
	}

	for _, d := range days {
		line := fmt.Sprintf("Day %d", d.Day)

		if d.Date != "" {
			line += " (" + d.Date + ")"
		}

		if d.From != "" || d.To != "" {
			line += ": " + d.From + " -> " + d.To
		}

		if !d.Distance.IsZero() {
			line += fmt.Sprintf(", %s km", d.Distance)
		}

		if d.Notes != "" {
			line += " - " + d.Notes
		}

		o.Println(line)
	}
}

func (a *app) linkCmd() *Command {
	const usage = "link <list|add|rm> [url [description] | n]"

	return &Command{
		Flags: newFlags("link"),
		Usage: usage,
		Short: "Manage map links",
		Long: `Manage map links.

  list                    Show every link, numbered from 1
  add <url> [description] Append a link
  rm <n>                  Remove link number n`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			act, rest, err := subcommand(args, usage, "list", "add", "rm")
			if err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			switch act {
			case "add":
				if len(rest) == 0 {
					return fmt.Errorf("%w: usage: gsmeac link add <url> [description]", ErrUsage)
				}

				err = sess.AddMapLink(rest[0], strings.Join(rest[1:], " "))
			case "rm":
				if len(rest) != 1 {
					return fmt.Errorf("%w: usage: gsmeac link rm <n>", ErrUsage)
				}

				n, convErr := strconv.Atoi(rest[0])
				if convErr != nil {
					return fmt.Errorf("%w: link number %q", ErrUsage, rest[0])
				}

				err = sess.RemoveMapLink(n - 1)
			}

			if err != nil {
				return err
			}

			links := sess.Snapshot().Ground.MapLinks
			if len(links) == 0 {
				o.Println("No map links.")
			}

			for i, l := range links {
				if l.Description == "" {
					o.Printf("%d. %s\n", i+1, l.URL)
				} else {
					o.Printf("%d. %s (%s)\n", i+1, l.URL, l.Description)
				}
			}

			return nil
		},
	}
}
