package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/calvinalkan/gsmeac/internal/plan"
	"github.com/calvinalkan/gsmeac/internal/store"
)

var errResetNotConfirmed = errors.New("reset discards the current plan; pass --yes to confirm")

func tripLabel(doc *plan.Plan) string {
	if doc.Trip.TripName == "" {
		return "(untitled)"
	}

	return doc.Trip.TripName
}

func (a *app) exportCmd() *Command {
	flags := newFlags("export")
	output := flags.StringP("output", "o", "", "Write the export to `file` instead of stdout")
	auto := flags.Bool("auto", false, "Write to a file named after the trip and today's date")

	return &Command{
		Flags: flags,
		Usage: "export [-o file | --auto]",
		Short: "Export the plan as JSON",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 0, "export [-o file | --auto]"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			data, err := sess.Export()
			if err != nil {
				return err
			}

			target := *output
			if *auto {
				target = sess.ExportFileName()
			}

			if target == "" {
				o.Printf("%s", data)

				return nil
			}

			if err := a.writeFile(target, data); err != nil {
				return err
			}

			o.Println("Exported to", target)

			return nil
		},
	}
}

func (a *app) importCmd() *Command {
	return &Command{
		Flags: newFlags("import"),
		Usage: "import <file|->",
		Short: "Replace the plan with an exported one",
		Long: `Replace the plan with an exported one. Use - to read from stdin.
A file that is not a valid export leaves the current plan untouched.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 1, "import <file|->"); err != nil {
				return err
			}

			var (
				data []byte
				err  error
			)

			if args[0] == "-" {
				if o.In() == nil {
					return errors.New("no stdin to read from")
				}

				data, err = io.ReadAll(o.In())
			} else {
				data, err = os.ReadFile(a.resolvePath(args[0]))
			}

			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			doc, err := sess.Import(data)
			if doc == nil {
				return err
			}

			if err != nil {
				o.Warn("plan imported but not saved", describe(err))
			}

			o.Println("Imported", tripLabel(doc))

			return nil
		},
	}
}

func (a *app) resetCmd() *Command {
	flags := newFlags("reset")
	noBackup := flags.Bool("no-backup", false, "Do not keep the current plan in the before-reset slot")
	yes := flags.BoolP("yes", "y", false, "Confirm the reset")

	return &Command{
		Flags: flags,
		Usage: "reset --yes [--no-backup]",
		Short: "Start a new plan",
		Long: `Start a new plan. The current plan is kept in the before-reset
backup slot unless --no-backup is given; restore it with
'gsmeac restore before-reset'.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 0, "reset --yes [--no-backup]"); err != nil {
				return err
			}

			if !*yes {
				return errResetNotConfirmed
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			if _, err := sess.Reset(!*noBackup); err != nil {
				return err
			}

			o.Println("Started a new plan")

			return nil
		},
	}
}

func (a *app) saveCmd() *Command {
	return &Command{
		Flags: newFlags("save"),
		Usage: "save",
		Short: "Write pending changes now",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 0, "save"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			if err := sess.Flush(); err != nil {
				return err
			}

			o.Println("Saved")

			return nil
		},
	}
}

func (a *app) backupsCmd() *Command {
	return &Command{
		Flags: newFlags("backups"),
		Usage: "backups",
		Short: "List the backup slots",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 0, "backups"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			for _, b := range sess.Backups() {
				if b.Empty {
					o.Printf("%-13s (empty)\n", b.Slot)

					continue
				}

				name := b.TripName
				if name == "" {
					name = "(untitled)"
				}

				o.Printf("%-13s %s  %s\n", b.Slot, b.LastModified, name)
			}

			return nil
		},
	}
}

func (a *app) restoreCmd() *Command {
	return &Command{
		Flags: newFlags("restore"),
		Usage: "restore <slot>",
		Short: "Replace the plan with a backup",
		Long:  "Replace the plan with a backup. Slots: " + strings.Join(store.BackupSlots(), ", ") + ".",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 1, "restore <slot>"); err != nil {
				return err
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			doc, err := sess.Restore(args[0])
			if doc == nil {
				return err
			}

			if err != nil {
				o.Warn("backup restored but not saved", describe(err))
			}

			o.Println("Restored", tripLabel(doc), "from", args[0])

			return nil
		},
	}
}
