package cli

import (
	"context"
	"path/filepath"

	"github.com/calvinalkan/gsmeac/internal/logbook"
)

func (a *app) printConfigCmd() *Command {
	return &Command{
		Flags: newFlags("print-config"),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			o.Println("effective_cwd=" + a.cfg.EffectiveCwd)

			for _, kv := range a.cfg.Pairs() {
				o.Println(kv[0] + "=" + kv[1])
			}

			o.Println("")
			o.Println("# sources")

			if a.cfg.Sources.Global == "" && a.cfg.Sources.Project == "" {
				o.Println("(defaults only)")
			} else {
				if a.cfg.Sources.Global != "" {
					o.Println("global_config=" + a.cfg.Sources.Global)
				}

				if a.cfg.Sources.Project != "" {
					o.Println("project_config=" + a.cfg.Sources.Project)
				}
			}

			return nil
		},
	}
}

func (a *app) logCmd() *Command {
	flags := newFlags("log")
	lines := flags.IntP("lines", "n", 20, "Number of entries to show")

	return &Command{
		Flags: flags,
		Usage: "log [-n lines]",
		Short: "Show recent log entries",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := wantArgs(args, 0, "log [-n lines]"); err != nil {
				return err
			}

			entries, err := logbook.Tail(filepath.Join(a.cfg.LogDir(), logbook.FileName), *lines)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				o.Println("(no log entries)")
			}

			for _, e := range entries {
				o.Println(e)
			}

			return nil
		},
	}
}
