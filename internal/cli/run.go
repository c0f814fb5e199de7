package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/calvinalkan/gsmeac/internal/config"
	"github.com/calvinalkan/gsmeac/internal/logbook"
	"github.com/calvinalkan/gsmeac/internal/planner"
	"github.com/calvinalkan/gsmeac/internal/store"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

var (
	ErrFlagRequiresArg = errors.New("flag requires an argument")
	ErrUnknownFlag     = errors.New("unknown flag")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUsage           = errors.New("wrong number of arguments")
)

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	if len(args) < minArgs {
		printUsage(out, (&app{}).commands())

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(flags.remaining) == 0 || flags.remaining[0] == "-h" || flags.remaining[0] == helpFlag {
		printUsage(out, (&app{}).commands())

		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: flags.workDir,
		ConfigPath:      flags.configPath,
		PlanDirOverride: flags.planDir,
		BackendOverride: flags.backend,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	a := &app{cfg: cfg, env: env}
	commands := a.commands()

	name := flags.remaining[0]

	idx := -1

	for i, c := range commands {
		if c.Name() == name {
			idx = i

			break
		}
	}

	if idx < 0 {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrUnknownCommand, name))
		printUsage(errOut, commands)

		return 1
	}

	o := NewIO(in, out, errOut)
	code := commands[idx].Run(ctx, o, flags.remaining[1:])

	if err := a.close(); err != nil {
		fprintln(errOut, "error:", describe(err))

		code = 1
	}

	return code
}

// app holds what commands share within one invocation. The session is
// opened on first use so commands that never touch the plan leave the plan
// directory alone.
type app struct {
	cfg  config.Config
	env  map[string]string
	book *logbook.Logbook
	sess *planner.Session

	// deepLink is the section a command asks the session to open at.
	deepLink string
}

func (a *app) logger() logrus.FieldLogger {
	if a.book == nil {
		return logbook.Discard()
	}

	return a.book.Logger()
}

func (a *app) session(ctx context.Context) (*planner.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}

	book, err := logbook.Open(a.cfg.LogDir(), a.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a.book = book

	slots, err := planner.OpenStorage(ctx, a.cfg)
	if err != nil {
		a.logger().WithError(err).Error("cannot open plan storage")

		return nil, err
	}

	a.sess = planner.Open(a.cfg, slots, planner.Options{
		Logger:   a.logger(),
		DeepLink: a.deepLink,
	})

	return a.sess, nil
}

// close flushes pending work and releases the plan directory.
func (a *app) close() error {
	var errs []error

	if a.sess != nil {
		errs = append(errs, a.sess.Close())
	}

	if a.book != nil {
		errs = append(errs, a.book.Close())
	}

	return errors.Join(errs...)
}

// describe turns err into the text shown after "error:".
func describe(err error) string {
	if store.IsQuota(err) {
		return fmt.Sprintf("%s (%v)", store.QuotaMessage, err)
	}

	return err.Error()
}

type globalFlags struct {
	workDir    string
	configPath string
	planDir    string
	backend    string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// valueFlag matches "--name value" and "--name=value" (and the short form,
// when given) at args[idx].
func valueFlag(args []string, idx int, short, long string, dst *string) (int, error) {
	arg := args[idx]

	if arg == long || (short != "" && arg == short) {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		*dst = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, long+"="); ok {
		*dst = after

		return consumedOne, nil
	}

	return consumedNone, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory); -C<dir> is accepted too
	if arg != "-C" && arg != "-c" {
		if after, ok := strings.CutPrefix(arg, "-C"); ok && !strings.HasPrefix(arg, "--") {
			flags.workDir = after

			return consumedOne, nil
		}
	}

	targets := []struct {
		short, long string
		dst         *string
	}{
		{"-C", "--cwd", &flags.workDir},
		{"-c", "--config", &flags.configPath},
		{"", "--plan-dir", &flags.planDir},
		{"", "--backend", &flags.backend},
	}

	for _, tgt := range targets {
		n, err := valueFlag(args, idx, tgt.short, tgt.long, tgt.dst)
		if err != nil || n > 0 {
			return n, err
		}
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", ErrUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, commands []*Command) {
	fprintln(w, `gsmeac - GSMEAC backpacking trip planner

Usage: gsmeac [options] <command> [args]

Options:
  -C, --cwd <dir>        Run as if started in <dir>
  -c, --config <file>    Use specified config file
  --plan-dir <dir>       Store the plan in <dir>
  --backend <name>       Storage backend: file or sqlite

Commands:`)

	for _, c := range commands {
		fprintln(w, c.HelpLine())
	}
}
