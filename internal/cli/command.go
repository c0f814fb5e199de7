package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one gsmeac subcommand. The same values serve the one-shot CLI
// and the wizard, which rebuilds them per line so flag state never leaks
// between wizard commands.
type Command struct {
	// Flags holds the command's own flags. Global flags (-C, -c, --plan-dir,
	// --backend) are parsed by [Run] before the command is looked up.
	Flags *flag.FlagSet

	// Usage is the command line after "gsmeac", for example
	// "set <path> <value> [--json]". Its first word is the command name.
	Usage string

	// Short is the summary shown in "gsmeac --help" and the wizard's help.
	Short string

	// Long replaces Short in "gsmeac <cmd> --help" when set.
	Long string

	// Exec runs against the remaining positional args. Commands that touch
	// the plan open the session through the app lazily.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine returns the command's row in the command listing.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-28s %s", c.Usage, c.Short)
}

// PrintHelp prints "gsmeac <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: gsmeac", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags == nil || !c.Flags.HasFlags() {
		return
	}

	var buf strings.Builder

	c.Flags.SetOutput(&buf)
	c.Flags.PrintDefaults()

	o.Println()
	o.Println("Flags:")
	o.Printf("%s", buf.String())
}

// Run parses flags, executes the command and returns its exit code. A flag
// error prints the usage line to stderr; --help prints the full help to
// stdout. Exec errors go through describe so a full store reads as the
// storage-full message.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	if c.Flags == nil {
		c.Flags = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	}

	c.Flags.SetOutput(&strings.Builder{})

	err := c.Flags.Parse(args)

	switch {
	case errors.Is(err, flag.ErrHelp):
		c.PrintHelp(o)

		return 0
	case err != nil:
		o.ErrPrintln("error:", err)
		o.ErrPrintln("usage: gsmeac", c.Usage)

		return 1
	}

	if err := c.Exec(ctx, o, c.Flags.Args()); err != nil {
		o.ErrPrintln("error:", describe(err))

		return 1
	}

	return o.Finish()
}
