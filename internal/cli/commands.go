package cli

import (
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"
)

// commands lists every command in help order.
func (a *app) commands() []*Command {
	return []*Command{
		a.showCmd(),
		a.getCmd(),
		a.setCmd(),
		a.statusCmd(),
		a.gotoCmd(),
		a.nextCmd(),
		a.prevCmd(),
		a.validateCmd(),
		a.summaryCmd(),
		a.reportCmd(),
		a.gearCmd(),
		a.dayCmd(),
		a.linkCmd(),
		a.saveCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.resetCmd(),
		a.backupsCmd(),
		a.restoreCmd(),
		a.wizardCmd(),
		a.logCmd(),
		a.printConfigCmd(),
	}
}

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func wantArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("%w: usage: gsmeac %s", ErrUsage, usage)
	}

	return nil
}

func printJSON(o *IO, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	o.Println(string(data))

	return nil
}
